// Command swmodule runs the software module console: the HTTP dialog server
// and terminal commands to add, edit and list modules.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout, os.Stderr, nil).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	swmodule "github.com/goliatone/go-swmodule"
	"github.com/goliatone/go-swmodule/internal/config"
	"github.com/goliatone/go-swmodule/pkg/renderers/tui"
)

// cli carries state shared by the subcommands.
type cli struct {
	out     io.Writer
	errOut  io.Writer
	driver  tui.PromptDriver
	cfgFile string
	app     *swmodule.App
}

// newRootCommand builds the command tree. A nil driver prompts through
// survey on the terminal.
func newRootCommand(out, errOut io.Writer, driver tui.PromptDriver) *cobra.Command {
	c := &cli{out: out, errOut: errOut, driver: driver}
	defaults := config.Default()

	root := &cobra.Command{
		Use:           "swmodule",
		Short:         "Add and edit software modules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (YAML)")
	flags.String("locale", defaults.Locale, "message locale")
	flags.String("store.path", defaults.Store.Path, "snapshot file of the module store (empty keeps it in memory)")
	flags.String("log.level", defaults.Log.Level, "log level (debug, info, warn, error)")
	flags.String("theme.name", defaults.Theme.Name, "dialog theme")
	flags.String("theme.variant", defaults.Theme.Variant, "dialog theme variant")
	flags.Bool("validation.strict_versions", defaults.Validation.StrictVersions, "require semantic versions")
	flags.String("actor", defaults.Actor, "user recorded on created and modified modules")

	root.AddCommand(
		c.serveCommand(),
		c.addCommand(),
		c.editCommand(),
		c.listCommand(),
		c.typesCommand(),
		c.renderCommand(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context(), config.LoadOptions{File: c.cfgFile, Flags: cmd.Flags()})
	if err != nil {
		fmt.Fprintln(c.errOut, errorStyle.Render(err.Error()))
		return err
	}
	logger := swmodule.NewLogger(c.errOut, cfg.LogLevel(), "swmodule")
	app, err := swmodule.New(cmd.Context(), *cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		return err
	}
	if cfg.Store.Path == "" && cmd.Name() != "serve" && cmd.Name() != "render" {
		logger.Warn("store.path is empty, changes are kept in memory only")
	}
	c.app = app
	return nil
}

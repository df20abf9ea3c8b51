package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or declined
	// the final save confirmation.
	ErrAborted = errors.New("tui: aborted")
)

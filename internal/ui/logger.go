package ui

import (
	"io"

	"github.com/pterm/pterm"
)

// NewLogger returns the structured console logger used across the app
func NewLogger(w io.Writer, debug bool) *pterm.Logger {
	level := pterm.LogLevelInfo
	if debug {
		level = pterm.LogLevelDebug
	}
	return pterm.DefaultLogger.WithLevel(level).WithWriter(w)
}

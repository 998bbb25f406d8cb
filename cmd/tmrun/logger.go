package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

func newLogger(quiet, verbose bool) zerolog.Logger {
	if quiet {
		return zerolog.Nop()
	}
	level := zerolog.InfoLevel
	if verbose {
		// Per-check progress lines live at debug.
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "tmrun").Logger()
}

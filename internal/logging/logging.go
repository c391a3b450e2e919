// Package logging builds the shared logger every component of the core
// draws from, rather than each package constructing its own.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Options selects the output format and level for New.
type Options struct {
	JSON    bool
	Level   string // parsed with logrus.ParseLevel; empty defaults to Info
	Output  *os.File
}

// New builds a *logrus.Logger configured per opts. Output defaults to
// os.Stderr so stdout stays free for any future pretty-printer consumer.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	level := logrus.InfoLevel
	if opts.Level != "" {
		if parsed, err := logrus.ParseLevel(opts.Level); err == nil {
			level = parsed
		}
	}
	logger.SetLevel(level)

	return logger
}

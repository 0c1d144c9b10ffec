// Copyright (c) 2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package build

import (
	"os"

	"github.com/btcsuite/btclog"
)

// LogType selects where package loggers write, chosen with build tags.
type LogType byte

const (
	// LogTypeNone disables logging.
	LogTypeNone LogType = iota

	// LogTypeStdErr writes every package logger straight to standard
	// error.  Standard output is left to command results.
	LogTypeStdErr

	// LogTypeDefault hands package loggers to the application, which
	// writes them to standard error and the log rotator.
	LogTypeDefault
)

// String returns a human readable identifier for the logging type.
func (t LogType) String() string {
	switch t {
	case LogTypeNone:
		return "none"
	case LogTypeStdErr:
		return "stderr"
	case LogTypeDefault:
		return "default"
	default:
		return "unknown"
	}
}

// NewSubLogger returns the logger a package uses before the application
// replaces it through the package's UseLogger.  genSubLogger builds a logger
// from the application backend.  When it is nil, production builds get a
// disabled logger so that the datacash packages stay quiet when imported as a
// library.
func NewSubLogger(subsystem string,
	genSubLogger func(string) btclog.Logger) btclog.Logger {

	if IsProdBuild() {
		if genSubLogger != nil {
			return genSubLogger(subsystem)
		}
		return btclog.Disabled
	}

	switch LoggingType {
	case LogTypeDefault:
		if genSubLogger != nil {
			return genSubLogger(subsystem)
		}

	// Test builds log each package on its own backend at the level picked
	// by the build tags.
	case LogTypeStdErr:
		logger := btclog.NewBackend(os.Stderr).Logger(subsystem)
		level, _ := btclog.LevelFromString(LogLevel)
		logger.SetLevel(level)
		return logger
	}

	return btclog.Disabled
}

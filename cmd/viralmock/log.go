// Copyright (c) 2013-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter implements an io.Writer that outputs to both standard output and
// the write-end pipe of an initialized log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	if logRotator == nil {
		return len(p), nil
	}
	return logRotator.Write(p)
}

var (
	// backendLog is the logging backend used to create all subsystem
	// loggers. The backend must not be used before the log rotator has
	// been initialized, or data races and/or nil pointer dereferences
	// will occur.
	backendLog = slog.NewBackend(logWriter{})

	// logRotator is one of the logging outputs. It should be closed on
	// application shutdown.
	logRotator *rotator.Rotator

	log = backendLog.Logger("MOCK")
)

// initLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory. It must be called before the
// package-global log rotater variables are used.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		return fmt.Errorf("failed to create log directory: %v", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %v", err)
	}

	logRotator = r
	return nil
}

// setLogLevel sets the log level of the mock. Invalid levels are rejected.
func setLogLevel(logLevel string) error {
	level, ok := slog.LevelFromString(logLevel)
	if !ok {
		return fmt.Errorf("invalid debug level: %v", logLevel)
	}
	log.SetLevel(level)
	return nil
}

// logClosure is used to provide a closure over expensive logging operations
// so they aren't performed when the logging level doesn't warrant it.
type logClosure func() string

func (c logClosure) String() string {
	return c()
}

func newLogClosure(c func() string) logClosure {
	return logClosure(c)
}

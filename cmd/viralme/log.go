// Copyright (c) 2013-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"
	"github.com/viralloop/viralloop-go/viralloop"
)

// logRotator is the rotating SDK log file. It should be closed on
// application shutdown.
var logRotator *rotator.Rotator

// logWriter implements an io.Writer that outputs to the log rotator and,
// when verbose output is enabled, to standard error.
type logWriter struct {
	verbose bool
}

func (l logWriter) Write(p []byte) (int, error) {
	if l.verbose {
		os.Stderr.Write(p)
	}
	return logRotator.Write(p)
}

// initLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory. The SDK log output is redirected
// to the rotater.
func initLogRotator(logFile string, verbose bool) error {
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

	var w io.Writer = logWriter{verbose: verbose}
	viralloop.SetLogWriter(w)

	return nil
}

// closeLogRotator closes the log file and stops SDK log output.
func closeLogRotator() {
	if logRotator == nil {
		return
	}
	viralloop.SetLogWriter(io.Discard)
	logRotator.Close()
}

// Copyright (c) 2021-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"fmt"

	"github.com/decred/slog"
	errs "github.com/pkg/errors"
)

// stackTracer represents the stack trace functionality for an error from
// pkg/errors.
type stackTracer interface {
	StackTrace() errs.StackTrace
}

// StackTrace returns the stack trace for a pkg/errors error. The returned bool
// indicates whether the provided error carries a pkg/errors stack. Stack
// traces are not available for stdlib errors.
func StackTrace(err error) (string, bool) {
	var e stackTracer
	if !errs.As(err, &e) {
		return "", false
	}
	return fmt.Sprintf("%+v\n", e.StackTrace()), true
}

// LogError logs the error with the provided message prefix at error level.
// The stack trace, when one is available, is logged at debug level so that
// it only shows up when explicitly asked for.
func LogError(log slog.Logger, msg string, err error) {
	log.Errorf("%v: %v", msg, err)
	if st, ok := StackTrace(err); ok {
		log.Debugf("%v stack trace: %v", msg, st)
	}
}

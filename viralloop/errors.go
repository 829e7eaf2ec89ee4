// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package viralloop

import "errors"

var (
	// ErrNotConfigured is returned by Shared when Configure has not been
	// called.
	ErrNotConfigured = errors.New("viralloop not configured, call " +
		"Configure first")

	// ErrUserNotInitialized is returned by operations that need a user
	// when there is none, e.g. after Close.
	ErrUserNotInitialized = errors.New("user not initialized")

	// ErrInvalidLifetimeValue is returned when a lifetime value is
	// negative or not a number.
	ErrInvalidLifetimeValue = errors.New("lifetime value must be a " +
		"non-negative number")
)

// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package kv defines the key-value store interface that the SDK persists its
// state through and the errors that implementations return.
package kv

import (
	"errors"
	"fmt"
)

var (
	// ErrItemNotFound is returned when no entry exists for the requested
	// service and account.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidFormat is returned when a stored entry exists but its bytes
	// cannot be interpreted, e.g. a sealed value that fails to decrypt.
	ErrInvalidFormat = errors.New("invalid item format")

	// ErrShutdown is returned when a store is used after it was closed.
	ErrShutdown = errors.New("store is shutdown")
)

// StatusError is returned for backend failures that do not map onto one of
// the other errors. Code is the backend specific status code.
type StatusError struct {
	Code int
	Err  error
}

// Error satisfies the error interface.
func (e StatusError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store status %v", e.Code)
	}
	return fmt.Sprintf("store status %v: %v", e.Code, e.Err)
}

// Unwrap returns the underlying backend error.
func (e StatusError) Unwrap() error {
	return e.Err
}

// Store is a flat key-value store. Entries are addressed by a service name
// and an account name.
//
// Save has overwrite semantics. Any existing entry for the service and
// account is replaced. Retrieve returns ErrItemNotFound when the entry does
// not exist and ErrInvalidFormat when it cannot be read back. Delete of a
// missing entry is not an error.
type Store interface {
	// Save stores the data under the service and account.
	Save(service, account string, data []byte) error

	// Retrieve returns the data stored under the service and account.
	Retrieve(service, account string) ([]byte, error)

	// Delete removes the entry for the service and account.
	Delete(service, account string) error

	// Close releases the store resources. All subsequent calls return
	// ErrShutdown.
	Close()
}

// Key returns the flat key that an entry is stored under.
func Key(service, account string) string {
	if service == "" {
		return account
	}
	return service + "." + account
}

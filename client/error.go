// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package client

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidResponse is returned when the transport returned neither
	// an error nor a response.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrNoData is returned when the backend replied with an empty body.
	ErrNoData = errors.New("no data received")

	// ErrUnknown is returned when the backend replied with an error status
	// code and a body that does not describe the error.
	ErrUnknown = errors.New("unknown error")
)

// APIError is returned when the backend replies with an HTTP status code of
// 400 or above and an error body.
type APIError struct {
	HTTPCode int
	Message  string // Error code sent by the backend, e.g. duplicate_user
	Detail   string // Optional human readable message
}

// Error satisfies the error interface.
func (e APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %v: %v: %v",
			e.HTTPCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error %v: %v", e.HTTPCode, e.Message)
}

// DecodingError is returned when a reply body cannot be decoded into the
// expected type.
type DecodingError struct {
	Message string
}

// Error satisfies the error interface.
func (e DecodingError) Error() string {
	return "decoding error: " + e.Message
}

// EncodingError is returned when a request payload cannot be encoded.
type EncodingError struct {
	Err error
}

// Error satisfies the error interface.
func (e EncodingError) Error() string {
	return fmt.Sprintf("encoding error: %v", e.Err)
}

// Unwrap returns the underlying encoder error.
func (e EncodingError) Unwrap() error {
	return e.Err
}

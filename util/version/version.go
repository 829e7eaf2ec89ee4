// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version provides the SDK version.
package version

import "fmt"

const (
	// Major, Minor and Patch make up the semantic version of the SDK.
	Major = 1
	Minor = 0
	Patch = 0
)

// String returns the semantic version string.
func String() string {
	return fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
}

// UserAgent returns the User-Agent header value sent by the SDK.
func UserAgent() string {
	return "viralloop-go/" + String()
}

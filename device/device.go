// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package device describes the device, the app and the locale that the SDK
// is running on.
package device

import (
	"strings"

	"github.com/google/uuid"
	v1 "github.com/viralloop/viralloop-go/api/v1"
)

const (
	// Unknown is returned for every value that cannot be determined.
	Unknown = "unknown"

	// DefaultAppVersion and DefaultBuildNumber are used when the host app
	// does not provide its version.
	DefaultAppVersion  = "1.0.0"
	DefaultBuildNumber = "1"
)

// Info describes the device hardware and operating system.
type Info struct {
	DeviceType string // ios, android, macos, linux, windows or unknown
	Brand      string
	Model      string
	OS         string
	OSVersion  string
}

// Fingerprint returns the fingerprint that installations of this device are
// recorded with.
func (i Info) Fingerprint() string {
	return i.Brand + "-" + i.Model + "-" + i.DeviceType
}

// AppInfo describes the host app.
type AppInfo struct {
	Version     string
	BuildNumber string
}

// Provider provides the device, app and locale information that is sent to
// the backend.
type Provider interface {
	// DeviceInfo returns the device description.
	DeviceInfo() Info

	// AppInfo returns the host app version.
	AppInfo() AppInfo

	// GenerateUserID returns a new external user id.
	GenerateUserID() string

	// Connectivity returns the active network type. See the v1
	// Connectivity constants.
	Connectivity() string

	// CountryCode returns the ISO 3166 region of the device locale.
	CountryCode() string

	// Language returns the BCP 47 tag of the device language.
	Language() string

	// Timezone returns the IANA name of the device timezone.
	Timezone() string
}

// newUserID returns a random external user id.
func newUserID() string {
	return strings.ToUpper(uuid.NewString())
}

var (
	_ Provider = (*Fixed)(nil)
)

// Fixed is a Provider that returns fixed values. Empty fields are reported
// as Unknown. A Fixed provider without a UserID generates random ids.
type Fixed struct {
	Info         Info
	App          AppInfo
	UserID       string
	Network      string
	Country      string
	Lang         string
	TimezoneName string
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// DeviceInfo satisfies the Provider interface.
func (f *Fixed) DeviceInfo() Info {
	return Info{
		DeviceType: orUnknown(f.Info.DeviceType),
		Brand:      orUnknown(f.Info.Brand),
		Model:      orUnknown(f.Info.Model),
		OS:         orUnknown(f.Info.OS),
		OSVersion:  orUnknown(f.Info.OSVersion),
	}
}

// AppInfo satisfies the Provider interface.
func (f *Fixed) AppInfo() AppInfo {
	a := f.App
	if a.Version == "" {
		a.Version = DefaultAppVersion
	}
	if a.BuildNumber == "" {
		a.BuildNumber = DefaultBuildNumber
	}
	return a
}

// GenerateUserID satisfies the Provider interface.
func (f *Fixed) GenerateUserID() string {
	if f.UserID != "" {
		return f.UserID
	}
	return newUserID()
}

// Connectivity satisfies the Provider interface.
func (f *Fixed) Connectivity() string {
	switch f.Network {
	case v1.ConnectivityWifi, v1.ConnectivityCellular:
		return f.Network
	}
	return v1.ConnectivityUnknown
}

// CountryCode satisfies the Provider interface.
func (f *Fixed) CountryCode() string { return orUnknown(f.Country) }

// Language satisfies the Provider interface.
func (f *Fixed) Language() string { return orUnknown(f.Lang) }

// Timezone satisfies the Provider interface.
func (f *Fixed) Timezone() string { return orUnknown(f.TimezoneName) }

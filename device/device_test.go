// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package device

import (
	"errors"
	"net"
	"os"
	"testing"

	"github.com/go-test/deep"
	"github.com/google/uuid"
	v1 "github.com/viralloop/viralloop-go/api/v1"
)

const testOSRelease = `# comment
NAME="Ubuntu"
VERSION_ID="22.04"
ID=ubuntu
`

// newTestHost returns a Host with every platform accessor stubbed out.
func newTestHost(goos string, env map[string]string, files map[string]string) *Host {
	h := NewHost(HostConfig{})
	h.goos = goos
	h.getenv = func(k string) string {
		return env[k]
	}
	h.readFile = func(path string) ([]byte, error) {
		v, ok := files[path]
		if !ok {
			return nil, os.ErrNotExist
		}
		return []byte(v), nil
	}
	h.readlink = func(string) (string, error) {
		return "", os.ErrNotExist
	}
	h.interfaces = func() ([]net.Interface, error) {
		return nil, nil
	}
	return h
}

func TestDeviceInfo(t *testing.T) {
	var tests = []struct {
		name  string
		goos  string
		files map[string]string
		want  Info
	}{
		{
			"linux",
			"linux",
			map[string]string{
				osReleasePath: testOSRelease,
				dmiVendorPath: "LENOVO\n",
				dmiModelPath:  "20XW\n",
			},
			Info{"linux", "LENOVO", "20XW", "Ubuntu", "22.04"},
		},
		{
			"linux without metadata",
			"linux",
			nil,
			Info{"linux", Unknown, Unknown, "Linux", Unknown},
		},
		{
			"darwin",
			"darwin",
			nil,
			Info{"macos", "Apple", "Mac", "macOS", Unknown},
		},
		{
			"plan9",
			"plan9",
			nil,
			Info{Unknown, Unknown, Unknown, Unknown, Unknown},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHost(tc.goos, nil, tc.files)
			if diff := deep.Equal(h.DeviceInfo(), tc.want); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	i := Info{DeviceType: "ios", Brand: "Apple", Model: "iPhone"}
	if got := i.Fingerprint(); got != "Apple-iPhone-ios" {
		t.Errorf("got %v", got)
	}
}

func TestAppInfo(t *testing.T) {
	h := NewHost(HostConfig{})
	want := AppInfo{Version: "1.0.0", BuildNumber: "1"}
	if diff := deep.Equal(h.AppInfo(), want); diff != nil {
		t.Error(diff)
	}

	h = NewHost(HostConfig{AppVersion: "2.3.1", BuildNumber: "45"})
	want = AppInfo{Version: "2.3.1", BuildNumber: "45"}
	if diff := deep.Equal(h.AppInfo(), want); diff != nil {
		t.Error(diff)
	}
}

func TestGenerateUserID(t *testing.T) {
	h := NewHost(HostConfig{})
	a, b := h.GenerateUserID(), h.GenerateUserID()
	if a == b {
		t.Errorf("ids are not random: %v", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("id is not a uuid: %v", err)
	}

	h = NewHost(HostConfig{VendorID: "vendor-1"})
	if got := h.GenerateUserID(); got != "vendor-1" {
		t.Errorf("got %v, want vendor-1", got)
	}
}

func TestConnectivity(t *testing.T) {
	up := net.FlagUp
	var tests = []struct {
		name   string
		ifaces []net.Interface
		err    error
		want   string
	}{
		{
			"wifi",
			[]net.Interface{
				{Name: "lo", Flags: up | net.FlagLoopback},
				{Name: "rmnet0", Flags: up},
				{Name: "wlan0", Flags: up},
			},
			nil,
			v1.ConnectivityWifi,
		},
		{
			"cellular",
			[]net.Interface{
				{Name: "wlp2s0", Flags: 0},
				{Name: "pdp_ip0", Flags: up},
			},
			nil,
			v1.ConnectivityCellular,
		},
		{
			"ethernet",
			[]net.Interface{{Name: "eth0", Flags: up}},
			nil,
			v1.ConnectivityUnknown,
		},
		{
			"error",
			nil,
			errors.New("netlink"),
			v1.ConnectivityUnknown,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHost("linux", nil, nil)
			h.interfaces = func() ([]net.Interface, error) {
				return tc.ifaces, tc.err
			}
			if got := h.Connectivity(); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLocale(t *testing.T) {
	var tests = []struct {
		name        string
		env         map[string]string
		wantLang    string
		wantCountry string
	}{
		{
			"lang with codeset",
			map[string]string{"LANG": "de_DE.UTF-8"},
			"de-DE",
			"DE",
		},
		{
			"lc_all wins",
			map[string]string{"LC_ALL": "fr_CA", "LANG": "en_US.UTF-8"},
			"fr-CA",
			"CA",
		},
		{
			"language only",
			map[string]string{"LANG": "en"},
			"en",
			Unknown,
		},
		{
			"posix locale",
			map[string]string{"LANG": "C"},
			Unknown,
			Unknown,
		},
		{
			"unset",
			nil,
			Unknown,
			Unknown,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHost("linux", tc.env, nil)
			if got := h.Language(); got != tc.wantLang {
				t.Errorf("language got %v, want %v", got, tc.wantLang)
			}
			if got := h.CountryCode(); got != tc.wantCountry {
				t.Errorf("country got %v, want %v", got, tc.wantCountry)
			}
		})
	}
}

func TestTimezone(t *testing.T) {
	h := newTestHost("linux", map[string]string{"TZ": "Europe/Berlin"}, nil)
	if got := h.Timezone(); got != "Europe/Berlin" {
		t.Errorf("got %v", got)
	}

	h = newTestHost("linux", nil, nil)
	h.readlink = func(string) (string, error) {
		return "/usr/share/zoneinfo/America/New_York", nil
	}
	if got := h.Timezone(); got != "America/New_York" {
		t.Errorf("got %v", got)
	}

	h = newTestHost("linux", nil, nil)
	if got := h.Timezone(); got != Unknown {
		t.Errorf("got %v, want %v", got, Unknown)
	}
}

func TestFixed(t *testing.T) {
	f := &Fixed{
		Info:    Info{DeviceType: "ios", Brand: "Apple"},
		UserID:  "u1",
		Network: "Satellite",
	}
	want := Info{"ios", "Apple", Unknown, Unknown, Unknown}
	if diff := deep.Equal(f.DeviceInfo(), want); diff != nil {
		t.Error(diff)
	}
	if f.GenerateUserID() != "u1" {
		t.Errorf("user id not fixed")
	}
	if f.Connectivity() != v1.ConnectivityUnknown {
		t.Errorf("invalid connectivity passed through")
	}
	if f.AppInfo().Version != DefaultAppVersion {
		t.Errorf("app version not defaulted")
	}
}

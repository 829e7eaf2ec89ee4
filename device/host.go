// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package device

import (
	"bufio"
	"bytes"
	"net"
	"os"
	"runtime"
	"strings"

	v1 "github.com/viralloop/viralloop-go/api/v1"
	"golang.org/x/text/language"
)

const (
	osReleasePath = "/etc/os-release"
	dmiVendorPath = "/sys/devices/virtual/dmi/id/sys_vendor"
	dmiModelPath  = "/sys/devices/virtual/dmi/id/product_name"
	localtimePath = "/etc/localtime"
)

// Interface name prefixes that identify the network type.
var (
	wifiPrefixes     = []string{"wl", "wlan", "wifi"}
	cellularPrefixes = []string{"wwan", "rmnet", "pdp_ip", "ccmni"}
)

// HostConfig contains the values of the host app that cannot be read from
// the platform.
type HostConfig struct {
	AppVersion  string // Defaults to DefaultAppVersion
	BuildNumber string // Defaults to DefaultBuildNumber

	// VendorID is returned by GenerateUserID when set. Hosts that have a
	// stable per-vendor device identifier provide it here.
	VendorID string
}

var (
	_ Provider = (*Host)(nil)
)

// Host is the Provider for the platform that the process is running on.
type Host struct {
	cfg HostConfig

	// Platform accessors. Replaced in tests.
	goos       string
	getenv     func(string) string
	readFile   func(string) ([]byte, error)
	readlink   func(string) (string, error)
	interfaces func() ([]net.Interface, error)
}

// readValue returns the trimmed contents of a single value file.
func (h *Host) readValue(path string) string {
	b, err := h.readFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// osRelease parses the os-release file into its key value pairs.
func (h *Host) osRelease() map[string]string {
	b, err := h.readFile(osReleasePath)
	if err != nil {
		log.Tracef("osRelease: %v", err)
		return nil
	}
	r := make(map[string]string)
	s := bufio.NewScanner(bytes.NewReader(b))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		r[k] = strings.Trim(v, `"'`)
	}
	return r
}

// DeviceInfo returns the device description derived from the platform.
//
// This function satisfies the Provider interface.
func (h *Host) DeviceInfo() Info {
	var i Info
	switch h.goos {
	case "darwin":
		i = Info{
			DeviceType: "macos",
			Brand:      "Apple",
			Model:      "Mac",
			OS:         "macOS",
		}
	case "ios":
		i = Info{
			DeviceType: "ios",
			Brand:      "Apple",
			OS:         "iOS",
		}
	case "android":
		i = Info{
			DeviceType: "android",
			OS:         "Android",
		}
	case "windows":
		i = Info{
			DeviceType: "windows",
			OS:         "Windows",
		}
	case "linux":
		rel := h.osRelease()
		i = Info{
			DeviceType: "linux",
			Brand:      h.readValue(dmiVendorPath),
			Model:      h.readValue(dmiModelPath),
			OS:         rel["NAME"],
			OSVersion:  rel["VERSION_ID"],
		}
		if i.OS == "" {
			i.OS = "Linux"
		}
	}

	i.DeviceType = orUnknown(i.DeviceType)
	i.Brand = orUnknown(i.Brand)
	i.Model = orUnknown(i.Model)
	i.OS = orUnknown(i.OS)
	i.OSVersion = orUnknown(i.OSVersion)

	return i
}

// AppInfo returns the configured host app version.
//
// This function satisfies the Provider interface.
func (h *Host) AppInfo() AppInfo {
	a := AppInfo{
		Version:     h.cfg.AppVersion,
		BuildNumber: h.cfg.BuildNumber,
	}
	if a.Version == "" {
		a.Version = DefaultAppVersion
	}
	if a.BuildNumber == "" {
		a.BuildNumber = DefaultBuildNumber
	}
	return a
}

// GenerateUserID returns the vendor id when configured and a random UUID
// otherwise.
//
// This function satisfies the Provider interface.
func (h *Host) GenerateUserID() string {
	if h.cfg.VendorID != "" {
		return h.cfg.VendorID
	}
	return newUserID()
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Connectivity returns Wifi when a wireless interface is up, Cellular when
// only a mobile data interface is up and unknown otherwise.
//
// This function satisfies the Provider interface.
func (h *Host) Connectivity() string {
	ifaces, err := h.interfaces()
	if err != nil {
		log.Debugf("Connectivity: %v", err)
		return v1.ConnectivityUnknown
	}

	var cellular bool
	for _, v := range ifaces {
		if v.Flags&net.FlagUp == 0 || v.Flags&net.FlagLoopback != 0 {
			continue
		}
		name := strings.ToLower(v.Name)
		switch {
		case hasAnyPrefix(name, wifiPrefixes):
			return v1.ConnectivityWifi
		case hasAnyPrefix(name, cellularPrefixes):
			cellular = true
		}
	}
	if cellular {
		return v1.ConnectivityCellular
	}
	return v1.ConnectivityUnknown
}

// locale returns the language tag of the process locale.
func (h *Host) locale() (language.Tag, bool) {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := h.getenv(env)
		if v == "" {
			continue
		}
		// Strip the codeset and modifier, e.g. de_DE.UTF-8@euro
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "C" || v == "POSIX" {
			return language.Und, false
		}
		tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
		if err != nil {
			log.Debugf("locale %v=%q: %v", env, v, err)
			return language.Und, false
		}
		return tag, true
	}
	return language.Und, false
}

// CountryCode returns the region of the process locale.
//
// This function satisfies the Provider interface.
func (h *Host) CountryCode() string {
	tag, ok := h.locale()
	if !ok {
		return Unknown
	}
	region, conf := tag.Region()
	if conf != language.Exact {
		return Unknown
	}
	return region.String()
}

// Language returns the BCP 47 tag of the process locale.
//
// This function satisfies the Provider interface.
func (h *Host) Language() string {
	tag, ok := h.locale()
	if !ok {
		return Unknown
	}
	return tag.String()
}

// Timezone returns the TZ environment variable, or the zone that
// /etc/localtime links to.
//
// This function satisfies the Provider interface.
func (h *Host) Timezone() string {
	if tz := strings.TrimPrefix(h.getenv("TZ"), ":"); tz != "" {
		return tz
	}
	target, err := h.readlink(localtimePath)
	if err != nil {
		return Unknown
	}
	_, zone, ok := strings.Cut(target, "zoneinfo/")
	if !ok || zone == "" {
		return Unknown
	}
	return zone
}

// NewHost returns the Provider for the running platform.
func NewHost(cfg HostConfig) *Host {
	return &Host{
		cfg:        cfg,
		goos:       runtime.GOOS,
		getenv:     os.Getenv,
		readFile:   os.ReadFile,
		readlink:   os.Readlink,
		interfaces: net.Interfaces,
	}
}

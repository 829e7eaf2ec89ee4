// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package viralloop

import (
	"net/http"
	"time"

	"github.com/decred/dcrd/dcrutil/v3"
	"github.com/pkg/errors"
	"github.com/viralloop/viralloop-go/cache"
	"github.com/viralloop/viralloop-go/device"
	"github.com/viralloop/viralloop-go/storage"
	"github.com/viralloop/viralloop-go/util"
)

const (
	// DefaultHost is the Viralloop API host.
	DefaultHost = "https://tryviralloop.com"

	// defaultAppName is the app name used to derive the default data dir.
	defaultAppName = "viralloop"
)

var (
	// DefaultDataDir is the directory that the SDK state is saved to when
	// no data dir is configured.
	DefaultDataDir = dcrutil.AppDataDir(defaultAppName, false)
)

// Config contains the SDK settings. APIKey and AppID are required.
type Config struct {
	APIKey string
	AppID  string

	// Host is the API host. Defaults to DefaultHost.
	Host string

	// DataDir is where the SDK state is saved. Defaults to
	// DefaultDataDir. Ignored when Storage is set.
	DataDir string

	// LogLevel sets the level of all SDK loggers when not empty. It
	// accepts everything SetLogLevels accepts, including the mobile SDK
	// levels none, error, warning, info and debug.
	LogLevel string

	// AppVersion and BuildNumber describe the host app. They default to
	// 1.0.0 and 1. Ignored when Device is set.
	AppVersion  string
	BuildNumber string

	// DailyRefresh schedules an hourly check that sends the daily user
	// update when the day has changed. It is meant for long running
	// hosts.
	DailyRefresh bool

	// RedisAddr, when set, caches the referral status in redis instead of
	// in memory. Ignored when StatusCache is set.
	RedisAddr string

	// The fields below replace the default components.
	HTTPClient  *http.Client
	Device      device.Provider
	Storage     *storage.Storage
	StatusCache cache.StatusCache
	Now         func() time.Time
}

// verify checks the required settings and fills in the defaults.
func (c *Config) verify() error {
	switch {
	case c.APIKey == "":
		return errors.Errorf("api key not provided")
	case c.AppID == "":
		return errors.Errorf("app id not provided")
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	c.DataDir = util.CleanAndExpandPath(c.DataDir)
	if c.LogLevel != "" {
		err := SetLogLevels(c.LogLevel)
		if err != nil {
			return err
		}
	}
	if c.Device == nil {
		c.Device = device.NewHost(device.HostConfig{
			AppVersion:  c.AppVersion,
			BuildNumber: c.BuildNumber,
		})
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return nil
}

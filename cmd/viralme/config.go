// Copyright (c) 2017-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/decred/dcrd/dcrutil/v3"
	flags "github.com/jessevdk/go-flags"
	"github.com/viralloop/viralloop-go/util"
	"github.com/viralloop/viralloop-go/util/version"
	"github.com/viralloop/viralloop-go/viralloop"
)

const (
	defaultHomeDirname    = "viralme"
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "viralme.log"
	defaultConfigFilename = "viralme.conf"
	defaultLogLevel       = "info"
	defaultTimeout        = 30 * time.Second
)

var (
	defaultHomeDir = dcrutil.AppDataDir(defaultHomeDirname, false)
)

// config represents the viralme configuration settings.
type config struct {
	HomeDir     string        `long:"appdata" description:"Path to application home directory"`
	Host        string        `long:"host" description:"Viralloop host"`
	APIKey      string        `long:"apikey" description:"Viralloop API key"`
	AppID       string        `long:"appid" description:"Viralloop app id"`
	DebugLevel  string        `long:"debuglevel" description:"SDK logging level {trace, debug, info, warn, error, critical, off} or SUBSYSTEM=level pairs"`
	RedisAddr   string        `long:"redis" description:"Cache the referral status in redis at this address"`
	HTTPSCert   string        `long:"httpscert" description:"File containing the https certificate of the host, e.g. a viralmock certificate"`
	Timeout     time.Duration `long:"timeout" description:"Request timeout"`
	RawJSON     bool          `short:"j" long:"json" description:"Print raw JSON output"`
	Verbose     bool          `short:"v" long:"verbose" description:"Print SDK log output"`
	ShowVersion bool          `long:"version" description:"Display version information and exit"`

	DataDir string // SDK state
	LogDir  string // Rotated SDK logs
}

// loadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative home dir
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// Command line options always take precedence.
func loadConfig() (*config, error) {
	cfg := config{
		HomeDir:    defaultHomeDir,
		Host:       viralloop.DefaultHost,
		DebugLevel: defaultLogLevel,
		Timeout:    defaultTimeout,
	}

	// Pre-parse the command line options to see if an alternative home
	// dir was specified. The help message flag can be ignored since it
	// will be caught when we parse for the command to execute.
	var opts flags.Options = flags.PassDoubleDash | flags.IgnoreUnknown |
		flags.PrintErrors
	parser := flags.NewParser(&cfg, opts)
	_, err := parser.Parse()
	if err != nil {
		return nil, fmt.Errorf("parsing CLI options: %v", err)
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	if cfg.ShowVersion {
		fmt.Printf("%s version %s (Go version %s %s/%s)\n", appName,
			version.String(), runtime.Version(), runtime.GOOS,
			runtime.GOARCH)
		os.Exit(0)
	}

	if cfg.HomeDir != defaultHomeDir {
		homeDir, err := filepath.Abs(util.CleanAndExpandPath(cfg.HomeDir))
		if err != nil {
			return nil, fmt.Errorf("cleaning path: %v", err)
		}
		cfg.HomeDir = homeDir
	}

	// Load options from config file. Ignore errors caused by the config
	// file not existing.
	cfgFile := filepath.Join(cfg.HomeDir, defaultConfigFilename)
	cfgParser := flags.NewParser(&cfg, flags.IgnoreUnknown)
	err = flags.NewIniParser(cfgParser).ParseFile(cfgFile)
	if err != nil {
		var e *os.PathError
		if !errors.As(err, &e) {
			return nil, fmt.Errorf("parsing config file: %v", err)
		}
	}

	// Parse command line options again to ensure they take precedence
	_, err = parser.Parse()
	if err != nil {
		return nil, fmt.Errorf("parsing CLI options: %v", err)
	}

	if cfg.HTTPSCert != "" {
		cfg.HTTPSCert = util.CleanAndExpandPath(cfg.HTTPSCert)
	}
	cfg.DataDir = filepath.Join(cfg.HomeDir, defaultDataDirname)
	cfg.LogDir = filepath.Join(cfg.HomeDir, defaultLogDirname)
	err = os.MkdirAll(cfg.DataDir, 0700)
	if err != nil {
		return nil, fmt.Errorf("MkdirAll %v: %v", cfg.DataDir, err)
	}

	return &cfg, nil
}

// verify checks the settings that commands talking to the backend need.
func (c *config) verify() error {
	switch {
	case c.APIKey == "":
		return fmt.Errorf("apikey is not set; add it to %v or use --apikey",
			filepath.Join(c.HomeDir, defaultConfigFilename))
	case c.AppID == "":
		return fmt.Errorf("appid is not set; add it to %v or use --appid",
			filepath.Join(c.HomeDir, defaultConfigFilename))
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// httpClient returns the HTTP client used to reach the host. A nil client
// uses the SDK default.
func (c *config) httpClient() (*http.Client, error) {
	if c.HTTPSCert == "" {
		return nil, nil
	}
	pool, err := util.LoadCertPool(c.HTTPSCert)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Timeout: c.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				RootCAs: pool,
			},
		},
	}, nil
}

// Copyright (c) 2013-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/decred/dcrd/dcrutil/v3"
	flags "github.com/jessevdk/go-flags"
	"github.com/viralloop/viralloop-go/testbackend"
	"github.com/viralloop/viralloop-go/util"
)

const (
	defaultConfigFilename = "viralmock.conf"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "viralmock.log"
	defaultLogLevel       = "info"
	defaultListenPort     = "8080"
	defaultAppID          = "viralme"
	defaultAPIKey         = "viralme-dev-key"
	defaultHTTPSKeyname   = "https.key"
	defaultHTTPSCertname  = "https.cert"
)

var (
	defaultHomeDir    = dcrutil.AppDataDir("viralmock", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)
	defaultHTTPSKey   = filepath.Join(defaultHomeDir, defaultHTTPSKeyname)
	defaultHTTPSCert  = filepath.Join(defaultHomeDir, defaultHTTPSCertname)
)

// config defines the configuration options for viralmock.
type config struct {
	HomeDir    string `long:"appdata" description:"Path to application home directory"`
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	LogDir     string `long:"logdir" description:"Directory to log output"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`

	Listen              string `long:"listen" description:"Address to listen on (default 127.0.0.1:8080)"`
	TLS                 bool   `long:"tls" description:"Serve https with the certificate in httpscert, generating it when missing"`
	HTTPSCert           string `long:"httpscert" description:"File containing the https certificate file"`
	HTTPSKey            string `long:"httpskey" description:"File containing the https certificate key"`
	AppID               string `long:"appid" description:"App id that the backend serves"`
	APIKey              string `long:"apikey" description:"API key that requests must carry"`
	RequiredInvitations int    `long:"requiredinvitations" description:"Active referrals needed to unlock the reward"`
	UserEnvelope        bool   `long:"userenvelope" description:"Wrap user replies in a {user} envelope"`
}

// loadConfig initializes and parses the config using a config file and
// command line options. Command line options take precedence over the
// config file.
func loadConfig() (*config, error) {
	cfg := config{
		HomeDir:             defaultHomeDir,
		ConfigFile:          defaultConfigFile,
		LogDir:              defaultLogDir,
		DebugLevel:          defaultLogLevel,
		Listen:              "127.0.0.1:" + defaultListenPort,
		HTTPSCert:           defaultHTTPSCert,
		HTTPSKey:            defaultHTTPSKey,
		AppID:               defaultAppID,
		APIKey:              defaultAPIKey,
		RequiredInvitations: testbackend.DefaultRequiredInvitations,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or home dir was specified.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag|flags.PassDoubleDash)
	_, err := preParser.Parse()
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		return nil, err
	}

	if preCfg.HomeDir != defaultHomeDir {
		cfg.HomeDir = util.CleanAndExpandPath(preCfg.HomeDir)
		if preCfg.ConfigFile == defaultConfigFile {
			preCfg.ConfigFile = filepath.Join(cfg.HomeDir,
				defaultConfigFilename)
		}
		if preCfg.LogDir == defaultLogDir {
			cfg.LogDir = filepath.Join(cfg.HomeDir, defaultLogDirname)
		}
		if preCfg.HTTPSCert == defaultHTTPSCert {
			cfg.HTTPSCert = filepath.Join(cfg.HomeDir,
				defaultHTTPSCertname)
		}
		if preCfg.HTTPSKey == defaultHTTPSKey {
			cfg.HTTPSKey = filepath.Join(cfg.HomeDir,
				defaultHTTPSKeyname)
		}
	}
	cfg.ConfigFile = util.CleanAndExpandPath(preCfg.ConfigFile)

	// Load additional config from file. A missing config file is not an
	// error.
	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(cfg.ConfigFile)
	if err != nil {
		var e *os.PathError
		if !errors.As(err, &e) {
			return nil, fmt.Errorf("parse config file: %v", err)
		}
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.Parse()
	if err != nil {
		return nil, err
	}

	cfg.LogDir = util.CleanAndExpandPath(cfg.LogDir)
	cfg.HTTPSCert = util.CleanAndExpandPath(cfg.HTTPSCert)
	cfg.HTTPSKey = util.CleanAndExpandPath(cfg.HTTPSKey)
	cfg.Listen = util.NormalizeAddress(cfg.Listen, defaultListenPort)

	switch {
	case cfg.AppID == "":
		return nil, fmt.Errorf("appid must not be empty")
	case cfg.APIKey == "":
		return nil, fmt.Errorf("apikey must not be empty")
	case cfg.RequiredInvitations < 1:
		return nil, fmt.Errorf("requiredinvitations must be positive")
	}

	// Initialize log rotation. After the log rotation has been
	// initialized, the logger variables may be used.
	err = initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
	if err != nil {
		return nil, err
	}
	err = setLogLevel(cfg.DebugLevel)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Copyright (c) 2017-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// viralme is a demo app for the Viralloop SDK. It onboards the installation
// as a Viralloop user and lets the user share and redeem invites.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
	"github.com/viralloop/viralloop-go/util/version"
	"github.com/viralloop/viralloop-go/viralloop"
)

var (
	// cfg is the global config. It is loaded before any command runs.
	cfg *config
)

type viralme struct {
	// This is here to prevent parsing errors caused by config flags.
	Config config

	// Basic commands
	Help   cmdHelp   `command:"help"`
	WhoAmI cmdWhoAmI `command:"whoami"`

	// Referral commands
	Onboard cmdOnboard `command:"onboard"`
	Invite  cmdInvite  `command:"invite"`
	Status  cmdStatus  `command:"status"`
	Redeem  cmdRedeem  `command:"redeem"`

	// Revenue commands
	Paid cmdPaid `command:"paid"`
	LTV  cmdLTV  `command:"ltv"`

	// Attribution commands
	Attribution cmdAttribution `command:"attribution"`
}

const helpMsg = `Application Options:
      --appdata=     Path to application home directory
      --host=        Viralloop host
      --apikey=      Viralloop API key
      --appid=       Viralloop app id
      --debuglevel=  SDK logging level
      --redis=       Cache the referral status in redis at this address
      --httpscert=   File containing the https certificate of the host
      --timeout=     Request timeout
  -j, --json         Print raw JSON output
  -v, --verbose      Print SDK log output
      --version      Display version information and exit

Help commands
  help               Print detailed help message for a command

Basic commands
  whoami             Print the Viralloop user of this installation

Referral commands
  onboard [code]     Welcome the user and submit an optional referral code
  invite             Print the invite code and share message
  status             Print the invitation progress
  redeem             Redeem the unlocked reward

Revenue commands
  paid <true|false>  Set the paid status of the user
  ltv <amount>       Set the lifetime value of the user in USD

Attribution commands
  attribution <first> <source>  Set the install attribution of the user
`

// withClient runs fn with an SDK client. The client has finished loading
// the user and syncing it with the backend when fn is called. Background
// work that fn starts is finished before withClient returns.
func withClient(fn func(context.Context, *viralloop.Client) error) error {
	err := cfg.verify()
	if err != nil {
		return err
	}
	err = initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename),
		cfg.Verbose)
	if err != nil {
		return err
	}
	defer closeLogRotator()

	hc, err := cfg.httpClient()
	if err != nil {
		return err
	}
	c, err := viralloop.New(viralloop.Config{
		APIKey:      cfg.APIKey,
		AppID:       cfg.AppID,
		Host:        cfg.Host,
		DataDir:     cfg.DataDir,
		LogLevel:    cfg.DebugLevel,
		AppVersion:  version.String(),
		RedisAddr:   cfg.RedisAddr,
		HTTPClient:  hc,
	})
	if err != nil {
		return err
	}
	defer c.Close()
	c.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	err = fn(ctx, c)
	c.Wait()
	return err
}

func _main() error {
	// Load config. The config variable is a global variable.
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %v", err)
	}

	// Check for a help flag. This is done separately so that we can
	// print our own custom help message.
	var opts flags.Options = flags.HelpFlag | flags.IgnoreUnknown |
		flags.PassDoubleDash
	parser := flags.NewParser(&struct{}{}, opts)
	_, err = parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			// The -h, --help flag was used. Print the custom help
			// message and exit gracefully.
			fmt.Printf("%v\n", helpMsg)
			os.Exit(0)
		}
		return fmt.Errorf("parse help flag: %v", err)
	}

	// Parse CLI args and execute command
	parser = flags.NewParser(&viralme{Config: *cfg}, flags.Default)
	_, err = parser.Parse()
	if err != nil {
		// An error has occurred during command execution. go-flags will
		// have already printed the error to os.Stdout. Exit with an
		// error code.
		os.Exit(1)
	}

	return nil
}

func main() {
	err := _main()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

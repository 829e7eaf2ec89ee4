// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// viralmock serves an in-memory Viralloop backend for the viralme demo app
// and for manual testing of the SDK.
package main

import (
	"context"
	"crypto/elliptic"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/viralloop/viralloop-go/testbackend"
	"github.com/viralloop/viralloop-go/util"
	"github.com/viralloop/viralloop-go/util/version"
)

func _main() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %v", err)
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	log.Infof("Version : %v", version.String())
	log.Infof("Home dir: %v", cfg.HomeDir)
	log.Infof("App id  : %v", cfg.AppID)

	b := testbackend.New(cfg.AppID, cfg.APIKey)
	b.RequiredInvitations = cfg.RequiredInvitations
	b.UserEnvelope = cfg.UserEnvelope

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           newRouter(cfg.AppID, b),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Generate the TLS cert and key file if both don't already
	// exist.
	if cfg.TLS && !util.FileExists(cfg.HTTPSKey) &&
		!util.FileExists(cfg.HTTPSCert) {
		log.Infof("Generating HTTPS keypair...")

		err := os.MkdirAll(filepath.Dir(cfg.HTTPSCert), 0700)
		if err != nil {
			return err
		}
		err = util.GenCertPair(elliptic.P256(), "viralmock",
			cfg.HTTPSCert, cfg.HTTPSKey, nil)
		if err != nil {
			return fmt.Errorf("unable to create https keypair: %v",
				err)
		}

		log.Infof("HTTPS keypair created: %v", cfg.HTTPSCert)
	}

	listenC := make(chan error)
	go func() {
		if cfg.TLS {
			log.Infof("Listen: https://%v", cfg.Listen)
			listenC <- srv.ListenAndServeTLS(cfg.HTTPSCert,
				cfg.HTTPSKey)
			return
		}
		log.Infof("Listen: http://%v", cfg.Listen)
		listenC <- srv.ListenAndServe()
	}()

	// Setup OS signals
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigs:
		log.Infof("Terminating with %v", sig)
	case err := <-listenC:
		log.Errorf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(ctx)
	if err != nil {
		log.Errorf("Shutdown: %v", err)
	}

	log.Infof("Exiting")

	return nil
}

func main() {
	err := _main()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

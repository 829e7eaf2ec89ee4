// Copyright (c) 2017-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"crypto/elliptic"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/decred/dcrd/certgen"
)

// GenCertPair generates a self-signed key/cert pair to the paths provided.
// The cert is valid for the local host names and the extra hosts.
func GenCertPair(curve elliptic.Curve, org, certFile, keyFile string, extraHosts []string) error {
	validUntil := time.Now().Add(10 * 365 * 24 * time.Hour)
	cert, key, err := certgen.NewTLSCertPair(curve, org, validUntil,
		extraHosts)
	if err != nil {
		return err
	}

	// Write cert and key files.
	err = WriteFileAtomic(certFile, cert, 0644)
	if err != nil {
		return err
	}
	err = WriteFileAtomic(keyFile, key, 0600)
	if err != nil {
		os.Remove(certFile)
		return err
	}

	return nil
}

// LoadCertPool returns a cert pool that trusts the PEM certificates in the
// provided file.
func LoadCertPool(certFile string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(certFile)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %v", certFile)
	}
	return pool, nil
}

// Copyright (c) 2020-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package securedb

import (
	"os"

	"github.com/marcopeereboom/sbox"
	"github.com/pkg/errors"
	"github.com/viralloop/viralloop-go/util"
)

// keySize is the size of a secretbox key.
const keySize = 32

// zero overwrites the key material in b.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// loadKey returns the secretbox key that seals the values of the database.
// The key is generated and written atomically to keyFile on first use.
func loadKey(keyFile string) (*[keySize]byte, error) {
	if !util.FileExists(keyFile) {
		log.Infof("Generating database key")

		key, err := sbox.NewKey()
		if err != nil {
			return nil, errors.Wrap(err, "new key")
		}
		err = util.WriteFileAtomic(keyFile, key[:], 0400)
		zero(key[:])
		if err != nil {
			return nil, errors.Wrap(err, "write key")
		}

		log.Infof("Database key created: %v", keyFile)
	}

	b, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, errors.Wrap(err, "read key")
	}
	defer zero(b)
	if len(b) != keySize {
		return nil, errors.Errorf("invalid key length in %v: got %v, "+
			"want %v", keyFile, len(b), keySize)
	}

	var key [keySize]byte
	copy(key[:], b)

	log.Debugf("Database key: %v", keyFile)

	return &key, nil
}

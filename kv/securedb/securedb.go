// Copyright (c) 2020-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package securedb implements the kv Store interface using an encrypted
// leveldb database.
package securedb

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/marcopeereboom/sbox"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/viralloop/viralloop-go/kv"
)

const (
	// storeDirname is the directory name, relative to the data dir, that
	// the leveldb database is saved to.
	storeDirname = "secure"

	// encryptionKeyFilename is the filename of the encryption key that is
	// created in the data dir.
	encryptionKeyFilename = "secure-sbox.key"
)

// Status codes of kv.StatusError values returned by this package.
const (
	StatusReadFailed  = 1
	StatusWriteFailed = 2
)

var (
	_ kv.Store = (*SecureDB)(nil)
)

// SecureDB implements the kv Store interface using leveldb. Every value is
// sealed with a secretbox key before it is written to disk.
//
// All exported calls are locked against concurrent access.
type SecureDB struct {
	sync.Mutex
	db       *leveldb.DB
	key      *[32]byte
	shutdown bool
}

// isEncrypted returns whether the provided blob has been prefixed with an
// sbox header.
func isEncrypted(b []byte) bool {
	return bytes.HasPrefix(b, []byte("sbox"))
}

// Save seals the data and stores it under the service and account. The
// existing entry is deleted and the new one written in a single batch.
//
// This function satisfies the kv Store interface.
func (s *SecureDB) Save(service, account string, data []byte) error {
	key := kv.Key(service, account)
	log.Tracef("Save: %v", key)

	s.Lock()
	defer s.Unlock()
	if s.shutdown {
		return kv.ErrShutdown
	}

	sealed, err := sbox.Encrypt(0, s.key, data)
	if err != nil {
		return errors.WithStack(err)
	}

	batch := new(leveldb.Batch)
	batch.Delete([]byte(key))
	batch.Put([]byte(key), sealed)
	err = s.db.Write(batch, nil)
	if err != nil {
		return kv.StatusError{
			Code: StatusWriteFailed,
			Err:  errors.WithStack(err),
		}
	}

	log.Debugf("Saved %v (%v bytes)", key, len(data))

	return nil
}

// Retrieve returns the unsealed data stored under the service and account.
//
// This function satisfies the kv Store interface.
func (s *SecureDB) Retrieve(service, account string) ([]byte, error) {
	key := kv.Key(service, account)
	log.Tracef("Retrieve: %v", key)

	s.Lock()
	defer s.Unlock()
	if s.shutdown {
		return nil, kv.ErrShutdown
	}

	b, err := s.db.Get([]byte(key), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, kv.ErrItemNotFound
	case err != nil:
		return nil, kv.StatusError{
			Code: StatusReadFailed,
			Err:  errors.WithStack(err),
		}
	}

	if !isEncrypted(b) {
		log.Warnf("Entry %v is not sealed", key)
		return nil, kv.ErrInvalidFormat
	}
	data, _, err := sbox.Decrypt(s.key, b)
	if err != nil {
		log.Warnf("Decrypt %v: %v", key, err)
		return nil, kv.ErrInvalidFormat
	}

	return data, nil
}

// Delete removes the entry for the service and account.
//
// This function satisfies the kv Store interface.
func (s *SecureDB) Delete(service, account string) error {
	key := kv.Key(service, account)
	log.Tracef("Delete: %v", key)

	s.Lock()
	defer s.Unlock()
	if s.shutdown {
		return kv.ErrShutdown
	}

	err := s.db.Delete([]byte(key), nil)
	if err != nil {
		return kv.StatusError{
			Code: StatusWriteFailed,
			Err:  errors.WithStack(err),
		}
	}

	log.Debugf("Deleted %v", key)

	return nil
}

// Close closes the database and zeroes the encryption key.
//
// This function satisfies the kv Store interface.
func (s *SecureDB) Close() {
	log.Tracef("Close")

	s.Lock()
	defer s.Unlock()
	if s.shutdown {
		return
	}

	// Prevent any more calls
	s.shutdown = true

	zero(s.key[:])
	s.db.Close()
}

// New opens, creating it if necessary, the secure database in the provided
// data dir. The encryption key is loaded from the data dir and generated on
// first use.
func New(dataDir string) (*SecureDB, error) {
	if dataDir == "" {
		return nil, errors.Errorf("data dir not provided")
	}

	// Setup leveldb data dir
	fp := filepath.Join(dataDir, storeDirname)
	err := os.MkdirAll(fp, 0700)
	if err != nil {
		return nil, err
	}

	// Load encryption key
	keyFile := filepath.Join(dataDir, encryptionKeyFilename)
	key, err := loadKey(keyFile)
	if err != nil {
		return nil, err
	}

	// Open database
	db, err := leveldb.OpenFile(fp, nil)
	if err != nil {
		zero(key[:])
		return nil, errors.Wrap(err, "open leveldb")
	}

	return &SecureDB{
		db:  db,
		key: key,
	}, nil
}

// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package legacydb implements the kv Store interface using a single JSON
// file of flat string keys. It needs nothing but a writable directory, which
// makes it the store of last resort.
package legacydb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/viralloop/viralloop-go/kv"
	"github.com/viralloop/viralloop-go/util"
)

const (
	// defaultsFilename is the filename of the JSON file, relative to the
	// data dir, that entries are saved to.
	defaultsFilename = "defaults.json"

	// StatusWriteFailed is the kv.StatusError code returned when the
	// defaults file cannot be written.
	StatusWriteFailed = 1
)

var (
	_ kv.Store = (*LegacyDB)(nil)
)

// LegacyDB implements the kv Store interface. Entries are kept in memory and
// the full set is rewritten to disk on every change.
type LegacyDB struct {
	sync.Mutex
	path     string
	entries  map[string]string
	shutdown bool
}

// flush writes the entries to disk. This function must be called with the
// lock held.
func (l *LegacyDB) flush() error {
	b, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return err
	}
	err = util.WriteFileAtomic(l.path, b, 0600)
	if err != nil {
		return kv.StatusError{
			Code: StatusWriteFailed,
			Err:  errors.WithStack(err),
		}
	}
	return nil
}

// Save stores the data under the service and account.
//
// This function satisfies the kv Store interface.
func (l *LegacyDB) Save(service, account string, data []byte) error {
	key := kv.Key(service, account)
	log.Tracef("Save: %v", key)

	l.Lock()
	defer l.Unlock()
	if l.shutdown {
		return kv.ErrShutdown
	}

	prev, ok := l.entries[key]
	l.entries[key] = string(data)
	err := l.flush()
	if err != nil {
		// Keep memory consistent with disk
		if ok {
			l.entries[key] = prev
		} else {
			delete(l.entries, key)
		}
		return err
	}

	log.Debugf("Saved %v", key)

	return nil
}

// Retrieve returns the data stored under the service and account.
//
// This function satisfies the kv Store interface.
func (l *LegacyDB) Retrieve(service, account string) ([]byte, error) {
	key := kv.Key(service, account)
	log.Tracef("Retrieve: %v", key)

	l.Lock()
	defer l.Unlock()
	if l.shutdown {
		return nil, kv.ErrShutdown
	}

	v, ok := l.entries[key]
	if !ok {
		return nil, kv.ErrItemNotFound
	}
	return []byte(v), nil
}

// Delete removes the entry for the service and account.
//
// This function satisfies the kv Store interface.
func (l *LegacyDB) Delete(service, account string) error {
	key := kv.Key(service, account)
	log.Tracef("Delete: %v", key)

	l.Lock()
	defer l.Unlock()
	if l.shutdown {
		return kv.ErrShutdown
	}

	prev, ok := l.entries[key]
	if !ok {
		return nil
	}
	delete(l.entries, key)
	err := l.flush()
	if err != nil {
		l.entries[key] = prev
		return err
	}

	log.Debugf("Deleted %v", key)

	return nil
}

// Close marks the store as shut down. Entries are already on disk.
//
// This function satisfies the kv Store interface.
func (l *LegacyDB) Close() {
	log.Tracef("Close")

	l.Lock()
	defer l.Unlock()

	l.shutdown = true
	l.entries = nil
}

// New returns a LegacyDB that is backed by the defaults file in the provided
// data dir. A defaults file that cannot be parsed is logged and replaced on
// the next write.
func New(dataDir string) (*LegacyDB, error) {
	if dataDir == "" {
		return nil, errors.Errorf("data dir not provided")
	}
	err := os.MkdirAll(dataDir, 0700)
	if err != nil {
		return nil, err
	}

	fp := filepath.Join(dataDir, defaultsFilename)
	entries := make(map[string]string)
	b, err := os.ReadFile(fp)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run
	case err != nil:
		return nil, err
	default:
		err = json.Unmarshal(b, &entries)
		if err != nil {
			log.Warnf("Ignoring unreadable %v: %v", fp, err)
			entries = make(map[string]string)
		}
		if entries == nil {
			// The file contained a JSON null.
			entries = make(map[string]string)
		}
	}

	log.Debugf("Loaded %v entries from %v", len(entries), fp)

	return &LegacyDB{
		path:    fp,
		entries: entries,
	}, nil
}

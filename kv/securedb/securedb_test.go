// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package securedb

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/viralloop/viralloop-go/kv"
)

const (
	testService = "com.viralloop.secure"
	testAccount = "userId"
)

func newTestDB(t *testing.T) (*SecureDB, string) {
	t.Helper()

	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, dir
}

func TestSaveRetrieve(t *testing.T) {
	s, _ := newTestDB(t)
	defer s.Close()

	_, err := s.Retrieve(testService, testAccount)
	if !errors.Is(err, kv.ErrItemNotFound) {
		t.Fatalf("got %v, want %v", err, kv.ErrItemNotFound)
	}

	// Overwrite semantics
	for _, v := range []string{"first", "second"} {
		err = s.Save(testService, testAccount, []byte(v))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := s.Retrieve(testService, testAccount)
		if err != nil {
			t.Fatalf("Retrieve: %v", err)
		}
		if string(got) != v {
			t.Errorf("got %s, want %s", got, v)
		}
	}

	err = s.Delete(testService, testAccount)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = s.Retrieve(testService, testAccount)
	if !errors.Is(err, kv.ErrItemNotFound) {
		t.Errorf("after delete got %v, want %v", err, kv.ErrItemNotFound)
	}

	// Deleting a missing entry is not an error
	err = s.Delete(testService, testAccount)
	if err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestValuesSealedOnDisk(t *testing.T) {
	s, dir := newTestDB(t)
	secret := []byte("a7c1c6e4-user-id")
	err := s.Save(testService, testAccount, secret)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Read the raw leveldb value
	db, err := leveldb.OpenFile(filepath.Join(dir, storeDirname), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	raw, err := db.Get([]byte(kv.Key(testService, testAccount)), nil)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, secret) {
		t.Errorf("plaintext found on disk")
	}
	if !isEncrypted(raw) {
		t.Errorf("value is missing the sbox header")
	}
}

func TestReopen(t *testing.T) {
	s, dir := newTestDB(t)
	err := s.Save(testService, testAccount, []byte("persisted"))
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = New(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Retrieve(testService, testAccount)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "persisted" {
		t.Errorf("got %s", got)
	}
}

func TestInvalidFormat(t *testing.T) {
	s, _ := newTestDB(t)
	defer s.Close()

	key := []byte(kv.Key(testService, testAccount))

	// Unsealed value
	err := s.db.Put(key, []byte("plain"), nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Retrieve(testService, testAccount)
	if !errors.Is(err, kv.ErrInvalidFormat) {
		t.Errorf("unsealed: got %v, want %v", err, kv.ErrInvalidFormat)
	}

	// Sealed header with garbage
	err = s.db.Put(key, []byte("sbox garbage"), nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Retrieve(testService, testAccount)
	if !errors.Is(err, kv.ErrInvalidFormat) {
		t.Errorf("garbage: got %v, want %v", err, kv.ErrInvalidFormat)
	}
}

func TestShutdown(t *testing.T) {
	s, _ := newTestDB(t)
	s.Close()
	s.Close()

	err := s.Save(testService, testAccount, []byte("x"))
	if !errors.Is(err, kv.ErrShutdown) {
		t.Errorf("Save got %v", err)
	}
	_, err = s.Retrieve(testService, testAccount)
	if !errors.Is(err, kv.ErrShutdown) {
		t.Errorf("Retrieve got %v", err)
	}
	err = s.Delete(testService, testAccount)
	if !errors.Is(err, kv.ErrShutdown) {
		t.Errorf("Delete got %v", err)
	}
}

func TestLoadKey(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), encryptionKeyFilename)

	k1, err := loadKey(keyFile)
	if err != nil {
		t.Fatalf("create key: %v", err)
	}
	k2, err := loadKey(keyFile)
	if err != nil {
		t.Fatalf("load key: %v", err)
	}
	if *k1 != *k2 {
		t.Errorf("reloaded key does not match the created key")
	}
}

func TestTruncatedKey(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, encryptionKeyFilename)
	err := os.WriteFile(keyFile, []byte("short"), 0600)
	if err != nil {
		t.Fatal(err)
	}

	_, err = loadKey(keyFile)
	if err == nil {
		t.Fatalf("truncated key accepted")
	}
	_, err = New(dir)
	if err == nil {
		t.Fatalf("database opened with a truncated key")
	}
}

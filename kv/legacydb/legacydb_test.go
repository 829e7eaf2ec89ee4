// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package legacydb

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
	"github.com/viralloop/viralloop-go/kv"
)

func TestLegacyDB(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}

	_, err = l.Retrieve("", "com.viralloop.userId")
	if !errors.Is(err, kv.ErrItemNotFound) {
		t.Fatalf("got %v, want %v", err, kv.ErrItemNotFound)
	}

	err = l.Save("", "com.viralloop.userId", []byte("u1"))
	if err != nil {
		t.Fatal(err)
	}
	err = l.Save("", "com.viralloop.referralCode", []byte("ABC123"))
	if err != nil {
		t.Fatal(err)
	}
	err = l.Delete("", "com.viralloop.referralCode")
	if err != nil {
		t.Fatal(err)
	}
	l.Close()

	// Verify the on disk format is a flat JSON object
	b, err := os.ReadFile(filepath.Join(dir, defaultsFilename))
	if err != nil {
		t.Fatal(err)
	}
	var onDisk map[string]string
	err = json.Unmarshal(b, &onDisk)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"com.viralloop.userId": "u1"}
	if diff := deep.Equal(onDisk, want); diff != nil {
		t.Error(diff)
	}

	// Reopen
	l, err = New(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	got, err := l.Retrieve("", "com.viralloop.userId")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "u1" {
		t.Errorf("got %s, want u1", got)
	}
}

func TestCorruptDefaultsFile(t *testing.T) {
	var tests = []struct {
		name     string
		contents string
	}{
		{"invalid json", "{not json"},
		{"json null", "null"},
		{"wrong type", `["a","b"]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			fp := filepath.Join(dir, defaultsFilename)
			err := os.WriteFile(fp, []byte(tc.contents), 0600)
			if err != nil {
				t.Fatal(err)
			}

			l, err := New(dir)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer l.Close()

			err = l.Save("", "k", []byte("v"))
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := l.Retrieve("", "k")
			if err != nil || string(got) != "v" {
				t.Errorf("got %s %v", got, err)
			}
		})
	}
}

func TestClosed(t *testing.T) {
	l, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	l.Close()

	_, err = l.Retrieve("", "k")
	if !errors.Is(err, kv.ErrShutdown) {
		t.Errorf("got %v, want %v", err, kv.ErrShutdown)
	}
}

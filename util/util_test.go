// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"bytes"
	"crypto/elliptic"
	"crypto/tls"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decred/slog"
	errs "github.com/pkg/errors"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "defaults.json")

	for _, payload := range []string{`{"a":"1"}`, `{"a":"2"}`} {
		err := WriteFileAtomic(fp, []byte(payload), 0600)
		if err != nil {
			t.Fatalf("WriteFileAtomic: %v", err)
		}
		b, err := os.ReadFile(fp)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != payload {
			t.Errorf("got %s, want %s", b, payload)
		}
	}

	// No temporary files may be left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("got %v dir entries, want 1", len(entries))
	}
}

func TestStackTrace(t *testing.T) {
	_, ok := StackTrace(errors.New("plain"))
	if ok {
		t.Errorf("stdlib error reported a stack trace")
	}
	st, ok := StackTrace(errs.Wrap(errors.New("plain"), "wrapped"))
	if !ok || !strings.Contains(st, "TestStackTrace") {
		t.Errorf("missing stack trace: %v %q", ok, st)
	}
}

func TestLogError(t *testing.T) {
	var b bytes.Buffer
	log := slog.NewBackend(&b).Logger("TEST")
	log.SetLevel(slog.LevelDebug)

	LogError(log, "register user", errs.New("boom"))
	out := b.String()
	if !strings.Contains(out, "[ERR] TEST: register user: boom") {
		t.Errorf("missing error line: %q", out)
	}
	if !strings.Contains(out, "stack trace") {
		t.Errorf("missing stack trace line: %q", out)
	}
}

func TestIndentJSON(t *testing.T) {
	got := IndentJSON([]byte(`{"a":1}`))
	want := "{\n  \"a\": 1\n}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := IndentJSON([]byte("nope")); got != "nope" {
		t.Errorf("invalid JSON altered: %q", got)
	}
}

func TestNormalizeAddress(t *testing.T) {
	var tests = []struct {
		addr string
		want string
	}{
		{"127.0.0.1", "127.0.0.1:8080"},
		{"127.0.0.1:9000", "127.0.0.1:9000"},
		{":9000", "127.0.0.1:9000"},
		{"", "127.0.0.1:8080"},
		{"::1", "[::1]:8080"},
	}
	for _, tc := range tests {
		got := NormalizeAddress(tc.addr, "8080")
		if got != tc.want {
			t.Errorf("%q: got %v, want %v", tc.addr, got, tc.want)
		}
	}
}

func TestRemoteAddr(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	if got := RemoteAddr(r); got != "10.0.0.1:1234" {
		t.Errorf("got %v", got)
	}
	r.Header.Set(HeaderForwardedFor, "1.2.3.4")
	if got := RemoteAddr(r); got != "1.2.3.4 via 10.0.0.1:1234" {
		t.Errorf("got %v", got)
	}
}

func TestParseGetParams(t *testing.T) {
	var q struct {
		Method string `schema:"method"`
		Path   string `schema:"path"`
	}
	r := httptest.NewRequest("GET", "/admin?method=PUT&path=users/u1&x=1",
		nil)
	err := ParseGetParams(r, &q)
	if err != nil {
		t.Fatal(err)
	}
	if q.Method != "PUT" || q.Path != "users/u1" {
		t.Errorf("got %+v", q)
	}
}

func TestGenCertPair(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "https.cert")
	keyFile := filepath.Join(dir, "https.key")

	err := GenCertPair(elliptic.P256(), "viralmock", certFile, keyFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		t.Fatalf("load key pair: %v", err)
	}
	_, err = LoadCertPool(certFile)
	if err != nil {
		t.Fatal(err)
	}
	_, err = LoadCertPool(keyFile)
	if err == nil {
		t.Errorf("key file accepted as a certificate")
	}
}

// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"testing"
	"time"

	"github.com/go-test/deep"
	v1 "github.com/viralloop/viralloop-go/api/v1"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	return c.t
}

func TestMemory(t *testing.T) {
	c := &clock{t: time.Unix(1700000000, 0)}
	m := New(c.now)

	_, ok := m.Get()
	if ok {
		t.Fatalf("empty cache returned a status")
	}

	status := v1.ReferralStatus{
		ActiveReferrals:      1,
		RequiredInvitations:  3,
		RemainingInvitations: 2,
		ReferralCode:         "ABC123",
	}
	m.Put(status)

	var tests = []struct {
		name    string
		elapsed time.Duration
		wantOK  bool
	}{
		{"fresh", 0, true},
		{"just before expiry", 299 * time.Second, true},
		{"at expiry", 300 * time.Second, false},
		{"long expired", time.Hour, false},
	}
	start := c.t
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c.t = start.Add(tc.elapsed)
			got, ok := m.Get()
			if ok != tc.wantOK {
				t.Fatalf("got ok %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if diff := deep.Equal(*got, status); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestMemoryOverwriteAndClear(t *testing.T) {
	c := &clock{t: time.Unix(1700000000, 0)}
	m := New(c.now)

	m.Put(v1.ReferralStatus{ActiveReferrals: 1})
	c.t = c.t.Add(200 * time.Second)
	m.Put(v1.ReferralStatus{ActiveReferrals: 2})

	// The second put restarts the TTL
	c.t = c.t.Add(200 * time.Second)
	got, ok := m.Get()
	if !ok || got.ActiveReferrals != 2 {
		t.Fatalf("got %+v %v", got, ok)
	}

	m.Clear()
	_, ok = m.Get()
	if ok {
		t.Errorf("status returned after Clear")
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	m := New(nil)
	m.Put(v1.ReferralStatus{ReferralCode: "ABC123"})

	got, _ := m.Get()
	got.ReferralCode = "changed"

	got, _ = m.Get()
	if got.ReferralCode != "ABC123" {
		t.Errorf("cached status was mutated: %v", got.ReferralCode)
	}
}

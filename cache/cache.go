// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cache provides the single slot referral status cache.
package cache

import (
	"sync"
	"time"

	v1 "github.com/viralloop/viralloop-go/api/v1"
)

// TTL is how long a cached referral status stays valid.
const TTL = 300 * time.Second

// StatusCache caches the most recently fetched referral status.
type StatusCache interface {
	// Put caches the status, replacing any cached status.
	Put(s v1.ReferralStatus)

	// Get returns the cached status. The bool is false when nothing is
	// cached or the cached status is older than TTL.
	Get() (*v1.ReferralStatus, bool)

	// Clear discards the cached status.
	Clear()
}

var (
	_ StatusCache = (*Memory)(nil)
)

// entry is a cached status and the time it was cached.
type entry struct {
	status    v1.ReferralStatus
	timestamp time.Time
}

// valid returns whether the entry is still valid at the provided time.
func (e *entry) valid(now time.Time) bool {
	return now.Sub(e.timestamp) < TTL
}

// Memory is an in-memory StatusCache.
type Memory struct {
	sync.Mutex
	now   func() time.Time
	entry *entry
}

// Put caches the status with the current time.
//
// This function satisfies the StatusCache interface.
func (m *Memory) Put(s v1.ReferralStatus) {
	m.Lock()
	defer m.Unlock()

	m.entry = &entry{
		status:    s,
		timestamp: m.now(),
	}

	log.Tracef("Cached referral status %+v", s)
}

// Get returns the cached status if it is still valid.
//
// This function satisfies the StatusCache interface.
func (m *Memory) Get() (*v1.ReferralStatus, bool) {
	m.Lock()
	defer m.Unlock()

	if m.entry == nil {
		return nil, false
	}
	if !m.entry.valid(m.now()) {
		log.Debugf("Cached referral status expired")
		return nil, false
	}
	s := m.entry.status
	return &s, true
}

// Clear discards the cached status.
//
// This function satisfies the StatusCache interface.
func (m *Memory) Clear() {
	m.Lock()
	defer m.Unlock()

	m.entry = nil

	log.Tracef("Cleared referral status cache")
}

// New returns an in-memory StatusCache that uses the provided clock. A nil
// clock uses time.Now.
func New(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		now: now,
	}
}

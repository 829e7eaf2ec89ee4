// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fallback provides a kv Store that composes a primary store with a
// secondary store that selected entries fall back to.
package fallback

import (
	"errors"

	"github.com/viralloop/viralloop-go/kv"
)

// Policy describes how an entry uses the secondary store.
type Policy int

const (
	// PolicyNone entries live in the primary store only.
	PolicyNone Policy = iota

	// PolicyFallback entries are written to the secondary store only when
	// the primary write fails.
	PolicyFallback

	// PolicyMirror entries are written to both stores.
	PolicyMirror
)

// String returns the human readable policy name.
func (p Policy) String() string {
	switch p {
	case PolicyFallback:
		return "fallback"
	case PolicyMirror:
		return "mirror"
	default:
		return "none"
	}
}

// Route maps a primary entry onto the secondary store.
type Route struct {
	Service string
	Account string
	Policy  Policy
}

var (
	_ kv.Store = (*Store)(nil)
)

// Store implements the kv Store interface on top of a primary and a
// secondary store. Reads prefer the primary store.
type Store struct {
	primary   kv.Store
	secondary kv.Store
	routes    map[string]Route
}

// route returns the secondary route for a primary entry.
func (s *Store) route(service, account string) (Route, bool) {
	r, ok := s.routes[kv.Key(service, account)]
	if !ok || r.Policy == PolicyNone {
		return Route{}, false
	}
	return r, true
}

// Save stores the data according to the policy of the entry.
//
// This function satisfies the kv Store interface.
func (s *Store) Save(service, account string, data []byte) error {
	r, ok := s.route(service, account)
	if !ok {
		return s.primary.Save(service, account, data)
	}

	key := kv.Key(service, account)
	perr := s.primary.Save(service, account, data)
	switch {
	case r.Policy == PolicyFallback && perr == nil:
		return nil
	case perr != nil:
		log.Warnf("Primary save %v failed, using %v: %v",
			key, kv.Key(r.Service, r.Account), perr)
	}

	serr := s.secondary.Save(r.Service, r.Account, data)
	if serr != nil {
		if perr != nil {
			return perr
		}
		// Mirror copy only
		log.Warnf("Mirror save %v: %v", kv.Key(r.Service, r.Account), serr)
	}

	log.Tracef("Saved %v (%v)", key, r.Policy)

	return nil
}

// Retrieve returns the primary entry. Routed entries that cannot be read
// from the primary store are read from the secondary store.
//
// This function satisfies the kv Store interface.
func (s *Store) Retrieve(service, account string) ([]byte, error) {
	b, perr := s.primary.Retrieve(service, account)
	if perr == nil {
		return b, nil
	}
	r, ok := s.route(service, account)
	if !ok {
		return nil, perr
	}
	if !errors.Is(perr, kv.ErrItemNotFound) {
		log.Warnf("Primary retrieve %v: %v", kv.Key(service, account), perr)
	}

	b, serr := s.secondary.Retrieve(r.Service, r.Account)
	switch {
	case serr == nil:
		log.Debugf("Read %v from %v", kv.Key(service, account),
			kv.Key(r.Service, r.Account))
		return b, nil
	case errors.Is(serr, kv.ErrItemNotFound):
		return nil, perr
	default:
		return nil, serr
	}
}

// Delete removes the entry from the primary store and, for routed entries,
// from the secondary store. The first error encountered is returned.
//
// This function satisfies the kv Store interface.
func (s *Store) Delete(service, account string) error {
	perr := s.primary.Delete(service, account)
	r, ok := s.route(service, account)
	if !ok {
		return perr
	}
	serr := s.secondary.Delete(r.Service, r.Account)
	if perr != nil {
		return perr
	}
	return serr
}

// Close closes both stores.
//
// This function satisfies the kv Store interface.
func (s *Store) Close() {
	s.primary.Close()
	s.secondary.Close()
}

// New returns a Store. The routes are keyed by the kv.Key of the primary
// entry.
func New(primary, secondary kv.Store, routes map[string]Route) *Store {
	r := make(map[string]Route, len(routes))
	for k, v := range routes {
		r[k] = v
	}
	return &Store{
		primary:   primary,
		secondary: secondary,
		routes:    r,
	}
}

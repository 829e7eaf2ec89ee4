// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage persists the SDK state: the user id, the referral code,
// the installation history and the time of the last daily update.
package storage

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/viralloop/viralloop-go/kv"
	"github.com/viralloop/viralloop-go/kv/fallback"
	"github.com/viralloop/viralloop-go/kv/legacydb"
	"github.com/viralloop/viralloop-go/kv/securedb"
)

const (
	// SecureService is the service that secure entries are saved under.
	SecureService = "com.viralloop.secure"

	// Secure store accounts.
	AccountUserID              = "userId"
	AccountReferralCode        = "referralCode"
	AccountInstallationHistory = "installationHistory"

	// Legacy store keys. Legacy entries have no service.
	LegacyUserID       = "com.viralloop.userId"
	LegacyReferralCode = "com.viralloop.referralCode"
	LegacyLastUpdate   = "com.viralloop.lastUpdate"
)

// InstallationRecord records a single launch of the SDK on a device.
type InstallationRecord struct {
	Timestamp         int64   `json:"timestamp"` // Unix time
	DeviceFingerprint string  `json:"deviceFingerprint"`
	ReferralCode      *string `json:"referralCode,omitempty"`
}

// Storage provides typed access to the SDK state.
type Storage struct {
	secure kv.Store // Secure entries with legacy fallback
	raw    kv.Store // Secure store only
	legacy kv.Store
}

// SaveUserID saves the external user id. The id is kept in the legacy store
// when the secure store cannot be written.
func (s *Storage) SaveUserID(userID string) error {
	err := s.secure.Save(SecureService, AccountUserID, []byte(userID))
	if err != nil {
		return errors.Wrap(err, "save user id")
	}
	return nil
}

// UserID returns the external user id. The bool is false when no user id
// has been saved.
func (s *Storage) UserID() (string, bool) {
	return s.retrieveString(s.secure, SecureService, AccountUserID)
}

// SaveReferralCode saves the referral code of the user to both the secure
// and the legacy store.
func (s *Storage) SaveReferralCode(code string) error {
	err := s.secure.Save(SecureService, AccountReferralCode, []byte(code))
	if err != nil {
		return errors.Wrap(err, "save referral code")
	}
	return nil
}

// ReferralCode returns the locally saved referral code.
func (s *Storage) ReferralCode() (string, bool) {
	return s.retrieveString(s.secure, SecureService, AccountReferralCode)
}

// HasReferralCode returns whether a referral code has been saved locally.
func (s *Storage) HasReferralCode() bool {
	_, ok := s.ReferralCode()
	return ok
}

// RecordInstallation appends an installation record to the installation
// history.
func (s *Storage) RecordInstallation(fingerprint string, referralCode *string, ts time.Time) error {
	history := s.InstallationHistory()
	history = append(history, InstallationRecord{
		Timestamp:         ts.Unix(),
		DeviceFingerprint: fingerprint,
		ReferralCode:      referralCode,
	})
	b, err := json.Marshal(history)
	if err != nil {
		return err
	}
	err = s.raw.Save(SecureService, AccountInstallationHistory, b)
	if err != nil {
		return errors.Wrap(err, "save installation history")
	}

	log.Debugf("Recorded installation %v (%v total)",
		fingerprint, len(history))

	return nil
}

// InstallationHistory returns the installation history, oldest first. A
// missing or unreadable history yields an empty list.
func (s *Storage) InstallationHistory() []InstallationRecord {
	b, err := s.raw.Retrieve(SecureService, AccountInstallationHistory)
	switch {
	case errors.Is(err, kv.ErrItemNotFound):
		return []InstallationRecord{}
	case err != nil:
		log.Warnf("Retrieve installation history: %v", err)
		return []InstallationRecord{}
	}

	var history []InstallationRecord
	err = json.Unmarshal(b, &history)
	if err != nil {
		log.Warnf("Decode installation history: %v", err)
		return []InstallationRecord{}
	}
	if history == nil {
		history = []InstallationRecord{}
	}
	return history
}

// LastUpdate returns the time of the last daily update. The bool is false
// when no daily update has been recorded.
func (s *Storage) LastUpdate() (time.Time, bool) {
	v, ok := s.retrieveString(s.legacy, "", LegacyLastUpdate)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		log.Warnf("Invalid last update %q: %v", v, err)
		return time.Time{}, false
	}
	return t, true
}

// SaveLastUpdate saves the time of the last daily update.
func (s *Storage) SaveLastUpdate(t time.Time) error {
	v := t.Format(time.RFC3339Nano)
	err := s.legacy.Save("", LegacyLastUpdate, []byte(v))
	if err != nil {
		return errors.Wrap(err, "save last update")
	}
	return nil
}

// MigrateLegacy copies the user id and the referral code from the legacy
// store into the secure store. The legacy user id is removed once the copy
// succeeds. The legacy referral code is kept. Failures are logged and the
// legacy copies are left in place.
func (s *Storage) MigrateLegacy() {
	userID, ok := s.retrieveString(s.legacy, "", LegacyUserID)
	if ok {
		err := s.raw.Save(SecureService, AccountUserID, []byte(userID))
		if err != nil {
			log.Warnf("Failed to migrate user id, keeping legacy copy: %v",
				err)
		} else {
			err = s.legacy.Delete("", LegacyUserID)
			if err != nil {
				log.Warnf("Remove legacy user id: %v", err)
			}
			log.Infof("Migrated user id %v to the secure store", userID)
		}
	}

	code, ok := s.retrieveString(s.legacy, "", LegacyReferralCode)
	if ok {
		err := s.raw.Save(SecureService, AccountReferralCode, []byte(code))
		if err != nil {
			log.Warnf("Failed to migrate referral code: %v", err)
		} else {
			log.Infof("Migrated referral code to the secure store")
		}
	}
}

// Close closes the underlying stores.
func (s *Storage) Close() {
	s.secure.Close()
}

// retrieveString returns a non-empty string entry. Read errors other than a
// missing entry are logged.
func (s *Storage) retrieveString(store kv.Store, service, account string) (string, bool) {
	b, err := store.Retrieve(service, account)
	switch {
	case errors.Is(err, kv.ErrItemNotFound):
		return "", false
	case err != nil:
		log.Warnf("Retrieve %v: %v", kv.Key(service, account), err)
		return "", false
	}
	v := strings.TrimSpace(string(b))
	if v == "" {
		return "", false
	}
	return v, true
}

// routes returns the legacy fallback routes of the secure entries.
func routes() map[string]fallback.Route {
	return map[string]fallback.Route{
		kv.Key(SecureService, AccountUserID): {
			Account: LegacyUserID,
			Policy:  fallback.PolicyFallback,
		},
		kv.Key(SecureService, AccountReferralCode): {
			Account: LegacyReferralCode,
			Policy:  fallback.PolicyMirror,
		},
	}
}

// New returns a Storage that keeps secure entries in the secure store and
// falls back to the legacy store. The Storage takes ownership of both.
func New(secure, legacy kv.Store) *Storage {
	return &Storage{
		secure: fallback.New(secure, legacy, routes()),
		raw:    secure,
		legacy: legacy,
	}
}

// Open opens the secure and legacy stores in the provided data dir. The
// legacy store is required. When the secure store cannot be opened its
// entries are kept in the legacy store only.
func Open(dataDir string) (*Storage, error) {
	legacy, err := legacydb.New(dataDir)
	if err != nil {
		return nil, err
	}

	var secure kv.Store
	sdb, err := securedb.New(dataDir)
	if err != nil {
		log.Warnf("Secure store unavailable, using legacy store: %v", err)
		secure = unavailable{err: err}
	} else {
		secure = sdb
	}

	return New(secure, legacy), nil
}

// unavailable is the kv Store used in place of a secure store that could
// not be opened. Every call fails.
type unavailable struct {
	err error
}

func (u unavailable) Save(string, string, []byte) error {
	return kv.StatusError{Code: -1, Err: u.err}
}

func (u unavailable) Retrieve(string, string) ([]byte, error) {
	return nil, kv.StatusError{Code: -1, Err: u.err}
}

func (u unavailable) Delete(string, string) error {
	return nil
}

func (u unavailable) Close() {}

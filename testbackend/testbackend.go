// Copyright (c) 2017-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package testbackend provides an in-memory implementation of the Viralloop
// API that can be used for testing and for running the demo app without
// access to the real service.
package testbackend

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	v1 "github.com/viralloop/viralloop-go/api/v1"
	"github.com/viralloop/viralloop-go/util"
)

// DefaultRequiredInvitations is the number of active referrals a user needs
// to unlock the reward.
const DefaultRequiredInvitations = 3

// Error codes returned by the backend.
const (
	ErrorUnauthorized    = "unauthorized"
	ErrorAppNotFound     = "app_not_found"
	ErrorInvalidBody     = "invalid_body"
	ErrorDuplicateUser   = "duplicate_user"
	ErrorUserNotFound    = "user_not_found"
	ErrorInvalidCode     = "invalid_code"
	ErrorSelfReferral    = "self_referral"
	ErrorAlreadyReferred = "already_referred"
	ErrorRewardsLocked   = "rewards_locked"
)

// Request is a request that the backend received.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Failure is a canned error reply.
type Failure struct {
	HTTPCode int
	Error    string
	Message  string
}

// account is the backend state of a registered user.
type account struct {
	user       v1.User
	invitees   []string
	referredBy string
	redeemed   bool
}

// Backend is an in-memory Viralloop backend. It satisfies the http Handler
// interface.
type Backend struct {
	sync.Mutex
	appID  string
	apiKey string
	router *mux.Router

	accounts map[string]*account // [userID]account
	codes    map[string]string   // [referralCode]userID
	requests []Request

	// The fields below change the behavior of the backend. They must be
	// set before the backend serves requests or while holding the lock.

	// RequiredInvitations is the number of active referrals that unlocks
	// the reward.
	RequiredInvitations int

	// UserEnvelope wraps user replies in a {user} envelope.
	UserEnvelope bool

	// RegistrationFailure, when set, is returned for every registration.
	RegistrationFailure *Failure

	// RegistrationGate, when set, blocks registrations until it is closed.
	RegistrationGate chan struct{}

	// CodeFor returns the referral code of a newly registered user.
	CodeFor func(userID string) string

	// OnEdit is called with the user after a paid status or lifetime value
	// edit has been applied. It can be used to emulate server side
	// adjustments of the submitted values.
	OnEdit func(u *v1.User)
}

// ServeHTTP satisfies the http Handler interface.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Requests returns the requests the backend has received, oldest first.
func (b *Backend) Requests() []Request {
	b.Lock()
	defer b.Unlock()

	r := make([]Request, len(b.requests))
	copy(r, b.requests)
	return r
}

// Count returns the number of received requests with the provided method and
// path. The path is relative to the app API root, e.g. users/u1.
func (b *Backend) Count(method, path string) int {
	b.Lock()
	defer b.Unlock()

	full := v1.APIPath(b.appID, path)
	var n int
	for _, v := range b.requests {
		if v.Method == method && v.Path == full {
			n++
		}
	}
	return n
}

// User returns a copy of the registered user.
func (b *Backend) User(userID string) (v1.User, bool) {
	b.Lock()
	defer b.Unlock()

	a, ok := b.accounts[userID]
	if !ok {
		return v1.User{}, false
	}
	return a.user, true
}

// AddUser registers a user directly, bypassing the API. The user is
// assigned a referral code if it has none.
func (b *Backend) AddUser(u v1.User) v1.User {
	b.Lock()
	defer b.Unlock()

	return b.register(u)
}

// AddReferral records an active referral of the invitee by the inviter.
// Both users must exist.
func (b *Backend) AddReferral(inviterID, inviteeID string) bool {
	b.Lock()
	defer b.Unlock()

	inviter, ok := b.accounts[inviterID]
	if !ok {
		return false
	}
	invitee, ok := b.accounts[inviteeID]
	if !ok {
		return false
	}
	inviter.invitees = append(inviter.invitees, inviteeID)
	invitee.referredBy = inviterID
	return true
}

// register adds the user and returns the stored copy. This function must be
// called with the lock held.
func (b *Backend) register(u v1.User) v1.User {
	if u.ReferralCode == nil || *u.ReferralCode == "" {
		code := b.CodeFor(u.ExternalUserID)
		u.ReferralCode = &code
	}
	b.accounts[u.ExternalUserID] = &account{
		user: u,
	}
	b.codes[*u.ReferralCode] = u.ExternalUserID
	return u
}

// status returns the invitation progress of an account. This function must
// be called with the lock held.
func (b *Backend) status(a *account) v1.ReferralStatus {
	active := len(a.invitees)
	remaining := b.RequiredInvitations - active
	if remaining < 0 {
		remaining = 0
	}
	var code string
	if a.user.ReferralCode != nil {
		code = *a.user.ReferralCode
	}
	return v1.ReferralStatus{
		ActiveReferrals:      active,
		RequiredInvitations:  b.RequiredInvitations,
		RemainingInvitations: remaining,
		IsCompleted:          a.redeemed,
		ReferralCode:         code,
	}
}

// respondUser writes a user reply.
func (b *Backend) respondUser(w http.ResponseWriter, code int, u v1.User) {
	if b.UserEnvelope {
		util.RespondWithJSON(w, code, v1.UserReply{User: &u})
		return
	}
	util.RespondWithJSON(w, code, u)
}

func respondFailure(w http.ResponseWriter, f Failure) {
	util.RespondWithJSON(w, f.HTTPCode, v1.ErrorReply{
		Error:   f.Error,
		Message: f.Message,
	})
}

// recordRequest is a middleware that records every request.
func (b *Backend) recordRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		b.Lock()
		b.requests = append(b.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Body:   body,
		})
		b.Unlock()

		next.ServeHTTP(w, r)
	})
}

// authenticate is a middleware that verifies the app id and the api key.
func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.apiKey {
			util.RespondWithError(w, http.StatusUnauthorized,
				ErrorUnauthorized)
			return
		}
		if mux.Vars(r)["appid"] != b.appID {
			util.RespondWithError(w, http.StatusNotFound,
				ErrorAppNotFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// New returns a new Backend that serves the provided app.
func New(appID, apiKey string) *Backend {
	b := &Backend{
		appID:               appID,
		apiKey:              apiKey,
		accounts:            make(map[string]*account),
		codes:               make(map[string]string),
		RequiredInvitations: DefaultRequiredInvitations,
		CodeFor: func(string) string {
			return strings.ToUpper(strings.ReplaceAll(
				uuid.NewString(), "-", "")[:6])
		},
	}

	router := mux.NewRouter()
	router.Use(b.recordRequest)
	api := router.PathPrefix("/api/apps/{appid}").Subrouter()
	api.Use(b.authenticate)
	api.HandleFunc("/"+v1.RouteUsers, b.handleUserNew).
		Methods(http.MethodPost)
	api.HandleFunc("/users/{userid}", b.handleUserDetails).
		Methods(http.MethodGet)
	api.HandleFunc("/users/{userid}", b.handleUserEdit).
		Methods(http.MethodPut)
	api.HandleFunc("/users/{userid}/attribution", b.handleAttribution).
		Methods(http.MethodPut)
	api.HandleFunc("/users/{userid}/referral-status",
		b.handleReferralStatus).Methods(http.MethodGet)
	api.HandleFunc("/users/{userid}/submit-referral",
		b.handleSubmitReferral).Methods(http.MethodPost)
	api.HandleFunc("/users/{userid}/redeem-rewards",
		b.handleRedeemRewards).Methods(http.MethodPost)
	b.router = router

	return b
}

// now is used for relationship activation dates.
var now = time.Now

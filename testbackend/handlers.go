// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package testbackend

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	v1 "github.com/viralloop/viralloop-go/api/v1"
	"github.com/viralloop/viralloop-go/util"
)

// lookup returns the account of the user in the request route. A
// user_not_found reply is written if the user does not exist. This function
// must be called with the lock held.
func (b *Backend) lookup(w http.ResponseWriter, r *http.Request) (*account, bool) {
	a, ok := b.accounts[mux.Vars(r)["userid"]]
	if !ok {
		util.RespondWithError(w, http.StatusNotFound, ErrorUserNotFound)
		return nil, false
	}
	return a, true
}

func (b *Backend) handleUserNew(w http.ResponseWriter, r *http.Request) {
	var u v1.User
	err := json.NewDecoder(r.Body).Decode(&u)
	if err != nil || u.ExternalUserID == "" {
		util.RespondWithError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	b.Lock()
	gate := b.RegistrationGate
	b.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	b.Lock()
	defer b.Unlock()

	if f := b.RegistrationFailure; f != nil {
		respondFailure(w, *f)
		return
	}
	if _, ok := b.accounts[u.ExternalUserID]; ok {
		respondFailure(w, Failure{
			HTTPCode: http.StatusConflict,
			Error:    ErrorDuplicateUser,
			Message:  "user already registered",
		})
		return
	}

	// The referral code is assigned by the backend
	u.ReferralCode = nil
	u = b.register(u)

	b.respondUser(w, http.StatusCreated, u)
}

func (b *Backend) handleUserDetails(w http.ResponseWriter, r *http.Request) {
	b.Lock()
	defer b.Unlock()

	a, ok := b.lookup(w, r)
	if !ok {
		return
	}

	b.respondUser(w, http.StatusOK, a.user)
}

// handleUserEdit handles both the paid status edit and the daily metadata
// update. They share the route and are told apart by their fields.
func (b *Backend) handleUserEdit(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	err := json.NewDecoder(r.Body).Decode(&fields)
	if err != nil {
		util.RespondWithError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	b.Lock()
	defer b.Unlock()

	a, ok := b.lookup(w, r)
	if !ok {
		return
	}

	if _, ok := fields["isPaidUser"]; ok {
		var e v1.UserEdit
		err = remarshal(fields, &e)
		if err != nil {
			util.RespondWithError(w, http.StatusBadRequest, ErrorInvalidBody)
			return
		}
		if e.LifetimeValueUSD < 0 {
			util.RespondWithError(w, http.StatusBadRequest, ErrorInvalidBody)
			return
		}
		a.user.IsPaidUser = e.IsPaidUser
		a.user.LifetimeValueUSD = e.LifetimeValueUSD
		if b.OnEdit != nil {
			b.OnEdit(&a.user)
		}
	} else {
		var d v1.UserDailyUpdate
		err = remarshal(fields, &d)
		if err != nil {
			util.RespondWithError(w, http.StatusBadRequest, ErrorInvalidBody)
			return
		}
		u := &a.user
		u.DeviceType = d.DeviceType
		u.DeviceBrand = d.DeviceBrand
		u.DeviceModel = d.DeviceModel
		u.OperatingSystem = d.OperatingSystem
		u.OSVersion = d.OSVersion
		u.AppVersion = d.AppVersion
		u.AppBuildNumber = d.AppBuildNumber
		u.CountryCode = d.CountryCode
		u.Connectivity = d.Connectivity
		u.DeviceLanguage = d.DeviceLanguage
		u.Timezone = d.Timezone
	}

	b.respondUser(w, http.StatusOK, a.user)
}

func (b *Backend) handleAttribution(w http.ResponseWriter, r *http.Request) {
	var au v1.AttributionUpdate
	err := json.NewDecoder(r.Body).Decode(&au)
	if err != nil {
		util.RespondWithError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	b.Lock()
	defer b.Unlock()

	a, ok := b.lookup(w, r)
	if !ok {
		return
	}
	if au.FirstReferralSource != nil {
		a.user.FirstReferralSource = au.FirstReferralSource
	}
	if au.AttributionSource != nil {
		a.user.AttributionSource = au.AttributionSource
	}

	b.respondUser(w, http.StatusOK, a.user)
}

func (b *Backend) handleReferralStatus(w http.ResponseWriter, r *http.Request) {
	b.Lock()
	defer b.Unlock()

	a, ok := b.lookup(w, r)
	if !ok {
		return
	}

	util.RespondWithJSON(w, http.StatusOK, v1.ReferralStatusReply{
		ReferralStatus: b.status(a),
	})
}

func (b *Backend) handleSubmitReferral(w http.ResponseWriter, r *http.Request) {
	var rs v1.ReferralSubmission
	err := json.NewDecoder(r.Body).Decode(&rs)
	if err != nil {
		util.RespondWithError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	b.Lock()
	defer b.Unlock()

	invitee, ok := b.lookup(w, r)
	if !ok {
		return
	}
	inviterID, ok := b.codes[rs.ReferralCode]
	switch {
	case !ok:
		respondFailure(w, Failure{
			HTTPCode: http.StatusNotFound,
			Error:    ErrorInvalidCode,
			Message:  "referral code does not exist",
		})
		return
	case inviterID == invitee.user.ExternalUserID:
		util.RespondWithError(w, http.StatusBadRequest, ErrorSelfReferral)
		return
	case invitee.referredBy != "":
		util.RespondWithError(w, http.StatusConflict, ErrorAlreadyReferred)
		return
	}

	inviter := b.accounts[inviterID]
	inviter.invitees = append(inviter.invitees, invitee.user.ExternalUserID)
	invitee.referredBy = inviterID

	util.RespondWithJSON(w, http.StatusOK, v1.ReferralSubmissionReply{
		Success: true,
		Relationship: v1.Relationship{
			ID:             uuid.NewString(),
			Status:         "active",
			ActivationDate: now().UTC().Format(time.RFC3339),
		},
	})
}

func (b *Backend) handleRedeemRewards(w http.ResponseWriter, r *http.Request) {
	b.Lock()
	defer b.Unlock()

	a, ok := b.lookup(w, r)
	if !ok {
		return
	}
	s := b.status(a)
	if !s.RedeemUnlocked() {
		respondFailure(w, Failure{
			HTTPCode: http.StatusForbidden,
			Error:    ErrorRewardsLocked,
			Message:  "not enough active referrals",
		})
		return
	}
	a.redeemed = true

	util.RespondWithJSON(w, http.StatusOK, b.status(a))
}

// remarshal decodes a field map into v.
func remarshal(fields map[string]json.RawMessage, v interface{}) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

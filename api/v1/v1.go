// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package v1

import (
	"encoding/json"
	"fmt"
)

const (
	// APIRoute is prefixed onto all routes defined in this package. The
	// app id is substituted into the route by the client.
	APIRoute = "/api/apps/%v/"

	// RouteUsers registers a new user.
	RouteUsers = "users"

	// RouteUser returns or edits the user with the given external user
	// id.
	RouteUser = "users/%v"

	// RouteAttribution sets the attribution data of a user.
	RouteAttribution = "users/%v/attribution"

	// RouteReferralStatus returns the referral status of a user.
	RouteReferralStatus = "users/%v/referral-status"

	// RouteSubmitReferral submits the referral code of the user that
	// invited this user.
	RouteSubmitReferral = "users/%v/submit-referral"

	// RouteRedeemRewards redeems the rewards that a user has unlocked.
	RouteRedeemRewards = "users/%v/redeem-rewards"

	// ConnectivityWifi, ConnectivityCellular and ConnectivityUnknown are
	// the valid User connectivity values.
	ConnectivityWifi     = "Wifi"
	ConnectivityCellular = "Cellular"
	ConnectivityUnknown  = "unknown"
)

// APIPath returns the API path, relative to the host, of the provided route
// for the provided app.
func APIPath(appID, route string) string {
	return fmt.Sprintf(APIRoute, appID) + route
}

// UserRoute returns a route that is scoped to the provided external user id.
func UserRoute(route, userID string) string {
	return fmt.Sprintf(route, userID)
}

// User represents a single app installation that has been registered with
// the backend. It is the request body of a RouteUsers POST and the reply of
// every user route.
//
// LifetimeValueUSD and AppBuildNumber are decoded leniently. See
// UnmarshalJSON.
type User struct {
	ExternalUserID      string  `json:"externalUserId"`
	DeviceType          string  `json:"deviceType"`
	DeviceBrand         string  `json:"deviceBrand"`
	DeviceModel         string  `json:"deviceModel"`
	OperatingSystem     string  `json:"operatingSystem"`
	OSVersion           string  `json:"osVersion"`
	AppVersion          string  `json:"appVersion"`
	AppBuildNumber      string  `json:"appBuildNumber"`
	IsPaidUser          bool    `json:"isPaidUser"`
	LifetimeValueUSD    float64 `json:"lifetimeValueUsd"`
	ReferralCode        *string `json:"referralCode,omitempty"`
	CountryCode         string  `json:"countryCode,omitempty"`
	Connectivity        string  `json:"connectivity,omitempty"`
	DeviceLanguage      string  `json:"deviceLanguage,omitempty"`
	Timezone            string  `json:"timezone,omitempty"`
	FirstReferralSource *string `json:"firstReferralSource,omitempty"`
	AttributionSource   *string `json:"attributionSource,omitempty"`
}

// userJSON has the same fields as User. It is used to decode a User without
// recursing into User.UnmarshalJSON.
type userJSON User

// UnmarshalJSON satisfies the json Unmarshaler interface. The backend sends
// the lifetime value and the build number as either numbers or strings.
// Values that cannot be coerced fall back to their defaults and a warning is
// logged instead of failing the decode.
func (u *User) UnmarshalJSON(b []byte) error {
	aux := struct {
		*userJSON
		LifetimeValueUSD json.RawMessage `json:"lifetimeValueUsd"`
		AppBuildNumber   json.RawMessage `json:"appBuildNumber"`
	}{
		userJSON: (*userJSON)(u),
	}
	err := json.Unmarshal(b, &aux)
	if err != nil {
		return err
	}

	u.LifetimeValueUSD = lenientFloat("lifetimeValueUsd",
		aux.LifetimeValueUSD, 0)
	if u.LifetimeValueUSD < 0 {
		log.Warnf("lifetimeValueUsd: negative value %v; using 0",
			u.LifetimeValueUSD)
		u.LifetimeValueUSD = 0
	}
	u.AppBuildNumber = lenientString("appBuildNumber",
		aux.AppBuildNumber, "0")

	return nil
}

// UserReply is the envelope that some backend versions wrap a User in.
type UserReply struct {
	User *User `json:"user"`
}

// UserEdit is the request body of a RouteUser PUT that updates the paid
// status and lifetime value of a user.
type UserEdit struct {
	IsPaidUser       bool    `json:"isPaidUser"`
	LifetimeValueUSD float64 `json:"lifetimeValueUsd"`
}

// UserDailyUpdate is the request body of the once per day RouteUser PUT that
// refreshes the device metadata of a user.
type UserDailyUpdate struct {
	DeviceType      string `json:"deviceType"`
	DeviceBrand     string `json:"deviceBrand"`
	DeviceModel     string `json:"deviceModel"`
	OperatingSystem string `json:"operatingSystem"`
	OSVersion       string `json:"osVersion"`
	AppVersion      string `json:"appVersion"`
	AppBuildNumber  string `json:"appBuildNumber"`
	CountryCode     string `json:"countryCode"`
	Connectivity    string `json:"connectivity"`
	DeviceLanguage  string `json:"deviceLanguage"`
	Timezone        string `json:"timezone"`
}

// AttributionUpdate is the request body of RouteAttribution.
type AttributionUpdate struct {
	FirstReferralSource *string `json:"firstReferralSource,omitempty"`
	AttributionSource   *string `json:"attributionSource,omitempty"`
}

// ReferralStatus describes the invitation progress of a user.
type ReferralStatus struct {
	ActiveReferrals      int    `json:"activeReferrals"`
	RequiredInvitations  int    `json:"requiredInvitations"`
	RemainingInvitations int    `json:"remainingInvitations"`
	IsCompleted          bool   `json:"isCompleted"`
	ReferralCode         string `json:"referralCode"`
}

type referralStatusJSON ReferralStatus

// UnmarshalJSON satisfies the json Unmarshaler interface. The referral
// counts are accepted as numbers or numeric strings.
func (s *ReferralStatus) UnmarshalJSON(b []byte) error {
	aux := struct {
		*referralStatusJSON
		ActiveReferrals      json.RawMessage `json:"activeReferrals"`
		RequiredInvitations  json.RawMessage `json:"requiredInvitations"`
		RemainingInvitations json.RawMessage `json:"remainingInvitations"`
	}{
		referralStatusJSON: (*referralStatusJSON)(s),
	}
	err := json.Unmarshal(b, &aux)
	if err != nil {
		return err
	}

	s.ActiveReferrals = lenientInt("activeReferrals",
		aux.ActiveReferrals, 0)
	s.RequiredInvitations = lenientInt("requiredInvitations",
		aux.RequiredInvitations, 0)
	s.RemainingInvitations = lenientInt("remainingInvitations",
		aux.RemainingInvitations, 0)

	return nil
}

// RedeemUnlocked returns whether the user has invited enough people to
// redeem the reward.
func (s ReferralStatus) RedeemUnlocked() bool {
	return s.ActiveReferrals >= s.RequiredInvitations
}

// ReferralStatusReply is the reply to RouteReferralStatus.
type ReferralStatusReply struct {
	ReferralStatus ReferralStatus `json:"referralStatus"`
}

// ReferralSubmission is the request body of RouteSubmitReferral.
type ReferralSubmission struct {
	ReferralCode string `json:"referralCode"`
}

// Relationship is the referral relationship that a successful referral
// submission creates between the inviter and the invitee.
type Relationship struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	ActivationDate string `json:"activationDate"`
}

// ReferralSubmissionReply is the reply to RouteSubmitReferral.
type ReferralSubmissionReply struct {
	Success      bool         `json:"success"`
	Relationship Relationship `json:"relationship"`
}

// ErrorReply is the body that the backend returns with any HTTP status code
// of 400 or above.
type ErrorReply struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package testbackend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	v1 "github.com/viralloop/viralloop-go/api/v1"
	"github.com/viralloop/viralloop-go/client"
)

func newTestPair(t *testing.T) (*Backend, *client.Client) {
	t.Helper()

	b := New("app1", "key1")
	ts := httptest.NewServer(b)
	t.Cleanup(ts.Close)

	c, err := client.New(ts.URL, "app1", "key1", &client.Opts{
		HTTPClient: ts.Client(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return b, c
}

func wantAPIError(t *testing.T, err error, code string) {
	t.Helper()

	var ae client.APIError
	if !errors.As(err, &ae) || ae.Message != code {
		t.Errorf("got %v, want %v", err, code)
	}
}

func TestAuthentication(t *testing.T) {
	b := New("app1", "key1")
	ts := httptest.NewServer(b)
	defer ts.Close()

	var tests = []struct {
		name   string
		appID  string
		apiKey string
		want   string
	}{
		{"bad key", "app1", "nope", ErrorUnauthorized},
		{"bad app", "app2", "key1", ErrorAppNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := client.New(ts.URL, tc.appID, tc.apiKey, nil)
			if err != nil {
				t.Fatal(err)
			}
			_, err = c.UserDetails(context.Background(), "u1")
			wantAPIError(t, err, tc.want)
		})
	}
}

func TestReferralFlow(t *testing.T) {
	b, c := newTestPair(t)
	ctx := context.Background()
	b.CodeFor = func(userID string) string {
		return "CODE-" + userID
	}
	b.RequiredInvitations = 2

	inviter, err := c.UserNew(ctx, v1.User{ExternalUserID: "inviter"})
	if err != nil {
		t.Fatal(err)
	}
	if *inviter.ReferralCode != "CODE-inviter" {
		t.Errorf("referral code got %v", *inviter.ReferralCode)
	}
	_, err = c.UserNew(ctx, v1.User{ExternalUserID: "inviter"})
	wantAPIError(t, err, ErrorDuplicateUser)

	_, err = c.RewardsRedeem(ctx, "inviter")
	wantAPIError(t, err, ErrorRewardsLocked)

	for _, id := range []string{"a", "b"} {
		_, err = c.UserNew(ctx, v1.User{ExternalUserID: id})
		if err != nil {
			t.Fatal(err)
		}
		sr, err := c.ReferralSubmit(ctx, id, "CODE-inviter")
		if err != nil {
			t.Fatal(err)
		}
		if !sr.Success || sr.Relationship.ID == "" {
			t.Errorf("submission got %+v", sr)
		}
	}
	_, err = c.ReferralSubmit(ctx, "a", "CODE-inviter")
	wantAPIError(t, err, ErrorAlreadyReferred)
	_, err = c.ReferralSubmit(ctx, "inviter", "CODE-inviter")
	wantAPIError(t, err, ErrorSelfReferral)
	_, err = c.ReferralSubmit(ctx, "inviter", "NOPE")
	wantAPIError(t, err, ErrorInvalidCode)

	rs, err := c.ReferralStatus(ctx, "inviter")
	if err != nil {
		t.Fatal(err)
	}
	if rs.ActiveReferrals != 2 || rs.RemainingInvitations != 0 ||
		rs.IsCompleted {
		t.Errorf("status got %+v", rs)
	}
	rs, err = c.RewardsRedeem(ctx, "inviter")
	if err != nil {
		t.Fatal(err)
	}
	if !rs.IsCompleted {
		t.Errorf("redeem got %+v", rs)
	}
}

func TestUserEdits(t *testing.T) {
	b, c := newTestPair(t)
	ctx := context.Background()
	b.UserEnvelope = true
	b.OnEdit = func(u *v1.User) {
		u.LifetimeValueUSD *= 2
	}
	b.AddUser(v1.User{ExternalUserID: "u1", DeviceType: "ios"})

	u, err := c.UserEdit(ctx, "u1", v1.UserEdit{
		IsPaidUser:       true,
		LifetimeValueUSD: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !u.IsPaidUser || u.LifetimeValueUSD != 10 {
		t.Errorf("edit got %+v", u)
	}

	u, err = c.UserDailyUpdate(ctx, "u1", v1.UserDailyUpdate{
		DeviceType:   "android",
		Connectivity: v1.ConnectivityWifi,
	})
	if err != nil {
		t.Fatal(err)
	}
	if u.DeviceType != "android" || !u.IsPaidUser {
		t.Errorf("daily update got %+v", u)
	}

	source := "tiktok"
	u, err = c.AttributionSet(ctx, "u1", v1.AttributionUpdate{
		AttributionSource: &source,
	})
	if err != nil {
		t.Fatal(err)
	}
	if u.AttributionSource == nil || *u.AttributionSource != source {
		t.Errorf("attribution got %+v", u)
	}

	if n := b.Count(http.MethodPut, "users/u1"); n != 2 {
		t.Errorf("got %v user puts, want 2", n)
	}

	_, err = c.UserDetails(ctx, "missing")
	wantAPIError(t, err, ErrorUserNotFound)
}

func TestRegistrationFailure(t *testing.T) {
	b, c := newTestPair(t)
	b.RegistrationFailure = &Failure{
		HTTPCode: http.StatusServiceUnavailable,
		Error:    "maintenance",
	}

	_, err := c.UserNew(context.Background(), v1.User{ExternalUserID: "u1"})
	wantAPIError(t, err, "maintenance")
	if _, ok := b.User("u1"); ok {
		t.Errorf("user registered despite failure")
	}
	if len(b.Requests()) != 1 {
		t.Errorf("got %v requests, want 1", len(b.Requests()))
	}
}

// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package viralloop

import (
	"context"
	"math"

	v1 "github.com/viralloop/viralloop-go/api/v1"
	"golang.org/x/sync/singleflight"
)

// ReferralCode returns the referral code of the user from local storage.
// The bool is false until the backend has assigned a code.
func (c *Client) ReferralCode() (string, bool) {
	return c.store.ReferralCode()
}

// HasReferralCode returns whether a referral code is stored locally.
func (c *Client) HasReferralCode() bool {
	return c.store.HasReferralCode()
}

// User returns a copy of the current user. The bool is false when there is
// no user.
func (c *Client) User() (v1.User, bool) {
	c.RLock()
	defer c.RUnlock()

	if c.user == nil {
		return v1.User{}, false
	}
	return *c.user, true
}

// optional returns nil for an empty string.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SetAttributionData sets the install attribution of the user. Empty values
// are treated as absent. The values are kept on the in-memory user and sent
// to the backend in the background.
func (c *Client) SetAttributionData(firstReferralSource, attributionSource string) {
	first := optional(firstReferralSource)
	source := optional(attributionSource)

	c.Lock()
	c.firstReferralSource = first
	c.attributionSource = source
	var hasUser bool
	if c.user != nil {
		u := *c.user
		u.FirstReferralSource = first
		u.AttributionSource = source
		c.user = &u
		hasUser = true
	}
	c.Unlock()

	if !hasUser {
		return
	}
	c.goBackground("attribution update", func(ctx context.Context) error {
		userID, err := c.userID()
		if err != nil {
			return err
		}
		reply, err := c.api.AttributionSet(ctx, userID, v1.AttributionUpdate{
			FirstReferralSource: first,
			AttributionSource:   source,
		})
		if err != nil {
			return err
		}
		c.applyUser(reply)

		log.Infof("Attribution data updated")

		return nil
	})
}

// referralStatusKey collapses concurrent referral status fetches.
const referralStatusKey = "referral-status"

// ReferralStatus returns the invitation progress of the user. A cached
// status is returned while it is valid. Concurrent fetches are collapsed
// into a single request that is bound to the lifetime of the client, so a
// caller giving up on ctx does not fail the callers that joined it.
func (c *Client) ReferralStatus(ctx context.Context) (*v1.ReferralStatus, error) {
	if s, ok := c.cache.Get(); ok {
		log.Debugf("Using cached referral status")
		return s, nil
	}
	userID, err := c.userID()
	if err != nil {
		return nil, err
	}

	ch := c.group.DoChan(referralStatusKey, func() (interface{}, error) {
		gen := c.statusGen.Load()
		s, err := c.api.ReferralStatus(c.ctx, userID)
		if err != nil {
			return nil, err
		}
		if c.statusGen.Load() == gen {
			c.cache.Put(*s)
		} else {
			log.Debugf("Not caching referral status fetched before " +
				"a redemption")
		}
		return *s, nil
	})

	var r singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-ch:
	}
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Shared {
		log.Tracef("Referral status fetch was shared")
	}

	s := r.Val.(v1.ReferralStatus)
	return &s, nil
}

// SubmitReferralCode submits the referral code of the user that invited this
// user. The code is not validated locally.
func (c *Client) SubmitReferralCode(ctx context.Context, code string) (*v1.ReferralSubmissionReply, error) {
	userID, err := c.userID()
	if err != nil {
		return nil, err
	}
	return c.api.ReferralSubmit(ctx, userID, code)
}

// UpdatePaidStatus sets the paid status of the user. The current lifetime
// value is sent unchanged.
func (c *Client) UpdatePaidStatus(ctx context.Context, paid bool) error {
	u, ok := c.User()
	if !ok {
		return ErrUserNotInitialized
	}
	reply, err := c.api.UserEdit(ctx, u.ExternalUserID, v1.UserEdit{
		IsPaidUser:       paid,
		LifetimeValueUSD: u.LifetimeValueUSD,
	})
	if err != nil {
		return err
	}
	c.applyUser(reply)
	return nil
}

// UpdateLifetimeValue sets the lifetime value of the user in USD. The
// current paid status is sent unchanged.
func (c *Client) UpdateLifetimeValue(ctx context.Context, value float64) error {
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return ErrInvalidLifetimeValue
	}
	u, ok := c.User()
	if !ok {
		return ErrUserNotInitialized
	}
	reply, err := c.api.UserEdit(ctx, u.ExternalUserID, v1.UserEdit{
		IsPaidUser:       u.IsPaidUser,
		LifetimeValueUSD: value,
	})
	if err != nil {
		return err
	}
	c.applyUser(reply)
	return nil
}

// RedeemRewards redeems the unlocked rewards of the user. The cached
// referral status is discarded before the request is sent and replaced by
// the returned status.
func (c *Client) RedeemRewards(ctx context.Context) (*v1.ReferralStatus, error) {
	c.statusGen.Add(1)
	c.group.Forget(referralStatusKey)
	c.cache.Clear()

	userID, err := c.userID()
	if err != nil {
		return nil, err
	}
	s, err := c.api.RewardsRedeem(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.cache.Put(*s)
	return s, nil
}

// RefreshUser replaces the current user with the backend copy.
func (c *Client) RefreshUser(ctx context.Context) error {
	return c.refreshUser(ctx)
}

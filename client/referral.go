// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package client

import (
	"context"
	"net/http"

	v1 "github.com/viralloop/viralloop-go/api/v1"
)

// ReferralStatus returns the invitation progress of a user.
func (c *Client) ReferralStatus(ctx context.Context, userID string) (*v1.ReferralStatus, error) {
	route := v1.UserRoute(v1.RouteReferralStatus, userID)
	resBody, err := c.makeReq(ctx, http.MethodGet, route, nil)
	if err != nil {
		return nil, err
	}

	var rsr v1.ReferralStatusReply
	err = decode(resBody, &rsr)
	if err != nil {
		return nil, err
	}

	return &rsr.ReferralStatus, nil
}

// ReferralSubmit submits the referral code of the user that invited this
// user.
func (c *Client) ReferralSubmit(ctx context.Context, userID, code string) (*v1.ReferralSubmissionReply, error) {
	route := v1.UserRoute(v1.RouteSubmitReferral, userID)
	rs := v1.ReferralSubmission{
		ReferralCode: code,
	}
	resBody, err := c.makeReq(ctx, http.MethodPost, route, rs)
	if err != nil {
		return nil, err
	}

	var rsr v1.ReferralSubmissionReply
	err = decode(resBody, &rsr)
	if err != nil {
		return nil, err
	}

	return &rsr, nil
}

// RewardsRedeem redeems the unlocked rewards of a user and returns the
// updated invitation progress.
func (c *Client) RewardsRedeem(ctx context.Context, userID string) (*v1.ReferralStatus, error) {
	route := v1.UserRoute(v1.RouteRedeemRewards, userID)
	resBody, err := c.makeReq(ctx, http.MethodPost, route, nil)
	if err != nil {
		return nil, err
	}

	var rs v1.ReferralStatus
	err = decode(resBody, &rs)
	if err != nil {
		return nil, err
	}

	return &rs, nil
}

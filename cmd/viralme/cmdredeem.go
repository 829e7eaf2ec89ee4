// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"

	"github.com/viralloop/viralloop-go/viralloop"
)

// cmdRedeem redeems the reward of the user once enough invitations have
// been accepted.
type cmdRedeem struct{}

// Execute executes the cmdRedeem command.
//
// This function satisfies the go-flags Commander interface.
func (c *cmdRedeem) Execute(args []string) error {
	return withClient(func(ctx context.Context, vc *viralloop.Client) error {
		s, err := vc.ReferralStatus(ctx)
		if err != nil {
			return err
		}
		if !s.RedeemUnlocked() {
			return errors.New(progressMessage(*s))
		}

		s, err = vc.RedeemRewards(ctx)
		if err != nil {
			return err
		}
		printJSON(s)
		printf("Reward redeemed!\n")
		printStatus(*s)

		return nil
	})
}

// redeemHelpMsg is printed to stdout by the help command.
const redeemHelpMsg = `redeem

Redeem the reward of this user. The reward is unlocked once the number of
active referrals reaches the number of required invitations.`

// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/viralloop/viralloop-go/viralloop"
)

// cmdStatus prints the invitation progress of the user.
type cmdStatus struct{}

// Execute executes the cmdStatus command.
//
// This function satisfies the go-flags Commander interface.
func (c *cmdStatus) Execute(args []string) error {
	return withClient(func(ctx context.Context, vc *viralloop.Client) error {
		s, err := vc.ReferralStatus(ctx)
		if err != nil {
			return err
		}
		printJSON(s)
		printStatus(*s)
		printf("%v\n", progressMessage(*s))
		return nil
	})
}

// statusHelpMsg is printed to stdout by the help command.
const statusHelpMsg = `status

Print the number of active referrals, the number of invitations that are
required to unlock the reward and whether the reward has been redeemed.`

// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	v1 "github.com/viralloop/viralloop-go/api/v1"
	"github.com/viralloop/viralloop-go/viralloop"
)

// inviteReply is the raw JSON output of the invite command.
type inviteReply struct {
	InviteCode   string            `json:"inviteCode"`
	ShareMessage string            `json:"shareMessage"`
	Status       v1.ReferralStatus `json:"status"`
}

// cmdInvite prints the invite code of the user and the message to share it
// with.
type cmdInvite struct{}

// Execute executes the cmdInvite command.
//
// This function satisfies the go-flags Commander interface.
func (c *cmdInvite) Execute(args []string) error {
	return withClient(func(ctx context.Context, vc *viralloop.Client) error {
		code, ok := vc.ReferralCode()
		if !ok {
			code = notAvailable
		}
		s, err := vc.ReferralStatus(ctx)
		if err != nil {
			return err
		}

		printJSON(inviteReply{
			InviteCode:   code,
			ShareMessage: shareMessage(code),
			Status:       *s,
		})
		printf("Share your invite code\n")
		printf("Invite %v friends to unlock 1 Month Premium free, 100 "+
			"coins, and remove ads\n\n", s.RequiredInvitations)
		printf("Invite code : %v\n", code)
		printStatus(*s)
		printf("\n%v\n\n%v\n", shareMessage(code), progressMessage(*s))

		return nil
	})
}

// inviteHelpMsg is printed to stdout by the help command.
const inviteHelpMsg = `invite

Print the invite code of this user, the invitation progress and the message
to share the invite code with.`

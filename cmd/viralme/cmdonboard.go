// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/viralloop/viralloop-go/viralloop"
)

// cmdOnboard welcomes the user and submits the referral code of the user
// that invited them.
type cmdOnboard struct {
	Args struct {
		Code string `positional-arg-name:"code"`
	} `positional-args:"true"`
}

// Execute executes the cmdOnboard command.
//
// This function satisfies the go-flags Commander interface.
func (c *cmdOnboard) Execute(args []string) error {
	var code string
	if c.Args.Code != "" {
		var err error
		code, err = validateReferralCode(c.Args.Code)
		if err != nil {
			return err
		}
	}

	return withClient(func(ctx context.Context, vc *viralloop.Client) error {
		printf("Welcome to ViralMe\n\n")
		printf("Why ViralMe?\n")
		printf("  - Grow your network like never before.\n")
		printf("  - Earn rewards for every referral.\n")
		printf("  - Track your progress seamlessly.\n\n")

		if code == "" {
			printf("No referral code provided. You can run onboard " +
				"<code> later.\n")
			return nil
		}

		sr, err := vc.SubmitReferralCode(ctx, code)
		if err != nil {
			return err
		}
		printJSON(sr)
		printf("Referral code submitted successfully!\n")

		return nil
	})
}

// onboardHelpMsg is printed to stdout by the help command.
const onboardHelpMsg = `onboard [code]

Print the welcome message and register this installation as a Viralloop
user. When a referral code is provided it is submitted as the code of the
user that sent the invite. Referral codes must be at least 6 characters.

Arguments:
1. code   (string, optional)  Referral code of the inviting user`

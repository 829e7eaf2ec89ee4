// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	v1 "github.com/viralloop/viralloop-go/api/v1"
)

const (
	// minReferralCodeLength is the length a referral code needs before
	// it is submitted.
	minReferralCodeLength = 6

	// appLink is the link the share message points to.
	appLink = "https://example.com/applink"

	// notAvailable is printed in place of missing values.
	notAvailable = "N/A"
)

// validateReferralCode returns the trimmed code or an error when it is too
// short to be a referral code.
func validateReferralCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if len(code) < minReferralCodeLength {
		return "", fmt.Errorf("referral code must be at least %v characters",
			minReferralCodeLength)
	}
	return code, nil
}

// shareMessage returns the message a user shares to invite a friend.
func shareMessage(code string) string {
	return fmt.Sprintf("Check out ViralMe! Use my code %v to unlock "+
		"rewards: %v", code, appLink)
}

// progressMessage describes whether the reward can be redeemed and, if not,
// how many invitations are missing.
func progressMessage(s v1.ReferralStatus) string {
	switch {
	case s.IsCompleted:
		return "Your reward has been redeemed."
	case s.RedeemUnlocked():
		return "Your reward is unlocked. Run redeem to claim it."
	}
	remaining := s.RemainingInvitations
	if remaining <= 0 {
		remaining = s.RequiredInvitations - s.ActiveReferrals
	}
	return fmt.Sprintf("You need %v more invitations to redeem your "+
		"reward.", remaining)
}

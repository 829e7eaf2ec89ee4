// Copyright (c) 2020-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	v1 "github.com/viralloop/viralloop-go/api/v1"
	"github.com/viralloop/viralloop-go/util"
)

// out is where command output is written to.
var out io.Writer = os.Stdout

// printf prints the provided string to stdout unless raw JSON output was
// requested.
func printf(s string, args ...interface{}) {
	if cfg.RawJSON {
		return
	}
	fmt.Fprintf(out, s, args...)
}

// printJSON prints the provided structure as indented JSON when raw JSON
// output was requested.
func printJSON(v interface{}) {
	if !cfg.RawJSON {
		return
	}
	fmt.Fprintf(out, "%v\n", util.FormatJSON(v))
}

// printUser prints the human readable details of a user.
func printUser(u v1.User) {
	printf("User id     : %v\n", u.ExternalUserID)
	printf("Invite code : %v\n", optionalString(u.ReferralCode))
	printf("Device      : %v %v (%v)\n", u.DeviceBrand, u.DeviceModel,
		u.DeviceType)
	printf("OS          : %v %v\n", u.OperatingSystem, u.OSVersion)
	printf("App         : %v (%v)\n", u.AppVersion, u.AppBuildNumber)
	printf("Paid        : %v\n", u.IsPaidUser)
	printf("LTV         : $%.2f\n", u.LifetimeValueUSD)
	printf("Locale      : %v %v %v\n", u.DeviceLanguage, u.CountryCode,
		u.Timezone)
	printf("Network     : %v\n", u.Connectivity)
	if u.FirstReferralSource != nil || u.AttributionSource != nil {
		printf("Attribution : %v / %v\n",
			optionalString(u.FirstReferralSource),
			optionalString(u.AttributionSource))
	}
}

// printStatus prints the human readable invitation progress.
func printStatus(s v1.ReferralStatus) {
	printf("Referrals   : %v/%v\n", s.ActiveReferrals, s.RequiredInvitations)
	printf("Remaining   : %v\n", s.RemainingInvitations)
	printf("Redeemed    : %v\n", s.IsCompleted)
}

func optionalString(s *string) string {
	if s == nil || *s == "" {
		return notAvailable
	}
	return *s
}

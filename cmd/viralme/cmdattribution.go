// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/viralloop/viralloop-go/viralloop"
)

// cmdAttribution sets the install attribution of the user.
type cmdAttribution struct {
	Args struct {
		First  string `positional-arg-name:"first"`
		Source string `positional-arg-name:"source"`
	} `positional-args:"true" required:"true"`
}

// Execute executes the cmdAttribution command.
//
// This function satisfies the go-flags Commander interface.
func (c *cmdAttribution) Execute(args []string) error {
	return withClient(func(ctx context.Context, vc *viralloop.Client) error {
		vc.SetAttributionData(c.Args.First, c.Args.Source)

		// The attribution is sent in the background
		vc.Wait()

		u, _ := vc.User()
		printJSON(u)
		printUser(u)
		return nil
	})
}

// attributionHelpMsg is printed to stdout by the help command.
const attributionHelpMsg = `attribution <first> <source>

Set where this user first heard of the app and the install attribution
source. Pass an empty string to clear a value.

Arguments:
1. first    (string, required)  First referral source, e.g. friend
2. source   (string, required)  Attribution source, e.g. tiktok`

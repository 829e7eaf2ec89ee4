// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"

	"github.com/viralloop/viralloop-go/viralloop"
)

// cmdWhoAmI prints the Viralloop user of this installation.
type cmdWhoAmI struct{}

// Execute executes the cmdWhoAmI command.
//
// This function satisfies the go-flags Commander interface.
func (c *cmdWhoAmI) Execute(args []string) error {
	return withClient(func(ctx context.Context, vc *viralloop.Client) error {
		u, ok := vc.User()
		if !ok {
			return errors.New("no user")
		}
		printJSON(u)
		printUser(u)
		return nil
	})
}

// whoAmIHelpMsg is printed to stdout by the help command.
const whoAmIHelpMsg = `whoami

Print the Viralloop user of this installation. The user is registered with
the backend on first use.`

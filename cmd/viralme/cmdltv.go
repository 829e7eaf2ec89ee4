// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/viralloop/viralloop-go/viralloop"
)

// cmdLTV sets the lifetime value of the user.
type cmdLTV struct {
	Args struct {
		Amount string `positional-arg-name:"amount"`
	} `positional-args:"true" required:"true"`
}

// Execute executes the cmdLTV command.
//
// This function satisfies the go-flags Commander interface.
func (c *cmdLTV) Execute(args []string) error {
	amount, err := strconv.ParseFloat(c.Args.Amount, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %v", c.Args.Amount, err)
	}

	return withClient(func(ctx context.Context, vc *viralloop.Client) error {
		err := vc.UpdateLifetimeValue(ctx, amount)
		if err != nil {
			return err
		}
		u, _ := vc.User()
		printJSON(u)
		printUser(u)
		return nil
	})
}

// ltvHelpMsg is printed to stdout by the help command.
const ltvHelpMsg = `ltv <amount>

Set the lifetime value of this user in USD. The paid status is left
unchanged. The backend may adjust the value.

Arguments:
1. amount   (float, required)  Lifetime value in USD, e.g. 9.99`

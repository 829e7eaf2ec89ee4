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

// cmdPaid sets the paid status of the user.
type cmdPaid struct {
	Args struct {
		Paid string `positional-arg-name:"paid"`
	} `positional-args:"true" required:"true"`
}

// Execute executes the cmdPaid command.
//
// This function satisfies the go-flags Commander interface.
func (c *cmdPaid) Execute(args []string) error {
	paid, err := strconv.ParseBool(c.Args.Paid)
	if err != nil {
		return fmt.Errorf("invalid paid status %q: must be true or false",
			c.Args.Paid)
	}

	return withClient(func(ctx context.Context, vc *viralloop.Client) error {
		err := vc.UpdatePaidStatus(ctx, paid)
		if err != nil {
			return err
		}
		u, _ := vc.User()
		printJSON(u)
		printUser(u)
		return nil
	})
}

// paidHelpMsg is printed to stdout by the help command.
const paidHelpMsg = `paid <true|false>

Set the paid status of this user. The lifetime value is left unchanged.

Arguments:
1. paid   (bool, required)  Whether the user has paid`

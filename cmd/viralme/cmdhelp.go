// Copyright (c) 2017-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
)

// cmdHelp prints a detailed help message for the specified command.
type cmdHelp struct {
	Args struct {
		Command string `positional-arg-name:"command"`
	} `positional-args:"true" required:"true"`
}

// Execute executes the cmdHelp command.
//
// This function satisfies the go-flags Commander interface.
func (c *cmdHelp) Execute(args []string) error {
	msg, ok := helpMsgs[c.Args.Command]
	if !ok {
		return fmt.Errorf("invalid command: %v", c.Args.Command)
	}
	fmt.Fprintf(out, "%s\n", msg)
	return nil
}

// helpMsgs maps each command to its detailed help message.
var helpMsgs = map[string]string{
	"help":        helpHelpMsg,
	"whoami":      whoAmIHelpMsg,
	"onboard":     onboardHelpMsg,
	"invite":      inviteHelpMsg,
	"status":      statusHelpMsg,
	"redeem":      redeemHelpMsg,
	"paid":        paidHelpMsg,
	"ltv":         ltvHelpMsg,
	"attribution": attributionHelpMsg,
}

// helpHelpMsg is printed to stdout by the help command.
const helpHelpMsg = `help "command"

Print a detailed help message for a command.

Arguments:
1. command   (string, required)  The command to print help for`

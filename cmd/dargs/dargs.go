// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dargs reports its version and shows how config files expand into
// command-line arguments.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/yeetrun/dargs/pkg/cfgfile"
	"github.com/yeetrun/dargs/pkg/cli"
	"github.com/yeetrun/dargs/pkg/dargs"
)

type Args struct {
	Version bool    `aliases:"-v" help:"Print the version and exit."`
	Expand  *string `metavar:"FILE" help:"Print the arguments a config file expands to, one per line."`
}

func main() {
	log.SetFlags(0)
	args := cli.Must(dargs.Parse[Args](
		dargs.WithDescription("dargs derives command-line interfaces from Go structs."),
		dargs.WithConfigFlag(""),
	))

	switch {
	case args.Version:
		fmt.Println(readVersion())
	case args.Expand != nil:
		tokens, err := cfgfile.Load(*args.Expand)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		for _, tok := range tokens {
			fmt.Println(tok)
		}
	default:
		fmt.Fprintln(os.Stderr, "Run 'dargs --help' for usage.")
		os.Exit(cli.ExitUsage)
	}
}

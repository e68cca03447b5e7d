// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"
	"strings"
)

func Usage(v Usager) string {
	return fmt.Sprint("usage:\t", strings.TrimSpace(v.Usage()))
}

type Usager interface {
	Usage() string
}

func (g *Goes) Usage() string {
	if len(g.USAGE) > 0 {
		return g.USAGE
	}
	return `
	goes COMMAND [ ARGS ]...
	goes COMMAND -[-]HELPER
	goes HELPER [ COMMAND ]

	HELPER := { apropos | complete | help | man | usage }`
}

func (g *Goes) usage(args ...string) error {
	var u Usager = g
	if args = g.shift(args); len(args) > 0 {
		v, found := g.ByName[args[0]]
		if !found {
			return fmt.Errorf("%s: not found", args[0])
		}
		u = v
	}
	fmt.Println(Usage(u))
	return nil
}

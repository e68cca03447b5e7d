// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"

	"github.com/platinasystems/acpuclock/goes/lang"
)

func (g *Goes) Apropos() lang.Alt {
	if g.APROPOS != nil {
		return g.APROPOS
	}
	return lang.Alt{
		lang.EnUS: "application processor clock control",
	}
}

func (g *Goes) apropos(args ...string) error {
	args = g.shift(args)
	if len(args) == 0 {
		args = g.Names()
	}
	for i, name := range args {
		v, found := g.ByName[name]
		if !found {
			if i == 0 {
				return fmt.Errorf("%s: not found", name)
			}
			continue
		}
		fmt.Printf("%-16s%s\n", name, v.Apropos())
	}
	return nil
}

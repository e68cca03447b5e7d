// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/platinasystems/acpuclock/goes/cmd"
	"github.com/platinasystems/acpuclock/goes/lang"
)

type maner interface {
	Man() lang.Alt
}

var section = struct {
	name, synopsis lang.Alt
}{
	name: lang.Alt{
		lang.EnUS: "NAME",
	},
	synopsis: lang.Alt{
		lang.EnUS: "SYNOPSIS",
	},
}

func (g *Goes) Man() lang.Alt {
	if g.MAN != nil {
		return g.MAN
	}
	return lang.Alt{
		lang.EnUS: `
SEE ALSO
	goes apropos [COMMAND], goes man COMMAND`,
	}
}

func (g *Goes) man(args ...string) error {
	var cmds []cmd.Cmd
	for i, arg := range g.shift(args) {
		v := g.ByName[arg]
		if v == nil {
			if i == 0 {
				return fmt.Errorf("%s: not found", arg)
			}
			break
		}
		cmds = append(cmds, v)
	}
	if len(cmds) == 0 {
		cmds = []cmd.Cmd{g}
	}
	for i, v := range cmds {
		if i > 0 {
			fmt.Println()
		}
		Fman(os.Stdout, v)
	}
	return nil
}

// Fman prints the manual page of a command.
func Fman(w io.Writer, v cmd.Cmd) {
	fmt.Fprint(w, section.name, "\n\t", v, " - ",
		v.Apropos(), "\n\n", section.synopsis, "\n\t",
		strings.TrimSpace(v.Usage()), "\n")
	method, found := v.(maner)
	if !found {
		return
	}
	man := method.Man().String()
	if !strings.HasPrefix(man, "\n") {
		fmt.Fprintln(w)
	}
	fmt.Fprint(w, man)
	if !strings.HasSuffix(man, "\n") {
		fmt.Fprintln(w)
	}
}

// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/platinasystems/acpuclock/goes/cmd"
)

type completer interface {
	Complete(...string) []string
}

func (g *Goes) Complete(args ...string) (completions []string) {
	n := len(args)
	switch {
	case n == 0 || len(args[0]) == 0:
		return g.interactive("")
	case n == 1:
		completions = g.interactive(args[0])
		for builtin := range g.Builtins() {
			if strings.HasPrefix(builtin, args[0]) {
				completions = append(completions, builtin)
			}
		}
		sort.Strings(completions)
		return
	}
	if v, found := g.ByName[args[0]]; found {
		if method, found := v.(completer); found {
			return method.Complete(args[1:]...)
		}
		return nil
	}
	if _, found := g.Builtins()[args[0]]; found {
		return g.interactive(args[n-1])
	}
	return nil
}

func (g *Goes) interactive(prefix string) (names []string) {
	for _, name := range g.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if cmd.WhatKind(g.ByName[name]).IsHidden() {
			continue
		}
		names = append(names, name)
	}
	return
}

// This may be used for bash completion of goes commands like this.
//
//	_goes() {
//		COMPREPLY=($(goes complete ${COMP_WORDS[@]:1}))
//		return 0
//	}
//
//	type -p goes >/dev/null && complete -F _goes -o filenames goes
func (g *Goes) complete(args ...string) error {
	for _, s := range g.Complete(args...) {
		fmt.Println(s)
	}
	return nil
}

// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package goes dispatches a multi-call binary to its commands.
package goes

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/platinasystems/acpuclock/goes/cmd"
	"github.com/platinasystems/acpuclock/goes/lang"
	"github.com/platinasystems/log"
)

type Goes struct {
	NAME    string
	APROPOS lang.Alt
	USAGE   string
	MAN     lang.Alt
	ByName  map[string]cmd.Cmd

	cache cache
}

func (g *Goes) String() string { return g.NAME }

// Plot commands on the named map.
func (g *Goes) Plot(cmds ...cmd.Cmd) {
	if g.ByName == nil {
		g.ByName = make(map[string]cmd.Cmd)
	}
	for _, v := range cmds {
		name := v.String()
		if _, found := g.ByName[name]; found {
			panic(fmt.Errorf("%s: duplicate", name))
		}
		g.ByName[name] = v
	}
}

// Main runs the named command with the remaining args.  Without args, it
// uses os.Args, dropping the program name unless it's a command itself.
//
//	COMMAND -[-]HELPER
//
// is run as,
//
//	HELPER COMMAND
//
// A daemon command is closed on SIGTERM.
func (g *Goes) Main(args ...string) error {
	if len(args) == 0 {
		args = os.Args
		if len(args) > 0 {
			if _, found := g.ByName[filepath.Base(args[0])]; found {
				args[0] = filepath.Base(args[0])
			} else {
				args = args[1:]
			}
		}
	}
	if len(args) == 0 {
		return g.usage()
	}
	cmd.Swap(args)
	if f, found := g.Builtins()[args[0]]; found {
		return f(args[1:]...)
	}
	v, found := g.ByName[args[0]]
	if !found {
		return fmt.Errorf("%s: command not found", args[0])
	}
	k := cmd.WhatKind(v)
	if k.IsDaemon() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGTERM)
		defer signal.Stop(sig)
		go wait(v, sig)
	}
	err := v.Main(args[1:]...)
	if err == io.EOF {
		err = nil
	}
	if err != nil && !k.IsDaemon() {
		err = fmt.Errorf("%s: %w", v, err)
	}
	return err
}

func wait(v cmd.Cmd, sig <-chan os.Signal) {
	if _, ok := <-sig; !ok {
		return
	}
	if method, found := v.(io.Closer); found {
		if err := method.Close(); err != nil {
			log.Print("daemon", "err", v, ": ", err)
		}
	}
}

// shift drops a leading reference to this goes, e.g. "goes help X".
func (g *Goes) shift(args []string) []string {
	if len(args) > 0 && args[0] == g.NAME {
		return args[1:]
	}
	return args
}

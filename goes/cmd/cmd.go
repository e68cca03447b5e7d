// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package cmd defines the interface of goes commands.
package cmd

import (
	"strings"

	"github.com/platinasystems/acpuclock/goes/lang"
)

var Helpers = map[string]struct{}{
	"apropos": struct{}{},
	"help":    struct{}{},
	"man":     struct{}{},
	"usage":   struct{}{},
}

// Swap hyphen prefaced helper flags with the command, so,
//
//	COMMAND -[-]HELPER [ARGS]...
//
// becomes
//
//	HELPER COMMAND [ARGS]...
func Swap(args []string) {
	if len(args) > 1 && strings.HasPrefix(args[1], "-") {
		opt := strings.TrimLeft(args[1], "-")
		if _, found := Helpers[opt]; found {
			args[1] = args[0]
			args[0] = opt
		}
	} else if len(args) > 0 && strings.HasPrefix(args[0], "-") {
		opt := strings.TrimLeft(args[0], "-")
		if _, found := Helpers[opt]; found {
			args[0] = opt
		}
	}
}

type Cmd interface {
	Apropos() lang.Alt
	Main(...string) error
	// String returns the command name.
	String() string
	Usage() string
	/* Optional
	Close() error
	Help(...string) string
	Kind() Kind
	Man() lang.Alt
	*/
}

const (
	DontFork Kind = 1 << iota
	Daemon
	Hidden
)

type Kind uint16

type kinder interface {
	Kind() Kind
}

func WhatKind(v Cmd) Kind {
	if m, found := v.(kinder); found {
		return m.Kind()
	}
	return 0
}

func (k Kind) IsDaemon() bool      { return k&Daemon == Daemon }
func (k Kind) IsHidden() bool      { return k&Hidden == Hidden }
func (k Kind) IsInteractive() bool { return k&(Daemon|Hidden) == 0 }

func (k Kind) String() string {
	switch k {
	case 0:
		return "interactive"
	case DontFork:
		return "don't fork"
	case Daemon:
		return "daemon"
	case Hidden:
		return "hidden"
	}
	return "unknown"
}

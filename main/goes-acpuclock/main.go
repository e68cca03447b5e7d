// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is the application processor clock machine: a daemon that owns the
// clock controller and a command to query and steer it.
package main

import (
	"fmt"
	"os"

	"github.com/platinasystems/acpuclock/goes"
	"github.com/platinasystems/acpuclock/goes/cmd/acpuclockd"
	"github.com/platinasystems/acpuclock/goes/cmd/cpufreq"
	"github.com/platinasystems/acpuclock/goes/lang"
	"github.com/platinasystems/redis"
)

const Machine = "acpuclock"

func main() {
	redis.DefaultHash = Machine
	if err := mkgoes().Main(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func mkgoes() *goes.Goes {
	g := &goes.Goes{
		NAME: "goes-" + Machine,
		APROPOS: lang.Alt{
			lang.EnUS: "application processor clock machine",
		},
	}
	g.Plot(
		&acpuclockd.Command{},
		cpufreq.Command{},
	)
	return g
}

// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package cpufreq queries and requests application processor frequency
// and voltage through the acpuclockd redis fields.
package cpufreq

import (
	"fmt"
	"io"
	"os"
	"strings"

	redigo "github.com/garyburd/redigo/redis"
	"github.com/mattn/go-isatty"
	"github.com/platinasystems/acpuclock/goes/cmd/acpuclockd"
	"github.com/platinasystems/acpuclock/goes/lang"
	"github.com/platinasystems/acpuclock/internal/acpuclock"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/redis"
)

type Command struct{}

func (Command) String() string { return "cpufreq" }

func (Command) Usage() string {
	return "cpufreq [-v] [show | set KHZ | vdd [LEVEL...] | vdd reset]"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "show or change the application processor frequency",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	show	print the operating points, marking the present one
	set	request a frequency, in kHz or with a MHz suffix
	vdd	print, override or reset the voltage level of every point

OPTIONS
	-v	also print bus frequency and voltage on a pipe`,
	}
}

func (Command) Complete(args ...string) (c []string) {
	if len(args) > 1 {
		return
	}
	for _, s := range []string{"set", "show", "vdd"} {
		if len(args) == 0 || strings.HasPrefix(s, args[0]) {
			c = append(c, s)
		}
	}
	return
}

func (Command) Main(args ...string) error {
	flag, args := flags.New(args, "-v")
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		if len(args) > 1 {
			return fmt.Errorf("%v: unexpected", args[1:])
		}
		return show(os.Stdout, flag.ByName["-v"] ||
			isatty.IsTerminal(os.Stdout.Fd()))
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("set: KHZ: missing")
		}
		khz, err := acpuclock.ParseKHz(args[1])
		if err != nil {
			return err
		}
		return hset(acpuclockd.KHz, fmt.Sprint(khz))
	case "vdd":
		switch {
		case len(args) == 1:
			s, err := redis.Hget(redis.DefaultHash, acpuclockd.Vdd)
			if err != nil {
				return err
			}
			fmt.Println(s)
			return nil
		case len(args) == 2 && args[1] == "reset":
			return hset(acpuclockd.VddReset, "true")
		}
		levels, err := acpuclock.ParseLevels(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		return hset(acpuclockd.Vdd, acpuclock.FormatLevels(levels))
	}
	return fmt.Errorf("%s: unknown", args[0])
}

func hset(field, value string) error {
	i, err := redis.Hset(redis.DefaultHash, field, value)
	if err == nil && i != 1 {
		err = fmt.Errorf("%s: not set", field)
	}
	return err
}

func show(w io.Writer, verbose bool) error {
	conn, err := redis.Connect()
	if err != nil {
		return err
	}
	defer conn.Close()
	v, err := redigo.Strings(conn.Do("HMGET", redis.DefaultHash,
		acpuclockd.KHz, acpuclockd.Table))
	if err != nil {
		return err
	}
	entries, err := acpuclock.ParseEntries(v[1])
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%s: empty", acpuclockd.Table)
	}
	cur, err := acpuclock.ParseKHz(v[0])
	if err != nil {
		return err
	}
	render(w, entries, cur, verbose)
	return nil
}

// render prints one point per line; verbose adds aligned columns of bus
// frequency, voltage and source.
func render(w io.Writer, entries []acpuclock.Entry, cur uint32, verbose bool) {
	if !verbose {
		for _, e := range entries {
			mark := ""
			if e.KHz == cur {
				mark = " *"
			}
			fmt.Fprint(w, e.KHz, mark, "\n")
		}
		return
	}
	fmt.Fprintf(w, "  %9s %-5s %9s %6s %s\n",
		"kHz", "pll", "bus kHz", "mV", "governed")
	for _, e := range entries {
		mark := " "
		if e.KHz == cur {
			mark = "*"
		}
		governed := "no"
		if e.Scalable {
			governed = "yes"
		}
		fmt.Fprintf(w, "%s %9d %-5s %9d %6d %s\n",
			mark, e.KHz, e.PLL, e.BusKHz, e.VddMV, governed)
	}
}

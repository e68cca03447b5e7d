// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package board

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/platinasystems/acpuclock/internal/opp"
	"github.com/platinasystems/fdt"
	"github.com/platinasystems/log"
)

const (
	DefaultDTB = "/boot/linux.dtb"
	NodeName   = "acpuclock"
)

// Load returns the defaults overridden by the acpuclock node of the named
// device tree blob. A missing blob leaves the defaults.
func Load(fn string) (*Config, error) {
	b, err := ioutil.ReadFile(fn)
	if os.IsNotExist(err) {
		log.Print("warning: ", fn, ": not found, using defaults")
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return FromFDT(b)
}

// FromFDT parses a flattened device tree.
func FromFDT(b []byte) (*Config, error) {
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	if err := t.Parse(b); err != nil {
		return nil, fmt.Errorf("%w: fdt: %v", opp.ErrConfiguration, err)
	}
	c := Default()
	var err error
	found := false
	t.MatchNode(NodeName, func(n *fdt.Node) {
		if !found {
			found = true
			err = fromNode(t, n, c)
		}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		log.Print("warning: fdt: no ", NodeName, " node, using defaults")
	}
	return c, c.Validate()
}

// fromNode applies the big endian u32 cell properties of n to c.
func fromNode(t *fdt.Tree, n *fdt.Node, c *Config) error {
	for name, b := range n.Properties {
		if len(b)%4 != 0 {
			return fmt.Errorf("%w: %s/%s: %d bytes is not cells",
				opp.ErrConfiguration, n.Name, name, len(b))
		}
		v := t.PropUint32Slice(b)
		want := 1
		switch name {
		case "switch-time-us":
			c.SwitchTime = us(v)
		case "vdd-switch-time-us":
			c.VddSwitchTime = us(v)
		case "max-step-khz":
			c.MaxStepKHz = first(v)
		case "power-collapse-khz":
			c.PowerCollapseKHz = first(v)
		case "wait-for-irq-khz":
			c.WaitForIRQKHz = first(v)
		case "max-bus-khz":
			c.MaxBusKHz = first(v)
		case "pll-lock-timeout-us":
			c.PLLLockTimeout = us(v)
		case "vdd-mv":
			want = len(v)
			c.VddMV = v
		case "overclock":
			want = 2
			if len(v) == want {
				if v[0] >= uint32(opp.NPLL) {
					return fmt.Errorf("%w: %s/%s: no pll%d",
						opp.ErrConfiguration, n.Name,
						name, v[0])
				}
				c.OverclockPLL = opp.PLL(v[0])
				c.OverclockKHz = v[1]
			}
		case "reg":
			c.RegBase = int64(first(v))
		case "pmic":
			want = 3
			if len(v) == want {
				c.PMICBus = int(v[0])
				c.PMICAddr = int(v[1])
				c.PMICReg = uint8(v[2])
			}
		default:
			continue
		}
		if len(v) != want || want == 0 {
			return fmt.Errorf("%w: %s/%s: %d cells, want %d",
				opp.ErrConfiguration, n.Name, name, len(v),
				want)
		}
	}
	return nil
}

func first(v []uint32) uint32 {
	if len(v) == 0 {
		return 0
	}
	return v[0]
}

func us(v []uint32) time.Duration {
	return time.Duration(first(v)) * time.Microsecond
}

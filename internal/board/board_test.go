// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package board

import (
	"encoding/binary"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/platinasystems/acpuclock/internal/opp"
	"github.com/platinasystems/fdt"
)

func cells(v ...uint32) []byte {
	b := make([]byte, 4*len(v))
	for i, x := range v {
		binary.BigEndian.PutUint32(b[4*i:], x)
	}
	return b
}

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.OverclockKHz != 0 {
		t.Error("overclocked by default")
	}
}

func TestFromNode(t *testing.T) {
	n := &fdt.Node{
		Name: NodeName,
		Properties: map[string][]byte{
			"compatible":         []byte("platina,acpuclock\x00"),
			"switch-time-us":     cells(20),
			"vdd-switch-time-us": cells(100),
			"max-step-khz":       cells(300000),
			"wait-for-irq-khz":   cells(245760),
			"vdd-mv":             cells(950, 1050, 1200),
			"overclock":          cells(2, 1440000),
			"pmic":               cells(1, 0x48, 0x21),
		},
	}
	c := Default()
	if err := fromNode(&fdt.Tree{}, n, c); err != nil {
		t.Fatal(err)
	}
	if got, want := c.SwitchTime, 20*time.Microsecond; got != want {
		t.Errorf("SwitchTime: got %v want %v", got, want)
	}
	if got, want := c.VddSwitchTime, 100*time.Microsecond; got != want {
		t.Errorf("VddSwitchTime: got %v want %v", got, want)
	}
	if got, want := c.MaxStepKHz, uint32(300000); got != want {
		t.Errorf("MaxStepKHz: got %d want %d", got, want)
	}
	if got, want := c.WaitForIRQKHz, uint32(245760); got != want {
		t.Errorf("WaitForIRQKHz: got %d want %d", got, want)
	}
	if got, want := c.PowerCollapseKHz, Default().PowerCollapseKHz; got != want {
		t.Errorf("PowerCollapseKHz: got %d want %d", got, want)
	}
	if want := []uint32{950, 1050, 1200}; !reflect.DeepEqual(c.VddMV, want) {
		t.Errorf("VddMV: got %v want %v", c.VddMV, want)
	}
	if c.OverclockPLL != opp.PLL2 || c.OverclockKHz != 1440000 {
		t.Error("overclock:", c.OverclockPLL, c.OverclockKHz)
	}
	if c.PMICBus != 1 || c.PMICAddr != 0x48 || c.PMICReg != 0x21 {
		t.Error("pmic:", c.PMICBus, c.PMICAddr, c.PMICReg)
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
}

func TestFromNodeErrors(t *testing.T) {
	for name, b := range map[string][]byte{
		"max-step-khz": cells(1, 2),
		"vdd-mv":       nil,
		"overclock":    cells(2),
		"pmic":         cells(1, 2),
		"reg":          []byte{1, 2, 3},
	} {
		n := &fdt.Node{
			Name:       NodeName,
			Properties: map[string][]byte{name: b},
		}
		err := fromNode(&fdt.Tree{}, n, Default())
		if !errors.Is(err, opp.ErrConfiguration) {
			t.Errorf("%s: got %v want %v", name, err,
				opp.ErrConfiguration)
		}
	}
}

func TestFromNodeOverclockPLL(t *testing.T) {
	for _, pll := range []uint32{3, 256} {
		n := &fdt.Node{
			Name: NodeName,
			Properties: map[string][]byte{
				"overclock": cells(pll, 1440000),
			},
		}
		c := Default()
		err := fromNode(&fdt.Tree{}, n, c)
		if !errors.Is(err, opp.ErrConfiguration) {
			t.Errorf("pll %d: got %v want %v", pll, err,
				opp.ErrConfiguration)
		}
		if c.OverclockKHz != 0 {
			t.Errorf("pll %d: overclock applied", pll)
		}
	}
}

func TestValidate(t *testing.T) {
	for name, f := range map[string]func(*Config){
		"step":      func(c *Config) { c.MaxStepKHz = 0 },
		"empty vdd": func(c *Config) { c.VddMV = nil },
		"vdd order": func(c *Config) { c.VddMV = []uint32{1100, 1000} },
		"overclock": func(c *Config) { c.OverclockKHz = 1 },
	} {
		c := Default()
		f(c)
		if err := c.Validate(); !errors.Is(err, opp.ErrConfiguration) {
			t.Errorf("%s: got %v want %v", name, err,
				opp.ErrConfiguration)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "linux.dtb"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c, Default()) {
		t.Error("not default:", c)
	}
}

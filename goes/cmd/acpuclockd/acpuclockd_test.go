// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package acpuclockd

import (
	"errors"
	"testing"

	"github.com/platinasystems/acpuclock/internal/acpuclock"
	"github.com/platinasystems/acpuclock/internal/board"
	"github.com/platinasystems/acpuclock/internal/catalog"
	"github.com/platinasystems/acpuclock/internal/opp"
)

func simInfo(t *testing.T) *Info {
	t.Helper()
	cfg := board.Default()
	cfg.SwitchTime = 0
	cfg.VddSwitchTime = 0
	hw, err := simHardware(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctl := acpuclock.New(cfg, hw, nil)
	if err = ctl.Init(simBootLoops); err != nil {
		t.Fatal(err)
	}
	if got, want := ctl.CurrentKHz(), simBootKHz; got != want {
		t.Fatalf("boot: got %d kHz want %d", got, want)
	}
	return &Info{ctl: ctl, last: make(map[string]string)}
}

func TestSetKHz(t *testing.T) {
	i := simInfo(t)
	if err := i.set(KHz, "600MHz"); err != nil {
		t.Fatal(err)
	}
	if got, want := i.ctl.CurrentKHz(), uint32(600000); got != want {
		t.Errorf("got %d kHz want %d", got, want)
	}
	if got, want := i.ctl.LoopConstant(), simBootLoops*600000/245760; got != want {
		t.Errorf("lpj: got %d want %d", got, want)
	}
	if err := i.set(KHz, "fast"); !errors.Is(err, opp.ErrInvalidRequest) {
		t.Errorf("fast: got %v", err)
	}
}

func TestSetVdd(t *testing.T) {
	i := simInfo(t)
	n := i.ctl.Table().Len()
	levels := make([]byte, 0, 2*n)
	for j := 0; j < n; j++ {
		levels = append(levels, '7', ' ')
	}
	if err := i.set(Vdd, string(levels)); err != nil {
		t.Fatal(err)
	}
	for j, level := range i.ctl.VddLevels() {
		if level != 7 {
			t.Fatalf("%d: level %d", j, level)
		}
	}
	if err := i.set(VddReset, ""); err != nil {
		t.Fatal(err)
	}
	if got, want := i.ctl.VddLevels()[0], i.ctl.Table().At(0).VddLevel; got != want {
		t.Errorf("reset: got %d want %d", got, want)
	}
	if err := i.set(Vdd, "1 2"); !errors.Is(err, opp.ErrInvalidRequest) {
		t.Errorf("short: got %v", err)
	}
}

func TestSetUnknown(t *testing.T) {
	i := simInfo(t)
	if err := i.set(Table, "x"); err == nil {
		t.Error("table: no error")
	}
}

func TestSimHardwareNoBootPoint(t *testing.T) {
	_, err := simHardware(board.Default(), catalog.Builtin[1:2])
	if !errors.Is(err, opp.ErrConfiguration) {
		t.Errorf("got %v", err)
	}
}

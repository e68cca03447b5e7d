// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package acpuclock scales the application processor's frequency and
// voltage through the operating point table selected at boot.
package acpuclock

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/platinasystems/acpuclock/internal/board"
	"github.com/platinasystems/acpuclock/internal/catalog"
	"github.com/platinasystems/acpuclock/internal/clkctl"
	"github.com/platinasystems/acpuclock/internal/opp"
	"github.com/platinasystems/log"
)

var ErrNotReady = fmt.Errorf("%w: controller not initialized",
	opp.ErrConfiguration)

var sleep = time.Sleep

// Reason qualifies a rate change.
type Reason int

const (
	Governor Reason = iota
	PowerCollapse
	WaitForIRQ
)

func (r Reason) String() string {
	switch r {
	case Governor:
		return "governor"
	case PowerCollapse:
		return "power collapse"
	case WaitForIRQ:
		return "wait for irq"
	}
	return fmt.Sprint("reason(", int(r), ")")
}

// Hardware is the controller's register, PLL and bus clock access. Bus
// may be nil.
type Hardware struct {
	Regs clkctl.Registers
	PLLs clkctl.PLLs
	Bus  clkctl.BusClock
}

type Controller struct {
	// mu serializes governor transitions and voltage overrides.
	mu       sync.Mutex
	cfg      *board.Config
	hw       Hardware
	variants []catalog.Variant

	tbl      *opp.Table
	variant  string
	stepping *opp.Stepping
	collapse int
	wfi      int

	ready    atomic.Bool
	cur      atomic.Int32
	loops    atomic.Uint64
	applied  atomic.Uint32
	override atomic.Pointer[[]uint8]
}

// New returns an uninitialized controller. A nil variants list selects the
// built-in catalog.
func New(cfg *board.Config, hw Hardware, variants []catalog.Variant) *Controller {
	if variants == nil {
		variants = catalog.Builtin
	}
	c := &Controller{
		cfg:      cfg,
		hw:       hw,
		variants: variants,
	}
	c.cur.Store(-1)
	return c
}

// Init selects, adjusts and seals the operating point table, then adopts
// the boot loader's operating point. bootLoops is the busy-wait loop
// constant calibrated at that point.
func (c *Controller) Init(bootLoops uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready.Load() {
		return fmt.Errorf("%w: already initialized", opp.ErrConfiguration)
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	measured, err := clkctl.MeasurePLLs(c.hw.Regs, c.cfg.PLLLockTimeout)
	if err != nil {
		return err
	}
	sel, err := catalog.Select(c.variants, measured, c.cfg.MaxBusKHz)
	if err != nil {
		return err
	}
	if sel.Halved {
		log.Print("warning: pll0 at ", measured[opp.PLL0],
			" kHz, doubling its dividers")
	}
	b := sel.Builder
	if c.cfg.OverclockKHz != 0 {
		n, err := b.Overclock(c.cfg.OverclockPLL, c.cfg.OverclockKHz)
		if err != nil {
			return err
		}
		log.Print("overclock ", c.cfg.OverclockPLL, " at ",
			c.cfg.OverclockKHz, " kHz rewrote ", n, " points")
	}
	for i := 0; i < b.Len(); i++ {
		if p := b.At(i); int(p.VddLevel) >= len(c.cfg.VddMV) {
			return fmt.Errorf("%w: %d kHz: vdd level %d of %d",
				opp.ErrConfiguration, p.KHz, p.VddLevel,
				len(c.cfg.VddMV))
		}
	}
	st, err := b.Precompute(c.cfg.MaxStepKHz)
	if err != nil {
		return err
	}
	src, err := clkctl.Active(c.hw.Regs)
	if err != nil {
		return err
	}
	boot := opp.NoStep
	b.Each(func(i int, p *opp.OperatingPoint) {
		if boot == opp.NoStep && p.SourceSelect == src.Select &&
			p.SourceDivider == src.Divider {
			boot = i
		}
	})
	if boot == opp.NoStep {
		return fmt.Errorf("%w: boot source %d/%d not in %s",
			opp.ErrConfiguration, src.Select, src.Divider,
			sel.Variant.Name)
	}
	if err = b.Calibrate(b.At(boot).KHz, bootLoops); err != nil {
		return err
	}
	tbl, err := b.Table()
	if err != nil {
		return err
	}
	vdd, err := c.hw.Regs.Read(clkctl.VDDSTATUS)
	if err != nil {
		return err
	}
	c.tbl = tbl
	c.variant = sel.Variant.Name
	c.stepping = st
	c.collapse = floor(tbl, c.cfg.PowerCollapseKHz)
	c.wfi = floor(tbl, c.cfg.WaitForIRQKHz)
	c.applied.Store(vdd)
	c.loops.Store(tbl.At(boot).LoopConstant)
	c.cur.Store(int32(boot))
	c.ready.Store(true)
	log.Print(sel.Variant.Name, ": boot at ", tbl.At(boot).KHz, " kHz")
	return nil
}

// floor returns the highest point not above khz, or the lowest point.
func floor(tbl *opp.Table, khz uint32) int {
	i := 0
	for j := 1; j < tbl.Len() && tbl.At(j).KHz <= khz; j++ {
		i = j
	}
	return i
}

// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package acpuclock

import (
	"fmt"

	"github.com/platinasystems/acpuclock/internal/clkctl"
	"github.com/platinasystems/acpuclock/internal/opp"
	"github.com/platinasystems/log"
)

// pllSet is the PLLs a transition holds a reference on.
type pllSet uint8

func (s *pllSet) add(pll opp.PLL) {
	if pll != opp.TCXO {
		*s |= 1 << uint(pll)
	}
}

func (s pllSet) has(pll opp.PLL) bool {
	return pll == opp.TCXO || s&(1<<uint(pll)) != 0
}

// SetRate moves the processor to the table point at khz, stepping through
// intermediate points so no single switch exceeds the maximum step.
//
// Governor requests are serialized and may settle on a lower point sharing
// the present PLL. Afterward the memory bus is retargeted and unused PLLs
// and voltage are released, except for power collapse, which returns as
// soon as the processor reaches khz and leaves the bus clock alone.
func (c *Controller) SetRate(khz uint32, reason Reason) error {
	if !c.ready.Load() {
		return ErrNotReady
	}
	tgt, found := c.tbl.Index(khz)
	if !found {
		return fmt.Errorf("%w: %d kHz not in table", opp.ErrInvalidRequest,
			khz)
	}
	if reason == Governor {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	start := int(c.cur.Load())
	if tgt == start {
		return nil
	}
	from := c.tbl.At(start)
	if reason == Governor && khz < from.KHz && from.PLL != opp.TCXO {
		tgt = c.walkBack(tgt, from.PLL)
	}
	to := c.tbl.At(tgt)

	var plls pllSet
	plls.add(from.PLL)
	if reason == Governor && to.PLL != from.PLL && to.PLL != opp.TCXO {
		if err := c.hw.PLLs.Request(to.PLL, true); err != nil {
			return fmt.Errorf("%d kHz: enable %v: %w", khz, to.PLL,
				err)
		}
		plls.add(to.PLL)
	}
	if err := clkctl.SetWaitStates(c.hw.Regs); err != nil {
		return err
	}
	for i, hops := start, 0; i != tgt; hops++ {
		if hops >= c.tbl.Len() {
			return fmt.Errorf("%w: no path from %d kHz to %d kHz",
				opp.ErrConfiguration, from.KHz, to.KHz)
		}
		next := c.next(i, tgt)
		if next == opp.NoStep {
			log.Print("warning: no step from ", c.tbl.At(i).KHz,
				" kHz toward ", to.KHz, " kHz")
			return fmt.Errorf("%w: no step from %d kHz toward %d kHz",
				opp.ErrConfiguration, c.tbl.At(i).KHz, to.KHz)
		}
		p := c.tbl.At(next)
		if !plls.has(p.PLL) {
			if err := c.hw.PLLs.Request(p.PLL, true); err != nil {
				return fmt.Errorf("%d kHz: enable %v: %w",
					p.KHz, p.PLL, err)
			}
			plls.add(p.PLL)
		}
		if err := c.raise(c.level(next)); err != nil {
			return fmt.Errorf("%d kHz: %w", p.KHz, err)
		}
		if err := clkctl.Switch(c.hw.Regs, p); err != nil {
			return fmt.Errorf("%d kHz: %w", p.KHz, err)
		}
		c.loops.Store(p.LoopConstant)
		c.cur.Store(int32(next))
		sleep(c.cfg.SwitchTime)
		i = next
	}
	if reason == PowerCollapse {
		return nil
	}
	return c.release(from, to, plls)
}

// walkBack moves a decreasing target down to a point sharing pll, a
// reference oscillator point, or the lowest point.
func (c *Controller) walkBack(tgt int, pll opp.PLL) int {
	for ; tgt > 0; tgt-- {
		p := c.tbl.At(tgt)
		if p.PLL == pll || p.PLL == opp.TCXO {
			break
		}
	}
	return tgt
}

func (c *Controller) next(i, tgt int) int {
	p, q := c.tbl.At(i), c.tbl.At(tgt)
	switch {
	case opp.Delta(p, q) <= c.cfg.MaxStepKHz:
		return tgt
	case tgt > i:
		return p.StepUp
	default:
		return p.StepDown
	}
}

// release follows a completed governor transition.
func (c *Controller) release(from, to *opp.OperatingPoint, plls pllSet) error {
	if from.MemBusKHz != to.MemBusKHz && c.hw.Bus != nil {
		if err := c.hw.Bus.SetKHz(to.MemBusKHz); err != nil {
			log.Print("warning: bus ", to.MemBusKHz, " kHz: ", err)
		}
	}
	for pll := opp.PLL0; pll < opp.NPLL; pll++ {
		if pll == to.PLL || plls&(1<<uint(pll)) == 0 {
			continue
		}
		if err := c.hw.PLLs.Request(pll, false); err != nil {
			return fmt.Errorf("%d kHz: disable %v: %w", to.KHz, pll,
				err)
		}
	}
	i, _ := c.tbl.Index(to.KHz)
	if level := c.level(i); uint32(level) < c.applied.Load() {
		if err := c.setVdd(level); err != nil {
			log.Print("warning: vdd ", level, ": ", err)
		}
	}
	return nil
}

// raise sets the regulator to level if it's presently lower.
func (c *Controller) raise(level uint8) error {
	if uint32(level) <= c.applied.Load() {
		return nil
	}
	return c.setVdd(level)
}

func (c *Controller) setVdd(level uint8) error {
	if err := clkctl.SetVdd(c.hw.Regs, level, c.cfg.VddSwitchTime); err != nil {
		return err
	}
	c.applied.Store(uint32(level))
	return nil
}

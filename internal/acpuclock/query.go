// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package acpuclock

import (
	"time"

	"github.com/platinasystems/acpuclock/internal/opp"
)

// CurrentKHz returns the present processor frequency, or 0 before Init.
func (c *Controller) CurrentKHz() uint32 {
	if !c.ready.Load() {
		return 0
	}
	return c.tbl.At(int(c.cur.Load())).KHz
}

// Current returns a copy of the present operating point.
func (c *Controller) Current() (opp.OperatingPoint, bool) {
	if !c.ready.Load() {
		return opp.OperatingPoint{}, false
	}
	return *c.tbl.At(int(c.cur.Load())), true
}

// SwitchTime is the per-switch settle time, for governor latency.
func (c *Controller) SwitchTime() time.Duration { return c.cfg.SwitchTime }

// LoopConstant returns the busy-wait loop constant of the present point.
func (c *Controller) LoopConstant() uint64 { return c.loops.Load() }

// Table returns the sealed table, or nil before Init.
func (c *Controller) Table() *opp.Table {
	if !c.ready.Load() {
		return nil
	}
	return c.tbl
}

// Frequencies lists the points a governor may request.
func (c *Controller) Frequencies() []opp.Freq {
	if !c.ready.Load() {
		return nil
	}
	return c.tbl.Frequencies()
}

// Variant names the catalog table in use.
func (c *Controller) Variant() string {
	if !c.ready.Load() {
		return ""
	}
	return c.variant
}

// Stepping returns the summary of the stepping graph computed by Init.
func (c *Controller) Stepping() *opp.Stepping {
	if !c.ready.Load() {
		return nil
	}
	return c.stepping
}

// PowerCollapse moves to the power collapse point and returns the
// frequency to pass to Restore on exit.
func (c *Controller) PowerCollapse() (uint32, error) {
	return c.park(c.collapse, PowerCollapse)
}

// WaitForInterrupt moves to the wait for interrupt point and returns the
// frequency to pass to Restore on exit.
func (c *Controller) WaitForInterrupt() (uint32, error) {
	return c.park(c.wfi, WaitForIRQ)
}

func (c *Controller) park(i int, reason Reason) (uint32, error) {
	if !c.ready.Load() {
		return 0, ErrNotReady
	}
	khz := c.CurrentKHz()
	return khz, c.SetRate(c.tbl.At(i).KHz, reason)
}

// Restore returns from PowerCollapse or WaitForInterrupt.
func (c *Controller) Restore(khz uint32, reason Reason) error {
	return c.SetRate(khz, reason)
}

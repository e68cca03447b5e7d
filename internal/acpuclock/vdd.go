// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package acpuclock

import (
	"fmt"

	"github.com/platinasystems/acpuclock/internal/opp"
)

func (c *Controller) level(i int) uint8 {
	if o := c.override.Load(); o != nil {
		return (*o)[i]
	}
	return c.tbl.At(i).VddLevel
}

// VddLevels returns the effective voltage level of every point.
func (c *Controller) VddLevels() []uint8 {
	if !c.ready.Load() {
		return nil
	}
	levels := make([]uint8, c.tbl.Len())
	for i := range levels {
		levels[i] = c.level(i)
	}
	return levels
}

// SetVddLevels overrides the voltage level of every point. Levels take
// effect with the next transition, except a raise of the present point,
// which is applied at once.
func (c *Controller) SetVddLevels(levels []uint8) error {
	if !c.ready.Load() {
		return ErrNotReady
	}
	if len(levels) != c.tbl.Len() {
		return fmt.Errorf("%w: %d levels for %d points",
			opp.ErrInvalidRequest, len(levels), c.tbl.Len())
	}
	for i, level := range levels {
		if int(level) >= len(c.cfg.VddMV) {
			return fmt.Errorf("%w: %d kHz: level %d of %d",
				opp.ErrInvalidRequest, c.tbl.At(i).KHz, level,
				len(c.cfg.VddMV))
		}
	}
	o := make([]uint8, len(levels))
	copy(o, levels)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override.Store(&o)
	return c.raise(c.level(int(c.cur.Load())))
}

// ResetVddLevels restores the table's voltage levels.
func (c *Controller) ResetVddLevels() error {
	if !c.ready.Load() {
		return ErrNotReady
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override.Store(nil)
	return c.raise(c.level(int(c.cur.Load())))
}

// VddMV returns the millivolts of a voltage level.
func (c *Controller) VddMV(level uint8) uint32 {
	if int(level) >= len(c.cfg.VddMV) {
		return 0
	}
	return c.cfg.VddMV[level]
}

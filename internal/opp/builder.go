// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package opp

import "fmt"

// Builder holds the operating points while they may still be rewritten.
// Table consumes the builder once the stepping graph and loop constants
// are filled in.
type Builder struct {
	points      []OperatingPoint
	precomputed bool
	calibrated  bool
}

// NewBuilder copies points up to, and excluding, the first zero
// frequency entry.
func NewBuilder(points []OperatingPoint) *Builder {
	n := 0
	for n < len(points) && points[n].KHz != 0 {
		n++
	}
	b := &Builder{points: make([]OperatingPoint, n)}
	copy(b.points, points[:n])
	for i := range b.points {
		b.points[i].StepUp = NoStep
		b.points[i].StepDown = NoStep
	}
	return b
}

func (b *Builder) Len() int { return len(b.points) }

// At returns a copy of the i'th point.
func (b *Builder) At(i int) OperatingPoint { return b.points[i] }

// Index returns the position of the point with the given frequency.
func (b *Builder) Index(khz uint32) (int, bool) {
	return index(b.points, khz)
}

// Each calls fn with a pointer to every point, in table order.
func (b *Builder) Each(fn func(i int, p *OperatingPoint)) {
	for i := range b.points {
		fn(i, &b.points[i])
	}
}

// Overclock rewrites every point sourced from pll for a synthesizer
// running at khz, returning the number of points changed. This must
// precede Precompute.
func (b *Builder) Overclock(pll PLL, khz uint32) (int, error) {
	if b.precomputed {
		return 0, fmt.Errorf("overclock %v: %w: table already stepped",
			pll, ErrConfiguration)
	}
	if pll == TCXO || !pll.Valid() {
		return 0, fmt.Errorf("overclock %v: %w: not a pll",
			pll, ErrConfiguration)
	}
	n := 0
	for i := range b.points {
		p := &b.points[i]
		if p.PLL != pll {
			continue
		}
		if p.SourceDivider == 0 || p.BusDivider == 0 {
			return n, fmt.Errorf("overclock %v: %w: %d kHz has no divider",
				pll, ErrConfiguration, p.KHz)
		}
		p.KHz = khz / uint32(p.SourceDivider)
		p.BusKHz = p.KHz / uint32(p.BusDivider)
		n++
	}
	return n, b.Validate()
}

// Validate checks the strictly increasing frequency order and the
// per-point field ranges.
func (b *Builder) Validate() error {
	if len(b.points) == 0 {
		return fmt.Errorf("%w: empty table", ErrConfiguration)
	}
	for i := range b.points {
		p := &b.points[i]
		if !p.PLL.Valid() {
			return fmt.Errorf("%w: %d kHz: invalid %v",
				ErrConfiguration, p.KHz, p.PLL)
		}
		if p.SourceDivider < 1 || p.SourceDivider > 16 {
			return fmt.Errorf("%w: %d kHz: source divider %d",
				ErrConfiguration, p.KHz, p.SourceDivider)
		}
		if p.BusDivider < 1 || p.BusDivider > 4 {
			return fmt.Errorf("%w: %d kHz: bus divider %d",
				ErrConfiguration, p.KHz, p.BusDivider)
		}
		if i > 0 && p.KHz <= b.points[i-1].KHz {
			return fmt.Errorf("%w: %d kHz follows %d kHz",
				ErrConfiguration, p.KHz, b.points[i-1].KHz)
		}
	}
	return nil
}

// Table seals the builder into an immutable table. The builder is empty
// afterward.
func (b *Builder) Table() (*Table, error) {
	if !b.precomputed {
		return nil, fmt.Errorf("%w: stepping not precomputed",
			ErrConfiguration)
	}
	if !b.calibrated {
		return nil, fmt.Errorf("%w: loop constants not calibrated",
			ErrConfiguration)
	}
	t := &Table{points: b.points}
	b.points = nil
	b.precomputed, b.calibrated = false, false
	return t, nil
}

func index(points []OperatingPoint, khz uint32) (int, bool) {
	lo, hi := 0, len(points)
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		if points[m].KHz < khz {
			lo = m + 1
		} else {
			hi = m
		}
	}
	if lo < len(points) && points[lo].KHz == khz {
		return lo, true
	}
	return -1, false
}

// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package catalog selects the operating point table matching the PLL
// configuration measured at boot.
package catalog

import (
	"fmt"

	"github.com/platinasystems/acpuclock/internal/opp"
)

// Categories are the PLL output frequencies, in kHz, that tables are
// written for.
var Categories = []uint32{
	196608,
	245760,
	768000,
	800000,
	960000,
	1056000,
	1200000,
}

// Measured frequencies within this many percent of a category match it.
const TolerancePercent = 2

// Variant is one table of the catalog, keyed by its PLL categories.
type Variant struct {
	Name   string
	PLLKHz [opp.NPLL]uint32
	Points []opp.OperatingPoint
	Boost  *BusBoost
}

// BusBoost raises the memory bus request of points on PLL from FromKHz to
// ToKHz on boards whose bus supports it.
type BusBoost struct {
	PLL     opp.PLL
	FromKHz uint32
	ToKHz   uint32
}

type Selection struct {
	Variant    *Variant
	Measured   [opp.NPLL]uint32
	Categories [opp.NPLL]uint32
	// Halved is set when PLL0 ran at twice its category.
	Halved  bool
	Boosted int
	Builder *opp.Builder
}

// Category returns the known category nearest khz, or 0 if none is
// within tolerance.
func Category(khz uint32) uint32 {
	for _, c := range Categories {
		tol := c / 100 * TolerancePercent
		if khz+tol >= c && khz <= c+tol {
			return c
		}
	}
	return 0
}

// Select matches the measured PLL frequencies against variants, first
// match wins, and returns a builder of the matched table with the PLL0
// divider and memory bus fixups applied.
func Select(variants []Variant, measured [opp.NPLL]uint32, maxBusKHz uint32) (*Selection, error) {
	s := &Selection{Measured: measured}
	for i, khz := range measured {
		s.Categories[i] = Category(khz)
	}
	if s.Categories[opp.PLL0] == 0 {
		if c := Category(measured[opp.PLL0] / 2); c != 0 {
			s.Categories[opp.PLL0] = c
			s.Halved = true
		}
	}
	for i := range variants {
		if variants[i].PLLKHz == s.Categories {
			s.Variant = &variants[i]
			break
		}
	}
	if s.Variant == nil {
		return nil, fmt.Errorf("%w: no table for pll0 %d kHz, pll1 %d kHz, pll2 %d kHz",
			opp.ErrConfiguration, measured[0], measured[1],
			measured[2])
	}
	s.Builder = opp.NewBuilder(s.Variant.Points)
	if err := s.fixup(maxBusKHz); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Selection) fixup(maxBusKHz uint32) error {
	var err error
	boost := s.Variant.Boost
	if boost != nil && maxBusKHz < boost.ToKHz {
		boost = nil
	}
	s.Builder.Each(func(i int, p *opp.OperatingPoint) {
		if err != nil {
			return
		}
		if s.Halved && p.PLL == opp.PLL0 {
			if p.SourceDivider > 8 {
				err = fmt.Errorf("%w: %d kHz: can't double pll0 divider %d",
					opp.ErrConfiguration, p.KHz,
					p.SourceDivider)
				return
			}
			p.SourceDivider *= 2
		}
		if boost != nil && p.PLL == boost.PLL &&
			p.MemBusKHz == boost.FromKHz {
			p.MemBusKHz = boost.ToKHz
			s.Boosted++
		}
	})
	return err
}

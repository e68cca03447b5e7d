// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package catalog

import "github.com/platinasystems/acpuclock/internal/opp"

// Source select codes of the clock controller.
const (
	SelTCXO uint8 = 0
	SelPLL1 uint8 = 1
	SelPLL2 uint8 = 2
	SelPLL0 uint8 = 4
)

var sel = map[opp.PLL]uint8{
	opp.TCXO: SelTCXO,
	opp.PLL0: SelPLL0,
	opp.PLL1: SelPLL1,
	opp.PLL2: SelPLL2,
}

// SourceSelect returns the controller source code of pll.
func SourceSelect(pll opp.PLL) uint8 { return sel[pll] }

func op(khz uint32, pll opp.PLL, div uint8, bus uint32, busdiv uint8,
	mem uint32, vdd uint8, scalable bool) opp.OperatingPoint {
	return opp.OperatingPoint{
		KHz:           khz,
		PLL:           pll,
		SourceSelect:  sel[pll],
		SourceDivider: div,
		BusKHz:        bus,
		BusDivider:    busdiv,
		MemBusKHz:     mem,
		VddLevel:      vdd,
		Scalable:      scalable,
	}
}

// Builtin is the catalog compiled into the daemon, in match order.
var Builtin = []Variant{
	{
		Name:   "pll0-245-pll1-960-pll2-1200",
		PLLKHz: [opp.NPLL]uint32{245760, 960000, 1200000},
		Points: []opp.OperatingPoint{
			op(19200, opp.TCXO, 1, 19200, 1, 30720, 0, false),
			op(61440, opp.PLL0, 4, 61440, 1, 61440, 1, false),
			op(122880, opp.PLL0, 2, 61440, 2, 61440, 2, true),
			op(245760, opp.PLL0, 1, 81920, 3, 61440, 3, true),
			op(320000, opp.PLL1, 3, 106666, 3, 120000, 4, true),
			op(400000, opp.PLL2, 3, 133333, 3, 160000, 5, false),
			op(480000, opp.PLL1, 2, 120000, 4, 120000, 6, true),
			op(600000, opp.PLL2, 2, 200000, 3, 200000, 7, true),
		},
		Boost: &BusBoost{PLL: opp.PLL1, FromKHz: 120000, ToKHz: 160000},
	},
	{
		Name:   "pll0-196-pll1-960-pll2-1056",
		PLLKHz: [opp.NPLL]uint32{196608, 960000, 1056000},
		Points: []opp.OperatingPoint{
			op(19200, opp.TCXO, 1, 19200, 1, 24576, 0, false),
			op(98304, opp.PLL0, 2, 98304, 1, 49152, 1, true),
			op(120000, opp.PLL1, 8, 60000, 2, 61440, 1, false),
			op(196608, opp.PLL0, 1, 98304, 2, 65536, 2, true),
			op(264000, opp.PLL2, 4, 132000, 2, 128000, 3, true),
			op(352000, opp.PLL2, 3, 117333, 3, 128000, 4, true),
			op(480000, opp.PLL1, 2, 160000, 3, 128000, 5, true),
			op(528000, opp.PLL2, 2, 176000, 3, 128000, 6, true),
		},
		Boost: &BusBoost{PLL: opp.PLL1, FromKHz: 128000, ToKHz: 160000},
	},
	{
		Name:   "pll0-245-pll1-800-pll2-1200",
		PLLKHz: [opp.NPLL]uint32{245760, 800000, 1200000},
		Points: []opp.OperatingPoint{
			op(19200, opp.TCXO, 1, 19200, 1, 30720, 0, false),
			op(61440, opp.PLL0, 4, 61440, 1, 61440, 1, false),
			op(122880, opp.PLL0, 2, 61440, 2, 61440, 2, true),
			op(200000, opp.PLL1, 4, 100000, 2, 100000, 3, true),
			op(245760, opp.PLL0, 1, 81920, 3, 81920, 3, true),
			op(400000, opp.PLL1, 2, 133333, 3, 133333, 4, true),
			op(600000, opp.PLL2, 2, 200000, 3, 200000, 6, true),
			op(800000, opp.PLL1, 1, 200000, 4, 200000, 7, true),
		},
	},
}

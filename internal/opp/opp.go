// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package opp describes the application processor's operating points, the
// init-time table builder, and the immutable table used at run time.
package opp

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration  = errors.New("configuration error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrHardwareFault  = errors.New("hardware fault")
)

// PLL identifies the synthesizer sourcing an operating point.
type PLL int8

const (
	// TCXO is the fixed reference oscillator; it has no PLL to enable.
	TCXO PLL = -1
	PLL0 PLL = 0
	PLL1 PLL = 1
	PLL2 PLL = 2
)

// NPLL is the number of switchable PLLs.
const NPLL = 3

// NoStep marks a table extreme, where no neighbor exists in a direction.
const NoStep = -1

func (pll PLL) String() string {
	switch pll {
	case TCXO:
		return "tcxo"
	case PLL0, PLL1, PLL2:
		return fmt.Sprint("pll", int(pll))
	}
	return fmt.Sprint("pll(", int(pll), ")")
}

// Valid reports whether pll is TCXO or one of the NPLL synthesizers.
func (pll PLL) Valid() bool { return pll >= TCXO && pll < NPLL }

// OperatingPoint is one row of the frequency table.
type OperatingPoint struct {
	KHz           uint32
	PLL           PLL
	SourceSelect  uint8
	SourceDivider uint8 // 1..16
	BusKHz        uint32
	BusDivider    uint8 // 1..4
	MemBusKHz     uint32
	VddLevel      uint8
	LoopConstant  uint64
	StepDown      int
	StepUp        int
	Scalable      bool
}

func (p OperatingPoint) String() string {
	return fmt.Sprintf("%d kHz (%v/%d, bus %d kHz, mem %d kHz, vdd %d)",
		p.KHz, p.PLL, p.SourceDivider, p.BusKHz, p.MemBusKHz,
		p.VddLevel)
}

// Freq is an (index, frequency) pair exported to governors.
type Freq struct {
	Index int
	KHz   uint32
}

func delta(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// Delta returns the absolute frequency difference of two points.
func Delta(a, b *OperatingPoint) uint32 { return delta(a.KHz, b.KHz) }

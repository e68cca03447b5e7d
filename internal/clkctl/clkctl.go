// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package clkctl drives the application processor clock controller: the
// glitch free source and divider switch, the core voltage regulator, and
// the PLL request and lock registers.
package clkctl

import (
	"fmt"

	"github.com/platinasystems/acpuclock/internal/opp"
)

// Reg is a byte offset from the controller base.
type Reg uint32

// Register map
const (
	SEL       Reg = 0x00
	CNTL      Reg = 0x04
	WAIT      Reg = 0x08
	VDD       Reg = 0x10
	VDDSTATUS Reg = 0x14
	pllBase   Reg = 0x20
	PLLREQ    Reg = 0x50
	PLLACK    Reg = 0x54

	// Size of the mapped register window.
	Size = 0x1000
)

// Each PLL has an L, M and N register; the output is
// TCXOKHz * (L + M/N).
func PLLL(pll opp.PLL) Reg { return pllBase + 0x10*Reg(pll) }
func PLLM(pll opp.PLL) Reg { return pllBase + 0x10*Reg(pll) + 4 }
func PLLN(pll opp.PLL) Reg { return pllBase + 0x10*Reg(pll) + 8 }

const TCXOKHz = 19200

// SEL fields
const (
	selSlot     = 1 << 0
	selBusShift = 1
	selBusMask  = 0x3
)

// CNTL has one 8 bit slot per SEL slot.
const (
	cntlDivMask  = 0xf
	cntlSrcShift = 4
	cntlSrcMask  = 0x7
	cntlSlotBits = 8
)

// WAIT fields
const (
	waitShift = 16
	waitMask  = 0xff
	// SafeWaitStates covers the slowest source the controller may
	// select while stepping.
	SafeWaitStates = 100
)

func (reg Reg) String() string {
	switch reg {
	case SEL:
		return "sel"
	case CNTL:
		return "cntl"
	case WAIT:
		return "wait"
	case VDD:
		return "vdd"
	case VDDSTATUS:
		return "vdd_status"
	case PLLREQ:
		return "pll_req"
	case PLLACK:
		return "pll_ack"
	}
	if reg >= pllBase && reg < PLLREQ {
		return fmt.Sprintf("pll%d_%c", (reg-pllBase)/0x10,
			"lmn?"[(reg%0x10)/4])
	}
	return fmt.Sprintf("reg(%#x)", uint32(reg))
}

// Registers is 32 bit access to the controller.
type Registers interface {
	Read(Reg) (uint32, error)
	Write(Reg, uint32) error
}

// PLLs enables and disables the switchable PLLs. Request returns once
// the PLL has settled in the requested state.
type PLLs interface {
	Request(pll opp.PLL, on bool) error
}

// BusClock retargets the memory bus clock.
type BusClock interface {
	SetKHz(khz uint32) error
}

func hwfault(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", opp.ErrHardwareFault,
		fmt.Sprintf(format, args...))
}

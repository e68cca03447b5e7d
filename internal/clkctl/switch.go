// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package clkctl

import "github.com/platinasystems/acpuclock/internal/opp"

// Source is the clock selection decoded from SEL and CNTL.
type Source struct {
	Select     uint8
	Divider    uint8
	BusDivider uint8
}

// Switch moves the processor to p's source, divider and bus divider. The
// new source is programmed in the idle CNTL slot before the slot toggle so
// the processor never runs from a half written selection. A larger bus
// divider is applied before the toggle and a smaller one after it.
func Switch(r Registers, p *opp.OperatingPoint) error {
	sel, err := r.Read(SEL)
	if err != nil {
		return err
	}
	cur := (sel >> selBusShift) & selBusMask
	next := uint32(p.BusDivider-1) & selBusMask
	if next > cur {
		sel = busCode(sel, next)
		if err = r.Write(SEL, sel); err != nil {
			return err
		}
	}
	cntl, err := r.Read(CNTL)
	if err != nil {
		return err
	}
	shift := cntlSlotBits * ((sel & selSlot) ^ 1)
	cntl &^= 0xff << shift
	cntl |= (uint32(p.SourceSelect&cntlSrcMask)<<cntlSrcShift |
		uint32(p.SourceDivider-1)&cntlDivMask) << shift
	if err = r.Write(CNTL, cntl); err != nil {
		return err
	}
	sel ^= selSlot
	if err = r.Write(SEL, sel); err != nil {
		return err
	}
	if next < cur {
		err = r.Write(SEL, busCode(sel, next))
	}
	return err
}

func busCode(sel, code uint32) uint32 {
	sel &^= selBusMask << selBusShift
	return sel | code<<selBusShift
}

// Active decodes the selection the processor is running from.
func Active(r Registers) (Source, error) {
	var src Source
	sel, err := r.Read(SEL)
	if err != nil {
		return src, err
	}
	cntl, err := r.Read(CNTL)
	if err != nil {
		return src, err
	}
	slot := (cntl >> (cntlSlotBits * (sel & selSlot))) & 0xff
	src.Select = uint8((slot >> cntlSrcShift) & cntlSrcMask)
	src.Divider = uint8(slot&cntlDivMask) + 1
	src.BusDivider = uint8((sel>>selBusShift)&selBusMask) + 1
	return src, nil
}

// SetWaitStates programs the safe wait state count, preserving the other
// WAIT fields.
func SetWaitStates(r Registers) error {
	v, err := r.Read(WAIT)
	if err != nil {
		return err
	}
	v &^= waitMask << waitShift
	v |= SafeWaitStates << waitShift
	return r.Write(WAIT, v)
}

// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package clkctl

import (
	"fmt"
	"sync"

	"github.com/platinasystems/acpuclock/internal/opp"
)

// Sim is a simulated clock controller, PLL block, regulator and bus
// clock. It records every source switch for later inspection.
type Sim struct {
	mu      sync.Mutex
	regs    map[Reg]uint32
	pllKHz  [opp.NPLL]uint32
	busKHz  uint32
	events  []Event
	writes  int
	booting bool

	// Dead PLLs never report an L value.
	Dead [opp.NPLL]bool
	// FailRequest PLLs never acknowledge a request.
	FailRequest [opp.NPLL]bool
	// StaleVdd regulators ignore level requests.
	StaleVdd bool
	FailBus  bool
	// FailWriteAfter fails every register write after this many, if
	// nonzero.
	FailWriteAfter int
}

// Event is the simulated state at a source switch.
type Event struct {
	Source  Source
	Vdd     uint8
	Enabled [opp.NPLL]bool
}

func NewSim(pllKHz [opp.NPLL]uint32) *Sim {
	s := &Sim{
		regs:   make(map[Reg]uint32),
		pllKHz: pllKHz,
	}
	for pll := opp.PLL0; pll < opp.NPLL; pll++ {
		s.regs[PLLN(pll)] = TCXOKHz
	}
	return s
}

// Boot puts the simulation at p, at voltage level vdd, with p's PLL
// enabled, as left by the boot loader.
func (s *Sim) Boot(p *opp.OperatingPoint, vdd uint8) error {
	s.mu.Lock()
	s.booting = true
	s.regs[VDD] = uint32(vdd)
	s.regs[VDDSTATUS] = uint32(vdd)
	if p.PLL != opp.TCXO {
		s.regs[PLLREQ] |= 1 << uint(p.PLL)
		s.regs[PLLACK] |= 1 << uint(p.PLL)
	}
	s.mu.Unlock()
	err := Switch(s, p)
	s.mu.Lock()
	s.booting = false
	s.events = nil
	s.writes = 0
	s.mu.Unlock()
	return err
}

func (s *Sim) Read(reg Reg) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reg%4 != 0 || reg >= Size {
		return 0, fmt.Errorf("%v: outside register window", reg)
	}
	if reg >= pllBase && reg < PLLREQ {
		pll := opp.PLL((reg - pllBase) / 0x10)
		if pll >= opp.NPLL || s.Dead[pll] {
			return 0, nil
		}
		switch reg {
		case PLLL(pll):
			return s.pllKHz[pll] / TCXOKHz, nil
		case PLLM(pll):
			return s.pllKHz[pll] % TCXOKHz, nil
		}
	}
	return s.regs[reg], nil
}

func (s *Sim) Write(reg Reg, v uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reg%4 != 0 || reg >= Size {
		return fmt.Errorf("%v: outside register window", reg)
	}
	if !s.booting {
		s.writes++
		if s.FailWriteAfter > 0 && s.writes > s.FailWriteAfter {
			return hwfault("%v: simulated write failure", reg)
		}
	}
	switch reg {
	case SEL:
		old := s.regs[SEL]
		s.regs[SEL] = v
		if (old^v)&selSlot != 0 && !s.booting {
			s.record()
		}
		return nil
	case VDD:
		if !s.StaleVdd {
			s.regs[VDD] = v
			s.regs[VDDSTATUS] = v
		}
		return nil
	case VDDSTATUS, PLLACK:
		return nil
	case PLLREQ:
		s.regs[PLLREQ] = v
		for pll := opp.PLL0; pll < opp.NPLL; pll++ {
			if s.FailRequest[pll] {
				continue
			}
			bit := uint32(1) << uint(pll)
			s.regs[PLLACK] = s.regs[PLLACK]&^bit | v&bit
		}
		return nil
	}
	s.regs[reg] = v
	return nil
}

// record must be called with the lock held.
func (s *Sim) record() {
	var e Event
	sel := s.regs[SEL]
	slot := (s.regs[CNTL] >> (cntlSlotBits * (sel & selSlot))) & 0xff
	e.Source.Select = uint8((slot >> cntlSrcShift) & cntlSrcMask)
	e.Source.Divider = uint8(slot&cntlDivMask) + 1
	e.Source.BusDivider = uint8((sel>>selBusShift)&selBusMask) + 1
	e.Vdd = uint8(s.regs[VDD])
	e.Enabled = s.enabled()
	s.events = append(s.events, e)
}

func (s *Sim) enabled() [opp.NPLL]bool {
	var on [opp.NPLL]bool
	for pll := range on {
		on[pll] = s.regs[PLLACK]&(1<<uint(pll)) != 0
	}
	return on
}

// Request enables or disables a PLL directly, without polling.
func (s *Sim) Request(pll opp.PLL, on bool) error {
	if pll == opp.TCXO || !pll.Valid() {
		return nil
	}
	s.mu.Lock()
	fail := s.FailRequest[pll]
	s.mu.Unlock()
	if fail {
		return hwfault("%v: simulated request failure", pll)
	}
	req, _ := s.Read(PLLREQ)
	bit := uint32(1) << uint(pll)
	if on {
		req |= bit
	} else {
		req &^= bit
	}
	return s.Write(PLLREQ, req)
}

func (s *Sim) SetKHz(khz uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailBus {
		return fmt.Errorf("bus clock: simulated failure")
	}
	s.busKHz = khz
	return nil
}

// BusKHz returns the last bus clock request.
func (s *Sim) BusKHz() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busKHz
}

// Vdd returns the regulator's present level.
func (s *Sim) Vdd() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint8(s.regs[VDD])
}

// Enabled returns the PLLs presently acknowledged on.
func (s *Sim) Enabled() [opp.NPLL]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled()
}

// Events returns the switches recorded since Boot.
func (s *Sim) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

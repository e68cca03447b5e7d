// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package clkctl

import (
	"fmt"

	"github.com/platinasystems/acpuclock/internal/opp"
	"github.com/platinasystems/i2c"
)

// PMIC redirects the VDD and VDDSTATUS registers to an SMBus core
// regulator; the other registers pass through.
type PMIC struct {
	Registers
	Bus  int
	Addr int
	// Reg is the regulator's output voltage register.
	Reg uint8
	// MV maps voltage levels to millivolts.
	MV []uint32
}

// Regulator output codes are 25 mV steps from 600 mV.
const (
	pmicMinMV  = 600
	pmicStepMV = 25
	pmicMaxMV  = pmicMinMV + 0xff*pmicStepMV
)

func mvCode(mv uint32) (uint8, error) {
	if mv < pmicMinMV || mv > pmicMaxMV || (mv-pmicMinMV)%pmicStepMV != 0 {
		return 0, fmt.Errorf("%w: %d mV not a regulator step",
			opp.ErrConfiguration, mv)
	}
	return uint8((mv - pmicMinMV) / pmicStepMV), nil
}

func codeMV(code uint8) uint32 {
	return pmicMinMV + uint32(code)*pmicStepMV
}

func (p *PMIC) Write(reg Reg, v uint32) error {
	if reg != VDD {
		return p.Registers.Write(reg, v)
	}
	if v >= uint32(len(p.MV)) {
		return fmt.Errorf("%w: vdd level %d of %d",
			opp.ErrInvalidRequest, v, len(p.MV))
	}
	code, err := mvCode(p.MV[v])
	if err != nil {
		return err
	}
	var data i2c.SMBusData
	data[0] = code
	return p.do(i2c.Write, &data)
}

func (p *PMIC) Read(reg Reg) (uint32, error) {
	if reg != VDDSTATUS {
		return p.Registers.Read(reg)
	}
	var data i2c.SMBusData
	if err := p.do(i2c.Read, &data); err != nil {
		return 0, err
	}
	return p.level(codeMV(data[0])), nil
}

// level returns len(MV), an invalid level, for an output outside the
// table.
func (p *PMIC) level(mv uint32) uint32 {
	for i, x := range p.MV {
		if x == mv {
			return uint32(i)
		}
	}
	return uint32(len(p.MV))
}

func (p *PMIC) do(rw i2c.RW, data *i2c.SMBusData) error {
	var bus i2c.Bus
	err := bus.Open(p.Bus)
	if err != nil {
		return fmt.Errorf("%w: pmic bus %d: %w", opp.ErrHardwareFault,
			p.Bus, err)
	}
	defer bus.Close()
	if err = bus.ForceSlaveAddress(p.Addr); err != nil {
		return fmt.Errorf("%w: pmic %#x: %w", opp.ErrHardwareFault,
			p.Addr, err)
	}
	if err = bus.Do(rw, p.Reg, i2c.ByteData, data); err != nil {
		return fmt.Errorf("%w: pmic %#x reg %#x: %w",
			opp.ErrHardwareFault, p.Addr, p.Reg, err)
	}
	return nil
}

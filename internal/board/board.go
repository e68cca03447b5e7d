// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package board provides the clock controller's board configuration.
package board

import (
	"fmt"
	"time"

	"github.com/platinasystems/acpuclock/internal/opp"
)

type Config struct {
	// SwitchTime is the wait after each source switch.
	SwitchTime time.Duration
	// VddSwitchTime is the regulator settle time.
	VddSwitchTime time.Duration
	MaxStepKHz    uint32
	// Power collapse and wait for interrupt run at the highest table
	// frequency not above these.
	PowerCollapseKHz uint32
	WaitForIRQKHz    uint32
	MaxBusKHz        uint32
	// VddMV maps voltage levels to millivolts, lowest first.
	VddMV          []uint32
	PLLLockTimeout time.Duration

	// OverclockKHz, if nonzero, is the rate OverclockPLL actually runs
	// at.
	OverclockPLL opp.PLL
	OverclockKHz uint32

	RegBase int64

	// PMICAddr, if nonzero, moves the voltage registers to an SMBus
	// regulator.
	PMICBus  int
	PMICAddr int
	PMICReg  uint8
}

func Default() *Config {
	return &Config{
		SwitchTime:       50 * time.Microsecond,
		VddSwitchTime:    62 * time.Microsecond,
		MaxStepKHz:       256000,
		PowerCollapseKHz: 19200,
		WaitForIRQKHz:    128000,
		MaxBusKHz:        160000,
		VddMV: []uint32{
			1000, 1050, 1100, 1150, 1200, 1250, 1275, 1300,
		},
		PLLLockTimeout: 10 * time.Millisecond,
		OverclockPLL:   opp.TCXO,
		RegBase:        0xa8600000,
	}
}

func (c *Config) Validate() error {
	if c.MaxStepKHz == 0 {
		return fmt.Errorf("%w: zero max step", opp.ErrConfiguration)
	}
	if len(c.VddMV) == 0 {
		return fmt.Errorf("%w: empty voltage table",
			opp.ErrConfiguration)
	}
	for i := 1; i < len(c.VddMV); i++ {
		if c.VddMV[i] <= c.VddMV[i-1] {
			return fmt.Errorf("%w: %d mV follows %d mV",
				opp.ErrConfiguration, c.VddMV[i], c.VddMV[i-1])
		}
	}
	if c.OverclockKHz != 0 && (c.OverclockPLL == opp.TCXO ||
		!c.OverclockPLL.Valid()) {
		return fmt.Errorf("%w: overclock %v", opp.ErrConfiguration,
			c.OverclockPLL)
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("switch %v, vdd %v, step %d kHz, collapse %d kHz, wfi %d kHz, bus %d kHz, %d levels",
		c.SwitchTime, c.VddSwitchTime, c.MaxStepKHz,
		c.PowerCollapseKHz, c.WaitForIRQKHz, c.MaxBusKHz,
		len(c.VddMV))
}

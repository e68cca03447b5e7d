// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package opp

import "fmt"

// Calibrate scales the boot calibrated busy-wait constant to every point,
// linear in frequency.
func (b *Builder) Calibrate(bootKHz uint32, bootLoops uint64) error {
	if bootKHz == 0 {
		return fmt.Errorf("%w: zero boot frequency", ErrConfiguration)
	}
	for i := range b.points {
		b.points[i].LoopConstant = Scale(bootLoops, bootKHz,
			b.points[i].KHz)
	}
	b.calibrated = true
	return nil
}

// Scale returns loops calibrated at fromKHz adjusted to toKHz.
func Scale(loops uint64, fromKHz, toKHz uint32) uint64 {
	if fromKHz == 0 {
		return loops
	}
	hi := loops / uint64(fromKHz)
	lo := loops % uint64(fromKHz)
	return hi*uint64(toKHz) + lo*uint64(toKHz)/uint64(fromKHz)
}

// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package opp

import (
	"fmt"

	"github.com/platinasystems/log"
)

// Stepping summarizes a Precompute pass.
type Stepping struct {
	MaxDeltaKHz uint32
	// Suboptimal lists "index:direction" for points whose one-hop
	// neighbor had to leave the point's PLL.
	Suboptimal []string
}

// Precompute fills StepUp and StepDown of every point with the furthest
// neighbor reachable within maxDeltaKHz, preferring the point's own PLL.
// A point that can't reach even its adjacent neighbor is a fatal table
// defect.
func (b *Builder) Precompute(maxDeltaKHz uint32) (*Stepping, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	st := &Stepping{MaxDeltaKHz: maxDeltaKHz}
	for i := range b.points {
		for _, dir := range []int{+1, -1} {
			next, same, err := b.step(i, dir, maxDeltaKHz)
			if err != nil {
				return nil, err
			}
			if !same {
				name := "up"
				if dir < 0 {
					name = "down"
				}
				log.Print("warning: suboptimal ", name,
					" stepping for ", b.points[i].KHz, " kHz")
				st.Suboptimal = append(st.Suboptimal,
					fmt.Sprint(i, ":", name))
			}
			if dir > 0 {
				b.points[i].StepUp = next
			} else {
				b.points[i].StepDown = next
			}
		}
	}
	b.precomputed = true
	return st, nil
}

func (b *Builder) step(i, dir int, maxDeltaKHz uint32) (next int, same bool, err error) {
	pts := b.points
	if j := i + dir; j < 0 || j >= len(pts) {
		return NoStep, true, nil
	}
	near, far := NoStep, NoStep
	for j := i + dir; j >= 0 && j < len(pts); j += dir {
		if delta(pts[i].KHz, pts[j].KHz) > maxDeltaKHz {
			break
		}
		far = j
		if pts[i].PLL == TCXO || pts[j].PLL == TCXO ||
			pts[j].PLL == pts[i].PLL {
			near = j
		}
	}
	if far == NoStep {
		j := i + dir
		return NoStep, false, fmt.Errorf("%w: delta between %d kHz and %d kHz exceeds %d kHz",
			ErrConfiguration, pts[i].KHz, pts[j].KHz, maxDeltaKHz)
	}
	if near == NoStep {
		return far, false, nil
	}
	return near, true, nil
}

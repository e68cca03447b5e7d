// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package clkctl

import (
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/acpuclock/internal/opp"
)

// poll calls done with an exponential backoff until it reports true, it
// fails, or the accumulated wait exceeds timeout.
func poll(timeout time.Duration, done func() (bool, error)) (bool, error) {
	b := &backoff.Backoff{
		Min:    10 * time.Microsecond,
		Max:    10 * time.Millisecond,
		Factor: 2,
		Jitter: false,
	}
	var waited time.Duration
	for {
		ok, err := done()
		if ok || err != nil {
			return ok, err
		}
		if waited >= timeout {
			return false, nil
		}
		d := b.Duration()
		sleep(d)
		waited += d
	}
}

// MeasurePLLs returns the output frequency of each PLL, waiting up to
// timeout for each L value to read nonzero.
func MeasurePLLs(r Registers, timeout time.Duration) ([opp.NPLL]uint32, error) {
	var khz [opp.NPLL]uint32
	for pll := opp.PLL0; pll < opp.NPLL; pll++ {
		var l uint32
		ok, err := poll(timeout, func() (bool, error) {
			var err error
			l, err = r.Read(PLLL(pll))
			return l != 0, err
		})
		if err != nil {
			return khz, err
		}
		if !ok {
			return khz, hwfault("%v: no L value after %v", pll,
				timeout)
		}
		m, err := r.Read(PLLM(pll))
		if err != nil {
			return khz, err
		}
		n, err := r.Read(PLLN(pll))
		if err != nil {
			return khz, err
		}
		khz[pll] = TCXOKHz * l
		if n != 0 {
			khz[pll] += uint32(uint64(TCXOKHz) * uint64(m) / uint64(n))
		}
	}
	return khz, nil
}

// RegPLLs requests PLLs through the PLLREQ register and waits for the
// matching PLLACK bit.
type RegPLLs struct {
	Registers
	Timeout time.Duration
}

func (p *RegPLLs) Request(pll opp.PLL, on bool) error {
	if pll == opp.TCXO || !pll.Valid() {
		return nil
	}
	bit := uint32(1) << uint(pll)
	req, err := p.Read(PLLREQ)
	if err != nil {
		return err
	}
	if on {
		req |= bit
	} else {
		req &^= bit
	}
	if err = p.Write(PLLREQ, req); err != nil {
		return err
	}
	ok, err := poll(p.Timeout, func() (bool, error) {
		ack, err := p.Read(PLLACK)
		return (ack&bit != 0) == on, err
	})
	if err != nil {
		return err
	}
	if !ok {
		state := "off"
		if on {
			state = "on"
		}
		return hwfault("%v: no %s ack after %v", pll, state,
			p.Timeout)
	}
	return nil
}

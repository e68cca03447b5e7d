// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package clkctl

import "time"

var sleep = time.Sleep

// SetVdd requests the core voltage level, waits settle, then confirms the
// regulator reports the level. There is no retry.
func SetVdd(r Registers, level uint8, settle time.Duration) error {
	if err := r.Write(VDD, uint32(level)); err != nil {
		return err
	}
	sleep(settle)
	status, err := r.Read(VDDSTATUS)
	if err != nil {
		return err
	}
	if status != uint32(level) {
		return hwfault("vdd status %d, want level %d", status, level)
	}
	return nil
}

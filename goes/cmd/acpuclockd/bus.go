// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package acpuclockd

import (
	redigo "github.com/garyburd/redigo/redis"
	"github.com/platinasystems/redis"
)

// BusKHz is the field of the memory bus arbiter that takes our minimum
// bus frequency.
const BusKHz = "ebi1.acpu.khz"

// busClock posts bus frequency requests to the named redis hash.
type busClock string

func (key busClock) SetKHz(khz uint32) error {
	conn, err := redis.Connect()
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = redigo.Int(conn.Do("HSET", string(key), BusKHz, khz))
	return err
}

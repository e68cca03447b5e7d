// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package acpuclock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/platinasystems/acpuclock/internal/catalog"
	"github.com/platinasystems/acpuclock/internal/opp"
)

// Entry is the published summary of one operating point.
type Entry struct {
	KHz      uint32
	PLL      opp.PLL
	BusKHz   uint32
	VddMV    uint32
	Scalable bool
}

func (e Entry) String() string {
	return fmt.Sprint(e.KHz, ":", e.PLL, ":", e.BusKHz, ":", e.VddMV,
		":", e.Scalable)
}

// Entries summarizes the table with the effective voltages.
func (c *Controller) Entries() []Entry {
	if !c.ready.Load() {
		return nil
	}
	entries := make([]Entry, c.tbl.Len())
	for i := range entries {
		p := c.tbl.At(i)
		entries[i] = Entry{
			KHz:      p.KHz,
			PLL:      p.PLL,
			BusKHz:   p.BusKHz,
			VddMV:    c.VddMV(c.level(i)),
			Scalable: p.Scalable,
		}
	}
	return entries
}

// FormatEntries joins entries as "KHZ:PLL:BUSKHZ:MV:SCALABLE" words.
func FormatEntries(entries []Entry) string {
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.String()
	}
	return strings.Join(words, " ")
}

func ParseEntries(s string) ([]Entry, error) {
	var entries []Entry
	for _, word := range strings.Fields(s) {
		v := strings.Split(word, ":")
		if len(v) != 5 {
			return nil, fmt.Errorf("%q: malformed entry", word)
		}
		var e Entry
		var err error
		if e.KHz, err = parseUint32(v[0]); err != nil {
			return nil, err
		}
		if e.PLL, err = catalog.ParsePLL(v[1]); err != nil {
			return nil, err
		}
		if e.BusKHz, err = parseUint32(v[2]); err != nil {
			return nil, err
		}
		if e.VddMV, err = parseUint32(v[3]); err != nil {
			return nil, err
		}
		if e.Scalable, err = strconv.ParseBool(v[4]); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FormatFrequencies lists the kHz of each frequency.
func FormatFrequencies(freqs []opp.Freq) string {
	words := make([]string, len(freqs))
	for i, f := range freqs {
		words[i] = strconv.FormatUint(uint64(f.KHz), 10)
	}
	return strings.Join(words, " ")
}

func FormatLevels(levels []uint8) string {
	words := make([]string, len(levels))
	for i, level := range levels {
		words[i] = strconv.Itoa(int(level))
	}
	return strings.Join(words, " ")
}

// ParseLevels accepts space or comma separated voltage levels.
func ParseLevels(s string) ([]uint8, error) {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no levels", opp.ErrInvalidRequest)
	}
	levels := make([]uint8, len(words))
	for i, word := range words {
		u, err := strconv.ParseUint(word, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: level %q",
				opp.ErrInvalidRequest, word)
		}
		levels[i] = uint8(u)
	}
	return levels, nil
}

// ParseKHz accepts a frequency in kHz, or with a "MHz" suffix.
func ParseKHz(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	mul := uint64(1)
	if t := strings.TrimSuffix(strings.ToLower(s), "mhz"); t != strings.ToLower(s) {
		s, mul = strings.TrimSpace(t), 1000
	} else {
		s = strings.TrimSuffix(strings.ToLower(s), "khz")
	}
	u, err := strconv.ParseUint(s, 10, 32)
	if err != nil || u*mul > 1<<32-1 {
		return 0, fmt.Errorf("%w: frequency %q", opp.ErrInvalidRequest, s)
	}
	return uint32(u * mul), nil
}

func parseUint32(s string) (uint32, error) {
	u, err := strconv.ParseUint(s, 10, 32)
	return uint32(u), err
}

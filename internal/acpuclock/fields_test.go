// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package acpuclock

import (
	"errors"
	"reflect"
	"testing"

	"github.com/platinasystems/acpuclock/internal/opp"
)

func TestEntries(t *testing.T) {
	f := setupScenario(t)
	entries := f.Entries()
	want := []Entry{
		{19200, opp.TCXO, 19200, 1000, true},
		{128000, opp.PLL1, 64000, 1050, true},
		{256000, opp.PLL1, 128000, 1100, true},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("got %+v\nwant %+v", entries, want)
	}
	s := FormatEntries(entries)
	if got, want := s, "19200:tcxo:19200:1000:true "+
		"128000:pll1:64000:1050:true 256000:pll1:128000:1100:true"; got != want {
		t.Errorf("format: got %q want %q", got, want)
	}
	back, err := ParseEntries(s)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, entries) {
		t.Errorf("parse: got %+v", back)
	}
	if err := f.SetVddLevels([]uint8{2, 2, 2}); err != nil {
		t.Fatal(err)
	}
	if got, want := f.Entries()[0].VddMV, uint32(1100); got != want {
		t.Errorf("override: got %d mV want %d", got, want)
	}
}

func TestParseEntriesErrors(t *testing.T) {
	for _, s := range []string{
		"19200:tcxo:19200:1000",
		"19200:pll9:19200:1000:true",
		"x:tcxo:19200:1000:true",
		"19200:tcxo:19200:1000:maybe",
	} {
		if _, err := ParseEntries(s); err == nil {
			t.Errorf("%q: no error", s)
		}
	}
}

func TestFormatFrequencies(t *testing.T) {
	got := FormatFrequencies([]opp.Freq{{Index: 0, KHz: 19200}, {Index: 2, KHz: 122880}})
	if want := "19200 122880"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestParseLevels(t *testing.T) {
	levels, err := ParseLevels("0, 1 2,7")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := levels, []uint8{0, 1, 2, 7}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v want %v", got, want)
	}
	if got, want := FormatLevels(levels), "0 1 2 7"; got != want {
		t.Errorf("format: got %q want %q", got, want)
	}
	for _, s := range []string{"", "256", "a"} {
		if _, err := ParseLevels(s); !errors.Is(err, opp.ErrInvalidRequest) {
			t.Errorf("%q: got %v", s, err)
		}
	}
}

func TestParseKHz(t *testing.T) {
	for _, x := range []struct {
		s   string
		khz uint32
	}{
		{"245760", 245760},
		{" 600000kHz", 600000},
		{"600MHz", 600000},
		{"1200 mhz", 1200000},
	} {
		khz, err := ParseKHz(x.s)
		if err != nil {
			t.Errorf("%q: %v", x.s, err)
		} else if khz != x.khz {
			t.Errorf("%q: got %d want %d", x.s, khz, x.khz)
		}
	}
	for _, s := range []string{"", "fast", "-1", "5000000MHz"} {
		if _, err := ParseKHz(s); !errors.Is(err, opp.ErrInvalidRequest) {
			t.Errorf("%q: got %v", s, err)
		}
	}
}

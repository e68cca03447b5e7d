// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package catalog

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/platinasystems/acpuclock/internal/opp"
)

func TestCategory(t *testing.T) {
	for _, x := range []struct {
		khz, want uint32
	}{
		{245760, 245760},
		{250430, 245760},
		{241000, 245760},
		{251000, 0},
		{960000, 960000},
		{979000, 960000},
		{491520, 0},
		{0, 0},
	} {
		if got := Category(x.khz); got != x.want {
			t.Errorf("%d: got %d want %d", x.khz, got, x.want)
		}
	}
}

func TestSelectFirstMatch(t *testing.T) {
	s, err := Select(Builtin, [opp.NPLL]uint32{246000, 958000, 1201000},
		0)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := s.Variant.Name, Builtin[0].Name; got != want {
		t.Errorf("Name: got %s want %s", got, want)
	}
	if s.Halved {
		t.Error("halved")
	}
	if got, want := s.Builder.Len(), len(Builtin[0].Points); got != want {
		t.Errorf("Len: got %d want %d", got, want)
	}
}

func TestSelectNoMatch(t *testing.T) {
	_, err := Select(Builtin, [opp.NPLL]uint32{300000, 960000, 1200000},
		0)
	if !errors.Is(err, opp.ErrConfiguration) {
		t.Fatalf("got %v want %v", err, opp.ErrConfiguration)
	}
	if !strings.Contains(err.Error(), "300000") {
		t.Error("missing measurement:", err)
	}
}

func TestSelectHalved(t *testing.T) {
	s, err := Select(Builtin, [opp.NPLL]uint32{393216, 960000, 1056000},
		0)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Halved {
		t.Fatal("not halved")
	}
	if got, want := s.Categories, [opp.NPLL]uint32{196608, 960000, 1056000}; got != want {
		t.Errorf("Categories: got %v want %v", got, want)
	}
	var got []uint8
	s.Builder.Each(func(i int, p *opp.OperatingPoint) {
		if p.PLL == opp.PLL0 {
			got = append(got, p.SourceDivider)
		}
	})
	if want := []uint8{4, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("pll0 dividers: got %v want %v", got, want)
	}
	// the catalog itself is untouched
	if Builtin[1].Points[1].SourceDivider != 2 {
		t.Error("fixup modified the catalog")
	}
}

func TestFixupFirstError(t *testing.T) {
	v := &Variant{Name: "deep"}
	s := &Selection{
		Variant: v,
		Halved:  true,
		Builder: opp.NewBuilder([]opp.OperatingPoint{
			{KHz: 19200, PLL: opp.TCXO, SourceDivider: 1},
			{KHz: 24576, PLL: opp.PLL0, SourceDivider: 10},
			{KHz: 27306, PLL: opp.PLL0, SourceDivider: 9},
			{KHz: 122880, PLL: opp.PLL0, SourceDivider: 2},
		}),
	}
	err := s.fixup(0)
	if !errors.Is(err, opp.ErrConfiguration) {
		t.Fatalf("got %v want %v", err, opp.ErrConfiguration)
	}
	if !strings.Contains(err.Error(), "24576 kHz") {
		t.Errorf("not the first failure: %v", err)
	}
	for i, want := range []uint8{1, 10, 9, 2} {
		if got := s.Builder.At(i).SourceDivider; got != want {
			t.Errorf("%d: divider %d want %d", i, got, want)
		}
	}
}

func TestSelectBusBoost(t *testing.T) {
	plls := [opp.NPLL]uint32{245760, 960000, 1200000}
	s, err := Select(Builtin, plls, 160000)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := s.Boosted, 2; got != want {
		t.Errorf("Boosted: got %d want %d", got, want)
	}
	if i, _ := s.Builder.Index(480000); s.Builder.At(i).MemBusKHz != 160000 {
		t.Error("480000 not boosted:", s.Builder.At(i))
	}
	s, err = Select(Builtin, plls, 128000)
	if err != nil {
		t.Fatal(err)
	}
	if s.Boosted != 0 {
		t.Error("boosted past the bus limit")
	}
}

func TestBuiltinPrecomputes(t *testing.T) {
	for _, v := range Builtin {
		b := opp.NewBuilder(v.Points)
		if _, err := b.Precompute(256000); err != nil {
			t.Errorf("%s: %v", v.Name, err)
		}
		for i := 0; i < b.Len(); i++ {
			p := b.At(i)
			if p.SourceSelect != SourceSelect(p.PLL) {
				t.Errorf("%s: %v: select %d", v.Name, p,
					p.SourceSelect)
			}
		}
	}
}

const catalogYAML = `
- name: small
  plls: [245760, 960000, 1200000]
  boost: {pll: pll1, from: 120000, to: 160000}
  points:
    - {khz: 19200, pll: tcxo, div: 1, bus: 19200, busdiv: 1, mem: 30720, vdd: 0}
    - {khz: 245760, pll: pll0, div: 1, bus: 81920, busdiv: 3, mem: 61440, vdd: 1, scalable: true}
    - {khz: 480000, pll: pll1, div: 2, bus: 120000, busdiv: 4, mem: 120000, vdd: 2, scalable: true}
`

func TestLoad(t *testing.T) {
	vs, err := Load(strings.NewReader(catalogYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(vs) != 1 {
		t.Fatal("variants:", len(vs))
	}
	v := vs[0]
	if got, want := v.PLLKHz, Builtin[0].PLLKHz; got != want {
		t.Errorf("PLLKHz: got %v want %v", got, want)
	}
	if got, want := *v.Boost, *Builtin[0].Boost; got != want {
		t.Errorf("Boost: got %v want %v", got, want)
	}
	if got, want := v.Points[1], op(245760, opp.PLL0, 1, 81920, 3, 61440, 1, true); got != want {
		t.Errorf("Points[1]: got %v want %v", got, want)
	}
	if v.Points[0].Scalable {
		t.Error("tcxo scalable")
	}
}

func TestLoadErrors(t *testing.T) {
	for _, x := range []struct {
		name, text string
	}{
		{"empty", "[]"},
		{"syntax", "- name: [\n"},
		{"unknown field", "- name: x\n  color: red\n"},
		{"plls", "- name: x\n  plls: [1, 2]\n"},
		{"pll", "- name: x\n  plls: [1, 2, 3]\n  points:\n    - {khz: 1, pll: pll9, div: 1, busdiv: 1}\n"},
		{"order", "- name: x\n  plls: [1, 2, 3]\n  points:\n    - {khz: 2, pll: tcxo, div: 1, busdiv: 1}\n    - {khz: 1, pll: tcxo, div: 1, busdiv: 1}\n"},
	} {
		_, err := Load(strings.NewReader(x.text))
		if !errors.Is(err, opp.ErrConfiguration) {
			t.Errorf("%s: got %v want %v", x.name, err,
				opp.ErrConfiguration)
		}
	}
}

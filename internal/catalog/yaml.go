// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/platinasystems/acpuclock/internal/opp"
	"gopkg.in/yaml.v3"
)

// A catalog file is a YAML sequence of variants,
//
//	- name: pll0-245-pll1-960-pll2-1200
//	  plls: [245760, 960000, 1200000]
//	  boost: {pll: pll1, from: 120000, to: 160000}
//	  points:
//	    - {khz: 19200, pll: tcxo, div: 1, bus: 19200, busdiv: 1, mem: 30720, vdd: 0}
//	    - {khz: 122880, pll: pll0, div: 2, bus: 61440, busdiv: 2, mem: 61440, vdd: 2, scalable: true}
type yamlVariant struct {
	Name   string      `yaml:"name"`
	PLLs   []uint32    `yaml:"plls"`
	Boost  *yamlBoost  `yaml:"boost"`
	Points []yamlPoint `yaml:"points"`
}

type yamlBoost struct {
	PLL  string `yaml:"pll"`
	From uint32 `yaml:"from"`
	To   uint32 `yaml:"to"`
}

type yamlPoint struct {
	KHz      uint32 `yaml:"khz"`
	PLL      string `yaml:"pll"`
	Div      uint8  `yaml:"div"`
	Bus      uint32 `yaml:"bus"`
	BusDiv   uint8  `yaml:"busdiv"`
	Mem      uint32 `yaml:"mem"`
	Vdd      uint8  `yaml:"vdd"`
	Scalable bool   `yaml:"scalable"`
}

// ParsePLL accepts the names printed by opp.PLL.String.
func ParsePLL(s string) (opp.PLL, error) {
	for _, pll := range []opp.PLL{opp.TCXO, opp.PLL0, opp.PLL1, opp.PLL2} {
		if s == pll.String() {
			return pll, nil
		}
	}
	return opp.TCXO, fmt.Errorf("%w: unknown pll %q",
		opp.ErrConfiguration, s)
}

// Load parses a YAML catalog. Each variant must already be a valid table.
func Load(r io.Reader) ([]Variant, error) {
	var yvs []yamlVariant
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&yvs); err != nil {
		return nil, fmt.Errorf("%w: catalog: %v",
			opp.ErrConfiguration, err)
	}
	if len(yvs) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", opp.ErrConfiguration)
	}
	variants := make([]Variant, 0, len(yvs))
	for _, yv := range yvs {
		v, err := yv.variant()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", yv.Name, err)
		}
		variants = append(variants, v)
	}
	return variants, nil
}

// LoadFile is Load of the named file.
func LoadFile(fn string) ([]Variant, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (yv *yamlVariant) variant() (Variant, error) {
	v := Variant{Name: yv.Name}
	if len(yv.PLLs) != opp.NPLL {
		return v, fmt.Errorf("%w: want %d plls, have %d",
			opp.ErrConfiguration, opp.NPLL, len(yv.PLLs))
	}
	copy(v.PLLKHz[:], yv.PLLs)
	if yv.Boost != nil {
		pll, err := ParsePLL(yv.Boost.PLL)
		if err != nil {
			return v, err
		}
		v.Boost = &BusBoost{
			PLL:     pll,
			FromKHz: yv.Boost.From,
			ToKHz:   yv.Boost.To,
		}
	}
	for _, yp := range yv.Points {
		pll, err := ParsePLL(yp.PLL)
		if err != nil {
			return v, err
		}
		v.Points = append(v.Points, op(yp.KHz, pll, yp.Div, yp.Bus,
			yp.BusDiv, yp.Mem, yp.Vdd, yp.Scalable))
	}
	if err := opp.NewBuilder(v.Points).Validate(); err != nil {
		return v, err
	}
	return v, nil
}

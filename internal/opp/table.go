// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package opp

// Table is the sealed, index stable operating point table.
type Table struct {
	points []OperatingPoint
}

func (t *Table) Len() int { return len(t.points) }

// At returns a pointer into the table; callers must not modify it.
func (t *Table) At(i int) *OperatingPoint { return &t.points[i] }

// Index returns the position of the point with the given frequency.
func (t *Table) Index(khz uint32) (int, bool) { return index(t.points, khz) }

// Points returns a copy of every point.
func (t *Table) Points() []OperatingPoint {
	points := make([]OperatingPoint, len(t.points))
	copy(points, t.points)
	return points
}

// Frequencies lists the points a governor may select directly.
func (t *Table) Frequencies() []Freq {
	var freqs []Freq
	for i := range t.points {
		if t.points[i].Scalable {
			freqs = append(freqs, Freq{i, t.points[i].KHz})
		}
	}
	return freqs
}

func (t *Table) Lowest() *OperatingPoint  { return &t.points[0] }
func (t *Table) Highest() *OperatingPoint { return &t.points[len(t.points)-1] }

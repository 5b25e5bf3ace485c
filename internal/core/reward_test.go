package core

import (
	"math"
	"testing"
)

func TestBreakdownAddAndTotal(t *testing.T) {
	var b Breakdown
	b.Add(CompHit, 25)
	b.Add(CompMiss, -3)
	b.Add(CompSurvival, 0.1)
	b.Add(CompHit, math.NaN())

	if got := b.Get(CompHit); got != 25 {
		t.Errorf("hit = %v, expected 25 (NaN must be dropped)", got)
	}
	if got := b.Total(); math.Abs(got-22.1) > 1e-9 {
		t.Errorf("Total() = %v, expected 22.1", got)
	}

	var cum Breakdown
	cum.Merge(b)
	cum.Merge(b)
	if cum.Get(CompMiss) != -6 {
		t.Errorf("Merge should add component-wise, miss = %v", cum.Get(CompMiss))
	}
}

func TestBreakdownMapHasFixedSchema(t *testing.T) {
	var b Breakdown
	m := b.Map()
	for _, c := range Components() {
		if _, ok := m[c.String()]; !ok {
			t.Errorf("component %q missing from Map()", c)
		}
	}
	if len(m) != len(Components()) {
		t.Errorf("Map() has %d keys, expected %d", len(m), len(Components()))
	}
}

func TestClipReward(t *testing.T) {
	tests := []struct {
		name         string
		r, bound, ex float64
	}{
		{"inside", 1.5, 5, 1.5},
		{"above", 25, 5, 5},
		{"below", -12, 5, -5},
		{"no bound", 25, 0, 25},
		{"nan", math.NaN(), 5, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClipReward(tc.r, tc.bound); got != tc.ex {
				t.Errorf("ClipReward(%v, %v) = %v, expected %v", tc.r, tc.bound, got, tc.ex)
			}
		})
	}
}

func TestActionAxisClips(t *testing.T) {
	a := Continuous(1.5, -0.2)
	if a.Axis(0) != 1 || a.Axis(1) != 0 {
		t.Errorf("Axis should clip to [0,1], got %v, %v", a.Axis(0), a.Axis(1))
	}
	if a.Axis(5) != 0 {
		t.Error("missing axis should read 0")
	}
}

func TestDirectionOpposite(t *testing.T) {
	for _, d := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		if d.Opposite().Opposite() != d {
			t.Errorf("Opposite is not an involution for %v", d)
		}
		dx, dy := d.Delta()
		ox, oy := d.Opposite().Delta()
		if dx+ox != 0 || dy+oy != 0 {
			t.Errorf("Delta of %v and its opposite should cancel", d)
		}
	}
}

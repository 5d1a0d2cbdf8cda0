// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdas

import "math"

// safeguard adapts the violator reassignment proportion to the trend of
// recent violator counts rather than to any single iteration, damping
// oscillation of the active-set partition.
//
// It keeps a circular window of the last observed counts with cached
// minimum and maximum, and reacts to each new count c as follows:
//   - c below the window minimum (sustained improvement): grow the
//     proportion by the expand factor, capped at 1.
//   - c at or above the window maximum (stagnation): shrink the proportion
//     by the shrink factor, floored at 1/c so that at least one violator is
//     still corrected next round. A pure deflation event leaves no trace in
//     the history window.
//   - otherwise: record c without touching the proportion.
type safeguard struct {
	prop   float64 // current proportion p ∈ (0,1]
	expand float64 // growth factor δe > 1
	shrink float64 // shrink factor δs ∈ (0,1)

	window  []int // last m observed counts
	slot    int   // next write position
	min     int   // cached window minimum
	max     int   // cached window maximum
	minSlot int   // window position of the minimum
	maxSlot int   // window position of the maximum
}

// reset primes the window with the sentinel count c (one beyond any
// reachable violator count) and restores the configured proportion.
func (g *safeguard) reset(s *Safeguard, c int) {
	g.prop, g.expand, g.shrink = s.Proportion, s.Expand, s.Shrink
	for i := range g.window {
		g.window[i] = c
	}
	g.slot = 0
	g.min, g.minSlot = c, 0
	g.max, g.maxSlot = c, len(g.window)-1
}

// observe feeds one violator count into the window and returns the adapted
// proportion.
func (g *safeguard) observe(c int) float64 {
	switch {
	case c < g.min:
		g.prop = math.Min(g.expand*g.prop, one)
		g.window[g.slot] = c
		g.min, g.minSlot = c, g.slot
		if g.slot == g.maxSlot {
			g.rescanMax()
		}
		g.advance()
	case c >= g.max:
		g.prop = math.Max(g.shrink*g.prop, one/float64(c))
	default:
		g.window[g.slot] = c
		if g.slot == g.maxSlot {
			g.rescanMax()
		} else if g.slot == g.minSlot {
			g.rescanMin()
		}
		g.advance()
	}
	return g.prop
}

func (g *safeguard) advance() {
	g.slot = (g.slot + 1) % len(g.window)
}

// rescanMax recomputes the cached maximum after its slot was overwritten,
// keeping the first occurrence in slot order.
func (g *safeguard) rescanMax() {
	g.max, g.maxSlot = g.window[0], 0
	for j, c := range g.window {
		if c > g.max {
			g.max, g.maxSlot = c, j
		}
	}
}

// rescanMin recomputes the cached minimum after its slot was overwritten,
// keeping the first occurrence in slot order.
func (g *safeguard) rescanMin() {
	g.min, g.minSlot = g.window[0], 0
	for j, c := range g.window {
		if c < g.min {
			g.min, g.minSlot = c, j
		}
	}
}

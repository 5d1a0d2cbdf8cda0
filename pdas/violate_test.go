// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdas

import (
	"slices"
	"testing"
)

func TestLocateViolators(t *testing.T) {

	// one coordinate per feasibility class
	spec := &pdasSpec{n: 9, nz: 7, Problem: Problem{Lambda: 2}}
	loc := &pdasLoc{z: []float64{1, 1, -1, -1, 0.5, 1.5, -3}}
	ctx := new(pdasCtx)
	ctx.init(9, 3)
	copy(ctx.diffX, []float64{2, -1, 1, -0.25, 4, 0.1, 0})

	nv := locateViolators(loc, spec, ctx)
	switch {
	case nv != 4:
		t.Fatal("TestLocateViolators: Wrong Violator Count")
	case !slices.Equal(ctx.vioIndex[:nv], []int{1, 2, 5, 6}):
		t.Fatal("TestLocateViolators: Wrong Violator Indices")
	case !almostEqual(ctx.vioFitness[:nv], []float64{2, 2, 1.5, 3}, 0):
		t.Fatal("TestLocateViolators: Wrong Fitness Scores")
	case !slices.Equal(ctx.vioOrder[:nv], []int{0, 1, 2, 3}):
		t.Fatal("TestLocateViolators: Order Not Identity")
	}

	// a feasible point reports nothing
	copy(loc.z, []float64{1, 1, -1, -1, 0.5, 0.9, -0.99})
	copy(ctx.diffX, []float64{2, 0, 0, -0.25, 4, 0.1, 0})
	if locateViolators(loc, spec, ctx) != 0 {
		t.Fatal("TestLocateViolators: Phantom Violator")
	}
}

func TestSortViolators(t *testing.T) {

	ctx := new(pdasCtx)
	ctx.init(10, 3)
	nv := 5
	copy(ctx.vioIndex, []int{0, 2, 3, 5, 7})
	copy(ctx.vioFitness, []float64{1, 3, 2, 3, 3})
	for i := 0; i < nv; i++ {
		ctx.vioOrder[i] = i
	}

	sortViolators(ctx, nv)

	// ties resolve towards the smaller coordinate index
	if !slices.Equal(ctx.vioOrder[:nv], []int{1, 3, 4, 2, 0}) {
		t.Fatal("TestSortViolators: Wrong Priority Order")
	}
}

func TestReassignViolators(t *testing.T) {

	loc := &pdasLoc{z: []float64{1, -1, 1.75, -1.75, 0.5, 1}}
	ctx := new(pdasCtx)
	ctx.init(8, 3)
	copy(ctx.vioIndex, []int{0, 1, 2, 3})
	copy(ctx.vioOrder, []int{3, 2, 1, 0})

	// only the selected prefix flips, the trailing slot keeps its status
	reassignViolators(loc, ctx, 3)
	if !almostEqual(loc.z, []float64{1, 0, 1, -1, 0.5, 1}, 0) {
		t.Fatal("TestReassignViolators: Wrong Flip")
	}
}

// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdas

const (
	zero = 0.0
	one  = 1.0
	two  = 2.0
)

type pdasMode int

const (
	OK pdasMode = iota
	// NotPosDefinite the reduced KKT system lost positive definiteness.
	NotPosDefinite
	// PDASExceedMaxIter more than max iterations in the active-set loop.
	PDASExceedMaxIter
)

type pdasSpec struct {
	// the signal length
	n int
	// the number of second-difference constraints (n-2)
	nz int
	Problem
	logger Logger
}

type pdasLoc struct {
	y []float64 // n (read-only input signal)
	x []float64 // n
	z []float64 // n-2
}

type pdasCtx struct {
	// iteration counter.
	iter int
	// free coordinate count |A| after the last dual update.
	active int
	// violator count of the last feasibility scan.
	nVio int
	// adaptive safeguard driving the reassignment proportion.
	guard safeguard
	// second difference of the current primal iterate.
	diffX []float64 // n-2
	// contribution of the fixed dual coordinates to 𝐃ᵀ𝐳.
	divZI []float64 // n
	// packed upper band of the reduced KKT matrix (bandwidth 2).
	band []float64 // 3×(n-2)
	// right-hand side / solution of the reduced KKT system.
	rhs []float64 // n-2
	// violator fitness scores.
	vioFitness []float64 // n-2
	// violator original coordinate indices.
	vioIndex []int // n-2
	// violator priority permutation.
	vioOrder []int // n-2
}

func (c *pdasCtx) init(n, m int) {
	nz := n - 2
	totwk := nz + n + 3*nz + nz + nz
	wrk := make([]float64, totwk)

	id := 0
	iz := id + nz
	ib := iz + n
	ir := ib + 3*nz
	iv := ir + nz

	c.diffX = wrk[id:iz]
	c.divZI = wrk[iz:ib]
	c.band = wrk[ib:ir]
	c.rhs = wrk[ir:iv]
	c.vioFitness = wrk[iv:]

	iwk := make([]int, 2*nz+m)
	c.vioIndex = iwk[:nz]
	c.vioOrder = iwk[nz : 2*nz]
	c.guard.window = iwk[2*nz:]
}

func (c *pdasCtx) reset() {
	c.iter = 0
	c.active = 0
	c.nVio = 0
}

// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdas

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// Entries of the Gram matrix 𝐃𝐃ᵀ by row distance: a stencil row overlaps
// itself in three points, an adjacent row in two and a row two apart in one.
const (
	gramDiag = 6.0  // (-1)² + 2² + (-1)²
	gramNear = -4.0 // 2×(-1) + (-1)×2
	gramFar  = 1.0  // (-1)×(-1)
)

// assembleDual builds the reduced KKT system of the free dual coordinates
//
//	𝐃ₐ𝐃ₐᵀ 𝐳ₐ = 𝐃ₐ(𝐲/𝛌) - 𝐃ₐ𝐃ᵢᵀ 𝐳ᵢ
//
// where 𝐃ₐ (resp. 𝐃ᵢ) keeps the rows of 𝐃 at free (resp. fixed) coordinates.
// Every row of 𝐃 carries the full three-point stencil, so the Gram diagonal
// is constant while off-diagonals depend only on the index gap between
// consecutive free coordinates: gap 1 keeps the -4 coupling, gap 2 leaves
// only the far overlap 1, and larger gaps decouple the rows entirely.
//
// The matrix is written into ctx.band in row-major packed upper band layout
// (bandwidth 2): row k of the reduced system occupies ctx.band[3k:3k+3] as
// (diagonal, first superdiagonal, second superdiagonal). The right-hand side
// goes to ctx.rhs. Returns the system order |A|.
func assembleDual(loc *pdasLoc, spec *pdasSpec, ctx *pdasCtx) int {
	lambda := spec.Lambda
	y, z := loc.y, loc.z

	// div = 𝐃ᵢᵀ𝐳ᵢ : each fixed coordinate convolves its bound value with
	// the stencil pattern of its operator column.
	div := ctx.divZI
	div[0], div[1] = zero, zero
	for i, v := range z {
		div[i+2] = zero
		if v == one || v == -one {
			div[i] -= v
			div[i+1] += two * v
			div[i+2] -= v
		}
	}

	band, rhs := ctx.band, ctx.rhs
	prev, prev2 := -3, -3
	k := 0
	for i, v := range z {
		if v == one || v == -one {
			continue
		}
		band[3*k] = gramDiag
		band[3*k+1] = zero
		band[3*k+2] = zero
		switch i - prev {
		case 1:
			band[3*(k-1)+1] = gramNear
		case 2:
			band[3*(k-1)+1] = gramFar
		}
		if i-prev2 == 2 {
			band[3*(k-2)+2] = gramFar
		}
		rhs[k] = (two*y[i+1]-y[i]-y[i+2])/lambda + div[i] - two*div[i+1] + div[i+2]
		prev2, prev = prev, i
		k++
	}
	return k
}

// updateDual recomputes the free dual coordinates by solving the reduced KKT
// system with a banded Cholesky factorization (LAPACK dpbtrf/dpbtrs), leaving
// fixed coordinates untouched. By construction the solve zeroes the second
// difference of the next primal iterate on the free set.
//
// It returns the free count |A| and whether the factorization succeeded.
// The reduced Gram matrix is positive definite in exact arithmetic for any
// free set (rows of 𝐃 are linearly independent), so a failure indicates
// numerical breakdown rather than a structural defect.
func updateDual(loc *pdasLoc, spec *pdasSpec, ctx *pdasCtx) (int, bool) {
	k := assembleDual(loc, spec, ctx)
	if k == 0 {
		return 0, true
	}

	spd := blas64.SymmetricBand{
		Uplo: blas.Upper,
		N:    k, K: 2,
		Data:   ctx.band[:3*k],
		Stride: 3,
	}
	t, ok := lapack64.Pbtrf(spd)
	if !ok {
		return k, false
	}
	lapack64.Pbtrs(t, blas64.General{Rows: k, Cols: 1, Data: ctx.rhs[:k], Stride: 1})

	ik := 0
	for i, v := range loc.z {
		if v != one && v != -one {
			loc.z[i] = ctx.rhs[ik]
			ik++
		}
	}
	return k, true
}

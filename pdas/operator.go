// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdas

// Dx applies the discrete second-difference operator 𝐃 to a signal.
//
// 𝐃 is the (n-2) × n band matrix whose rows hold the stencil (-1, 2, -1):
//
//	    ⎡ -1  2 -1          ⎤
//	𝐃 = ⎢    -1  2 -1       ⎥
//	    ⎢       ⋱  ⋱  ⋱     ⎥
//	    ⎣          -1  2 -1 ⎦
//
// The result dx = 𝐃𝐱 satisfies dxᵢ = -xᵢ + 2xᵢ₊₁ - xᵢ₊₂ and vanishes
// exactly on affine sequences. Requires len(x) ≥ 3 and len(dx) = len(x)-2.
func Dx(x, dx []float64) {
	n := len(x)
	if n < 3 || len(dx) != n-2 {
		panic("bound check error")
	}
	for i := range dx {
		dx[i] = -x[i] + two*x[i+1] - x[i+2]
	}
}

// DTx applies the adjoint operator 𝐃ᵀ to a dual vector.
//
// The result dtz = 𝐃ᵀ𝐳 has two more entries than z. Boundary rows of 𝐃ᵀ
// carry truncated stencils, so the first and last two outputs drop the
// out-of-range terms of dtzᵢ = -zᵢ₋₂ + 2zᵢ₋₁ - zᵢ.
// Requires len(z) ≥ 1 and len(dtz) = len(z)+2.
func DTx(z, dtz []float64) {
	m := len(z)
	if m < 1 || len(dtz) != m+2 {
		panic("bound check error")
	}
	dtz[0] = -z[0]
	if m == 1 {
		// single constraint: the two boundary stencils collapse
		dtz[1] = two * z[0]
	} else {
		dtz[1] = two*z[0] - z[1]
		for i := 2; i < m; i++ {
			dtz[i] = -z[i-2] + two*z[i-1] - z[i]
		}
		dtz[m] = -z[m-2] + two*z[m-1]
	}
	dtz[m+1] = -z[m-1]
}

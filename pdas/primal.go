// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdas

// updatePrimal recovers the primal iterate from the dual state via the
// stationarity condition 𝐱 = 𝐲 - 𝛌𝐃ᵀ𝐳, fused into one pass so 𝐃ᵀ𝐳 is never
// materialized: xᵢ = yᵢ + 𝛌(zᵢ₋₂ - 2zᵢ₋₁ + zᵢ) with out-of-range dual terms
// dropped at the four boundary samples.
func updatePrimal(loc *pdasLoc, spec *pdasSpec) {
	n, lambda := spec.n, spec.Lambda
	x, y, z := loc.x, loc.y, loc.z
	x[0] = y[0] + lambda*z[0]
	if n == 3 {
		// both boundary stencils land on the middle sample
		x[1] = y[1] - two*lambda*z[0]
	} else {
		x[1] = y[1] + lambda*(z[1]-two*z[0])
		for i := 2; i < n-2; i++ {
			x[i] = y[i] + lambda*(z[i-2]-two*z[i-1]+z[i])
		}
		x[n-2] = y[n-2] + lambda*(z[n-4]-two*z[n-3])
	}
	x[n-1] = y[n-1] + lambda*z[n-3]
}

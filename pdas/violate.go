// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdas

import (
	"math"
	"sort"
)

// locateViolators scans the dual state against the KKT feasibility
// predicates:
//   - a coordinate fixed at +1 needs diffX ≥ 0, one fixed at -1 needs
//     diffX ≤ 0 (the bound must agree with the sign of the second
//     difference it penalizes);
//   - a free coordinate must stay inside (-1, +1).
//
// Each violator is recorded with its coordinate index and a fitness score
// 𝚖𝚊𝚡(𝛌|diffXᵢ|, s), where the severity s is 1 for bound violations and
// |zᵢ| for magnitude overshoot. ctx.vioOrder receives the identity
// permutation over the recorded slots. Returns the violator count.
func locateViolators(loc *pdasLoc, spec *pdasSpec, ctx *pdasCtx) int {
	lambda := spec.Lambda
	z, diff := loc.z, ctx.diffX
	nv := 0
	for i, v := range z {
		var severity float64
		switch {
		case v == one:
			if diff[i] >= zero {
				continue
			}
			severity = one
		case v == -one:
			if diff[i] <= zero {
				continue
			}
			severity = one
		case v > one || v < -one:
			severity = math.Abs(v)
		default:
			continue
		}
		ctx.vioIndex[nv] = i
		ctx.vioFitness[nv] = math.Max(lambda*math.Abs(diff[i]), severity)
		ctx.vioOrder[nv] = nv
		nv++
	}
	return nv
}

// sortViolators orders the first nv violator slots by descending fitness.
// Equal fitness falls back to ascending coordinate index (slots are recorded
// in index order), keeping the priority deterministic.
func sortViolators(ctx *pdasCtx, nv int) {
	fitness, order := ctx.vioFitness, ctx.vioOrder[:nv]
	sort.Slice(order, func(a, b int) bool {
		if fitness[order[a]] != fitness[order[b]] {
			return fitness[order[a]] > fitness[order[b]]
		}
		return order[a] < order[b]
	})
}

// reassignViolators flips the status of the nSel highest-priority violators:
// a fixed coordinate is released to 0 for the next dual solve, while an
// overshooting free coordinate is clamped onto its nearest bound. Slots
// beyond the selected prefix keep their status, throttling how much of the
// partition may change in one iteration.
func reassignViolators(loc *pdasLoc, ctx *pdasCtx, nSel int) {
	z := loc.z
	for _, s := range ctx.vioOrder[:nSel] {
		switch i := ctx.vioIndex[s]; {
		case z[i] == one || z[i] == -one:
			z[i] = zero
		case z[i] > one:
			z[i] = one
		case z[i] < -one:
			z[i] = -one
		}
	}
}

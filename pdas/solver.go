// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdas

import (
	"math"
)

// pdasSolver minimizes the 1-D L1 trend filtering objective
//
//	½‖𝐲 - 𝐱‖₂² + 𝛌‖𝐃𝐱‖₁
//
// with a safeguarded PDAS (Primal-Dual Active Set) iteration, where 𝐃 is the
// discrete second-difference operator. The reconstruction 𝐱 is piecewise
// linear: the L1 penalty drives most second differences exactly to zero and
// the surviving kinks mark the breakpoints of the trend.
//
// # Duality
//
// The dual of the problem is a box-constrained quadratic
//
//	minimize ½‖𝛌𝐃ᵀ𝐳 - 𝐲‖₂² subject to -1 ≤ 𝐳ᵢ ≤ 1
//
// which recovers the primal through the stationarity condition 𝐱 = 𝐲 - 𝛌𝐃ᵀ𝐳.
// At the optimum each dual coordinate either sits strictly inside the box
// with (𝐃𝐱)ᵢ = 0, or on a bound ±1 whose sign agrees with (𝐃𝐱)ᵢ.
//
// # Active Set Iteration
//
// Each iteration guesses a partition of the dual coordinates into a free set
// 𝐀 (inside the box) and a fixed set 𝐈 (pinned at ±1), then
//   - solves the reduced KKT system 𝐃ₐ𝐃ₐᵀ𝐳ₐ = 𝐃ₐ(𝐲/𝛌) - 𝐃ₐ𝐃ᵢᵀ𝐳ᵢ,
//     which zeroes (𝐃𝐱)ᵢ for every free coordinate;
//   - recovers 𝐱 and its second difference;
//   - collects violators: free coordinates that left the box and fixed
//     coordinates whose second difference turned against their bound;
//   - flips the status of the worst violators and iterates.
//
// The pair (𝐱,𝐳) is optimal exactly when no violator remains.
//
// # Safeguard
//
// Correcting every violator at once can cycle: releasing a whole run of
// fixed coordinates usually overshoots the next solve, which pins them all
// back again. Reassignment is therefore throttled to the 𝚖𝚊𝚡(𝚛𝚘𝚞𝚗𝚍(p·c),1)
// worst violators ranked by fitness, with the proportion p adapted to the
// violator-count trend over a sliding history window (see safeguard).
//
// # Reference
//
// Seung-Jean Kim, Kwangmoo Koh, Stephen Boyd, Dimitry Gorinevsky: "ℓ₁ Trend Filtering".
// SIAM Review 51(2), 2009
//
// E. Kelly Buchanan et al.: "Penalized matrix decomposition for denoising,
// compression, and improved demixing of functional imaging data". 2018
type pdasSolver struct {
	optimizer *Optimizer
	workspace *Workspace
	location  *pdasLoc
}

// mainLoop is the main execution loop of the active-set iteration, chaining
// the dual solve, primal recovery, feasibility scan and safeguarded
// reassignment until no violator remains or the budget is exhausted.
func (s *pdasSolver) mainLoop() (mode pdasMode) {

	loc := s.location
	spec := &s.optimizer.pdasSpec
	ctx := &s.workspace.pdasCtx

	ctx.reset()
	// prime the history with a count no feasibility scan can reach
	ctx.guard.reset(spec.Guard, spec.n)

	s.printInit()

	for iter := 1; iter <= spec.Stop.MaxIterations; iter++ {
		ctx.iter = iter

		active, ok := updateDual(loc, spec, ctx)
		if !ok {
			s.printExit(NotPosDefinite)
			return NotPosDefinite
		}
		ctx.active = active

		updatePrimal(loc, spec)
		Dx(loc.x, ctx.diffX)

		nv := locateViolators(loc, spec, ctx)
		ctx.nVio = nv
		ctx.guard.observe(nv)

		s.printIter()

		if nv == 0 {
			s.printExit(OK)
			return OK
		}

		sortViolators(ctx, nv)
		sel := max(int(math.Round(ctx.guard.prop*float64(nv))), 1)
		reassignViolators(loc, ctx, sel)
	}

	s.printExit(PDASExceedMaxIter)
	return PDASExceedMaxIter
}

// printInit logs the run banner and the header of the iteration table.
func (s *pdasSolver) printInit() {
	spec := &s.optimizer.pdasSpec
	log := spec.logger
	if log.enable(LogLast) {
		log.log("RUNNING THE PDAS L1 TREND FILTER\n")
		log.log("N = %d    LAMBDA = %.4e\n", spec.n, spec.Lambda)
		if log.enable(LogEval) {
			log.out("____________________________\n")
			log.out("|Iter|Violators|Active|Prop|\n")
		}
	}
}

// printIter logs one row of the iteration table.
func (s *pdasSolver) printIter() {
	spec := &s.optimizer.pdasSpec
	ctx := &s.workspace.pdasCtx
	log := spec.logger
	if log.enable(LogEval) {
		log.out("|%4d|%9d|%6d|%4.2f|\n", ctx.iter, ctx.nVio, ctx.active, ctx.guard.prop)
	}
}

// printExit logs the final status and solve statistics.
func (s *pdasSolver) printExit(mode pdasMode) {

	loc := s.location
	spec := &s.optimizer.pdasSpec
	ctx := &s.workspace.pdasCtx

	log := spec.logger
	if !log.enable(LogLast) {
		return
	}

	switch mode {
	case OK:
		log.log("Solved\n")
	case NotPosDefinite:
		log.log("Reduced KKT system is not positive definite.\n")
	case PDASExceedMaxIter:
		log.log("MAXITER Exceeded.\n")
	}
	log.log("Iter = %d    Violators = %d    Active = %d    Prop = %.2f\n",
		ctx.iter, ctx.nVio, ctx.active, ctx.guard.prop)

	if log.enable(LogChange) {
		log.log("\n X =")
		for i, x := range loc.x {
			log.log(" %.2e", x)
			if (i+1)%6 == 0 {
				log.log("\n     ")
			}
		}
		log.log("\n")
	}
}

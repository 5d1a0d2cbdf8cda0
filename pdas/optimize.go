// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdas

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
)

// LogLevel controls the frequency and type of logger output
type LogLevel int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop LogLevel = -1
	// LogLast print only the final status and statistics
	LogLast LogLevel = 0
	// LogEval print also one table row per iteration
	LogEval LogLevel = 1
	// LogChange print also the final x
	LogChange LogLevel = 100
)

// Logger handles logging output for the solver.
// Note the writers must be thread-safe.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
	Out   io.Writer // Writer for output data.
}

func (l *Logger) enable(level LogLevel) bool {
	return l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}

func (l *Logger) out(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Out, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Out, format)
	}
}

// Safeguard tunes the adaptive reassignment safeguard.
type Safeguard struct {
	// The initial fraction of violators corrected per iteration: 0 < p ≤ 1.
	Proportion float64
	// The number of recent violator counts kept in the history window.
	Window int
	// The proportion growth factor applied on sustained improvement (> 1).
	Expand float64
	// The proportion shrink factor applied on stagnation (within (0,1)).
	Shrink float64
}

// Termination specifies the stopping criteria for the active-set loop.
type Termination struct {
	// The iteration stop when the number of iteration exceeds limit.
	MaxIterations int
}

// Problem specifies the problem for PDAS trend filter.
type Problem struct {
	N      int         // The signal length
	Lambda float64     // The regularization weight 𝛌
	Stop   Termination // Stop condition
	// Optional safeguard tuning:
	// proportion 1, window 3, expand 2, shrink ½ when nil.
	Guard *Safeguard
}

// New creates a new PDAS optimizer for given problem.
func (p *Problem) New(logger *Logger) (optimizer *Optimizer, err error) {

	if logger == nil {
		logger = new(Logger)
		logger.Level = LogNoop
	}
	if logger.Msg == nil {
		logger.Msg = os.Stdout
	}
	if logger.Out == nil {
		logger.Out = os.Stderr
	}

	n, lambda, stop := p.N, p.Lambda, p.Stop

	guard := Safeguard{Proportion: one, Window: 3, Expand: two, Shrink: 0.5}
	if p.Guard != nil {
		guard = *p.Guard
	}

	switch {
	case n < 3:
		err = errors.New("signal length must not less than 3")
	case math.IsNaN(lambda) || lambda <= zero:
		err = errors.New("regularization weight must greater than 0")
	case stop.MaxIterations <= 0:
		err = errors.New("max iteration must greater than 1")
	case math.IsNaN(guard.Proportion) || guard.Proportion <= zero || guard.Proportion > one:
		err = errors.New("initial proportion must lie in (0,1]")
	case guard.Window <= 0:
		err = errors.New("history window must greater than 0")
	case math.IsNaN(guard.Expand) || guard.Expand <= one:
		err = errors.New("expand factor must greater than 1")
	case math.IsNaN(guard.Shrink) || guard.Shrink <= zero || guard.Shrink >= one:
		err = errors.New("shrink factor must lie in (0,1)")
	}

	if err != nil {
		return
	}

	optimizer = &Optimizer{
		pdasSpec{
			n: n, nz: n - 2,
			Problem: Problem{
				N:      n,
				Lambda: lambda,
				Stop:   stop,
				Guard:  &guard,
			},
			logger: *logger,
		},
	}

	return
}

// Optimizer implemented using the safeguarded PDAS algorithm.
type Optimizer struct {
	pdasSpec
}

// Workspace contains the state and context of the solve process.
// Given signal length n and history window m,
// total work space is approximately float64[7×n] + int[2×n + m].
type Workspace struct {
	n, m int
	pdasCtx
}

// Result contains the final result of the solve process.
type Result struct {
	OK      bool      // Whether the solver converged to zero violators.
	X       []float64 // Final trend estimate.
	Z       []float64 // Final dual variable, reusable as warm start.
	Summary           // Solve summary.
}

// Summary contains a summary of the solve process.
type Summary struct {
	Status     pdasMode // Final task status after solving.
	NumIter    int      // Number of iterations performed.
	NumActive  int      // Number of free dual coordinates at termination.
	Violators  int      // Number of violators remaining at termination.
	Proportion float64  // Final reassignment proportion.
}

// Init allocate the workspace for PDAS optimizer.
// To avoid race conditions, separate workspaces need to be created for each goroutine.
// But multiple workspaces could share one optimizer.
func (o *Optimizer) Init() *Workspace {
	w := new(Workspace)
	w.n, w.m = o.n, o.Guard.Window
	w.init(w.n, w.m)
	return w
}

// Fit runs the solve process on signal y using workspace w, cold-started
// with every dual coordinate free at 0. The signal is read, never written.
// On failure the result keeps the last computed trend and dual state.
func (o *Optimizer) Fit(y []float64, w *Workspace) *Result {
	return o.fit(y, make([]float64, o.nz), w)
}

// Refit runs the solve process on signal y using workspace w, warm-started
// from the dual state z of a previous result. The caller's slices are read,
// never written. Dual values outside [-1,1] are treated as overshoot
// violations by the first feasibility scan.
func (o *Optimizer) Refit(y, z []float64, w *Workspace) *Result {
	if len(z) != o.nz {
		panic("initial z dimension not match spec")
	}
	return o.fit(y, slices.Repeat(z, 1), w)
}

func (o *Optimizer) fit(y, z []float64, w *Workspace) *Result {

	if len(y) != o.n {
		panic("signal dimension not match spec")
	}

	if w.n != o.n || w.m != o.Guard.Window {
		panic("workspace dimension not match spec")
	}

	loc := pdasLoc{
		y: y,
		x: make([]float64, o.n),
		z: z,
	}

	solver := pdasSolver{
		optimizer: o,
		workspace: w,
		location:  &loc,
	}

	res := solver.mainLoop()
	return &Result{
		OK: res == OK,
		X:  loc.x, Z: loc.z,
		Summary: Summary{
			Status:     res,
			NumIter:    w.iter,
			NumActive:  w.active,
			Violators:  w.nVio,
			Proportion: w.guard.prop,
		},
	}
}

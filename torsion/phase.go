package torsion

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/combin"
)

type PhaseState uint8

const (
	Solving PhaseState = iota
	CheckConverged
	SearchingPhases
	Converged
	Capped
)

func (s PhaseState) String() string {
	return [...]string{"Solving", "CheckConverged", "SearchingPhases", "Converged", "Capped"}[s]
}

// Fit is the outcome of optimizing the phases of one term subset.
type Fit struct {
	Phases       []float64
	Coefficients []float64
	Fitted       []float64
	RMSE, MAE    float64
	Iterations   int // number of coefficient solves at adopted phases
	Fallbacks    int // pseudo-inverse solves over all evaluations
	Evaluations  int
	State        PhaseState // Converged or Capped
}

// PhaseOptimizer alternates exhaustive phase search with the analytic
// coefficient solve until the combined error RMSE+MAE stops changing.
type PhaseOptimizer struct {
	solver        *Solver
	cache         *BasisCache
	reference     []float64
	pool          []float64
	tolerance     float64
	maxIterations int
	log           logrus.FieldLogger
}

func NewPhaseOptimizer(p *Profile, solver *Solver, opts Options, log logrus.FieldLogger) *PhaseOptimizer {
	return &PhaseOptimizer{
		solver:        solver,
		cache:         NewBasisCache(p.Phis),
		reference:     p.Reference,
		pool:          opts.PhasePool,
		tolerance:     opts.Tolerance,
		maxIterations: opts.MaxIterations,
		log:           log,
	}
}

// Optimize runs the phase/coefficient iteration for terms, starting from the
// terms' default phases.
func (po *PhaseOptimizer) Optimize(ctx context.Context, terms []Term) (fit Fit, err error) {
	var (
		phases   = make([]float64, len(terms))
		solved   []float64
		prevErr  = math.Inf(1)
		combined float64
		sol      Solution
		state    = Solving
	)
	for i, t := range terms {
		phases[i] = t.Phase
	}
	for {
		switch state {
		case Solving:
			if fit.Iterations > 0 && fit.Iterations >= po.maxIterations {
				state = Capped
				continue
			}
			if err = ctx.Err(); err != nil {
				return
			}
			sol, fit.RMSE, fit.MAE = po.evaluate(&fit, terms, phases)
			solved = phases
			fit.Iterations++
			state = CheckConverged
		case CheckConverged:
			combined = fit.RMSE + fit.MAE
			if math.Abs(combined-prevErr) < po.tolerance {
				state = Converged
				continue
			}
			prevErr = combined
			state = SearchingPhases
		case SearchingPhases:
			phases = po.searchPhases(&fit, terms, solved, combined)
			state = Solving
		case Converged, Capped:
			fit.State = state
			fit.Phases = append([]float64(nil), solved...)
			fit.Coefficients = sol.Coefficients
			fit.Fitted = sol.Fitted
			return
		}
	}
}

func (po *PhaseOptimizer) evaluate(fit *Fit, terms []Term, phases []float64) (sol Solution, rmse, mae float64) {
	sol = po.solver.Solve(po.cache.Vectors(terms, phases))
	fit.Evaluations++
	if sol.Singular {
		fit.Fallbacks++
		po.log.WithField("phases", phases).Debugf("singular normal matrix (cond %.3g), using pseudo-inverse", sol.Condition)
	}
	rmse, mae = RMSE(sol.Fitted, po.reference), MAE(sol.Fitted, po.reference)
	return
}

// searchPhases tries every compatible assignment of pool phases to the terms
// and returns the first one with the lowest combined error. The incumbent
// phases win unless a candidate is strictly better, which also covers an
// empty candidate set.
func (po *PhaseOptimizer) searchPhases(fit *Fit, terms []Term, incumbent []float64, incumbentErr float64) (best []float64) {
	var (
		bestErr = incumbentErr
		lens    = make([]int, len(terms))
		sub     = make([]int, len(terms))
		cand    = make([]float64, len(terms))
	)
	best = incumbent
	if len(po.pool) == 0 {
		return
	}
	for i := range lens {
		lens[i] = len(po.pool)
	}
	gen := combin.NewCartesianGenerator(lens)
	for gen.Next() {
		for i, k := range gen.Product(sub) {
			cand[i] = po.pool[k]
		}
		if !Compatible(terms, cand) {
			continue
		}
		_, rmse, mae := po.evaluate(fit, terms, cand)
		if candErr := rmse + mae; candErr < bestErr {
			bestErr = candErr
			best = append([]float64(nil), cand...)
		}
	}
	return
}

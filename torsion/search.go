package torsion

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Options controls the model search.
type Options struct {
	Catalog       Catalog
	PhasePool     []float64
	Tolerance     float64 // convergence threshold on |dE|, E = RMSE + MAE
	MaxIterations int     // solves per run before the run is reported as capped
	Workers       int     // runs fitted concurrently, 1 is fully sequential
	Policy        Policy
}

func DefaultOptions() Options {
	return Options{
		Catalog:       DefaultCatalog(),
		PhasePool:     append([]float64(nil), DefaultPhasePool...),
		Tolerance:     1e-6,
		MaxIterations: 100,
		Workers:       1,
		Policy:        DefaultPolicy(),
	}
}

// Validate checks the options that every run depends on.
func (o Options) Validate() error {
	if len(o.Catalog) == 0 {
		return ErrEmptyCatalog
	}
	for i, t := range o.Catalog {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("catalog term %d: %w", i, err)
		}
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations %d, need at least 1", ErrBadOptions, o.MaxIterations)
	}
	if o.Tolerance < 0 {
		return fmt.Errorf("%w: negative tolerance %g", ErrBadOptions, o.Tolerance)
	}
	return nil
}

// FitResult is the final fit of one run.
type FitResult struct {
	Run          int   // 1-based, in enumeration order
	Indices      []int // catalog indices
	Terms        []Term
	Phases       []float64
	Coefficients []float64
	RMSE, MAE    float64
	Ratio        float64 // RMSE/MAE - 1
	Iterations   int
	Fallbacks    int
	Capped       bool
	Fitted       []float64
}

func (r FitResult) Multiplicities() (m []int) {
	m = make([]int, len(r.Terms))
	for i, t := range r.Terms {
		m[i] = t.Multiplicity
	}
	return
}

// Searcher fits every non-empty subset of the catalog to a profile.
type Searcher struct {
	opts Options
	log  *logrus.Logger
}

func NewSearcher(opts Options, log *logrus.Logger) *Searcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Searcher{opts: opts, log: log}
}

// Search returns one result per run, indexed by run order. All runs are
// executed. Invalid options are rejected before the first run, after that
// only context cancellation aborts the search.
func (s *Searcher) Search(ctx context.Context, p *Profile) (results []FitResult, err error) {
	if err = s.opts.Validate(); err != nil {
		return
	}
	var (
		runs   = s.opts.Catalog.Runs()
		solver = NewSolver(p)
	)
	results = make([]FitResult, len(runs))
	s.log.Infof("fitting %d runs over %d samples with %d worker(s)", len(runs), p.Len(), s.opts.Workers)
	if s.opts.Workers == 1 {
		for k, run := range runs {
			if results[k], err = s.fitRun(ctx, p, solver, k+1, run); err != nil {
				return nil, err
			}
		}
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for k, run := range runs {
		g.Go(func() (err error) {
			results[k], err = s.fitRun(gctx, p, solver, k+1, run)
			return
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return
}

func (s *Searcher) fitRun(ctx context.Context, p *Profile, solver *Solver, runIndex int, indices []int) (r FitResult, err error) {
	var (
		terms = s.opts.Catalog.Select(indices)
		log   = s.log.WithFields(logrus.Fields{"run": runIndex, "terms": indices})
		po    = NewPhaseOptimizer(p, solver, s.opts, log)
		fit   Fit
	)
	if fit, err = po.Optimize(ctx, terms); err != nil {
		err = fmt.Errorf("run %d: %w", runIndex, err)
		return
	}
	r = FitResult{
		Run:          runIndex,
		Indices:      indices,
		Terms:        terms,
		Phases:       fit.Phases,
		Coefficients: fit.Coefficients,
		RMSE:         fit.RMSE,
		MAE:          fit.MAE,
		Ratio:        Ratio(fit.RMSE, fit.MAE),
		Iterations:   fit.Iterations,
		Fallbacks:    fit.Fallbacks,
		Capped:       fit.State == Capped,
		Fitted:       fit.Fitted,
	}
	if r.Capped {
		log.Warnf("phase search did not converge within %d iterations, keeping last fit", s.opts.MaxIterations)
	}
	if r.Fallbacks > 0 {
		log.Warnf("%d of %d solves used the pseudo-inverse", r.Fallbacks, fit.Evaluations)
	}
	log.Debugf("%s after %d iterations: rmse %.6f mae %.6f phases %v", fit.State, fit.Iterations, r.RMSE, r.MAE, r.Phases)
	return
}

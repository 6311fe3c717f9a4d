package torsion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolver(t *testing.T) {
	{ // Exact recovery of the generating coefficients
		terms := []Term{
			{Multiplicity: 1, Sign: 1, Phase: 0},
			{Multiplicity: 3, Sign: 1, Phase: 0},
		}
		phis := GenerateAngles(36)
		ref := make([]float64, len(phis))
		for k, phi := range phis {
			ref[k] = 1.5*(1+math.Cos(rad(phi))) + 0.7*(1+math.Cos(rad(3*phi)))
		}
		p, err := NewProfile(phis, ref, make([]float64, len(phis)))
		require.NoError(t, err)
		sol := NewSolver(p).Solve(NewBasisCache(p.Phis).Vectors(terms, []float64{0, 0}))
		assert.False(t, sol.Singular)
		require.Equal(t, 2, len(sol.Coefficients))
		assert.InDelta(t, 1.5, sol.Coefficients[0], 1e-8)
		assert.InDelta(t, 0.7, sol.Coefficients[1], 1e-8)
		assert.InDelta(t, 0, RMSE(sol.Fitted, p.Reference), 1e-8)
	}
	{ // Residual orthogonality for weighted, inexact fits
		terms := []Term{
			{Multiplicity: 0, Sign: 1, Phase: 0},
			{Multiplicity: 2, Sign: 1, Phase: 45},
			{Multiplicity: 3, Sign: 1, Phase: 120},
		}
		phis, ref, mm := syntheticScan(24, []float64{0.2, 1.1, 0.4}, DefaultCatalog().Select([]int{1, 3, 5}), 0.3)
		p, err := NewProfile(phis, ref, mm)
		require.NoError(t, err)
		w := make([]float64, p.Len())
		for k := range w {
			w[k] = 1 + 0.5*math.Cos(rad(phis[k]))
		}
		require.NoError(t, p.SetWeights(w))
		B := NewBasisCache(p.Phis).Vectors(terms, []float64{0, 45, 120})
		sol := NewSolver(p).Solve(B)
		assert.False(t, sol.Singular)
		for i := range B {
			var dot float64
			for k := range w {
				dot += w[k] * B[i][k] * (sol.Fitted[k] - p.Reference[k])
			}
			assert.InDelta(t, 0, dot, 1e-9)
		}
		assert.Greater(t, RMSE(sol.Fitted, p.Reference), 0.)
	}
	{ // Two identical terms make the normal matrix exactly singular: pseudo-inverse fallback
		terms := []Term{
			{Multiplicity: 0, Sign: 1, Phase: 0},
			{Multiplicity: 0, Sign: 1, Phase: 0},
		}
		p, err := NewProfile(nil, []float64{3, 5, 3, 5}, []float64{0, 1, 0, 1})
		require.NoError(t, err)
		sol := NewSolver(p).Solve(NewBasisCache(p.Phis).Vectors(terms, []float64{0, 0}))
		assert.True(t, sol.Singular)
		for _, c := range sol.Coefficients {
			assert.False(t, math.IsNaN(c) || math.IsInf(c, 0))
		}
		// Minimum norm solution splits the offset evenly: 2*(c0 + c1) = mean difference
		assert.InDelta(t, sol.Coefficients[0], sol.Coefficients[1], 1e-12)
		assert.InDelta(t, 0.125, sol.Coefficients[0], 1e-12)
		assert.InDelta(t, 0.5, RMSE(sol.Fitted, p.Reference), 1e-12)
	}
	{ // On a 4 point grid cos(2 phi) and cos(6 phi) coincide, the fit stays finite
		terms := []Term{
			{Multiplicity: 2, Sign: 1, Phase: 0},
			{Multiplicity: 6, Sign: 1, Phase: 0},
		}
		p, err := NewProfile(nil, []float64{2, 0, 2, 0}, []float64{0, 0, 0, 0})
		require.NoError(t, err)
		assert.Equal(t, []float64{-180, -90, 0, 90}, p.Phis)
		sol := NewSolver(p).Solve(NewBasisCache(p.Phis).Vectors(terms, []float64{0, 0}))
		for _, c := range sol.Coefficients {
			assert.False(t, math.IsNaN(c) || math.IsInf(c, 0))
		}
		for _, f := range sol.Fitted {
			assert.False(t, math.IsNaN(f) || math.IsInf(f, 0))
		}
	}
	{ // Rank zero system: all weights zero
		p, err := NewProfile(nil, []float64{0, 1, 2}, []float64{0, 0, 0})
		require.NoError(t, err)
		require.NoError(t, p.SetWeights([]float64{0, 0, 0}))
		sol := NewSolver(p).Solve([][]float64{Basis(p.Phis, Term{Multiplicity: 1, Sign: 1})})
		assert.True(t, sol.Singular)
		assert.Equal(t, []float64{0}, sol.Coefficients)
		assert.Equal(t, p.Baseline, sol.Fitted)
	}
}

func TestMetrics(t *testing.T) {
	{
		pred := []float64{1, 2, 3, 4}
		actual := []float64{1, 1, 3, 7}
		assert.True(t, near(math.Sqrt(10./4), RMSE(pred, actual)))
		assert.True(t, near(1, MAE(pred, actual)))
		assert.True(t, near(math.Sqrt(10./4)-1, Ratio(RMSE(pred, actual), MAE(pred, actual))))
	}
	{ // Zero together
		x := []float64{0.5, -2, 3}
		assert.Equal(t, 0., RMSE(x, x))
		assert.Equal(t, 0., MAE(x, x))
		assert.Equal(t, 0., Ratio(0, 0))
	}
	{ // Non-negative, RMSE >= MAE for these samples
		pred := []float64{-3, 0.25, 8}
		actual := []float64{2, 0.5, -1}
		assert.GreaterOrEqual(t, RMSE(pred, actual), 0.)
		assert.GreaterOrEqual(t, MAE(pred, actual), 0.)
		assert.GreaterOrEqual(t, RMSE(pred, actual), MAE(pred, actual))
	}
}

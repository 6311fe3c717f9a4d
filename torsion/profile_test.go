package torsion

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	{ // Generated angles
		phis := GenerateAngles(12)
		require.Equal(t, 12, len(phis))
		for k, phi := range phis {
			assert.Equal(t, -180+30*float64(k), phi)
		}
	}
	{ // Normalization of both series, inputs untouched
		ref := []float64{5, 3, 4}
		mm := []float64{-2, -1, 0}
		p, err := NewProfile(nil, ref, mm)
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 0, 1}, p.Reference)
		assert.Equal(t, []float64{0, 1, 2}, p.Baseline)
		assert.Equal(t, []float64{5, 3, 4}, ref)
		assert.Equal(t, []float64{-180, -60, 60}, p.Phis)
		assert.Equal(t, []float64{2, -1, -1}, p.Difference())
		assert.Equal(t, []float64{1, 1, 1}, p.Weights.Diagonal())
	}
	{ // Normalization is idempotent
		x := []float64{3.5, -1.25, 7, 0.5}
		once := ShiftToZero(x)
		assert.Equal(t, once, ShiftToZero(once))
		assert.Equal(t, 0., once[1])
		assert.Empty(t, ShiftToZero(nil))
	}
	{ // Length validation
		_, err := NewProfile(nil, make([]float64, 10), make([]float64, 8))
		assert.True(t, errors.Is(err, ErrLengthMismatch))
		assert.Contains(t, err.Error(), "baseline has 8 points, reference has 10 points")
		_, err = NewProfile(make([]float64, 4), make([]float64, 5), make([]float64, 5))
		assert.True(t, errors.Is(err, ErrLengthMismatch))
		assert.Contains(t, err.Error(), "angles have 4 points")
		_, err = NewProfile(nil, nil, nil)
		assert.True(t, errors.Is(err, ErrEmptySeries))
	}
	{ // Weights
		p, err := NewProfile(nil, []float64{1, 2}, []float64{0, 0})
		require.NoError(t, err)
		assert.True(t, errors.Is(p.SetWeights([]float64{1}), ErrBadWeights))
		assert.True(t, errors.Is(p.SetWeights([]float64{1, -1}), ErrBadWeights))
		w := []float64{0.5, 2}
		require.NoError(t, p.SetWeights(w))
		w[0] = 9
		assert.Equal(t, []float64{0.5, 2}, p.Weights.Diagonal())
	}
}

func TestBasis(t *testing.T) {
	phis := []float64{-180, -90, 0, 90}
	{
		b := Basis(phis, Term{Multiplicity: 0, Sign: 1})
		assert.Equal(t, []float64{2, 2, 2, 2}, b)
	}
	{
		b := Basis(phis, Term{Multiplicity: 1, Sign: 1})
		expected := []float64{0, 1, 2, 1}
		for k := range b {
			assert.InDelta(t, expected[k], b[k], 1e-12)
		}
		// A phase shift of 90 moves the maximum to 90 degrees
		b = BasisAt(phis, Term{Multiplicity: 1, Sign: 1}, 90)
		expected = []float64{1, 0, 1, 2}
		for k := range b {
			assert.InDelta(t, expected[k], b[k], 1e-12)
		}
		// Negative sign flips around 1
		b = Basis(phis, Term{Multiplicity: 1, Sign: -1})
		expected = []float64{2, 1, 0, 1}
		for k := range b {
			assert.InDelta(t, expected[k], b[k], 1e-12)
		}
	}
	{ // Pure function of (angle, multiplicity, sign, phase)
		term := Term{Multiplicity: 3, Sign: 1, Phase: 45}
		for k, val := range Basis(phis, term) {
			assert.Equal(t, 1+math.Cos(3*(phis[k]-45)*math.Pi/180), val)
		}
	}
	{ // Cache
		bc := NewBasisCache(phis)
		term := Term{Multiplicity: 2, Sign: 1, Phase: 0}
		b1 := bc.Get(term, 45)
		b2 := bc.Get(term, 45)
		assert.Equal(t, &b1[0], &b2[0])
		assert.Equal(t, 1, bc.Misses)
		bc.Get(term, 90)
		bc.Get(Term{Multiplicity: 2, Sign: -1}, 90)
		assert.Equal(t, 3, bc.Misses)
		B := bc.Vectors([]Term{term, term}, []float64{45, 90})
		assert.Equal(t, 2, len(B))
		assert.Equal(t, 3, bc.Misses)
		assert.Equal(t, BasisAt(phis, term, 90), B[1])
	}
}

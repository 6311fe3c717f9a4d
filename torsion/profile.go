package torsion

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/torsionfit/utils"
)

// Profile is a torsion scan ready for fitting: the angles in degrees and the
// reference and baseline energies, both shifted so that their minimum is zero.
type Profile struct {
	Phis      []float64
	Reference []float64
	Baseline  []float64
	Weights   *sparse.DIA // diagonal weight matrix, uniform unless set
}

// GenerateAngles returns n angles evenly spaced over [-180, 180).
func GenerateAngles(n int) []float64 {
	return utils.Linspace(-180, 180, n, false)
}

// NewProfile validates the series and builds a normalized profile. A nil phis
// is replaced by GenerateAngles(len(baseline)). The inputs are not modified.
func NewProfile(phis, reference, baseline []float64) (p *Profile, err error) {
	if len(baseline) != len(reference) {
		err = fmt.Errorf("%w: baseline has %d points, reference has %d points",
			ErrLengthMismatch, len(baseline), len(reference))
		return
	}
	if len(baseline) == 0 {
		err = ErrEmptySeries
		return
	}
	if phis == nil {
		phis = GenerateAngles(len(baseline))
	}
	if len(phis) != len(baseline) {
		err = fmt.Errorf("%w: angles have %d points, energies have %d points",
			ErrLengthMismatch, len(phis), len(baseline))
		return
	}
	N := len(baseline)
	p = &Profile{
		Phis:      append([]float64(nil), phis...),
		Reference: ShiftToZero(reference),
		Baseline:  ShiftToZero(baseline),
		Weights:   sparse.NewDIA(N, N, utils.ConstArray(N, 1)),
	}
	return
}

// Len is the number of samples.
func (p *Profile) Len() int { return len(p.Phis) }

// SetWeights replaces the uniform weights. Weights must be non-negative.
func (p *Profile) SetWeights(w []float64) error {
	if len(w) != p.Len() {
		return fmt.Errorf("%w: %d weights for %d samples", ErrBadWeights, len(w), p.Len())
	}
	for i, val := range w {
		if val < 0 {
			return fmt.Errorf("%w: weight[%d] = %v", ErrBadWeights, i, val)
		}
	}
	N := p.Len()
	p.Weights = sparse.NewDIA(N, N, append([]float64(nil), w...))
	return nil
}

// Difference returns reference - baseline, the target of the correction terms.
func (p *Profile) Difference() []float64 {
	return floats.SubTo(make([]float64, p.Len()), p.Reference, p.Baseline)
}

// ShiftToZero returns a copy of x shifted so that its minimum is zero.
func ShiftToZero(x []float64) (y []float64) {
	y = append([]float64(nil), x...)
	if len(y) == 0 {
		return
	}
	floats.AddConst(-floats.Min(y), y)
	return
}

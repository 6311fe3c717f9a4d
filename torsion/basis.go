package torsion

import "math"

// Basis samples the term over phis using the term's own phase.
func Basis(phis []float64, t Term) []float64 {
	return BasisAt(phis, t, t.Phase)
}

// BasisAt samples 1 + s*cos(m*(phi - delta)) over phis, angles in degrees.
func BasisAt(phis []float64, t Term, delta float64) (b []float64) {
	var (
		m = float64(t.Multiplicity)
	)
	b = make([]float64, len(phis))
	for k, phi := range phis {
		b[k] = 1 + t.Sign*math.Cos(m*(phi-delta)*math.Pi/180)
	}
	return
}

type basisKey struct {
	multiplicity int
	sign, phase  float64
}

// BasisCache memoizes sampled basis vectors by (multiplicity, sign, phase).
// It is not safe for concurrent use; each run owns its own cache.
type BasisCache struct {
	phis   []float64
	vals   map[basisKey][]float64
	Misses int
}

func NewBasisCache(phis []float64) *BasisCache {
	return &BasisCache{
		phis: phis,
		vals: make(map[basisKey][]float64),
	}
}

// Get returns the cached basis of t shifted by delta. The returned slice is
// shared and must not be modified.
func (bc *BasisCache) Get(t Term, delta float64) []float64 {
	key := basisKey{t.Multiplicity, t.Sign, delta}
	b, ok := bc.vals[key]
	if !ok {
		b = BasisAt(bc.phis, t, delta)
		bc.vals[key] = b
		bc.Misses++
	}
	return b
}

// Vectors fills one basis vector per term, each with its own phase.
func (bc *BasisCache) Vectors(terms []Term, phases []float64) (B [][]float64) {
	B = make([][]float64, len(terms))
	for i, t := range terms {
		B[i] = bc.Get(t, phases[i])
	}
	return
}

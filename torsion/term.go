package torsion

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"
)

// Term is one periodic contribution 1 + Sign*cos(Multiplicity*(phi - Phase)).
// Phase is in degrees and is the default guess used before the phase search.
type Term struct {
	Multiplicity int     `yaml:"Multiplicity"`
	Sign         float64 `yaml:"Sign"`
	Phase        float64 `yaml:"Phase"`
}

func (t Term) String() string {
	return fmt.Sprintf("m=%d s=%+.0f d=%.1f", t.Multiplicity, t.Sign, t.Phase)
}

func (t Term) Validate() error {
	if t.Sign != 1 && t.Sign != -1 {
		return fmt.Errorf("%w: %s, sign must be +1 or -1", ErrBadTerm, t)
	}
	if t.Multiplicity < 0 {
		return fmt.Errorf("%w: %s, negative multiplicity", ErrBadTerm, t)
	}
	return nil
}

// Catalog is the ordered list of candidate terms. Runs address terms by their
// index in the catalog.
type Catalog []Term

var (
	defaultMultiplicities = []int{0, 1, 1, 2, 2, 3, 6}
	defaultPhases         = []float64{0, 0, 120, 0, 120, 0, 0}
)

// DefaultCatalog returns the seven term catalog,
//
//	Index: 0  1  1  2  2  3  6  <- multiplicity
//	Phase: 0  0 120 0 120 0  0  <- initial guess
func DefaultCatalog() (c Catalog) {
	c = make(Catalog, len(defaultMultiplicities))
	for i, m := range defaultMultiplicities {
		c[i] = Term{Multiplicity: m, Sign: 1, Phase: defaultPhases[i]}
	}
	return
}

var (
	// DefaultPhasePool holds the phase offsets tried by the phase search.
	DefaultPhasePool = []float64{0, 45, 90, 120, 180}
	// SymmetricPhasePool restricts the search to the transferable 0/180 phases.
	SymmetricPhasePool = []float64{0, 180}
)

// Select returns the catalog terms at the given indices, in index order.
func (c Catalog) Select(indices []int) (terms []Term) {
	terms = make([]Term, len(indices))
	for i, ind := range indices {
		terms[i] = c[ind]
	}
	return
}

// Runs enumerates every non-empty subset of the catalog indices, ordered by
// subset size and then lexicographically. Run number k (1-based) is Runs()[k-1].
func (c Catalog) Runs() (runs [][]int) {
	n := len(c)
	for size := 1; size <= n; size++ {
		gen := combin.NewCombinationGenerator(n, size)
		for gen.Next() {
			runs = append(runs, gen.Combination(nil))
		}
	}
	return
}

// Compatible reports whether a phase assignment is allowed for terms. Two
// neighboring terms sharing a multiplicity may not repeat a phase, and a 0 or
// 180 phase excludes both 0 and 180 on the follower.
func Compatible(terms []Term, phases []float64) bool {
	for i := 1; i < len(terms); i++ {
		if terms[i].Multiplicity != terms[i-1].Multiplicity {
			continue
		}
		if excludes(phases[i-1], phases[i]) {
			return false
		}
	}
	return true
}

func excludes(first, second float64) bool {
	switch first {
	case 0, 180:
		return second == 0 || second == 180
	}
	return second == first
}

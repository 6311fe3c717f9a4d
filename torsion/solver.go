package torsion

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// pinvRcond is the relative singular value cutoff of the pseudo-inverse.
const pinvRcond = 1e-15

// Solution of the weighted least squares problem for one phase assignment.
type Solution struct {
	Coefficients []float64
	Fitted       []float64 // baseline + sum_i c_i b_i
	// Singular is set when the normal matrix could not be factorized and the
	// coefficients come from the pseudo-inverse. Such fits may be
	// near-degenerate, the minimum norm solution is returned regardless.
	Singular  bool
	Condition float64 // only set for singular solves
}

// Solver assembles and solves the weighted normal equations against a
// profile. It holds no mutable state and may be shared between goroutines.
type Solver struct {
	baseline []float64
	diff     []float64
	w        *sparse.DIA
}

func NewSolver(p *Profile) *Solver {
	return &Solver{
		baseline: p.Baseline,
		diff:     p.Difference(),
		w:        p.Weights,
	}
}

// Solve finds c minimizing sum_k w_k (baseline_k + sum_i c_i B[i][k] - ref_k)^2
// for the basis vectors B of the active terms.
func (s *Solver) Solve(B [][]float64) (sol Solution) {
	var (
		n   = len(B)
		Np  = len(s.diff)
		A   = mat.NewSymDense(n, nil)
		rhs = mat.NewVecDense(n, nil)
		wb  = make([]float64, Np)
	)
	for i := 0; i < n; i++ {
		// wb = W b_i
		for k := range wb {
			wb[k] = 0
		}
		s.w.MulVecTo(wb, false, B[i])
		for j := i; j < n; j++ {
			A.SetSym(i, j, floats.Dot(wb, B[j]))
		}
		rhs.SetVec(i, floats.Dot(wb, s.diff))
	}
	c := mat.NewVecDense(n, nil)
	var chol mat.Cholesky
	if ok := chol.Factorize(A); !ok || chol.SolveVecTo(c, rhs) != nil {
		sol.Singular = true
		sol.Condition = pseudoInverseSolve(c, A, rhs)
	}
	sol.Coefficients = append([]float64(nil), c.RawVector().Data...)
	sol.Fitted = append([]float64(nil), s.baseline...)
	for i, ci := range sol.Coefficients {
		floats.AddScaled(sol.Fitted, ci, B[i])
	}
	return
}

// pseudoInverseSolve writes the minimum norm solution of A x = b into x and
// returns the condition number of A. A rank zero system leaves x at zero.
func pseudoInverseSolve(x *mat.VecDense, A mat.Matrix, b mat.Vector) (cond float64) {
	var svd mat.SVD
	x.Zero()
	if ok := svd.Factorize(A, mat.SVDThin); !ok {
		return mat.ConditionTolerance
	}
	cond = svd.Cond()
	rank := svd.Rank(pinvRcond)
	if rank == 0 {
		return
	}
	svd.SolveVecTo(x, b, rank)
	return
}

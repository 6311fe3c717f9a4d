package torsion

import "sort"

// Policy is the adequacy test of the model selector. The defaults have no
// derivation beyond experience with torsion scans in kcal/mol.
type Policy struct {
	MaxRMSE  float64
	MaxRatio float64
}

func DefaultPolicy() Policy {
	return Policy{MaxRMSE: 0.51, MaxRatio: 0.31}
}

func (p Policy) Adequate(r FitResult) bool {
	return r.RMSE < p.MaxRMSE && r.Ratio < p.MaxRatio
}

// Selection is the ranked table and the reported model.
type Selection struct {
	Ranked   []FitResult // ascending RMSE, ties in run order
	Chosen   FitResult
	Adequate bool // false when Chosen is the best-possible fallback
}

// Select ranks results and picks the first adequate run in run order, so
// that smaller subsets win over better but larger ones. Without an adequate
// run the result minimizing RMSE + Ratio is chosen, earliest on ties.
func Select(results []FitResult, policy Policy) (sel Selection, err error) {
	if len(results) == 0 {
		err = ErrNoResults
		return
	}
	sel.Ranked = append([]FitResult(nil), results...)
	sort.SliceStable(sel.Ranked, func(i, j int) bool {
		return sel.Ranked[i].RMSE < sel.Ranked[j].RMSE
	})
	best := results[0]
	for _, r := range results {
		if policy.Adequate(r) {
			sel.Chosen, sel.Adequate = r, true
			return
		}
		if r.RMSE+r.Ratio < best.RMSE+best.Ratio {
			best = r
		}
	}
	sel.Chosen = best
	return
}

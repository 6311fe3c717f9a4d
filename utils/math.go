package utils

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// Linspace returns N values starting at min and evenly spaced towards max.
// With endpoint the last value is max, otherwise the interval is half open.
func Linspace(min, max float64, N int, endpoint bool) (x []float64) {
	if N <= 0 {
		return []float64{}
	}
	x = make([]float64, N)
	div := float64(N)
	if endpoint {
		if N == 1 {
			x[0] = min
			return
		}
		div = float64(N - 1)
	}
	step := (max - min) / div
	for i := range x {
		x[i] = min + float64(i)*step
	}
	if endpoint {
		x[N-1] = max
	}
	return
}

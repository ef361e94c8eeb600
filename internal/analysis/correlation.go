package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Correlation returns Pearson's r over the first min(len(xs), len(ys))
// pairs. Empty input or a constant series gives 0. The result is always in
// [-1, 1].
func Correlation(xs, ys []float64) float64 {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n == 0 {
		return 0
	}
	dx := deviations(xs[:n])
	dy := deviations(ys[:n])
	vx := floats.Dot(dx, dx)
	vy := floats.Dot(dy, dy)
	if vx == 0 || vy == 0 {
		return 0
	}
	r := floats.Dot(dx, dy) / math.Sqrt(vx*vy)
	switch {
	case math.IsNaN(r):
		return 0
	case r > 1:
		return 1
	case r < -1:
		return -1
	}
	return r
}

func deviations(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	floats.AddConst(-stat.Mean(v, nil), out)
	return out
}

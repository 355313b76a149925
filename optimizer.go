package kerastuner

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/optimize"
)

//////
// Acquisition optimizer.
//////

// acquisitionOptimizer finds the vector minimizing an acquisition surface
// within per-dimension bounds. The surface is generally multi-modal, so a
// single local optimization would systematically miss better regions:
// instead it runs a bounded local minimization from nRestarts uniformly
// random starting points and keeps the globally best result.
//
// The local method is Nelder-Mead with bounds enforced by clamping inside
// the objective; gonum ships no bounded gradient-based minimizer, and the
// surface is cheap enough that a derivative-free simplex converges well.
type acquisitionOptimizer struct {
	nRestarts int
	rng       *rand.Rand
}

func newAcquisitionOptimizer(nRestarts int, rng *rand.Rand) *acquisitionOptimizer {
	return &acquisitionOptimizer{nRestarts: nRestarts, rng: rng}
}

// Minimize searches bounds for the vector with the lowest objective value.
// It returns the winning vector and its value, or ErrNoImprovingPoint when
// no restart produced a finite result. Callers must treat that outcome as
// possible, not assume success.
func (o *acquisitionOptimizer) Minimize(objective func([]float64) float64, bounds [][2]float64) ([]float64, float64, error) {
	dim := len(bounds)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return objective(clampToBounds(append([]float64(nil), x...), bounds))
		},
	}

	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-6,
			Relative:   1e-6,
			Iterations: 100,
		},
	}

	bestValue := math.Inf(1)

	var bestX []float64

	for i := 0; i < o.nRestarts; i++ {
		start := make([]float64, dim)
		for j, b := range bounds {
			start[j] = b[0] + o.rng.Float64()*(b[1]-b[0])
		}

		result, err := optimize.Minimize(problem, start, settings, &optimize.NelderMead{})
		if err != nil || result == nil {
			continue
		}

		if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
			continue
		}

		if result.F < bestValue {
			bestValue = result.F
			bestX = clampToBounds(append([]float64(nil), result.X...), bounds)
		}
	}

	if bestX == nil {
		return nil, 0, ErrNoImprovingPoint
	}

	return bestX, bestValue, nil
}

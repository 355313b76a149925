package kerastuner

import (
	"fmt"
	"math"
)

//////
// Helper functions.
//////

// Helper function used by PI and EI to compute the cumulative distribution
// function of the standard normal distribution.
//
// Returns:
// - Probability that a standard normal random variable is less than x.
func normalCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// Helper function used by EI to compute the probability density function
// of the standard normal distribution.
//
// Returns:
// - Value of the standard normal PDF at x.
func normalPDF(x float64) float64 {
	return math.Exp(-x*x/2.0) / math.Sqrt(2.0*math.Pi)
}

// toFloat64 converts any supported numeric value to float64. Configurations
// that round-tripped through JSON carry float64 where they once carried
// integers, so encoding must accept every numeric kind.
func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}

// clampToBounds clamps every coordinate of x into its [low, high] bound,
// in place, and returns x.
func clampToBounds(x []float64, bounds [][2]float64) []float64 {
	for i := range x {
		x[i] = math.Max(bounds[i][0], math.Min(x[i], bounds[i][1]))
	}

	return x
}

package kerastuner

import (
	"fmt"
	"math/rand"
)

//////
// Available acquisition functions.
// Each function ranks candidate vectors by the expected value of trying
// them next, balancing exploration (high-uncertainty regions) against
// exploitation (regions predicted to score well). Lower values indicate
// more promising points: the acquisition surface is minimized, consistent
// with the oracle's minimization-oriented objective.
//////

// Acquisition function names accepted by Config.Acquisition.
const (
	AcquisitionUCB = "ucb"
	AcquisitionPI  = "pi"
	AcquisitionEI  = "ei"
	AcquisitionTS  = "ts"
)

// AcquisitionFunc scores a point of the surrogate's posterior. mean and std
// are the predicted mean and standard deviation at the point; params carries
// the strategy's tuning knobs. Lower return values are more promising.
type AcquisitionFunc func(mean, std float64, params AcquisitionParams) float64

// AcquisitionParams holds the knobs used by the acquisition functions to
// trade exploration against exploitation.
type AcquisitionParams struct {
	// Beta controls the exploration weight of UCB. Larger values bias the
	// search toward high-uncertainty, under-explored regions.
	Beta float64

	// Xi is the minimum-improvement margin used by PI and EI.
	Xi float64

	// BestSoFar is the best (lowest) observed objective value, used by PI
	// and EI. The oracle keeps it current between fits.
	BestSoFar float64

	// RandomState is the generator used by Thompson sampling.
	RandomState *rand.Rand
}

// UCB implements the (lower) confidence bound acquisition function:
//
//	score(x) = mean(x) - beta * std(x)
//
// It is the oracle's default, matching the reference search behavior.
func UCB(mean, std float64, params AcquisitionParams) float64 {
	return mean - params.Beta*std
}

// ProbabilityOfImprovement estimates how likely a point is to improve on
// the best observed value by at least Xi. Conservative: it ignores the
// magnitude of the improvement.
func ProbabilityOfImprovement(mean, std float64, params AcquisitionParams) float64 {
	if std == 0 {
		if mean < params.BestSoFar-params.Xi {
			return -1
		}

		return 0
	}

	z := (params.BestSoFar - params.Xi - mean) / std

	// Negated so that higher probability ranks as more promising under
	// minimization.
	return -normalCDF(z)
}

// ExpectedImprovement weighs both the probability and the magnitude of
// improving on the best observed value. The most common acquisition choice
// when magnitude matters.
func ExpectedImprovement(mean, std float64, params AcquisitionParams) float64 {
	if std == 0 {
		return 0
	}

	improvement := params.BestSoFar - params.Xi - mean
	z := improvement / std

	return -(improvement*normalCDF(z) + std*normalPDF(z))
}

// ThompsonSampling draws a random sample from the posterior at the point.
// Randomness alone balances exploration and exploitation; requires
// params.RandomState.
func ThompsonSampling(mean, std float64, params AcquisitionParams) float64 {
	return mean + std*params.RandomState.NormFloat64()
}

// acquisitionByName resolves a configured acquisition name to its function.
func acquisitionByName(name string) (AcquisitionFunc, error) {
	switch name {
	case AcquisitionUCB, "":
		return UCB, nil
	case AcquisitionPI:
		return ProbabilityOfImprovement, nil
	case AcquisitionEI:
		return ExpectedImprovement, nil
	case AcquisitionTS:
		return ThompsonSampling, nil
	default:
		return nil, fmt.Errorf("unknown acquisition function %q", name)
	}
}

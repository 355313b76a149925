package kerastuner

import (
	"errors"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

//////
// Const, vars, types.
//////

// gaussianProcess implements a thread-safe Gaussian Process regressor with
// multidimensional inputs. It is the oracle's surrogate model: fitted on
// the vector encodings of scored trials, it predicts a posterior mean and
// standard deviation for any candidate vector, including vectors never seen
// in training.
//
// The model refits from scratch on every Fit call. That is acceptable here
// because search histories are small, tens to low thousands of trials.
//
// Fields:
// - mu: RWMutex for thread-safe access to all fields
// - x: Training input points, one row per observation
// - yMean: Mean of the training targets, subtracted before the solve
// - sigma: RBF kernel width controlling the smoothness of interpolation
// - alpha: Diagonal noise added to the training kernel. Required: training
//   rows can coincide or nearly coincide in low-dimensional spaces, and
//   without the jitter the factorization is ill-conditioned.
// - chol: Cholesky factorization of the training kernel matrix
// - coeffs: Solution of K*coeffs = y - yMean, reused by every prediction
type gaussianProcess struct {
	// mu protects access to all fields.
	mu sync.RWMutex

	x      [][]float64
	yMean  float64
	sigma  float64
	alpha  float64
	chol   mat.Cholesky
	coeffs *mat.VecDense
	fitted bool
}

//////
// Methods.
//////

// rbfKernel implements the Radial Basis Function (Gaussian) kernel:
//
//	k(x1, x2) = exp(-sum((x1 - x2)^2) / (2 * sigma^2))
//
// It returns 1.0 for identical points and values close to 0.0 for distant
// points. Panics if the input vectors have different lengths.
func (gp *gaussianProcess) rbfKernel(x1, x2 []float64) float64 {
	if len(x1) != len(x2) {
		panic("input vectors must have the same length")
	}

	// Squared Euclidean distance.
	var sum float64

	for i := range x1 {
		diff := x1[i] - x2[i]

		sum += diff * diff
	}

	return math.Exp(-sum / (2 * gp.sigma * gp.sigma))
}

// Fit trains the model on the given observations, replacing any previous
// fit. It requires at least two observations and returns
// ErrInsufficientHistory otherwise.
//
// The training kernel is K[i][j] = k(x[i], x[j]) plus alpha on the
// diagonal, factorized once with Cholesky; predictions then reduce to
// kernel evaluations and triangular solves.
func (gp *gaussianProcess) Fit(xs [][]float64, ys []float64) error {
	if len(xs) < 2 || len(xs) != len(ys) {
		return ErrInsufficientHistory
	}

	gp.mu.Lock()
	defer gp.mu.Unlock()

	n := len(xs)

	// Deep copy so later history growth cannot mutate the fit.
	gp.x = make([][]float64, n)
	for i, row := range xs {
		gp.x[i] = append([]float64(nil), row...)
	}

	var total float64
	for _, y := range ys {
		total += y
	}

	gp.yMean = total / float64(n)

	k := mat.NewSymDense(n, nil)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := gp.rbfKernel(gp.x[i], gp.x[j])
			if i == j {
				v += gp.alpha
			}

			k.SetSym(i, j, v)
		}
	}

	// The jitter above keeps the kernel positive definite for distinct
	// rows. Coinciding rows can still defeat a tiny alpha, so retry with a
	// growing jitter before giving up.
	jitter := gp.alpha
	for !gp.chol.Factorize(k) {
		jitter *= 1e3
		if jitter > 1 {
			gp.fitted = false

			return errors.New("training kernel is not positive definite")
		}

		for i := 0; i < n; i++ {
			k.SetSym(i, i, gp.rbfKernel(gp.x[i], gp.x[i])+jitter)
		}
	}

	centered := make([]float64, n)
	for i, y := range ys {
		centered[i] = y - gp.yMean
	}

	gp.coeffs = mat.NewVecDense(n, nil)

	// A mat.Condition result is a warning about an ill-conditioned (but
	// solved) system, expected whenever rows nearly coincide; only real
	// solve failures abort the fit.
	err := gp.chol.SolveVecTo(gp.coeffs, mat.NewVecDense(n, centered))
	if err != nil {
		if _, warning := err.(mat.Condition); !warning {
			gp.fitted = false

			return err
		}
	}

	gp.fitted = true

	return nil
}

// Predict estimates the posterior mean and standard deviation at x based on
// the fitted observations. Before any successful Fit it returns the prior
// (0, 1).
func (gp *gaussianProcess) Predict(x []float64) (mean, std float64) {
	gp.mu.RLock()
	defer gp.mu.RUnlock()

	if !gp.fitted {
		return 0, 1
	}

	n := len(gp.x)

	kv := mat.NewVecDense(n, nil)
	for i := range gp.x {
		kv.SetVec(i, gp.rbfKernel(x, gp.x[i]))
	}

	mean = gp.yMean + mat.Dot(kv, gp.coeffs)

	// Posterior variance: k(x, x) + alpha - k^T K^-1 k, clamped at zero
	// against floating-point cancellation near training points.
	var solved mat.VecDense
	if err := gp.chol.SolveVecTo(&solved, kv); err != nil {
		if _, warning := err.(mat.Condition); !warning {
			return mean, 0
		}
	}

	variance := gp.rbfKernel(x, x) + gp.alpha - mat.Dot(kv, &solved)
	if variance < 0 {
		variance = 0
	}

	return mean, math.Sqrt(variance)
}

//////
// Factory.
//////

// newGaussianProcess creates a Gaussian Process regressor with the given
// RBF kernel width and diagonal noise term. sigma around 1.0 suits
// normalized inputs; alpha must be positive.
func newGaussianProcess(sigma, alpha float64) *gaussianProcess {
	return &gaussianProcess{
		sigma: sigma,
		alpha: alpha,
	}
}

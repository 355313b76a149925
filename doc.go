// Package kerastuner provides a sequential hyperparameter search oracle
// based on Bayesian optimization with a Gaussian Process surrogate. Given a
// declared space of tunable parameters and a growing history of
// (configuration, score) observations, the oracle proposes the next
// configuration to evaluate, balancing exploration of untested regions
// against exploitation of regions known to score well.
//
// # Features
//
// The package includes the following key features:
//
//   - Declarative Search Spaces: Categorical, fixed and continuous
//     hyperparameters with deterministic, seed-counter driven sampling
//   - Bootstrap Sampling: Deduplicated random proposals until enough
//     history exists to fit a useful surrogate
//   - Gaussian Process Surrogate: Cholesky-based regression with an RBF
//     kernel and a configurable diagonal noise term
//   - Multiple Acquisition Functions: Upper Confidence Bound (default),
//     Probability of Improvement, Expected Improvement and Thompson
//     Sampling, all minimization-oriented
//   - Multi-start Acquisition Optimization: Bounded local minimization from
//     many random starting points across the multi-modal surface
//   - Thread-safe Oracle: Safe for multiple concurrent trial workers, with
//     read-only status queries that never wait on a running fit
//   - Objective Direction: Explicit minimize/maximize configuration
//   - Persistence: JSON save/reload of the full search state
//   - Tuner Driver: A ready-made search loop with trial budgets, progress
//     updates and context cancellation between trials
//
// # Protocol
//
// The oracle speaks a two-call protocol with its trial driver:
//
//	space, _ := kerastuner.NewSpace(
//	    kerastuner.NewChoice("optimizer", "adam", "sgd", "rmsprop"),
//	    kerastuner.NewRange[float64]("learning_rate", 1e-4, 1e-1),
//	    kerastuner.NewFixed("epochs", 20),
//	)
//
//	oracle, _ := kerastuner.NewOracle(kerastuner.DefaultConfig())
//
//	resp, err := oracle.PopulateSpace("trial-0", space)
//	// resp.Status is RUN with resp.Values holding the configuration to
//	// evaluate, or STOPPED when no candidate could be produced.
//
//	err = oracle.ReportResult("trial-0", valLoss)
//
// The first InitSamples proposals are deduplicated random samples. Once at
// least two trials are scored the oracle fits the surrogate to the history,
// minimizes the acquisition function mean - beta*std over the space bounds
// and proposes the decoded winner. The transition is one-directional.
//
// # Searching with the Tuner
//
// The Tuner wraps the protocol into a loop:
//
//	tuner, _ := kerastuner.NewTuner(
//	    kerastuner.DefaultConfig(),
//	    space,
//	    func(ctx context.Context, values kerastuner.Configuration) (float64, error) {
//	        return trainAndEvaluate(ctx, values)
//	    },
//	    kerastuner.WithMaxTrials(50),
//	)
//
//	result, err := tuner.Search(ctx)
//	// result.BestValues, result.BestScore
//
// # Configuration
//
// DefaultConfig mirrors the reference search behavior: 2 initial samples,
// alpha 1e-10, beta 2.6, a 20-collision bootstrap budget and 25 optimizer
// restarts. LoadConfig reads the same knobs from KT_* environment
// variables. Set Seed for a reproducible search: all sampling is derived
// from an explicit counter owned by the oracle, with no hidden global
// state.
package kerastuner

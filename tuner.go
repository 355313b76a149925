package kerastuner

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//////
// Const, vars, types.
//////

// HyperModel evaluates one configuration and returns its scalar objective
// value, typically by training a model with the given hyperparameters. It
// is the collaborator the tuner drives; its mechanics are outside this
// package.
type HyperModel func(ctx context.Context, values Configuration) (float64, error)

// ProgressUpdate reports the state of a running search after each trial.
type ProgressUpdate struct {
	// Trial is the 1-based index of the trial that just finished.
	Trial int

	// MaxTrials is the configured trial budget.
	MaxTrials int

	// TrialID identifies the finished trial.
	TrialID string

	// Values is the configuration the trial evaluated.
	Values Configuration

	// Score is the trial's objective value. NaN when the trial failed.
	Score float64

	// BestScore is the best objective value seen so far.
	BestScore float64

	// BestValues is the configuration that produced BestScore.
	BestValues Configuration
}

// SearchResult is the outcome of a completed search.
type SearchResult struct {
	// BestTrialID identifies the best trial.
	BestTrialID string

	// BestValues is the best configuration found.
	BestValues Configuration

	// BestScore is its objective value.
	BestScore float64

	// Trials is the number of trials evaluated, including failed ones.
	Trials int
}

// ErrNoCompletedTrials is returned by Search when not a single trial
// produced a score.
var ErrNoCompletedTrials = errors.New("no trials completed")

// Tuner is the trial-scheduling driver around an Oracle: it asks the
// oracle for the next configuration, hands it to the hypermodel, reports
// the resulting score back and repeats until the trial budget is spent or
// the oracle stops the search.
type Tuner struct {
	oracle     *Oracle
	space      *Space
	hypermodel HyperModel
	maxTrials  int
	progress   chan<- ProgressUpdate
}

// TunerOption customizes a Tuner.
type TunerOption func(*Tuner)

// WithMaxTrials sets the total number of trials to run. Defaults to 10.
func WithMaxTrials(n int) TunerOption {
	return func(t *Tuner) { t.maxTrials = n }
}

// WithProgressChan sets a channel receiving a ProgressUpdate after every
// trial. Updates are dropped, not blocked on, when the channel is full.
func WithProgressChan(ch chan<- ProgressUpdate) TunerOption {
	return func(t *Tuner) { t.progress = ch }
}

//////
// Factory.
//////

// NewTuner creates a search driver over space, proposing configurations
// with an oracle built from cfg and scoring them with hypermodel.
func NewTuner(cfg Config, space *Space, hypermodel HyperModel, opts ...TunerOption) (*Tuner, error) {
	if space == nil {
		return nil, fmt.Errorf("space must not be nil")
	}

	if hypermodel == nil {
		return nil, fmt.Errorf("hypermodel must not be nil")
	}

	oracle, err := NewOracle(cfg)
	if err != nil {
		return nil, err
	}

	t := &Tuner{
		oracle:     oracle,
		space:      space,
		hypermodel: hypermodel,
		maxTrials:  10,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.maxTrials < 1 {
		return nil, fmt.Errorf("max trials must be at least 1")
	}

	return t, nil
}

//////
// Methods.
//////

// Oracle exposes the tuner's oracle, e.g. to save the search state.
func (t *Tuner) Oracle() *Oracle { return t.oracle }

// Search runs trials until the budget is spent, the oracle reports
// StatusStopped, or ctx is cancelled. A failing hypermodel evaluation
// marks its trial TrialFailed and the search moves on. The oracle may
// interrupt the search before MaxTrials configurations have been tested.
func (t *Tuner) Search(ctx context.Context) (*SearchResult, error) {
	best := &SearchResult{BestScore: math.NaN()}

	for i := 0; i < t.maxTrials; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		trialID := uuid.NewString()

		resp, err := t.oracle.PopulateSpace(trialID, t.space)
		if err != nil {
			return nil, err
		}

		if resp.Status == StatusStopped {
			Logger.Info("oracle stopped the search",
				zap.String("trial_id", trialID),
				zap.Int("trials", best.Trials))

			break
		}

		best.Trials++

		score, err := t.hypermodel(ctx, resp.Values)
		if err != nil {
			Logger.Warn("trial evaluation failed",
				zap.String("trial_id", trialID),
				zap.Error(err))

			if statusErr := t.oracle.ReportStatus(trialID, TrialFailed); statusErr != nil {
				return nil, statusErr
			}

			t.sendProgress(i+1, trialID, resp.Values, math.NaN(), best)

			continue
		}

		if err := t.oracle.ReportResult(trialID, score); err != nil {
			return nil, err
		}

		if math.IsNaN(best.BestScore) || t.better(score, best.BestScore) {
			best.BestTrialID = trialID
			best.BestValues = resp.Values
			best.BestScore = score
		}

		t.sendProgress(i+1, trialID, resp.Values, score, best)
	}

	if best.BestValues == nil {
		return nil, ErrNoCompletedTrials
	}

	return best, nil
}

//////
// Unexported functionalities.
//////

func (t *Tuner) better(score, incumbent float64) bool {
	if t.oracle.Config().Direction == DirectionMaximize {
		return score > incumbent
	}

	return score < incumbent
}

func (t *Tuner) sendProgress(trial int, trialID string, values Configuration, score float64, best *SearchResult) {
	if t.progress == nil {
		return
	}

	update := ProgressUpdate{
		Trial:      trial,
		MaxTrials:  t.maxTrials,
		TrialID:    trialID,
		Values:     values,
		Score:      score,
		BestScore:  best.BestScore,
		BestValues: best.BestValues,
	}

	select {
	case t.progress <- update:
	default:
		// Skip update if channel is full.
	}
}

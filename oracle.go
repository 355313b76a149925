package kerastuner

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"go.uber.org/zap"
)

//////
// Const, vars, types.
//////

// trialRecord is the oracle's bookkeeping for one trial: the configuration
// assigned at creation and, once observed, its scalar score.
type trialRecord struct {
	values Configuration
	score  float64
	scored bool
	status TrialStatus
}

// Oracle is a sequential hyperparameter search oracle. Given a declared
// space of tunable parameters and a growing history of (configuration,
// score) observations, it proposes the next configuration to evaluate.
//
// The oracle runs a one-directional state machine. It starts in a
// bootstrap state, proposing deduplicated random samples; once InitSamples
// trials have been proposed and at least two are scored, it switches to
// model-guided proposals: it fits a Gaussian Process surrogate to the
// history, minimizes the acquisition function over the surrogate with a
// multi-start optimizer and decodes the winning vector into a
// configuration. The transition never reverts.
//
// An Oracle is safe for use by multiple concurrent trial workers.
// PopulateSpace and the report methods execute under mutual exclusion with
// respect to the oracle's state, so two concurrent proposals never observe
// a half-updated history, never race on dedup insertion, and never return
// identical configurations during bootstrap. The CPU-bound surrogate fit
// and optimizer run do not hold the state lock, so read-only queries such
// as Status stay cheap while a proposal is in flight.
type Oracle struct {
	cfg Config
	acq AcquisitionFunc

	// proposeMu serializes proposals end to end.
	proposeMu sync.Mutex

	// mu guards all state below.
	mu          sync.RWMutex
	space       *Space
	tried       *triedSet
	trials      map[string]*trialRecord
	order       []string
	seedState   int64
	numTrials   int
	modelGuided bool

	gp     *gaussianProcess
	opt    *acquisitionOptimizer
	acqRng *rand.Rand
}

//////
// Factory.
//////

// NewOracle creates an oracle from the given configuration. A zero Seed is
// replaced with a random one; the effective seed is kept in the oracle's
// configuration so a saved search can be reproduced.
func NewOracle(cfg Config) (*Oracle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	acq, err := acquisitionByName(cfg.Acquisition)
	if err != nil {
		return nil, err
	}

	cfg.Seed = cfg.seedOrRandom()

	return &Oracle{
		cfg:       cfg,
		acq:       acq,
		tried:     newTriedSet(),
		trials:    make(map[string]*trialRecord),
		seedState: cfg.Seed,
		gp:        newGaussianProcess(cfg.Sigma, cfg.Alpha),
		opt:       newAcquisitionOptimizer(cfg.NRestarts, rand.New(rand.NewSource(cfg.Seed))),
		acqRng:    rand.New(rand.NewSource(cfg.Seed + 1)),
	}, nil
}

//////
// Exported functionalities.
//////

// PopulateSpace registers space and proposes the configuration the trial
// identified by trialID should run.
//
// The response is StatusRun with a complete configuration, or StatusStopped
// when no candidate could be produced: during bootstrap after
// MaxCollisions consecutive sampling collisions, or in model-guided mode
// when the acquisition optimizer finds no improving point. On
// StatusStopped the driver should stop issuing trials for this search; it
// may retry if it expects the space to change.
//
// Reusing one Space value across calls is the expected usage. A space
// inconsistent with the previously declared parameter names fails with a
// *SpaceMismatchError.
func (o *Oracle) PopulateSpace(trialID string, space *Space) (TrialResponse, error) {
	if space == nil {
		return TrialResponse{}, fmt.Errorf("space must not be nil")
	}

	o.proposeMu.Lock()
	defer o.proposeMu.Unlock()

	o.mu.Lock()

	if err := o.updateSpaceLocked(space); err != nil {
		o.mu.Unlock()

		return TrialResponse{}, err
	}

	// Bootstrap until enough trials were proposed and at least two are
	// scored: a surrogate needs two distinct observations to fit
	// meaningfully. Both quantities grow monotonically, so once the guard
	// passes it passes forever; modelGuided latches the transition.
	if !o.modelGuided && (o.numTrials < o.cfg.InitSamples || o.historySizeLocked() < 2) {
		o.numTrials++

		values, ok := o.sampleUniqueLocked()
		if !ok {
			o.mu.Unlock()

			Logger.Warn("bootstrap collision budget exceeded",
				zap.String("trial_id", trialID),
				zap.Int("max_collisions", o.cfg.MaxCollisions),
				zap.Int("tried", o.tried.size()))

			return TrialResponse{Status: StatusStopped}, nil
		}

		o.recordTrialLocked(trialID, values)
		o.mu.Unlock()

		return TrialResponse{Status: StatusRun, Values: values}, nil
	}

	o.modelGuided = true

	xs, ys, err := o.trainingDataLocked()
	if err != nil {
		o.mu.Unlock()

		return TrialResponse{}, err
	}

	bounds := o.space.BoundsMatrix()
	space = o.space
	o.mu.Unlock()

	if len(xs) < 2 {
		// The state-transition guard counts exactly the rows built above,
		// so this is unreachable; reaching it means the guard is broken.
		panic("kerastuner: model-guided proposal with insufficient history")
	}

	// CPU-bound from here on, deliberately outside the state lock.
	if err := o.gp.Fit(xs, ys); err != nil {
		Logger.Error("surrogate fit failed",
			zap.String("trial_id", trialID),
			zap.Int("history", len(xs)),
			zap.Error(err))

		return TrialResponse{Status: StatusStopped}, nil
	}

	best := math.Inf(1)
	for _, y := range ys {
		best = math.Min(best, y)
	}

	params := AcquisitionParams{
		Beta:        o.cfg.Beta,
		Xi:          o.cfg.Xi,
		BestSoFar:   best,
		RandomState: o.acqRng,
	}

	objective := func(x []float64) float64 {
		mean, std := o.gp.Predict(x)

		return o.acq(mean, std, params)
	}

	vector, value, err := o.opt.Minimize(objective, bounds)
	if err != nil {
		Logger.Error("acquisition optimization failed",
			zap.String("trial_id", trialID),
			zap.Int("history", len(xs)),
			zap.Any("bounds", bounds),
			zap.Error(err))

		return TrialResponse{Status: StatusStopped}, nil
	}

	values, err := space.Decode(vector)
	if err != nil {
		return TrialResponse{}, err
	}

	o.mu.Lock()

	if !o.tried.registerIfNew(values) {
		// Model-guided proposals are not bounded by the collision budget;
		// repeats are possible once the surrogate has converged.
		Logger.Debug("model-guided proposal repeats a tried configuration",
			zap.String("trial_id", trialID),
			zap.Float64("acquisition", value))
	}

	o.recordTrialLocked(trialID, values)
	o.mu.Unlock()

	return TrialResponse{Status: StatusRun, Values: values}, nil
}

// ReportResult attaches score to the trial. The trial's configuration was
// recorded when it was proposed, so the observation becomes part of the
// surrogate's training history immediately. Reporting a second score for
// the same trial overwrites the first; scores are not expected to be
// revised, but overwrites are allowed by contract.
func (o *Oracle) ReportResult(trialID string, score float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	rec, ok := o.trials[trialID]
	if !ok {
		return ErrUnknownTrial
	}

	rec.score = score
	rec.scored = true
	rec.status = TrialCompleted

	return nil
}

// Result records a score for trialID without re-checking trial state. It
// is bookkeeping-only: unknown ids are accepted and tracked, but a trial
// with no recorded configuration can never join the training history.
func (o *Oracle) Result(trialID string, score float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	rec, ok := o.trials[trialID]
	if !ok {
		rec = &trialRecord{status: TrialCompleted}
		o.trials[trialID] = rec
		o.order = append(o.order, trialID)
	}

	rec.score = score
	rec.scored = true
}

// ReportStatus transitions the trial's lifecycle status. Marking a trial
// TrialFailed or TrialCancelled excludes it from the surrogate's training
// history; its dedup entry remains so the configuration is not immediately
// retried. The transition is refused with ErrHistoryUnderflow when it
// would leave a model-guided oracle with fewer than two usable
// observations.
func (o *Oracle) ReportStatus(trialID string, status TrialStatus) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	rec, ok := o.trials[trialID]
	if !ok {
		return ErrUnknownTrial
	}

	excluding := (status == TrialFailed || status == TrialCancelled) &&
		rec.status != TrialFailed && rec.status != TrialCancelled

	if excluding && o.modelGuided && rec.values != nil && rec.scored {
		if o.historySizeLocked()-1 < 2 {
			return ErrHistoryUnderflow
		}
	}

	rec.status = status

	return nil
}

// Status returns a snapshot of the oracle's progress. It only takes the
// read lock, so it does not wait on an in-flight fit or optimizer run.
func (o *Oracle) Status() OracleStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	state := StateBootstrap
	if o.modelGuided {
		state = StateModelGuided
	}

	return OracleStatus{
		State:  state,
		Trials: len(o.trials),
		Scored: o.historySizeLocked(),
	}
}

// Config returns the oracle's effective configuration, including the seed
// actually in use.
func (o *Oracle) Config() Config {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.cfg
}

//////
// Unexported functionalities.
//////

// updateSpaceLocked registers the space on first use and verifies that
// later declarations keep the parameter names of the original, in order.
// Matching declarations replace the stored space so refreshed bounds take
// effect.
func (o *Oracle) updateSpaceLocked(space *Space) error {
	if o.space == nil {
		o.space = space

		return nil
	}

	if space.Len() != o.space.Len() {
		return &SpaceMismatchError{}
	}

	for i, p := range space.Params() {
		if declared := o.space.Params()[i].Name(); declared != p.Name() {
			return &SpaceMismatchError{Declared: declared, Got: p.Name()}
		}
	}

	o.space = space

	return nil
}

// sampleUniqueLocked draws random configurations until one is new to the
// tried set, advancing the seed counter on every draw. It gives up after
// MaxCollisions consecutive collisions.
func (o *Oracle) sampleUniqueLocked() (Configuration, bool) {
	collisions := 0

	for {
		values := make(Configuration, o.space.Len())

		for _, p := range o.space.Params() {
			values[p.Name()] = p.Sample(o.seedState)
			o.seedState++
		}

		if !o.tried.registerIfNew(values) {
			collisions++
			if collisions > o.cfg.MaxCollisions {
				return nil, false
			}

			continue
		}

		return values, true
	}
}

func (o *Oracle) recordTrialLocked(trialID string, values Configuration) {
	if _, exists := o.trials[trialID]; !exists {
		o.order = append(o.order, trialID)
	}

	o.trials[trialID] = &trialRecord{values: values, status: TrialRunning}
}

// historySizeLocked counts the trials usable as training history: scored,
// configuration recorded, and not failed or cancelled.
func (o *Oracle) historySizeLocked() int {
	n := 0

	for _, rec := range o.trials {
		if o.usableHistory(rec) {
			n++
		}
	}

	return n
}

func (o *Oracle) usableHistory(rec *trialRecord) bool {
	return rec.values != nil && rec.scored &&
		rec.status != TrialFailed && rec.status != TrialCancelled
}

// trainingDataLocked builds the surrogate's training matrix from the usable
// history, in trial-creation order. With a maximization objective the
// scores are negated here, so the oracle always minimizes internally.
func (o *Oracle) trainingDataLocked() ([][]float64, []float64, error) {
	var (
		xs [][]float64
		ys []float64
	)

	for _, trialID := range o.order {
		rec := o.trials[trialID]
		if !o.usableHistory(rec) {
			continue
		}

		vector, err := o.space.Encode(rec.values)
		if err != nil {
			return nil, nil, fmt.Errorf("trial %s is inconsistent with the declared space: %w", trialID, err)
		}

		y := rec.score
		if o.cfg.Direction == DirectionMaximize {
			y = -y
		}

		xs = append(xs, vector)
		ys = append(ys, y)
	}

	return xs, ys, nil
}

package kerastuner

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
)

//////
// Oracle persistence.
//
// The oracle's state is a single small snapshot, so it serializes as one
// JSON document: the tried-set hashes, every trial's configuration, score
// and status, the seed counter and the surrogate hyperparameters. The
// search space itself is not persisted; the driver re-declares it on the
// next PopulateSpace call, exactly as it does on a fresh oracle.
//
// Numeric configuration values normalize to float64 across a save/reload
// round trip (JSON has one number type). Vector encoding and dedup
// hashing both accept that normalization.
//////

const stateVersion = 1

type savedTrial struct {
	ID     string        `json:"id"`
	Values Configuration `json:"values,omitempty"`
	Score  float64       `json:"score"`
	Scored bool          `json:"scored"`
	Status TrialStatus   `json:"status"`
}

type oracleState struct {
	Version     int          `json:"version"`
	Config      Config       `json:"config"`
	SeedState   int64        `json:"seed_state"`
	NumTrials   int          `json:"num_trials"`
	ModelGuided bool         `json:"model_guided"`
	Tried       []string     `json:"tried"`
	Trials      []savedTrial `json:"trials"`
}

// Save writes the oracle's state to w as JSON.
func (o *Oracle) Save(w io.Writer) error {
	o.mu.RLock()

	state := oracleState{
		Version:     stateVersion,
		Config:      o.cfg,
		SeedState:   o.seedState,
		NumTrials:   o.numTrials,
		ModelGuided: o.modelGuided,
		Tried:       make([]string, 0, o.tried.size()),
		Trials:      make([]savedTrial, 0, len(o.order)),
	}

	for h := range o.tried.hashes {
		state.Tried = append(state.Tried, h)
	}

	sort.Strings(state.Tried)

	for _, trialID := range o.order {
		rec := o.trials[trialID]
		state.Trials = append(state.Trials, savedTrial{
			ID:     trialID,
			Values: rec.values,
			Score:  rec.score,
			Scored: rec.scored,
			Status: rec.status,
		})
	}

	o.mu.RUnlock()

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(state)
}

// SaveFile writes the oracle's state to the file at path, creating or
// truncating it.
func (o *Oracle) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := o.Save(f); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}

// Reload replaces the oracle's state with one previously written by Save:
// tried-set, history, seed counter and surrogate hyperparameters. The
// restored oracle continues the search where the saved one stopped; the
// driver re-declares the space on its next PopulateSpace call.
func (o *Oracle) Reload(r io.Reader) error {
	var state oracleState

	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return fmt.Errorf("decoding oracle state: %w", err)
	}

	if state.Version != stateVersion {
		return fmt.Errorf("unsupported oracle state version %d", state.Version)
	}

	if err := state.Config.Validate(); err != nil {
		return err
	}

	acq, err := acquisitionByName(state.Config.Acquisition)
	if err != nil {
		return err
	}

	o.proposeMu.Lock()
	defer o.proposeMu.Unlock()

	o.mu.Lock()
	defer o.mu.Unlock()

	o.cfg = state.Config
	o.acq = acq
	o.seedState = state.SeedState
	o.numTrials = state.NumTrials
	o.modelGuided = state.ModelGuided
	o.space = nil

	o.tried = newTriedSet()
	for _, h := range state.Tried {
		o.tried.hashes[h] = struct{}{}
	}

	o.trials = make(map[string]*trialRecord, len(state.Trials))
	o.order = o.order[:0]

	for _, t := range state.Trials {
		o.trials[t.ID] = &trialRecord{
			values: t.Values,
			score:  t.Score,
			scored: t.Scored,
			status: t.Status,
		}
		o.order = append(o.order, t.ID)
	}

	o.gp = newGaussianProcess(o.cfg.Sigma, o.cfg.Alpha)
	o.opt = newAcquisitionOptimizer(o.cfg.NRestarts, rand.New(rand.NewSource(o.cfg.Seed)))
	o.acqRng = rand.New(rand.NewSource(o.cfg.Seed + 1))

	return nil
}

// ReloadFile replaces the oracle's state with the snapshot at path.
func (o *Oracle) ReloadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return o.Reload(f)
}

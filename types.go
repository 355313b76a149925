package kerastuner

import "errors"

//////
// Const, vars, types.
//////

// ResponseStatus is the status returned to the trial driver by PopulateSpace.
type ResponseStatus string

const (
	// StatusRun means the trial carries a runnable configuration.
	StatusRun ResponseStatus = "RUN"

	// StatusStopped means no candidate configuration could be produced:
	// either the bootstrap collision budget was exceeded or the acquisition
	// optimizer found no improving point. The driver should stop issuing
	// trials; it may retry later if it expects the space to change.
	StatusStopped ResponseStatus = "STOPPED"
)

// TrialStatus tracks the lifecycle of a single trial.
type TrialStatus string

const (
	// TrialRunning is the initial status of every proposed trial.
	TrialRunning TrialStatus = "RUNNING"

	// TrialCompleted is set when a score is reported for the trial.
	TrialCompleted TrialStatus = "COMPLETED"

	// TrialFailed marks a trial whose evaluation failed. Failed trials are
	// excluded from the surrogate's training history; their dedup entries
	// remain so the same configuration is not immediately retried.
	TrialFailed TrialStatus = "FAILED"

	// TrialCancelled marks a trial abandoned by the driver. Like failed
	// trials, cancelled trials are excluded from the training history.
	TrialCancelled TrialStatus = "CANCELLED"
)

// Configuration is a complete assignment of values to every hyperparameter
// in the declared search space, keyed by parameter name.
type Configuration map[string]any

// TrialResponse is the oracle's answer to a PopulateSpace call.
//
// When Status is StatusRun, Values holds a runnable Configuration with one
// entry per hyperparameter in the space. When Status is StatusStopped,
// Values is nil.
type TrialResponse struct {
	// Status is either StatusRun or StatusStopped.
	Status ResponseStatus

	// Values is the proposed configuration, nil on StatusStopped.
	Values Configuration
}

// OracleStatus is a read-only snapshot of the oracle's progress, cheap to
// query concurrently with an in-flight proposal.
type OracleStatus struct {
	// State is either StateBootstrap or StateModelGuided.
	State string

	// Trials is the number of trials proposed so far.
	Trials int

	// Scored is the number of trials usable as surrogate training history
	// (scored, not failed or cancelled).
	Scored int
}

// Oracle states reported by Status.
const (
	StateBootstrap   = "BOOTSTRAP"
	StateModelGuided = "MODEL_GUIDED"
)

//////
// Errors.
//////

// ErrNoImprovingPoint is returned by the acquisition optimizer when none of
// its restarts produced an improving point. The oracle surfaces this as
// StatusStopped.
var ErrNoImprovingPoint = errors.New("no improving point found")

// ErrInsufficientHistory is returned by the surrogate when a fit is
// attempted with fewer than two observations. The oracle's state-transition
// guard makes this unreachable through the public API.
var ErrInsufficientHistory = errors.New("at least 2 scored trials are required to fit the surrogate")

// ErrUnknownTrial is returned when a score or status is reported for a trial
// id the oracle never proposed.
var ErrUnknownTrial = errors.New("unknown trial id")

// ErrHistoryUnderflow is returned by ReportStatus when excluding a scored
// trial would leave the model-guided oracle with fewer than two usable
// observations.
var ErrHistoryUnderflow = errors.New("excluding trial would leave insufficient history for the surrogate")

// SpaceMismatchError reports a PopulateSpace call whose space is
// inconsistent with the parameter names previously declared for the search.
// It is surfaced to the driver and never recovered locally.
type SpaceMismatchError struct {
	// Declared is the parameter name expected at the conflicting index, or
	// empty when the parameter counts differ.
	Declared string

	// Got is the parameter name actually received, or empty when the
	// parameter counts differ.
	Got string
}

func (e *SpaceMismatchError) Error() string {
	if e.Declared == "" && e.Got == "" {
		return "space mismatch: parameter count differs from previously declared space"
	}

	return "space mismatch: expected parameter " + e.Declared + ", got " + e.Got
}

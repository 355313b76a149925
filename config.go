package kerastuner

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

//////
// Const, vars, types.
//////

// Direction declares whether reported scores are to be minimized or
// maximized. The acquisition convention (mean - beta*std, minimized)
// follows the minimization objective; with DirectionMaximize the oracle
// negates scores when building the surrogate's training matrix, so the
// convention itself never flips.
type Direction int

const (
	// DirectionMinimize treats lower scores as better. The default.
	DirectionMinimize Direction = iota

	// DirectionMaximize treats higher scores as better.
	DirectionMaximize
)

func (d Direction) String() string {
	return [...]string{"min", "max"}[d]
}

// UnmarshalText implements encoding.TextUnmarshaler so the direction can be
// set from the environment.
func (d *Direction) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "min", "minimize":
		*d = DirectionMinimize
	case "max", "maximize":
		*d = DirectionMaximize
	default:
		return fmt.Errorf("invalid direction: %s", string(text))
	}

	return nil
}

// Config holds every tunable of the search oracle. The zero value is not
// usable; start from DefaultConfig or LoadConfig and adjust as needed.
type Config struct {
	// InitSamples is the number of deduplicated random samples proposed
	// before the surrogate takes over.
	InitSamples int `env:"KT_INIT_SAMPLES" envDefault:"2" json:"init_samples" validate:"gte=1"`

	// Alpha is the diagonal noise added to the surrogate's training kernel.
	// Required for numerical conditioning: training rows can coincide or
	// nearly coincide in low-dimensional spaces.
	Alpha float64 `env:"KT_ALPHA" envDefault:"1e-10" json:"alpha" validate:"gt=0"`

	// Beta is the exploration/exploitation trade-off of the UCB
	// acquisition. Larger values are more explorative.
	Beta float64 `env:"KT_BETA" envDefault:"2.6" json:"beta" validate:"gte=0"`

	// Xi is the minimum-improvement margin of the PI and EI acquisitions.
	Xi float64 `env:"KT_XI" envDefault:"0.01" json:"xi" validate:"gte=0"`

	// Sigma is the RBF kernel width of the surrogate.
	Sigma float64 `env:"KT_SIGMA" envDefault:"1.0" json:"sigma" validate:"gt=0"`

	// Seed makes the whole search reproducible. 0 picks a random seed at
	// oracle creation.
	Seed int64 `env:"KT_SEED" json:"seed"`

	// MaxCollisions is the number of consecutive bootstrap sampling
	// collisions tolerated before the oracle reports StatusStopped.
	MaxCollisions int `env:"KT_MAX_COLLISIONS" envDefault:"20" json:"max_collisions" validate:"gte=1"`

	// NRestarts is the number of random starting points of the acquisition
	// optimizer's multi-start search.
	NRestarts int `env:"KT_N_RESTARTS" envDefault:"25" json:"n_restarts" validate:"gte=1"`

	// Acquisition selects the acquisition function by name: "ucb" (the
	// default), "pi", "ei" or "ts".
	Acquisition string `env:"KT_ACQUISITION" envDefault:"ucb" json:"acquisition" validate:"oneof=ucb pi ei ts"`

	// Direction declares the objective direction of reported scores.
	Direction Direction `env:"KT_DIRECTION" envDefault:"min" json:"direction" validate:"gte=0,lte=1"`
}

// validate is the shared validator instance used across the package.
var validate = validator.New()

//////
// Exported functionalities.
//////

// DefaultConfig returns the reference configuration: 2 initial samples,
// alpha 1e-10, beta 2.6, a 20-collision budget, 25 optimizer restarts, UCB
// acquisition and a minimization objective.
func DefaultConfig() Config {
	return Config{
		InitSamples:   2,
		Alpha:         1e-10,
		Beta:          2.6,
		Xi:            0.01,
		Sigma:         1.0,
		MaxCollisions: 20,
		NRestarts:     25,
		Acquisition:   AcquisitionUCB,
		Direction:     DirectionMinimize,
	}
}

// LoadConfig builds a Config from KT_* environment variables, falling back
// to the reference defaults, and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration's invariants.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid oracle config: %w", err)
	}

	return nil
}

// seedOrRandom returns the configured seed, or a time-derived one when the
// configuration left it at 0.
func (c *Config) seedOrRandom() int64 {
	if c.Seed != 0 {
		return c.Seed
	}

	return rand.New(rand.NewSource(time.Now().UnixNano())).Int63n(10000) + 1
}

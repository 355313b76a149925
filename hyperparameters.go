package kerastuner

import (
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/exp/constraints"
)

//////
// Const, vars, types.
//////

// HyperParameter is the capability interface shared by the three parameter
// variants: Choice (categorical), Fixed (constant) and Range (continuous,
// optionally integer-stepped). The variant set is closed; call sites switch
// on behavior through this interface, never on concrete types.
//
// Every method is deterministic. In particular, Sample derives its value
// from the given seed alone, so repeated calls with a monotonically
// increasing seed counter produce a well-defined, reproducible sequence.
type HyperParameter interface {
	// Name returns the parameter's stable name, unique within a Space.
	Name() string

	// Sample draws one value from the parameter's domain, deterministically
	// derived from seed.
	Sample(seed int64) any

	// Bounds returns the numeric range used by the acquisition optimizer
	// for this parameter's vector coordinate: [0, count) for Choice, the
	// degenerate [0, 0] for Fixed, and the declared interval for Range.
	Bounds() (low, high float64)

	// EncodeValue maps a domain value to its vector coordinate.
	EncodeValue(v any) (float64, error)

	// DecodeValue maps a vector coordinate back to a domain value. It never
	// fails: coordinates outside Bounds clamp to the nearest valid value
	// and non-integer coordinates on discrete parameters round to the
	// nearest valid index.
	DecodeValue(x float64) any
}

// Choice is a categorical hyperparameter: an ordered list of allowed
// discrete values. The vector coordinate of a value is its index in the
// declared list.
type Choice struct {
	name   string
	values []any
}

// Fixed is a hyperparameter pinned to a single constant value. Its vector
// coordinate is always 0 and it decodes to the constant regardless of the
// coordinate supplied.
type Fixed struct {
	name  string
	value any
}

// Range is a continuous hyperparameter over the closed interval [Min, Max],
// optionally quantized to multiples of a step.
//
// Type Parameter:
//   - T: The numeric type for this parameter (integer or float kinds)
//
// Usage:
//
//	units := kerastuner.NewRange[int]("units", 32, 512)
//	lr := kerastuner.NewRange[float64]("learning_rate", 1e-4, 1e-1)
//	dropout := kerastuner.NewRangeStep[float64]("dropout", 0.0, 0.5, 0.1)
type Range[T constraints.Integer | constraints.Float] struct {
	name string
	min  T
	max  T
	step T
}

//////
// Factories.
//////

// NewChoice creates a categorical hyperparameter over the given values. The
// value order is significant: it defines the index encoding.
func NewChoice(name string, values ...any) *Choice {
	return &Choice{name: name, values: values}
}

// NewFixed creates a hyperparameter pinned to value.
func NewFixed(name string, value any) *Fixed {
	return &Fixed{name: name, value: value}
}

// NewRange creates a continuous hyperparameter over [min, max].
func NewRange[T constraints.Integer | constraints.Float](name string, min, max T) *Range[T] {
	return &Range[T]{name: name, min: min, max: max}
}

// NewRangeStep creates a continuous hyperparameter over [min, max] whose
// values are quantized to min + k*step.
func NewRangeStep[T constraints.Integer | constraints.Float](name string, min, max, step T) *Range[T] {
	return &Range[T]{name: name, min: min, max: max, step: step}
}

//////
// Choice methods.
//////

func (c *Choice) Name() string { return c.name }

func (c *Choice) Sample(seed int64) any {
	rng := rand.New(rand.NewSource(seed))

	return c.values[rng.Intn(len(c.values))]
}

func (c *Choice) Bounds() (float64, float64) {
	return 0, float64(len(c.values))
}

func (c *Choice) EncodeValue(v any) (float64, error) {
	key := formatValue(v)

	for i, candidate := range c.values {
		if formatValue(candidate) == key {
			return float64(i), nil
		}
	}

	return 0, fmt.Errorf("value %v is not among the declared choices for %q", v, c.name)
}

func (c *Choice) DecodeValue(x float64) any {
	// The optimizer may return non-integer coordinates for this discrete
	// dimension; round to the nearest valid index and clamp at the edges.
	index := int(math.Round(x))
	if index < 0 {
		index = 0
	}

	if index >= len(c.values) {
		index = len(c.values) - 1
	}

	return c.values[index]
}

// Values returns the declared value list in encoding order.
func (c *Choice) Values() []any { return c.values }

//////
// Fixed methods.
//////

func (f *Fixed) Name() string { return f.name }

func (f *Fixed) Sample(int64) any { return f.value }

func (f *Fixed) Bounds() (float64, float64) { return 0, 0 }

func (f *Fixed) EncodeValue(any) (float64, error) { return 0, nil }

func (f *Fixed) DecodeValue(float64) any { return f.value }

// Value returns the pinned constant.
func (f *Fixed) Value() any { return f.value }

//////
// Range methods.
//////

func (r *Range[T]) Name() string { return r.name }

func (r *Range[T]) Sample(seed int64) any {
	rng := rand.New(rand.NewSource(seed))

	if r.step > 0 {
		steps := int64(float64(r.max-r.min) / float64(r.step))

		return r.min + T(rng.Int63n(steps+1))*r.step
	}

	switch any(r.min).(type) {
	case int, int32, int64:
		// For integer types, draw a random integer in range.
		min := int64(r.min)
		max := int64(r.max)

		return T(min + rng.Int63n(max-min+1))
	default:
		// For float types, draw a random float in range.
		min := float64(r.min)
		max := float64(r.max)

		return T(min + rng.Float64()*(max-min))
	}
}

func (r *Range[T]) Bounds() (float64, float64) {
	return float64(r.min), float64(r.max)
}

func (r *Range[T]) EncodeValue(v any) (float64, error) {
	x, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", r.name, err)
	}

	return x, nil
}

func (r *Range[T]) DecodeValue(x float64) any {
	low, high := r.Bounds()

	// Clamp rather than fail on coordinates the optimizer pushed past the
	// declared interval.
	x = math.Min(math.Max(x, low), high)

	if r.step > 0 {
		k := math.Round((x - low) / float64(r.step))
		x = math.Min(low+k*float64(r.step), high)
	}

	switch any(r.min).(type) {
	case int, int32, int64:
		return T(math.Round(x))
	default:
		return T(x)
	}
}

//////
// Space.
//////

// Space is the ordered sequence of hyperparameters defining a search space.
// Order is significant: it assigns each parameter its index in the vector
// encoding. Names are unique within a space.
type Space struct {
	params []HyperParameter
	index  map[string]int
}

// NewSpace builds a Space from the given hyperparameters. It fails on an
// empty parameter list, an empty name or a duplicated name.
func NewSpace(params ...HyperParameter) (*Space, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("a space requires at least one hyperparameter")
	}

	index := make(map[string]int, len(params))

	for i, p := range params {
		name := p.Name()
		if name == "" {
			return nil, fmt.Errorf("hyperparameter at index %d has an empty name", i)
		}

		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate hyperparameter name %q", name)
		}

		index[name] = i
	}

	return &Space{params: params, index: index}, nil
}

// Len returns the number of hyperparameters, which is also the vector
// encoding's dimensionality.
func (s *Space) Len() int { return len(s.params) }

// Params returns the hyperparameters in vector-index order.
func (s *Space) Params() []HyperParameter { return s.params }

// Get returns the hyperparameter with the given name.
func (s *Space) Get(name string) (HyperParameter, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}

	return s.params[i], true
}

package kerastuner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigHashIsOrderIndependent(t *testing.T) {
	a := Configuration{"x": 1, "y": "adam", "z": 0.5}

	b := make(Configuration)
	b["z"] = 0.5
	b["y"] = "adam"
	b["x"] = 1

	assert.Equal(t, configHash(a), configHash(b))
}

func TestConfigHashDistinguishesValues(t *testing.T) {
	assert.NotEqual(t,
		configHash(Configuration{"x": 1}),
		configHash(Configuration{"x": 2}),
	)

	// The string "1" and the number 1 are different values.
	assert.NotEqual(t,
		configHash(Configuration{"x": 1}),
		configHash(Configuration{"x": "1"}),
	)
}

func TestConfigHashNormalizesNumericWidths(t *testing.T) {
	// JSON reload turns int values into float64; the hash must not change.
	assert.Equal(t,
		configHash(Configuration{"x": 7}),
		configHash(Configuration{"x": 7.0}),
	)
	assert.Equal(t,
		configHash(Configuration{"x": int64(7)}),
		configHash(Configuration{"x": 7}),
	)
}

func TestRegisterIfNew(t *testing.T) {
	tried := newTriedSet()

	values := Configuration{"x": 1, "y": "adam"}

	assert.True(t, tried.registerIfNew(values))
	assert.False(t, tried.registerIfNew(values))
	assert.Equal(t, 1, tried.size())

	assert.True(t, tried.registerIfNew(Configuration{"x": 2, "y": "adam"}))
	assert.Equal(t, 2, tried.size())
}

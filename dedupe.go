package kerastuner

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
)

//////
// Configuration dedup.
//////

// triedSet records the canonical hash of every configuration ever proposed,
// scored or not. It is used purely for uniqueness during bootstrap
// sampling, never for scoring. Access is serialized by the owning oracle.
type triedSet struct {
	hashes map[string]struct{}
}

func newTriedSet() *triedSet {
	return &triedSet{hashes: make(map[string]struct{})}
}

// registerIfNew inserts the configuration's canonical hash if absent and
// reports whether the insertion happened.
func (t *triedSet) registerIfNew(values Configuration) bool {
	h := configHash(values)

	if _, seen := t.hashes[h]; seen {
		return false
	}

	t.hashes[h] = struct{}{}

	return true
}

func (t *triedSet) size() int { return len(t.hashes) }

// configHash computes a canonical hash of a configuration. It is
// order-independent over the name/value pairs and stable across runs.
func configHash(values Configuration) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}

	sort.Strings(names)

	h := sha1.New()

	for _, name := range names {
		fmt.Fprintf(h, "%s=%s;", name, formatValue(values[name]))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// formatValue renders a value with stable formatting per type. Numeric
// values of different widths that denote the same number format identically
// (so configurations survive a JSON save/reload round trip), while strings
// are quoted to keep "1" distinct from 1.
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprintf("%#v", v)
	}
}

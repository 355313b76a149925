package kerastuner

import "fmt"

//////
// Configuration <-> vector codec.
//
// The surrogate and the acquisition optimizer operate on fixed-length
// numeric vectors; the driver operates on named configurations. The codec
// maps between the two using the space's parameter order for index
// assignment: Choice values encode as their index in the declared list,
// Fixed values always encode as 0, Range values pass through unchanged.
//////

// Encode converts a configuration into its vector representation. It fails
// when values is missing an entry for any hyperparameter in the space, or
// when a value does not belong to its parameter's domain. Entries for
// parameters outside the space are ignored: an oracle tracking a large
// space may carry values for more parameters than a caller declared.
func (s *Space) Encode(values Configuration) ([]float64, error) {
	vector := make([]float64, len(s.params))

	for i, p := range s.params {
		v, ok := values[p.Name()]
		if !ok {
			return nil, fmt.Errorf("configuration is missing a value for %q", p.Name())
		}

		x, err := p.EncodeValue(v)
		if err != nil {
			return nil, err
		}

		vector[i] = x
	}

	return vector, nil
}

// Decode converts a vector back into a configuration. It is the inverse of
// Encode for any valid configuration: Decode(Encode(c)) == c. It never
// fails for vectors of the right length, whatever their coordinates:
// out-of-bounds coordinates clamp and non-integer coordinates on discrete
// dimensions round to the nearest valid index.
func (s *Space) Decode(vector []float64) (Configuration, error) {
	if len(vector) != len(s.params) {
		return nil, fmt.Errorf("vector has %d coordinates, space has %d hyperparameters", len(vector), len(s.params))
	}

	values := make(Configuration, len(s.params))

	for i, p := range s.params {
		values[p.Name()] = p.DecodeValue(vector[i])
	}

	return values, nil
}

// BoundsMatrix returns the per-dimension [low, high] bounds the acquisition
// optimizer searches within, in vector-index order.
func (s *Space) BoundsMatrix() [][2]float64 {
	bounds := make([][2]float64, len(s.params))

	for i, p := range s.params {
		low, high := p.Bounds()
		bounds[i] = [2]float64{low, high}
	}

	return bounds
}

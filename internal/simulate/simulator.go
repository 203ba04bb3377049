package simulate

import (
	"fmt"
	"math/rand/v2"
)

// Simulator draws trial data from a model: each trial samples one
// parameter vector and evaluates a fixed set of observables on it, so
// the columns of a trial are correlated through the shared parameters.
type Simulator struct {
	model *Model
	obs   []ObservableFunc
	keys  []ObservableKey
}

// NewSimulator wraps a full model for simulation. Submodel-kind models
// cannot be simulated directly.
func NewSimulator(m *Model) (*Simulator, error) {
	if m.Kind() != FullModel {
		return nil, fmt.Errorf("%s: %w", m.Name(), ErrSubmodelOnly)
	}
	return &Simulator{model: m}, nil
}

// SetObservable assigns the observable for output column j. Columns are
// contiguous: j may replace an existing column or extend the set by
// exactly one.
func (s *Simulator) SetObservable(j int, key ObservableKey) error {
	if j < 0 || j > len(s.obs) {
		return fmt.Errorf("observable index %d out of range [0, %d]", j, len(s.obs))
	}
	f, err := s.model.Observable(key)
	if err != nil {
		return err
	}
	if j == len(s.obs) {
		s.obs = append(s.obs, f)
		s.keys = append(s.keys, key)
		return nil
	}
	s.obs[j] = f
	s.keys[j] = key
	return nil
}

// ObservableKeys returns the keys assigned to each column, in order.
func (s *Simulator) ObservableKeys() []ObservableKey {
	return append([]ObservableKey(nil), s.keys...)
}

// Simulate runs one trial: a fresh parameter vector is sampled and each
// observable column is evaluated on it.
func (s *Simulator) Simulate(src rand.Source) ([]float64, error) {
	if len(s.obs) == 0 {
		return nil, ErrNoObservables
	}
	params := s.model.SampleParameters(src)
	out := make([]float64, len(s.obs))
	for j, f := range s.obs {
		out[j] = f(params)
	}
	return out, nil
}

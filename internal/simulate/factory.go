package simulate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/condmat-tools/conhist/internal/dist"
)

// Factory assembles a Model from a Definition: distributions are bound
// to parameters by name and submodel factories are attached to
// composites. Model finalizes the tree and checks completeness.
type Factory struct {
	def   Definition
	dists []dist.Distribution
	subs  []*Factory
}

// NewFactory returns a factory for the given definition.
func NewFactory(def Definition) *Factory {
	return &Factory{
		def:   def,
		dists: make([]dist.Distribution, len(def.Parameters)),
	}
}

// Name returns the definition's deck identifier.
func (f *Factory) Name() string { return f.def.Name }

// SetDistribution binds d to every parameter named name, matched
// case-insensitively, in this factory and all attached submodel
// factories. It reports whether any parameter consumed the
// distribution; an unmatched name is not an error so that callers can
// offer the same distribution to other scopes.
func (f *Factory) SetDistribution(name string, d dist.Distribution) bool {
	used := false
	for i, p := range f.def.Parameters {
		if strings.EqualFold(p, name) {
			f.dists[i] = d
			used = true
		}
	}
	for _, sub := range f.subs {
		if sub.SetDistribution(name, d) {
			used = true
		}
	}
	return used
}

// AddSubmodel attaches a submodel factory. The receiver must be a
// composite and the submodel's kind must match what the composite
// requires.
func (f *Factory) AddSubmodel(sub *Factory) error {
	if !f.def.Composite() {
		return fmt.Errorf("%s: %w", f.def.Name, ErrNotComposite)
	}
	if sub.def.Kind != f.def.SubmodelKind {
		return fmt.Errorf("%s: submodel %s has kind %q, want %q: %w",
			f.def.Name, sub.def.Name, sub.def.Kind, f.def.SubmodelKind, ErrWrongSubmodelKind)
	}
	f.subs = append(f.subs, sub)
	return nil
}

// Model finalizes the factory. Every parameter in the tree must have a
// distribution and a composite must have at least one submodel.
func (f *Factory) Model() (*Model, error) {
	if missing := f.missingDistributions(); len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%s: parameter %q: %w", f.def.Name, missing[0], ErrMissingDistribution)
	}
	if f.def.Composite() && len(f.subs) == 0 {
		return nil, fmt.Errorf("%s: %w", f.def.Name, ErrNoSubmodels)
	}

	m := &Model{
		def:   f.def,
		dists: append([]dist.Distribution(nil), f.dists...),
	}
	for _, sub := range f.subs {
		sm, err := sub.Model()
		if err != nil {
			return nil, err
		}
		m.submodels = append(m.submodels, sm)
	}
	return m, nil
}

func (f *Factory) missingDistributions() []string {
	var missing []string
	for i, p := range f.def.Parameters {
		if f.dists[i] == nil {
			missing = append(missing, p)
		}
	}
	for _, sub := range f.subs {
		missing = append(missing, sub.missingDistributions()...)
	}
	return missing
}

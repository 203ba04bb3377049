// Package simulate holds the model and observable machinery behind
// conductance-histogram simulation. A Definition describes a model type
// (its parameters, the observables it can produce, and whether it is a
// full model or a submodel of some kind); a Factory binds distributions
// and submodels to a definition; the resulting Model samples parameter
// vectors and evaluates observables on them.
package simulate

import (
	"fmt"
	"math/rand/v2"

	"github.com/condmat-tools/conhist/internal/dist"
)

// ObservableKey identifies a physical observable, independent of any
// particular model that can calculate it.
type ObservableKey string

// ObservableFunc calculates an observable from a sampled parameter
// vector. The vector layout is the model's own parameters in
// declaration order; for submodels it is the enclosing composite's own
// parameters followed by the submodel's own.
type ObservableFunc func(params []float64) float64

// Combiner merges the observable values of two submodels into one
// composite value.
type Combiner func(a, b float64) float64

// ModelKind tags a model definition. The zero value marks a full model
// that can be simulated directly; any other value marks a submodel
// kind that only composites of that kind accept.
type ModelKind string

// FullModel is the kind of directly simulatable models.
const FullModel ModelKind = ""

// Definition describes a model type. Exactly one of Observables or
// CompositeObservables is populated for a given key: simple models
// compute observables themselves, composite models combine the values
// of their submodels.
type Definition struct {
	// Name is the identifier used in input decks.
	Name string

	// Parameters lists the model's own parameter names in order.
	Parameters []string

	// Kind is FullModel or the submodel kind this definition serves as.
	Kind ModelKind

	// Observables maps keys to direct calculations.
	Observables map[ObservableKey]ObservableFunc

	// SubmodelKind, when non-empty, makes this a composite model that
	// accepts submodels of that kind.
	SubmodelKind ModelKind

	// CompositeObservables maps keys to the pairwise combiner applied
	// across submodel values.
	CompositeObservables map[ObservableKey]Combiner
}

// Composite reports whether the definition accepts submodels.
func (d Definition) Composite() bool { return d.SubmodelKind != FullModel }

// Model is a fully constructed model: a definition with a distribution
// bound to every parameter and, for composites, its submodels.
type Model struct {
	def       Definition
	dists     []dist.Distribution
	submodels []*Model
}

// Name returns the definition's deck identifier.
func (m *Model) Name() string { return m.def.Name }

// Kind returns the definition's kind tag.
func (m *Model) Kind() ModelKind { return m.def.Kind }

// NumParameters returns the total parameter count: the model's own
// parameters plus those of all submodels, recursively.
func (m *Model) NumParameters() int {
	n := len(m.def.Parameters)
	for _, sub := range m.submodels {
		n += sub.NumParameters()
	}
	return n
}

// ParameterNames returns all parameter names in sampling order: the
// model's own first, then each submodel's block in the order the
// submodels were added.
func (m *Model) ParameterNames() []string {
	names := make([]string, 0, m.NumParameters())
	names = append(names, m.def.Parameters...)
	for _, sub := range m.submodels {
		names = append(names, sub.ParameterNames()...)
	}
	return names
}

// SampleParameters draws one value from every parameter's distribution
// and returns the vector in ParameterNames order.
func (m *Model) SampleParameters(src rand.Source) []float64 {
	params := make([]float64, 0, m.NumParameters())
	for _, d := range m.dists {
		params = append(params, d.Sample(src))
	}
	for _, sub := range m.submodels {
		params = append(params, sub.SampleParameters(src)...)
	}
	return params
}

// Observable resolves the calculation for key against this model. For a
// simple model the definition's function is returned directly. For a
// composite, every submodel must also be compatible with key; the
// returned function evaluates each submodel on the composite's own
// parameters plus that submodel's parameter block and folds the values
// with the definition's combiner.
func (m *Model) Observable(key ObservableKey) (ObservableFunc, error) {
	return m.observable(key, 0)
}

// observable builds the evaluator for a vector carrying prefix external
// values ahead of this model's parameter block. A submodel is handed its
// immediate composite's own parameters plus its own block; the outer
// prefix is dropped at each nesting level, so composites compose to any
// depth.
func (m *Model) observable(key ObservableKey, prefix int) (ObservableFunc, error) {
	if f, ok := m.def.Observables[key]; ok {
		return f, nil
	}
	comb, ok := m.def.CompositeObservables[key]
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", m.def.Name, key, ErrIncompatibleObservable)
	}

	nc := len(m.def.Parameters)
	type routed struct {
		f      ObservableFunc
		length int
	}
	subs := make([]routed, len(m.submodels))
	for i, sub := range m.submodels {
		f, err := sub.observable(key, nc)
		if err != nil {
			return nil, err
		}
		subs[i] = routed{f: f, length: sub.NumParameters()}
	}

	return func(params []float64) float64 {
		own := params[prefix : prefix+nc]
		offset := prefix + nc
		var total float64
		for i, sub := range subs {
			sp := make([]float64, 0, nc+sub.length)
			sp = append(sp, own...)
			sp = append(sp, params[offset:offset+sub.length]...)
			offset += sub.length
			v := sub.f(sp)
			if i == 0 {
				total = v
			} else {
				total = comb(total, v)
			}
		}
		return total
	}, nil
}

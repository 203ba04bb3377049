// Package transport provides the electron-transport model set: a
// composite junction over independent conduction channels, with static,
// differential, and zero-bias conductance observables. Conductances are
// in units of G0 and energies share one unit with the bias voltage.
package transport

import (
	"github.com/condmat-tools/conhist/internal/simulate"
)

// Observable keys produced by the transport models.
const (
	AppliedBias             simulate.ObservableKey = "AppliedBias"
	StaticConductance       simulate.ObservableKey = "StaticConductance"
	DifferentialConductance simulate.ObservableKey = "DifferentialConductance"
	ZeroBiasConductance     simulate.ObservableKey = "ZeroBiasConductance"
)

// KindChannel tags conduction-channel submodels.
const KindChannel simulate.ModelKind = "channel"

// Junction returns the composite junction definition. Its own
// parameters are the Fermi energy and the applied bias, in that order;
// channel conductances add.
func Junction() simulate.Definition {
	add := func(a, b float64) float64 { return a + b }
	return simulate.Definition{
		Name:       "TransportJunction",
		Parameters: []string{"ef", "v"},
		Observables: map[simulate.ObservableKey]simulate.ObservableFunc{
			AppliedBias: func(p []float64) float64 { return p[1] },
		},
		SubmodelKind: KindChannel,
		CompositeObservables: map[simulate.ObservableKey]simulate.Combiner{
			StaticConductance:       add,
			DifferentialConductance: add,
			ZeroBiasConductance:     add,
		},
	}
}

// Models returns the deck-visible model definitions by name.
func Models() map[string]simulate.Definition {
	defs := []simulate.Definition{
		Junction(),
		SymmetricOneSite(),
		AsymmetricOneSite(),
		SymmetricTwoSite(),
	}
	m := make(map[string]simulate.Definition, len(defs))
	for _, d := range defs {
		m[d.Name] = d
	}
	return m
}

// Observables returns the deck-visible observable keys by name.
func Observables() map[string]simulate.ObservableKey {
	keys := []simulate.ObservableKey{
		AppliedBias,
		StaticConductance,
		DifferentialConductance,
		ZeroBiasConductance,
	}
	m := make(map[string]simulate.ObservableKey, len(keys))
	for _, k := range keys {
		m[string(k)] = k
	}
	return m
}

// differential evaluates the quasistatic differential conductance for a
// transmission function: the average of T at the two chemical
// potentials ef ± v/2.
func differential(transmission func(e float64, p []float64) float64) simulate.ObservableFunc {
	return func(p []float64) float64 {
		ef, v := p[0], p[1]
		return 0.5*transmission(ef+v/2, p) + 0.5*transmission(ef-v/2, p)
	}
}

// zeroBias evaluates the transmission at the Fermi energy.
func zeroBias(transmission func(e float64, p []float64) float64) simulate.ObservableFunc {
	return func(p []float64) float64 {
		return transmission(p[0], p)
	}
}

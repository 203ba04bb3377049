package transport

import (
	"math"

	"github.com/condmat-tools/conhist/internal/simulate"
)

// Routed parameter vectors for channels are [ef, v, own...].

func symOneSiteT(e float64, p []float64) float64 {
	eps, gamma := p[2], p[3]
	de := e - eps
	return gamma * gamma / (de*de + gamma*gamma)
}

func symOneSiteStatic(p []float64) float64 {
	ef, v, eps, gamma := p[0], p[1], p[2], p[3]
	return gamma / v * (math.Atan((ef-eps+v/2)/gamma) - math.Atan((ef-eps-v/2)/gamma))
}

// SymmetricOneSite is a single-site channel with equal couplings to
// both electrodes.
func SymmetricOneSite() simulate.Definition {
	return simulate.Definition{
		Name:       "SymmetricOneSite",
		Parameters: []string{"epsilon", "gamma"},
		Kind:       KindChannel,
		Observables: map[simulate.ObservableKey]simulate.ObservableFunc{
			StaticConductance:       symOneSiteStatic,
			DifferentialConductance: differential(symOneSiteT),
			ZeroBiasConductance:     zeroBias(symOneSiteT),
		},
	}
}

func asymOneSiteT(e float64, p []float64) float64 {
	eps, gl, gr := p[2], p[3], p[4]
	de := e - eps
	gsum := gl + gr
	return 4 * gl * gr / (4*de*de + gsum*gsum)
}

func asymOneSiteStatic(p []float64) float64 {
	ef, v, eps, gl, gr := p[0], p[1], p[2], p[3], p[4]
	gsum := gl + gr
	return 2 * gl * gr / (v * gsum) *
		(math.Atan(2*(ef-eps+v/2)/gsum) - math.Atan(2*(ef-eps-v/2)/gsum))
}

// AsymmetricOneSite is a single-site channel with independent couplings
// to the two electrodes.
func AsymmetricOneSite() simulate.Definition {
	return simulate.Definition{
		Name:       "AsymmetricOneSite",
		Parameters: []string{"epsilon", "gammal", "gammar"},
		Kind:       KindChannel,
		Observables: map[simulate.ObservableKey]simulate.ObservableFunc{
			StaticConductance:       asymOneSiteStatic,
			DifferentialConductance: differential(asymOneSiteT),
			ZeroBiasConductance:     zeroBias(asymOneSiteT),
		},
	}
}

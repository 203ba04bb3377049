package transport

import (
	"math/cmplx"

	"github.com/condmat-tools/conhist/internal/simulate"
)

func symTwoSiteT(e float64, p []float64) float64 {
	eps, gamma, beta := p[2], p[3], p[4]
	de := e - eps
	a := 4*de*de - 4*beta*beta - gamma*gamma
	return 16 * gamma * gamma * beta * beta / (a*a + 16*gamma*gamma*de*de)
}

// symTwoSiteIntegral is the antiderivative of the transmission,
// evaluated at energy z.
func symTwoSiteIntegral(z float64, eps, gamma, beta float64) float64 {
	d := complex(2*beta, gamma)
	at := cmplx.Atanh(complex(2*(z-eps), 0) / d)
	return 2 * gamma * beta / (4*beta*beta + gamma*gamma) *
		real(complex(gamma, 2*beta)*at)
}

func symTwoSiteStatic(p []float64) float64 {
	ef, v, eps, gamma, beta := p[0], p[1], p[2], p[3], p[4]
	return (symTwoSiteIntegral(ef+v/2, eps, gamma, beta) -
		symTwoSiteIntegral(ef-v/2, eps, gamma, beta)) / v
}

// SymmetricTwoSite is a two-site chain channel with equal electrode
// couplings and inter-site coupling beta.
func SymmetricTwoSite() simulate.Definition {
	return simulate.Definition{
		Name:       "SymmetricTwoSite",
		Parameters: []string{"epsilon", "gamma", "beta"},
		Kind:       KindChannel,
		Observables: map[simulate.ObservableKey]simulate.ObservableFunc{
			StaticConductance:       symTwoSiteStatic,
			DifferentialConductance: differential(symTwoSiteT),
			ZeroBiasConductance:     zeroBias(symTwoSiteT),
		},
	}
}

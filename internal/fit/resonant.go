package fit

import "math"

// SymmetricResonant is the line shape for resonant transport through a
// symmetric junction. Parameters are gamma and a scale norm:
//
//	w(g) = norm / sqrt(g^3 (1-g)) * exp(-gamma^2 (1-g) / (2 g))
type SymmetricResonant struct{}

func (SymmetricResonant) Name() string { return "SymmetricResonant" }

func (SymmetricResonant) ParamNames() []string { return []string{"gamma", "norm"} }

func (SymmetricResonant) Density(p []float64, g float64) float64 {
	gamma, norm := p[0], p[1]
	omg := 1 - g
	return norm / math.Sqrt(g*g*g*omg) * math.Exp(-gamma*gamma*omg/(2*g))
}

func (SymmetricResonant) DefaultGuesses() [][]float64 {
	var guesses [][]float64
	for _, gamma := range []float64{5, 10, 20, 30, 40, 50} {
		guesses = append(guesses, []float64{gamma, 1})
	}
	return guesses
}

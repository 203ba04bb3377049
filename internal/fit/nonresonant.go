package fit

import "math"

// SymmetricNonresonant is the line shape for off-resonant transport
// through a symmetric junction. Parameters are c, d, and a scale norm:
//
//	w(g) = norm / sqrt(g (1-g)^3) * exp(-(c sqrt(g) - d sqrt(1-g))^2 / (2 (1-g)))
type SymmetricNonresonant struct{}

func (SymmetricNonresonant) Name() string { return "SymmetricNonresonant" }

func (SymmetricNonresonant) ParamNames() []string { return []string{"c", "d", "norm"} }

func (SymmetricNonresonant) Density(p []float64, g float64) float64 {
	c, d, norm := p[0], p[1], p[2]
	omg := 1 - g
	arg := c*math.Sqrt(g) - d*math.Sqrt(omg)
	return norm / math.Sqrt(g*omg*omg*omg) * math.Exp(-arg*arg/(2*omg))
}

func (SymmetricNonresonant) DefaultGuesses() [][]float64 {
	cs := []float64{50, 100, 200, 300, 400, 500}
	ds := []float64{5, 10, 20, 30, 40, 50}
	var guesses [][]float64
	for _, c := range cs {
		for _, d := range ds {
			guesses = append(guesses, []float64{c, d, 1})
		}
	}
	return guesses
}

// Package fit performs nonlinear least-squares fits of closed-form
// conductance-histogram line shapes to simulated (or measured)
// one-dimensional histogram data.
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Model is a closed-form histogram line shape.
type Model interface {
	// Name is the identifier used on the command line.
	Name() string

	// ParamNames lists the fit parameters in vector order.
	ParamNames() []string

	// Density evaluates the line shape at conductance g.
	Density(params []float64, g float64) float64

	// DefaultGuesses returns the initial-parameter grid tried when the
	// caller supplies no guess.
	DefaultGuesses() [][]float64
}

// Point is one histogram row: a conductance value and its density.
type Point struct {
	G   float64
	PDF float64
}

// Result is the outcome of a fit.
type Result struct {
	Params   []float64
	Residual float64
}

// ErrNoFit means no initial guess produced a usable minimum.
var ErrNoFit = errors.New("no initial guess converged")

// Fit minimizes the summed squared residual of m against data, starting
// from each guess in turn and keeping the best minimum. Guesses that
// fail to converge are skipped.
func Fit(m Model, data []Point, guesses [][]float64) (Result, error) {
	if len(data) == 0 {
		return Result{}, errors.New("no data points")
	}
	if len(guesses) == 0 {
		guesses = m.DefaultGuesses()
	}

	objective := func(x []float64) float64 {
		sum, n := 0.0, 0
		for _, pt := range data {
			r := m.Density(x, pt.G) - pt.PDF
			if !math.IsNaN(r) && !math.IsInf(r, 0) {
				sum += r * r
				n++
			}
		}
		if n == 0 {
			return math.Inf(1)
		}
		return sum
	}
	problem := optimize.Problem{Func: objective}

	best := Result{Residual: math.Inf(1)}
	nparams := len(m.ParamNames())
	for _, guess := range guesses {
		if len(guess) != nparams {
			return Result{}, fmt.Errorf("guess has %d parameters, model %s takes %d", len(guess), m.Name(), nparams)
		}
		res, err := optimize.Minimize(problem, guess, nil, &optimize.NelderMead{})
		if err != nil {
			continue
		}
		if res.F < best.Residual {
			best.Residual = res.F
			best.Params = append([]float64(nil), res.X...)
		}
	}
	if best.Params == nil {
		return Result{}, ErrNoFit
	}
	return best, nil
}

// Models returns the fit models by name.
func Models() map[string]Model {
	models := []Model{
		SymmetricNonresonant{},
		SymmetricResonant{},
	}
	m := make(map[string]Model, len(models))
	for _, fm := range models {
		m[fm.Name()] = fm
	}
	return m
}

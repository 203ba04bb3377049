package dist

import (
	"fmt"
	"strconv"
	"strings"
)

// kindOptions is appended to unknown-kind errors so the user sees what is
// available.
const kindOptions = "constant, uniform, normal, gaussian, lognormal, gamma"

// FromTokens builds a Distribution from a whitespace-tokenized line of the
// form "<kind> <params...>". The kind is case-insensitive.
func FromTokens(tokens []string) (Distribution, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty distribution specification")
	}

	kind := strings.ToLower(tokens[0])
	args := tokens[1:]

	switch kind {
	case "constant":
		if len(args) < 1 {
			return nil, fmt.Errorf("constant distribution requires a value: constant <value>")
		}
		value, err := parseFloat(args[0])
		if err != nil {
			return nil, err
		}
		return NewConstant(value), nil

	case "uniform":
		if len(args) < 2 {
			return nil, fmt.Errorf("uniform distribution requires bounds: uniform <lower> <upper>")
		}
		low, err := parseFloat(args[0])
		if err != nil {
			return nil, err
		}
		high, err := parseFloat(args[1])
		if err != nil {
			return nil, err
		}
		return NewUniform(low, high)

	case "normal", "gaussian":
		if len(args) < 2 {
			return nil, fmt.Errorf("normal distribution requires parameters: normal <mean> <standard-deviation>")
		}
		mean, err := parseFloat(args[0])
		if err != nil {
			return nil, err
		}
		stdev, err := parseFloat(args[1])
		if err != nil {
			return nil, err
		}
		return NewNormal(mean, stdev)

	case "lognormal":
		if len(args) < 2 {
			return nil, fmt.Errorf("lognormal distribution requires parameters: lognormal <zeta> <sigma>")
		}
		zeta, err := parseFloat(args[0])
		if err != nil {
			return nil, err
		}
		sigma, err := parseFloat(args[1])
		if err != nil {
			return nil, err
		}
		return NewLogNormal(zeta, sigma)

	case "gamma":
		if len(args) < 2 {
			return nil, fmt.Errorf("gamma distribution requires parameters: gamma <shape> <scale>")
		}
		shape, err := parseFloat(args[0])
		if err != nil {
			return nil, err
		}
		scale, err := parseFloat(args[1])
		if err != nil {
			return nil, err
		}
		return NewGamma(shape, scale)

	default:
		return nil, fmt.Errorf("unrecognized distribution %q (options: %s)", tokens[0], kindOptions)
	}
}

func parseFloat(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse %q as a number", tok)
	}
	return v, nil
}

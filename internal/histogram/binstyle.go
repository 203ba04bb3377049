// Package histogram provides N-dimensional histogram accumulation with
// pluggable axis binning styles. A BinStyle is a monotonic transform (the
// mask function) that defines how an axis is partitioned; the histogram
// accumulates raw tuples and then bins them in one irreversible step.
package histogram

import (
	"fmt"
	"strconv"
	"strings"
)

// BinStyle defines how one histogram axis is binned. Mask and Invmask are
// inverses of each other on the style's domain, and DMaskDX is the
// derivative of Mask, used to correct bin counts for the change of
// variable.
type BinStyle interface {
	// Mask transforms an unmasked value into binning space.
	Mask(x float64) float64

	// Invmask transforms a masked value back to data space.
	Invmask(u float64) float64

	// DMaskDX is the derivative of Mask at x.
	DMaskDX(x float64) float64

	// NBins is the number of bins on this axis. Always at least 1.
	NBins() int

	// CheckDomain reports whether x lies in the style's domain.
	CheckDomain(x float64) error

	String() string
}

// styleOptions is appended to unknown-style errors.
const styleOptions = "linear, log (base defaults to 10)"

// StyleFromTokens builds a BinStyle from a whitespace-tokenized
// specification "<nbins> <style> [style-args...]". The style name is
// case-insensitive.
func StyleFromTokens(tokens []string) (BinStyle, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty binning specification")
	}

	nbins, err := strconv.Atoi(tokens[0])
	if err != nil {
		return nil, fmt.Errorf("unable to parse bin count %q", tokens[0])
	}

	if len(tokens) < 2 {
		return nil, fmt.Errorf("no binning style specified")
	}

	name := strings.ToLower(tokens[1])
	args := tokens[2:]

	switch name {
	case "linear":
		return NewLinear(nbins)

	case "log":
		base := 10.0
		if len(args) > 0 {
			base, err = strconv.ParseFloat(args[0], 64)
			if err != nil {
				return nil, fmt.Errorf("unable to parse logarithm base %q", args[0])
			}
		}
		return NewLog(nbins, base)

	default:
		return nil, fmt.Errorf("unrecognized binning style %q (options: %s)", tokens[1], styleOptions)
	}
}

package histogram

import (
	"fmt"
	"math"
)

// Log bins on a logarithmic scale: mask(x) = log_b(x). The domain is
// restricted to x > 0.
type Log struct {
	nbins int
	base  float64
	lnb   float64
}

// NewLog creates a logarithmic binning style with nbins bins in base b.
// The base must exceed 1.
func NewLog(nbins int, b float64) (Log, error) {
	if nbins < 1 {
		return Log{}, fmt.Errorf("log binning: need at least 1 bin, got %d", nbins)
	}
	if b <= 1 {
		return Log{}, fmt.Errorf("log binning: base must exceed 1, got %g", b)
	}
	return Log{nbins: nbins, base: b, lnb: math.Log(b)}, nil
}

func (l Log) Mask(x float64) float64    { return math.Log(x) / l.lnb }
func (l Log) Invmask(u float64) float64 { return math.Pow(l.base, u) }
func (l Log) DMaskDX(x float64) float64 { return 1 / (x * l.lnb) }
func (l Log) NBins() int                { return l.nbins }

// CheckDomain rejects values outside (0, +inf), where the logarithm is
// undefined.
func (l Log) CheckDomain(x float64) error {
	if x <= 0 {
		return fmt.Errorf("log binning: value %g outside domain x > 0", x)
	}
	return nil
}

func (l Log) String() string {
	return fmt.Sprintf("Log(%d bins, base %g)", l.nbins, l.base)
}

package histogram

import "fmt"

// Linear bins directly in data space; the mask is the identity.
type Linear struct {
	nbins int
}

// NewLinear creates a linear binning style with nbins bins.
func NewLinear(nbins int) (Linear, error) {
	if nbins < 1 {
		return Linear{}, fmt.Errorf("linear binning: need at least 1 bin, got %d", nbins)
	}
	return Linear{nbins: nbins}, nil
}

func (l Linear) Mask(x float64) float64    { return x }
func (l Linear) Invmask(u float64) float64 { return u }
func (l Linear) DMaskDX(x float64) float64 { return 1 }
func (l Linear) NBins() int                { return l.nbins }

// CheckDomain always succeeds; the identity mask is defined everywhere.
func (l Linear) CheckDomain(x float64) error { return nil }

func (l Linear) String() string {
	return fmt.Sprintf("Linear(%d bins)", l.nbins)
}

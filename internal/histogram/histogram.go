package histogram

import (
	"errors"
	"fmt"
	"math"
)

// ErrAlreadyBinned is returned when data is added to, or Bin is called on,
// a histogram that has already been binned.
var ErrAlreadyBinned = errors.New("histogram has already been binned")

// Histogram accumulates N-dimensional tuples and bins them in one
// irreversible step. Before Bin it stores raw tuples and running per-axis
// extremes; after Bin it holds a fixed grid of counts, each bin annotated
// with a representative coordinate and a density-corrected count.
//
// The bin partition is closed-open: a tuple whose masked coordinate equals
// the observed maximum on any axis falls outside the last bin and is
// excluded. Excluded tuples are counted so the loss is visible.
type Histogram struct {
	ndim   int
	binned bool

	data     [][]float64
	min, max []float64

	// populated by Bin
	nbins     []int
	coords    [][]float64 // [axis][bin] representative coordinate
	counts    []float64   // raw counts, row-major (last axis fastest)
	densities []float64
	excluded  int
}

// New creates a histogram for ndim-dimensional data.
func New(ndim int) (*Histogram, error) {
	if ndim < 1 {
		return nil, fmt.Errorf("histogram dimensionality must be at least 1, got %d", ndim)
	}
	h := &Histogram{
		ndim: ndim,
		min:  make([]float64, ndim),
		max:  make([]float64, ndim),
	}
	for j := 0; j < ndim; j++ {
		h.min[j] = math.Inf(1)
		h.max[j] = math.Inf(-1)
	}
	return h, nil
}

// NDim returns the dimensionality of the data.
func (h *Histogram) NDim() int { return h.ndim }

// NumData returns the number of tuples added so far.
func (h *Histogram) NumData() int { return len(h.data) }

// Excluded returns the number of tuples dropped by the closed-open edge
// rule. Zero before binning.
func (h *Histogram) Excluded() int { return h.excluded }

// AddData appends one raw tuple. The tuple is copied.
func (h *Histogram) AddData(v []float64) error {
	if h.binned {
		return fmt.Errorf("cannot add data: %w", ErrAlreadyBinned)
	}
	if len(v) != h.ndim {
		return fmt.Errorf("data has dimensionality %d, histogram expects %d", len(v), h.ndim)
	}

	for j, x := range v {
		if x < h.min[j] {
			h.min[j] = x
		}
		if x > h.max[j] {
			h.max[j] = x
		}
	}

	tuple := make([]float64, h.ndim)
	copy(tuple, v)
	h.data = append(h.data, tuple)
	return nil
}

// Bin partitions the accumulated data into a fixed grid using one style
// per axis. This is a one-shot transition; afterwards AddData and Bin both
// fail. An axis with more than one bin must have a nonzero observed range.
func (h *Histogram) Bin(styles []BinStyle) error {
	if h.binned {
		return ErrAlreadyBinned
	}
	if len(styles) != h.ndim {
		return fmt.Errorf("got %d binning styles for %d dimensions", len(styles), h.ndim)
	}

	total := 1
	for j, style := range styles {
		if style == nil {
			return fmt.Errorf("no binning style for dimension %d", j)
		}
		if style.NBins() < 1 {
			return fmt.Errorf("dimension %d: need at least 1 bin", j)
		}
		if style.NBins() > 1 && h.min[j] == h.max[j] {
			return fmt.Errorf("dimension %d: all values equal %g, cannot subdivide into %d bins",
				j, h.min[j], style.NBins())
		}
		if err := style.CheckDomain(h.min[j]); err != nil {
			return fmt.Errorf("dimension %d: %w", j, err)
		}
		if err := style.CheckDomain(h.max[j]); err != nil {
			return fmt.Errorf("dimension %d: %w", j, err)
		}
		total *= style.NBins()
	}

	// masked bounds and bin widths per axis
	lo := make([]float64, h.ndim)
	hi := make([]float64, h.ndim)
	width := make([]float64, h.ndim)
	h.nbins = make([]int, h.ndim)
	h.coords = make([][]float64, h.ndim)
	for j, style := range styles {
		n := style.NBins()
		h.nbins[j] = n
		lo[j] = style.Mask(h.min[j])
		hi[j] = style.Mask(h.max[j])
		width[j] = (hi[j] - lo[j]) / float64(n)

		// The representative coordinate is the midpoint of the bin's
		// unmasked bounds, not the center of the raw interval.
		h.coords[j] = make([]float64, n)
		for k := 0; k < n; k++ {
			lower := style.Invmask(lo[j] + float64(k)*width[j])
			upper := style.Invmask(lo[j] + float64(k+1)*width[j])
			h.coords[j][k] = 0.5 * (lower + upper)
		}
	}

	h.counts = make([]float64, total)

	idx := make([]int, h.ndim)
tuples:
	for _, tuple := range h.data {
		for j, style := range styles {
			u := style.Mask(tuple[j])
			if hi[j] > lo[j] && u >= hi[j] {
				// upper bound is open; the axis maximum falls outside
				// the last bin
				h.excluded++
				continue tuples
			}
			k := 0
			if width[j] > 0 {
				k = int((u - lo[j]) / width[j])
			}
			if k >= h.nbins[j] {
				k = h.nbins[j] - 1
			}
			idx[j] = k
		}
		h.counts[h.offset(idx)]++
	}

	// density correction: scale each count by the mask derivative at the
	// bin's representative coordinate, one factor per axis
	h.densities = make([]float64, total)
	for i := range h.counts {
		d := h.counts[i]
		rem := i
		for j := h.ndim - 1; j >= 0; j-- {
			k := rem % h.nbins[j]
			rem /= h.nbins[j]
			d *= styles[j].DMaskDX(h.coords[j][k])
		}
		h.densities[i] = d
	}

	h.data = nil
	h.binned = true
	return nil
}

// offset converts a multi-index to a row-major array offset (last axis
// varies fastest).
func (h *Histogram) offset(idx []int) int {
	off := 0
	for j := 0; j < h.ndim; j++ {
		off = off*h.nbins[j] + idx[j]
	}
	return off
}

// Count returns the raw (uncorrected) count of the bin at the given
// multi-index. Only valid after binning.
func (h *Histogram) Count(idx ...int) (float64, error) {
	if !h.binned {
		return 0, errors.New("histogram has not been binned")
	}
	if len(idx) != h.ndim {
		return 0, fmt.Errorf("index has dimensionality %d, histogram expects %d", len(idx), h.ndim)
	}
	for j, k := range idx {
		if k < 0 || k >= h.nbins[j] {
			return 0, fmt.Errorf("bin index %d out of range for dimension %d", k, j)
		}
	}
	return h.counts[h.offset(idx)], nil
}

// Iter returns a fresh iterator over the binned histogram in row-major
// order (last axis fastest). Each call restarts from the first bin.
func (h *Histogram) Iter() (*Iter, error) {
	if !h.binned {
		return nil, errors.New("histogram has not been binned")
	}
	return &Iter{h: h, pos: -1}, nil
}

// Iter walks the bins of a binned histogram. Use Next to advance, then
// Coords and Density to read the current bin.
type Iter struct {
	h   *Histogram
	pos int
}

// Next advances to the next bin, returning false when the bins are
// exhausted.
func (it *Iter) Next() bool {
	if it.pos+1 >= len(it.h.counts) {
		return false
	}
	it.pos++
	return true
}

// Coords returns the representative coordinate vector of the current bin.
func (it *Iter) Coords() []float64 {
	coords := make([]float64, it.h.ndim)
	rem := it.pos
	for j := it.h.ndim - 1; j >= 0; j-- {
		coords[j] = it.h.coords[j][rem%it.h.nbins[j]]
		rem /= it.h.nbins[j]
	}
	return coords
}

// Density returns the density-corrected count of the current bin.
func (it *Iter) Density() float64 {
	return it.h.densities[it.pos]
}

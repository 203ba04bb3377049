package fit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadData reads one-dimensional histogram rows: a conductance value
// and a density per line, whitespace-separated. Blank lines and
// #-comments are skipped.
func ReadData(r io.Reader) ([]Point, error) {
	var points []Point
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want 2 fields (value density), got %d", lineno, len(fields))
		}
		g, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad value %q", lineno, fields[0])
		}
		pdf, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad density %q", lineno, fields[1])
		}
		points = append(points, Point{G: g, PDF: pdf})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	return points, nil
}

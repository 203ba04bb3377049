package fit

import (
	"math"
	"strings"
	"testing"
)

func TestReadData(t *testing.T) {
	in := `
# conductance histogram
1.0e-4 12.5
2.0e-4 8.0

3.0e-4 1.25  # tail
`
	pts, err := ReadData(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	if len(pts) != 3 {
		t.Fatalf("got %d points, want 3", len(pts))
	}
	if pts[0].G != 1e-4 || pts[0].PDF != 12.5 {
		t.Errorf("first point = %+v", pts[0])
	}
}

func TestReadDataErrors(t *testing.T) {
	for _, in := range []string{
		"0.1 0.2 0.3\n",
		"0.1\n",
		"x 0.2\n",
		"0.1 y\n",
	} {
		if _, err := ReadData(strings.NewReader(in)); err == nil {
			t.Errorf("ReadData(%q): expected error", in)
		}
	}
}

func TestModelsRegistry(t *testing.T) {
	m := Models()
	for _, name := range []string{"SymmetricNonresonant", "SymmetricResonant"} {
		if _, ok := m[name]; !ok {
			t.Errorf("model %q not registered", name)
		}
	}
}

// synthesize data from known parameters and check the fit recovers
// them; tolerances are loose since Nelder-Mead stops on simplex size.
func TestFitResonant(t *testing.T) {
	truth := []float64{12, 3}
	model := SymmetricResonant{}
	var data []Point
	for g := 0.2; g < 1; g += 0.01 {
		data = append(data, Point{G: g, PDF: model.Density(truth, g)})
	}

	res, err := Fit(model, data, nil)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if math.Abs(res.Params[0]-truth[0]) > 0.5 {
		t.Errorf("gamma = %g, want %g", res.Params[0], truth[0])
	}
	if res.Residual > 1e-3 {
		t.Errorf("residual = %g", res.Residual)
	}
}

func TestFitNonresonant(t *testing.T) {
	truth := []float64{60, 12, 1}
	model := SymmetricNonresonant{}
	var data []Point
	for g := 0.001; g < 0.2; g += 0.002 {
		data = append(data, Point{G: g, PDF: model.Density(truth, g)})
	}

	res, err := Fit(model, data, nil)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if math.Abs(res.Params[0]-truth[0]) > 5 {
		t.Errorf("c = %g, want %g", res.Params[0], truth[0])
	}
	if math.Abs(res.Params[1]-truth[1]) > 5 {
		t.Errorf("d = %g, want %g", res.Params[1], truth[1])
	}
}

func TestFitUserGuess(t *testing.T) {
	truth := []float64{12, 3}
	model := SymmetricResonant{}
	var data []Point
	for g := 0.2; g < 1; g += 0.01 {
		data = append(data, Point{G: g, PDF: model.Density(truth, g)})
	}

	res, err := Fit(model, data, [][]float64{{10, 1}})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if math.Abs(res.Params[0]-truth[0]) > 0.5 {
		t.Errorf("gamma = %g, want %g", res.Params[0], truth[0])
	}

	if _, err := Fit(model, data, [][]float64{{1, 2, 3}}); err == nil {
		t.Error("expected error for wrong guess length")
	}
}

func TestFitNoData(t *testing.T) {
	if _, err := Fit(SymmetricResonant{}, nil, nil); err == nil {
		t.Error("expected error for empty data")
	}
}

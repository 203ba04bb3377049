package simulate

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/condmat-tools/conhist/internal/dist"
)

const (
	keyArea    ObservableKey = "Area"
	keySum     ObservableKey = "Sum"
	kindSquare ModelKind     = "square"
)

// simple full model: two parameters, one observable.
func rectDef() Definition {
	return Definition{
		Name:       "Rectangle",
		Parameters: []string{"width", "height"},
		Observables: map[ObservableKey]ObservableFunc{
			keyArea: func(p []float64) float64 { return p[0] * p[1] },
		},
	}
}

// submodel: two own parameters, observable sees [compositeOwn..., own...].
func squareDef() Definition {
	return Definition{
		Name:       "ScaledSquare",
		Parameters: []string{"side", "weight"},
		Kind:       kindSquare,
		Observables: map[ObservableKey]ObservableFunc{
			keyArea: func(p []float64) float64 {
				// p[0] is the composite's scale, p[1] side, p[2] weight
				return p[0] * p[1] * p[1] * p[2]
			},
		},
	}
}

// composite over square submodels, one own parameter.
func tilingDef() Definition {
	return Definition{
		Name:         "Tiling",
		Parameters:   []string{"scale"},
		SubmodelKind: kindSquare,
		CompositeObservables: map[ObservableKey]Combiner{
			keyArea: func(a, b float64) float64 { return a + b },
		},
	}
}

func builtRect(t *testing.T, w, h float64) *Model {
	t.Helper()
	f := NewFactory(rectDef())
	f.SetDistribution("width", dist.NewConstant(w))
	f.SetDistribution("height", dist.NewConstant(h))
	m, err := f.Model()
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	return m
}

func TestFactorySetDistribution(t *testing.T) {
	f := NewFactory(rectDef())
	if !f.SetDistribution("WIDTH", dist.NewConstant(2)) {
		t.Error("case-insensitive parameter name not matched")
	}
	if f.SetDistribution("depth", dist.NewConstant(1)) {
		t.Error("unknown parameter reported as used")
	}
}

func TestFactoryMissingDistribution(t *testing.T) {
	f := NewFactory(rectDef())
	f.SetDistribution("width", dist.NewConstant(2))
	_, err := f.Model()
	if !errors.Is(err, ErrMissingDistribution) {
		t.Fatalf("err = %v, want ErrMissingDistribution", err)
	}
}

func TestModelSampling(t *testing.T) {
	m := builtRect(t, 2, 3)
	src := rand.NewPCG(1, 1)

	if m.NumParameters() != 2 {
		t.Errorf("NumParameters = %d, want 2", m.NumParameters())
	}
	want := []string{"width", "height"}
	if got := m.ParameterNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("ParameterNames = %v, want %v", got, want)
	}
	params := m.SampleParameters(src)
	if !reflect.DeepEqual(params, []float64{2, 3}) {
		t.Errorf("SampleParameters = %v, want [2 3]", params)
	}

	f, err := m.Observable(keyArea)
	if err != nil {
		t.Fatalf("Observable: %v", err)
	}
	if got := f(params); got != 6 {
		t.Errorf("area = %g, want 6", got)
	}
}

func TestIncompatibleObservable(t *testing.T) {
	m := builtRect(t, 2, 3)
	_, err := m.Observable(keySum)
	if !errors.Is(err, ErrIncompatibleObservable) {
		t.Fatalf("err = %v, want ErrIncompatibleObservable", err)
	}
}

func TestSubmodelKindChecks(t *testing.T) {
	f := NewFactory(tilingDef())
	if err := f.AddSubmodel(NewFactory(rectDef())); !errors.Is(err, ErrWrongSubmodelKind) {
		t.Errorf("err = %v, want ErrWrongSubmodelKind", err)
	}

	plain := NewFactory(rectDef())
	if err := plain.AddSubmodel(NewFactory(squareDef())); !errors.Is(err, ErrNotComposite) {
		t.Errorf("err = %v, want ErrNotComposite", err)
	}
}

func TestCompositeNeedsSubmodels(t *testing.T) {
	f := NewFactory(tilingDef())
	f.SetDistribution("scale", dist.NewConstant(1))
	_, err := f.Model()
	if !errors.Is(err, ErrNoSubmodels) {
		t.Fatalf("err = %v, want ErrNoSubmodels", err)
	}
}

func compositeFactory(t *testing.T) *Factory {
	t.Helper()
	f := NewFactory(tilingDef())
	f.SetDistribution("scale", dist.NewConstant(2))

	s1 := NewFactory(squareDef())
	s1.SetDistribution("side", dist.NewConstant(3))
	s1.SetDistribution("weight", dist.NewConstant(1))
	if err := f.AddSubmodel(s1); err != nil {
		t.Fatal(err)
	}

	s2 := NewFactory(squareDef())
	s2.SetDistribution("side", dist.NewConstant(1))
	s2.SetDistribution("weight", dist.NewConstant(5))
	if err := f.AddSubmodel(s2); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestCompositeParameterLayout(t *testing.T) {
	m, err := compositeFactory(t).Model()
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if m.NumParameters() != 5 {
		t.Errorf("NumParameters = %d, want 5", m.NumParameters())
	}
	want := []string{"scale", "side", "weight", "side", "weight"}
	if got := m.ParameterNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("ParameterNames = %v, want %v", got, want)
	}

	src := rand.NewPCG(1, 1)
	params := m.SampleParameters(src)
	if !reflect.DeepEqual(params, []float64{2, 3, 1, 1, 5}) {
		t.Errorf("SampleParameters = %v", params)
	}
}

func TestCompositeWithoutOwnParameters(t *testing.T) {
	def := tilingDef()
	def.Parameters = nil
	f := NewFactory(def)
	for i := 0; i < 2; i++ {
		s := NewFactory(squareDef())
		s.SetDistribution("side", dist.NewConstant(1))
		s.SetDistribution("weight", dist.NewConstant(1))
		if err := f.AddSubmodel(s); err != nil {
			t.Fatal(err)
		}
	}
	m, err := f.Model()
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if m.NumParameters() != 4 {
		t.Errorf("NumParameters = %d, want 4", m.NumParameters())
	}
	want := []string{"side", "weight", "side", "weight"}
	if got := m.ParameterNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("ParameterNames = %v, want %v", got, want)
	}
}

// A composite nested inside another composite: the leaf must see its
// immediate parent's own parameters plus its own block, with the outer
// levels dropped.
func TestNestedCompositeRouting(t *testing.T) {
	const (
		kindRow   ModelKind = "row"
		kindPanel ModelKind = "panel"
	)
	add := func(a, b float64) float64 { return a + b }

	panelDef := Definition{
		Name:       "Panel",
		Parameters: []string{"side"},
		Kind:       kindPanel,
		Observables: map[ObservableKey]ObservableFunc{
			// p[0] is the enclosing row's spacing, p[1] the panel's side
			keyArea: func(p []float64) float64 { return p[0]*10 + p[1] },
		},
	}
	rowDef := Definition{
		Name:         "Row",
		Parameters:   []string{"spacing"},
		Kind:         kindRow,
		SubmodelKind: kindPanel,
		CompositeObservables: map[ObservableKey]Combiner{
			keyArea: add,
		},
	}
	wallDef := Definition{
		Name:         "Wall",
		Parameters:   []string{"height"},
		SubmodelKind: kindRow,
		CompositeObservables: map[ObservableKey]Combiner{
			keyArea: add,
		},
	}

	wall := NewFactory(wallDef)
	wall.SetDistribution("height", dist.NewConstant(1))
	row := NewFactory(rowDef)
	row.SetDistribution("spacing", dist.NewConstant(2))
	panel := NewFactory(panelDef)
	panel.SetDistribution("side", dist.NewConstant(3))
	if err := row.AddSubmodel(panel); err != nil {
		t.Fatal(err)
	}
	if err := wall.AddSubmodel(row); err != nil {
		t.Fatal(err)
	}

	m, err := wall.Model()
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if m.NumParameters() != 3 {
		t.Errorf("NumParameters = %d, want 3", m.NumParameters())
	}
	params := m.SampleParameters(rand.NewPCG(1, 1))
	if !reflect.DeepEqual(params, []float64{1, 2, 3}) {
		t.Fatalf("SampleParameters = %v, want [1 2 3]", params)
	}

	f, err := m.Observable(keyArea)
	if err != nil {
		t.Fatalf("Observable: %v", err)
	}
	// panel evaluates on [spacing, side] = [2, 3]: 2*10 + 3
	if got := f(params); got != 23 {
		t.Errorf("nested observable = %g, want 23", got)
	}
}

func TestCompositeObservableRouting(t *testing.T) {
	m, err := compositeFactory(t).Model()
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	f, err := m.Observable(keyArea)
	if err != nil {
		t.Fatalf("Observable: %v", err)
	}
	// scale=2: sub1 = 2*3*3*1 = 18, sub2 = 2*1*1*5 = 10
	got := f([]float64{2, 3, 1, 1, 5})
	if math.Abs(got-28) > 1e-12 {
		t.Errorf("composite area = %g, want 28", got)
	}
}

func TestCompositeDistributionRouting(t *testing.T) {
	f := NewFactory(tilingDef())
	s1 := NewFactory(squareDef())
	s2 := NewFactory(squareDef())
	if err := f.AddSubmodel(s1); err != nil {
		t.Fatal(err)
	}
	if err := f.AddSubmodel(s2); err != nil {
		t.Fatal(err)
	}

	// one call reaches every submodel position with that name
	if !f.SetDistribution("side", dist.NewConstant(4)) {
		t.Fatal("side not routed into submodels")
	}
	f.SetDistribution("weight", dist.NewConstant(1))
	f.SetDistribution("scale", dist.NewConstant(1))

	m, err := f.Model()
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	params := m.SampleParameters(rand.NewPCG(1, 1))
	if !reflect.DeepEqual(params, []float64{1, 4, 1, 4, 1}) {
		t.Errorf("params = %v", params)
	}
}

func TestSimulatorRejectsSubmodel(t *testing.T) {
	f := NewFactory(squareDef())
	f.SetDistribution("side", dist.NewConstant(1))
	f.SetDistribution("weight", dist.NewConstant(1))
	m, err := f.Model()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewSimulator(m); !errors.Is(err, ErrSubmodelOnly) {
		t.Errorf("err = %v, want ErrSubmodelOnly", err)
	}
}

func TestSimulatorColumns(t *testing.T) {
	m := builtRect(t, 2, 3)
	sim, err := NewSimulator(m)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := sim.Simulate(rand.NewPCG(1, 1)); !errors.Is(err, ErrNoObservables) {
		t.Errorf("err = %v, want ErrNoObservables", err)
	}

	if err := sim.SetObservable(1, keyArea); err == nil {
		t.Error("expected error for non-contiguous column")
	}
	if err := sim.SetObservable(0, keyArea); err != nil {
		t.Fatal(err)
	}
	if err := sim.SetObservable(1, keyArea); err != nil {
		t.Fatal(err)
	}
	if err := sim.SetObservable(0, keySum); !errors.Is(err, ErrIncompatibleObservable) {
		t.Errorf("err = %v, want ErrIncompatibleObservable", err)
	}
	if got := sim.ObservableKeys(); !reflect.DeepEqual(got, []ObservableKey{keyArea, keyArea}) {
		t.Errorf("ObservableKeys = %v", got)
	}

	out, err := sim.Simulate(rand.NewPCG(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, []float64{6, 6}) {
		t.Errorf("trial = %v, want [6 6]", out)
	}
}

// Package deck parses the line-oriented simulation input language: one
// directive per line, whitespace-tokenized, case-insensitive keywords.
// A deck names one model (with nested submodel blocks and parameter
// distributions), the observables to histogram, and run settings.
package deck

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/condmat-tools/conhist/internal/dist"
	"github.com/condmat-tools/conhist/internal/histogram"
	"github.com/condmat-tools/conhist/internal/simulate"
)

// DefaultOutput is the histogram file written when the deck has no
// output directive.
const DefaultOutput = "histogram.dat"

// Deck is a fully bound simulation setup.
type Deck struct {
	Simulator   *simulate.Simulator
	Styles      []histogram.BinStyle
	Observables []string
	ModelName   string

	// Trials is zero when the deck carries no trials directive; the
	// caller supplies its own default.
	Trials int
	Output string

	// Seed is set only when the deck carries a seed directive; SeedSet
	// distinguishes an explicit 0 from the absence of the directive.
	Seed    uint64
	SeedSet bool
}

// Parser binds deck directives against a set of registered model
// definitions and observable keys.
type Parser struct {
	Models      map[string]simulate.Definition
	Observables map[string]simulate.ObservableKey
}

type distLine struct {
	line  int
	param string
	d     dist.Distribution
}

type modelBlock struct {
	line     int
	name     string
	dists    []distLine
	children []*modelBlock
}

type axisSpec struct {
	line  int
	name  string
	style histogram.BinStyle
	axis  int // -1 means next free axis
}

type deckFile struct {
	model   *modelBlock
	axes    []axisSpec
	trials  int
	output  string
	seed    uint64
	seedSet bool
}

// Parse reads a complete deck and returns the bound simulation setup.
// Errors identify the offending line.
func (p *Parser) Parse(r io.Reader) (*Deck, error) {
	f, err := p.scan(r)
	if err != nil {
		return nil, err
	}
	return p.build(f)
}

func (p *Parser) scan(r io.Reader) (*deckFile, error) {
	f := &deckFile{}
	var stack []*modelBlock

	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		directive := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch directive {
		case "model":
			if len(args) != 1 {
				return nil, fmt.Errorf("line %d: model takes exactly one name", lineno)
			}
			b := &modelBlock{line: lineno, name: args[0]}
			if len(stack) == 0 {
				if f.model != nil {
					return nil, fmt.Errorf("line %d: only one top-level model is allowed", lineno)
				}
				f.model = b
			} else {
				top := stack[len(stack)-1]
				top.children = append(top.children, b)
			}
			stack = append(stack, b)

		case "endmodel":
			if len(stack) == 0 {
				return nil, fmt.Errorf("line %d: endmodel without open model block", lineno)
			}
			stack = stack[:len(stack)-1]

		case "distribution":
			if len(stack) == 0 {
				return nil, fmt.Errorf("line %d: distribution outside model block", lineno)
			}
			if len(args) < 2 {
				return nil, fmt.Errorf("line %d: distribution takes <param> <kind> <params...>", lineno)
			}
			d, err := dist.FromTokens(args[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, err)
			}
			top := stack[len(stack)-1]
			top.dists = append(top.dists, distLine{line: lineno, param: args[0], d: d})

		case "observable", "observable_x", "observable_y":
			if len(stack) > 0 {
				return nil, fmt.Errorf("line %d: observable inside model block", lineno)
			}
			if len(args) < 3 {
				return nil, fmt.Errorf("line %d: observable takes <name> <nbins> <binstyle> [args...]", lineno)
			}
			style, err := histogram.StyleFromTokens(args[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, err)
			}
			axis := -1
			switch directive {
			case "observable_x":
				axis = 0
			case "observable_y":
				axis = 1
			}
			f.axes = append(f.axes, axisSpec{line: lineno, name: args[0], style: style, axis: axis})

		case "trials":
			if len(args) != 1 {
				return nil, fmt.Errorf("line %d: trials takes exactly one integer", lineno)
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("line %d: invalid trial count %q", lineno, args[0])
			}
			f.trials = n

		case "seed":
			if len(args) != 1 {
				return nil, fmt.Errorf("line %d: seed takes exactly one integer", lineno)
			}
			s, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid seed %q", lineno, args[0])
			}
			f.seed = s
			f.seedSet = true

		case "output":
			if len(args) != 1 {
				return nil, fmt.Errorf("line %d: output takes exactly one filename", lineno)
			}
			f.output = args[0]

		default:
			return nil, fmt.Errorf("line %d: unknown directive %q", lineno, directive)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("line %d: model block %q is never closed", stack[len(stack)-1].line, stack[len(stack)-1].name)
	}
	return f, nil
}

func (p *Parser) build(f *deckFile) (*Deck, error) {
	if f.model == nil {
		return nil, fmt.Errorf("deck declares no model")
	}
	if len(f.axes) == 0 {
		return nil, fmt.Errorf("deck declares no observables")
	}

	root, err := p.buildFactory(f.model)
	if err != nil {
		return nil, err
	}
	if err := p.bindDistributions(root, nil); err != nil {
		return nil, err
	}
	model, err := root.factory.Model()
	if err != nil {
		return nil, err
	}
	sim, err := simulate.NewSimulator(model)
	if err != nil {
		return nil, err
	}

	styles, names, err := p.assignAxes(f.axes)
	if err != nil {
		return nil, err
	}
	for j, name := range names {
		key, ok := p.lookupObservable(name)
		if !ok {
			return nil, fmt.Errorf("unknown observable %q (valid: %s)", name, keyList(p.Observables))
		}
		if err := sim.SetObservable(j, key); err != nil {
			return nil, err
		}
	}

	d := &Deck{
		Simulator:   sim,
		Styles:      styles,
		Observables: names,
		ModelName:   f.model.name,
		Trials:      f.trials,
		Output:      f.output,
		Seed:        f.seed,
		SeedSet:     f.seedSet,
	}
	if d.Output == "" {
		d.Output = DefaultOutput
	}
	return d, nil
}

// boundBlock pairs a model block with its constructed factory so that
// distribution lines can be resolved against the scope chain.
type boundBlock struct {
	block    *modelBlock
	factory  *simulate.Factory
	children []*boundBlock
}

// buildFactory constructs the factory tree for a model block, children
// first.
func (p *Parser) buildFactory(b *modelBlock) (*boundBlock, error) {
	def, ok := p.lookupModel(b.name)
	if !ok {
		return nil, fmt.Errorf("line %d: unknown model %q (valid: %s)", b.line, b.name, modelList(p.Models))
	}
	bound := &boundBlock{block: b, factory: simulate.NewFactory(def)}
	for _, child := range b.children {
		cb, err := p.buildFactory(child)
		if err != nil {
			return nil, err
		}
		if err := bound.factory.AddSubmodel(cb.factory); err != nil {
			return nil, fmt.Errorf("line %d: %w", child.line, err)
		}
		bound.children = append(bound.children, cb)
	}
	return bound, nil
}

// bindDistributions applies each distribution line to its own block's
// factory first and then, if unconsumed, to each enclosing scope in
// turn. A line no scope consumes is an error.
func (p *Parser) bindDistributions(b *boundBlock, enclosing []*simulate.Factory) error {
	chain := append([]*simulate.Factory{b.factory}, enclosing...)
	for _, dl := range b.block.dists {
		used := false
		for _, f := range chain {
			if f.SetDistribution(dl.param, dl.d) {
				used = true
				break
			}
		}
		if !used {
			return fmt.Errorf("line %d: no model in scope has a parameter %q", dl.line, dl.param)
		}
	}
	for _, child := range b.children {
		if err := p.bindDistributions(child, chain); err != nil {
			return err
		}
	}
	return nil
}

// assignAxes resolves observable_x/observable_y pins and in-order
// axes into one contiguous list.
func (p *Parser) assignAxes(axes []axisSpec) ([]histogram.BinStyle, []string, error) {
	n := len(axes)
	styles := make([]histogram.BinStyle, n)
	names := make([]string, n)
	taken := make([]bool, n)

	for _, a := range axes {
		if a.axis < 0 {
			continue
		}
		if a.axis >= n {
			return nil, nil, fmt.Errorf("line %d: axis %d out of range for %d observables", a.line, a.axis, n)
		}
		if taken[a.axis] {
			return nil, nil, fmt.Errorf("line %d: axis %d assigned twice", a.line, a.axis)
		}
		styles[a.axis], names[a.axis], taken[a.axis] = a.style, a.name, true
	}
	next := 0
	for _, a := range axes {
		if a.axis >= 0 {
			continue
		}
		for taken[next] {
			next++
		}
		styles[next], names[next], taken[next] = a.style, a.name, true
	}
	return styles, names, nil
}

func (p *Parser) lookupModel(name string) (simulate.Definition, bool) {
	for n, def := range p.Models {
		if strings.EqualFold(n, name) {
			return def, true
		}
	}
	return simulate.Definition{}, false
}

func (p *Parser) lookupObservable(name string) (simulate.ObservableKey, bool) {
	for n, key := range p.Observables {
		if strings.EqualFold(n, name) {
			return key, true
		}
	}
	return "", false
}

func modelList(m map[string]simulate.Definition) string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func keyList(m map[string]simulate.ObservableKey) string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/samber/lo"

	m "gramgen.dev/pkg/gramgen/internal/model"
	"gramgen.dev/pkg/gramgen/pkg"
)

// DefaultMaxDepth is the expansion bound used when none is configured.
const DefaultMaxDepth = 50

// Deriver generates valid strings by leftmost derivation.
type Deriver interface {
	// Derive runs one derivation from the start symbol and replaces the
	// retained trace.
	Derive() (m.Derivation, error)
	// DeriveN runs n derivations, dropping those that exceed the depth
	// bound. Any other failure aborts the batch.
	DeriveN(n int) ([]m.Derivation, error)
	// Trace returns the steps of the last successful Derive call.
	Trace() []m.DerivationStep
	MaxDepth() int
}

type deriver struct {
	grammar  *m.Grammar
	rng      pkg.Rand
	maxDepth int
	trace    []m.DerivationStep
}

// NewDeriver creates a Deriver. A non-positive maxDepth selects DefaultMaxDepth.
func NewDeriver(grammar *m.Grammar, rng pkg.Rand, maxDepth int) Deriver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	return &deriver{
		grammar:  grammar,
		rng:      rng,
		maxDepth: maxDepth,
	}
}

func (d *deriver) MaxDepth() int {
	return d.maxDepth
}

func (d *deriver) Trace() []m.DerivationStep {
	return slices.Clone(d.trace)
}

func (d *deriver) Derive() (m.Derivation, error) {
	d.trace = nil

	start := d.grammar.Start()
	form := []m.Symbol{start}
	steps := []m.DerivationStep{{Form: slices.Clone(form), Label: "start: " + start.Value}}
	taken := 0

	for {
		idx := m.LeftmostNonTerminal(form)
		if idx < 0 {
			break
		}

		if taken >= d.maxDepth {
			return m.Derivation{}, &DepthExceededError{MaxDepth: d.maxDepth, Form: form}
		}

		production, err := d.choose(form[idx], d.maxDepth-taken)
		if err != nil {
			return m.Derivation{}, err
		}

		form = expand(form, idx, production)
		taken++

		steps = append(steps, m.DerivationStep{
			Form:       slices.Clone(form),
			Production: &production,
			Label:      fmt.Sprintf("step %d: %s", taken, production),
		})
	}

	d.trace = steps

	return m.Derivation{Content: m.FormString(form), Steps: steps}, nil
}

// choose applies the depth-aware selection policy: once fewer than a third
// of the steps remain, left-recursive alternatives are excluded if any other
// alternative exists.
func (d *deriver) choose(nt m.Symbol, remaining int) (m.Production, error) {
	candidates := d.grammar.ProductionsFor(nt)
	if len(candidates) == 0 {
		return m.Production{}, &NoProductionsError{Symbol: nt}
	}

	if remaining < d.maxDepth/3 {
		safe := lo.Filter(candidates, func(p m.Production, _ int) bool {
			return !p.IsLeftRecursive()
		})
		if len(safe) > 0 {
			candidates = safe
		}
	}

	return candidates[d.rng.IntN(len(candidates))], nil
}

type attempt struct {
	derivation m.Derivation
	err        error
}

func (d *deriver) DeriveN(n int) ([]m.Derivation, error) {
	attempts := make([]attempt, 0, n)

	for range n {
		derivation, err := d.Derive()
		if err != nil && !errors.Is(err, ErrDepthExceeded) {
			return nil, err
		}

		attempts = append(attempts, attempt{derivation: derivation, err: err})
	}

	derivations := lo.FilterMap(attempts, func(a attempt, _ int) (m.Derivation, bool) {
		return a.derivation, a.err == nil
	})

	slog.Debug("batch derivation finished", "requested", n, "produced", len(derivations))

	return derivations, nil
}

// expand replaces form[idx] with the right side of p.
func expand(form []m.Symbol, idx int, p m.Production) []m.Symbol {
	out := make([]m.Symbol, 0, len(form)-1+len(p.Right))
	out = append(out, form[:idx]...)
	out = append(out, p.Right...)

	return append(out, form[idx+1:]...)
}

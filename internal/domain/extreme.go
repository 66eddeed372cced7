package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"gramgen.dev/pkg/gramgen/internal/domain/mutagens"
	m "gramgen.dev/pkg/gramgen/internal/model"
	"gramgen.dev/pkg/gramgen/pkg"
)

// Spellings used by the synthesized extreme cases. They match the classic
// arithmetic grammar and are not derived from the grammar being tested.
const (
	shortExpression    = "id"
	nestingTerminal    = "id"
	nestingOperator    = "+"
	complexityFallback = "id + id * id - id / id"
)

// ExtremeOptions bounds the trial loops of the extreme-case search.
type ExtremeOptions struct {
	// MaxDepth is the standard derivation bound; the max-depth search uses
	// twice this value.
	MaxDepth         int
	MaxDepthTrials   int
	ComplexityTrials int
	LongTrials       int
	NestingLevels    int
	// MinDepthLimit stops the deterministic minimal derivation on grammars
	// whose cheapest productions never terminate.
	MinDepthLimit int
}

// DefaultExtremeOptions returns the standard trial counts.
func DefaultExtremeOptions() ExtremeOptions {
	return ExtremeOptions{
		MaxDepth:         DefaultMaxDepth,
		MaxDepthTrials:   10,
		ComplexityTrials: 20,
		LongTrials:       15,
		NestingLevels:    5,
		MinDepthLimit:    10000,
	}
}

// ExtremeGenerator searches for strings at structural extremes.
type ExtremeGenerator interface {
	Generate(kind m.ExtremeKind) (m.ExtremeResult, error)
	// GenerateAll runs every kind independently. Results of successful kinds
	// are returned even when others fail; the failures are joined into err.
	GenerateAll() ([]m.ExtremeResult, error)
	MaxDepth() (m.ExtremeResult, error)
	MinDepth() (m.ExtremeResult, error)
	MaxComplexity() (m.ExtremeResult, error)
	LongExpression() (m.ExtremeResult, error)
	ShortExpression() m.ExtremeResult
	MaxNesting() m.ExtremeResult
}

type extremeGenerator struct {
	grammar *m.Grammar
	rng     pkg.Rand
	opts    ExtremeOptions
}

// NewExtremeGenerator creates an ExtremeGenerator. Zero option fields fall
// back to DefaultExtremeOptions.
func NewExtremeGenerator(grammar *m.Grammar, rng pkg.Rand, opts ExtremeOptions) ExtremeGenerator {
	defaults := DefaultExtremeOptions()

	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaults.MaxDepth
	}

	if opts.MaxDepthTrials <= 0 {
		opts.MaxDepthTrials = defaults.MaxDepthTrials
	}

	if opts.ComplexityTrials <= 0 {
		opts.ComplexityTrials = defaults.ComplexityTrials
	}

	if opts.LongTrials <= 0 {
		opts.LongTrials = defaults.LongTrials
	}

	if opts.NestingLevels <= 0 {
		opts.NestingLevels = defaults.NestingLevels
	}

	if opts.MinDepthLimit <= 0 {
		opts.MinDepthLimit = defaults.MinDepthLimit
	}

	return &extremeGenerator{grammar: grammar, rng: rng, opts: opts}
}

func (eg *extremeGenerator) Generate(kind m.ExtremeKind) (m.ExtremeResult, error) {
	switch kind {
	case m.ExtremeMaxDepth:
		return eg.MaxDepth()
	case m.ExtremeMinDepth:
		return eg.MinDepth()
	case m.ExtremeMaxComplexity:
		return eg.MaxComplexity()
	case m.ExtremeLongExpression:
		return eg.LongExpression()
	case m.ExtremeShortExpression:
		return eg.ShortExpression(), nil
	case m.ExtremeMaxNesting:
		return eg.MaxNesting(), nil
	default:
		return m.ExtremeResult{}, fmt.Errorf("unsupported extreme kind: %s", kind)
	}
}

func (eg *extremeGenerator) GenerateAll() ([]m.ExtremeResult, error) {
	results := make([]m.ExtremeResult, 0, len(m.AllExtremeKinds))

	var errs []error

	for _, kind := range m.AllExtremeKinds {
		result, err := eg.Generate(kind)
		if err != nil {
			slog.Debug("extreme case failed", "kind", kind, "error", err)
			errs = append(errs, err)

			continue
		}

		results = append(results, result)
	}

	return results, errors.Join(errs...)
}

func (eg *extremeGenerator) MaxDepth() (m.ExtremeResult, error) {
	best, err := eg.bestOf(m.ExtremeMaxDepth, eg.opts.MaxDepthTrials, 2*eg.opts.MaxDepth, func(d m.Derivation) int {
		return d.Depth()
	})
	if err != nil {
		return m.ExtremeResult{}, err
	}

	return newExtremeResult(m.ExtremeMaxDepth, best.Content,
		fmt.Sprintf("deepest of %d derivations (%d steps)", eg.opts.MaxDepthTrials, best.Depth()),
		m.MetricDepth, best.Depth()), nil
}

func (eg *extremeGenerator) MaxComplexity() (m.ExtremeResult, error) {
	best, err := eg.bestOf(m.ExtremeMaxComplexity, eg.opts.ComplexityTrials, eg.opts.MaxDepth, func(d m.Derivation) int {
		return ScanContent(d.Content).Operators
	})
	if errors.Is(err, ErrAllTrialsFailed) {
		slog.Debug("using fallback for max complexity", "content", complexityFallback)

		return newExtremeResult(m.ExtremeMaxComplexity, complexityFallback,
			"fallback expression: every derivation exceeded the depth bound",
			m.MetricOperators, 0), nil
	}

	if err != nil {
		return m.ExtremeResult{}, err
	}

	return newExtremeResult(m.ExtremeMaxComplexity, best.Content,
		fmt.Sprintf("most operators of %d derivations", eg.opts.ComplexityTrials),
		m.MetricOperators, best.Depth()), nil
}

func (eg *extremeGenerator) LongExpression() (m.ExtremeResult, error) {
	best, err := eg.bestOf(m.ExtremeLongExpression, eg.opts.LongTrials, eg.opts.MaxDepth, func(d m.Derivation) int {
		return len(mutagens.Tokenize(d.Content))
	})
	if err != nil {
		return m.ExtremeResult{}, err
	}

	return newExtremeResult(m.ExtremeLongExpression, best.Content,
		fmt.Sprintf("most tokens of %d derivations", eg.opts.LongTrials),
		m.MetricTerminals, best.Depth()), nil
}

// bestOf runs trials derivations bounded by depth and keeps the first one
// with the highest score. Depth-exceeded trials are discarded; any other
// error aborts the search.
func (eg *extremeGenerator) bestOf(kind m.ExtremeKind, trials, depth int, score func(m.Derivation) int) (m.Derivation, error) {
	deriver := NewDeriver(eg.grammar, eg.rng, depth)

	var (
		best      m.Derivation
		bestScore int
		found     bool
		lastErr   error
	)

	for trial := range trials {
		derivation, err := deriver.Derive()
		if err != nil {
			if !errors.Is(err, ErrDepthExceeded) {
				return m.Derivation{}, fmt.Errorf("%s: %w", kind, err)
			}

			slog.Debug("discarding extreme trial", "kind", kind, "trial", trial, "error", err)
			lastErr = err

			continue
		}

		if s := score(derivation); !found || s > bestScore {
			best, bestScore, found = derivation, s, true
		}
	}

	if !found {
		return m.Derivation{}, fmt.Errorf("%s: %w: %w", kind, ErrAllTrialsFailed, lastErr)
	}

	return best, nil
}

// MinDepth expands the leftmost NonTerminal with the production that has the
// fewest NonTerminals, then the shortest right side, then the earliest
// declaration. No randomness is involved.
func (eg *extremeGenerator) MinDepth() (m.ExtremeResult, error) {
	form := []m.Symbol{eg.grammar.Start()}
	steps := 0

	for idx := m.LeftmostNonTerminal(form); idx >= 0; idx = m.LeftmostNonTerminal(form) {
		if steps >= eg.opts.MinDepthLimit {
			return m.ExtremeResult{}, fmt.Errorf("%s: %w", m.ExtremeMinDepth,
				&DepthExceededError{MaxDepth: eg.opts.MinDepthLimit, Form: form})
		}

		candidates := eg.grammar.ProductionsFor(form[idx])
		if len(candidates) == 0 {
			return m.ExtremeResult{}, fmt.Errorf("%s: %w", m.ExtremeMinDepth, &NoProductionsError{Symbol: form[idx]})
		}

		form = expand(form, idx, minimalProduction(candidates))
		steps++
	}

	return newExtremeResult(m.ExtremeMinDepth, m.FormString(form),
		fmt.Sprintf("minimal derivation (%d steps)", steps),
		m.MetricDepth, steps), nil
}

func minimalProduction(candidates []m.Production) m.Production {
	return slices.MinFunc(candidates, func(a, b m.Production) int {
		if c := a.NonTerminalCount() - b.NonTerminalCount(); c != 0 {
			return c
		}

		return len(a.Right) - len(b.Right)
	})
}

func (eg *extremeGenerator) ShortExpression() m.ExtremeResult {
	eg.warnUnknownTerminals(m.ExtremeShortExpression, shortExpression)

	return newExtremeResult(m.ExtremeShortExpression, shortExpression,
		"single-token expression", m.MetricTerminals, 0)
}

// MaxNesting wraps the nesting terminal in NestingLevels levels of
// "( ... + id )".
func (eg *extremeGenerator) MaxNesting() m.ExtremeResult {
	eg.warnUnknownTerminals(m.ExtremeMaxNesting, nestingTerminal, nestingOperator, "(", ")")

	tokens := []string{"(", nestingTerminal, nestingOperator, nestingTerminal, ")"}

	for level := 1; level < eg.opts.NestingLevels; level++ {
		wrapped := make([]string, 0, len(tokens)+4)
		wrapped = append(wrapped, "(")
		wrapped = append(wrapped, tokens...)
		wrapped = append(wrapped, nestingOperator, nestingTerminal, ")")
		tokens = wrapped
	}

	return newExtremeResult(m.ExtremeMaxNesting, mutagens.Join(tokens),
		fmt.Sprintf("%d levels of nested parentheses", eg.opts.NestingLevels),
		m.MetricNesting, 0)
}

func (eg *extremeGenerator) warnUnknownTerminals(kind m.ExtremeKind, spellings ...string) {
	for _, s := range spellings {
		if !eg.grammar.HasTerminal(s) {
			slog.Warn("extreme case uses a terminal the grammar does not declare", "kind", kind, "terminal", s)
		}
	}
}

func newExtremeResult(kind m.ExtremeKind, content, description string, metric m.MetricName, depth int) m.ExtremeResult {
	metrics := ScanContent(content)
	metrics.Depth = depth

	var value int

	switch metric {
	case m.MetricDepth:
		value = metrics.Depth
	case m.MetricOperators:
		value = metrics.Operators
	case m.MetricTerminals:
		value = metrics.Terminals
	case m.MetricNesting:
		value = metrics.MaxNesting
	}

	return m.ExtremeResult{
		Content:     content,
		Kind:        kind,
		Description: description,
		Metric:      metric,
		MetricValue: value,
		Metrics:     metrics,
	}
}

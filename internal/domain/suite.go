package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	m "gramgen.dev/pkg/gramgen/internal/model"
	"gramgen.dev/pkg/gramgen/pkg"
)

// SuiteOptions configures one suite build.
type SuiteOptions struct {
	Valid   int
	Invalid int
	// Extreme enables the six extreme-case searches.
	Extreme    bool
	MaxDepth   int
	Seed       uint64
	Identifier string
	// SpillDir holds the temporary case store. Empty means os.TempDir().
	SpillDir string
}

// SuiteResult is a built suite together with its metrics.
type SuiteResult struct {
	Suite   m.Suite
	Metrics m.SuiteMetrics
}

// SuiteBuilder derives, mutates, searches extremes and classifies the result
// for a single grammar.
type SuiteBuilder interface {
	Build(ctx context.Context, source m.GrammarSource, opts SuiteOptions) (SuiteResult, error)
}

type suiteBuilder struct {
	newRand func(seed uint64) pkg.Rand
}

// NewSuiteBuilder creates a SuiteBuilder. newRand seeds the engines of each
// build; nil selects pkg.NewRand.
func NewSuiteBuilder(newRand func(seed uint64) pkg.Rand) SuiteBuilder {
	if newRand == nil {
		newRand = pkg.NewRand
	}

	return &suiteBuilder{newRand: newRand}
}

func (b *suiteBuilder) Build(ctx context.Context, source m.GrammarSource, opts SuiteOptions) (SuiteResult, error) {
	if source.Grammar == nil {
		return SuiteResult{}, fmt.Errorf("grammar %q: %w", source.Name, m.ErrInvalidGrammar)
	}

	if missing := source.Grammar.MissingProductions(); len(missing) > 0 {
		slog.Warn("nonterminals without productions", "grammar", source.Name, "symbols", missing)
	}

	cases, err := pkg.NewSpill[m.TestCase](opts.SpillDir)
	if err != nil {
		return SuiteResult{}, fmt.Errorf("create case store: %w", err)
	}

	defer func() {
		if closeErr := cases.Close(); closeErr != nil {
			slog.Warn("failed to close case store", "path", cases.Path(), "error", closeErr)
		}
	}()

	rng := b.newRand(opts.Seed)
	classifier := NewClassifier(opts.Identifier)

	suite := m.Suite{
		RunID:    uuid.NewString(),
		Grammar:  source.Name,
		Seed:     opts.Seed,
		MaxDepth: opts.MaxDepth,
	}

	slog.Info("building suite", "grammar", source.Name, "run", suite.RunID, "seed", opts.Seed)

	derivations, err := b.appendValid(ctx, source.Grammar, rng, opts, classifier, cases)
	if err != nil {
		return SuiteResult{}, err
	}

	if len(derivations) > 0 {
		suite.Trace = derivations[0].Steps
	}

	if err := b.appendInvalid(ctx, derivations, rng, opts, classifier, cases); err != nil {
		return SuiteResult{}, err
	}

	if opts.Extreme {
		if err := b.appendExtreme(ctx, source.Grammar, rng, opts, classifier, cases); err != nil {
			return SuiteResult{}, err
		}
	}

	metrics, err := ComputeSuiteMetrics(cases)
	if err != nil {
		return SuiteResult{}, fmt.Errorf("compute metrics: %w", err)
	}

	suite.Cases, err = cases.Collect()
	if err != nil {
		return SuiteResult{}, fmt.Errorf("read case store: %w", err)
	}

	slog.Info("suite built", "grammar", source.Name, "cases", metrics.Total)

	return SuiteResult{Suite: suite, Metrics: metrics}, nil
}

func (b *suiteBuilder) appendValid(
	ctx context.Context,
	grammar *m.Grammar,
	rng pkg.Rand,
	opts SuiteOptions,
	classifier Classifier,
	cases pkg.Spill[m.TestCase],
) ([]m.Derivation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	derivations, err := NewDeriver(grammar, rng, opts.MaxDepth).DeriveN(opts.Valid)
	if err != nil {
		return nil, fmt.Errorf("derive valid strings: %w", err)
	}

	if dropped := opts.Valid - len(derivations); dropped > 0 {
		slog.Debug("derivations exceeded the depth bound", "dropped", dropped)
	}

	valid := make([]m.TestCase, 0, len(derivations))
	for _, derivation := range derivations {
		valid = append(valid, classifier.ClassifyValid(derivation, ""))
	}

	if err := cases.AppendBatch(valid); err != nil {
		return nil, fmt.Errorf("store valid cases: %w", err)
	}

	return derivations, nil
}

func (b *suiteBuilder) appendInvalid(
	ctx context.Context,
	seeds []m.Derivation,
	rng pkg.Rand,
	opts SuiteOptions,
	classifier Classifier,
	cases pkg.Spill[m.TestCase],
) error {
	if opts.Invalid <= 0 {
		return nil
	}

	if len(seeds) == 0 {
		slog.Warn("no valid strings to mutate", "requested", opts.Invalid)
		return nil
	}

	mutator := NewMutator(rng)

	for i := range opts.Invalid {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, ok := mutator.MutateRandom(seeds[i%len(seeds)].Content)
		if !ok {
			continue
		}

		if err := cases.Append(classifier.ClassifyInvalid(result)); err != nil {
			return fmt.Errorf("store invalid case: %w", err)
		}
	}

	return nil
}

func (b *suiteBuilder) appendExtreme(
	ctx context.Context,
	grammar *m.Grammar,
	rng pkg.Rand,
	opts SuiteOptions,
	classifier Classifier,
	cases pkg.Spill[m.TestCase],
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	extremeOpts := DefaultExtremeOptions()
	extremeOpts.MaxDepth = opts.MaxDepth

	results, err := NewExtremeGenerator(grammar, rng, extremeOpts).GenerateAll()
	if err != nil {
		if !errors.Is(err, ErrDepthExceeded) && !errors.Is(err, ErrAllTrialsFailed) {
			return fmt.Errorf("generate extreme cases: %w", err)
		}

		slog.Warn("some extreme cases were skipped", "error", err)
	}

	extremes := make([]m.TestCase, 0, len(results))
	for _, result := range results {
		extremes = append(extremes, classifier.ClassifyExtreme(result))
	}

	if err := cases.AppendBatch(extremes); err != nil {
		return fmt.Errorf("store extreme cases: %w", err)
	}

	return nil
}

package domain

import (
	"log/slog"

	"gramgen.dev/pkg/gramgen/internal/domain/mutagens"
	m "gramgen.dev/pkg/gramgen/internal/model"
	"gramgen.dev/pkg/gramgen/pkg"
)

// Mutator turns valid strings into invalid variants.
type Mutator interface {
	// Mutate applies kind to valid. ok is false when valid has no tokens or
	// kind is unknown.
	Mutate(valid string, kind m.MutationKind) (result m.MutationResult, ok bool)
	// MutateRandom applies a uniformly chosen kind.
	MutateRandom(valid string) (m.MutationResult, bool)
	// MutateN applies n uniformly chosen kinds; the same kind may recur.
	MutateN(valid string, n int) []m.MutationResult
}

var mutationGenerators = map[m.MutationKind]func([]string, pkg.Rand) mutagens.Outcome{
	m.MutationUnbalancedParens:  mutagens.UnbalancedParens,
	m.MutationDuplicateOperator: mutagens.DuplicateOperator,
	m.MutationLeadingOperator:   mutagens.LeadingOperator,
	m.MutationTrailingOperator:  mutagens.TrailingOperator,
	m.MutationEmptyParens:       mutagens.EmptyParens,
	m.MutationMissingOperator:   mutagens.MissingOperator,
	m.MutationMissingOperand:    mutagens.MissingOperand,
	m.MutationInvalidCharacter:  mutagens.InvalidCharacter,
	m.MutationSplitToken:        mutagens.SplitToken,
}

type mutator struct {
	rng pkg.Rand
}

// NewMutator creates a Mutator drawing from rng.
func NewMutator(rng pkg.Rand) Mutator {
	return &mutator{rng: rng}
}

func (mu *mutator) Mutate(valid string, kind m.MutationKind) (m.MutationResult, bool) {
	tokens := mutagens.Tokenize(valid)
	if len(tokens) == 0 {
		return m.MutationResult{}, false
	}

	gen, ok := mutationGenerators[kind]
	if !ok {
		slog.Warn("unknown mutation kind", "kind", kind)
		return m.MutationResult{}, false
	}

	outcome := gen(tokens, mu.rng)

	return m.MutationResult{
		Mutated:     mutagens.Join(outcome.Tokens),
		Kind:        kind,
		Description: outcome.Description,
		Original:    valid,
	}, true
}

func (mu *mutator) MutateRandom(valid string) (m.MutationResult, bool) {
	kind := m.AllMutationKinds[mu.rng.IntN(len(m.AllMutationKinds))]
	return mu.Mutate(valid, kind)
}

func (mu *mutator) MutateN(valid string, n int) []m.MutationResult {
	results := make([]m.MutationResult, 0, n)

	for range n {
		result, ok := mu.MutateRandom(valid)
		if !ok {
			continue
		}

		results = append(results, result)
	}

	return results
}

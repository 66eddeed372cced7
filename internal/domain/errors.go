package domain

import (
	"errors"
	"fmt"

	m "gramgen.dev/pkg/gramgen/internal/model"
)

var (
	// ErrDepthExceeded is wrapped by DepthExceededError.
	ErrDepthExceeded = errors.New("derivation depth exceeded")
	// ErrNoProductions is wrapped by NoProductionsError.
	ErrNoProductions = errors.New("no productions available")
	// ErrAllTrialsFailed is returned when every trial of an extreme case failed.
	ErrAllTrialsFailed = errors.New("all trials failed")
)

// DepthExceededError reports a derivation that still contained a
// NonTerminal after MaxDepth expansions.
type DepthExceededError struct {
	MaxDepth int
	Form     []m.Symbol
}

// errorFormSymbols caps how much of the form DepthExceededError prints.
const errorFormSymbols = 20

func (e *DepthExceededError) Error() string {
	form := m.FormString(e.Form)
	if len(e.Form) > errorFormSymbols {
		form = m.FormString(e.Form[:errorFormSymbols]) + " …"
	}

	return fmt.Sprintf("derivation did not terminate within %d steps (form: %s)", e.MaxDepth, form)
}

func (e *DepthExceededError) Unwrap() error {
	return ErrDepthExceeded
}

// NoProductionsError reports a NonTerminal that cannot be expanded.
type NoProductionsError struct {
	Symbol m.Symbol
}

func (e *NoProductionsError) Error() string {
	return fmt.Sprintf("nonterminal %q has no productions", e.Symbol.Value)
}

func (e *NoProductionsError) Unwrap() error {
	return ErrNoProductions
}

// Package model defines the data structures for grammar-driven test generation.
package model

import "strings"

// SymbolKind tags the variant of a Symbol.
type SymbolKind int

const (
	// KindTerminal marks a symbol of the alphabet (Σ).
	KindTerminal SymbolKind = iota
	// KindNonTerminal marks a grammar variable (V).
	KindNonTerminal
)

func (k SymbolKind) String() string {
	switch k {
	case KindTerminal:
		return "terminal"
	case KindNonTerminal:
		return "nonterminal"
	default:
		return "unknown"
	}
}

// Symbol is either a Terminal or a NonTerminal. Two symbols are equal when
// both value and kind match, so Symbol can be compared with == and used as a
// map key.
type Symbol struct {
	Value string
	Kind  SymbolKind
}

// Terminal creates a terminal symbol.
func Terminal(value string) Symbol {
	return Symbol{Value: value, Kind: KindTerminal}
}

// NonTerminal creates a nonterminal symbol.
func NonTerminal(value string) Symbol {
	return Symbol{Value: value, Kind: KindNonTerminal}
}

// IsTerminal reports whether s is a Terminal.
func (s Symbol) IsTerminal() bool {
	return s.Kind == KindTerminal
}

// IsNonTerminal reports whether s is a NonTerminal.
func (s Symbol) IsNonTerminal() bool {
	return s.Kind == KindNonTerminal
}

func (s Symbol) String() string {
	return s.Value
}

// EmptyString is the content of a derivation whose final form has no symbols.
const EmptyString = "ε"

// FormString renders a sentential form with single spaces between symbols.
func FormString(form []Symbol) string {
	if len(form) == 0 {
		return EmptyString
	}

	parts := make([]string, 0, len(form))
	for _, sym := range form {
		parts = append(parts, sym.Value)
	}

	return strings.Join(parts, " ")
}

// LeftmostNonTerminal returns the index of the first NonTerminal in form, or -1.
func LeftmostNonTerminal(form []Symbol) int {
	for i, sym := range form {
		if sym.IsNonTerminal() {
			return i
		}
	}

	return -1
}

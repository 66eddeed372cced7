package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGrammar is the sentinel wrapped by every ValidationError.
var ErrInvalidGrammar = errors.New("invalid grammar")

// ValidationReason identifies which grammar invariant was violated.
type ValidationReason string

const (
	// ReasonStartNotInV means the start symbol is missing from V.
	ReasonStartNotInV ValidationReason = "start symbol not in nonterminals"
	// ReasonLeftNotInV means a production's left side is missing from V.
	ReasonLeftNotInV ValidationReason = "left side not in nonterminals"
	// ReasonRightUnknown means a right-side symbol is in neither V nor Σ.
	ReasonRightUnknown ValidationReason = "right-side symbol not in grammar"
	// ReasonWrongKind means a symbol was declared in the wrong set.
	ReasonWrongKind ValidationReason = "symbol declared with wrong kind"
)

// ValidationError describes the first inconsistency found while building a
// Grammar. Production is -1 when the error is not tied to a production.
type ValidationError struct {
	Reason     ValidationReason
	Symbol     Symbol
	Production int
}

func (e *ValidationError) Error() string {
	if e.Production >= 0 {
		return fmt.Sprintf("%s: %q (production %d)", e.Reason, e.Symbol.Value, e.Production)
	}

	return fmt.Sprintf("%s: %q", e.Reason, e.Symbol.Value)
}

// Unwrap allows errors.Is(err, ErrInvalidGrammar).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidGrammar
}

// Grammar is a validated context-free grammar G=(V,Σ,R,S). It is never
// modified after construction.
type Grammar struct {
	nonTerminals []Symbol
	terminals    []Symbol
	productions  []Production
	start        Symbol

	inV    map[Symbol]struct{}
	inSig  map[Symbol]struct{}
	byLeft map[Symbol][]int
}

// NewGrammar validates the 4-tuple and returns the grammar, or the first
// ValidationError found. Duplicate members of V and Σ are collapsed.
func NewGrammar(nonTerminals, terminals []Symbol, productions []Production, start Symbol) (*Grammar, error) {
	g := &Grammar{
		start:  start,
		inV:    make(map[Symbol]struct{}, len(nonTerminals)),
		inSig:  make(map[Symbol]struct{}, len(terminals)),
		byLeft: make(map[Symbol][]int),
	}

	for _, nt := range nonTerminals {
		if !nt.IsNonTerminal() {
			return nil, &ValidationError{Reason: ReasonWrongKind, Symbol: nt, Production: -1}
		}

		if _, seen := g.inV[nt]; seen {
			continue
		}

		g.inV[nt] = struct{}{}
		g.nonTerminals = append(g.nonTerminals, nt)
	}

	for _, t := range terminals {
		if !t.IsTerminal() {
			return nil, &ValidationError{Reason: ReasonWrongKind, Symbol: t, Production: -1}
		}

		if _, seen := g.inSig[t]; seen {
			continue
		}

		g.inSig[t] = struct{}{}
		g.terminals = append(g.terminals, t)
	}

	if _, ok := g.inV[start]; !ok {
		return nil, &ValidationError{Reason: ReasonStartNotInV, Symbol: start, Production: -1}
	}

	for i, p := range productions {
		if err := g.checkProduction(p, i); err != nil {
			return nil, err
		}

		g.productions = append(g.productions, cloneProduction(p))
		g.byLeft[p.Left] = append(g.byLeft[p.Left], i)
	}

	return g, nil
}

func (g *Grammar) checkProduction(p Production, index int) error {
	if _, ok := g.inV[p.Left]; !ok {
		return &ValidationError{Reason: ReasonLeftNotInV, Symbol: p.Left, Production: index}
	}

	for _, sym := range p.Right {
		known := false

		switch sym.Kind {
		case KindTerminal:
			_, known = g.inSig[sym]
		case KindNonTerminal:
			_, known = g.inV[sym]
		}

		if !known {
			return &ValidationError{Reason: ReasonRightUnknown, Symbol: sym, Production: index}
		}
	}

	return nil
}

// WithProduction returns a new grammar with p appended to R. The receiver is
// left untouched.
func (g *Grammar) WithProduction(p Production) (*Grammar, error) {
	productions := make([]Production, 0, len(g.productions)+1)
	productions = append(productions, g.productions...)
	productions = append(productions, p)

	return NewGrammar(g.nonTerminals, g.terminals, productions, g.start)
}

// Start returns S.
func (g *Grammar) Start() Symbol {
	return g.start
}

// NonTerminals returns V in declaration order.
func (g *Grammar) NonTerminals() []Symbol {
	return append([]Symbol(nil), g.nonTerminals...)
}

// Terminals returns Σ in declaration order.
func (g *Grammar) Terminals() []Symbol {
	return append([]Symbol(nil), g.terminals...)
}

// Productions returns R in declaration order.
func (g *Grammar) Productions() []Production {
	out := make([]Production, 0, len(g.productions))
	for _, p := range g.productions {
		out = append(out, cloneProduction(p))
	}

	return out
}

// ProductionsFor returns every production whose left side is nt, preserving
// their relative declaration order.
func (g *Grammar) ProductionsFor(nt Symbol) []Production {
	indexes := g.byLeft[nt]

	out := make([]Production, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, cloneProduction(g.productions[i]))
	}

	return out
}

// HasTerminal reports whether value is a terminal of the grammar.
func (g *Grammar) HasTerminal(value string) bool {
	_, ok := g.inSig[Terminal(value)]
	return ok
}

// MissingProductions lists the NonTerminals that have no production at all.
func (g *Grammar) MissingProductions() []Symbol {
	var missing []Symbol

	for _, nt := range g.nonTerminals {
		if len(g.byLeft[nt]) == 0 {
			missing = append(missing, nt)
		}
	}

	return missing
}

// String renders the 4-tuple, e.g. ( { E, T }, { +, id }, [ E -> E + T, ... ], E ).
func (g *Grammar) String() string {
	values := func(symbols []Symbol) string {
		parts := make([]string, 0, len(symbols))
		for _, s := range symbols {
			parts = append(parts, s.Value)
		}

		return strings.Join(parts, ", ")
	}

	rules := make([]string, 0, len(g.productions))
	for _, p := range g.productions {
		rules = append(rules, p.String())
	}

	return fmt.Sprintf("( { %s }, { %s }, [ %s ], %s )",
		values(g.nonTerminals), values(g.terminals), strings.Join(rules, ", "), g.start.Value)
}

func cloneProduction(p Production) Production {
	return Production{Left: p.Left, Right: append([]Symbol(nil), p.Right...)}
}

package domain

import (
	"testing"

	m "gramgen.dev/pkg/gramgen/internal/model"
)

// arithmeticGrammar is E -> E + T | T, T -> T * F | F, F -> ( E ) | id.
func arithmeticGrammar(t testing.TB) *m.Grammar {
	t.Helper()

	e, tt, f := m.NonTerminal("E"), m.NonTerminal("T"), m.NonTerminal("F")
	plus, star := m.Terminal("+"), m.Terminal("*")
	lp, rp, id := m.Terminal("("), m.Terminal(")"), m.Terminal("id")

	g, err := m.NewGrammar(
		[]m.Symbol{e, tt, f},
		[]m.Symbol{plus, star, lp, rp, id},
		[]m.Production{
			m.NewProduction(e, e, plus, tt),
			m.NewProduction(e, tt),
			m.NewProduction(tt, tt, star, f),
			m.NewProduction(tt, f),
			m.NewProduction(f, lp, e, rp),
			m.NewProduction(f, id),
		},
		e,
	)
	if err != nil {
		t.Fatalf("arithmetic grammar: %v", err)
	}

	return g
}

// mustGrammar builds a grammar over S with the given productions. Symbols
// are collected from the productions.
func mustGrammar(t testing.TB, productions ...m.Production) *m.Grammar {
	t.Helper()

	var nonTerminals, terminals []m.Symbol

	for _, p := range productions {
		nonTerminals = append(nonTerminals, p.Left)

		for _, sym := range p.Right {
			if sym.IsNonTerminal() {
				nonTerminals = append(nonTerminals, sym)
			} else {
				terminals = append(terminals, sym)
			}
		}
	}

	g, err := m.NewGrammar(nonTerminals, terminals, productions, m.NonTerminal("S"))
	if err != nil {
		t.Fatalf("grammar: %v", err)
	}

	return g
}

var arithmeticTerminals = map[string]bool{"id": true, "+": true, "*": true, "(": true, ")": true}

package model

import "strings"

// Production is a rewriting rule Left -> Right. An empty Right is an
// ε-production.
type Production struct {
	Left  Symbol
	Right []Symbol
}

// NewProduction builds a production for left with the given right side.
func NewProduction(left Symbol, right ...Symbol) Production {
	return Production{Left: left, Right: right}
}

// Equal reports structural equality.
func (p Production) Equal(other Production) bool {
	if p.Left != other.Left || len(p.Right) != len(other.Right) {
		return false
	}

	for i := range p.Right {
		if p.Right[i] != other.Right[i] {
			return false
		}
	}

	return true
}

// IsEpsilon reports whether the right side is empty.
func (p Production) IsEpsilon() bool {
	return len(p.Right) == 0
}

// IsLeftRecursive reports whether the right side begins with the left side.
func (p Production) IsLeftRecursive() bool {
	return len(p.Right) > 0 && p.Right[0] == p.Left
}

// NonTerminalCount returns the number of NonTerminals on the right side.
func (p Production) NonTerminalCount() int {
	count := 0

	for _, sym := range p.Right {
		if sym.IsNonTerminal() {
			count++
		}
	}

	return count
}

func (p Production) String() string {
	var b strings.Builder

	b.WriteString(p.Left.Value)
	b.WriteString(" -> ")
	b.WriteString(FormString(p.Right))

	return b.String()
}

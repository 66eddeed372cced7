package mutagens

import (
	"fmt"

	"gramgen.dev/pkg/gramgen/pkg"
)

// UnbalancedParens removes one parenthesis. When the input has none, an
// unmatched parenthesis is inserted instead.
func UnbalancedParens(tokens []string, rng pkg.Rand) Outcome {
	parens := indexesWhere(tokens, IsParen)
	if len(parens) == 0 {
		paren := pick([]string{openParen, closeParen}, rng)
		pos := randomPosition(tokens, rng)

		return Outcome{
			Tokens:      insertAt(tokens, pos, paren),
			Description: fmt.Sprintf("inserted unmatched %q at position %d", paren, pos),
		}
	}

	pos := parens[rng.IntN(len(parens))]

	return Outcome{
		Tokens:      removeAt(tokens, pos),
		Description: fmt.Sprintf("removed %q at position %d", tokens[pos], pos),
	}
}

// EmptyParens inserts "( )" at a random position.
func EmptyParens(tokens []string, rng pkg.Rand) Outcome {
	pos := randomPosition(tokens, rng)

	return Outcome{
		Tokens:      insertAt(tokens, pos, openParen, closeParen),
		Description: fmt.Sprintf("inserted empty parentheses at position %d", pos),
	}
}

package mutagens

import (
	"fmt"

	"gramgen.dev/pkg/gramgen/pkg"
)

// DuplicateOperator repeats one operator in place. Without operators it
// inserts "+ +" at a random position.
func DuplicateOperator(tokens []string, rng pkg.Rand) Outcome {
	ops := indexesWhere(tokens, IsOperator)
	if len(ops) == 0 {
		pos := randomPosition(tokens, rng)

		return Outcome{
			Tokens:      insertAt(tokens, pos, "+", "+"),
			Description: fmt.Sprintf("inserted \"+ +\" at position %d", pos),
		}
	}

	pos := ops[rng.IntN(len(ops))]

	return Outcome{
		Tokens:      insertAt(tokens, pos+1, tokens[pos]),
		Description: fmt.Sprintf("duplicated %q at position %d", tokens[pos], pos),
	}
}

// LeadingOperator prepends a random operator.
func LeadingOperator(tokens []string, rng pkg.Rand) Outcome {
	op := pick(Operators, rng)

	return Outcome{
		Tokens:      insertAt(tokens, 0, op),
		Description: fmt.Sprintf("prepended operator %q", op),
	}
}

// TrailingOperator appends a random operator.
func TrailingOperator(tokens []string, rng pkg.Rand) Outcome {
	op := pick(Operators, rng)

	return Outcome{
		Tokens:      insertAt(tokens, len(tokens), op),
		Description: fmt.Sprintf("appended operator %q", op),
	}
}

// MissingOperator removes one operator; no-op when there is none.
func MissingOperator(tokens []string, rng pkg.Rand) Outcome {
	ops := indexesWhere(tokens, IsOperator)
	if len(ops) == 0 {
		return unchanged(tokens, "no operator to remove (no-op)")
	}

	pos := ops[rng.IntN(len(ops))]

	return Outcome{
		Tokens:      removeAt(tokens, pos),
		Description: fmt.Sprintf("removed operator %q at position %d", tokens[pos], pos),
	}
}

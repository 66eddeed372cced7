package mutagens

import (
	"fmt"

	"gramgen.dev/pkg/gramgen/pkg"
)

// MissingOperand removes one identifier-class token; no-op when there is none.
func MissingOperand(tokens []string, rng pkg.Rand) Outcome {
	operands := indexesWhere(tokens, IsOperand)
	if len(operands) == 0 {
		return unchanged(tokens, "no operand to remove (no-op)")
	}

	pos := operands[rng.IntN(len(operands))]

	return Outcome{
		Tokens:      removeAt(tokens, pos),
		Description: fmt.Sprintf("removed operand %q at position %d", tokens[pos], pos),
	}
}

// InvalidCharacter inserts a symbol from InvalidCharacters at a random position.
func InvalidCharacter(tokens []string, rng pkg.Rand) Outcome {
	char := pick(InvalidCharacters, rng)
	pos := randomPosition(tokens, rng)

	return Outcome{
		Tokens:      insertAt(tokens, pos, char),
		Description: fmt.Sprintf("inserted invalid character %q at position %d", char, pos),
	}
}

// SplitToken inserts a space inside a randomly chosen token. A chosen token
// of length 1 leaves the input unchanged.
func SplitToken(tokens []string, rng pkg.Rand) Outcome {
	pos := rng.IntN(len(tokens))
	tok := []rune(tokens[pos])

	if len(tok) < 2 {
		return unchanged(tokens, fmt.Sprintf("token %q at position %d too short to split (no-op)", tokens[pos], pos))
	}

	cut := 1 + rng.IntN(len(tok)-1)
	out := append([]string(nil), tokens...)
	out[pos] = string(tok[:cut]) + " " + string(tok[cut:])

	return Outcome{
		Tokens:      out,
		Description: fmt.Sprintf("split %q at offset %d", tokens[pos], cut),
	}
}

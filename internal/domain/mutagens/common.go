// Package mutagens provides the token-level transforms that turn a valid
// string into an invalid one.
package mutagens

import (
	"strings"
	"unicode"

	"gramgen.dev/pkg/gramgen/pkg"
)

const (
	openParen  = "("
	closeParen = ")"
)

// Operators is the operator alphabet shared by mutations and metrics.
var Operators = []string{"+", "*", "-", "/"}

// InvalidCharacters are symbols outside any supported grammar alphabet.
var InvalidCharacters = []string{"@", "#", "$", "%", "&", "!", "?", "~"}

// Outcome is the result of applying a transform to a token list.
type Outcome struct {
	Tokens      []string
	Description string
}

// Tokenize splits s on whitespace.
func Tokenize(s string) []string {
	return strings.Fields(s)
}

// Join renders tokens as a space-separated string.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}

// IsOperator reports whether tok is one of Operators.
func IsOperator(tok string) bool {
	for _, op := range Operators {
		if tok == op {
			return true
		}
	}

	return false
}

// IsParen reports whether tok is "(" or ")".
func IsParen(tok string) bool {
	return tok == openParen || tok == closeParen
}

// IsOperand reports whether tok is identifier-class: non-empty and made only
// of letters, digits and underscores.
func IsOperand(tok string) bool {
	if tok == "" {
		return false
	}

	for _, r := range tok {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

// indexesWhere returns the positions of tokens matching pred.
func indexesWhere(tokens []string, pred func(string) bool) []int {
	var out []int

	for i, tok := range tokens {
		if pred(tok) {
			out = append(out, i)
		}
	}

	return out
}

// insertAt returns a copy of tokens with items inserted before pos.
func insertAt(tokens []string, pos int, items ...string) []string {
	out := make([]string, 0, len(tokens)+len(items))
	out = append(out, tokens[:pos]...)
	out = append(out, items...)

	return append(out, tokens[pos:]...)
}

// removeAt returns a copy of tokens without the element at pos.
func removeAt(tokens []string, pos int) []string {
	out := make([]string, 0, len(tokens)-1)
	out = append(out, tokens[:pos]...)

	return append(out, tokens[pos+1:]...)
}

// randomPosition picks an insertion point in [0, len(tokens)].
func randomPosition(tokens []string, rng pkg.Rand) int {
	return rng.IntN(len(tokens) + 1)
}

func pick(values []string, rng pkg.Rand) string {
	return values[rng.IntN(len(values))]
}

func unchanged(tokens []string, description string) Outcome {
	return Outcome{Tokens: append([]string(nil), tokens...), Description: description}
}

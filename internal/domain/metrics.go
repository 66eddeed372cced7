package domain

import (
	"gramgen.dev/pkg/gramgen/internal/domain/mutagens"
	m "gramgen.dev/pkg/gramgen/internal/model"
)

// ScanTokens measures a token sequence: operator count, token count and
// maximum parenthesis nesting depth.
func ScanTokens(tokens []string) m.TokenMetrics {
	metrics := m.TokenMetrics{Terminals: len(tokens)}
	depth := 0

	for _, tok := range tokens {
		switch {
		case tok == "(":
			depth++
			metrics.MaxNesting = max(metrics.MaxNesting, depth)
		case tok == ")":
			depth--
		case mutagens.IsOperator(tok):
			metrics.Operators++
		}
	}

	return metrics
}

// ScanContent tokenizes content and measures it.
func ScanContent(content string) m.TokenMetrics {
	return ScanTokens(mutagens.Tokenize(content))
}

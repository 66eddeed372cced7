package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"gramgen.dev/pkg/gramgen/internal/domain/mutagens"
	m "gramgen.dev/pkg/gramgen/internal/model"
)

// DefaultIdentifier is the spelling of the identifier terminal counted by
// the identifier_count metadata.
const DefaultIdentifier = "id"

// Classifier labels generated strings. It is a session: the identifier
// counter runs across all categories until Reset is called.
type Classifier interface {
	ClassifyValid(derivation m.Derivation, description string) m.TestCase
	ClassifyInvalid(result m.MutationResult) m.TestCase
	ClassifyExtreme(result m.ExtremeResult) m.TestCase
	// Count returns how many cases were classified since the last Reset.
	Count() int
	Reset()
}

type classifier struct {
	identifier string
	counter    int
}

// NewClassifier creates a classifier session. An empty identifier selects
// DefaultIdentifier.
func NewClassifier(identifier string) Classifier {
	if identifier == "" {
		identifier = DefaultIdentifier
	}

	return &classifier{identifier: identifier}
}

func (c *classifier) Count() int {
	return c.counter
}

func (c *classifier) Reset() {
	c.counter = 0
}

func (c *classifier) ClassifyValid(derivation m.Derivation, description string) m.TestCase {
	if description == "" {
		description = "valid string derived from the grammar"
	}

	tc := c.newCase(m.CategoryValid, derivation.Content, description)
	tc.Metadata[m.MetaDerivationSteps] = m.IntValue(derivation.Depth())

	return tc
}

func (c *classifier) ClassifyInvalid(result m.MutationResult) m.TestCase {
	description := result.Description
	if description == "" {
		description = "invalid string produced by mutation"
	}

	tc := c.newCase(m.CategoryInvalid, result.Mutated, fmt.Sprintf("%s: %s", result.Kind, description))
	tc.Metadata[m.MetaMutationType] = m.TextValue(string(result.Kind))
	tc.Metadata[m.MetaOriginal] = m.TextValue(result.Original)

	return tc
}

func (c *classifier) ClassifyExtreme(result m.ExtremeResult) m.TestCase {
	description := result.Description
	if description == "" {
		description = "extreme case"
	}

	tc := c.newCase(m.CategoryExtreme, result.Content, fmt.Sprintf("%s: %s", result.Kind, description))
	tc.Metadata[m.MetaExtremeType] = m.TextValue(string(result.Kind))
	tc.Metadata[m.MetaMetric] = m.TextValue(string(result.Metric))
	tc.Metadata[m.MetaMetricValue] = m.IntValue(result.MetricValue)
	tc.Metadata[m.MetaNestingDepth] = m.IntValue(result.Metrics.MaxNesting)

	return tc
}

func (c *classifier) newCase(category m.Category, content, description string) m.TestCase {
	c.counter++

	return m.TestCase{
		ID:          fmt.Sprintf("%s_%04d", strings.ToUpper(string(category)), c.counter),
		Content:     content,
		Category:    category,
		Description: description,
		Metadata:    c.baseMetadata(content),
	}
}

// baseMetadata computes the metadata shared by every category.
func (c *classifier) baseMetadata(content string) m.Metadata {
	tokens := mutagens.Tokenize(content)

	opens := lo.Count(tokens, "(")
	closes := lo.Count(tokens, ")")

	operatorCounts := make(map[string]int, len(mutagens.Operators))
	for _, op := range mutagens.Operators {
		operatorCounts[op] = lo.Count(tokens, op)
	}

	identifiers := lo.CountBy(tokens, func(tok string) bool {
		return strings.HasPrefix(tok, c.identifier)
	})

	return m.Metadata{
		m.MetaLength:          m.IntValue(utf8.RuneCountInString(content)),
		m.MetaTokenCount:      m.IntValue(len(tokens)),
		m.MetaOpenParens:      m.IntValue(opens),
		m.MetaCloseParens:     m.IntValue(closes),
		m.MetaParensBalanced:  m.BoolValue(opens == closes),
		m.MetaOperatorCounts:  m.MapValue(operatorCounts),
		m.MetaOperatorCount:   m.IntValue(lo.Sum(lo.Values(operatorCounts))),
		m.MetaIdentifierCount: m.IntValue(identifiers),
	}
}

package model

// ExtremeKind names the structural metric an extreme case pushes to its limit.
type ExtremeKind string

const (
	// ExtremeMaxDepth is the longest derivation found.
	ExtremeMaxDepth ExtremeKind = "max_depth"
	// ExtremeMinDepth is the shortest derivation, chosen deterministically.
	ExtremeMinDepth ExtremeKind = "min_depth"
	// ExtremeMaxComplexity has the most operators.
	ExtremeMaxComplexity ExtremeKind = "max_complexity"
	// ExtremeLongExpression has the most tokens.
	ExtremeLongExpression ExtremeKind = "long_expression"
	// ExtremeShortExpression is a single-token string.
	ExtremeShortExpression ExtremeKind = "short_expression"
	// ExtremeMaxNesting is deeply parenthesised.
	ExtremeMaxNesting ExtremeKind = "max_nesting"
)

// AllExtremeKinds lists every kind in generation order.
var AllExtremeKinds = []ExtremeKind{
	ExtremeMaxDepth,
	ExtremeMinDepth,
	ExtremeMaxComplexity,
	ExtremeLongExpression,
	ExtremeShortExpression,
	ExtremeMaxNesting,
}

// MetricName identifies the measurement that made a result extreme.
type MetricName string

const (
	MetricDepth     MetricName = "depth"
	MetricOperators MetricName = "operator_count"
	MetricTerminals MetricName = "terminal_count"
	MetricNesting   MetricName = "nesting_level"
)

// TokenMetrics are structural measurements of a token sequence.
type TokenMetrics struct {
	Operators  int
	Terminals  int
	MaxNesting int
	Depth      int
}

// ExtremeResult is a string at a structural extreme.
type ExtremeResult struct {
	Content     string
	Kind        ExtremeKind
	Description string
	Metric      MetricName
	MetricValue int
	Metrics     TokenMetrics
}

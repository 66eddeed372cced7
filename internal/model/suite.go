package model

// Suite is the output of one generation run over a single grammar.
type Suite struct {
	RunID    string
	Grammar  string
	Seed     uint64
	MaxDepth int
	Cases    []TestCase
	Trace    []DerivationStep
}

// SuiteMetrics aggregates a suite for reporting.
type SuiteMetrics struct {
	Total             int
	ByCategory        map[Category]int
	Percentages       map[Category]float64
	MinLength         int
	MaxLength         int
	AverageLength     float64
	AverageTokens     float64
	MaxNesting        int
	BalancedCount     int
	OperatorHistogram map[string]int
}

package controller

import (
	"strings"
	"testing"

	m "gramgen.dev/pkg/gramgen/internal/model"
)

func testGrammarSource(t *testing.T) m.GrammarSource {
	t.Helper()

	s, x := m.NonTerminal("Expr"), m.NonTerminal("X")
	id, plus := m.Terminal("id"), m.Terminal("+")

	g, err := m.NewGrammar(
		[]m.Symbol{s, x},
		[]m.Symbol{id, plus},
		[]m.Production{m.NewProduction(s, id, plus, x), m.NewProduction(s, id)},
		s,
	)
	if err != nil {
		t.Fatalf("NewGrammar() error = %v", err)
	}

	return m.GrammarSource{Path: "expr.cfg", Name: "expr", Grammar: g}
}

func testDerivation() m.Derivation {
	s, id := m.NonTerminal("Expr"), m.Terminal("id")
	p := m.NewProduction(s, id)

	return m.Derivation{
		Content: "id",
		Steps: []m.DerivationStep{
			{Form: []m.Symbol{s}, Label: "start: Expr"},
			{Form: []m.Symbol{id}, Production: &p, Label: "step 1: Expr -> id"},
		},
	}
}

func testSuite() (m.Suite, m.SuiteMetrics) {
	suite := m.Suite{
		RunID:   "run-1",
		Grammar: "expr",
		Seed:    9,
		Cases: []m.TestCase{
			{ID: "VALID_0001", Content: "id + id", Category: m.CategoryValid, Description: "valid string derived from the grammar"},
			{
				ID:          "INVALID_0002",
				Content:     "id + + id",
				Category:    m.CategoryInvalid,
				Description: "duplicate_operator: doubled +",
				Metadata:    m.Metadata{m.MetaOriginal: m.TextValue("id + id")},
			},
			{ID: "EXTREME_0003", Content: "id", Category: m.CategoryExtreme, Description: "short_expression: single-token expression"},
		},
	}

	metrics := m.SuiteMetrics{
		Total:             3,
		ByCategory:        map[m.Category]int{m.CategoryValid: 1, m.CategoryInvalid: 1, m.CategoryExtreme: 1},
		Percentages:       map[m.Category]float64{m.CategoryValid: 100.0 / 3, m.CategoryInvalid: 100.0 / 3, m.CategoryExtreme: 100.0 / 3},
		MinLength:         2,
		MaxLength:         9,
		AverageLength:     6,
		AverageTokens:     3,
		BalancedCount:     3,
		OperatorHistogram: map[string]int{"+": 3, "*": 0},
	}

	return suite, metrics
}

func TestRenderGrammarTable(t *testing.T) {
	out := renderGrammarTable(testGrammarSource(t))

	for _, want := range []string{"Expr -> id + X", "Expr -> id", "Start", "{ Expr, X }", "{ id, + }", "Without productions: { X }"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
}

func TestRenderTrace(t *testing.T) {
	out := renderTrace(testDerivation())

	for _, want := range []string{"Sentential form", "Expr -> id", "Result", "id"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
}

func TestRenderMetricsTable(t *testing.T) {
	_, metrics := testSuite()
	out := renderMetricsTable(metrics, plainLabel)

	for _, want := range []string{"valid", "invalid", "extreme", "33.3%", "Total", "2 / 6.0 / 9", "Balanced parens:    3/3", "*=0 +=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
}

func TestRenderMutationDiff(t *testing.T) {
	suite, _ := testSuite()

	diff := renderMutationDiff(suite.Cases[1])
	for _, want := range []string{"--- original", "+++ INVALID_0002", "++\n", `metadata: original="id + id"`} {
		if !strings.Contains(diff, want) {
			t.Errorf("diff missing %q, got:\n%s", want, diff)
		}
	}

	if got := renderMutationDiff(suite.Cases[0]); got != "" {
		t.Errorf("valid case should have no diff, got %q", got)
	}
}

func TestRenderMetadata_SortedKeys(t *testing.T) {
	md := m.Metadata{
		m.MetaTokenCount:     m.IntValue(4),
		m.MetaOriginal:       m.TextValue("id + id"),
		m.MetaParensBalanced: m.BoolValue(true),
		m.MetaOperatorCounts: m.MapValue(map[string]int{"+": 2, "*": 0}),
	}

	want := `operator_counts={*=0 +=2} original="id + id" parens_balanced=true token_count=4`
	if got := renderMetadata(md); got != want {
		t.Fatalf("renderMetadata() = %q, want %q", got, want)
	}

	if got := renderMetadata(nil); got != "" {
		t.Errorf("renderMetadata(nil) = %q, want empty", got)
	}
}

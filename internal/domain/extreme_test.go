package domain

import (
	"errors"
	"testing"

	m "gramgen.dev/pkg/gramgen/internal/model"
	"gramgen.dev/pkg/gramgen/pkg"
)

func TestExtreme_MaxNesting(t *testing.T) {
	tests := []struct {
		name   string
		levels int
		want   string
	}{
		{"default five levels", 0, "( ( ( ( ( id + id ) + id ) + id ) + id ) + id )"},
		{"one level", 1, "( id + id )"},
		{"three levels", 3, "( ( ( id + id ) + id ) + id )"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eg := NewExtremeGenerator(arithmeticGrammar(t), pkg.NewSequence(), ExtremeOptions{NestingLevels: tt.levels})
			result := eg.MaxNesting()

			if result.Content != tt.want {
				t.Fatalf("content = %q, want %q", result.Content, tt.want)
			}

			wantLevels := tt.levels
			if wantLevels == 0 {
				wantLevels = DefaultExtremeOptions().NestingLevels
			}

			if result.Metrics.MaxNesting != wantLevels || result.MetricValue != wantLevels {
				t.Fatalf("nesting = %d (metric %d), want %d", result.Metrics.MaxNesting, result.MetricValue, wantLevels)
			}

			if result.Metric != m.MetricNesting {
				t.Errorf("metric = %s, want %s", result.Metric, m.MetricNesting)
			}
		})
	}
}

func TestExtreme_ShortExpression(t *testing.T) {
	result := NewExtremeGenerator(arithmeticGrammar(t), pkg.NewSequence(), ExtremeOptions{}).ShortExpression()

	if result.Content != "id" {
		t.Fatalf("content = %q, want id", result.Content)
	}

	if result.Metrics.Terminals != 1 || result.Metrics.Operators != 0 {
		t.Fatalf("metrics = %+v, want one token and no operators", result.Metrics)
	}
}

func TestExtreme_MinDepth(t *testing.T) {
	t.Run("arithmetic picks the cheapest chain", func(t *testing.T) {
		result, err := NewExtremeGenerator(arithmeticGrammar(t), pkg.NewSequence(), ExtremeOptions{}).MinDepth()
		if err != nil {
			t.Fatalf("MinDepth() error = %v", err)
		}

		if result.Content != "id" || result.MetricValue != 3 {
			t.Fatalf("got %q in %d steps, want id in 3", result.Content, result.MetricValue)
		}
	})

	t.Run("ties go to declaration order", func(t *testing.T) {
		s, a, b := m.NonTerminal("S"), m.Terminal("a"), m.Terminal("b")
		g := mustGrammar(t, m.NewProduction(s, b), m.NewProduction(s, a))

		result, err := NewExtremeGenerator(g, pkg.NewSequence(), ExtremeOptions{}).MinDepth()
		if err != nil {
			t.Fatalf("MinDepth() error = %v", err)
		}

		if result.Content != "b" {
			t.Fatalf("content = %q, want b", result.Content)
		}
	})

	t.Run("missing productions", func(t *testing.T) {
		s, x := m.NonTerminal("S"), m.NonTerminal("X")
		g := mustGrammar(t, m.NewProduction(s, x))

		_, err := NewExtremeGenerator(g, pkg.NewSequence(), ExtremeOptions{}).MinDepth()
		if !errors.Is(err, ErrNoProductions) {
			t.Fatalf("error = %v, want ErrNoProductions", err)
		}
	})

	t.Run("non-terminating grammar hits the limit", func(t *testing.T) {
		s, a := m.NonTerminal("S"), m.Terminal("a")
		g := mustGrammar(t, m.NewProduction(s, s, a))

		_, err := NewExtremeGenerator(g, pkg.NewSequence(), ExtremeOptions{MinDepthLimit: 10}).MinDepth()
		if !errors.Is(err, ErrDepthExceeded) {
			t.Fatalf("error = %v, want ErrDepthExceeded", err)
		}
	})
}

func TestExtreme_MaxDepthUsesDoubleBound(t *testing.T) {
	eg := NewExtremeGenerator(arithmeticGrammar(t), pkg.NewRand(99), ExtremeOptions{MaxDepth: 10})

	result, err := eg.MaxDepth()
	if err != nil {
		t.Fatalf("MaxDepth() error = %v", err)
	}

	if result.MetricValue != result.Metrics.Depth {
		t.Errorf("metric value %d differs from depth %d", result.MetricValue, result.Metrics.Depth)
	}

	if result.MetricValue < 3 || result.MetricValue > 20 {
		t.Errorf("depth %d outside [3, 20]", result.MetricValue)
	}
}

func TestExtreme_MaxComplexityFallback(t *testing.T) {
	s, a := m.NonTerminal("S"), m.Terminal("a")
	g := mustGrammar(t, m.NewProduction(s, s, a))

	result, err := NewExtremeGenerator(g, pkg.NewSequence(), ExtremeOptions{MaxDepth: 4, ComplexityTrials: 3}).MaxComplexity()
	if err != nil {
		t.Fatalf("MaxComplexity() error = %v", err)
	}

	if result.Content != complexityFallback {
		t.Fatalf("content = %q, want fallback", result.Content)
	}

	if result.MetricValue != 4 {
		t.Errorf("operators = %d, want 4", result.MetricValue)
	}
}

func TestExtreme_LongExpressionFailsWithoutFallback(t *testing.T) {
	s, a := m.NonTerminal("S"), m.Terminal("a")
	g := mustGrammar(t, m.NewProduction(s, s, a))

	_, err := NewExtremeGenerator(g, pkg.NewSequence(), ExtremeOptions{MaxDepth: 4, LongTrials: 2}).LongExpression()
	if !errors.Is(err, ErrAllTrialsFailed) {
		t.Fatalf("error = %v, want ErrAllTrialsFailed", err)
	}

	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("error = %v, should also carry the last depth failure", err)
	}
}

func TestExtreme_TiesKeepFirstTrial(t *testing.T) {
	s, a, b := m.NonTerminal("S"), m.Terminal("a"), m.Terminal("b")
	g := mustGrammar(t, m.NewProduction(s, a), m.NewProduction(s, b))

	// first trial derives b, second derives a; both have one token
	result, err := NewExtremeGenerator(g, pkg.NewSequence(1, 0), ExtremeOptions{LongTrials: 2}).LongExpression()
	if err != nil {
		t.Fatalf("LongExpression() error = %v", err)
	}

	if result.Content != "b" {
		t.Fatalf("content = %q, want b", result.Content)
	}
}

func TestExtreme_GenerateAll(t *testing.T) {
	s := m.NonTerminal("S")
	id, plus, star := m.Terminal("id"), m.Terminal("+"), m.Terminal("*")
	g := mustGrammar(t, m.NewProduction(s, id, plus, id, star, id))

	results, err := NewExtremeGenerator(g, pkg.NewRand(1), ExtremeOptions{}).GenerateAll()
	if err != nil {
		t.Fatalf("GenerateAll() error = %v", err)
	}

	if len(results) != len(m.AllExtremeKinds) {
		t.Fatalf("got %d results, want %d", len(results), len(m.AllExtremeKinds))
	}

	for i, kind := range m.AllExtremeKinds {
		if results[i].Kind != kind {
			t.Errorf("result %d kind = %s, want %s", i, results[i].Kind, kind)
		}
	}

	if results[2].Content != "id + id * id" || results[2].MetricValue != 2 {
		t.Errorf("max complexity = %q (%d operators)", results[2].Content, results[2].MetricValue)
	}
}

func TestExtreme_GenerateAllKeepsPartialResults(t *testing.T) {
	s, a := m.NonTerminal("S"), m.Terminal("a")
	g := mustGrammar(t, m.NewProduction(s, s, a))

	results, err := NewExtremeGenerator(g, pkg.NewSequence(), ExtremeOptions{
		MaxDepth:       3,
		MaxDepthTrials: 1,
		LongTrials:     1,
		MinDepthLimit:  5,
	}).GenerateAll()
	if err == nil {
		t.Fatal("GenerateAll() should report the failed kinds")
	}

	// max complexity falls back; short expression and max nesting never fail
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
}

func TestExtreme_GenerateUnknownKind(t *testing.T) {
	if _, err := NewExtremeGenerator(arithmeticGrammar(t), pkg.NewSequence(), ExtremeOptions{}).Generate("widest"); err == nil {
		t.Fatal("expected an error for an unknown kind")
	}
}

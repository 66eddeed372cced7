package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	m "gramgen.dev/pkg/gramgen/internal/model"
	"gramgen.dev/pkg/gramgen/pkg"
)

func sumGrammarSource(t *testing.T) m.GrammarSource {
	t.Helper()

	s, id, plus := m.NonTerminal("S"), m.Terminal("id"), m.Terminal("+")

	return m.GrammarSource{
		Path:    "sum.cfg",
		Name:    "sum",
		Grammar: mustGrammar(t, m.NewProduction(s, id, plus, id)),
	}
}

func TestSuiteBuilder_CategoriesInOrder(t *testing.T) {
	result, err := NewSuiteBuilder(nil).Build(context.Background(), sumGrammarSource(t), SuiteOptions{
		Valid:    3,
		Invalid:  4,
		Extreme:  true,
		MaxDepth: 10,
		Seed:     7,
		SpillDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	suite := result.Suite

	if len(suite.Cases) != 13 {
		t.Fatalf("got %d cases, want 13", len(suite.Cases))
	}

	for i, tc := range suite.Cases {
		var want m.Category

		switch {
		case i < 3:
			want = m.CategoryValid
		case i < 7:
			want = m.CategoryInvalid
		default:
			want = m.CategoryExtreme
		}

		if tc.Category != want {
			t.Errorf("case %d category = %s, want %s", i, tc.Category, want)
		}

		if wantID := fmt.Sprintf("%s_%04d", map[m.Category]string{
			m.CategoryValid:   "VALID",
			m.CategoryInvalid: "INVALID",
			m.CategoryExtreme: "EXTREME",
		}[want], i+1); tc.ID != wantID {
			t.Errorf("case %d id = %s, want %s", i, tc.ID, wantID)
		}
	}

	if suite.Grammar != "sum" || suite.Seed != 7 || suite.RunID == "" {
		t.Errorf("unexpected suite header %+v", suite)
	}

	if len(suite.Trace) != 2 {
		t.Errorf("trace has %d steps, want 2", len(suite.Trace))
	}

	if result.Metrics.Total != 13 || result.Metrics.ByCategory[m.CategoryExtreme] != 6 {
		t.Errorf("metrics = %+v", result.Metrics)
	}
}

func TestSuiteBuilder_InvalidCasesMutateValidOnes(t *testing.T) {
	result, err := NewSuiteBuilder(nil).Build(context.Background(), sumGrammarSource(t), SuiteOptions{
		Valid:    2,
		Invalid:  5,
		Seed:     3,
		SpillDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, tc := range result.Suite.Cases {
		if tc.Category != m.CategoryInvalid {
			continue
		}

		if original, _ := tc.Metadata.Text(m.MetaOriginal); original != "id + id" {
			t.Errorf("%s original = %q, want a derived string", tc.ID, original)
		}
	}

	if result.Metrics.ByCategory[m.CategoryExtreme] != 0 {
		t.Error("extreme cases were generated while disabled")
	}
}

func TestSuiteBuilder_SameSeedSameSuite(t *testing.T) {
	build := func() m.Suite {
		result, err := NewSuiteBuilder(nil).Build(context.Background(), m.GrammarSource{
			Name:    "arith",
			Grammar: arithmeticGrammar(t),
		}, SuiteOptions{Valid: 8, Invalid: 8, Extreme: true, MaxDepth: 30, Seed: 1234, SpillDir: t.TempDir()})
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		return result.Suite
	}

	first, second := build(), build()

	if len(first.Cases) != len(second.Cases) {
		t.Fatalf("case counts differ: %d vs %d", len(first.Cases), len(second.Cases))
	}

	for i := range first.Cases {
		if first.Cases[i].Content != second.Cases[i].Content {
			t.Fatalf("case %d differs: %q vs %q", i, first.Cases[i].Content, second.Cases[i].Content)
		}
	}

	if first.RunID == second.RunID {
		t.Error("run ids should be unique per build")
	}
}

func TestSuiteBuilder_NonTerminatingGrammar(t *testing.T) {
	s, a := m.NonTerminal("S"), m.Terminal("a")

	result, err := NewSuiteBuilder(func(uint64) pkg.Rand { return pkg.NewSequence() }).Build(
		context.Background(),
		m.GrammarSource{Name: "loop", Grammar: mustGrammar(t, m.NewProduction(s, s, a))},
		SuiteOptions{Valid: 3, Invalid: 3, Extreme: true, MaxDepth: 5, SpillDir: t.TempDir()},
	)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if result.Metrics.ByCategory[m.CategoryValid] != 0 || result.Metrics.ByCategory[m.CategoryInvalid] != 0 {
		t.Errorf("metrics = %+v, want no valid or invalid cases", result.Metrics)
	}

	// max complexity fallback, short expression and max nesting
	if got := result.Metrics.ByCategory[m.CategoryExtreme]; got != 3 {
		t.Errorf("extreme cases = %d, want 3", got)
	}

	if len(result.Suite.Trace) != 0 {
		t.Error("trace should be empty without valid derivations")
	}
}

func TestSuiteBuilder_Errors(t *testing.T) {
	t.Run("missing grammar", func(t *testing.T) {
		_, err := NewSuiteBuilder(nil).Build(context.Background(), m.GrammarSource{Name: "none"}, SuiteOptions{})
		if !errors.Is(err, m.ErrInvalidGrammar) {
			t.Fatalf("error = %v, want ErrInvalidGrammar", err)
		}
	})

	t.Run("missing productions", func(t *testing.T) {
		s, x := m.NonTerminal("S"), m.NonTerminal("X")
		source := m.GrammarSource{Name: "broken", Grammar: mustGrammar(t, m.NewProduction(s, x))}

		_, err := NewSuiteBuilder(nil).Build(context.Background(), source, SuiteOptions{Valid: 1, SpillDir: t.TempDir()})
		if !errors.Is(err, ErrNoProductions) {
			t.Fatalf("error = %v, want ErrNoProductions", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewSuiteBuilder(nil).Build(ctx, sumGrammarSource(t), SuiteOptions{Valid: 1, SpillDir: t.TempDir()})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	})
}

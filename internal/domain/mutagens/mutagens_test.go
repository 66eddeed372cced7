package mutagens

import (
	"reflect"
	"strings"
	"testing"

	"gramgen.dev/pkg/gramgen/pkg"
)

func tokens(s string) []string {
	return Tokenize(s)
}

func TestUnbalancedParens(t *testing.T) {
	t.Run("removes a parenthesis", func(t *testing.T) {
		// picks the second paren, index 4
		out := UnbalancedParens(tokens("( id + id )"), pkg.NewSequence(1))

		if got := Join(out.Tokens); got != "( id + id" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("inserts unmatched paren when none exist", func(t *testing.T) {
		// paren choice 0 -> "(", position 3 -> end
		out := UnbalancedParens(tokens("id + id"), pkg.NewSequence(0, 3))

		if got := Join(out.Tokens); got != "id + id (" {
			t.Fatalf("got %q", got)
		}

		if !strings.Contains(out.Description, "unmatched") {
			t.Errorf("description %q should mention unmatched", out.Description)
		}
	})
}

func TestEmptyParens(t *testing.T) {
	out := EmptyParens(tokens("id + id"), pkg.NewSequence(1))

	if got := Join(out.Tokens); got != "id ( ) + id" {
		t.Fatalf("got %q", got)
	}
}

func TestDuplicateOperator(t *testing.T) {
	t.Run("duplicates in place", func(t *testing.T) {
		out := DuplicateOperator(tokens("id + id * id"), pkg.NewSequence(1))

		if got := Join(out.Tokens); got != "id + id * * id" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("falls back to inserting + +", func(t *testing.T) {
		out := DuplicateOperator(tokens("( id )"), pkg.NewSequence(0))

		if got := Join(out.Tokens); got != "+ + ( id )" {
			t.Fatalf("got %q", got)
		}
	})
}

func TestLeadingOperator(t *testing.T) {
	for i, op := range Operators {
		t.Run(op, func(t *testing.T) {
			out := LeadingOperator(tokens("id + id"), pkg.NewSequence(i))

			want := []string{op, "id", "+", "id"}
			if !reflect.DeepEqual(out.Tokens, want) {
				t.Fatalf("got %v, want %v", out.Tokens, want)
			}
		})
	}
}

func TestTrailingOperator(t *testing.T) {
	out := TrailingOperator(tokens("id"), pkg.NewSequence(3))

	if got := Join(out.Tokens); got != "id /" {
		t.Fatalf("got %q", got)
	}
}

func TestMissingOperator(t *testing.T) {
	t.Run("removes an operator", func(t *testing.T) {
		out := MissingOperator(tokens("id + id * id"), pkg.NewSequence(0))

		if got := Join(out.Tokens); got != "id id * id" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("no-op without operators", func(t *testing.T) {
		out := MissingOperator(tokens("( id )"), pkg.NewSequence(0))

		if got := Join(out.Tokens); got != "( id )" {
			t.Fatalf("got %q", got)
		}

		if !strings.Contains(out.Description, "no-op") {
			t.Errorf("description %q should mention no-op", out.Description)
		}
	})
}

func TestMissingOperand(t *testing.T) {
	t.Run("removes an identifier", func(t *testing.T) {
		out := MissingOperand(tokens("id + x"), pkg.NewSequence(1))

		if got := Join(out.Tokens); got != "id +" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("no-op without identifiers", func(t *testing.T) {
		out := MissingOperand(tokens("( + )"), pkg.NewSequence(0))

		if got := Join(out.Tokens); got != "( + )" {
			t.Fatalf("got %q", got)
		}
	})
}

func TestInvalidCharacter(t *testing.T) {
	out := InvalidCharacter(tokens("id + id"), pkg.NewSequence(0, 0))

	if got := Join(out.Tokens); got != "@ id + id" {
		t.Fatalf("got %q", got)
	}
}

func TestSplitToken(t *testing.T) {
	t.Run("splits a long token", func(t *testing.T) {
		// token index 2 ("id"), cut offset 1
		out := SplitToken(tokens("id + id"), pkg.NewSequence(2, 0))

		if got := Join(out.Tokens); got != "id + i d" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("no-op on single character token", func(t *testing.T) {
		out := SplitToken(tokens("id + id"), pkg.NewSequence(1))

		if got := Join(out.Tokens); got != "id + id" {
			t.Fatalf("got %q", got)
		}

		if !strings.Contains(out.Description, "no-op") {
			t.Errorf("description %q should mention no-op", out.Description)
		}
	})
}

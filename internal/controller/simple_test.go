package controller

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	m "gramgen.dev/pkg/gramgen/internal/model"
)

func newBufferedSimpleUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewSimpleUI(cmd), &buf
}

func TestSimpleUI_DisplaySuite(t *testing.T) {
	suite, metrics := testSuite()

	tests := []struct {
		name        string
		diffs       bool
		wantContain []string
		wantMissing []string
	}{
		{
			name:        "without diffs",
			wantContain: []string{"Suite run-1 for expr (seed 9)", "VALID_0001", "id + + id", "Saved out/expr.json", "Saved out/expr.yaml"},
			wantMissing: []string{"--- original"},
		},
		{
			name:        "with diffs",
			diffs:       true,
			wantContain: []string{"--- original", "+++ INVALID_0002"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, buf := newBufferedSimpleUI()
			ctx := context.Background()

			if err := ui.Start(ctx, WithGenerateMode(), WithDiffs(tt.diffs)); err != nil {
				t.Fatalf("Start() error = %v", err)
			}

			outputs := []m.Path{"out/expr.json", "out/expr.yaml"}
			if err := ui.DisplaySuite(ctx, suite, metrics, outputs); err != nil {
				t.Fatalf("DisplaySuite() error = %v", err)
			}

			ui.Wait(ctx)
			ui.Close(ctx)

			got := buf.String()
			for _, want := range tt.wantContain {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q, got:\n%s", want, got)
				}
			}

			for _, unwanted := range tt.wantMissing {
				if strings.Contains(got, unwanted) {
					t.Errorf("output should not contain %q", unwanted)
				}
			}
		})
	}
}

func TestSimpleUI_DisplayGrammarAndDerivation(t *testing.T) {
	ui, buf := newBufferedSimpleUI()
	ctx := context.Background()

	if err := ui.DisplayGrammar(ctx, testGrammarSource(t)); err != nil {
		t.Fatalf("DisplayGrammar() error = %v", err)
	}

	if err := ui.DisplayDerivation(ctx, "expr", testDerivation()); err != nil {
		t.Fatalf("DisplayDerivation() error = %v", err)
	}

	got := buf.String()
	for _, want := range []string{"Grammar expr (expr.cfg)", "Derivation in expr (1 steps)", "Expr -> id"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q, got:\n%s", want, got)
		}
	}
}

func TestSimpleUI_DisplayError(t *testing.T) {
	ui, buf := newBufferedSimpleUI()

	ui.DisplayError(context.Background(), "expr", errors.New("boom"))

	if got := buf.String(); !strings.Contains(got, "expr: boom") {
		t.Fatalf("output = %q", got)
	}
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	ui, buf := newBufferedSimpleUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ui.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Start() error = %v, want context.Canceled", err)
	}

	suite, metrics := testSuite()
	if err := ui.DisplaySuite(ctx, suite, metrics, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("DisplaySuite() error = %v, want context.Canceled", err)
	}

	ui.DisplayError(ctx, "expr", errors.New("ignored"))

	if buf.Len() != 0 {
		t.Errorf("nothing should be printed, got %q", buf.String())
	}
}

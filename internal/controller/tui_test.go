package controller

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTUI_PrintsSmallOutputOnWait(t *testing.T) {
	var buf bytes.Buffer

	tui := NewTUI(&buf)
	ctx := context.Background()

	if err := tui.Start(ctx, WithDeriveMode()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := tui.DisplayDerivation(ctx, "expr", testDerivation()); err != nil {
		t.Fatalf("DisplayDerivation() error = %v", err)
	}

	tui.DisplayError(ctx, "other", errors.New("boom"))

	if buf.Len() != 0 {
		t.Fatal("output should be buffered until Wait")
	}

	tui.Wait(ctx)
	tui.Close(ctx)

	got := buf.String()
	for _, want := range []string{"Derivation in expr (1 steps)", "Expr -> id", "other: boom"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q, got:\n%s", want, got)
		}
	}
}

func TestTUI_DisplaySuiteWithDiffs(t *testing.T) {
	var buf bytes.Buffer

	tui := NewTUI(&buf)
	ctx := context.Background()
	suite, metrics := testSuite()

	if err := tui.Start(ctx, WithGenerateMode(), WithDiffs(true)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := tui.DisplaySuite(ctx, suite, metrics, nil); err != nil {
		t.Fatalf("DisplaySuite() error = %v", err)
	}

	tui.Wait(ctx)

	got := buf.String()
	for _, want := range []string{"Suite for expr (seed 9)", "EXTREME_0003", "+++ INVALID_0002", "33.3%"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q, got:\n%s", want, got)
		}
	}
}

func TestPagerModel_NeedsPagination(t *testing.T) {
	content := strings.Repeat("line\n", 30)

	tests := []struct {
		name   string
		height int
		want   bool
	}{
		{"unknown terminal size", 0, false},
		{"tall terminal", 40, false},
		{"short terminal", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newPagerModel(content, 80, tt.height).needsPagination(); got != tt.want {
				t.Fatalf("needsPagination() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPagerModel_Update(t *testing.T) {
	content := strings.Repeat("line\n", 30) + "last"

	model := newPagerModel(content, 0, 0)
	if model.View() != content {
		t.Fatal("unsized pager should render the raw content")
	}

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	pm := updated.(pagerModel)

	if !pm.ready || pm.viewport.Height != 8 {
		t.Fatalf("viewport not sized: ready=%v height=%d", pm.ready, pm.viewport.Height)
	}

	updated, _ = pm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	pm = updated.(pagerModel)

	if !pm.viewport.AtBottom() {
		t.Error("G should jump to the bottom")
	}

	if !strings.Contains(pm.View(), "q quit") {
		t.Error("view should include the key help")
	}

	_, cmd := pm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}

	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

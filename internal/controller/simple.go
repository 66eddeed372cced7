package controller

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	m "gramgen.dev/pkg/gramgen/internal/model"
)

var categoryColors = map[m.Category]*color.Color{
	m.CategoryValid:   color.New(color.FgGreen, color.Bold),
	m.CategoryInvalid: color.New(color.FgRed, color.Bold),
	m.CategoryExtreme: color.New(color.FgYellow, color.Bold),
}

func colorLabel(c m.Category) string {
	if col, ok := categoryColors[c]; ok {
		return col.Sprint(string(c))
	}

	return string(c)
}

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd    *cobra.Command
	config StartConfig
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.config = newStartConfig(options)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayGrammar prints the productions and symbol sets of a grammar.
func (s *SimpleUI) DisplayGrammar(ctx context.Context, source m.GrammarSource) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Grammar %s (%s)\n\n%s\n", source.Name, source.Path, renderGrammarTable(source))

	return nil
}

// DisplayDerivation prints every step of a derivation.
func (s *SimpleUI) DisplayDerivation(ctx context.Context, grammar string, derivation m.Derivation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Derivation in %s (%d steps)\n\n%s", grammar, derivation.Depth(), renderTrace(derivation))

	return nil
}

// DisplaySuite prints the cases, the metrics and where the suite was saved.
func (s *SimpleUI) DisplaySuite(ctx context.Context, suite m.Suite, metrics m.SuiteMetrics, outputs []m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Suite %s for %s (seed %d)\n\n", suite.RunID, suite.Grammar, suite.Seed)
	s.printf("%s\n", renderCasesTable(suite.Cases, colorLabel))

	if s.config.showDiffs {
		for _, tc := range suite.Cases {
			if tc.Category != m.CategoryInvalid {
				continue
			}

			if diff := renderMutationDiff(tc); diff != "" {
				s.printf("%s\n", diff)
			}
		}
	}

	s.printf("%s", renderMetricsTable(metrics, colorLabel))

	for _, out := range outputs {
		s.printf("Saved %s\n", out)
	}

	s.printf("\n")

	return nil
}

// DisplayError reports a failure for one grammar.
func (s *SimpleUI) DisplayError(ctx context.Context, grammar string, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return
	}

	s.printf("%s %s: %v\n", categoryColors[m.CategoryInvalid].Sprint("error"), grammar, err)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

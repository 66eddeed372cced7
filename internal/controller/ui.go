// Package controller provides output adapters for displaying grammars,
// derivations and generated suites.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "gramgen.dev/pkg/gramgen/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeGenerate StartMode = iota
	ModeDerive
	ModeInspect
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode      StartMode
	showDiffs bool
}

// Mode returns the configured mode.
func (c StartConfig) Mode() StartMode {
	return c.mode
}

// WithGenerateMode sets the UI to suite generation mode.
func WithGenerateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeGenerate
	}
}

// WithDeriveMode sets the UI to single derivation mode.
func WithDeriveMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeDerive
	}
}

// WithInspectMode sets the UI to grammar inspection mode.
func WithInspectMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeInspect
	}
}

// WithDiffs shows an original-to-mutated diff for every invalid case.
func WithDiffs(enabled bool) StartOption {
	return func(c *StartConfig) {
		c.showDiffs = enabled
	}
}

func newStartConfig(options []StartOption) StartConfig {
	var cfg StartConfig
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI defines how workflow results are shown.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayGrammar(ctx context.Context, source m.GrammarSource) error
	DisplayDerivation(ctx context.Context, grammar string, derivation m.Derivation) error
	DisplaySuite(ctx context.Context, suite m.Suite, metrics m.SuiteMetrics, outputs []m.Path) error
	DisplayError(ctx context.Context, grammar string, err error)
}

// NewUI picks the interactive TUI for terminals and SimpleUI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

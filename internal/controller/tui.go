package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "gramgen.dev/pkg/gramgen/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	categoryStyles = map[m.Category]lipgloss.Style{
		m.CategoryValid:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		m.CategoryInvalid: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		m.CategoryExtreme: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

func styledLabel(c m.Category) string {
	if style, ok := categoryStyles[c]; ok {
		return style.Render(string(c))
	}

	return string(c)
}

// TUI implements UI using Bubble Tea. Output is collected while the workflow
// runs and shown on Wait, in a scrollable pager when it does not fit the
// terminal.
type TUI struct {
	output  io.Writer
	config  StartConfig
	mu      sync.Mutex
	content strings.Builder
	width   int
	height  int
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start initializes the UI.
func (p *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.config = newStartConfig(options)
	p.content.Reset()

	if f, ok := p.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			p.width = width
			p.height = height
		}
	}

	return nil
}

// Close finalizes the UI.
func (p *TUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.content.Reset()
}

// Wait shows the collected output and blocks until the pager is closed.
func (p *TUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.mu.Lock()
	content := p.content.String()
	p.mu.Unlock()

	model := newPagerModel(content, p.width, p.height)

	// If content is small, just print and exit
	if !model.needsPagination() {
		_, _ = fmt.Fprint(p.output, content)
		return
	}

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		_, _ = fmt.Fprint(p.output, content)
	}
}

// DisplayGrammar adds the grammar overview.
func (p *TUI) DisplayGrammar(ctx context.Context, source m.GrammarSource) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.write(titleStyle.Render(fmt.Sprintf("Grammar %s", source.Name)) + "\n\n" + renderGrammarTable(source) + "\n")

	return nil
}

// DisplayDerivation adds a derivation trace.
func (p *TUI) DisplayDerivation(ctx context.Context, grammar string, derivation m.Derivation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	title := titleStyle.Render(fmt.Sprintf("Derivation in %s (%d steps)", grammar, derivation.Depth()))
	p.write(title + "\n\n" + renderTrace(derivation) + "\n")

	return nil
}

// DisplaySuite adds the cases and metrics of a suite.
func (p *TUI) DisplaySuite(ctx context.Context, suite m.Suite, metrics m.SuiteMetrics, outputs []m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Suite for %s (seed %d)", suite.Grammar, suite.Seed)))
	b.WriteString("\n\n")
	b.WriteString(renderCasesTable(suite.Cases, styledLabel))
	b.WriteString("\n")

	if p.config.showDiffs {
		for _, tc := range suite.Cases {
			if tc.Category == m.CategoryInvalid {
				b.WriteString(renderMutationDiff(tc))
			}
		}

		b.WriteString("\n")
	}

	b.WriteString(renderMetricsTable(metrics, styledLabel))

	for _, out := range outputs {
		b.WriteString(footerStyle.Render(fmt.Sprintf("Saved %s", out)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	p.write(b.String())

	return nil
}

// DisplayError adds a failure for one grammar.
func (p *TUI) DisplayError(ctx context.Context, grammar string, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return
	}

	p.write(errorStyle.Render("error") + fmt.Sprintf(" %s: %v\n", grammar, err))
}

func (p *TUI) write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.content.WriteString(s)
}

const pagerChromeHeight = 2

// pagerModel is a read-only scrollable view over the collected output.
type pagerModel struct {
	content  string
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

func newPagerModel(content string, width, height int) pagerModel {
	pm := pagerModel{content: content, width: width, height: height}
	if width > 0 && height > pagerChromeHeight {
		pm.viewport = viewport.New(width, height-pagerChromeHeight)
		pm.viewport.SetContent(content)
		pm.ready = true
	}

	return pm
}

func (pm pagerModel) needsPagination() bool {
	if pm.height <= 0 {
		return false
	}

	return strings.Count(pm.content, "\n") > pm.height-pagerChromeHeight
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.width = msg.Width
		pm.height = msg.Height

		if !pm.ready {
			pm.viewport = viewport.New(msg.Width, msg.Height-pagerChromeHeight)
			pm.viewport.SetContent(pm.content)
			pm.ready = true
		} else {
			pm.viewport.Width = msg.Width
			pm.viewport.Height = msg.Height - pagerChromeHeight
		}

		return pm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return pm, tea.Quit
		case "g", "home":
			pm.viewport.GotoTop()
			return pm, nil
		case "G", "end":
			pm.viewport.GotoBottom()
			return pm, nil
		}
	}

	var cmd tea.Cmd
	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) View() string {
	if !pm.ready {
		return pm.content
	}

	footer := footerStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll • g/G top/bottom • q quit", pm.viewport.ScrollPercent()*100))

	return pm.viewport.View() + "\n\n" + footer
}

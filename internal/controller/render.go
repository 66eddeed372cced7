package controller

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"

	m "gramgen.dev/pkg/gramgen/internal/model"
)

// labeler decorates a category name for display.
type labeler func(m.Category) string

func plainLabel(c m.Category) string {
	return string(c)
}

func newTable(buf *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	// symbols are case sensitive, so headers and footers are printed verbatim
	table.SetAutoFormatHeaders(false)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	return table
}

func renderGrammarTable(source m.GrammarSource) string {
	var buf bytes.Buffer

	g := source.Grammar

	table := newTable(&buf, []string{"#", "Production"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for i, p := range g.Productions() {
		table.Append([]string{fmt.Sprintf("%d", i), p.String()})
	}

	table.SetFooter([]string{"Start", g.Start().Value})
	table.Render()

	fmt.Fprintf(&buf, "\nNonterminals: %s\n", symbolList(g.NonTerminals()))
	fmt.Fprintf(&buf, "Terminals:    %s\n", symbolList(g.Terminals()))

	if missing := g.MissingProductions(); len(missing) > 0 {
		fmt.Fprintf(&buf, "Without productions: %s\n", symbolList(missing))
	}

	return buf.String()
}

func symbolList(symbols []m.Symbol) string {
	values := make([]string, 0, len(symbols))
	for _, s := range symbols {
		values = append(values, s.Value)
	}

	return "{ " + strings.Join(values, ", ") + " }"
}

func renderTrace(derivation m.Derivation) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Step", "Production", "Sentential form"})

	for i, step := range derivation.Steps {
		production := ""
		if step.Production != nil {
			production = step.Production.String()
		}

		table.Append([]string{fmt.Sprintf("%d", i), production, m.FormString(step.Form)})
	}

	table.SetFooter([]string{"", "Result", derivation.Content})
	table.Render()

	return buf.String()
}

func renderCasesTable(cases []m.TestCase, label labeler) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"ID", "Category", "Content", "Description"})

	for _, tc := range cases {
		table.Append([]string{tc.ID, label(tc.Category), tc.Content, tc.Description})
	}

	table.Render()

	return buf.String()
}

func renderMetricsTable(metrics m.SuiteMetrics, label labeler) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Category", "Cases", "Share"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})

	for _, category := range m.AllCategories {
		table.Append([]string{
			label(category),
			fmt.Sprintf("%d", metrics.ByCategory[category]),
			fmt.Sprintf("%.1f%%", metrics.Percentages[category]),
		})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", metrics.Total), ""})
	table.Render()

	fmt.Fprintf(&buf, "\nLength min/avg/max: %d / %.1f / %d\n", metrics.MinLength, metrics.AverageLength, metrics.MaxLength)
	fmt.Fprintf(&buf, "Average tokens:     %.1f\n", metrics.AverageTokens)
	fmt.Fprintf(&buf, "Max nesting:        %d\n", metrics.MaxNesting)
	fmt.Fprintf(&buf, "Balanced parens:    %d/%d\n", metrics.BalancedCount, metrics.Total)
	fmt.Fprintf(&buf, "Operators:          %s\n", histogram(metrics.OperatorHistogram))

	return buf.String()
}

func histogram(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}

	return strings.Join(parts, " ")
}

// renderMutationDiff shows the token-level change made to an invalid case.
func renderMutationDiff(tc m.TestCase) string {
	original, ok := tc.Metadata.Text(m.MetaOriginal)
	if !ok {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        tokenLines(original),
		B:        tokenLines(tc.Content),
		FromFile: "original",
		ToFile:   tc.ID,
		Context:  1,
	})
	if err != nil {
		return ""
	}

	return diff + "metadata: " + renderMetadata(tc.Metadata) + "\n"
}

// renderMetadata prints metadata as key=value pairs in key order.
func renderMetadata(md m.Metadata) string {
	parts := make([]string, 0, len(md))

	for _, key := range md.Keys() {
		value := md[key]

		var text string

		switch value.Kind {
		case m.MetaInt:
			text = fmt.Sprintf("%d", value.Int)
		case m.MetaBool:
			text = fmt.Sprintf("%t", value.Bool)
		case m.MetaText:
			text = fmt.Sprintf("%q", value.Text)
		case m.MetaMap:
			text = "{" + histogram(value.Map) + "}"
		}

		parts = append(parts, key+"="+text)
	}

	return strings.Join(parts, " ")
}

func tokenLines(content string) []string {
	fields := strings.Fields(content)

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, f+"\n")
	}

	return lines
}

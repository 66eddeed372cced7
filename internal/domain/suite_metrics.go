package domain

import (
	"fmt"

	"fortio.org/safecast"

	"gramgen.dev/pkg/gramgen/internal/domain/mutagens"
	m "gramgen.dev/pkg/gramgen/internal/model"
	"gramgen.dev/pkg/gramgen/pkg"
)

// ComputeSuiteMetrics streams the stored cases once and aggregates them.
// An empty store yields zero lengths and zero percentages.
func ComputeSuiteMetrics(cases pkg.Spill[m.TestCase]) (m.SuiteMetrics, error) {
	metrics := m.SuiteMetrics{
		ByCategory:        make(map[m.Category]int, len(m.AllCategories)),
		Percentages:       make(map[m.Category]float64, len(m.AllCategories)),
		OperatorHistogram: make(map[string]int, len(mutagens.Operators)),
	}

	for _, category := range m.AllCategories {
		metrics.ByCategory[category] = 0
	}

	for _, op := range mutagens.Operators {
		metrics.OperatorHistogram[op] = 0
	}

	var totalLength, totalTokens int

	err := cases.Range(func(index uint64, tc m.TestCase) error {
		length, _ := tc.Metadata.Int(m.MetaLength)
		tokens, _ := tc.Metadata.Int(m.MetaTokenCount)

		if index == 0 || length < metrics.MinLength {
			metrics.MinLength = length
		}

		metrics.MaxLength = max(metrics.MaxLength, length)
		metrics.MaxNesting = max(metrics.MaxNesting, ScanContent(tc.Content).MaxNesting)

		if balanced, _ := tc.Metadata.Bool(m.MetaParensBalanced); balanced {
			metrics.BalancedCount++
		}

		if counts, ok := tc.Metadata.Map(m.MetaOperatorCounts); ok {
			for op, n := range counts {
				metrics.OperatorHistogram[op] += n
			}
		}

		metrics.ByCategory[tc.Category]++
		totalLength += length
		totalTokens += tokens

		return nil
	})
	if err != nil {
		return m.SuiteMetrics{}, err
	}

	total, err := safecast.Conv[int](cases.Len())
	if err != nil {
		return m.SuiteMetrics{}, fmt.Errorf("case count: %w", err)
	}

	metrics.Total = total
	if total == 0 {
		return metrics, nil
	}

	for category, n := range metrics.ByCategory {
		metrics.Percentages[category] = float64(n) * 100 / float64(total)
	}

	metrics.AverageLength = float64(totalLength) / float64(total)
	metrics.AverageTokens = float64(totalTokens) / float64(total)

	return metrics, nil
}

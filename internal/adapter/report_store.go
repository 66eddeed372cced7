package adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	m "gramgen.dev/pkg/gramgen/internal/model"
)

// Format is an export encoding for suites.
type Format string

// Supported formats. The value doubles as the file extension.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// AllFormats lists every supported format.
var AllFormats = []Format{FormatJSON, FormatYAML, FormatMsgpack}

// ErrUnknownFormat is returned for unsupported format names or extensions.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat maps a name such as "yml" or "JSON" to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// ReportStore persists generated suites.
type ReportStore interface {
	// SaveSuite writes <dir>/<grammar>.<format> and returns the path written.
	SaveSuite(dir m.Path, suite m.Suite, metrics m.SuiteMetrics, format Format) (m.Path, error)
	// LoadSuite reads a suite back; the format is taken from the extension.
	LoadSuite(path m.Path) (m.Suite, m.SuiteMetrics, error)
}

type suiteDocument struct {
	RunID     string          `json:"run_id" yaml:"run_id" msgpack:"run_id"`
	Grammar   string          `json:"grammar" yaml:"grammar" msgpack:"grammar"`
	Seed      uint64          `json:"seed" yaml:"seed" msgpack:"seed"`
	MaxDepth  int             `json:"max_depth" yaml:"max_depth" msgpack:"max_depth"`
	Metrics   metricsDocument `json:"metrics" yaml:"metrics" msgpack:"metrics"`
	TestCases []caseDocument  `json:"test_cases" yaml:"test_cases" msgpack:"test_cases"`
}

type caseDocument struct {
	ID          string         `json:"id" yaml:"id" msgpack:"id"`
	Content     string         `json:"content" yaml:"content" msgpack:"content"`
	Category    string         `json:"category" yaml:"category" msgpack:"category"`
	Description string         `json:"description" yaml:"description" msgpack:"description"`
	Metadata    map[string]any `json:"metadata" yaml:"metadata" msgpack:"metadata"`
}

type metricsDocument struct {
	Total             int                `json:"total" yaml:"total" msgpack:"total"`
	ByCategory        map[string]int     `json:"by_category" yaml:"by_category" msgpack:"by_category"`
	Percentages       map[string]float64 `json:"percentages" yaml:"percentages" msgpack:"percentages"`
	MinLength         int                `json:"min_length" yaml:"min_length" msgpack:"min_length"`
	MaxLength         int                `json:"max_length" yaml:"max_length" msgpack:"max_length"`
	AverageLength     float64            `json:"average_length" yaml:"average_length" msgpack:"average_length"`
	AverageTokens     float64            `json:"average_tokens" yaml:"average_tokens" msgpack:"average_tokens"`
	MaxNesting        int                `json:"max_nesting" yaml:"max_nesting" msgpack:"max_nesting"`
	BalancedCount     int                `json:"balanced_count" yaml:"balanced_count" msgpack:"balanced_count"`
	OperatorHistogram map[string]int     `json:"operator_histogram" yaml:"operator_histogram" msgpack:"operator_histogram"`
}

// LocalReportStore writes suites through a SourceFSAdapter.
type LocalReportStore struct {
	fs SourceFSAdapter
}

// NewReportStore creates a LocalReportStore.
func NewReportStore(fs SourceFSAdapter) *LocalReportStore {
	return &LocalReportStore{fs: fs}
}

// SaveSuite implements ReportStore.
func (s *LocalReportStore) SaveSuite(dir m.Path, suite m.Suite, metrics m.SuiteMetrics, format Format) (m.Path, error) {
	data, err := encodeSuite(newSuiteDocument(suite, metrics), format)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", suite.Grammar, err)
	}

	path := s.fs.JoinPath(string(dir), suite.Grammar+"."+string(format))
	if err := s.fs.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}

// LoadSuite implements ReportStore.
func (s *LocalReportStore) LoadSuite(path m.Path) (m.Suite, m.SuiteMetrics, error) {
	format, err := ParseFormat(filepath.Ext(string(path)))
	if err != nil {
		return m.Suite{}, m.SuiteMetrics{}, err
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return m.Suite{}, m.SuiteMetrics{}, fmt.Errorf("read %s: %w", path, err)
	}

	var doc suiteDocument
	if err := decodeSuite(data, format, &doc); err != nil {
		return m.Suite{}, m.SuiteMetrics{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return doc.toModel()
}

func encodeSuite(doc suiteDocument, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)

		if err := enc.Encode(doc); err != nil {
			return nil, err
		}

		if err := enc.Close(); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	case FormatMsgpack:
		var buf bytes.Buffer

		enc := msgpack.NewEncoder(&buf)
		enc.SetSortMapKeys(true)

		if err := enc.Encode(doc); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func decodeSuite(data []byte, format Format, doc *suiteDocument) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, doc)
	case FormatYAML:
		return yaml.Unmarshal(data, doc)
	case FormatMsgpack:
		return msgpack.NewDecoder(bytes.NewReader(data)).Decode(doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func newSuiteDocument(suite m.Suite, metrics m.SuiteMetrics) suiteDocument {
	doc := suiteDocument{
		RunID:     suite.RunID,
		Grammar:   suite.Grammar,
		Seed:      suite.Seed,
		MaxDepth:  suite.MaxDepth,
		TestCases: make([]caseDocument, 0, len(suite.Cases)),
		Metrics: metricsDocument{
			Total:             metrics.Total,
			ByCategory:        make(map[string]int, len(metrics.ByCategory)),
			Percentages:       make(map[string]float64, len(metrics.Percentages)),
			MinLength:         metrics.MinLength,
			MaxLength:         metrics.MaxLength,
			AverageLength:     metrics.AverageLength,
			AverageTokens:     metrics.AverageTokens,
			MaxNesting:        metrics.MaxNesting,
			BalancedCount:     metrics.BalancedCount,
			OperatorHistogram: metrics.OperatorHistogram,
		},
	}

	for category, n := range metrics.ByCategory {
		doc.Metrics.ByCategory[string(category)] = n
	}

	for category, pct := range metrics.Percentages {
		doc.Metrics.Percentages[string(category)] = pct
	}

	for _, tc := range suite.Cases {
		metadata := make(map[string]any, len(tc.Metadata))
		for key, value := range tc.Metadata {
			metadata[key] = value.Interface()
		}

		doc.TestCases = append(doc.TestCases, caseDocument{
			ID:          tc.ID,
			Content:     tc.Content,
			Category:    string(tc.Category),
			Description: tc.Description,
			Metadata:    metadata,
		})
	}

	return doc
}

func (doc suiteDocument) toModel() (m.Suite, m.SuiteMetrics, error) {
	suite := m.Suite{
		RunID:    doc.RunID,
		Grammar:  doc.Grammar,
		Seed:     doc.Seed,
		MaxDepth: doc.MaxDepth,
		Cases:    make([]m.TestCase, 0, len(doc.TestCases)),
	}

	for _, cd := range doc.TestCases {
		metadata := make(m.Metadata, len(cd.Metadata))

		keys := make([]string, 0, len(cd.Metadata))
		for key := range cd.Metadata {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		for _, key := range keys {
			value, err := metaValueOf(cd.Metadata[key])
			if err != nil {
				return m.Suite{}, m.SuiteMetrics{}, fmt.Errorf("case %s: metadata %q: %w", cd.ID, key, err)
			}

			metadata[key] = value
		}

		suite.Cases = append(suite.Cases, m.TestCase{
			ID:          cd.ID,
			Content:     cd.Content,
			Category:    m.Category(cd.Category),
			Description: cd.Description,
			Metadata:    metadata,
		})
	}

	metrics := m.SuiteMetrics{
		Total:             doc.Metrics.Total,
		ByCategory:        make(map[m.Category]int, len(doc.Metrics.ByCategory)),
		Percentages:       make(map[m.Category]float64, len(doc.Metrics.Percentages)),
		MinLength:         doc.Metrics.MinLength,
		MaxLength:         doc.Metrics.MaxLength,
		AverageLength:     doc.Metrics.AverageLength,
		AverageTokens:     doc.Metrics.AverageTokens,
		MaxNesting:        doc.Metrics.MaxNesting,
		BalancedCount:     doc.Metrics.BalancedCount,
		OperatorHistogram: doc.Metrics.OperatorHistogram,
	}

	for category, n := range doc.Metrics.ByCategory {
		metrics.ByCategory[m.Category(category)] = n
	}

	for category, pct := range doc.Metrics.Percentages {
		metrics.Percentages[m.Category(category)] = pct
	}

	return suite, metrics, nil
}

// metaValueOf restores a MetaValue from whatever the decoder produced.
// Numbers arrive as float64 from JSON, int from YAML and sized integers from
// msgpack.
func metaValueOf(v any) (m.MetaValue, error) {
	switch x := v.(type) {
	case bool:
		return m.BoolValue(x), nil
	case string:
		return m.TextValue(x), nil
	case map[string]any:
		out := make(map[string]int, len(x))

		for key, raw := range x {
			n, err := intOf(raw)
			if err != nil {
				return m.MetaValue{}, fmt.Errorf("key %q: %w", key, err)
			}

			out[key] = n
		}

		return m.MapValue(out), nil
	case map[string]int:
		return m.MapValue(x), nil
	default:
		n, err := intOf(v)
		if err != nil {
			return m.MetaValue{}, err
		}

		return m.IntValue(n), nil
	}
}

func intOf(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int8:
		return int(x), nil
	case int16:
		return int(x), nil
	case int32:
		return int(x), nil
	case int64:
		return safecast.Conv[int](x)
	case uint8:
		return int(x), nil
	case uint16:
		return int(x), nil
	case uint32:
		return safecast.Conv[int](x)
	case uint64:
		return safecast.Conv[int](x)
	case float32:
		return intOfFloat(float64(x))
	case float64:
		return intOfFloat(x)
	default:
		return 0, fmt.Errorf("unsupported metadata value %T", v)
	}
}

func intOfFloat(f float64) (int, error) {
	if f != math.Trunc(f) || f > math.MaxInt || f < math.MinInt {
		return 0, fmt.Errorf("metadata value %v is not an integer", f)
	}

	return int(f), nil
}

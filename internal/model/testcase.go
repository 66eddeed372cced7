package model

import (
	"maps"
	"sort"
)

// Category classifies a generated test case.
type Category string

const (
	// CategoryValid marks strings derived from the grammar.
	CategoryValid Category = "valid"
	// CategoryInvalid marks mutated strings expected to be rejected.
	CategoryInvalid Category = "invalid"
	// CategoryExtreme marks strings at structural limits.
	CategoryExtreme Category = "extreme"
)

// AllCategories lists the categories in report order.
var AllCategories = []Category{CategoryValid, CategoryInvalid, CategoryExtreme}

// MetaKind tags the variant held by a MetaValue.
type MetaKind int

// Available MetaKind values.
const (
	MetaInt MetaKind = iota
	MetaText
	MetaBool
	MetaMap
)

// MetaValue is a closed variant over integer, text, boolean and
// string-to-integer map values. Only the field matching Kind is meaningful.
type MetaValue struct {
	Kind MetaKind
	Int  int
	Text string
	Bool bool
	Map  map[string]int
}

// IntValue wraps an integer.
func IntValue(v int) MetaValue {
	return MetaValue{Kind: MetaInt, Int: v}
}

// TextValue wraps a string.
func TextValue(v string) MetaValue {
	return MetaValue{Kind: MetaText, Text: v}
}

// BoolValue wraps a boolean.
func BoolValue(v bool) MetaValue {
	return MetaValue{Kind: MetaBool, Bool: v}
}

// MapValue wraps a copy of an integer map.
func MapValue(v map[string]int) MetaValue {
	return MetaValue{Kind: MetaMap, Map: maps.Clone(v)}
}

// Interface returns the wrapped value as a plain Go value for encoders.
func (v MetaValue) Interface() any {
	switch v.Kind {
	case MetaInt:
		return v.Int
	case MetaText:
		return v.Text
	case MetaBool:
		return v.Bool
	case MetaMap:
		return maps.Clone(v.Map)
	default:
		return nil
	}
}

// Metadata keys set on every test case.
const (
	MetaLength          = "length"
	MetaTokenCount      = "token_count"
	MetaOpenParens      = "open_parens"
	MetaCloseParens     = "close_parens"
	MetaParensBalanced  = "parens_balanced"
	MetaOperatorCounts  = "operator_counts"
	MetaOperatorCount   = "operator_count"
	MetaIdentifierCount = "identifier_count"
)

// Category-specific metadata keys.
const (
	MetaDerivationSteps = "derivation_steps"
	MetaMutationType    = "mutation_type"
	MetaOriginal        = "original"
	MetaExtremeType     = "extreme_type"
	MetaMetric          = "metric"
	MetaMetricValue     = "metric_value"
	MetaNestingDepth    = "nesting_depth"
)

// Metadata maps keys to typed values.
type Metadata map[string]MetaValue

// Keys returns the metadata keys sorted.
func (md Metadata) Keys() []string {
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Int returns the integer stored under key, if any.
func (md Metadata) Int(key string) (int, bool) {
	v, ok := md[key]
	if !ok || v.Kind != MetaInt {
		return 0, false
	}

	return v.Int, true
}

// Bool returns the boolean stored under key, if any.
func (md Metadata) Bool(key string) (bool, bool) {
	v, ok := md[key]
	if !ok || v.Kind != MetaBool {
		return false, false
	}

	return v.Bool, true
}

// Text returns the string stored under key, if any.
func (md Metadata) Text(key string) (string, bool) {
	v, ok := md[key]
	if !ok || v.Kind != MetaText {
		return "", false
	}

	return v.Text, true
}

// Map returns the map stored under key, if any.
func (md Metadata) Map(key string) (map[string]int, bool) {
	v, ok := md[key]
	if !ok || v.Kind != MetaMap {
		return nil, false
	}

	return v.Map, true
}

// TestCase is a labeled generated string.
type TestCase struct {
	ID          string
	Content     string
	Category    Category
	Description string
	Metadata    Metadata
}

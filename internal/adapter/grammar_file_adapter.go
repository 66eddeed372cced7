package adapter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	m "gramgen.dev/pkg/gramgen/internal/model"
)

// ErrMalformedInput is the sentinel wrapped by every MalformedInputError.
var ErrMalformedInput = errors.New("malformed grammar input")

// MalformedInputError reports a grammar file line that could not be parsed.
// Line is 1-based; 0 means the error concerns the whole file.
type MalformedInputError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Line == 0 {
		return e.Reason
	}

	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Unwrap allows errors.Is(err, ErrMalformedInput).
func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}

// Spellings accepted for an empty right side.
var epsilonSpellings = map[string]struct{}{
	m.EmptyString: {},
	"epsilon":     {},
	"lambda":      {},
}

// GrammarAdapter turns grammar files into validated grammars.
//
// File format: one rule per line, "LHS -> S1 S2 | S3 ...". Blank lines and
// text after "#" are ignored. The first left side is the start symbol.
// Tokens that are a single uppercase letter or PascalCase are NonTerminals,
// everything else is a Terminal.
type GrammarAdapter interface {
	Parse(name string, data []byte) (*m.Grammar, error)
	Load(path m.Path) (m.GrammarSource, error)
}

// LocalGrammarAdapter reads grammar files through a SourceFSAdapter.
type LocalGrammarAdapter struct {
	fs SourceFSAdapter
}

// NewLocalGrammarAdapter creates a LocalGrammarAdapter.
func NewLocalGrammarAdapter(fs SourceFSAdapter) *LocalGrammarAdapter {
	return &LocalGrammarAdapter{fs: fs}
}

// Load reads and parses the grammar file at path. The grammar is named after
// the file without its extension.
func (a *LocalGrammarAdapter) Load(path m.Path) (m.GrammarSource, error) {
	data, err := a.fs.ReadFile(path)
	if err != nil {
		return m.GrammarSource{}, fmt.Errorf("read grammar %s: %w", path, err)
	}

	name := GrammarName(path)

	grammar, err := a.Parse(name, data)
	if err != nil {
		return m.GrammarSource{}, fmt.Errorf("parse grammar %s: %w", path, err)
	}

	return m.GrammarSource{Path: path, Name: name, Grammar: grammar}, nil
}

// Parse builds a grammar from file contents. name is only used for errors.
func (a *LocalGrammarAdapter) Parse(name string, data []byte) (*m.Grammar, error) {
	var (
		productions []m.Production
		order       []m.Symbol
		start       m.Symbol
		seen        = make(map[m.Symbol]struct{})
	)

	declare := func(sym m.Symbol) {
		if _, ok := seen[sym]; ok {
			return
		}

		seen[sym] = struct{}{}
		order = append(order, sym)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		text := scanner.Text()

		line := text
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		left, right, err := splitRule(line)
		if err != nil {
			return nil, &MalformedInputError{Line: lineNo, Text: text, Reason: err.Error()}
		}

		lhs := m.NonTerminal(left)
		if len(productions) == 0 {
			start = lhs
		}

		declare(lhs)

		for _, alternative := range strings.Split(right, "|") {
			rhs, err := parseAlternative(alternative)
			if err != nil {
				return nil, &MalformedInputError{Line: lineNo, Text: text, Reason: err.Error()}
			}

			for _, sym := range rhs {
				declare(sym)
			}

			productions = append(productions, m.NewProduction(lhs, rhs...))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}

	if len(productions) == 0 {
		return nil, &MalformedInputError{Reason: fmt.Sprintf("%s: no productions", name)}
	}

	var nonTerminals, terminals []m.Symbol

	for _, sym := range order {
		if sym.IsNonTerminal() {
			nonTerminals = append(nonTerminals, sym)
		} else {
			terminals = append(terminals, sym)
		}
	}

	return m.NewGrammar(nonTerminals, terminals, productions, start)
}

func splitRule(line string) (string, string, error) {
	arrow := "->"
	if !strings.Contains(line, arrow) {
		arrow = "→"
	}

	left, right, ok := strings.Cut(line, arrow)
	if !ok {
		return "", "", errors.New(`missing "->"`)
	}

	fields := strings.Fields(left)
	if len(fields) != 1 {
		return "", "", errors.New("left side must be exactly one symbol")
	}

	if !IsNonTerminalName(fields[0]) {
		return "", "", fmt.Errorf("left side %q is not a nonterminal name", fields[0])
	}

	return fields[0], right, nil
}

func parseAlternative(alternative string) ([]m.Symbol, error) {
	fields := strings.Fields(alternative)

	if len(fields) == 1 {
		if _, ok := epsilonSpellings[strings.ToLower(fields[0])]; ok {
			return nil, nil
		}
	}

	symbols := make([]m.Symbol, 0, len(fields))

	for _, field := range fields {
		if _, ok := epsilonSpellings[strings.ToLower(field)]; ok {
			return nil, fmt.Errorf("%q must be the only symbol of an alternative", field)
		}

		if IsNonTerminalName(field) {
			symbols = append(symbols, m.NonTerminal(field))
		} else {
			symbols = append(symbols, m.Terminal(field))
		}
	}

	return symbols, nil
}

// IsNonTerminalName reports whether token names a NonTerminal: a single
// uppercase letter or a PascalCase word, optionally followed by primes (E').
func IsNonTerminalName(token string) bool {
	token = strings.TrimRight(token, "'")
	if token == "" {
		return false
	}

	first, size := utf8.DecodeRuneInString(token)
	if !unicode.IsUpper(first) {
		return false
	}

	rest := token[size:]
	if rest == "" {
		return true
	}

	hasLower := false

	for _, r := range rest {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r), unicode.IsDigit(r), r == '_':
		default:
			return false
		}
	}

	return hasLower
}

// GrammarName derives a grammar name from its file path.
func GrammarName(path m.Path) string {
	base := filepath.Base(string(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

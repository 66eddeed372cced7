package model

// Path represents a file system path.
type Path string

// GrammarSource is a grammar file loaded from disk together with its parsed
// form.
type GrammarSource struct {
	Path    Path
	Name    string
	Grammar *Grammar
}

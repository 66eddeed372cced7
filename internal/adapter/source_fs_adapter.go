// Package adapter contains filesystem, grammar and report adapters for the
// gramgen CLI.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	m "gramgen.dev/pkg/gramgen/internal/model"
)

// GrammarExtensions lists the file extensions picked up when a directory is
// given instead of a file.
var GrammarExtensions = []string{".cfg", ".grammar", ".gram"}

// SourceFSAdapter abstracts filesystem access so the workflow can be tested
// without touching the disk.
type SourceFSAdapter interface {
	// Resolve expands paths into grammar files. A directory contributes its
	// grammar files; "dir/..." descends recursively. Files are returned
	// as given, in order, without duplicates.
	Resolve(paths []m.Path) ([]m.Path, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to path, creating parent directories.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Resolve implements SourceFSAdapter.
func (a *LocalSourceFSAdapter) Resolve(paths []m.Path) ([]m.Path, error) {
	var resolved []m.Path

	seen := make(map[string]struct{})
	add := func(path string) {
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			return
		}

		seen[clean] = struct{}{}
		resolved = append(resolved, m.Path(clean))
	}

	for _, p := range paths {
		root := string(p)

		recursive := false
		if trimmed, ok := strings.CutSuffix(root, "..."); ok {
			recursive = true
			root = filepath.Clean(trimmed)
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("grammar path %s: %w", p, err)
		}

		if !info.IsDir() {
			add(root)
			continue
		}

		files, err := a.walk(root, recursive)
		if err != nil {
			return nil, err
		}

		for _, file := range files {
			add(file)
		}
	}

	return resolved, nil
}

func (a *LocalSourceFSAdapter) walk(root string, recursive bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if !recursive && path != root {
				return filepath.SkipDir
			}

			return nil
		}

		if slices.Contains(GrammarExtensions, filepath.Ext(path)) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	slices.Sort(files)

	return files, nil
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	// #nosec G304 - grammar paths are supplied by the user on purpose
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

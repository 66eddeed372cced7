// Package pkg provides utilities shared by gramgen packages.
package pkg

import (
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// ErrSpillClosed is returned when appending to a closed spill.
var ErrSpillClosed = errors.New("spill is closed")

// Spill is an append-only store that keeps items of type T in a gob-encoded
// temporary file instead of memory.
type Spill[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	AppendBatch(items []T) error
	Range(f func(index uint64, item T) error) error
	Collect() ([]T, error)
	Close() error
}

type fileSpill[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
	closed  bool
}

// NewSpill creates a spill file in dir. An empty dir means os.TempDir().
func NewSpill[T any](dir string) (Spill[T], error) {
	if dir == "" {
		dir = os.TempDir()
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		slog.Error("failed to create spill directory", "path", dir, "error", err)
		return nil, fmt.Errorf("failed to create spill directory: %w", err)
	}

	file, err := os.CreateTemp(dir, "gramgen-spill-*.gob")
	if err != nil {
		slog.Error("failed to create spill file", "path", dir, "error", err)
		return nil, fmt.Errorf("failed to create spill file: %w", err)
	}

	slog.Debug("created spill", "path", file.Name())

	return &fileSpill[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

func (s *fileSpill[T]) Path() string {
	return s.path
}

func (s *fileSpill[T]) Len() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.length
}

func (s *fileSpill[T]) Append(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSpillClosed
	}

	if err := s.encoder.Encode(item); err != nil {
		slog.Error("failed to encode item", "path", s.path, "index", s.length, "error", err)
		return fmt.Errorf("failed to encode item: %w", err)
	}

	s.length++

	return nil
}

func (s *fileSpill[T]) AppendBatch(items []T) error {
	for _, item := range items {
		if err := s.Append(item); err != nil {
			return err
		}
	}

	return nil
}

// Range decodes items in append order. Each item is decoded into a fresh
// value so maps and slices never carry state over from the previous item.
func (s *fileSpill[T]) Range(fn func(index uint64, item T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSpillClosed
	}

	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open spill: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close spill reader", "path", s.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	for i := range s.length {
		var item T
		if err := decoder.Decode(&item); err != nil {
			return fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	return nil
}

func (s *fileSpill[T]) Collect() ([]T, error) {
	items := make([]T, 0, s.Len())

	err := s.Range(func(_ uint64, item T) error {
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Close closes and removes the backing file. Closing twice is a no-op.
func (s *fileSpill[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	if err := s.file.Close(); err != nil {
		slog.Error("failed to close spill", "path", s.path, "error", err)
		return err
	}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove spill: %w", err)
	}

	slog.Debug("closed spill", "path", s.path, "length", s.length)

	return nil
}

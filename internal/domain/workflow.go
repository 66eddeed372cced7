package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fortio.org/safecast"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"gramgen.dev/pkg/gramgen/internal/adapter"
	"gramgen.dev/pkg/gramgen/internal/controller"
	m "gramgen.dev/pkg/gramgen/internal/model"
	"gramgen.dev/pkg/gramgen/pkg"
)

var (
	// ErrNoGrammars is returned when the given paths contain no grammar files.
	ErrNoGrammars = errors.New("no grammar files found")
	// ErrDuplicateGrammarName is returned when two grammar files would write
	// their suites to the same output file.
	ErrDuplicateGrammarName = errors.New("duplicate grammar name")
)

// GenerateArgs contains the arguments for building suites.
type GenerateArgs struct {
	Paths   []m.Path
	Output  m.Path
	Formats []adapter.Format
	// Suite is applied to every grammar; grammar i is seeded with Seed+i.
	Suite    SuiteOptions
	Parallel int
	Diffs    bool
}

// DeriveArgs contains the arguments for a single traced derivation.
type DeriveArgs struct {
	Path     m.Path
	MaxDepth int
	Seed     uint64
}

// InspectArgs contains the arguments for showing grammars.
type InspectArgs struct {
	Paths []m.Path
}

// Workflow drives the CLI commands.
type Workflow interface {
	Generate(ctx context.Context, args GenerateArgs) error
	Derive(ctx context.Context, args DeriveArgs) error
	Inspect(ctx context.Context, args InspectArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.GrammarAdapter
	adapter.ReportStore
	controller.UI
	SuiteBuilder

	uiMu sync.Mutex
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	grammarAdapter adapter.GrammarAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	builder SuiteBuilder,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		GrammarAdapter:  grammarAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		SuiteBuilder:    builder,
	}
}

func (w *workflow) Generate(ctx context.Context, args GenerateArgs) error {
	paths, err := w.resolve(args.Paths)
	if err != nil {
		return err
	}

	if err := checkGrammarNames(paths); err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithGenerateMode(), controller.WithDiffs(args.Diffs)); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	if args.Parallel > 0 {
		group.SetLimit(args.Parallel)
	}

	var (
		errs   []error
		errsMu sync.Mutex
	)

	for i, path := range paths {
		group.Go(func() error {
			if err := w.generateOne(groupCtx, i, path, args); err != nil {
				w.withUI(func() { w.DisplayError(groupCtx, string(path), err) })

				errsMu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				errsMu.Unlock()
			}

			return nil
		})
	}

	_ = group.Wait()

	w.Wait(ctx)
	w.Close(ctx)

	if err := ctx.Err(); err != nil {
		return err
	}

	return errors.Join(errs...)
}

func (w *workflow) generateOne(ctx context.Context, index int, path m.Path, args GenerateArgs) error {
	source, err := w.Load(path)
	if err != nil {
		return err
	}

	offset, err := safecast.Conv[uint64](index)
	if err != nil {
		return fmt.Errorf("seed offset: %w", err)
	}

	opts := args.Suite
	opts.Seed += offset

	result, err := w.Build(ctx, source, opts)
	if err != nil {
		return fmt.Errorf("build suite: %w", err)
	}

	outputs := make([]m.Path, 0, len(args.Formats))

	for _, format := range args.Formats {
		out, err := w.SaveSuite(args.Output, result.Suite, result.Metrics, format)
		if err != nil {
			return fmt.Errorf("save suite: %w", err)
		}

		slog.Info("saved suite", "grammar", source.Name, "path", out)
		outputs = append(outputs, out)
	}

	var displayErr error

	w.withUI(func() {
		displayErr = w.DisplaySuite(ctx, result.Suite, result.Metrics, outputs)
	})

	return displayErr
}

func (w *workflow) Derive(ctx context.Context, args DeriveArgs) error {
	source, err := w.Load(args.Path)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithDeriveMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.Close(ctx)

	derivation, err := NewDeriver(source.Grammar, pkg.NewRand(args.Seed), args.MaxDepth).Derive()
	if err != nil {
		w.DisplayError(ctx, source.Name, err)
		w.Wait(ctx)

		return fmt.Errorf("derive %s: %w", source.Name, err)
	}

	if err := w.DisplayDerivation(ctx, source.Name, derivation); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

func (w *workflow) Inspect(ctx context.Context, args InspectArgs) error {
	paths, err := w.resolve(args.Paths)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithInspectMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.Close(ctx)

	var errs []error

	for _, path := range paths {
		source, err := w.Load(path)
		if err != nil {
			w.DisplayError(ctx, string(path), err)
			errs = append(errs, err)

			continue
		}

		if err := w.DisplayGrammar(ctx, source); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}

	w.Wait(ctx)

	return errors.Join(errs...)
}

func (w *workflow) resolve(paths []m.Path) ([]m.Path, error) {
	if len(paths) == 0 {
		paths = []m.Path{"."}
	}

	resolved, err := w.Resolve(paths)
	if err != nil {
		return nil, fmt.Errorf("resolve grammars: %w", err)
	}

	if len(resolved) == 0 {
		return nil, ErrNoGrammars
	}

	return resolved, nil
}

// checkGrammarNames rejects paths whose suites would share an output file.
func checkGrammarNames(paths []m.Path) error {
	byName := lo.GroupBy(paths, adapter.GrammarName)

	var errs []error

	for _, path := range paths {
		name := adapter.GrammarName(path)

		clashes := byName[name]
		if len(clashes) < 2 || clashes[0] != path {
			continue
		}

		errs = append(errs, fmt.Errorf("%w %q: %v", ErrDuplicateGrammarName, name, clashes))
	}

	return errors.Join(errs...)
}

// withUI serializes UI calls made from generation goroutines.
func (w *workflow) withUI(fn func()) {
	w.uiMu.Lock()
	defer w.uiMu.Unlock()

	fn()
}

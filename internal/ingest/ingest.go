// Package ingest loads the note corpus: listing, parallel parsing, and a
// single batch handoff to the repository.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/starford/berkano/internal/frontmatter"
	"github.com/starford/berkano/internal/garden"
	"github.com/starford/berkano/internal/storage"
)

// Load reads and parses every note under the content root. Parsing runs
// concurrently across files (the parser is pure); per-file failures become
// diagnostics and the file is skipped, so one bad note never sinks the run.
// The returned batch is ordered by path, making duplicate resolution and
// downstream builds deterministic.
func Load(ctx context.Context, store *storage.FS, logger *slog.Logger) ([]garden.Note, []garden.Diagnostic, error) {
	paths, err := store.List("")
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: list content: %w", err)
	}

	// One slot per file: no shared mutable state between workers.
	results := make([]*garden.Note, len(paths))
	failures := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := store.Read(path)
			if err != nil {
				failures[i] = err
				return nil
			}
			doc, err := frontmatter.Parse(path, data)
			if err != nil {
				failures[i] = err
				return nil
			}
			n := garden.NewNote(path, doc)
			results[i] = &n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("ingest: %w", err)
	}

	var (
		notes []garden.Note
		diags []garden.Diagnostic
	)
	for i, path := range paths {
		if failures[i] != nil {
			diags = append(diags, garden.Diagnostic{Path: path, Err: failures[i]})
			logger.Warn("ingest: skipping note",
				slog.String("path", path),
				slog.String("error", failures[i].Error()))
			continue
		}
		notes = append(notes, *results[i])
		logger.Debug("ingest: loaded note", slog.String("path", path))
	}

	return notes, diags, nil
}

// BuildRepository is the batch construction step: the repository goes from
// empty to fully populated in one call, and duplicate-id diagnostics are
// merged with the ingest diagnostics.
func BuildRepository(notes []garden.Note, diags []garden.Diagnostic, logger *slog.Logger) (*garden.Repository, []garden.Diagnostic) {
	repo, dupDiags := garden.NewRepository(notes)
	for _, d := range dupDiags {
		logger.Warn("ingest: duplicate note id",
			slog.String("path", d.Path),
			slog.String("error", d.Err.Error()))
	}
	return repo, append(diags, dupDiags...)
}

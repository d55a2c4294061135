// Package ingest loads subject and reference listing files into tables.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/rentcomp/internal/table"
)

const defaultWorkers = 4

// Options configures file loading.
type Options struct {
	Parse   table.ParseOptions
	Sheet   string // xlsx worksheet; empty means the first sheet
	Workers int    // concurrent reference loads; <= 0 uses 4
}

// LoadFile reads one listing file. Workbooks (.xlsx) are read through their
// worksheet cells; every other file is parsed as delimited text.
func LoadFile(path string, opts Options) (*table.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		records, err := readXLSX(path, opts.Sheet)
		if err != nil {
			return nil, err
		}
		t, err := table.FromRecords(records)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: %s", path)
		}
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read file")
	}
	t, err := table.Parse(string(data), opts.Parse)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: %s", path)
	}
	return t, nil
}

// LoadReferences loads every reference file concurrently and concatenates
// them in argument order. Files with no content are skipped with a warning.
func LoadReferences(ctx context.Context, paths []string, opts Options) (*table.Table, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	tables := make([]*table.Table, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			t, err := LoadFile(path, opts)
			if eris.Is(err, table.ErrEmptyInput) {
				zap.L().Warn("skipping empty reference file", zap.String("path", path))
				return nil
			}
			if err != nil {
				return err
			}

			zap.L().Debug("loaded reference file",
				zap.String("path", path),
				zap.Int("rows", t.Len()),
			)
			tables[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "ingest: load references")
	}

	return table.Concat(tables...), nil
}

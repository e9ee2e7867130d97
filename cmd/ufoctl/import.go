package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/ufo-sightings/internal/adapter/csvfile"
	"github.com/couchcryptid/ufo-sightings/internal/adapter/sqlite"
	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/couchcryptid/ufo-sightings/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	importCSV   string
	importDB    string
	importBatch int
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a CSV export into the sightings store",
		Args:  cobra.NoArgs,
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importCSV, "csv", "", "path to the scrubbed CSV export")
	cmd.Flags().StringVar(&importDB, "db", defaultDBPath, "path to the SQLite store (created if missing)")
	cmd.Flags().IntVar(&importBatch, "batch", defaultBatchSize, "rows per insert transaction")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func runImportCmd(cmd *cobra.Command, _ []string) error {
	if importBatch <= 0 {
		return fmt.Errorf("--batch must be positive, got %d", importBatch)
	}
	logger := newLogger()
	ctx := cmd.Context()

	f, err := os.Open(importCSV)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	store, err := sqlite.OpenWritable(ctx, importDB, newMetrics())
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := importRecords(ctx, f, pipeline.NewTransformer(nil, logger), store, importBatch, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d sightings into %s (%d rows skipped)\n", stats.loaded, importDB, stats.skipped)
	return nil
}

type recordTransformer interface {
	TransformRecord(ctx context.Context, rec domain.RawSightingRecord) (domain.Sighting, error)
}

type importStats struct {
	loaded  int
	skipped int
}

// importRecords streams the export through the transformer and loads it in
// batches. Rows that fail to parse are logged and skipped.
func importRecords(
	ctx context.Context,
	r io.Reader,
	transformer recordTransformer,
	loader pipeline.BatchLoader,
	batchSize int,
	logger *slog.Logger,
) (importStats, error) {
	reader, err := csvfile.NewReader(r)
	if err != nil {
		return importStats{}, err
	}

	var stats importStats
	batch := make([]domain.Sighting, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := loader.LoadBatch(ctx, batch); err != nil {
			return fmt.Errorf("load rows ending at line %d: %w", reader.Line(), err)
		}
		stats.loaded += len(batch)
		logger.Debug("batch loaded", "size", len(batch), "line", reader.Line())
		batch = batch[:0]
		return nil
	}

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		s, err := transformer.TransformRecord(ctx, rec)
		if err != nil {
			stats.skipped++
			logger.Warn("skipping row", "line", reader.Line(), "error", err)
			continue
		}
		batch = append(batch, s)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	return stats, flush()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/couchcryptid/ufo-sightings/internal/adapter/csvfile"
	"github.com/couchcryptid/ufo-sightings/internal/adapter/kafka"
	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/spf13/cobra"
)

var (
	publishCSV     string
	publishBrokers []string
	publishTopic   string
	publishBatch   int
)

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a CSV export to the raw sightings topic",
		Args:  cobra.NoArgs,
		RunE:  runPublishCmd,
	}
	cmd.Flags().StringVar(&publishCSV, "csv", "", "path to the scrubbed CSV export")
	cmd.Flags().StringSliceVar(&publishBrokers, "brokers", []string{"localhost:9092"}, "Kafka bootstrap brokers")
	cmd.Flags().StringVar(&publishTopic, "topic", defaultTopic, "destination topic")
	cmd.Flags().IntVar(&publishBatch, "batch", defaultBatchSize, "records per produce call")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func runPublishCmd(cmd *cobra.Command, _ []string) error {
	if publishBatch <= 0 {
		return fmt.Errorf("--batch must be positive, got %d", publishBatch)
	}
	logger := newLogger()

	f, err := os.Open(publishCSV)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	publisher := kafka.NewPublisher(publishBrokers, publishTopic, filepath.Base(publishCSV), logger)
	defer publisher.Close()

	n, err := publishRecords(cmd.Context(), f, publisher, publishBatch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "published %d records to %s\n", n, publishTopic)
	return nil
}

type recordPublisher interface {
	PublishBatch(ctx context.Context, records []domain.RawSightingRecord) error
}

// publishRecords sends every CSV row unchanged; parsing happens in the ingest
// pipeline so malformed rows surface there.
func publishRecords(ctx context.Context, r io.Reader, publisher recordPublisher, batchSize int) (int, error) {
	reader, err := csvfile.NewReader(r)
	if err != nil {
		return 0, err
	}

	var sent int
	batch := make([]domain.RawSightingRecord, 0, batchSize)
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sent, err
		}
		batch = append(batch, rec)
		if len(batch) == batchSize {
			if err := publisher.PublishBatch(ctx, batch); err != nil {
				return sent, err
			}
			sent += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := publisher.PublishBatch(ctx, batch); err != nil {
			return sent, err
		}
		sent += len(batch)
	}
	return sent, nil
}

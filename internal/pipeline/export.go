package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go-bi-stack/internal/blob"
	"go-bi-stack/internal/model"
	"go-bi-stack/pkg/utils"

	"github.com/google/uuid"
)

// Write serializes records to w. JSON output is an indented array and an
// empty input writes "[]". CSV takes its header from the first record's
// field order. CSV and Parquet refuse an empty input.
func Write(w io.Writer, records []*model.Record, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, records)
	case FormatCSV:
		if len(records) == 0 {
			return fmt.Errorf("%w: nothing to write as csv", model.ErrEmptyDataset)
		}
		return writeCSV(w, records)
	case FormatParquet:
		if len(records) == 0 {
			return fmt.Errorf("%w: nothing to write as parquet", model.ErrEmptyDataset)
		}
		return writeParquet(w, records[0].Keys(), records)
	}
	return fmt.Errorf("%w: %q", model.ErrUnsupportedFormat, format)
}

func writeJSON(w io.Writer, records []*model.Record) error {
	if records == nil {
		records = []*model.Record{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, records []*model.Record) error {
	writer := csv.NewWriter(w)
	header := records[0].Keys()
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(header))
	for i, rec := range records {
		for j, key := range header {
			row[j] = model.FormatValue(rec.Value(key))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ------------------- Export to blob store -------------------

// ExportManager writes serialized batches to the blob store under generated
// file names.
type ExportManager struct {
	store  blob.Store
	names  *utils.OutputManager
	logger *slog.Logger
	now    func() time.Time
}

// NewExportManager returns an export manager over store.
func NewExportManager(store blob.Store, names *utils.OutputManager, logger *slog.Logger) *ExportManager {
	if names == nil {
		names = utils.NewOutputManager("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportManager{store: store, names: names, logger: logger, now: time.Now}
}

// Store returns the underlying blob store.
func (em *ExportManager) Store() blob.Store { return em.store }

// Names returns the file naming helper.
func (em *ExportManager) Names() *utils.OutputManager { return em.names }

// Export serializes records and stores them as
// "<system>_data_<timestamp>_<job8>.<ext>". An empty jobID gets a fresh one.
func (em *ExportManager) Export(ctx context.Context, system string, records []*model.Record, format Format, jobID string) (*model.ExportResult, error) {
	if jobID == "" {
		jobID = uuid.NewString()
	}
	var buf bytes.Buffer
	if err := Write(&buf, records, format); err != nil {
		return nil, err
	}

	at := em.now()
	filename := em.names.FileName(system, at, jobID, format.Ext())
	info, err := em.store.Put(ctx, filename, &buf, blob.PutOptions{
		ContentType: format.ContentType(),
		Metadata: map[string]string{
			"job_id":       jobID,
			"system":       system,
			"record_count": fmt.Sprint(len(records)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", filename, err)
	}

	url, err := em.store.PresignURL(ctx, filename, blob.SignedURLOptions{Method: "GET"})
	if errors.Is(err, blob.ErrUnsupported) {
		url = em.names.GetDownloadURL(filename)
	} else if err != nil {
		return nil, fmt.Errorf("failed to sign %s: %w", filename, err)
	}

	em.logger.Info("export written",
		"file", filename,
		"format", format,
		"records", len(records),
		"bytes", info.Size,
		"driver", em.store.Driver())

	return &model.ExportResult{
		Format:      string(format),
		Filename:    filename,
		Key:         info.Key,
		RecordCount: len(records),
		SizeBytes:   info.Size,
		DownloadURL: url,
		ExportedAt:  at.UTC(),
	}, nil
}

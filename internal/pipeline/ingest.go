package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go-bi-stack/internal/model"
	"go-bi-stack/pkg/utils"
)

// Format is a dataset file encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatJSON, FormatCSV, FormatParquet}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatParquet:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", model.ErrUnsupportedFormat, s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string { return string(f) }

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// ------------------- Ingestion -------------------

// Source names a persisted dataset file.
type Source struct {
	Name   string           `mapstructure:"name"`
	Kind   model.EntityKind `mapstructure:"kind"`
	Path   string           `mapstructure:"path"`
	Format Format           `mapstructure:"format"`
}

// Load reads a dataset file. Every failure wraps model.ErrDataLoad.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	format := src.Format
	if format == "" {
		f, err := FormatFromPath(src.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", model.ErrDataLoad, src.Path, err)
		}
		format = f
	}

	file, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDataLoad, err)
	}
	defer file.Close()

	fields, records, err := Decode(ctx, file, format, src.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrDataLoad, src.Path, err)
	}

	name := src.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	}
	return NewDataset(name, src.Kind, fields, records), nil
}

// Decode reads records in the given format. When kind is set, values are
// coerced to the kind's schema types; columns outside the schema are kept
// as read.
func Decode(ctx context.Context, r io.Reader, format Format, kind model.EntityKind) ([]string, []*model.Record, error) {
	var schema model.Schema
	if kind != "" {
		s, err := model.SchemaFor(kind)
		if err != nil {
			return nil, nil, err
		}
		schema = s
	}

	switch format {
	case FormatCSV:
		return decodeCSV(ctx, r, schema)
	case FormatJSON:
		return decodeJSON(ctx, r, schema)
	case FormatParquet:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, nil, err
		}
		fields, records, err := readParquet(ctx, data)
		if err != nil {
			return nil, nil, err
		}
		if err := coerceAll(records, schema); err != nil {
			return nil, nil, err
		}
		return fields, records, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", model.ErrUnsupportedFormat, format)
}

func coerceAll(records []*model.Record, schema model.Schema) error {
	if schema == nil {
		return nil
	}
	for i, rec := range records {
		for _, key := range rec.Keys() {
			f, ok := schema.Lookup(key)
			if !ok {
				continue
			}
			v, err := model.Coerce(f, rec.Value(key))
			if err != nil {
				return fmt.Errorf("row %d field %s: %w", i+1, key, err)
			}
			rec.Set(key, v)
		}
	}
	return nil
}

// ------------------- CSV -------------------

func decodeCSV(ctx context.Context, r io.Reader, schema model.Schema) ([]string, []*model.Record, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty CSV file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	fields := make([]string, len(header))
	for i, h := range header {
		// Trim whitespace, quotes and a UTF-8 byte order mark
		h = strings.TrimPrefix(h, "\ufeff")
		fields[i] = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
	}
	specs := make([]*model.FieldSpec, len(fields))
	for i, name := range fields {
		if f, ok := schema.Lookup(name); ok {
			specs[i] = &f
		}
	}

	var records []*model.Record
	for line := 2; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("CSV read error: %w", err)
		}

		rec := model.NewRecord(len(fields))
		for i, name := range fields {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if specs[i] == nil {
				rec.Set(name, utils.ParseValue(cell))
				continue
			}
			v, err := model.Coerce(*specs[i], cell)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d field %s: %w", line, name, err)
			}
			rec.Set(name, v)
		}
		records = append(records, rec)
	}
	return fields, records, nil
}

// ------------------- JSON -------------------

func decodeJSON(ctx context.Context, r io.Reader, schema model.Schema) ([]string, []*model.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, nil, fmt.Errorf("expected a JSON array of records, got %v", tok)
	}

	var records []*model.Record
	for dec.More() {
		if len(records)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("failed to decode JSON record %d: %w", len(records)+1, err)
		}
		rec := model.NewRecord(0)
		if err := rec.UnmarshalJSON(raw); err != nil {
			return nil, nil, fmt.Errorf("failed to decode JSON record %d: %w", len(records)+1, err)
		}
		for _, key := range rec.Keys() {
			if n, ok := rec.Value(key).(json.Number); ok {
				rec.Set(key, utils.ParseValue(n.String()))
			}
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if err := coerceAll(records, schema); err != nil {
		return nil, nil, err
	}

	var fields []string
	if len(records) > 0 {
		fields = records[0].Keys()
	} else if schema != nil {
		fields = schema.Names()
	}
	return fields, records, nil
}

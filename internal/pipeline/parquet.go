package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"go-bi-stack/internal/model"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

const parquetBatchSize = 4096

var timestampType = &arrow.TimestampType{Unit: arrow.Millisecond, TimeZone: "UTC"}

// arrowType picks the column type for a record value.
func arrowType(v any) arrow.DataType {
	switch v.(type) {
	case int64, int, int32:
		return arrow.PrimitiveTypes.Int64
	case float64, float32:
		return arrow.PrimitiveTypes.Float64
	case bool:
		return arrow.FixedWidthTypes.Boolean
	case time.Time:
		return timestampType
	case model.Date:
		return arrow.FixedWidthTypes.Date32
	default:
		return arrow.BinaryTypes.String
	}
}

// inferArrowSchema types each column of fields from its first non-null value.
// Columns that are null throughout become strings.
func inferArrowSchema(fields []string, records []*model.Record) *arrow.Schema {
	out := make([]arrow.Field, len(fields))
	for i, name := range fields {
		var typ arrow.DataType = arrow.BinaryTypes.String
		for _, rec := range records {
			if v := rec.Value(name); v != nil {
				typ = arrowType(v)
				break
			}
		}
		out[i] = arrow.Field{Name: name, Type: typ, Nullable: true}
	}
	return arrow.NewSchema(out, nil)
}

func appendArrowValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch bldr := b.(type) {
	case *array.StringBuilder:
		bldr.Append(model.FormatValue(v))
	case *array.Int64Builder:
		f, ok := model.AsFloat(v)
		if !ok {
			return fmt.Errorf("cannot write %T to an int64 column", v)
		}
		bldr.Append(int64(f))
	case *array.Float64Builder:
		f, ok := model.AsFloat(v)
		if !ok {
			return fmt.Errorf("cannot write %T to a float64 column", v)
		}
		bldr.Append(f)
	case *array.BooleanBuilder:
		bv, ok := v.(bool)
		if !ok {
			return fmt.Errorf("cannot write %T to a boolean column", v)
		}
		bldr.Append(bv)
	case *array.TimestampBuilder:
		t, ok := model.AsTime(v)
		if !ok {
			return fmt.Errorf("cannot write %T to a timestamp column", v)
		}
		bldr.Append(arrow.Timestamp(t.UnixMilli()))
	case *array.Date32Builder:
		t, ok := model.AsTime(v)
		if !ok {
			return fmt.Errorf("cannot write %T to a date column", v)
		}
		bldr.Append(arrow.Date32FromTime(t))
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	return nil
}

// writeParquet writes records as one Parquet file with the columns of fields.
// w is never closed.
func writeParquet(w io.Writer, fields []string, records []*model.Record) (err error) {
	mem := memory.NewGoAllocator()
	schema := inferArrowSchema(fields, records)

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithAllocator(mem),
	)
	// pqarrow closes sinks that implement io.Closer; hide it.
	sink := struct{ io.Writer }{w}
	writer, err := pqarrow.NewFileWriter(schema, sink, props,
		pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(mem), pqarrow.WithStoreSchema()))
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	closed := false
	defer func() {
		if !closed {
			_ = writer.Close()
		}
	}()

	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for start := 0; start < len(records); start += parquetBatchSize {
		end := min(start+parquetBatchSize, len(records))
		for _, rec := range records[start:end] {
			for i, name := range fields {
				if err := appendArrowValue(builder.Field(i), rec.Value(name)); err != nil {
					return fmt.Errorf("column %s: %w", name, err)
				}
			}
		}
		batch := builder.NewRecord()
		err := writer.Write(batch)
		batch.Release()
		if err != nil {
			return fmt.Errorf("failed to write parquet batch: %w", err)
		}
	}
	closed = true
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// readParquet reads every row of a Parquet file into records, in column
// order.
func readParquet(ctx context.Context, data []byte) ([]string, []*model.Record, error) {
	mem := memory.NewGoAllocator()
	table, err := pqarrow.ReadTable(ctx, bytes.NewReader(data),
		parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read parquet: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	fields := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		fields[i] = f.Name
	}

	records := make([]*model.Record, 0, table.NumRows())
	tr := array.NewTableReader(table, parquetBatchSize)
	defer tr.Release()
	for tr.Next() {
		batch := tr.Record()
		cols := batch.Columns()
		for row := 0; row < int(batch.NumRows()); row++ {
			rec := model.NewRecord(len(fields))
			for i, col := range cols {
				v, err := arrowValue(col, row)
				if err != nil {
					return nil, nil, fmt.Errorf("column %s: %w", fields[i], err)
				}
				rec.Set(fields[i], v)
			}
			records = append(records, rec)
		}
	}
	if err := tr.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read parquet: %w", err)
	}
	return fields, records, nil
}

// arrowValue converts one cell to a record value.
func arrowValue(col arrow.Array, row int) (any, error) {
	if col.IsNull(row) {
		return nil, nil
	}
	switch a := col.(type) {
	case *array.String:
		return a.Value(row), nil
	case *array.LargeString:
		return a.Value(row), nil
	case *array.Int64:
		return a.Value(row), nil
	case *array.Int32:
		return int64(a.Value(row)), nil
	case *array.Float64:
		return a.Value(row), nil
	case *array.Float32:
		return float64(a.Value(row)), nil
	case *array.Boolean:
		return a.Value(row), nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(row).ToTime(unit).UTC(), nil
	case *array.Date32:
		return model.NewDate(a.Value(row).ToTime()), nil
	case *array.Date64:
		return model.NewDate(a.Value(row).ToTime()), nil
	}
	return nil, fmt.Errorf("unsupported arrow type %s", col.DataType())
}

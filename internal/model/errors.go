package model

import "errors"

// Error taxonomy shared by the generator, pipeline and HTTP layers.
// Callers wrap these with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	// ErrInvalidRange reports bad request parameters (dates, record counts).
	ErrInvalidRange = errors.New("invalid range")
	// ErrSchemaMismatch reports a requested field absent from a dataset.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrEmptyDataset reports an export that must infer a schema from zero rows.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrDataLoad reports a missing or corrupt dataset file.
	ErrDataLoad = errors.New("data load failed")

	ErrUnknownKind       = errors.New("unknown entity kind")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNotFound          = errors.New("not found")
)

// IsValidation reports whether err should be surfaced to the caller as a
// bad request rather than a server failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrUnknownKind) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrSchemaMismatch)
}

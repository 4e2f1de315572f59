package model

import (
	"fmt"
	"strings"
	"time"
)

// GenerationRequest describes one batch of synthetic data to produce. It is
// built per submission, consumed once, and discarded.
type GenerationRequest struct {
	Kind       EntityKind
	Start      time.Time
	End        time.Time
	MinRecords int
	MaxRecords int
	Format     string
	Seed       uint64 // 0 = draw a fresh seed
}

// Validate checks the request bounds. ceiling caps MaxRecords; zero means
// no cap.
func (r GenerationRequest) Validate(ceiling int) error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
	if r.Start.After(r.End) {
		return fmt.Errorf("%w: start date %s is after end date %s",
			ErrInvalidRange, r.Start.Format(DateLayout), r.End.Format(DateLayout))
	}
	if r.MinRecords <= 0 || r.MaxRecords <= 0 {
		return fmt.Errorf("%w: record counts must be positive (min=%d, max=%d)",
			ErrInvalidRange, r.MinRecords, r.MaxRecords)
	}
	if r.MinRecords > r.MaxRecords {
		return fmt.Errorf("%w: minRecords %d exceeds maxRecords %d",
			ErrInvalidRange, r.MinRecords, r.MaxRecords)
	}
	if ceiling > 0 && r.MaxRecords > ceiling {
		return fmt.Errorf("%w: maxRecords %d exceeds limit %d",
			ErrInvalidRange, r.MaxRecords, ceiling)
	}
	return nil
}

// GenerateRequestBody is the JSON body of POST /generate.
type GenerateRequestBody struct {
	System     string `json:"system" example:"salesforce"`
	StartDate  string `json:"startDate" example:"2022-01-01"`
	EndDate    string `json:"endDate" example:"2022-12-31"`
	MinRecords int    `json:"minRecords" example:"100"`
	MaxRecords int    `json:"maxRecords" example:"500"`
	Format     string `json:"format" example:"csv"`
	Seed       uint64 `json:"seed,omitempty"`
}

// ToRequest parses the wire form into a GenerationRequest.
func (b GenerateRequestBody) ToRequest() (GenerationRequest, error) {
	kind, err := ParseKind(b.System)
	if err != nil {
		return GenerationRequest{}, err
	}
	start, err := time.Parse(DateLayout, strings.TrimSpace(b.StartDate))
	if err != nil {
		return GenerationRequest{}, fmt.Errorf("%w: startDate %q must be YYYY-MM-DD", ErrInvalidRange, b.StartDate)
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(b.EndDate))
	if err != nil {
		return GenerationRequest{}, fmt.Errorf("%w: endDate %q must be YYYY-MM-DD", ErrInvalidRange, b.EndDate)
	}
	return GenerationRequest{
		Kind:       kind,
		Start:      start,
		End:        end,
		MinRecords: b.MinRecords,
		MaxRecords: b.MaxRecords,
		Format:     strings.ToLower(strings.TrimSpace(b.Format)),
		Seed:       b.Seed,
	}, nil
}

// GenerateResponse is the success body of POST /generate.
type GenerateResponse struct {
	Success          bool   `json:"success"`
	Filename         string `json:"filename"`
	RecordsGenerated int    `json:"records_generated"`
	DownloadURL      string `json:"download_url"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GenerationJob is one entry of the generation history.
type GenerationJob struct {
	ID               string    `json:"id"`
	System           string    `json:"system"`
	Kind             string    `json:"kind"`
	StartDate        string    `json:"start_date"`
	EndDate          string    `json:"end_date"`
	MinRecords       int       `json:"min_records"`
	MaxRecords       int       `json:"max_records"`
	Format           string    `json:"format"`
	Seed             uint64    `json:"seed"`
	Status           string    `json:"status"`
	Filename         string    `json:"filename,omitempty"`
	RecordsGenerated int       `json:"records_generated"`
	Error            string    `json:"error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ExportResult represents the result of an export operation
type ExportResult struct {
	Format      string    `json:"format"`
	Filename    string    `json:"filename"`
	Key         string    `json:"key"`
	RecordCount int       `json:"record_count"`
	SizeBytes   int64     `json:"size_bytes"`
	DownloadURL string    `json:"download_url"`
	ExportedAt  time.Time `json:"exported_at"`
}

package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_JSONKeepsFieldOrder(t *testing.T) {
	rec := NewRecord(4)
	rec.Set("Zeta", "last-alpha-first")
	rec.Set("Alpha", int64(7))
	rec.Set("CreatedDate", time.Date(2022, 1, 5, 10, 30, 0, 0, time.UTC))
	rec.Set("CloseDate", NewDate(time.Date(2022, 3, 1, 18, 0, 0, 0, time.UTC)))
	rec.Set("Memo", nil)

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Zeta":"last-alpha-first","Alpha":7,"CreatedDate":"2022-01-05T10:30:00","CloseDate":"2022-03-01","Memo":null}`,
		string(b))

	var back Record
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []string{"Zeta", "Alpha", "CreatedDate", "CloseDate", "Memo"}, back.Keys())
	assert.Equal(t, json.Number("7"), back.Value("Alpha"))
	assert.Nil(t, back.Value("Memo"))
}

func TestRecord_SetOverwriteKeepsPosition(t *testing.T) {
	rec := NewRecord(2)
	rec.Set("a", 1)
	rec.Set("b", 2)
	rec.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, rec.Keys())
	assert.Equal(t, 3, rec.Value("a"))
	assert.Equal(t, 2, rec.Len())
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want EntityKind
	}{
		{"Account", KindAccount},
		{"salesforce", KindAccount},
		{"SALESFORCE_OPPORTUNITIES", KindOpportunity},
		{"sfmc", KindMarketingEvent},
		{"netsuite", KindFinancialTransaction},
		{" financialtransaction ", KindFinancialTransaction},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseKind("hubspot")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestGenerationRequest_Validate(t *testing.T) {
	jan1 := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2022, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     GenerationRequest
		wantErr error
	}{
		{
			name: "valid",
			req:  GenerationRequest{Kind: KindAccount, Start: jan1, End: jan31, MinRecords: 5, MaxRecords: 5},
		},
		{
			name: "same day window",
			req:  GenerationRequest{Kind: KindAccount, Start: jan1, End: jan1, MinRecords: 1, MaxRecords: 2},
		},
		{
			name:    "start after end",
			req:     GenerationRequest{Kind: KindAccount, Start: jan31, End: jan1, MinRecords: 1, MaxRecords: 2},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "min above max",
			req:     GenerationRequest{Kind: KindAccount, Start: jan1, End: jan31, MinRecords: 10, MaxRecords: 2},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "zero min",
			req:     GenerationRequest{Kind: KindAccount, Start: jan1, End: jan31, MinRecords: 0, MaxRecords: 2},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "negative max",
			req:     GenerationRequest{Kind: KindAccount, Start: jan1, End: jan31, MinRecords: 1, MaxRecords: -2},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "above ceiling",
			req:     GenerationRequest{Kind: KindAccount, Start: jan1, End: jan31, MinRecords: 1, MaxRecords: 1001},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "unknown kind",
			req:     GenerationRequest{Kind: "Lead", Start: jan1, End: jan31, MinRecords: 1, MaxRecords: 2},
			wantErr: ErrUnknownKind,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(1000)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestGenerateRequestBody_ToRequest(t *testing.T) {
	body := GenerateRequestBody{
		System: "sfmc", StartDate: "2022-01-01", EndDate: "2022-06-30",
		MinRecords: 1, MaxRecords: 3, Format: "JSON", Seed: 9,
	}
	req, err := body.ToRequest()
	require.NoError(t, err)
	assert.Equal(t, KindMarketingEvent, req.Kind)
	assert.Equal(t, "json", req.Format)
	assert.Equal(t, uint64(9), req.Seed)
	assert.True(t, req.End.Equal(time.Date(2022, 6, 30, 0, 0, 0, 0, time.UTC)))

	body.StartDate = "01/01/2022"
	_, err = body.ToRequest()
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCoerce(t *testing.T) {
	ts := time.Date(2022, 2, 3, 4, 5, 6, 0, time.UTC)
	tests := []struct {
		name string
		f    FieldSpec
		in   any
		want any
	}{
		{"int from text", integer("n"), "42", int64(42)},
		{"int from float text", integer("n"), "42.0", int64(42)},
		{"int from json number", integer("n"), json.Number("17"), int64(17)},
		{"float from text", float("x"), "3.25", 3.25},
		{"bool capitalized", boolean("b"), "True", true},
		{"timestamp", timestamp("t"), "2022-02-03T04:05:06", ts},
		{"timestamp rfc3339", timestamp("t"), "2022-02-03T04:05:06Z", ts},
		{"date from timestamp text", date("d"), "2022-02-03T04:05:06", NewDate(ts)},
		{"nullable empty", optStr("memo"), "", nil},
		{"required empty string stays", str("s"), "", ""},
		{"empty int is null", integer("n"), "", nil},
		{"string from number", str("s"), int64(5), "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.f, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Coerce(boolean("b"), int64(1))
	assert.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "50000000", FormatValue(int64(50000000)))
	assert.Equal(t, "1234.5", FormatValue(1234.5))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "2022-01-31T23:59:59", FormatValue(time.Date(2022, 1, 31, 23, 59, 59, 0, time.UTC)))
	assert.Equal(t, "2022-01-31", FormatValue(NewDate(time.Date(2022, 1, 31, 23, 0, 0, 0, time.UTC))))
}

func TestSchemaFor(t *testing.T) {
	for _, k := range Kinds {
		s, err := SchemaFor(k)
		require.NoError(t, err)
		assert.NotEmpty(t, s)
	}
	s, _ := SchemaFor(KindAccount)
	assert.Equal(t, "Id", s.Names()[0])
	f, ok := s.Lookup("CreatedDate")
	require.True(t, ok)
	assert.Equal(t, TypeTimestamp, f.Type)

	_, err := SchemaFor("Lead")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

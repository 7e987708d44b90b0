package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"COMPLETE BLOOD COUNT", true},
		{"BASIC METABOLIC PANEL", true},
		{"X-RAY", true},
		{"CT", true},
		{"CLINICAL NOTE", true},
		{"x-ray", false},
		{"MRI", false},
		{"", false},
		{" CT", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, ok := ParseDocumentType(tt.input)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestDocumentTypeInfo(t *testing.T) {
	for _, dt := range DocumentTypes {
		info := dt.Info()
		assert.Equal(t, dt, info.Type)
		assert.NotEmpty(t, info.Label)
		assert.NotEmpty(t, info.Color)
	}

	unknown := DocumentType("MRI").Info()
	assert.Equal(t, "MRI", unknown.Label)
	assert.Equal(t, "?", unknown.ShortCode)
	assert.Len(t, DocumentTypeNames(), 5)
}

func TestDocument_CreatedTime(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{"rfc3339", "2025-01-02T03:04:05Z", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), true},
		{"naive with micros", "2025-01-02T03:04:05.123456", time.Date(2025, 1, 2, 3, 4, 5, 123456000, time.UTC), true},
		{"date only", "2025-01-02", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Document{CreatedAt: tt.input}.CreatedTime()
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestUploadResponse_Consistent(t *testing.T) {
	results := &PipelineResult{}
	assert.True(t, UploadResponse{Processed: true, Results: results}.Consistent())
	assert.True(t, UploadResponse{Processed: false}.Consistent())
	assert.False(t, UploadResponse{Processed: true}.Consistent())
	assert.False(t, UploadResponse{Processed: false, Results: results}.Consistent())
}

func TestPipelineResult_Completeness(t *testing.T) {
	withCodes := CodeSet{Codes: []ICD10Code{{Code: "D72.829"}, {Code: "E87.6"}}}

	assert.False(t, PipelineResult{}.IsComplete())
	assert.False(t, PipelineResult{Codes: withCodes}.IsComplete())
	assert.False(t, PipelineResult{Summary: &Summary{}}.IsComplete())
	assert.True(t, PipelineResult{Codes: withCodes, Summary: &Summary{}}.IsComplete())
	assert.Equal(t, []string{"D72.829", "E87.6"}, PipelineResult{Codes: withCodes}.CodeValues())
}

func TestTestResult_CodeBuckets(t *testing.T) {
	r := TestResult{
		ExpectedCodes:  []string{"D72.829", "E87.6", "N18.3"},
		PredictedCodes: []string{"E87.6", "R79.89", "D72.829"},
	}

	assert.Equal(t, []string{"D72.829", "E87.6"}, r.CorrectCodes())
	assert.Equal(t, []string{"N18.3"}, r.MissedCodes())
	assert.Equal(t, []string{"R79.89"}, r.ExtraCodes())
	assert.Empty(t, TestResult{}.MissedCodes())
}

func TestInteractionsResponse_MostSevere(t *testing.T) {
	r := InteractionsResponse{Interactions: []Interaction{
		{Severity: SeverityMild},
		{Severity: SeveritySevere},
		{Severity: SeverityModerate},
	}}
	assert.Equal(t, SeveritySevere, r.MostSevere())
	assert.Equal(t, Severity(""), InteractionsResponse{}.MostSevere())
}

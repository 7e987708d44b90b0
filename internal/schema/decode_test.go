package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/meddoc/internal/model"
)

const completePipelineJSON = `{
	"classification": {
		"document_type": "COMPLETE BLOOD COUNT",
		"confidence": 0.94,
		"rationale": "Lists WBC, hemoglobin and platelet counts.",
		"evidence": ["WBC 13.2 x10^3/uL"]
	},
	"codes": {
		"codes": [
			{"code": "D72.829", "description": "Elevated white blood cell count", "confidence": 0.88, "evidence": ["WBC 13.2 (elevated)"]}
		]
	},
	"summary": {
		"summary": "Leukocytosis with otherwise normal counts.",
		"confidence": 0.81,
		"evidence": []
	}
}`

func classificationJSON(docType string, confidence string) string {
	return fmt.Sprintf(`{
		"classification": {"document_type": %q, "confidence": %s, "rationale": "r", "evidence": []},
		"codes": {"codes": []}
	}`, docType, confidence)
}

func TestDecodePipelineResult_Complete(t *testing.T) {
	result, err := DecodePipelineResult([]byte(completePipelineJSON))
	require.NoError(t, err)

	assert.Equal(t, model.DocumentTypeCBC, result.Classification.DocumentType)
	assert.InDelta(t, 0.94, result.Classification.Confidence, 1e-9)
	require.Len(t, result.Codes.Codes, 1)
	assert.Equal(t, "D72.829", result.Codes.Codes[0].Code)
	require.NotNil(t, result.Summary)
	assert.Empty(t, result.Summary.Evidence)
	assert.NotNil(t, result.Summary.Evidence)
	assert.True(t, result.IsComplete())
}

func TestDecodePipelineResult_Confidence(t *testing.T) {
	tests := []struct {
		name       string
		confidence string
		wantErr    bool
	}{
		{"zero", "0", false},
		{"one", "1", false},
		{"middle", "0.5", false},
		{"below zero", "-0.01", true},
		{"above one", "1.01", true},
		{"string", `"high"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePipelineResult([]byte(classificationJSON("CT", tt.confidence)))
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.NotErrorIs(t, err, ErrUnrecognizedDocumentType)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			if tt.name != "string" {
				assert.Equal(t, "classification.confidence", ve.Path)
				assert.Equal(t, "classification", ve.Part())
			}
		})
	}
}

func TestDecodePipelineResult_DocumentType(t *testing.T) {
	tests := []struct {
		docType string
		wantErr bool
	}{
		{"COMPLETE BLOOD COUNT", false},
		{"BASIC METABOLIC PANEL", false},
		{"X-RAY", false},
		{"CT", false},
		{"CLINICAL NOTE", false},
		{"x-ray", true},
		{"MRI", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.docType, func(t *testing.T) {
			result, err := DecodePipelineResult([]byte(classificationJSON(tt.docType, "0.7")))
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, model.DocumentType(tt.docType), result.Classification.DocumentType)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnrecognizedDocumentType)
			assert.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "classification.document_type", ve.Path)
		})
	}
}

func TestDecodePipelineResult_MissingParts(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantPath string
		wantPart string
	}{
		{
			name:     "missing classification",
			payload:  `{"codes": {"codes": []}}`,
			wantPath: "classification",
			wantPart: "classification",
		},
		{
			name:     "missing codes wrapper",
			payload:  `{"classification": {"document_type": "CT", "confidence": 0.5, "rationale": "r", "evidence": []}}`,
			wantPath: "codes",
			wantPart: "codes",
		},
		{
			name: "bad code confidence",
			payload: `{"classification": {"document_type": "CT", "confidence": 0.5, "rationale": "r", "evidence": []},
				"codes": {"codes": [
					{"code": "A", "description": "a", "confidence": 0.1, "evidence": []},
					{"code": "B", "description": "b", "confidence": 0.2, "evidence": []},
					{"code": "C", "description": "c", "confidence": 7, "evidence": []}
				]}}`,
			wantPath: "codes.codes[2].confidence",
			wantPart: "codes",
		},
		{
			name: "summary without text",
			payload: `{"classification": {"document_type": "CT", "confidence": 0.5, "rationale": "r", "evidence": []},
				"codes": {"codes": []},
				"summary": {"confidence": 0.5, "evidence": []}}`,
			wantPath: "summary.summary",
			wantPart: "summary",
		},
		{
			name: "missing rationale",
			payload: `{"classification": {"document_type": "CT", "confidence": 0.5, "evidence": []},
				"codes": {"codes": []}}`,
			wantPath: "classification.rationale",
			wantPart: "classification",
		},
		{
			name:     "classification without evidence",
			payload:  `{"classification": {"document_type": "CT", "confidence": 0.5, "rationale": "r"}, "codes": {"codes": []}}`,
			wantPath: "classification.evidence",
			wantPart: "classification",
		},
		{
			name: "null code evidence",
			payload: `{"classification": {"document_type": "CT", "confidence": 0.5, "rationale": "r", "evidence": []},
				"codes": {"codes": [{"code": "A", "description": "a", "confidence": 0.1, "evidence": null}]}}`,
			wantPath: "codes.codes[0].evidence",
			wantPart: "codes",
		},
		{
			name: "summary without evidence",
			payload: `{"classification": {"document_type": "CT", "confidence": 0.5, "rationale": "r", "evidence": []},
				"codes": {"codes": []},
				"summary": {"summary": "s", "confidence": 0.5}}`,
			wantPath: "summary.evidence",
			wantPart: "summary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePipelineResult([]byte(tt.payload))
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, SchemaPipelineResult, ve.Schema)
			assert.Equal(t, tt.wantPath, ve.Path)
			assert.Equal(t, tt.wantPart, ve.Part())
		})
	}
}

func TestDecodePipelineResult_PartialResults(t *testing.T) {
	result, err := DecodePipelineResult([]byte(`{
		"classification": {"document_type": "X-RAY", "confidence": 1, "rationale": "chest film", "evidence": []},
		"codes": {"codes": []}
	}`))
	require.NoError(t, err)

	assert.Nil(t, result.Summary)
	assert.Equal(t, 0, result.CodeCount())
	assert.Equal(t, []string{}, result.Classification.Evidence)
}

func TestPipelineResult_RoundTrip(t *testing.T) {
	original := model.PipelineResult{
		Classification: model.Classification{
			DocumentType: model.DocumentTypeBMP,
			Confidence:   0,
			Rationale:    "Electrolytes and renal markers.",
			Evidence:     []string{"Potassium 3.0 (low)"},
		},
		Codes: model.CodeSet{Codes: []model.ICD10Code{
			{Code: "E87.6", Description: "Hypokalemia", Confidence: 1, Evidence: []string{}},
			{Code: "N18.3", Description: "Chronic kidney disease, stage 3", Confidence: 0.42, Evidence: []string{"Creatinine 1.5"}},
		}},
		Summary: &model.Summary{Summary: "Low potassium.", Confidence: 0.77, Evidence: []string{}},
	}

	data, err := Encode(original)
	require.NoError(t, err)

	decoded, err := DecodePipelineResult(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestPipelineResult_NilEvidenceDoesNotRoundTrip(t *testing.T) {
	original := model.PipelineResult{
		Classification: model.Classification{DocumentType: model.DocumentTypeCT, Confidence: 0.6, Rationale: "Axial slices."},
		Codes:          model.CodeSet{Codes: []model.ICD10Code{}},
	}

	data, err := Encode(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"evidence":null`)

	_, err = DecodePipelineResult(data)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "classification.evidence", ve.Path)
}

func TestDecodeDocumentList(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantLen  int
		wantPath string
		wantErr  bool
	}{
		{name: "empty", payload: `[]`, wantLen: 0},
		{
			name: "two documents",
			payload: `[
				{"id": 1, "original_filename": "cbc.pdf", "created_at": "2025-03-01T10:00:00"},
				{"id": 2, "original_filename": "note.txt", "created_at": "2025-03-02T10:00:00", "local_path": "/data/2"}
			]`,
			wantLen: 2,
		},
		{
			name:     "missing id",
			payload:  `[{"id": 1, "original_filename": "a", "created_at": "x"}, {"original_filename": "b", "created_at": "y"}]`,
			wantErr:  true,
			wantPath: "[1].id",
		},
		{name: "null", payload: `null`, wantErr: true, wantPath: ""},
		{name: "object instead of array", payload: `{"id": 1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := DecodeDocumentList([]byte(tt.payload))
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Len(t, docs, tt.wantLen)
				assert.NotNil(t, docs)
				return
			}
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, ve.Path)
			}
		})
	}
}

func TestDecodeDocumentWithResults(t *testing.T) {
	t.Run("not processed", func(t *testing.T) {
		doc, err := DecodeDocumentWithResults([]byte(`{"id": 7, "original_filename": "xr.png", "created_at": "2025-01-01T00:00:00Z"}`))
		require.NoError(t, err)
		assert.Equal(t, 7, doc.ID)
		assert.False(t, doc.IsProcessed())
	})

	t.Run("processed", func(t *testing.T) {
		payload := `{"id": 7, "original_filename": "cbc.pdf", "created_at": "2025-01-01T00:00:00Z", "results": ` + completePipelineJSON + `}`
		doc, err := DecodeDocumentWithResults([]byte(payload))
		require.NoError(t, err)
		require.True(t, doc.IsProcessed())
		assert.Equal(t, model.DocumentTypeCBC, doc.Results.Classification.DocumentType)
	})

	t.Run("invalid nested type", func(t *testing.T) {
		payload := `{"id": 7, "original_filename": "a", "created_at": "b", "results": ` + classificationJSON("MRI", "0.9") + `}`
		_, err := DecodeDocumentWithResults([]byte(payload))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnrecognizedDocumentType)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "results.classification.document_type", ve.Path)
		assert.Equal(t, "classification", ve.Part())
	})
}

func TestDecodeUploadResponse(t *testing.T) {
	tests := []struct {
		name          string
		payload       string
		wantID        int
		wantProcessed bool
		wantResults   bool
		wantErr       bool
	}{
		{
			name:          "processed with results",
			payload:       `{"document_id": 42, "processed": true, "results": ` + completePipelineJSON + `}`,
			wantID:        42,
			wantProcessed: true,
			wantResults:   true,
		},
		{
			name:    "not processed",
			payload: `{"document_id": 3, "processed": false}`,
			wantID:  3,
		},
		{
			name:          "flag disagrees with results",
			payload:       `{"document_id": 5, "processed": true}`,
			wantID:        5,
			wantProcessed: true,
		},
		{name: "missing processed", payload: `{"document_id": 5}`, wantErr: true},
		{name: "malformed", payload: `{"document_id": `, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := DecodeUploadResponse([]byte(tt.payload))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, resp.DocumentID)
			assert.Equal(t, tt.wantProcessed, resp.Processed)
			assert.Equal(t, tt.wantResults, resp.Results != nil)
		})
	}
}

func TestDecodeAuxiliaryPayloads(t *testing.T) {
	t.Run("translate", func(t *testing.T) {
		resp, err := DecodeTranslateResponse([]byte(`{"translated_text": "Your white cells are high.", "explanations": [{"term": "leukocytosis", "simple": "many white cells", "meaning": "infection fighting cells"}]}`))
		require.NoError(t, err)
		assert.Equal(t, "leukocytosis", resp.Explanations[0].Term)
	})

	t.Run("chat without sources", func(t *testing.T) {
		resp, err := DecodeChatResponse([]byte(`{"answer": "Not configured.", "confidence": 0.0}`))
		require.NoError(t, err)
		assert.Equal(t, []string{}, resp.Sources)
	})

	t.Run("chat bad confidence", func(t *testing.T) {
		_, err := DecodeChatResponse([]byte(`{"answer": "x", "confidence": 85}`))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("medications degraded", func(t *testing.T) {
		resp, err := DecodeMedicationsResponse([]byte(`{"medications": [], "error": "Gemini API not configured"}`))
		require.NoError(t, err)
		assert.Equal(t, "Gemini API not configured", resp.Error)
	})

	t.Run("interactions severity case", func(t *testing.T) {
		resp, err := DecodeInteractionsResponse([]byte(`{"interactions": [{"severity": "Severe", "description": "bleeding", "medications_involved": ["warfarin", "aspirin"]}], "warnings": []}`))
		require.NoError(t, err)
		assert.Equal(t, model.SeveritySevere, resp.Interactions[0].Severity)
	})

	t.Run("interactions unknown severity", func(t *testing.T) {
		_, err := DecodeInteractionsResponse([]byte(`{"interactions": [{"severity": "catastrophic", "description": "x"}]}`))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "interactions[0].severity", ve.Path)
	})

	t.Run("action items", func(t *testing.T) {
		resp, err := DecodeActionItemsResponse([]byte(`{"action_items": ["Schedule follow-up"], "urgency": "routine"}`))
		require.NoError(t, err)
		assert.Equal(t, model.UrgencyRoutine, resp.Urgency)
		assert.Equal(t, []string{}, resp.Reminders)
	})

	t.Run("action items missing urgency", func(t *testing.T) {
		_, err := DecodeActionItemsResponse([]byte(`{"action_items": []}`))
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestDecodeEvalReport(t *testing.T) {
	t.Run("quick report without cases", func(t *testing.T) {
		report, err := DecodeEvalReport([]byte(`{"items": 2, "codes_precision": 0.5, "codes_recall": 1.0, "codes_f1": 0.67, "summary_coverage": 0.83, "mode": "USE_CLAUDE_REAL=False"}`))
		require.NoError(t, err)
		assert.Equal(t, 2, report.Items)
		assert.Empty(t, report.TestResults)
	})

	t.Run("with cases", func(t *testing.T) {
		report, err := DecodeEvalReport([]byte(`{"items": 1, "codes_precision": 1, "codes_recall": 1, "codes_f1": 1, "summary_coverage": 1, "mode": "real",
			"test_results": [{"id": "cbc-1", "document_type": "COMPLETE BLOOD COUNT", "query": "CBC", "expected_codes": ["D72.829"], "predicted_codes": ["D72.829"],
			"expected_facts": ["leukocytosis"], "generated_summary": "leukocytosis", "metrics": {"precision": 1, "recall": 1, "f1": 1, "coverage": 1}}]}`))
		require.NoError(t, err)
		require.Len(t, report.TestResults, 1)
		assert.Equal(t, []string{"D72.829"}, report.TestResults[0].CorrectCodes())
	})

	t.Run("metric out of range", func(t *testing.T) {
		_, err := DecodeEvalReport([]byte(`{"items": 1, "codes_precision": 1.2, "codes_recall": 1, "codes_f1": 1, "summary_coverage": 1}`))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "codes_precision", ve.Path)
	})
}

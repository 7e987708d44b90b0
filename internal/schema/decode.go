// Package schema decodes and validates backend payloads into model values.
// Nothing leaves this package unless every required field was present and every constraint held.
package schema

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Veraticus/meddoc/internal/model"
)

// Schema names used in ValidationError.
const (
	SchemaPipelineResult      = "PipelineResult"
	SchemaDocument            = "Document"
	SchemaDocumentList        = "DocumentList"
	SchemaDocumentWithResults = "DocumentWithResults"
	SchemaUploadResponse      = "UploadResponse"
	SchemaTranslate           = "TranslateResponse"
	SchemaChat                = "ChatResponse"
	SchemaMedications         = "MedicationsResponse"
	SchemaInteractions        = "InteractionsResponse"
	SchemaActionItems         = "ActionItemsResponse"
	SchemaEvalReport          = "EvalReport"
)

// Encode serializes a model value in its wire shape.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodePipelineResult validates a standalone pipeline result.
func DecodePipelineResult(data []byte) (model.PipelineResult, error) {
	var w pipelineWire
	if err := decode(SchemaPipelineResult, data, &w); err != nil {
		return model.PipelineResult{}, err
	}
	return w.toModel(), nil
}

// DecodeDocument validates a single document record.
func DecodeDocument(data []byte) (model.Document, error) {
	var w documentWire
	if err := decode(SchemaDocument, data, &w); err != nil {
		return model.Document{}, err
	}
	return w.toModel(), nil
}

// DecodeDocumentList validates the document listing. An empty array is valid.
func DecodeDocumentList(data []byte) ([]model.Document, error) {
	var w documentListWire
	if err := json.Unmarshal(data, &w.Items); err != nil {
		return nil, decodeError(SchemaDocumentList, err)
	}
	if err := validate.Struct(&w); err != nil {
		return nil, unwrapListPath(validationError(SchemaDocumentList, err))
	}

	docs := make([]model.Document, 0, len(w.Items))
	for _, item := range w.Items {
		docs = append(docs, item.toModel())
	}
	return docs, nil
}

// DecodeDocumentWithResults validates a document detail. Absent results are valid.
func DecodeDocumentWithResults(data []byte) (model.DocumentWithResults, error) {
	var w documentWithResultsWire
	if err := decode(SchemaDocumentWithResults, data, &w); err != nil {
		return model.DocumentWithResults{}, err
	}

	doc := model.DocumentWithResults{
		Document: documentWire{
			ID:               w.ID,
			OriginalFilename: w.OriginalFilename,
			CreatedAt:        w.CreatedAt,
			LocalPath:        w.LocalPath,
		}.toModel(),
	}
	if w.Results != nil {
		results := w.Results.toModel()
		doc.Results = &results
	}
	return doc, nil
}

// DecodeUploadResponse validates the upload reply.
// A processed flag that disagrees with the presence of results is accepted; callers decide what to show.
func DecodeUploadResponse(data []byte) (model.UploadResponse, error) {
	var w uploadResponseWire
	if err := decode(SchemaUploadResponse, data, &w); err != nil {
		return model.UploadResponse{}, err
	}

	resp := model.UploadResponse{
		DocumentID: *w.DocumentID,
		Processed:  *w.Processed,
	}
	if w.Results != nil {
		results := w.Results.toModel()
		resp.Results = &results
	}
	return resp, nil
}

// DecodeTranslateResponse validates a translation.
func DecodeTranslateResponse(data []byte) (model.TranslateResponse, error) {
	var w translateWire
	if err := decode(SchemaTranslate, data, &w); err != nil {
		return model.TranslateResponse{}, err
	}

	resp := model.TranslateResponse{
		TranslatedText: *w.TranslatedText,
		Explanations:   make([]model.TermExplanation, 0, len(w.Explanations)),
	}
	for _, e := range w.Explanations {
		resp.Explanations = append(resp.Explanations, model.TermExplanation{
			Term:    *e.Term,
			Simple:  e.Simple,
			Meaning: e.Meaning,
		})
	}
	return resp, nil
}

// DecodeChatResponse validates a chat answer.
func DecodeChatResponse(data []byte) (model.ChatResponse, error) {
	var w chatWire
	if err := decode(SchemaChat, data, &w); err != nil {
		return model.ChatResponse{}, err
	}
	return model.ChatResponse{
		Answer:            *w.Answer,
		Confidence:        *w.Confidence,
		Sources:           strings0(w.Sources),
		FollowUpQuestions: w.FollowUpQuestions,
	}, nil
}

// DecodeMedicationsResponse validates extracted medications.
func DecodeMedicationsResponse(data []byte) (model.MedicationsResponse, error) {
	var w medicationsWire
	if err := decode(SchemaMedications, data, &w); err != nil {
		return model.MedicationsResponse{}, err
	}

	resp := model.MedicationsResponse{
		Error:       deref(w.Error),
		Medications: make([]model.Medication, 0, len(w.Medications)),
	}
	for _, m := range w.Medications {
		resp.Medications = append(resp.Medications, model.Medication{
			Name:         *m.Name,
			Dosage:       m.Dosage,
			Frequency:    m.Frequency,
			Instructions: m.Instructions,
		})
	}
	return resp, nil
}

// DecodeInteractionsResponse validates an interaction check. Severity is matched case-insensitively.
func DecodeInteractionsResponse(data []byte) (model.InteractionsResponse, error) {
	var w interactionsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return model.InteractionsResponse{}, decodeError(SchemaInteractions, err)
	}
	for _, i := range w.Interactions {
		if i != nil {
			lowerInPlace(i.Severity)
		}
	}
	if err := validate.Struct(&w); err != nil {
		return model.InteractionsResponse{}, validationError(SchemaInteractions, err)
	}

	resp := model.InteractionsResponse{
		SafeToTakeTogether: w.SafeToTakeTogether,
		Error:              deref(w.Error),
		Interactions:       make([]model.Interaction, 0, len(w.Interactions)),
		Warnings:           strings0(w.Warnings),
	}
	for _, i := range w.Interactions {
		resp.Interactions = append(resp.Interactions, model.Interaction{
			Severity:            model.Severity(*i.Severity),
			Description:         *i.Description,
			Recommendation:      i.Recommendation,
			MedicationsInvolved: strings0(i.MedicationsInvolved),
		})
	}
	return resp, nil
}

// DecodeActionItemsResponse validates extracted action items. Urgency is matched case-insensitively.
func DecodeActionItemsResponse(data []byte) (model.ActionItemsResponse, error) {
	var w actionItemsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return model.ActionItemsResponse{}, decodeError(SchemaActionItems, err)
	}
	lowerInPlace(w.Urgency)
	if err := validate.Struct(&w); err != nil {
		return model.ActionItemsResponse{}, validationError(SchemaActionItems, err)
	}

	return model.ActionItemsResponse{
		Urgency:     model.Urgency(*w.Urgency),
		ActionItems: strings0(w.ActionItems),
		Questions:   strings0(w.Questions),
		Reminders:   strings0(w.Reminders),
	}, nil
}

// DecodeEvalReport validates an evaluation report. Missing test_results decode as empty.
func DecodeEvalReport(data []byte) (model.EvalReport, error) {
	var w evalReportWire
	if err := decode(SchemaEvalReport, data, &w); err != nil {
		return model.EvalReport{}, err
	}

	report := model.EvalReport{
		Mode:            w.Mode,
		Items:           *w.Items,
		CodesPrecision:  *w.CodesPrecision,
		CodesRecall:     *w.CodesRecall,
		CodesF1:         *w.CodesF1,
		SummaryCoverage: *w.SummaryCoverage,
		TestResults:     make([]model.TestResult, 0, len(w.TestResults)),
	}
	for _, r := range w.TestResults {
		report.TestResults = append(report.TestResults, model.TestResult{
			ID:               *r.ID,
			DocumentType:     r.DocumentType,
			Query:            r.Query,
			GeneratedSummary: r.GeneratedSummary,
			ExpectedCodes:    strings0(r.ExpectedCodes),
			PredictedCodes:   strings0(r.PredictedCodes),
			ExpectedFacts:    strings0(r.ExpectedFacts),
			Metrics: model.CaseMetrics{
				Precision: *r.Metrics.Precision,
				Recall:    *r.Metrics.Recall,
				F1:        *r.Metrics.F1,
				Coverage:  *r.Metrics.Coverage,
			},
		})
	}
	return report, nil
}

func (w documentWire) toModel() model.Document {
	return model.Document{
		ID:               *w.ID,
		OriginalFilename: *w.OriginalFilename,
		CreatedAt:        *w.CreatedAt,
		LocalPath:        deref(w.LocalPath),
	}
}

func (w *pipelineWire) toModel() model.PipelineResult {
	result := model.PipelineResult{
		Classification: model.Classification{
			DocumentType: model.DocumentType(*w.Classification.DocumentType),
			Confidence:   *w.Classification.Confidence,
			Rationale:    *w.Classification.Rationale,
			Evidence:     w.Classification.Evidence,
		},
		Codes: model.CodeSet{Codes: make([]model.ICD10Code, 0, len(w.Codes.Codes))},
	}
	for _, c := range w.Codes.Codes {
		result.Codes.Codes = append(result.Codes.Codes, model.ICD10Code{
			Code:        *c.Code,
			Description: *c.Description,
			Confidence:  *c.Confidence,
			Evidence:    c.Evidence,
		})
	}
	if w.Summary != nil {
		result.Summary = &model.Summary{
			Summary:    *w.Summary.Summary,
			Confidence: *w.Summary.Confidence,
			Evidence:   w.Summary.Evidence,
		}
	}
	return result
}

// unwrapListPath rewrites "items[0].id" as "[0].id" so paths address the top-level array.
func unwrapListPath(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		ve.Path = strings.TrimPrefix(ve.Path, listField)
	}
	return err
}

// strings0 turns an absent or null array into an empty one.
func strings0(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func lowerInPlace(s *string) {
	if s != nil {
		*s = strings.ToLower(strings.TrimSpace(*s))
	}
}

package viewmodel

import (
	"fmt"
	"math"

	"github.com/Veraticus/meddoc/internal/model"
)

// Empty-state messages.
const (
	NotProcessedMessage = "This document has not been processed yet"
	NoCodesMessage      = "No diagnostic codes identified in this document"
	NoSummaryMessage    = "No summary was generated for this document"
	NoEvidenceMessage   = "No evidence"
)

// ConfidenceView is a confidence value prepared for display.
type ConfidenceView struct {
	Level   string
	Bar     string
	Value   float64
	Percent int
}

// NewConfidenceView builds the display form of a [0,1] confidence.
func NewConfidenceView(value float64) ConfidenceView {
	return ConfidenceView{
		Value:   value,
		Percent: int(math.Round(value * 100)),
		Level:   GetConfidenceLevel(value),
		Bar:     GetConfidenceBar(value, 10),
	}
}

// ClassificationView shows the document type decision.
type ClassificationView struct {
	Info        model.DocumentTypeInfo
	Rationale   string
	Evidence    []string
	Confidence  ConfidenceView
	HasEvidence bool
}

// CodeView shows one ICD-10 code.
type CodeView struct {
	Code        string
	Description string
	Evidence    []string
	Confidence  ConfidenceView
	HasEvidence bool
}

// SummaryView shows the generated summary.
type SummaryView struct {
	Text        string
	Evidence    []string
	Confidence  ConfidenceView
	HasEvidence bool
}

// ResultView shows a pipeline result.
type ResultView struct {
	Summary        *SummaryView
	CodeCountText  string
	Codes          []CodeView
	Classification ClassificationView
	Complete       bool
}

// NewResultView prepares a pipeline result for display, preserving code order.
func NewResultView(r model.PipelineResult) ResultView {
	view := ResultView{
		Classification: ClassificationView{
			Info:        r.Classification.DocumentType.Info(),
			Rationale:   r.Classification.Rationale,
			Evidence:    r.Classification.Evidence,
			Confidence:  NewConfidenceView(r.Classification.Confidence),
			HasEvidence: len(r.Classification.Evidence) > 0,
		},
		Codes:         make([]CodeView, 0, r.CodeCount()),
		CodeCountText: CodeCountText(r.CodeCount()),
		Complete:      r.IsComplete(),
	}

	for _, c := range r.Codes.Codes {
		view.Codes = append(view.Codes, CodeView{
			Code:        c.Code,
			Description: c.Description,
			Evidence:    c.Evidence,
			Confidence:  NewConfidenceView(c.Confidence),
			HasEvidence: len(c.Evidence) > 0,
		})
	}

	if r.Summary != nil {
		view.Summary = &SummaryView{
			Text:        r.Summary.Summary,
			Evidence:    r.Summary.Evidence,
			Confidence:  NewConfidenceView(r.Summary.Confidence),
			HasEvidence: len(r.Summary.Evidence) > 0,
		}
	}
	return view
}

// resultState places a result on the tail of the precedence order.
func resultState(r *model.PipelineResult) PageState {
	switch {
	case r == nil:
		return StateNotProcessed
	case r.IsComplete():
		return StateComplete
	default:
		return StatePartialResult
	}
}

// CodeCountText renders "N codes identified" with the right plural.
func CodeCountText(n int) string {
	if n == 1 {
		return "1 code identified"
	}
	return fmt.Sprintf("%d codes identified", n)
}

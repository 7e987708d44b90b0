package model

// Classification is the document-type decision made by the pipeline.
// Evidence must be non-nil, empty when nothing was cited; nil encodes as null, which the backend never sends.
type Classification struct {
	DocumentType DocumentType `json:"document_type"`
	Rationale    string       `json:"rationale"`
	Evidence     []string     `json:"evidence"`
	Confidence   float64      `json:"confidence"`
}

// ICD10Code is one extracted diagnostic code. Evidence must be non-nil.
type ICD10Code struct {
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Evidence    []string `json:"evidence"`
	Confidence  float64  `json:"confidence"`
}

// CodeSet mirrors the nested wire shape {"codes": [...]}.
type CodeSet struct {
	Codes []ICD10Code `json:"codes"`
}

// Summary is the generated narrative summary. Evidence must be non-nil.
type Summary struct {
	Summary    string   `json:"summary"`
	Evidence   []string `json:"evidence"`
	Confidence float64  `json:"confidence"`
}

// PipelineResult is the combined output of one pipeline run.
// Codes may be empty and Summary may be nil; both are valid partial results.
type PipelineResult struct {
	Summary        *Summary       `json:"summary,omitempty"`
	Classification Classification `json:"classification"`
	Codes          CodeSet        `json:"codes"`
}

// CodeCount returns the number of extracted codes.
func (p PipelineResult) CodeCount() int {
	return len(p.Codes.Codes)
}

// HasSummary reports whether a summary was produced.
func (p PipelineResult) HasSummary() bool {
	return p.Summary != nil
}

// IsComplete reports whether the run produced codes and a summary.
func (p PipelineResult) IsComplete() bool {
	return p.CodeCount() > 0 && p.HasSummary()
}

// CodeValues returns the bare code strings in server order.
func (p PipelineResult) CodeValues() []string {
	values := make([]string, 0, len(p.Codes.Codes))
	for _, c := range p.Codes.Codes {
		values = append(values, c.Code)
	}
	return values
}

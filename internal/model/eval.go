package model

// CaseMetrics are the per-case evaluation scores.
type CaseMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Coverage  float64 `json:"coverage"`
}

// TestResult is one evaluated case.
type TestResult struct {
	ID               string      `json:"id"`
	DocumentType     string      `json:"document_type"`
	Query            string      `json:"query"`
	GeneratedSummary string      `json:"generated_summary"`
	ExpectedCodes    []string    `json:"expected_codes"`
	PredictedCodes   []string    `json:"predicted_codes"`
	ExpectedFacts    []string    `json:"expected_facts"`
	Metrics          CaseMetrics `json:"metrics"`
}

// CorrectCodes returns expected codes that were predicted, in expected order.
func (r TestResult) CorrectCodes() []string {
	return filterCodes(r.ExpectedCodes, r.PredictedCodes, true)
}

// MissedCodes returns expected codes that were not predicted.
func (r TestResult) MissedCodes() []string {
	return filterCodes(r.ExpectedCodes, r.PredictedCodes, false)
}

// ExtraCodes returns predicted codes that were not expected.
func (r TestResult) ExtraCodes() []string {
	return filterCodes(r.PredictedCodes, r.ExpectedCodes, false)
}

func filterCodes(codes, against []string, keepPresent bool) []string {
	set := make(map[string]struct{}, len(against))
	for _, c := range against {
		set[c] = struct{}{}
	}
	out := []string{}
	for _, c := range codes {
		if _, ok := set[c]; ok == keepPresent {
			out = append(out, c)
		}
	}
	return out
}

// EvalReport is the aggregate evaluation of the pipeline.
type EvalReport struct {
	Mode            string       `json:"mode"`
	TestResults     []TestResult `json:"test_results"`
	Items           int          `json:"items"`
	CodesPrecision  float64      `json:"codes_precision"`
	CodesRecall     float64      `json:"codes_recall"`
	CodesF1         float64      `json:"codes_f1"`
	SummaryCoverage float64      `json:"summary_coverage"`
}

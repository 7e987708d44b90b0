package schema

// Wire structs decode with pointer fields so a missing field is told apart from a zero value.

// listField wraps top-level arrays so they validate as a struct field.
const listField = "items"

type classificationWire struct {
	DocumentType *string  `json:"document_type" validate:"required,doctype"`
	Confidence   *float64 `json:"confidence" validate:"required,confidence"`
	Rationale    *string  `json:"rationale" validate:"required"`
	Evidence     []string `json:"evidence" validate:"required"`
}

type icd10Wire struct {
	Code        *string  `json:"code" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Confidence  *float64 `json:"confidence" validate:"required,confidence"`
	Evidence    []string `json:"evidence" validate:"required"`
}

type codeSetWire struct {
	Codes []*icd10Wire `json:"codes" validate:"required,dive,required"`
}

type summaryWire struct {
	Summary    *string  `json:"summary" validate:"required"`
	Confidence *float64 `json:"confidence" validate:"required,confidence"`
	Evidence   []string `json:"evidence" validate:"required"`
}

type pipelineWire struct {
	Classification *classificationWire `json:"classification" validate:"required"`
	Codes          *codeSetWire        `json:"codes" validate:"required"`
	Summary        *summaryWire        `json:"summary" validate:"omitempty"`
}

type documentWire struct {
	ID               *int    `json:"id" validate:"required"`
	OriginalFilename *string `json:"original_filename" validate:"required"`
	CreatedAt        *string `json:"created_at" validate:"required"`
	LocalPath        *string `json:"local_path"`
}

type documentListWire struct {
	Items []*documentWire `json:"items" validate:"required,dive,required"`
}

type documentWithResultsWire struct {
	ID               *int          `json:"id" validate:"required"`
	OriginalFilename *string       `json:"original_filename" validate:"required"`
	CreatedAt        *string       `json:"created_at" validate:"required"`
	LocalPath        *string       `json:"local_path"`
	Results          *pipelineWire `json:"results" validate:"omitempty"`
}

type uploadResponseWire struct {
	DocumentID *int          `json:"document_id" validate:"required"`
	Processed  *bool         `json:"processed" validate:"required"`
	Results    *pipelineWire `json:"results" validate:"omitempty"`
}

type termExplanationWire struct {
	Term    *string `json:"term" validate:"required"`
	Simple  string  `json:"simple"`
	Meaning string  `json:"meaning"`
}

type translateWire struct {
	TranslatedText *string                `json:"translated_text" validate:"required"`
	Explanations   []*termExplanationWire `json:"explanations" validate:"omitempty,dive,required"`
}

type chatWire struct {
	Answer            *string  `json:"answer" validate:"required"`
	Confidence        *float64 `json:"confidence" validate:"required,confidence"`
	Sources           []string `json:"sources"`
	FollowUpQuestions []string `json:"follow_up_questions"`
}

type medicationWire struct {
	Name         *string `json:"name" validate:"required"`
	Dosage       string  `json:"dosage"`
	Frequency    string  `json:"frequency"`
	Instructions string  `json:"instructions"`
}

type medicationsWire struct {
	Medications []*medicationWire `json:"medications" validate:"required,dive,required"`
	Error       *string           `json:"error"`
}

type interactionWire struct {
	Severity            *string  `json:"severity" validate:"required,oneof=mild moderate severe"`
	Description         *string  `json:"description" validate:"required"`
	MedicationsInvolved []string `json:"medications_involved"`
	Recommendation      string   `json:"recommendation"`
}

type interactionsWire struct {
	Interactions       []*interactionWire `json:"interactions" validate:"required,dive,required"`
	Warnings           []string           `json:"warnings"`
	SafeToTakeTogether *bool              `json:"safe_to_take_together"`
	Error              *string            `json:"error"`
}

type actionItemsWire struct {
	ActionItems []string `json:"action_items"`
	Questions   []string `json:"questions"`
	Reminders   []string `json:"reminders"`
	Urgency     *string  `json:"urgency" validate:"required,oneof=routine urgent emergency"`
}

type caseMetricsWire struct {
	Precision *float64 `json:"precision" validate:"required,unit"`
	Recall    *float64 `json:"recall" validate:"required,unit"`
	F1        *float64 `json:"f1" validate:"required,unit"`
	Coverage  *float64 `json:"coverage" validate:"required,unit"`
}

type testResultWire struct {
	ID               *string          `json:"id" validate:"required"`
	DocumentType     string           `json:"document_type"`
	Query            string           `json:"query"`
	ExpectedCodes    []string         `json:"expected_codes"`
	PredictedCodes   []string         `json:"predicted_codes"`
	ExpectedFacts    []string         `json:"expected_facts"`
	GeneratedSummary string           `json:"generated_summary"`
	Metrics          *caseMetricsWire `json:"metrics" validate:"required"`
}

type evalReportWire struct {
	Items           *int              `json:"items" validate:"required,gte=0"`
	CodesPrecision  *float64          `json:"codes_precision" validate:"required,unit"`
	CodesRecall     *float64          `json:"codes_recall" validate:"required,unit"`
	CodesF1         *float64          `json:"codes_f1" validate:"required,unit"`
	SummaryCoverage *float64          `json:"summary_coverage" validate:"required,unit"`
	Mode            string            `json:"mode"`
	TestResults     []*testResultWire `json:"test_results" validate:"omitempty,dive,required"`
}

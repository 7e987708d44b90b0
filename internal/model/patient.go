package model

// TermExplanation explains one medical term in plain language.
type TermExplanation struct {
	Term    string `json:"term"`
	Simple  string `json:"simple"`
	Meaning string `json:"meaning"`
}

// TranslateResponse is a patient-friendly rewrite of a document.
type TranslateResponse struct {
	TranslatedText string            `json:"translated_text"`
	Explanations   []TermExplanation `json:"explanations"`
}

// ChatTurn is one answered question, sent back as conversation history.
type ChatTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ChatResponse answers a question about a document.
type ChatResponse struct {
	Answer            string   `json:"answer"`
	Sources           []string `json:"sources"`
	FollowUpQuestions []string `json:"follow_up_questions,omitempty"`
	Confidence        float64  `json:"confidence"`
}

// Medication is one medication found in a document.
type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Instructions string `json:"instructions"`
}

// MedicationsResponse lists extracted medications. Error is set when the backend degraded.
type MedicationsResponse struct {
	Error       string       `json:"error,omitempty"`
	Medications []Medication `json:"medications"`
}

// Severity grades a drug interaction.
type Severity string

// Interaction severities.
const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Interaction describes one drug interaction.
type Interaction struct {
	Severity            Severity `json:"severity"`
	Description         string   `json:"description"`
	Recommendation      string   `json:"recommendation"`
	MedicationsInvolved []string `json:"medications_involved"`
}

// InteractionsResponse is the result of an interaction check.
type InteractionsResponse struct {
	SafeToTakeTogether *bool         `json:"safe_to_take_together,omitempty"`
	Error              string        `json:"error,omitempty"`
	Interactions       []Interaction `json:"interactions"`
	Warnings           []string      `json:"warnings"`
}

// MostSevere returns the highest severity present, or "" when there are no interactions.
func (r InteractionsResponse) MostSevere() Severity {
	rank := map[Severity]int{SeverityMild: 1, SeverityModerate: 2, SeveritySevere: 3}
	var worst Severity
	for _, i := range r.Interactions {
		if rank[i.Severity] > rank[worst] {
			worst = i.Severity
		}
	}
	return worst
}

// Urgency grades how soon a patient should act.
type Urgency string

// Urgency levels.
const (
	UrgencyRoutine   Urgency = "routine"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// ActionItemsResponse lists follow-ups extracted from a document.
type ActionItemsResponse struct {
	Urgency     Urgency  `json:"urgency"`
	ActionItems []string `json:"action_items"`
	Questions   []string `json:"questions"`
	Reminders   []string `json:"reminders"`
}

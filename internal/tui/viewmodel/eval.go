package viewmodel

import (
	"fmt"

	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/query"
)

// DefaultMetricThreshold is the score at which a metric counts as good.
const DefaultMetricThreshold = 0.7

// MetricLevel grades a metric against its threshold.
type MetricLevel int

const (
	// MetricPoor is below 70% of the threshold.
	MetricPoor MetricLevel = iota
	// MetricFair is at least 70% of the threshold.
	MetricFair
	// MetricGood meets the threshold.
	MetricGood
)

// String returns a string representation of the metric level.
func (l MetricLevel) String() string {
	switch l {
	case MetricPoor:
		return "Poor"
	case MetricFair:
		return "Fair"
	case MetricGood:
		return "Good"
	default:
		return fmt.Sprintf("Unknown(%d)", l)
	}
}

// MetricBadge is a labeled, graded score.
type MetricBadge struct {
	Label string
	Text  string
	Value float64
	Level MetricLevel
}

// NewMetricBadge grades value against threshold.
func NewMetricBadge(label string, value, threshold float64) MetricBadge {
	level := MetricPoor
	switch {
	case value >= threshold:
		level = MetricGood
	case value >= threshold*0.7:
		level = MetricFair
	}
	return MetricBadge{
		Label: label,
		Value: value,
		Text:  fmt.Sprintf("%.2f", value),
		Level: level,
	}
}

// TestCaseView is one evaluated case.
type TestCaseView struct {
	ID            string
	DocumentType  string
	Query         string
	Summary       string
	ExpectedFacts []string
	Correct       []string
	Missed        []string
	Extra         []string
	Badges        []MetricBadge
}

// EvalReportView is the evaluation report page.
type EvalReportView struct {
	Mode       string
	Metrics    []MetricBadge
	Cases      []TestCaseView
	Error      ErrorView
	Items      int
	State      PageState
	Refreshing bool
}

// DeriveEvalReport derives the report page. A report with no items is an empty list.
func DeriveEvalReport(s query.State[model.EvalReport]) EvalReportView {
	view := EvalReportView{Refreshing: s.Refreshing}

	if state, final := baseState(s.Status, s.HasData); final {
		view.State = state
		if state == StateError {
			view.Error = NewErrorView(s.Err)
		}
		return view
	}

	report := s.Data
	view.Mode = report.Mode
	view.Items = report.Items
	if report.Items == 0 && len(report.TestResults) == 0 {
		view.State = StateEmptyList
		return view
	}

	view.State = StateComplete
	view.Metrics = []MetricBadge{
		NewMetricBadge("Precision", report.CodesPrecision, DefaultMetricThreshold),
		NewMetricBadge("Recall", report.CodesRecall, DefaultMetricThreshold),
		NewMetricBadge("F1", report.CodesF1, DefaultMetricThreshold),
		NewMetricBadge("Coverage", report.SummaryCoverage, DefaultMetricThreshold),
	}

	view.Cases = make([]TestCaseView, 0, len(report.TestResults))
	for _, r := range report.TestResults {
		view.Cases = append(view.Cases, TestCaseView{
			ID:            r.ID,
			DocumentType:  r.DocumentType,
			Query:         r.Query,
			Summary:       r.GeneratedSummary,
			ExpectedFacts: r.ExpectedFacts,
			Correct:       r.CorrectCodes(),
			Missed:        r.MissedCodes(),
			Extra:         r.ExtraCodes(),
			Badges: []MetricBadge{
				NewMetricBadge("F1", r.Metrics.F1, DefaultMetricThreshold),
				NewMetricBadge("Coverage", r.Metrics.Coverage, DefaultMetricThreshold),
			},
		})
	}
	return view
}

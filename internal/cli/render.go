package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/meddoc/internal/tui/viewmodel"
)

// Empty and loading messages shared by the page renderers.
const (
	LoadingMessage    = "Loading..."
	EmptyListMessage  = "No documents uploaded yet"
	EmptyEvalMessage  = "No evaluation results available"
	IdleMessage       = "Nothing requested yet"
	evidenceIndent    = "      "
	maxFilenameLength = 48
)

// RenderError renders an error view with its retry affordance.
// retry is the command that repeats the request.
func RenderError(view viewmodel.ErrorView, retry string) string {
	var b strings.Builder
	b.WriteString(FormatError(view.Message))
	b.WriteString("\n")
	if view.Detail != "" {
		b.WriteString(SubtleStyle.Render("  " + view.Detail))
		b.WriteString("\n")
	}
	if view.CanRetry && retry != "" {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("  %s Retry with: %s", RetryIcon, retry)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderDocumentList renders the document list page as a table.
func RenderDocumentList(view viewmodel.DocumentListView, retry string) string {
	switch view.State {
	case viewmodel.StateError:
		return RenderError(view.Error, retry)
	case viewmodel.StateLoading:
		return SubtleStyle.Render(LoadingMessage) + "\n"
	case viewmodel.StateIdle:
		return SubtleStyle.Render(IdleMessage) + "\n"
	case viewmodel.StateEmptyList:
		return FormatInfo(EmptyListMessage) + "\n"
	}

	idWidth := len("ID")
	nameWidth := len("Filename")
	for _, item := range view.Items {
		idWidth = max(idWidth, len(fmt.Sprint(item.ID)))
		nameWidth = max(nameWidth, lipgloss.Width(viewmodel.TruncateString(item.Filename, maxFilenameLength)))
	}

	var b strings.Builder
	b.WriteString(FormatTitle("Documents"))
	b.WriteString("\n")
	header := fmt.Sprintf("%-*s  %-*s  %s", idWidth, "ID", nameWidth, "Filename", "Uploaded")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")
	for _, item := range view.Items {
		name := viewmodel.TruncateString(item.Filename, maxFilenameLength)
		pad := nameWidth - lipgloss.Width(name)
		fmt.Fprintf(&b, "%-*d  %s%s  %s\n", idWidth, item.ID, name, strings.Repeat(" ", pad), SubtleStyle.Render(item.Created))
	}
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%d documents", len(view.Items))))
	b.WriteString("\n")
	return b.String()
}

// RenderDocumentDetail renders one document and its pipeline result.
func RenderDocumentDetail(view viewmodel.DocumentDetailView, retry string) string {
	switch view.State {
	case viewmodel.StateError:
		if view.Error.NotFound {
			return FormatError("Document not found") + "\n"
		}
		return RenderError(view.Error, retry)
	case viewmodel.StateLoading:
		return SubtleStyle.Render(LoadingMessage) + "\n"
	case viewmodel.StateIdle:
		return SubtleStyle.Render(IdleMessage) + "\n"
	}

	var b strings.Builder
	b.WriteString(FormatTitle(fmt.Sprintf("%s %s", DocumentIcon, view.Document.Filename)))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("Document #%d · uploaded %s", view.Document.ID, view.Document.Created)))
	b.WriteString("\n\n")

	if view.State == viewmodel.StateNotProcessed || view.Result == nil {
		b.WriteString(FormatInfo(viewmodel.NotProcessedMessage))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(RenderResult(*view.Result))
	return b.String()
}

// RenderUpload renders the outcome of an upload.
func RenderUpload(view viewmodel.UploadView, retry string) string {
	switch view.State {
	case viewmodel.StateError:
		return RenderError(view.Error, retry)
	case viewmodel.StateLoading, viewmodel.StateIdle:
		return SubtleStyle.Render("Uploading...") + "\n"
	}

	var b strings.Builder
	b.WriteString(FormatSuccess(fmt.Sprintf("Uploaded as document #%d", view.DocumentID)))
	b.WriteString("\n")
	if view.Warning != "" {
		b.WriteString(FormatWarning(view.Warning))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if view.Result == nil {
		b.WriteString(FormatInfo(viewmodel.NotProcessedMessage))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(RenderResult(*view.Result))
	return b.String()
}

// RenderResult renders classification, codes and summary. It is shared by the
// detail and upload pages so both show results identically.
func RenderResult(r viewmodel.ResultView) string {
	var b strings.Builder

	b.WriteString(BoldStyle.Render("Classification"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s  %s\n", DocumentTypeBadge(r.Classification.Info), renderConfidence(r.Classification.Confidence))
	if r.Classification.Rationale != "" {
		fmt.Fprintf(&b, "  %s\n", r.Classification.Rationale)
	}
	b.WriteString(renderEvidence(r.Classification.Evidence, "    "))
	b.WriteString("\n")

	b.WriteString(BoldStyle.Render("ICD-10 Codes"))
	b.WriteString(SubtleStyle.Render("  " + r.CodeCountText))
	b.WriteString("\n")
	if len(r.Codes) == 0 {
		fmt.Fprintf(&b, "  %s\n", SubtleStyle.Render(viewmodel.NoCodesMessage))
	}
	for _, c := range r.Codes {
		fmt.Fprintf(&b, "  %s  %s  %s\n", BoldStyle.Render(c.Code), c.Description, renderConfidence(c.Confidence))
		b.WriteString(renderEvidence(c.Evidence, evidenceIndent))
	}
	b.WriteString("\n")

	b.WriteString(BoldStyle.Render("Summary"))
	b.WriteString("\n")
	if r.Summary == nil {
		fmt.Fprintf(&b, "  %s\n", SubtleStyle.Render(viewmodel.NoSummaryMessage))
		return b.String()
	}
	fmt.Fprintf(&b, "  %s\n", renderConfidence(r.Summary.Confidence))
	fmt.Fprintf(&b, "  %s\n", r.Summary.Text)
	b.WriteString(renderEvidence(r.Summary.Evidence, "    "))
	return b.String()
}

// RenderEvalReport renders the evaluation report page.
func RenderEvalReport(view viewmodel.EvalReportView, retry string) string {
	switch view.State {
	case viewmodel.StateError:
		return RenderError(view.Error, retry)
	case viewmodel.StateLoading, viewmodel.StateIdle:
		return SubtleStyle.Render(LoadingMessage) + "\n"
	case viewmodel.StateEmptyList:
		return FormatInfo(EmptyEvalMessage) + "\n"
	}

	var b strings.Builder
	b.WriteString(FormatTitle(ChartIcon + " Evaluation Report"))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%d items · mode %s", view.Items, view.Mode)))
	b.WriteString("\n\n")
	b.WriteString(renderBadges(view.Metrics))
	b.WriteString("\n")

	for _, c := range view.Cases {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s  %s  %s\n", BoldStyle.Render(c.ID), SubtleStyle.Render(c.DocumentType), renderBadges(c.Badges))
		if len(c.Correct) > 0 {
			fmt.Fprintf(&b, "  %s %s\n", SuccessStyle.Render("correct"), strings.Join(c.Correct, ", "))
		}
		if len(c.Missed) > 0 {
			fmt.Fprintf(&b, "  %s %s\n", ErrorStyle.Render("missed "), strings.Join(c.Missed, ", "))
		}
		if len(c.Extra) > 0 {
			fmt.Fprintf(&b, "  %s %s\n", WarningStyle.Render("extra  "), strings.Join(c.Extra, ", "))
		}
	}
	return b.String()
}

func renderBadges(badges []viewmodel.MetricBadge) string {
	parts := make([]string, 0, len(badges))
	for _, badge := range badges {
		parts = append(parts, fmt.Sprintf("%s %s", badge.Label, MetricStyle(badge.Level).Render(badge.Text)))
	}
	return strings.Join(parts, "   ")
}

func renderConfidence(c viewmodel.ConfidenceView) string {
	return ConfidenceStyle(c.Level).Render(fmt.Sprintf("%s %d%%", c.Bar, c.Percent))
}

func renderEvidence(evidence []string, indent string) string {
	if len(evidence) == 0 {
		return indent + SubtleStyle.Render(viewmodel.NoEvidenceMessage) + "\n"
	}
	var b strings.Builder
	for _, e := range evidence {
		fmt.Fprintf(&b, "%s%s %s\n", indent, SubtleStyle.Render("›"), e)
	}
	return b.String()
}

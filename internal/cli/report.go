package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/meddoc/internal/tui/viewmodel"
)

// ErrNothingToExport is returned when a detail page has no document to export.
var ErrNothingToExport = errors.New("document has nothing to export")

// WriteMarkdownReport writes a document's results as a markdown summary report.
func WriteMarkdownReport(w io.Writer, view viewmodel.DocumentDetailView, generated time.Time) error {
	switch view.State {
	case viewmodel.StateNotProcessed, viewmodel.StatePartialResult, viewmodel.StateComplete:
	default:
		return fmt.Errorf("%w: page is %s", ErrNothingToExport, view.State)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(view.Document.Filename))
	fmt.Fprintf(&b, "- Document ID: %d\n", view.Document.ID)
	fmt.Fprintf(&b, "- Uploaded: %s\n", view.Document.Created)
	fmt.Fprintf(&b, "- Report generated: %s\n\n", viewmodel.FormatDateTime(generated))

	if view.Result == nil {
		fmt.Fprintf(&b, "_%s._\n", viewmodel.NotProcessedMessage)
		_, err := io.WriteString(w, b.String())
		return err
	}
	r := view.Result

	b.WriteString("## Classification\n\n")
	fmt.Fprintf(&b, "**%s** (%d%% confidence)\n\n", r.Classification.Info.Label, r.Classification.Confidence.Percent)
	if r.Classification.Rationale != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Classification.Rationale)
	}
	writeMarkdownEvidence(&b, r.Classification.Evidence)

	b.WriteString("## ICD-10 Codes\n\n")
	if len(r.Codes) == 0 {
		fmt.Fprintf(&b, "_%s._\n\n", viewmodel.NoCodesMessage)
	} else {
		b.WriteString("| Code | Description | Confidence |\n")
		b.WriteString("|------|-------------|------------|\n")
		for _, c := range r.Codes {
			fmt.Fprintf(&b, "| %s | %s | %d%% |\n", c.Code, escapeTableCell(c.Description), c.Confidence.Percent)
		}
		b.WriteString("\n")
		for _, c := range r.Codes {
			if !c.HasEvidence {
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n", c.Code)
			writeMarkdownEvidence(&b, c.Evidence)
		}
	}

	b.WriteString("## Summary\n\n")
	if r.Summary == nil {
		fmt.Fprintf(&b, "_%s._\n", viewmodel.NoSummaryMessage)
	} else {
		fmt.Fprintf(&b, "%s\n\n", r.Summary.Text)
		fmt.Fprintf(&b, "Confidence: %d%%\n\n", r.Summary.Confidence.Percent)
		writeMarkdownEvidence(&b, r.Summary.Evidence)
	}

	_, err := io.WriteString(w, strings.TrimRight(b.String(), "\n")+"\n")
	return err
}

func writeMarkdownEvidence(b *strings.Builder, evidence []string) {
	if len(evidence) == 0 {
		return
	}
	b.WriteString("Evidence:\n\n")
	for _, e := range evidence {
		fmt.Fprintf(b, "> %s\n", e)
	}
	b.WriteString("\n")
}

var markdownEscaper = strings.NewReplacer("#", `\#`, "*", `\*`, "_", `\_`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func escapeTableCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

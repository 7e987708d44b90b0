package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/meddoc/internal/model"
)

// RenderTranslation renders a patient-friendly rewrite and its glossary.
func RenderTranslation(r model.TranslateResponse) string {
	var b strings.Builder
	b.WriteString(FormatTitle("In plain language"))
	b.WriteString("\n")
	b.WriteString(r.TranslatedText)
	b.WriteString("\n")

	if len(r.Explanations) > 0 {
		b.WriteString("\n")
		b.WriteString(BoldStyle.Render("Terms explained"))
		b.WriteString("\n")
		for _, e := range r.Explanations {
			fmt.Fprintf(&b, "  %s  %s\n", BoldStyle.Render(e.Term), SubtleStyle.Render(e.Simple))
			if e.Meaning != "" {
				fmt.Fprintf(&b, "    %s\n", e.Meaning)
			}
		}
	}
	return b.String()
}

// RenderChatAnswer renders one answer with its sources and suggested follow-ups.
func RenderChatAnswer(r model.ChatResponse) string {
	var b strings.Builder
	b.WriteString(r.Answer)
	b.WriteString("\n")
	if len(r.Sources) > 0 {
		b.WriteString(SubtleStyle.Render("Sources:"))
		b.WriteString("\n")
		for _, s := range r.Sources {
			fmt.Fprintf(&b, "  %s %s\n", SubtleStyle.Render("›"), s)
		}
	}
	if len(r.FollowUpQuestions) > 0 {
		b.WriteString(InfoStyle.Render("You might also ask:"))
		b.WriteString("\n")
		for _, q := range r.FollowUpQuestions {
			fmt.Fprintf(&b, "  • %s\n", q)
		}
	}
	return b.String()
}

// RenderMedications renders extracted medications.
func RenderMedications(r model.MedicationsResponse) string {
	var b strings.Builder
	b.WriteString(FormatTitle(PillIcon + " Medications"))
	b.WriteString("\n")
	if r.Error != "" {
		b.WriteString(FormatWarning(r.Error))
		b.WriteString("\n")
	}
	if len(r.Medications) == 0 {
		b.WriteString(SubtleStyle.Render("No medications found"))
		b.WriteString("\n")
		return b.String()
	}
	for _, m := range r.Medications {
		line := BoldStyle.Render(m.Name)
		details := nonEmpty(m.Dosage, m.Frequency)
		if len(details) > 0 {
			line += "  " + strings.Join(details, ", ")
		}
		b.WriteString("  " + line + "\n")
		if m.Instructions != "" {
			fmt.Fprintf(&b, "    %s\n", SubtleStyle.Render(m.Instructions))
		}
	}
	return b.String()
}

// RenderInteractions renders an interaction check.
func RenderInteractions(r model.InteractionsResponse) string {
	var b strings.Builder
	b.WriteString(FormatTitle("Drug interactions"))
	b.WriteString("\n")
	if r.Error != "" {
		b.WriteString(FormatWarning(r.Error))
		b.WriteString("\n")
	}

	switch {
	case r.SafeToTakeTogether != nil && *r.SafeToTakeTogether:
		b.WriteString(FormatSuccess("Safe to take together"))
	case r.SafeToTakeTogether != nil:
		b.WriteString(FormatError("Not recommended together"))
	case len(r.Interactions) == 0:
		b.WriteString(FormatInfo("No interactions found"))
	}
	b.WriteString("\n")

	for _, i := range r.Interactions {
		fmt.Fprintf(&b, "\n  %s  %s\n", severityStyle(i.Severity).Render(strings.ToUpper(string(i.Severity))), strings.Join(i.MedicationsInvolved, " + "))
		fmt.Fprintf(&b, "    %s\n", i.Description)
		if i.Recommendation != "" {
			fmt.Fprintf(&b, "    %s %s\n", InfoStyle.Render("→"), i.Recommendation)
		}
	}
	for _, w := range r.Warnings {
		b.WriteString(FormatWarning(w))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderActionItems renders follow-ups by urgency.
func RenderActionItems(r model.ActionItemsResponse) string {
	var b strings.Builder
	b.WriteString(FormatTitle("Next steps"))
	b.WriteString("\n")
	b.WriteString(urgencyStyle(r.Urgency).Render("Urgency: " + string(r.Urgency)))
	b.WriteString("\n")

	sections := []struct {
		title string
		items []string
	}{
		{"Action items", r.ActionItems},
		{"Questions for your doctor", r.Questions},
		{"Reminders", r.Reminders},
	}
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(BoldStyle.Render(s.title))
		b.WriteString("\n")
		for _, item := range s.items {
			fmt.Fprintf(&b, "  • %s\n", item)
		}
	}
	return b.String()
}

func severityStyle(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeveritySevere:
		return ErrorStyle.Bold(true)
	case model.SeverityModerate:
		return WarningStyle
	default:
		return InfoStyle
	}
}

func urgencyStyle(u model.Urgency) lipgloss.Style {
	switch u {
	case model.UrgencyEmergency:
		return ErrorStyle.Bold(true)
	case model.UrgencyUrgent:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

package viewmodel

import (
	"fmt"
	"strings"
	"time"
)

// String returns a string representation of the page state.
func (s PageState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StateError:
		return "Error"
	case StateEmptyList:
		return "EmptyList"
	case StateNotProcessed:
		return "NotProcessed"
	case StatePartialResult:
		return "PartialResult"
	case StateComplete:
		return "Complete"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// String returns a string representation of the page.
func (p Page) String() string {
	switch p {
	case PageList:
		return "List"
	case PageDetail:
		return "Detail"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// TruncateString truncates a string to maxLen runes with an ellipsis.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// FormatDate formats a date for consistent display.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDateTime formats a timestamp to the minute.
func FormatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// GetConfidenceBar returns a visual confidence bar representation.
func GetConfidenceBar(confidence float64, width int) string {
	if width <= 0 {
		return ""
	}

	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	filled := int(confidence * float64(width))
	empty := width - filled

	return strings.Repeat("█", filled) + strings.Repeat("░", empty)
}

// GetConfidenceLevel returns a human-readable confidence level.
func GetConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "High"
	case confidence >= 0.5:
		return "Medium"
	default:
		return "Low"
	}
}

// SanitizeForDisplay removes potentially problematic characters for terminal display.
func SanitizeForDisplay(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return ' '
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		if seconds > 0 {
			return fmt.Sprintf("%dm %ds", minutes, seconds)
		}
		return fmt.Sprintf("%dm", minutes)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dh", hours)
}

package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation matches every payload that failed to decode or validate.
	ErrValidation = errors.New("validation failed")
	// ErrUnrecognizedDocumentType is the validation failure for a document type outside the known set.
	ErrUnrecognizedDocumentType = fmt.Errorf("%w: unrecognized document type", ErrValidation)
)

// ValidationError describes why a payload was rejected.
// Path is the JSON path of the offending field, empty for the payload root.
type ValidationError struct {
	Kind   error
	Schema string
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid %s: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s %s", e.Schema, e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	if e.Kind != nil {
		return e.Kind
	}
	return ErrValidation
}

// Part names the pipeline sub-schema that failed: classification, codes or summary.
// It returns "" for failures outside a pipeline result.
func (e *ValidationError) Part() string {
	path := strings.TrimPrefix(e.Path, "results.")
	head, _, _ := strings.Cut(path, ".")
	head, _, _ = strings.Cut(head, "[")
	switch head {
	case "classification", "codes", "summary":
		return head
	default:
		return ""
	}
}

// IsValidation reports whether err is a validation failure of any kind.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

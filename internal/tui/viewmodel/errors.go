package viewmodel

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/meddoc/internal/api"
	"github.com/Veraticus/meddoc/internal/schema"
)

// ErrorKind classifies a failure for presentation.
type ErrorKind int

const (
	// ErrorKindOther is any failure not covered below.
	ErrorKindOther ErrorKind = iota
	// ErrorKindValidation is a response that failed schema validation.
	ErrorKindValidation
	// ErrorKindTransport is a request that got no response.
	ErrorKindTransport
	// ErrorKindServer is a non-2xx response.
	ErrorKindServer
	// ErrorKindCanceled is a request the user abandoned.
	ErrorKindCanceled
)

// User-facing error messages.
const (
	MessageUnexpectedResponse = "Unexpected server response"
	MessageUnreachable        = "Unable to reach the server"
	MessageCanceled           = "Request canceled"
)

// ErrorView is the error state of any page. Every error view offers a retry.
type ErrorView struct {
	Message  string
	Detail   string
	Kind     ErrorKind
	CanRetry bool
	NotFound bool
}

// NewErrorView maps an error from any layer onto what a user should read.
func NewErrorView(err error) ErrorView {
	view := ErrorView{CanRetry: true}
	if err == nil {
		view.Message = "Something went wrong"
		return view
	}

	var (
		validationErr *schema.ValidationError
		transportErr  *api.TransportError
		serverErr     *api.ServerError
	)

	switch {
	case errors.As(err, &validationErr):
		view.Kind = ErrorKindValidation
		view.Message = MessageUnexpectedResponse
		view.Detail = validationErr.Error()
		if errors.Is(err, schema.ErrUnrecognizedDocumentType) {
			view.Detail = "unrecognized document type: " + validationErr.Error()
		}
	case errors.As(err, &serverErr):
		view.Kind = ErrorKindServer
		view.Message = serverErr.Message()
		view.Detail = fmt.Sprintf("HTTP %d during %s", serverErr.StatusCode, serverErr.Op)
		view.NotFound = serverErr.NotFound()
	case errors.As(err, &transportErr):
		view.Kind = ErrorKindTransport
		view.Message = MessageUnreachable
		view.Detail = transportErr.Err.Error()
		if transportErr.CircuitOpen() {
			view.Detail = "requests paused after repeated connection failures"
		}
	case errors.Is(err, context.Canceled):
		view.Kind = ErrorKindCanceled
		view.Message = MessageCanceled
	default:
		view.Message = err.Error()
	}
	return view
}

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindOther:
		return "Other"
	case ErrorKindValidation:
		return "Validation"
	case ErrorKindTransport:
		return "Transport"
	case ErrorKindServer:
		return "Server"
	case ErrorKindCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

package viewmodel

import (
	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/query"
)

// Upload warnings for responses whose processed flag disagrees with their results.
const (
	WarningProcessedWithoutResults = "Server reported the document as processed but returned no results"
	WarningResultsWithoutProcessed = "Server returned results for a document it reported as unprocessed"
)

// UploadView is the upload page after a file was sent.
type UploadView struct {
	Result     *ResultView
	Warning    string
	Error      ErrorView
	State      PageState
	DocumentID int
}

// DeriveUpload derives the upload page. The presence of results decides what renders.
func DeriveUpload(s query.State[model.UploadResponse]) UploadView {
	var view UploadView

	if state, final := baseState(s.Status, s.HasData); final {
		view.State = state
		if state == StateError {
			view.Error = NewErrorView(s.Err)
		}
		return view
	}

	resp := s.Data
	view.DocumentID = resp.DocumentID
	view.State = resultState(resp.Results)
	if resp.Results != nil {
		result := NewResultView(*resp.Results)
		view.Result = &result
	}

	switch {
	case resp.Processed && resp.Results == nil:
		view.Warning = WarningProcessedWithoutResults
	case !resp.Processed && resp.Results != nil:
		view.Warning = WarningResultsWithoutProcessed
	}
	return view
}

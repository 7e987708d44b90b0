package viewmodel

import (
	"time"

	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/query"
)

// DocumentItemView is one row of the document list.
type DocumentItemView struct {
	CreatedAt time.Time
	Filename  string
	Created   string
	LocalPath string
	ID        int
}

// NewDocumentItemView prepares a document for display. Unparseable timestamps are shown verbatim.
func NewDocumentItemView(d model.Document) DocumentItemView {
	item := DocumentItemView{
		ID:        d.ID,
		Filename:  SanitizeForDisplay(d.OriginalFilename),
		LocalPath: d.LocalPath,
		Created:   d.CreatedAt,
	}
	if t, ok := d.CreatedTime(); ok {
		item.CreatedAt = t
		item.Created = FormatDateTime(t)
	}
	return item
}

// DocumentListView is the document list page.
type DocumentListView struct {
	Items      []DocumentItemView
	Error      ErrorView
	State      PageState
	Refreshing bool
}

// DeriveDocumentList derives the list page from its query state.
func DeriveDocumentList(s query.State[[]model.Document]) DocumentListView {
	view := DocumentListView{Refreshing: s.Refreshing}

	if state, final := baseState(s.Status, s.HasData); final {
		view.State = state
		if state == StateError {
			view.Error = NewErrorView(s.Err)
		}
		return view
	}

	if len(s.Data) == 0 {
		view.State = StateEmptyList
		return view
	}

	view.State = StateComplete
	view.Items = make([]DocumentItemView, 0, len(s.Data))
	for _, d := range s.Data {
		view.Items = append(view.Items, NewDocumentItemView(d))
	}
	return view
}

// DocumentDetailView is the document detail page.
type DocumentDetailView struct {
	Result     *ResultView
	Error      ErrorView
	Document   DocumentItemView
	State      PageState
	Refreshing bool
}

// DeriveDocumentDetail derives the detail page from its query state.
func DeriveDocumentDetail(s query.State[model.DocumentWithResults]) DocumentDetailView {
	view := DocumentDetailView{Refreshing: s.Refreshing}

	if state, final := baseState(s.Status, s.HasData); final {
		view.State = state
		if state == StateError {
			view.Error = NewErrorView(s.Err)
		}
		return view
	}

	view.Document = NewDocumentItemView(s.Data.Document)
	view.State = resultState(s.Data.Results)
	if s.Data.Results != nil {
		result := NewResultView(*s.Data.Results)
		view.Result = &result
	}
	return view
}

// Package viewmodel derives render-ready page views from query state.
// Every function here is pure: the same input always yields the same view.
package viewmodel

import "github.com/Veraticus/meddoc/internal/query"

// PageState is the single state a page renders.
type PageState int

const (
	// StateIdle means nothing has been requested yet.
	StateIdle PageState = iota
	// StateLoading means a request is in flight and there is no data to show.
	StateLoading
	// StateError means the last request failed. It wins over stale data.
	StateError
	// StateEmptyList means a list loaded with no items.
	StateEmptyList
	// StateNotProcessed means a document has no pipeline results.
	StateNotProcessed
	// StatePartialResult means results exist but codes are empty or the summary is missing.
	StatePartialResult
	// StateComplete means everything the page shows is present.
	StateComplete
)

// Page identifies a browser page.
type Page int

const (
	// PageList is the document list.
	PageList Page = iota
	// PageDetail is one document's results.
	PageDetail
)

// AppView is the whole browser view.
type AppView struct {
	StatusMessage string
	KeyBindings   []KeyBinding
	List          DocumentListView
	Detail        DocumentDetailView
	Page          Page
	Width         int
	Height        int
	ShowHelp      bool
}

// KeyBinding represents a keyboard shortcut.
type KeyBinding struct {
	Key         string
	Description string
	IsActive    bool
}

// GetActiveKeyBindings returns only the currently active key bindings.
func (av AppView) GetActiveKeyBindings() []KeyBinding {
	var active []KeyBinding
	for _, kb := range av.KeyBindings {
		if kb.IsActive {
			active = append(active, kb)
		}
	}
	return active
}

// IsBusy reports whether the visible page is loading or refreshing.
func (av AppView) IsBusy() bool {
	if av.Page == PageDetail {
		return av.Detail.State == StateLoading || av.Detail.Refreshing
	}
	return av.List.State == StateLoading || av.List.Refreshing
}

// baseState applies the shared head of the precedence order: idle, loading, error.
// It returns false when the page should go on to inspect its data.
func baseState(status query.Status, hasData bool) (PageState, bool) {
	switch {
	case status == query.StatusError:
		return StateError, true
	case status == query.StatusIdle && !hasData:
		return StateIdle, true
	case status == query.StatusLoading && !hasData:
		return StateLoading, true
	default:
		return StateComplete, false
	}
}

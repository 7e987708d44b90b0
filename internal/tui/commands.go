package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/query"
)

// waitForUpdate blocks until an observer reports a change.
func waitForUpdate(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

// loadDocuments points the list observer at the document list. force refetches even when fresh.
func (m Model) loadDocuments(force bool) tea.Cmd {
	list, source := m.list, m.source
	return func() tea.Msg {
		fetch := func(ctx context.Context) ([]model.Document, error) {
			return source.ListDocuments(ctx)
		}
		if force && list.Key() != nil {
			list.Refetch()
		} else {
			list.SetKey(query.DocumentsKey(), fetch)
		}
		return listRequestedMsg{}
	}
}

func (m Model) fetchDocument(id int) query.FetchFunc[model.DocumentWithResults] {
	source := m.source
	return func(ctx context.Context) (model.DocumentWithResults, error) {
		return source.GetDocument(ctx, id)
	}
}

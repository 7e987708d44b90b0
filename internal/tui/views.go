package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/meddoc/internal/cli"
	"github.com/Veraticus/meddoc/internal/tui/viewmodel"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	app := m.AppView()
	var body string
	if app.Page == viewmodel.PageDetail {
		body = m.renderDetail(app.Detail)
	} else {
		body = m.renderList(app.List)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(app),
		body,
		m.renderFooter(app),
	)
}

func (m Model) renderHeader(app viewmodel.AppView) string {
	title := cli.AppIcon + " meddoc · Documents"
	if app.Page == viewmodel.PageDetail {
		title = cli.AppIcon + " meddoc · " + detailTitle(app.Detail)
		if app.Detail.Result != nil {
			title += "  " + m.theme.DocumentTypeBadge(app.Detail.Result.Classification.Info)
		}
	}
	if app.IsBusy() {
		title += "  " + m.spinner.View()
	}
	return m.theme.Header.Width(max(m.width, 1)).Render(title)
}

func detailTitle(view viewmodel.DocumentDetailView) string {
	if view.Document.ID == 0 {
		return "Document"
	}
	return fmt.Sprintf("#%d %s", view.Document.ID, view.Document.Filename)
}

func (m Model) renderFooter(app viewmodel.AppView) string {
	var b strings.Builder
	if app.StatusMessage != "" {
		b.WriteString(m.theme.StatusPending.Render(app.StatusMessage))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keymap))
	return m.theme.StatusBar.Width(max(m.width, 1)).Render(b.String())
}

func (m Model) renderList(view viewmodel.DocumentListView) string {
	switch view.State {
	case viewmodel.StateIdle, viewmodel.StateLoading:
		return m.spinner.View() + " " + m.theme.Subtitle.Render("Loading documents...")
	case viewmodel.StateError:
		return m.renderError(view.Error)
	case viewmodel.StateEmptyList:
		return m.theme.Subtitle.Render(cli.EmptyListMessage + ". Upload one with: meddoc upload FILE")
	}

	height := m.listHeight()
	end := min(m.offset+height, len(view.Items))
	idWidth := 2
	for _, item := range view.Items {
		idWidth = max(idWidth, len(fmt.Sprint(item.ID)))
	}
	nameWidth := max(m.width-idWidth-22, 12)

	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		item := view.Items[i]
		name := viewmodel.TruncateString(item.Filename, nameWidth)
		row := fmt.Sprintf(" %*d  %-*s  %s ", idWidth, item.ID, nameWidth, name, item.Created)
		if i == m.cursor {
			rows = append(rows, m.theme.Selected.Render(row))
		} else {
			rows = append(rows, m.theme.Normal.Render(row))
		}
	}
	return strings.Join(rows, "\n")
}

// renderDetail shows states without data directly; data states scroll in the viewport.
func (m Model) renderDetail(view viewmodel.DocumentDetailView) string {
	switch view.State {
	case viewmodel.StateIdle, viewmodel.StateLoading:
		return m.spinner.View() + " " + m.theme.Subtitle.Render("Loading document...")
	case viewmodel.StateError:
		if view.Error.NotFound {
			return m.theme.StatusError.Render("Document not found") + "\n" + m.theme.Subtitle.Render("Press Esc to go back")
		}
		return m.renderError(view.Error)
	}
	return m.viewport.View()
}

func (m Model) renderError(view viewmodel.ErrorView) string {
	lines := []string{m.theme.StatusError.Render(cli.ErrorIcon + " " + view.Message)}
	if view.Detail != "" {
		lines = append(lines, m.theme.Subtitle.Render(view.Detail))
	}
	if view.CanRetry {
		lines = append(lines, m.theme.StatusInfo.Render("Press r to retry"))
	}
	return strings.Join(lines, "\n")
}

// refreshDetailContent rebuilds the viewport text from the current detail state.
func (m *Model) refreshDetailContent() {
	view := viewmodel.DeriveDocumentDetail(m.detailState)
	switch view.State {
	case viewmodel.StateNotProcessed:
		m.viewport.SetContent(m.theme.Subtitle.Render(viewmodel.NotProcessedMessage))
	case viewmodel.StatePartialResult, viewmodel.StateComplete:
		content := cli.RenderResult(*view.Result)
		m.viewport.SetContent(lipgloss.NewStyle().Width(max(m.viewport.Width-1, 1)).Render(content))
	default:
		m.viewport.SetContent("")
	}
}

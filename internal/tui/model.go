// Package tui is the interactive document browser: a list page and a detail page,
// each bound to a query observer.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/query"
	"github.com/Veraticus/meddoc/internal/tui/themes"
	"github.com/Veraticus/meddoc/internal/tui/viewmodel"
)

// DocumentSource loads what the browser shows. *api.Client satisfies it.
type DocumentSource interface {
	ListDocuments(ctx context.Context) ([]model.Document, error)
	GetDocument(ctx context.Context, id int) (model.DocumentWithResults, error)
}

// chromeHeight is the rows taken by the header and status bar.
const chromeHeight = 4

// Model holds the browser state.
type Model struct {
	theme       themes.Theme
	source      DocumentSource
	cache       *query.Cache
	list        *query.Observer[[]model.Document]
	detail      *query.Observer[model.DocumentWithResults]
	updates     chan struct{}
	listState   query.State[[]model.Document]
	detailState query.State[model.DocumentWithResults]
	status      string
	keymap      KeyMap
	help        help.Model
	spinner     spinner.Model
	viewport    viewport.Model
	config      Config
	page        viewmodel.Page
	cursor      int
	offset      int
	width       int
	height      int
	quitting    bool
}

// NewModel creates a browser over source, caching through cache.
func NewModel(source DocumentSource, cache *query.Cache, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	updates := make(chan struct{}, 1)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cfg.Theme.StatusInfo

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		theme:    cfg.Theme,
		source:   source,
		cache:    cache,
		updates:  updates,
		keymap:   DefaultKeyMap().ForPage(viewmodel.PageList),
		help:     h,
		spinner:  sp,
		viewport: viewport.New(cfg.Width, max(cfg.Height-chromeHeight, 1)),
		config:   cfg,
		page:     viewmodel.PageList,
		width:    cfg.Width,
		height:   cfg.Height,
	}
	m.list = query.NewObserver(cache, func(query.State[[]model.Document]) { notify(updates) })
	m.detail = m.newDetailObserver()
	return m
}

func (m Model) newDetailObserver() *query.Observer[model.DocumentWithResults] {
	updates := m.updates
	return query.NewObserver(m.cache, func(query.State[model.DocumentWithResults]) { notify(updates) })
}

// notify signals a change without blocking the cache's goroutine.
func notify(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadDocuments(false),
		waitForUpdate(m.updates),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.clampCursor()
		m.refreshDetailContent()
		return m, nil

	case stateChangedMsg:
		m.syncState()
		return m, waitForUpdate(m.updates)

	case listRequestedMsg:
		m.syncState()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		m.close()
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keymap.Refresh):
		return m.refresh()
	}

	if m.page == viewmodel.PageDetail {
		if key.Matches(msg, m.keymap.Back) {
			return m.back(), nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	items := len(m.listState.Data)
	switch {
	case key.Matches(msg, m.keymap.Up):
		m.cursor--
	case key.Matches(msg, m.keymap.Down):
		m.cursor++
	case key.Matches(msg, m.keymap.PageUp):
		m.cursor -= m.listHeight()
	case key.Matches(msg, m.keymap.PageDown):
		m.cursor += m.listHeight()
	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0
	case key.Matches(msg, m.keymap.End):
		m.cursor = items - 1
	case key.Matches(msg, m.keymap.Open):
		if id, ok := m.selectedID(); ok {
			return m.open(id), nil
		}
	}
	m.clampCursor()
	return m, nil
}

// open shows the detail page for id. A previous document's late result is not shown.
func (m Model) open(id int) Model {
	m.page = viewmodel.PageDetail
	m.keymap = m.keymap.ForPage(m.page)
	m.status = ""
	m.detailState = m.detail.SetKey(query.DocumentKey(id), m.fetchDocument(id))
	m.viewport.GotoTop()
	m.refreshDetailContent()
	return m
}

// back returns to the list and drops interest in the open document.
func (m Model) back() Model {
	m.detail.Close()
	m.detail = m.newDetailObserver()
	m.detailState = query.State[model.DocumentWithResults]{Status: query.StatusIdle}
	m.page = viewmodel.PageList
	m.keymap = m.keymap.ForPage(m.page)
	m.status = ""
	return m
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	m.status = "Refreshing..."
	if m.page == viewmodel.PageDetail {
		m.detailState = m.detail.Refetch()
		m.refreshDetailContent()
		return m, nil
	}
	return m, m.loadDocuments(true)
}

func (m *Model) syncState() {
	m.listState = m.list.State()
	if m.page == viewmodel.PageDetail {
		m.detailState = m.detail.State()
		m.refreshDetailContent()
	}
	m.clampCursor()

	if !m.listState.IsFetching() && !m.detailState.IsFetching() {
		m.status = ""
	}
}

func (m *Model) clampCursor() {
	items := len(m.listState.Data)
	if m.cursor >= items {
		m.cursor = items - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	height := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
}

func (m Model) listHeight() int {
	return max(m.height-chromeHeight-1, 1)
}

func (m Model) selectedID() (int, bool) {
	view := viewmodel.DeriveDocumentList(m.listState)
	if view.State != viewmodel.StateComplete || m.cursor >= len(view.Items) {
		return 0, false
	}
	return view.Items[m.cursor].ID, true
}

func (m Model) close() {
	m.list.Close()
	m.detail.Close()
}

// AppView summarizes what the browser currently shows.
func (m Model) AppView() viewmodel.AppView {
	bindings := make([]viewmodel.KeyBinding, 0, len(m.keymap.ShortHelp()))
	for _, b := range m.keymap.ShortHelp() {
		bindings = append(bindings, viewmodel.KeyBinding{
			Key:         b.Help().Key,
			Description: b.Help().Desc,
			IsActive:    b.Enabled(),
		})
	}

	return viewmodel.AppView{
		StatusMessage: m.status,
		KeyBindings:   bindings,
		List:          viewmodel.DeriveDocumentList(m.listState),
		Detail:        viewmodel.DeriveDocumentDetail(m.detailState),
		Page:          m.page,
		Width:         m.width,
		Height:        m.height,
		ShowHelp:      m.help.ShowAll,
	}
}

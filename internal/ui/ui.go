package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/comix/internal/library"
	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BoardView ViewState = iota
	TrashView
	ChatView
)

// Recommender answers chat prompts.
type Recommender interface {
	Chat(ctx context.Context, prompt string) (*services.ChatResult, error)
}

// Deps holds the collaborators of the TUI.
type Deps struct {
	Reconciler  *library.Reconciler
	Search      *library.TrashSearch
	Recommender Recommender
	Events      *Events
	// User is shown in the header. Empty means signed out.
	User string
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	reconciler  *library.Reconciler
	search      *library.TrashSearch
	recommender Recommender
	events      *Events
	user        string

	lists       library.Snapshot
	overlay     library.OverlayState
	column      int
	cursors     [models.StatusCount]int
	trashCursor int
	held        string

	filter  textinput.Model
	query   textinput.Model
	prompt  textinput.Model
	results list.Model
	answer  *services.ChatResult
	asking  bool

	notice      string
	width       int
	height      int
	help        help.Model
	keys        keyMap
	unsubscribe func()
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Events == nil {
		deps.Events = NewEvents()
	}

	filter := textinput.New()
	filter.Prompt = "filter: "
	filter.Placeholder = "title, author or genre"

	query := textinput.New()
	query.Prompt = "search trash: "
	query.Placeholder = "Search by title, author, or genre..."

	prompt := textinput.New()
	prompt.Prompt = "> "
	prompt.Placeholder = "Ask for recommendations, e.g. space opera with found family"
	prompt.CharLimit = 500

	results := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	results.Title = "Recommendations"
	results.SetShowHelp(false)
	results.SetFilteringEnabled(false)

	m := &Model{
		ctx:         ctx,
		view:        BoardView,
		reconciler:  deps.Reconciler,
		search:      deps.Search,
		recommender: deps.Recommender,
		events:      deps.Events,
		user:        deps.User,
		filter:      filter,
		query:       query,
		prompt:      prompt,
		results:     results,
		help:        help.New(),
		keys:        newKeyMap(),
	}
	m.refresh()
	return m
}

// Init subscribes to library changes.
func (m *Model) Init() tea.Cmd {
	m.unsubscribe = m.reconciler.Store().Subscribe(func(library.Snapshot) { m.events.poke() })
	if m.search != nil {
		m.search.OnChange(func(library.OverlayState) { m.events.poke() })
	}
	return m.events.wait()
}

// Close releases the store subscription and stops pending searches.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.search != nil {
		m.search.Close()
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgLibraryChanged:
			m.refresh()
			return m, m.events.wait()
		case MsgChatAnswered:
			answer := msg.data.(chatAnswer)
			m.asking = false
			if answer.err != nil {
				m.notice = fmt.Sprintf("recommendations failed: %v", answer.err)
				return m, nil
			}
			m.answer = answer.result
			return m, m.results.SetItems(comicItems(answer.result.Recommendations))
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.next) {
			m.switchView((m.view + 1) % 3)
			return m, nil
		}

		switch m.view {
		case BoardView:
			return m.handleBoardKeys(msg)
		case TrashView:
			return m.handleTrashKeys(msg)
		case ChatView:
			return m.handleChatKeys(msg)
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case BoardView:
		body = m.renderBoard()
	case TrashView:
		body = m.renderTrash()
	case ChatView:
		body = m.renderChat()
	}

	footer := ""
	if m.notice != "" {
		footer = styles.warn.Render(m.notice) + "\n"
	}
	footer += m.help.ShortHelpView(m.helpKeys())

	return fmt.Sprintf("%s\n%s\n\n%s", m.renderHeader(), body, footer)
}

func (m *Model) refresh() {
	m.lists = m.reconciler.Lists()
	if m.search != nil {
		m.overlay = m.search.State()
	}
	if notices := m.events.drain(); len(notices) > 0 {
		m.notice = notices[len(notices)-1]
	}

	for i, status := range models.Statuses {
		m.cursors[i] = clamp(m.cursors[i], len(m.visible(status)))
	}
	m.trashCursor = clamp(m.trashCursor, len(m.trashItems()))
}

func (m *Model) switchView(v ViewState) {
	m.filter.Blur()
	m.query.Blur()
	m.prompt.Blur()
	m.view = v
	if v == ChatView && m.answer == nil {
		m.prompt.Focus()
	}
}

// visible returns the column for status after the filter is applied.
func (m *Model) visible(status models.Status) []models.Comic {
	return filterComics(m.lists.Get(status), m.filter.Value())
}

func (m *Model) trashItems() []models.Comic {
	if m.overlay.Query != "" {
		return m.overlay.Results
	}
	return m.lists.Get(models.Trash)
}

func (m *Model) selected() (models.Comic, models.Status, bool) {
	status := models.Statuses[m.column]
	items := m.visible(status)
	i := m.cursors[m.column]
	if i < 0 || i >= len(items) {
		return models.Comic{}, status, false
	}
	return items[i], status, true
}

func (m *Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filter.Focused() {
		switch {
		case key.Matches(msg, m.keys.back):
			m.filter.SetValue("")
			m.filter.Blur()
		case key.Matches(msg, m.keys.enter):
			m.filter.Blur()
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.refresh()
			return m, cmd
		}
		m.refresh()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.held = ""
		m.notice = ""
	case key.Matches(msg, m.keys.up):
		m.cursors[m.column] = clamp(m.cursors[m.column]-1, len(m.visible(models.Statuses[m.column])))
	case key.Matches(msg, m.keys.down):
		m.cursors[m.column] = clamp(m.cursors[m.column]+1, len(m.visible(models.Statuses[m.column])))
	case key.Matches(msg, m.keys.left):
		m.column = (m.column + models.StatusCount - 1) % models.StatusCount
	case key.Matches(msg, m.keys.right):
		m.column = (m.column + 1) % models.StatusCount
	case key.Matches(msg, m.keys.filter):
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.grab):
		return m, m.grabOrDrop()
	case key.Matches(msg, m.keys.reload):
		return m, m.reloadCmd()
	case key.Matches(msg, m.keys.remove):
		if comic, status, ok := m.selected(); ok && status == models.Trash {
			return m, m.removeCmd(comic)
		}
	default:
		for i, binding := range m.keys.statusKeys() {
			if key.Matches(msg, binding) {
				if comic, from, ok := m.selected(); ok {
					return m, m.moveCmd(comic, from, models.Statuses[i])
				}
			}
		}
	}
	return m, nil
}

// grabOrDrop picks up the selected card as a drag payload, or drops the held payload on the focused column.
func (m *Model) grabOrDrop() tea.Cmd {
	if m.held == "" {
		comic, status, ok := m.selected()
		if !ok {
			return nil
		}
		if !comic.Persisted() {
			m.notice = "only saved comics can be moved"
			return nil
		}
		m.held = models.DragPayload{ComicID: comic.ID, FromStatus: status}.Encode()
		m.notice = fmt.Sprintf("holding %q, space to drop", comic.Title)
		return nil
	}

	raw := m.held
	m.held = ""
	m.notice = ""

	payload, ok := models.ParseDragPayload(raw)
	if !ok {
		return nil
	}
	to := models.Statuses[m.column]
	if payload.FromStatus == to {
		return nil
	}
	return func() tea.Msg {
		m.reconciler.MoveComic(m.ctx, payload.ComicID, payload.FromStatus, to)
		return nil
	}
}

func (m *Model) handleTrashKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.query.Focused() {
		switch {
		case key.Matches(msg, m.keys.back):
			m.query.Blur()
			return m, nil
		case key.Matches(msg, m.keys.enter):
			return m, m.submitCmd()
		}

		before := m.query.Value()
		var cmd tea.Cmd
		m.query, cmd = m.query.Update(msg)
		if m.search != nil && m.query.Value() != before {
			m.search.SetQuery(m.query.Value())
		}
		return m, cmd
	}

	items := m.trashItems()
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if m.query.Value() != "" {
			m.query.SetValue("")
			if m.search != nil {
				m.search.SetQuery("")
			}
			return m, nil
		}
		m.switchView(BoardView)
	case key.Matches(msg, m.keys.filter):
		return m, m.query.Focus()
	case key.Matches(msg, m.keys.up):
		m.trashCursor = clamp(m.trashCursor-1, len(items))
	case key.Matches(msg, m.keys.down):
		m.trashCursor = clamp(m.trashCursor+1, len(items))
	case key.Matches(msg, m.keys.restore):
		if m.trashCursor < len(items) {
			return m, m.moveCmd(items[m.trashCursor], models.Trash, models.Favorite)
		}
	case key.Matches(msg, m.keys.remove):
		if m.trashCursor < len(items) {
			return m, m.removeCmd(items[m.trashCursor])
		}
	}
	return m, nil
}

func (m *Model) handleChatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt.Focused() {
		switch {
		case key.Matches(msg, m.keys.back):
			m.prompt.Blur()
			return m, nil
		case key.Matches(msg, m.keys.enter):
			text := strings.TrimSpace(m.prompt.Value())
			if text == "" || m.asking || m.recommender == nil {
				return m, nil
			}
			m.asking = true
			m.prompt.Blur()
			return m, m.askCmd(text)
		}

		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.switchView(BoardView)
		return m, nil
	case key.Matches(msg, m.keys.filter), key.Matches(msg, m.keys.enter):
		return m, m.prompt.Focus()
	}

	for i, binding := range m.keys.statusKeys() {
		if key.Matches(msg, binding) {
			if item, ok := m.results.SelectedItem().(comicItem); ok {
				m.notice = fmt.Sprintf("adding %q to %s", item.comic.Title, models.Statuses[i].Label())
				return m, m.addCmd(item.comic, models.Statuses[i])
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) moveCmd(comic models.Comic, from, to models.Status) tea.Cmd {
	if from == to {
		return nil
	}
	if !comic.Persisted() {
		m.notice = "only saved comics can be moved"
		return nil
	}
	return func() tea.Msg {
		m.reconciler.MoveComic(m.ctx, comic.ID, from, to)
		return nil
	}
}

func (m *Model) removeCmd(comic models.Comic) tea.Cmd {
	return func() tea.Msg {
		m.reconciler.RemoveFromTrash(m.ctx, comic.ID)
		return nil
	}
}

func (m *Model) addCmd(comic models.Comic, status models.Status) tea.Cmd {
	return func() tea.Msg {
		m.reconciler.AddComic(m.ctx, status, comic)
		return nil
	}
}

func (m *Model) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		m.reconciler.Load(m.ctx)
		return nil
	}
}

func (m *Model) submitCmd() tea.Cmd {
	if m.search == nil {
		return nil
	}
	return func() tea.Msg {
		m.search.Submit()
		return nil
	}
}

func (m *Model) askCmd(prompt string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.recommender.Chat(m.ctx, prompt)
		return chatAnsweredMsg(result, err)
	}
}

func (m *Model) helpKeys() []key.Binding {
	switch m.view {
	case TrashView:
		return []key.Binding{m.keys.filter, m.keys.restore, m.keys.remove, m.keys.back, m.keys.next, m.keys.quit}
	case ChatView:
		return []key.Binding{m.keys.enter, m.keys.favorite, m.keys.reading, m.keys.completed, m.keys.next, m.keys.quit}
	default:
		return []key.Binding{m.keys.left, m.keys.right, m.keys.grab, m.keys.trash, m.keys.filter, m.keys.next, m.keys.quit}
	}
}

func (m *Model) renderHeader() string {
	who := "not signed in (library is kept in memory only)"
	if m.user != "" {
		who = "signed in as " + m.user
	}
	return styles.title.Render("comix") + " " + styles.help.Render(who)
}

func (m *Model) renderBoard() string {
	width := m.width/models.StatusCount - 4
	if width < 16 {
		width = 16
	}

	heldKey := ""
	if p, ok := models.ParseDragPayload(m.held); ok {
		heldKey = models.IDKey(p.ComicID)
	}

	columns := make([]string, models.StatusCount)
	for i, status := range models.Statuses {
		items := m.visible(status)
		lines := []string{styles.title.Render(fmt.Sprintf("%s (%d)", status.Label(), len(items)))}
		for j, comic := range items {
			line := "  " + comic.Title
			switch {
			case i == m.column && j == m.cursors[i]:
				line = styles.cursor.Render("> " + comic.Title)
			case models.Key(comic) == heldKey:
				line = styles.held.Render("  " + comic.Title)
			}
			lines = append(lines, line)
		}

		style := styles.column
		if i == m.column {
			style = styles.focused
		}
		columns[i] = style.Width(width).Render(strings.Join(lines, "\n"))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	if m.filter.Focused() || m.filter.Value() != "" {
		board += "\n" + m.filter.View()
	}
	return board
}

func (m *Model) renderTrash() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Trash") + "\n")
	b.WriteString(styles.help.Render("Restore items or permanently delete them from your account.") + "\n\n")
	b.WriteString(m.query.View() + "\n\n")

	items := m.trashItems()
	switch {
	case m.overlay.State == library.Searching:
		b.WriteString(styles.help.Render("Searching...") + "\n")
	case m.overlay.Query != "" && m.overlay.State == library.Settled && len(items) == 0:
		b.WriteString(styles.help.Render("No results") + "\n")
	case len(items) == 0:
		b.WriteString(styles.help.Render("Trash is empty") + "\n")
	}

	for i, comic := range items {
		line := fmt.Sprintf("  %s", comic)
		if i == m.trashCursor {
			line = styles.cursor.Render(fmt.Sprintf("> %s", comic))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *Model) renderChat() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Ask for recommendations") + "\n")
	b.WriteString(m.prompt.View() + "\n\n")

	switch {
	case m.asking:
		b.WriteString(styles.help.Render("Thinking...") + "\n")
	case m.answer != nil:
		b.WriteString(styles.ok.Render(m.answer.Explanation) + "\n\n")
		b.WriteString(m.results.View())
	}
	return b.String()
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Package dash is the single-page interactive dashboard: store lifecycle on
// the left, the active store's document table and upload flow in the middle,
// and the grounded ask panel at the bottom. Every remote call runs as one
// tea.Cmd at a time; the session state is only touched by the command that
// owns the current spinner.
package dash

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fsdash/internal/session"
	"fsdash/internal/ui"
)

type pane int

const (
	paneStores pane = iota
	paneDocs
	paneAsk
)

type mode int

const (
	modeNormal mode = iota
	modeNewStore
	modeConfirmDeleteStore
	modeConfirmDeleteDocs
	modeAddFiles
)

// Options configure the dashboard.
type Options struct {
	Model            string
	UseDefaultPrompt bool
}

type dashModel struct {
	ses  *session.Session
	ctx  context.Context
	mode mode
	pane pane

	storeCursor int
	docTable    table.Model
	selected    map[string]bool

	question  textinput.Model
	nameInput textinput.Model
	pathInput textinput.Model
	pending   []session.FileUpload

	answer    viewport.Model
	rawView   bool
	lastRaw   []byte
	lastAns   string
	lastAsked string

	spinner   spinner.Model
	busy      bool
	busyLabel string
	status    string

	modelName        string
	useDefaultPrompt bool

	width  int
	height int
	ready  bool
}

func newDashModel(ctx context.Context, ses *session.Session, opts Options) dashModel {
	question := textinput.New()
	question.Placeholder = "Ask something about your uploaded files..."
	question.CharLimit = 2000
	question.Width = 60

	nameInput := textinput.New()
	nameInput.Placeholder = "my-file-search-store"
	nameInput.CharLimit = 200
	nameInput.Width = 40

	pathInput := textinput.New()
	pathInput.Placeholder = "path/to/file (empty line starts the upload)"
	pathInput.CharLimit = 500
	pathInput.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.ClrBrand)

	modelName := opts.Model
	if modelName == "" {
		modelName = session.ModelFlash
	}

	return dashModel{
		ses:              ses,
		ctx:              ctx,
		docTable:         newDocTable(nil, nil),
		selected:         map[string]bool{},
		question:         question,
		nameInput:        nameInput,
		pathInput:        pathInput,
		spinner:          s,
		modelName:        modelName,
		useDefaultPrompt: opts.UseDefaultPrompt,
		status:           "Press r to load stores, ? keys are shown in the footer.",
	}
}

func (m dashModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshStoresCmd())
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var spCmd tea.Cmd
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.applyWindowSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.busy {
			// One operation at a time; only quit is honored mid-flight.
			return m, spCmd
		}
		switch m.mode {
		case modeNewStore:
			return m.updateNewStore(msg)
		case modeConfirmDeleteStore:
			return m.updateConfirmDeleteStore(msg)
		case modeConfirmDeleteDocs:
			return m.updateConfirmDeleteDocs(msg)
		case modeAddFiles:
			return m.updateAddFiles(msg)
		}
		return m.updateNormal(msg)

	case storesRefreshedMsg:
		m.busy = false
		m.clampStoreCursor()
		if msg.warn != nil {
			m.status = ui.Errorf("failed to list stores: %v", msg.warn)
		} else {
			m.status = ui.Info("Stores", "listing refreshed")
		}
		return m, spCmd

	case storeCreatedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = ui.Errorf("failed to create store: %v", msg.err)
		} else {
			m.status = ui.Green.Render("Store created: " + msg.name)
		}
		m.clampStoreCursor()
		return m, spCmd

	case storeActivatedMsg:
		m.busy = false
		m.selected = map[string]bool{}
		m.reloadDocRows()
		if msg.warn != nil {
			m.status = ui.Errorf("failed to list store files: %v", msg.warn)
		} else {
			m.status = ui.Green.Render("Active store: " + msg.name)
		}
		return m, spCmd

	case storeDeletedMsg:
		m.busy = false
		m.clampStoreCursor()
		m.reloadDocRows()
		if msg.err != nil {
			m.status = ui.Errorf("failed to delete store: %v", msg.err)
		} else {
			m.status = ui.Info("Deleted store", msg.name)
		}
		return m, spCmd

	case docsEnsuredMsg:
		m.busy = false
		m.reloadDocRows()
		if msg.warn != nil {
			m.status = ui.Errorf("failed to list store files: %v", msg.warn)
		}
		return m, spCmd

	case docsRefreshedMsg:
		m.busy = false
		m.selected = map[string]bool{}
		m.reloadDocRows()
		if msg.warn != nil {
			m.status = ui.Errorf("failed to list store files: %v", msg.warn)
		} else {
			m.status = ui.Info("Documents", "listing refreshed")
		}
		return m, spCmd

	case uploadsDoneMsg:
		m.busy = false
		m.pending = nil
		m.selected = map[string]bool{}
		m.reloadDocRows()
		m.status = renderUploadResults(msg.results)
		return m, spCmd

	case docsDeletedMsg:
		m.busy = false
		m.selected = map[string]bool{}
		m.reloadDocRows()
		m.status = renderDeleteResults(msg.results)
		return m, spCmd

	case askDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.lastAns = ""
			m.lastRaw = nil
			m.lastAsked = ""
			m.status = ui.Errorf("generation failed: %v", msg.err)
		} else {
			m.lastAns = msg.result.Answer
			m.lastRaw = msg.result.Raw
			m.lastAsked = msg.result.Question
			m.status = ui.Info("Answer ready", "v toggles the raw response")
		}
		m.refreshAnswerView()
		return m, spCmd
	}

	var tblCmd tea.Cmd
	if m.pane == paneDocs {
		m.docTable, tblCmd = m.docTable.Update(msg)
	}
	var vpCmd tea.Cmd
	m.answer, vpCmd = m.answer.Update(msg)
	return m, tea.Batch(spCmd, tblCmd, vpCmd)
}

func (m dashModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pane == paneAsk && m.question.Focused() {
		switch msg.String() {
		case "tab":
			// fall through to pane cycling below
		case "enter":
			return m.submitQuestion()
		case "esc":
			m.question.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.question, cmd = m.question.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "tab":
		m.cyclePane()
		if m.pane == paneDocs {
			if _, ok := m.ses.ActiveStore(); ok {
				return m.startEnsureDocs()
			}
		}
		return m, nil
	case "r":
		if m.pane == paneDocs {
			return m.startDocsRefresh()
		}
		return m.startStoresRefresh()
	case "n":
		m.mode = modeNewStore
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		return m, textinput.Blink
	case "v":
		m.rawView = !m.rawView
		m.refreshAnswerView()
		return m, nil
	}

	switch m.pane {
	case paneStores:
		return m.updateStoresPane(msg)
	case paneDocs:
		return m.updateDocsPane(msg)
	case paneAsk:
		return m.updateAskPane(msg)
	}
	return m, nil
}

func (m dashModel) updateStoresPane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	stores := m.ses.Stores()
	switch msg.String() {
	case "up", "k":
		if m.storeCursor > 0 {
			m.storeCursor--
		}
	case "down", "j":
		if m.storeCursor < len(stores)-1 {
			m.storeCursor++
		}
	case "enter":
		if m.storeCursor < len(stores) {
			return m.startActivate(stores[m.storeCursor])
		}
	case "d":
		if m.storeCursor < len(stores) {
			m.mode = modeConfirmDeleteStore
		}
	}
	return m, nil
}

func (m dashModel) updateDocsPane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if name := m.cursorDocName(); name != "" {
			m.selected[name] = !m.selected[name]
			m.reloadDocRows()
		}
		return m, nil
	case "a":
		docs := m.ses.Documents()
		all := len(m.selectedNames()) == len(docs) && len(docs) > 0
		m.selected = map[string]bool{}
		if !all {
			for _, d := range docs {
				m.selected[d.Name] = true
			}
		}
		m.reloadDocRows()
		return m, nil
	case "d":
		if len(m.selectedNames()) > 0 {
			m.mode = modeConfirmDeleteDocs
		}
		return m, nil
	case "u":
		if _, ok := m.ses.ActiveStore(); !ok {
			m.status = ui.Yellow.Render("Create or select a store first.")
			return m, nil
		}
		m.mode = modeAddFiles
		m.pending = nil
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		return m, textinput.Blink
	}
	var cmd tea.Cmd
	m.docTable, cmd = m.docTable.Update(msg)
	return m, cmd
}

func (m dashModel) updateAskPane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "i":
		m.question.Focus()
		return m, textinput.Blink
	case "m":
		if m.modelName == session.ModelFlash {
			m.modelName = session.ModelPro
		} else {
			m.modelName = session.ModelFlash
		}
		return m, nil
	case "p":
		m.useDefaultPrompt = !m.useDefaultPrompt
		return m, nil
	}
	return m, nil
}

func (m dashModel) updateNewStore(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.nameInput.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.status = ui.Yellow.Render("Store display name is empty.")
			return m, nil
		}
		m.mode = modeNormal
		m.nameInput.Blur()
		return m.startCreateStore(name)
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m dashModel) updateConfirmDeleteStore(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.mode = modeNormal
		stores := m.ses.Stores()
		if m.storeCursor < len(stores) {
			return m.startDeleteStore(stores[m.storeCursor])
		}
	case "n", "esc":
		m.mode = modeNormal
		m.status = ui.Dim("Delete cancelled.")
	}
	return m, nil
}

func (m dashModel) updateConfirmDeleteDocs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.mode = modeNormal
		return m.startDeleteDocs(m.selectedNames())
	case "n", "esc":
		m.mode = modeNormal
		m.status = ui.Dim("Delete cancelled.")
	}
	return m, nil
}

func (m dashModel) updateAddFiles(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.pending = nil
		m.pathInput.Blur()
		m.status = ui.Dim("Upload cancelled.")
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			if len(m.pending) == 0 {
				m.status = ui.Yellow.Render("Please select at least one file.")
				return m, nil
			}
			m.mode = modeNormal
			m.pathInput.Blur()
			return m.startUploads(m.pending)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			m.status = ui.Errorf("cannot read %s: %v", path, err)
			return m, nil
		}
		m.pending = append(m.pending, session.FileUpload{Name: path, Data: data})
		m.pathInput.SetValue("")
		m.status = ui.Info("Queued", path)
		return m, nil
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m dashModel) submitQuestion() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.question.Value())
	if question == "" {
		m.status = ui.Yellow.Render("Please enter a question.")
		return m, nil
	}
	if _, ok := m.ses.ActiveStore(); !ok {
		m.status = ui.Yellow.Render("Create or select a store first.")
		return m, nil
	}
	return m.startAsk(question)
}

func (m *dashModel) cyclePane() {
	m.pane = (m.pane + 1) % 3
	if m.pane == paneDocs {
		m.docTable.Focus()
	} else {
		m.docTable.Blur()
	}
	if m.pane != paneAsk {
		m.question.Blur()
	}
}

func (m *dashModel) clampStoreCursor() {
	if n := len(m.ses.Stores()); m.storeCursor >= n {
		m.storeCursor = max(n-1, 0)
	}
}

func (m *dashModel) selectedNames() []string {
	var names []string
	for _, d := range m.ses.Documents() {
		if m.selected[d.Name] {
			names = append(names, d.Name)
		}
	}
	return names
}

func (m *dashModel) cursorDocName() string {
	docs := m.ses.Documents()
	if cursor := m.docTable.Cursor(); cursor >= 0 && cursor < len(docs) {
		return docs[cursor].Name
	}
	return ""
}

// Run launches the dashboard and blocks until the operator quits.
func Run(ctx context.Context, ses *session.Session, opts Options) error {
	p := tea.NewProgram(newDashModel(ctx, ses, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

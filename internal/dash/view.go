package dash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"fsdash/internal/model"
	"fsdash/internal/ui"
)

const (
	minDocRows    = 4
	answerHeight  = 8
	storePaneRows = 8
)

func newDocTable(docs []model.Document, selected map[string]bool) table.Model {
	columns := []table.Column{
		{Title: " ", Width: 3},
		{Title: "Document", Width: 32},
		{Title: "Created", Width: 20},
		{Title: "Updated", Width: 20},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(docRows(docs, selected)),
		table.WithHeight(minDocRows),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(ui.ClrBrand)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)
	return t
}

func docRows(docs []model.Document, selected map[string]bool) []table.Row {
	rows := make([]table.Row, 0, len(docs))
	for _, d := range docs {
		mark := " "
		if selected[d.Name] {
			mark = "x"
		}
		rows = append(rows, table.Row{mark, d.DisplayName, shortTime(d.CreateTime), shortTime(d.UpdateTime)})
	}
	return rows
}

// shortTime trims an RFC 3339 timestamp to a second-resolution display form.
func shortTime(ts string) string {
	if i := strings.IndexByte(ts, '.'); i > 0 {
		return ts[:i]
	}
	return strings.TrimSuffix(ts, "Z")
}

func (m *dashModel) reloadDocRows() {
	cursor := m.docTable.Cursor()
	m.docTable.SetRows(docRows(m.ses.Documents(), m.selected))
	if n := len(m.ses.Documents()); cursor >= n {
		cursor = max(n-1, 0)
	}
	m.docTable.SetCursor(cursor)
}

func (m *dashModel) refreshAnswerView() {
	if m.rawView && len(m.lastRaw) > 0 {
		m.answer.SetContent(prettyJSON(m.lastRaw))
	} else {
		m.answer.SetContent(m.lastAns)
	}
	m.answer.GotoTop()
}

func prettyJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func (m *dashModel) applyWindowSize(width, height int) {
	m.width, m.height = width, height
	m.ready = true

	contentWidth := max(width-4, 40)
	m.question.Width = contentWidth - 10
	m.pathInput.Width = contentWidth - 10

	docHeight := height - storePaneRows - answerHeight - 8
	if docHeight < minDocRows {
		docHeight = minDocRows
	}
	m.docTable.SetHeight(docHeight)
	m.docTable.SetColumns([]table.Column{
		{Title: " ", Width: 3},
		{Title: "Document", Width: max(contentWidth-52, 20)},
		{Title: "Created", Width: 20},
		{Title: "Updated", Width: 20},
	})

	m.answer.Width = contentWidth
	m.answer.Height = answerHeight
	m.refreshAnswerView()
}

func (m dashModel) View() string {
	if !m.ready {
		return "loading..."
	}
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.storesView())
	b.WriteString("\n")
	b.WriteString(m.docsView())
	b.WriteString("\n")
	b.WriteString(m.askView())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m dashModel) headerView() string {
	title := ui.Brand.Render("File Search Dashboard")
	right := ui.Muted.Render(m.modelName)
	if m.useDefaultPrompt {
		right += " " + ui.Yellow.Render("[verify prompt]")
	}
	return title + "  " + right + "\n" + ui.Subtle.Render(strings.Repeat("─", max(m.width-2, 10)))
}

func (m dashModel) storesView() string {
	var b strings.Builder
	b.WriteString(m.paneTitle(paneStores, "Stores"))
	b.WriteString("\n")

	if m.mode == modeNewStore {
		b.WriteString("  New store name: " + m.nameInput.View() + "\n")
	}

	stores := m.ses.Stores()
	if len(stores) == 0 {
		b.WriteString(ui.Dim("  (no stores; press n to create one)") + "\n")
		return b.String()
	}

	active, hasActive := m.ses.ActiveStore()
	limit := storePaneRows - 2
	start := 0
	if m.storeCursor >= limit {
		start = m.storeCursor - limit + 1
	}
	for i := start; i < len(stores) && i-start < limit; i++ {
		st := stores[i]
		cursor := "  "
		if i == m.storeCursor && m.pane == paneStores {
			cursor = ui.Brand.Render("> ")
		}
		label := st.DisplayName
		if label == "" {
			label = st.Name
		}
		if hasActive && st.Name == active.Name {
			label = ui.Green.Render(label + " (active)")
		}
		b.WriteString(cursor + label + "\n")
	}

	if m.mode == modeConfirmDeleteStore && m.storeCursor < len(stores) {
		b.WriteString(ui.Red.Render(fmt.Sprintf("  Delete store %q and all its documents? (y/n)", stores[m.storeCursor].DisplayName)) + "\n")
	}
	return b.String()
}

func (m dashModel) docsView() string {
	var b strings.Builder
	title := "Documents"
	if active, ok := m.ses.ActiveStore(); ok {
		title = "Documents in " + active.DisplayName
	}
	b.WriteString(m.paneTitle(paneDocs, title))
	b.WriteString("\n")

	if _, ok := m.ses.ActiveStore(); !ok {
		b.WriteString(ui.Dim("  (select a store to list its documents)") + "\n")
		return b.String()
	}

	b.WriteString(m.docTable.View() + "\n")

	switch m.mode {
	case modeAddFiles:
		b.WriteString(fmt.Sprintf("  Add file (%d queued): %s\n", len(m.pending), m.pathInput.View()))
	case modeConfirmDeleteDocs:
		b.WriteString(ui.Red.Render(fmt.Sprintf("  Delete %d selected document(s)? (y/n)", len(m.selectedNames()))) + "\n")
	}
	return b.String()
}

func (m dashModel) askView() string {
	var b strings.Builder
	b.WriteString(m.paneTitle(paneAsk, "Ask"))
	b.WriteString("\n  " + m.question.View() + "\n")
	if m.lastAns != "" || len(m.lastRaw) > 0 {
		label := "Answer"
		if m.rawView {
			label = "Raw response"
		}
		header := "  " + ui.Bold.Render(label)
		if m.lastAsked != "" {
			header += " " + ui.Muted.Render("for: "+m.lastAsked)
		}
		b.WriteString(header + "\n")
		b.WriteString(m.answer.View() + "\n")
	}
	return b.String()
}

func (m dashModel) footerView() string {
	line := ui.Subtle.Render(strings.Repeat("─", max(m.width-2, 10)))
	status := m.status
	if m.busy {
		status = m.spinner.View() + ui.Muted.Render(m.busyLabel+"...")
	}
	return line + "\n" + status + "\n" + ui.Dim(m.keyHints())
}

func (m dashModel) keyHints() string {
	common := "tab panes · r refresh · n new store · v raw · q quit"
	switch m.pane {
	case paneStores:
		return "enter activate · d delete · " + common
	case paneDocs:
		return "space select · a all · u upload · d delete · " + common
	case paneAsk:
		return "enter ask · m model · p prompt · " + common
	}
	return common
}

func (m dashModel) paneTitle(p pane, title string) string {
	if m.pane == p {
		return ui.Brand.Render("▸ " + title)
	}
	return ui.Bold.Render("  " + title)
}

func renderUploadResults(results []model.UploadResult) string {
	ok := 0
	var firstErr string
	for _, r := range results {
		if r.Err == nil {
			ok++
		} else if firstErr == "" {
			firstErr = r.DisplayName + ": " + r.Err.Error()
		}
	}
	if firstErr == "" {
		return ui.Green.Render(fmt.Sprintf("Imported %d file(s).", ok))
	}
	return ui.Yellow.Render(fmt.Sprintf("Imported %d/%d file(s); first failure %s", ok, len(results), firstErr))
}

func renderDeleteResults(results []model.DeleteResult) string {
	ok := 0
	var firstErr string
	for _, r := range results {
		if r.Err == nil {
			ok++
		} else if firstErr == "" {
			firstErr = r.Err.Error()
		}
	}
	if firstErr == "" {
		return ui.Green.Render(fmt.Sprintf("Deleted %d document(s).", ok))
	}
	return ui.Yellow.Render(fmt.Sprintf("Deleted %d/%d document(s); first failure: %s", ok, len(results), firstErr))
}

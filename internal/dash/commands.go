package dash

import (
	tea "github.com/charmbracelet/bubbletea"

	"fsdash/internal/model"
	"fsdash/internal/session"
)

// Done messages for the async commands. Each carries everything the Update
// loop needs so it never has to re-query the remote side.
type (
	storesRefreshedMsg struct{ warn error }
	storeCreatedMsg    struct {
		name string
		err  error
	}
	storeActivatedMsg struct {
		name string
		warn error
	}
	storeDeletedMsg struct {
		name string
		err  error
	}
	docsRefreshedMsg struct{ warn error }
	docsEnsuredMsg   struct{ warn error }
	uploadsDoneMsg   struct{ results []model.UploadResult }
	docsDeletedMsg   struct{ results []model.DeleteResult }
	askDoneMsg       struct {
		result model.AskResult
		err    error
	}
)

func (m dashModel) refreshStoresCmd() tea.Cmd {
	ses, ctx := m.ses, m.ctx
	return func() tea.Msg {
		return storesRefreshedMsg{warn: ses.RefreshStores(ctx)}
	}
}

func (m dashModel) startStoresRefresh() (tea.Model, tea.Cmd) {
	m.busy = true
	m.busyLabel = "Refreshing stores"
	return m, m.refreshStoresCmd()
}

func (m dashModel) startDocsRefresh() (tea.Model, tea.Cmd) {
	m.busy = true
	m.busyLabel = "Refreshing documents"
	ses, ctx := m.ses, m.ctx
	return m, func() tea.Msg {
		return docsRefreshedMsg{warn: ses.RefreshDocuments(ctx)}
	}
}

// startEnsureDocs reloads the document cache only when it is tagged for a
// different store than the active one; the common case is a no-op.
func (m dashModel) startEnsureDocs() (tea.Model, tea.Cmd) {
	m.busy = true
	m.busyLabel = "Loading documents"
	ses, ctx := m.ses, m.ctx
	return m, func() tea.Msg {
		return docsEnsuredMsg{warn: ses.EnsureDocuments(ctx)}
	}
}

func (m dashModel) startCreateStore(displayName string) (tea.Model, tea.Cmd) {
	m.busy = true
	m.busyLabel = "Creating store " + displayName
	ses, ctx := m.ses, m.ctx
	return m, func() tea.Msg {
		_, err := ses.CreateStore(ctx, displayName)
		return storeCreatedMsg{name: displayName, err: err}
	}
}

func (m dashModel) startActivate(store model.Store) (tea.Model, tea.Cmd) {
	m.busy = true
	m.busyLabel = "Loading " + store.DisplayName
	ses, ctx := m.ses, m.ctx
	return m, func() tea.Msg {
		return storeActivatedMsg{name: store.DisplayName, warn: ses.Activate(ctx, store)}
	}
}

func (m dashModel) startDeleteStore(store model.Store) (tea.Model, tea.Cmd) {
	m.busy = true
	m.busyLabel = "Deleting " + store.DisplayName
	ses, ctx := m.ses, m.ctx
	return m, func() tea.Msg {
		return storeDeletedMsg{name: store.DisplayName, err: ses.DeleteStore(ctx, store.Name)}
	}
}

func (m dashModel) startUploads(files []session.FileUpload) (tea.Model, tea.Cmd) {
	m.busy = true
	m.busyLabel = "Uploading and importing files"
	ses, ctx := m.ses, m.ctx
	return m, func() tea.Msg {
		return uploadsDoneMsg{results: ses.UploadAll(ctx, files)}
	}
}

func (m dashModel) startDeleteDocs(names []string) (tea.Model, tea.Cmd) {
	m.busy = true
	m.busyLabel = "Deleting documents"
	ses, ctx := m.ses, m.ctx
	return m, func() tea.Msg {
		return docsDeletedMsg{results: ses.BatchDelete(ctx, names)}
	}
}

func (m dashModel) startAsk(question string) (tea.Model, tea.Cmd) {
	m.busy = true
	m.busyLabel = "Asking " + m.modelName
	ses, ctx := m.ses, m.ctx
	opts := session.AskOptions{Model: m.modelName, UseDefaultPrompt: m.useDefaultPrompt}
	return m, func() tea.Msg {
		result, err := ses.Ask(ctx, question, opts)
		return askDoneMsg{result: result, err: err}
	}
}

package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tokenwatcher/internal/types"
)

// Messages the watchers page sends to the app.
type (
	watcherCreateMsg struct{ Input types.CreateWatcherInput }
	watcherUpdateMsg struct {
		ID    int
		Input types.UpdateWatcherInput
	}
	watcherDeleteMsg  struct{ ID int }
	watchersReloadMsg struct{}
)

type watcherFormMode int

const (
	watcherFormHidden watcherFormMode = iota
	watcherFormCreate
	watcherFormEdit
)

// WatchersPageModel lists the user's watchers and hosts the create/edit form.
type WatchersPageModel struct {
	items   []types.Watcher
	cursor  int
	loading bool
	errText string
	notice  string

	mode    watcherFormMode
	editID  int
	inputs  []textinput.Model
	focus   int
	confirm bool // pending delete confirmation

	styles Styles
	width  int
}

// Form field order.
const (
	fieldName = iota
	fieldAddress
	fieldThreshold
	fieldWebhook
)

// NewWatchersPageModel creates the watchers page.
func NewWatchersPageModel(styles Styles) WatchersPageModel {
	name := textinput.New()
	name.Prompt = "Name       > "
	name.CharLimit = 80

	addr := textinput.New()
	addr.Prompt = "Token addr > "
	addr.Placeholder = "0x…"
	addr.CharLimit = 42

	threshold := textinput.New()
	threshold.Prompt = "USD thresh > "
	threshold.Placeholder = "1000"
	threshold.CharLimit = 20

	webhook := textinput.New()
	webhook.Prompt = "Webhook    > "
	webhook.Placeholder = "https://hooks.example.com/…"
	webhook.CharLimit = 300

	return WatchersPageModel{
		inputs: []textinput.Model{name, addr, threshold, webhook},
		styles: styles,
	}
}

// SetSize updates layout dimensions.
func (m *WatchersPageModel) SetSize(w, _ int) {
	m.width = w
	for i := range m.inputs {
		m.inputs[i].Width = min(w-20, 60)
	}
}

// UpdateContent replaces the rendered list after a store sync.
func (m *WatchersPageModel) UpdateContent(items []types.Watcher) {
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SetLoading toggles the in-flight indicator.
func (m *WatchersPageModel) SetLoading(v bool) { m.loading = v }

// SetError shows a mutation failure above the list.
func (m *WatchersPageModel) SetError(text string) {
	m.errText = text
	m.notice = ""
}

// SetNotice shows a success line.
func (m *WatchersPageModel) SetNotice(text string) {
	m.notice = text
	m.errText = ""
}

// Update handles key input for both the list and the form.
func (m WatchersPageModel) Update(msg tea.Msg) (WatchersPageModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.mode != watcherFormHidden {
		return m.updateForm(key)
	}
	return m.updateList(key)
}

func (m WatchersPageModel) updateList(key tea.KeyMsg) (WatchersPageModel, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.confirm = false
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		m.confirm = false
	case "n":
		m.openForm(watcherFormCreate, nil)
	case "e", "enter":
		if len(m.items) > 0 {
			w := m.items[m.cursor]
			m.openForm(watcherFormEdit, &w)
		}
	case "d":
		if len(m.items) == 0 {
			break
		}
		if !m.confirm {
			m.confirm = true
			m.notice = ""
			m.errText = fmt.Sprintf("delete %q? press d again to confirm", m.items[m.cursor].Name)
			break
		}
		m.confirm = false
		m.errText = ""
		id := m.items[m.cursor].ID
		return m, func() tea.Msg { return watcherDeleteMsg{ID: id} }
	case "r":
		return m, func() tea.Msg { return watchersReloadMsg{} }
	}
	return m, nil
}

func (m *WatchersPageModel) openForm(mode watcherFormMode, w *types.Watcher) {
	m.mode = mode
	m.errText = ""
	m.notice = ""
	m.confirm = false
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	if w != nil {
		m.editID = w.ID
		m.inputs[fieldName].SetValue(w.Name)
		m.inputs[fieldAddress].SetValue(w.TokenAddress)
		m.inputs[fieldThreshold].SetValue(strconv.FormatFloat(w.ThresholdUSD, 'f', -1, 64))
		if w.WebhookURL != nil {
			m.inputs[fieldWebhook].SetValue(*w.WebhookURL)
		}
	}
	m.focus = fieldName
	m.inputs[fieldName].Focus()
}

func (m WatchersPageModel) updateForm(key tea.KeyMsg) (WatchersPageModel, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = watcherFormHidden
		m.errText = ""
		return m, nil
	case "tab", "down":
		m.setFocus((m.focus + 1) % len(m.inputs))
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
		return m, nil
	case "enter":
		if m.focus < len(m.inputs)-1 {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(key)
	return m, cmd
}

func (m *WatchersPageModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// submitForm validates locally and emits the mutation message. Validation
// failures never leave the page.
func (m WatchersPageModel) submitForm() (WatchersPageModel, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	name := strings.TrimSpace(m.inputs[fieldName].Value())
	addr := strings.TrimSpace(m.inputs[fieldAddress].Value())
	webhook := strings.TrimSpace(m.inputs[fieldWebhook].Value())
	threshold, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldThreshold].Value()), 64)
	if err != nil {
		m.errText = "threshold must be a number"
		return m, nil
	}

	if m.mode == watcherFormCreate {
		in := types.CreateWatcherInput{
			Name:         name,
			TokenAddress: addr,
			ThresholdUSD: threshold,
			WebhookURL:   webhook,
		}
		if err := in.Validate(); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.mode = watcherFormHidden
		return m, func() tea.Msg { return watcherCreateMsg{Input: in} }
	}

	// Edit: full-field update; an empty webhook clears it.
	in := types.UpdateWatcherInput{
		Name:         &name,
		TokenAddress: &addr,
		ThresholdUSD: &threshold,
		WebhookURL:   &webhook,
	}
	if err := in.Validate(); err != nil {
		m.errText = err.Error()
		return m, nil
	}
	id := m.editID
	m.mode = watcherFormHidden
	return m, func() tea.Msg { return watcherUpdateMsg{ID: id, Input: in} }
}

// View renders the list or the form.
func (m WatchersPageModel) View() string {
	var sb strings.Builder

	if m.mode != watcherFormHidden {
		title := "New watcher"
		if m.mode == watcherFormEdit {
			title = "Edit watcher"
		}
		sb.WriteString(m.styles.Title.Render(title))
		sb.WriteString("\n\n")
		for _, in := range m.inputs {
			sb.WriteString(in.View())
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		if m.errText != "" {
			sb.WriteString(m.styles.Error.Render(m.errText))
			sb.WriteString("\n")
		}
		sb.WriteString(m.styles.Muted.Render("enter: save • esc: cancel"))
		return sb.String()
	}

	table := NewSimpleTable("Watchers", []string{"Name", "Token", "Threshold", "Webhook", "Active", "Created"})
	table.Cursor = m.cursor
	for _, w := range m.items {
		webhook := "-"
		if w.WebhookURL != nil && *w.WebhookURL != "" {
			webhook = truncate(*w.WebhookURL, 28)
		}
		active := "yes"
		if !w.IsActive {
			active = "no"
		}
		table.AddRow(
			truncate(w.Name, NameColumnWidth),
			shortAddr(w.TokenAddress),
			fmt.Sprintf("$%.2f", w.ThresholdUSD),
			webhook,
			active,
			w.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	sb.WriteString(table.View(m.styles))
	sb.WriteString("\n")

	if m.loading {
		sb.WriteString(m.styles.Info.Render("Syncing..."))
		sb.WriteString("\n")
	}
	if m.errText != "" {
		sb.WriteString(m.styles.Error.Render(m.errText))
		sb.WriteString("\n")
	}
	if m.notice != "" {
		sb.WriteString(m.styles.Success.Render(m.notice))
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.Muted.Render("n: new • e: edit • d: delete • r: refresh • j/k: move"))
	return sb.String()
}

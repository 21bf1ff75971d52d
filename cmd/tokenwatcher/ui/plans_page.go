package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tokenwatcher/internal/types"
)

// Messages the plans page sends to the app.
type (
	planCreateMsg struct{ Input types.PlanInput }
	planUpdateMsg struct {
		ID    int
		Input types.PlanInput
	}
	planDeleteMsg  struct{ ID int }
	plansReloadMsg struct{}
)

type planFormMode int

const (
	planFormHidden planFormMode = iota
	planFormCreate
	planFormEdit
)

// PlansPageModel is the admin plan management page. Non-admin users can
// open it, but every call comes back forbidden; the page surfaces that
// instead of pretending the data is empty.
type PlansPageModel struct {
	items   []types.Plan
	cursor  int
	loading bool
	errText string
	notice  string

	mode    planFormMode
	editID  int
	inputs  []textinput.Model
	focus   int
	confirm bool

	styles Styles
}

const (
	planFieldName = iota
	planFieldDescription
	planFieldMonthly
	planFieldAnnual
	planFieldLimit
)

// NewPlansPageModel creates the plans page.
func NewPlansPageModel(styles Styles) PlansPageModel {
	name := textinput.New()
	name.Prompt = "Name        > "
	name.CharLimit = 40

	desc := textinput.New()
	desc.Prompt = "Description > "
	desc.CharLimit = 200

	monthly := textinput.New()
	monthly.Prompt = "Monthly ¢   > "
	monthly.CharLimit = 10

	annual := textinput.New()
	annual.Prompt = "Annual ¢    > "
	annual.CharLimit = 10

	limit := textinput.New()
	limit.Prompt = "Watchers    > "
	limit.CharLimit = 8

	return PlansPageModel{
		inputs: []textinput.Model{name, desc, monthly, annual, limit},
		styles: styles,
	}
}

// SetSize updates layout dimensions.
func (m *PlansPageModel) SetSize(w, _ int) {
	for i := range m.inputs {
		m.inputs[i].Width = min(w-20, 60)
	}
}

// UpdateContent replaces the rendered list after a store sync.
func (m *PlansPageModel) UpdateContent(items []types.Plan) {
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SetLoading toggles the in-flight indicator.
func (m *PlansPageModel) SetLoading(v bool) { m.loading = v }

// SetError shows a failure above the list.
func (m *PlansPageModel) SetError(text string) {
	m.errText = text
	m.notice = ""
}

// SetNotice shows a success line.
func (m *PlansPageModel) SetNotice(text string) {
	m.notice = text
	m.errText = ""
}

// Update handles key input.
func (m PlansPageModel) Update(msg tea.Msg) (PlansPageModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.mode != planFormHidden {
		return m.updateForm(key)
	}

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
		m.openForm(planFormCreate, nil)
	case "e", "enter":
		if len(m.items) > 0 {
			p := m.items[m.cursor]
			m.openForm(planFormEdit, &p)
		}
	case "d":
		if len(m.items) == 0 {
			break
		}
		p := m.items[m.cursor]
		if p.Name == types.FreePlanName {
			m.errText = "the Free plan cannot be deleted"
			break
		}
		if !m.confirm {
			m.confirm = true
			m.errText = fmt.Sprintf("delete plan %q? press d again to confirm", p.Name)
			break
		}
		m.confirm = false
		m.errText = ""
		return m, func() tea.Msg { return planDeleteMsg{ID: p.ID} }
	case "r":
		return m, func() tea.Msg { return plansReloadMsg{} }
	}
	return m, nil
}

func (m *PlansPageModel) openForm(mode planFormMode, p *types.Plan) {
	m.mode = mode
	m.errText = ""
	m.notice = ""
	m.confirm = false
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	if p != nil {
		m.editID = p.ID
		m.inputs[planFieldName].SetValue(p.Name)
		m.inputs[planFieldDescription].SetValue(p.Description)
		m.inputs[planFieldMonthly].SetValue(strconv.Itoa(p.PriceMonthly))
		m.inputs[planFieldAnnual].SetValue(strconv.Itoa(p.PriceAnnual))
		m.inputs[planFieldLimit].SetValue(strconv.Itoa(p.WatcherLimit))
	}
	m.focus = planFieldName
	m.inputs[planFieldName].Focus()
}

func (m PlansPageModel) updateForm(key tea.KeyMsg) (PlansPageModel, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = planFormHidden
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

func (m *PlansPageModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m PlansPageModel) submitForm() (PlansPageModel, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	monthly, err1 := strconv.Atoi(strings.TrimSpace(m.inputs[planFieldMonthly].Value()))
	annual, err2 := strconv.Atoi(strings.TrimSpace(m.inputs[planFieldAnnual].Value()))
	limit, err3 := strconv.Atoi(strings.TrimSpace(m.inputs[planFieldLimit].Value()))
	if err1 != nil || err2 != nil || err3 != nil {
		m.errText = "prices and watcher limit must be whole numbers"
		return m, nil
	}

	in := types.PlanInput{
		Name:         strings.TrimSpace(m.inputs[planFieldName].Value()),
		Description:  strings.TrimSpace(m.inputs[planFieldDescription].Value()),
		PriceMonthly: monthly,
		PriceAnnual:  annual,
		WatcherLimit: limit,
		IsActive:     true,
	}
	if err := in.Validate(); err != nil {
		m.errText = err.Error()
		return m, nil
	}

	mode, id := m.mode, m.editID
	m.mode = planFormHidden
	if mode == planFormCreate {
		return m, func() tea.Msg { return planCreateMsg{Input: in} }
	}
	return m, func() tea.Msg { return planUpdateMsg{ID: id, Input: in} }
}

// View renders the list or the form.
func (m PlansPageModel) View() string {
	var sb strings.Builder

	if m.mode != planFormHidden {
		title := "New plan"
		if m.mode == planFormEdit {
			title = "Edit plan"
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

	table := NewSimpleTable("Plans", []string{"Name", "Monthly", "Annual", "Watchers", "Active"})
	table.Cursor = m.cursor
	for _, p := range m.items {
		active := "yes"
		if !p.IsActive {
			active = "no"
		}
		table.AddRow(
			p.Name,
			fmt.Sprintf("$%.2f", float64(p.PriceMonthly)/100),
			fmt.Sprintf("$%.2f", float64(p.PriceAnnual)/100),
			strconv.Itoa(p.WatcherLimit),
			active,
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

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// registerRequestMsg asks the app to create an account.
type registerRequestMsg struct {
	Email    string
	Password string
}

// RegisterPageModel is the account creation form.
type RegisterPageModel struct {
	inputs  []textinput.Model
	focus   int
	loading bool
	errText string
	notice  string
	styles  Styles
}

// NewRegisterPageModel creates the registration form.
func NewRegisterPageModel(styles Styles) RegisterPageModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email     > "
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Prompt = "Password  > "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 120

	confirm := textinput.New()
	confirm.Prompt = "Confirm   > "
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '•'
	confirm.CharLimit = 120

	return RegisterPageModel{
		inputs: []textinput.Model{email, password, confirm},
		styles: styles,
	}
}

// SetSize updates the layout width.
func (m *RegisterPageModel) SetSize(w, _ int) {
	for i := range m.inputs {
		m.inputs[i].Width = min(w-20, 48)
	}
}

// SetLoading toggles the in-flight state.
func (m *RegisterPageModel) SetLoading(v bool) {
	m.loading = v
}

// SetError shows a failure message.
func (m *RegisterPageModel) SetError(text string) {
	m.errText = text
	m.notice = ""
}

// SetNotice shows a success message (account created, go sign in).
func (m *RegisterPageModel) SetNotice(text string) {
	m.notice = text
	m.errText = ""
}

// Update handles key input.
func (m RegisterPageModel) Update(msg tea.Msg) (RegisterPageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
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
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *RegisterPageModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *RegisterPageModel) submit() tea.Cmd {
	if m.loading {
		return nil
	}
	email := strings.TrimSpace(m.inputs[0].Value())
	password := m.inputs[1].Value()
	confirm := m.inputs[2].Value()

	// Client-side checks before any network round-trip
	switch {
	case email == "" || !strings.Contains(email, "@"):
		m.errText = "a valid email address is required"
		return nil
	case len(password) < 8:
		m.errText = "password must be at least 8 characters"
		return nil
	case password != confirm:
		m.errText = "passwords do not match"
		return nil
	}

	m.errText = ""
	return func() tea.Msg {
		return registerRequestMsg{Email: email, Password: password}
	}
}

// View renders the page.
func (m RegisterPageModel) View() string {
	var sb strings.Builder
	sb.WriteString(Logo(m.styles))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Title.Render("Create account"))
	sb.WriteString("\n\n")
	for _, in := range m.inputs {
		sb.WriteString(in.View())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	if m.loading {
		sb.WriteString(m.styles.Info.Render("Creating account..."))
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
	sb.WriteString(m.styles.Muted.Render("enter: create account • ctrl+l: back to sign in"))
	return sb.String()
}

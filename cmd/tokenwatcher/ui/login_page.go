package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginRequestMsg asks the app to run the login transition.
type loginRequestMsg struct {
	Email    string
	Password string
}

// LoginPageModel is the sign-in form.
type LoginPageModel struct {
	inputs  []textinput.Model
	focus   int
	loading bool
	errText string
	styles  Styles
	width   int
}

// NewLoginPageModel creates the login form.
func NewLoginPageModel(styles Styles) LoginPageModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email    > "
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password > "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 120

	return LoginPageModel{
		inputs: []textinput.Model{email, password},
		styles: styles,
	}
}

// SetSize updates the layout width.
func (m *LoginPageModel) SetSize(w, _ int) {
	m.width = w
	for i := range m.inputs {
		m.inputs[i].Width = min(w-20, 48)
	}
}

// SetLoading toggles the in-flight state; the submit control is disabled
// while true, which is the debounce the auth machine's last-write-wins
// contract expects from the UI.
func (m *LoginPageModel) SetLoading(v bool) {
	m.loading = v
}

// SetError shows the server's message verbatim under the form.
func (m *LoginPageModel) SetError(text string) {
	m.errText = text
}

// Reset clears the form for a fresh visit.
func (m *LoginPageModel) Reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.focus = 0
	m.inputs[0].Focus()
	m.inputs[1].Blur()
	m.errText = ""
	m.loading = false
}

// Update handles key input.
func (m LoginPageModel) Update(msg tea.Msg) (LoginPageModel, tea.Cmd) {
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

func (m *LoginPageModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *LoginPageModel) submit() tea.Cmd {
	if m.loading {
		return nil
	}
	email := strings.TrimSpace(m.inputs[0].Value())
	password := m.inputs[1].Value()
	if email == "" || password == "" {
		m.errText = "email and password are required"
		return nil
	}
	m.errText = ""
	return func() tea.Msg {
		return loginRequestMsg{Email: email, Password: password}
	}
}

// View renders the page.
func (m LoginPageModel) View() string {
	var sb strings.Builder
	sb.WriteString(Logo(m.styles))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Title.Render("Sign in"))
	sb.WriteString("\n\n")
	for _, in := range m.inputs {
		sb.WriteString(in.View())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	if m.loading {
		sb.WriteString(m.styles.Info.Render("Signing in..."))
		sb.WriteString("\n")
	}
	if m.errText != "" {
		sb.WriteString(m.styles.Error.Render(m.errText))
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.Muted.Render("enter: sign in • ctrl+r: create account • ctrl+d: docs"))
	return sb.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

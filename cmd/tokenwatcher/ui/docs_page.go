package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"tokenwatcher/internal/content"
)

// DocsPageModel renders the embedded product/legal pages (about, pricing,
// terms, privacy) through glamour inside a scrollable viewport. Public:
// visible logged in or out.
type DocsPageModel struct {
	viewport viewport.Model
	pages    []string
	current  int
	styles   Styles
	width    int
	height   int
}

// NewDocsPageModel creates the docs page showing the first page.
func NewDocsPageModel(styles Styles) DocsPageModel {
	vp := viewport.New(80, 20)
	m := DocsPageModel{
		viewport: vp,
		pages:    content.Pages(),
		styles:   styles,
	}
	m.render()
	return m
}

// SetSize updates the size of the viewport.
func (m *DocsPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w - 2*ContentPaddingH
	m.viewport.Height = contentHeight(h) - 2
	m.render()
}

func (m *DocsPageModel) render() {
	if len(m.pages) == 0 {
		m.viewport.SetContent("No documentation pages available.")
		return
	}
	width := m.viewport.Width
	if width <= 0 {
		width = 78
	}
	out, err := content.Render(m.pages[m.current], width, m.styles.Theme.IsDark)
	if err != nil {
		out = err.Error()
	}
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
}

// Update handles scrolling and page switching.
func (m DocsPageModel) Update(msg tea.Msg) (DocsPageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "right", "l":
			if len(m.pages) > 0 {
				m.current = (m.current + 1) % len(m.pages)
				m.render()
			}
			return m, nil
		case "left", "h":
			if len(m.pages) > 0 {
				m.current = (m.current + len(m.pages) - 1) % len(m.pages)
				m.render()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the page.
func (m DocsPageModel) View() string {
	var sb strings.Builder

	var tabs []string
	for i, p := range m.pages {
		if i == m.current {
			tabs = append(tabs, m.styles.ActiveTab.Render(p))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(p))
		}
	}
	sb.WriteString(strings.Join(tabs, " "))
	sb.WriteString("\n\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("h/l: switch page • ↑/↓: scroll"))
	return sb.String()
}

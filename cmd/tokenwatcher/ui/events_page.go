package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"tokenwatcher/internal/api"
	"tokenwatcher/internal/types"
)

// Messages the events page sends to the app.
type (
	eventsReloadMsg    struct{}
	eventsSetFilterMsg struct{ Filter api.EventFilter }
	eventsPageMsg      struct{ Next bool }
)

// sortCycle is the order the "s" key steps through.
var sortCycle = []api.EventSort{api.SortNewest, api.SortOldest, api.SortValueUSD, api.SortBlock}

func sortLabel(s api.EventSort) string {
	switch s {
	case api.SortOldest:
		return "oldest"
	case api.SortValueUSD:
		return "usd value"
	case api.SortBlock:
		return "block"
	default:
		return "newest"
	}
}

// EventsPageModel renders the transfer event feed with filtering, sorting
// and pagination. Events are read-only; every key that changes what is
// visible goes through the store and a full re-fetch.
type EventsPageModel struct {
	table   table.Model
	filter  api.EventFilter
	symbols []string
	symIdx  int // 0 = all symbols
	count   int
	loading bool
	errText string
	styles  Styles
}

// NewEventsPageModel creates the events page.
func NewEventsPageModel(styles Styles) EventsPageModel {
	columns := []table.Column{
		{Title: "Time", Width: TimeColumnWidth},
		{Title: "Token", Width: 8},
		{Title: "From", Width: AddressColumnWidth},
		{Title: "To", Width: AddressColumnWidth},
		{Title: "Amount", Width: AmountColumnWidth},
		{Title: "USD", Width: 12},
		{Title: "Block", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		Bold(true).
		Foreground(styles.Theme.Primary).
		BorderForeground(styles.Theme.Border)
	ts.Selected = ts.Selected.
		Background(styles.Theme.Accent).
		Foreground(styles.Theme.Card)
	t.SetStyles(ts)

	return EventsPageModel{table: t, styles: styles}
}

// SetSize updates table dimensions.
func (m *EventsPageModel) SetSize(w, h int) {
	m.table.SetWidth(w - 2*ContentPaddingH)
	m.table.SetHeight(contentHeight(h) - 4)
}

// SetLoading toggles the in-flight indicator.
func (m *EventsPageModel) SetLoading(v bool) { m.loading = v }

// SetError shows a fetch failure.
func (m *EventsPageModel) SetError(text string) { m.errText = text }

// UpdateContent replaces the rendered rows after a store sync.
func (m *EventsPageModel) UpdateContent(items []types.Event, filter api.EventFilter, symbols []string) {
	m.filter = filter
	m.symbols = symbols
	m.count = len(items)
	m.errText = ""

	rows := make([]table.Row, 0, len(items))
	for _, e := range items {
		usd := "-"
		if e.USDValue != nil {
			usd = fmt.Sprintf("$%.2f", *e.USDValue)
		}
		rows = append(rows, table.Row{
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.TokenSymbol,
			shortAddr(e.FromAddress),
			shortAddr(e.ToAddress),
			fmt.Sprintf("%.4f", e.Amount),
			usd,
			fmt.Sprintf("%d", e.BlockNumber),
		})
	}
	m.table.SetRows(rows)
}

// Update handles key input.
func (m EventsPageModel) Update(msg tea.Msg) (EventsPageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "s":
			return m, m.cycleSort()
		case "f":
			return m, m.cycleSymbol()
		case "n", "right":
			return m, func() tea.Msg { return eventsPageMsg{Next: true} }
		case "p", "left":
			return m, func() tea.Msg { return eventsPageMsg{Next: false} }
		case "r":
			return m, func() tea.Msg { return eventsReloadMsg{} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *EventsPageModel) cycleSort() tea.Cmd {
	idx := 0
	for i, s := range sortCycle {
		if s == m.filter.Sort {
			idx = i
			break
		}
	}
	f := m.filter
	f.Sort = sortCycle[(idx+1)%len(sortCycle)]
	return func() tea.Msg { return eventsSetFilterMsg{Filter: f} }
}

func (m *EventsPageModel) cycleSymbol() tea.Cmd {
	if len(m.symbols) == 0 {
		return nil
	}
	m.symIdx = (m.symIdx + 1) % (len(m.symbols) + 1)
	f := m.filter
	if m.symIdx == 0 {
		f.TokenSymbol = ""
	} else {
		f.TokenSymbol = m.symbols[m.symIdx-1]
	}
	return func() tea.Msg { return eventsSetFilterMsg{Filter: f} }
}

// View renders the page.
func (m EventsPageModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Events"))
	sb.WriteString("\n")

	symbol := m.filter.TokenSymbol
	if symbol == "" {
		symbol = "all"
	}
	page := m.filter.Offset/maxInt(m.filter.Limit, 1) + 1
	sb.WriteString(m.styles.Subtitle.Render(fmt.Sprintf(
		"sort: %s • symbol: %s • page %d (%d rows)",
		sortLabel(m.filter.Sort), symbol, page, m.count)))
	sb.WriteString("\n\n")

	sb.WriteString(m.table.View())
	sb.WriteString("\n")

	if m.loading {
		sb.WriteString(m.styles.Info.Render("Syncing..."))
		sb.WriteString("\n")
	}
	if m.errText != "" {
		sb.WriteString(m.styles.Error.Render(m.errText))
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.Muted.Render("s: sort • f: symbol filter • n/p: page • r: refresh"))
	return sb.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

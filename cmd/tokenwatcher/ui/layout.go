package ui

// Layout constants for viewport and panel sizing
const (
	HeaderHeight    = 1
	TabBarHeight    = 2
	StatusBarHeight = 1
	FooterHeight    = 1

	ContentPaddingH = 2
	ContentPaddingV = 1

	// Responsive breakpoints
	MinimumTerminalWidth  = 80
	MinimumTerminalHeight = 24

	// Column widths for the resource tables
	AddressColumnWidth = 14
	AmountColumnWidth  = 14
	NameColumnWidth    = 20
	TimeColumnWidth    = 17
)

// contentHeight returns the rows left for page content at a terminal height.
func contentHeight(termHeight int) int {
	h := termHeight - HeaderHeight - TabBarHeight - StatusBarHeight - FooterHeight - 2*ContentPaddingV
	if h < 4 {
		h = 4
	}
	return h
}

// shortAddr abbreviates a 0x address for table cells.
func shortAddr(addr string) string {
	if len(addr) <= AddressColumnWidth {
		return addr
	}
	return addr[:8] + "…" + addr[len(addr)-4:]
}

func truncate(s string, l int) string {
	if len(s) > l && l > 3 {
		return s[:l-3] + "..."
	}
	return s
}

// Package content embeds the static product and legal pages and renders them
// as styled terminal markdown.
package content

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
)

//go:embed pages/*.md
var pages embed.FS

// Pages returns the available page names, sorted.
func Pages() []string {
	entries, err := pages.ReadDir("pages")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// Raw returns the raw markdown for a page.
func Raw(name string) (string, error) {
	data, err := pages.ReadFile("pages/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown page %q (available: %s)", name, strings.Join(Pages(), ", "))
	}
	return string(data), nil
}

// Render returns the page rendered for a terminal of the given width.
// dark selects the glamour style.
func Render(name string, width int, dark bool) (string, error) {
	raw, err := Raw(name)
	if err != nil {
		return "", err
	}

	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return raw, nil
	}
	out, err := r.Render(raw)
	if err != nil {
		return raw, nil
	}
	return out, nil
}

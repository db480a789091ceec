package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KbdHint renders a horizontal keyboard shortcut hint bar.
type KbdHint struct {
	Bindings  []key.Binding
	KeyStyle  lipgloss.Style
	DescStyle lipgloss.Style
}

// NewKbdHint creates a KbdHint with the given styles.
func NewKbdHint(keyStyle, descStyle lipgloss.Style, bindings ...key.Binding) KbdHint {
	return KbdHint{
		Bindings:  bindings,
		KeyStyle:  keyStyle,
		DescStyle: descStyle,
	}
}

// View renders the hints of all enabled bindings.
func (k KbdHint) View() string {
	var parts []string
	for _, b := range k.Bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, k.KeyStyle.Render(h.Key)+" "+k.DescStyle.Render(h.Desc))
	}
	return "  " + strings.Join(parts, "    ")
}

// WeekKeys are the bindings of the week browser.
type WeekKeys struct {
	Prev  key.Binding
	Next  key.Binding
	Today key.Binding
	Quit  key.Binding
}

// DefaultWeekKeys returns the standard week browser bindings.
func DefaultWeekKeys() WeekKeys {
	return WeekKeys{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "previous week"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next week"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "this week"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Hints lists the bindings in display order.
func (k WeekKeys) Hints() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Today, k.Quit}
}

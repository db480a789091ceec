package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TermTheme holds all color values for a TUI theme.
type TermTheme struct {
	Name string

	// Brand
	Accent    lipgloss.Color
	AccentDim lipgloss.Color

	// Lesson states
	Regular   lipgloss.Color
	Cancelled lipgloss.Color
	Irregular lipgloss.Color

	// Text
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Dim       lipgloss.Color

	// Surfaces
	Border   lipgloss.Color
	ActiveBg lipgloss.Color
}

// DarkTheme is the default dark terminal theme.
var DarkTheme = TermTheme{
	Name:      "dark",
	Accent:    lipgloss.Color("#38bdf8"),
	AccentDim: lipgloss.Color("#0369a1"),
	Regular:   lipgloss.Color("#22c55e"),
	Cancelled: lipgloss.Color("#ef4444"),
	Irregular: lipgloss.Color("#eab308"),
	Primary:   lipgloss.Color("#e0e0e8"),
	Secondary: lipgloss.Color("#888888"),
	Dim:       lipgloss.Color("#5a5a70"),
	Border:    lipgloss.Color("#2a2a3a"),
	ActiveBg:  lipgloss.Color("#0c1a24"),
}

// LightTheme is the light terminal theme.
var LightTheme = TermTheme{
	Name:      "light",
	Accent:    lipgloss.Color("#0369a1"),
	AccentDim: lipgloss.Color("#0c4a6e"),
	Regular:   lipgloss.Color("#15803d"),
	Cancelled: lipgloss.Color("#b91c1c"),
	Irregular: lipgloss.Color("#a16207"),
	Primary:   lipgloss.Color("#0f172a"),
	Secondary: lipgloss.Color("#374151"),
	Dim:       lipgloss.Color("#4b5563"),
	Border:    lipgloss.Color("#d1d5db"),
	ActiveBg:  lipgloss.Color("#f0f9ff"),
}

// DetectTheme picks a theme from the --theme flag, UNTIS_THEME or the
// terminal background, falling back to dark.
func DetectTheme(flagVal string) TermTheme {
	if t, ok := themeByName(flagVal); ok {
		return t
	}
	if t, ok := themeByName(os.Getenv("UNTIS_THEME")); ok {
		return t
	}

	// COLORFGBG is "fg;bg"; 7 and 15 are light backgrounds
	if colorfgbg := os.Getenv("COLORFGBG"); colorfgbg != "" {
		parts := strings.Split(colorfgbg, ";")
		if len(parts) >= 2 {
			bg := parts[len(parts)-1]
			if bg == "15" || bg == "7" {
				return LightTheme
			}
		}
	}
	return DarkTheme
}

func themeByName(name string) (TermTheme, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return DarkTheme, true
	case "light":
		return LightTheme, true
	}
	return TermTheme{}, false
}

// StyleSet contains pre-computed lipgloss styles derived from a theme.
type StyleSet struct {
	Theme TermTheme

	// Text styles
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	AccentTxt    lipgloss.Style
	DimTxt       lipgloss.Style
	ErrorTxt     lipgloss.Style
	PrimaryTxt   lipgloss.Style
	SecondaryTxt lipgloss.Style

	// Lesson codes
	RegularTxt   lipgloss.Style
	CancelledTxt lipgloss.Style
	IrregularTxt lipgloss.Style

	// Tables
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	TableBorder lipgloss.Style

	// Week browser
	DayHeader lipgloss.Style
	Today     lipgloss.Style

	// Kbd hint
	KbdKey  lipgloss.Style
	KbdDesc lipgloss.Style

	// Banner
	Banner      lipgloss.Style
	VersionPill lipgloss.Style

	// Summary
	SummaryKey   lipgloss.Style
	SummaryValue lipgloss.Style
	BorderedBox  lipgloss.Style
}

// NewStyleSet creates a StyleSet from a theme.
func NewStyleSet(theme TermTheme) *StyleSet {
	return &StyleSet{
		Theme: theme,

		Title:        lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		Subtitle:     lipgloss.NewStyle().Foreground(theme.Secondary),
		AccentTxt:    lipgloss.NewStyle().Foreground(theme.Accent),
		DimTxt:       lipgloss.NewStyle().Foreground(theme.Dim),
		ErrorTxt:     lipgloss.NewStyle().Foreground(theme.Cancelled),
		PrimaryTxt:   lipgloss.NewStyle().Foreground(theme.Primary),
		SecondaryTxt: lipgloss.NewStyle().Foreground(theme.Secondary),

		RegularTxt:   lipgloss.NewStyle().Foreground(theme.Regular),
		CancelledTxt: lipgloss.NewStyle().Foreground(theme.Cancelled).Strikethrough(true),
		IrregularTxt: lipgloss.NewStyle().Foreground(theme.Irregular).Bold(true),

		TableHeader: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Padding(0, 1),
		TableCell: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Padding(0, 1),
		TableBorder: lipgloss.NewStyle().
			Foreground(theme.Border),

		DayHeader: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Underline(true),
		Today: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Background(theme.ActiveBg).
			Bold(true),

		KbdKey: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Background(theme.Dim).
			Padding(0, 1),
		KbdDesc: lipgloss.NewStyle().
			Foreground(theme.Dim),

		Banner: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),
		VersionPill: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),

		SummaryKey: lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Width(14),
		SummaryValue: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/initializ/untis/types"
)

// WeekLoader fetches the week containing anyDay.
type WeekLoader func(ctx context.Context, anyDay time.Time) (types.WeeklyTimetable, error)

type weekLoadedMsg struct {
	monday time.Time
	week   types.WeeklyTimetable
	err    error
}

// WeekModel browses weekly timetables one week at a time.
type WeekModel struct {
	ctx     context.Context
	styles  *StyleSet
	keys    WeekKeys
	load    WeekLoader
	spinner spinner.Model
	title   string
	version string
	now     func() time.Time

	monday  time.Time
	week    types.WeeklyTimetable
	loading bool
	err     error
	width   int
}

// NewWeekModel creates a browser starting at the week containing start.
func NewWeekModel(ctx context.Context, theme TermTheme, load WeekLoader, start time.Time, title, version string) WeekModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	return WeekModel{
		ctx:     ctx,
		styles:  NewStyleSet(theme),
		keys:    DefaultWeekKeys(),
		load:    load,
		spinner: sp,
		title:   title,
		version: version,
		now:     time.Now,
		monday:  types.MondayOf(start),
		loading: true,
		width:   80,
	}
}

// Init starts the spinner and loads the first week.
func (m WeekModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(m.monday))
}

func (m WeekModel) fetch(monday time.Time) tea.Cmd {
	return func() tea.Msg {
		week, err := m.load(m.ctx, monday)
		return weekLoadedMsg{monday: monday, week: week, err: err}
	}
}

// Update handles messages.
func (m WeekModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			return m.goTo(m.monday.AddDate(0, 0, -7))
		case key.Matches(msg, m.keys.Next):
			return m.goTo(m.monday.AddDate(0, 0, 7))
		case key.Matches(msg, m.keys.Today):
			return m.goTo(types.MondayOf(m.now()))
		}
		return m, nil

	case weekLoadedMsg:
		// a reply for a week the user already left
		if !msg.monday.Equal(m.monday) {
			return m, nil
		}
		m.loading = false
		m.week, m.err = msg.week, msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m WeekModel) goTo(monday time.Time) (tea.Model, tea.Cmd) {
	if monday.Equal(m.monday) && !m.loading && m.err == nil {
		return m, nil
	}
	m.monday = monday
	m.loading = true
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.fetch(monday))
}

// View renders the current week.
func (m WeekModel) View() string {
	var b strings.Builder
	b.WriteString("\n" + RenderBanner(m.styles, m.version, m.width))

	sunday := m.monday.AddDate(0, 0, 6)
	header := fmt.Sprintf("%s  %s to %s", m.title, m.monday.Format(time.DateOnly), sunday.Format(time.DateOnly))
	b.WriteString("  " + m.styles.Title.Render(strings.TrimSpace(header)) + "\n\n")

	switch {
	case m.loading:
		b.WriteString("  " + m.spinner.View() + " " + m.styles.DimTxt.Render("loading timetable…") + "\n")
	case m.err != nil:
		b.WriteString("  " + m.styles.ErrorTxt.Render("✗ "+m.err.Error()) + "\n")
	default:
		b.WriteString(m.viewDays())
	}

	b.WriteString("\n" + NewKbdHint(m.styles.KbdKey, m.styles.KbdDesc, m.keys.Hints()...).View() + "\n")
	return b.String()
}

func (m WeekModel) viewDays() string {
	var b strings.Builder
	today := types.DateOnly(m.now())
	for i := 0; i < 7; i++ {
		date := m.monday.AddDate(0, 0, i)
		lessons := m.week.Day(date.Weekday())
		// weekends only show up when something is scheduled
		if len(lessons) == 0 && (date.Weekday() == time.Saturday || date.Weekday() == time.Sunday) {
			continue
		}

		day := fmt.Sprintf("%s %s", date.Weekday().String()[:3], date.Format("02.01."))
		if date.Equal(today) {
			b.WriteString("  " + m.styles.Today.Render(day) + "\n")
		} else {
			b.WriteString("  " + m.styles.DayHeader.Render(day) + "\n")
		}

		if len(lessons) == 0 {
			b.WriteString("    " + m.styles.DimTxt.Render("no lessons") + "\n")
			continue
		}
		sorted := append(types.Timetable(nil), lessons...)
		sorted.SortChronologically()
		for _, l := range sorted {
			b.WriteString("    " + LessonLine(m.styles, l) + "\n")
		}
	}
	return b.String()
}

// LessonLine renders a lesson as one line: time, subject, classes,
// teachers, rooms and, if not regular, its code.
func LessonLine(styles *StyleSet, l types.Lesson) string {
	when := styles.SecondaryTxt.Render(l.Start.String() + "-" + l.End.String())

	parts := []string{
		strings.Join(l.Subjects.Names(), ","),
		strings.Join(l.Classes.Names(), ","),
		strings.Join(l.Teachers.Names(), ","),
		strings.Join(l.Rooms.Names(), ","),
	}
	var fields []string
	for _, p := range parts {
		if p != "" {
			fields = append(fields, p)
		}
	}
	text := strings.Join(fields, "  ")

	switch l.Code {
	case types.CodeCancelled:
		text = styles.CancelledTxt.Render(text) + " " + styles.ErrorTxt.Render("cancelled")
	case types.CodeIrregular:
		text = styles.IrregularTxt.Render(text) + " " + styles.IrregularTxt.Render("irregular")
	default:
		text = styles.PrimaryTxt.Render(text)
	}
	if l.SubstText != "" {
		text += " " + styles.DimTxt.Render("("+l.SubstText+")")
	}
	return when + "  " + text
}

// Err returns the error of the last load, if any.
func (m WeekModel) Err() error {
	return m.err
}

// Monday returns the first day of the displayed week.
func (m WeekModel) Monday() time.Time {
	return m.monday
}

// RunWeek runs the week browser until the user quits.
func RunWeek(ctx context.Context, theme TermTheme, load WeekLoader, start time.Time, title, version string) error {
	m := NewWeekModel(ctx, theme, load, start, title, version)
	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running week browser: %w", err)
	}
	return nil
}

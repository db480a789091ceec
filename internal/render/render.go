// Package render writes untis results as styled tables, JSON or Markdown.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/initializ/untis/internal/tui"
	"github.com/initializ/untis/types"
)

// Format selects how results are written.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates an --output value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or markdown)", s)
}

// Grid is a table independent of the output format.
type Grid struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Renderer writes values to an io.Writer in one Format.
type Renderer struct {
	out    io.Writer
	format Format
	styles *tui.StyleSet
}

// New creates a Renderer. A nil style set uses the dark theme.
func New(out io.Writer, format Format, styles *tui.StyleSet) *Renderer {
	if styles == nil {
		styles = tui.NewStyleSet(tui.DarkTheme)
	}
	if format == "" {
		format = FormatTable
	}
	return &Renderer{out: out, format: format, styles: styles}
}

// Render writes v. JSON output encodes v itself; table and Markdown
// output need v to be one of the known untis types.
func (r *Renderer) Render(v any) error {
	if r.format == FormatJSON {
		return r.json(v)
	}
	grids, err := Grids(v)
	if err != nil {
		return err
	}
	for i, g := range grids {
		if i > 0 {
			if _, err := fmt.Fprintln(r.out); err != nil {
				return err
			}
		}
		var s string
		if r.format == FormatMarkdown {
			s = Markdown(g)
		} else {
			s = r.table(g)
		}
		if _, err := io.WriteString(r.out, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) json(v any) error {
	if raw, ok := v.(json.RawMessage); ok {
		var pretty any
		if err := json.Unmarshal(raw, &pretty); err == nil {
			v = pretty
		}
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func (r *Renderer) table(g Grid) string {
	var b strings.Builder
	if g.Title != "" {
		b.WriteString(r.styles.Title.Render(g.Title) + "\n")
	}
	if len(g.Rows) == 0 {
		b.WriteString(r.styles.DimTxt.Render("(none)") + "\n")
		return b.String()
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.styles.TableBorder).
		Headers(g.Headers...).
		Rows(g.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.styles.TableHeader
			}
			return r.styles.TableCell
		})
	b.WriteString(t.String() + "\n")
	return b.String()
}

// Markdown renders g as a GitHub flavored Markdown table.
func Markdown(g Grid) string {
	var b strings.Builder
	if g.Title != "" {
		b.WriteString("### " + g.Title + "\n\n")
	}
	if len(g.Rows) == 0 {
		b.WriteString("_none_\n")
		return b.String()
	}
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" " + strings.ReplaceAll(c, "|", `\|`) + " |")
		}
		b.WriteString("\n")
	}
	writeRow(g.Headers)
	sep := make([]string, len(g.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, row := range g.Rows {
		writeRow(row)
	}
	return b.String()
}

// Grids converts a known untis value into one or more grids.
func Grids(v any) ([]Grid, error) {
	switch t := v.(type) {
	case types.Classes:
		return one(classesGrid(t)), nil
	case types.Departments:
		return one(departmentsGrid(t)), nil
	case types.Teachers:
		return one(teachersGrid(t)), nil
	case types.Subjects:
		return one(subjectsGrid(t)), nil
	case types.Rooms:
		return one(roomsGrid(t)), nil
	case types.Holidays:
		return one(holidaysGrid(t)), nil
	case types.SchoolYears:
		return one(schoolYearsGrid(t)), nil
	case types.SchoolYear:
		return one(schoolYearsGrid(types.SchoolYears{t})), nil
	case types.TimegridUnits:
		return timegridGrids(t), nil
	case types.Timetable:
		return one(timetableGrid("", t)), nil
	case types.WeeklyTimetable:
		return weeklyGrids(t), nil
	case types.Infos:
		return one(infosGrid(t)), nil
	case types.LatestImportTime:
		return one(Grid{Headers: []string{"Latest import"}, Rows: [][]string{{t.Time().Format(time.RFC3339)}}}), nil
	case json.RawMessage:
		return one(Grid{Headers: []string{"Result"}, Rows: [][]string{{string(t)}}}), nil
	}
	return nil, fmt.Errorf("cannot render %T as a table", v)
}

func one(g Grid) []Grid { return []Grid{g} }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func classesGrid(l types.Classes) Grid {
	g := Grid{Headers: []string{"ID", "Name", "Long name", "Active"}}
	for _, c := range l {
		g.Rows = append(g.Rows, []string{strconv.Itoa(c.ID), c.Name, c.LongName, yesNo(c.Active)})
	}
	return g
}

func departmentsGrid(l types.Departments) Grid {
	g := Grid{Headers: []string{"ID", "Name", "Long name"}}
	for _, d := range l {
		g.Rows = append(g.Rows, []string{strconv.Itoa(d.ID), d.Name, d.LongName})
	}
	return g
}

func teachersGrid(l types.Teachers) Grid {
	g := Grid{Headers: []string{"ID", "Name", "Full name", "Active"}}
	for _, t := range l {
		g.Rows = append(g.Rows, []string{strconv.Itoa(t.ID), t.Name, t.FullName, yesNo(t.Active)})
	}
	return g
}

func subjectsGrid(l types.Subjects) Grid {
	g := Grid{Headers: []string{"ID", "Name", "Long name", "Alternate", "Colors", "Active"}}
	for _, s := range l {
		g.Rows = append(g.Rows, []string{
			strconv.Itoa(s.ID), s.Name, s.LongName, s.AlternateName,
			s.BackColor + "/" + s.ForeColor, yesNo(s.Active),
		})
	}
	return g
}

func roomsGrid(l types.Rooms) Grid {
	g := Grid{Headers: []string{"ID", "Name", "Long name", "Building", "Active"}}
	for _, r := range l {
		g.Rows = append(g.Rows, []string{strconv.Itoa(r.ID), r.Name, r.LongName, r.Building, yesNo(r.Active)})
	}
	return g
}

func holidaysGrid(l types.Holidays) Grid {
	g := Grid{Headers: []string{"ID", "Name", "Long name", "From", "To"}}
	for _, h := range l {
		g.Rows = append(g.Rows, []string{
			strconv.Itoa(h.ID), h.Name, h.LongName,
			h.Start.Format(time.DateOnly), h.End.Format(time.DateOnly),
		})
	}
	return g
}

func schoolYearsGrid(l types.SchoolYears) Grid {
	g := Grid{Headers: []string{"ID", "Name", "From", "To"}}
	for _, y := range l {
		g.Rows = append(g.Rows, []string{strconv.Itoa(y.ID), y.Name, y.Start.Format(time.DateOnly), y.End.Format(time.DateOnly)})
	}
	return g
}

func timegridGrids(l types.TimegridUnits) []Grid {
	grids := make([]Grid, 0, len(l))
	for _, day := range l {
		g := Grid{Title: day.Day.String(), Headers: []string{"Unit", "Start", "End"}}
		for _, u := range day.Units {
			g.Rows = append(g.Rows, []string{u.Name, u.Start.String(), u.End.String()})
		}
		grids = append(grids, g)
	}
	if len(grids) == 0 {
		grids = append(grids, Grid{Headers: []string{"Unit", "Start", "End"}})
	}
	return grids
}

func timetableGrid(title string, t types.Timetable) Grid {
	sorted := append(types.Timetable(nil), t...)
	sorted.SortChronologically()

	g := Grid{Title: title, Headers: []string{"Date", "Unit", "Time", "Subject", "Classes", "Teachers", "Rooms", "Code", "Notes"}}
	for _, l := range sorted {
		unit := ""
		if l.TimeUnit != nil {
			unit = l.TimeUnit.Name
		}
		g.Rows = append(g.Rows, []string{
			l.Date.Format(time.DateOnly),
			unit,
			l.Start.String() + "-" + l.End.String(),
			strings.Join(l.Subjects.Names(), ", "),
			strings.Join(l.Classes.Names(), ", "),
			withOriginal(l.Teachers.Names(), l.OriginalTeachers.Names()),
			withOriginal(l.Rooms.Names(), l.OriginalRooms.Names()),
			string(l.Code),
			notes(l),
		})
	}
	return g
}

// withOriginal renders "NEW (OLD)" for substituted elements.
func withOriginal(current, original []string) string {
	s := strings.Join(current, ", ")
	if len(original) > 0 {
		s += " (" + strings.Join(original, ", ") + ")"
	}
	return s
}

func notes(l types.Lesson) string {
	var parts []string
	for _, p := range []string{l.SubstText, l.Info, l.LsText} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "; ")
}

func weeklyGrids(w types.WeeklyTimetable) []Grid {
	grids := make([]Grid, 0, 7)
	for i := 0; i < 7; i++ {
		date := w.Monday.AddDate(0, 0, i)
		lessons := w.Day(date.Weekday())
		if len(lessons) == 0 && (date.Weekday() == time.Saturday || date.Weekday() == time.Sunday) {
			continue
		}
		grids = append(grids, timetableGrid(date.Weekday().String()+" "+date.Format(time.DateOnly), lessons))
	}
	return grids
}

func infosGrid(i types.Infos) Grid {
	personType := ""
	if i.PersonType != 0 {
		personType = i.PersonType.String()
	}
	return Grid{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Username", i.Username},
			{"Server", i.Server},
			{"School", i.School},
			{"Session", i.SessionID},
			{"Person", strconv.Itoa(i.PersonID)},
			{"Person type", personType},
			{"Class", strconv.Itoa(i.ClassID)},
		},
	}
}

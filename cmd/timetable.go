package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/initializ/untis/internal/tui"
	"github.com/initializ/untis/session"
	"github.com/initializ/untis/types"
)

// elementFlags select whose timetable is shown. With no type the logged-in
// person's own timetable is used.
type elementFlags struct {
	typ  string
	id   int
	name string
}

func (f *elementFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.typ, "type", "", "element type: class, teacher, subject, room or person (default: own timetable)")
	cmd.Flags().IntVar(&f.id, "id", 0, "element id")
	cmd.Flags().StringVar(&f.name, "name", "", "element name, looked up instead of --id")
}

// resolve returns the element type and id to request.
func (f *elementFlags) resolve(ctx context.Context, s *session.Session) (types.ElementType, int, error) {
	if f.typ == "" {
		if f.id != 0 || f.name != "" {
			return 0, 0, fmt.Errorf("--id and --name need --type")
		}
		infos := s.Infos()
		typ := infos.PersonType
		if typ == 0 {
			typ = types.ElementPerson
		}
		return typ, infos.PersonID, nil
	}

	typ, err := types.ParseElementType(f.typ)
	if err != nil {
		return 0, 0, err
	}
	switch {
	case f.name != "" && f.id != 0:
		return 0, 0, fmt.Errorf("use either --id or --name")
	case f.name != "":
		id, err := lookupElement(ctx, s, typ, f.name)
		return typ, id, err
	case f.id != 0:
		return typ, f.id, nil
	}
	return 0, 0, fmt.Errorf("--type %s needs --id or --name", typ)
}

func (f *elementFlags) label(typ types.ElementType, id int) string {
	if f.name != "" {
		return f.name
	}
	if f.typ == "" {
		return "My timetable"
	}
	return fmt.Sprintf("%s %d", typ, id)
}

// parseDay accepts yyyy-mm-dd, yyyymmdd, "today" and "tomorrow". An empty
// value is today.
func parseDay(s string) (time.Time, error) {
	today := types.DateOnly(now())
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	for _, layout := range []string{time.DateOnly, "20060102"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want yyyy-mm-dd)", s)
}

var (
	ttFrom    string
	ttTo      string
	ttElement elementFlags
	ttChanged bool
)

var timetableCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Show the timetable for a date range",
	RunE:  runTimetable,
}

func init() {
	timetableCmd.Flags().StringVar(&ttFrom, "from", "", "first day, yyyy-mm-dd (default today)")
	timetableCmd.Flags().StringVar(&ttTo, "to", "", "last day, yyyy-mm-dd (default --from)")
	timetableCmd.Flags().BoolVar(&ttChanged, "changed", false, "only show cancelled, irregular or substituted lessons")
	ttElement.register(timetableCmd)
}

func runTimetable(cmd *cobra.Command, args []string) error {
	from, err := parseDay(ttFrom)
	if err != nil {
		return err
	}
	to := from
	if ttTo != "" {
		if to, err = parseDay(ttTo); err != nil {
			return err
		}
	}

	return withSession(cmd, func(ctx context.Context, a *app, s *session.Session) error {
		typ, id, err := ttElement.resolve(ctx, s)
		if err != nil {
			return err
		}
		lessons, err := s.Timetable(ctx, from, to, typ, id)
		if err != nil {
			return fmt.Errorf("loading timetable: %w", err)
		}
		if ttChanged {
			lessons = changedLessons(lessons)
		}
		lessons.SortChronologically()
		return a.render(lessons)
	})
}

// changedLessons keeps lessons that are cancelled, irregular or
// substituted.
func changedLessons(t types.Timetable) types.Timetable {
	out := types.Timetable{}
	for _, l := range t {
		if l.HasChanges() || l.Code != types.CodeRegular {
			out = append(out, l)
		}
	}
	return out
}

var (
	weekDate        string
	weekElement     elementFlags
	weekInteractive bool
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the Monday to Sunday timetable of a week",
	RunE:  runWeek,
}

func init() {
	weekCmd.Flags().StringVar(&weekDate, "date", "", "any day of the week, yyyy-mm-dd (default today)")
	weekCmd.Flags().BoolVarP(&weekInteractive, "interactive", "i", false, "browse weeks interactively")
	weekElement.register(weekCmd)
}

func runWeek(cmd *cobra.Command, args []string) error {
	day, err := parseDay(weekDate)
	if err != nil {
		return err
	}

	return withSession(cmd, func(ctx context.Context, a *app, s *session.Session) error {
		typ, id, err := weekElement.resolve(ctx, s)
		if err != nil {
			return err
		}
		load := func(ctx context.Context, anyDay time.Time) (types.WeeklyTimetable, error) {
			return s.WeeklyTimetable(ctx, anyDay, typ, id)
		}

		if weekInteractive {
			theme := tui.DetectTheme(themeOverride)
			return tui.RunWeek(ctx, theme, load, day, weekElement.label(typ, id), appVersion)
		}
		week, err := load(ctx, day)
		if err != nil {
			return fmt.Errorf("loading week: %w", err)
		}
		return a.render(week)
	})
}

package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/initializ/untis/session"
	"github.com/initializ/untis/types"
)

var (
	listSearch     string
	listActiveOnly bool
)

// lister loads one kind of master data, filtered by a name fragment.
type lister func(ctx context.Context, s *session.Session, search string, activeOnly bool) (any, error)

var listers = map[string]lister{
	"classes": func(ctx context.Context, s *session.Session, search string, activeOnly bool) (any, error) {
		l, err := s.Classes(ctx)
		if err != nil {
			return nil, err
		}
		if search != "" {
			l = l.SearchByName(search)
		}
		if activeOnly {
			l = l.SearchByActive(true)
		}
		l.SortByName()
		return l, nil
	},

	"teachers": func(ctx context.Context, s *session.Session, search string, activeOnly bool) (any, error) {
		l, err := s.Teachers(ctx)
		if err != nil {
			return nil, err
		}
		if search != "" {
			l = l.SearchByFullName(search)
		}
		if activeOnly {
			l = l.SearchByActive(true)
		}
		l.SortByName()
		return l, nil
	},

	"subjects": func(ctx context.Context, s *session.Session, search string, activeOnly bool) (any, error) {
		l, err := s.Subjects(ctx)
		if err != nil {
			return nil, err
		}
		if search != "" {
			l = l.SearchByLongName(search)
		}
		if activeOnly {
			l = l.SearchByActive(true)
		}
		l.SortByName()
		return l, nil
	},

	"rooms": func(ctx context.Context, s *session.Session, search string, activeOnly bool) (any, error) {
		l, err := s.Rooms(ctx)
		if err != nil {
			return nil, err
		}
		if search != "" {
			l = l.SearchByName(search)
		}
		if activeOnly {
			l = l.SearchByActive(true)
		}
		l.SortByName()
		return l, nil
	},

	"departments": func(ctx context.Context, s *session.Session, search string, _ bool) (any, error) {
		l, err := s.Departments(ctx)
		if err != nil {
			return nil, err
		}
		if search != "" {
			l = l.SearchByName(search)
		}
		l.SortByName()
		return l, nil
	},

	"holidays": func(ctx context.Context, s *session.Session, search string, _ bool) (any, error) {
		l, err := s.Holidays(ctx)
		if err != nil {
			return nil, err
		}
		if search != "" {
			l = l.SearchByLongName(search)
		}
		l.SortByStartDate()
		return l, nil
	},

	"schoolyears": func(ctx context.Context, s *session.Session, search string, _ bool) (any, error) {
		l, err := s.SchoolYears(ctx)
		if err != nil {
			return nil, err
		}
		if search != "" {
			l = l.SearchByName(search)
		}
		l.SortByStartDate()
		return l, nil
	},

	"schoolyear": func(ctx context.Context, s *session.Session, _ string, _ bool) (any, error) {
		return s.CurrentSchoolYear(ctx)
	},

	"timegrid": func(ctx context.Context, s *session.Session, _ string, _ bool) (any, error) {
		return s.TimegridUnits(ctx)
	},
}

func listKinds() []string {
	kinds := make([]string, 0, len(listers))
	for k := range listers {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

var listCmd = &cobra.Command{
	Use:       "list <kind>",
	Short:     "List master data",
	Long:      "List master data. Kinds: " + strings.Join(listKinds(), ", ") + ".",
	Args:      cobra.ExactArgs(1),
	ValidArgs: listKinds(),
	RunE:      runList,
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "only show entries whose name contains this text")
	listCmd.Flags().BoolVar(&listActiveOnly, "active", false, "only show active entries")
}

func runList(cmd *cobra.Command, args []string) error {
	kind := strings.ToLower(args[0])
	load, ok := listers[kind]
	if !ok {
		return fmt.Errorf("unknown kind %q (known: %s)", args[0], strings.Join(listKinds(), ", "))
	}
	return withSession(cmd, func(ctx context.Context, a *app, s *session.Session) error {
		v, err := load(ctx, s, listSearch, listActiveOnly)
		if err != nil {
			return fmt.Errorf("listing %s: %w", kind, err)
		}
		return a.render(v)
	})
}

// lookupElement resolves an element name to its id.
func lookupElement(ctx context.Context, s *session.Session, typ types.ElementType, name string) (int, error) {
	var (
		id    int
		found bool
	)
	switch typ {
	case types.ElementClass:
		l, err := s.Classes(ctx)
		if err != nil {
			return 0, err
		}
		c, ok := l.FindByName(name)
		id, found = c.ID, ok
	case types.ElementTeacher:
		l, err := s.Teachers(ctx)
		if err != nil {
			return 0, err
		}
		t, ok := l.FindByName(name)
		id, found = t.ID, ok
	case types.ElementSubject:
		l, err := s.Subjects(ctx)
		if err != nil {
			return 0, err
		}
		sub, ok := l.FindByName(name)
		id, found = sub.ID, ok
	case types.ElementRoom:
		l, err := s.Rooms(ctx)
		if err != nil {
			return 0, err
		}
		r, ok := l.FindByName(name)
		id, found = r.ID, ok
	default:
		return 0, fmt.Errorf("cannot look up %s elements by name; use --id", typ)
	}
	if !found {
		return 0, fmt.Errorf("no %s named %q", typ, name)
	}
	return id, nil
}

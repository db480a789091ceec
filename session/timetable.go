package session

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/initializ/untis/types"
)

type timetableElement struct {
	ID   int `json:"id"`
	Type int `json:"type"`
}

type timetableOptions struct {
	dateRange
	Element           timetableElement `json:"element"`
	OnlyBaseTimetable bool             `json:"onlyBaseTimetable"`
	ShowInfo          bool             `json:"showInfo"`
	ShowSubstText     bool             `json:"showSubstText"`
	ShowLsText        bool             `json:"showLsText"`
	ShowLsNumber      bool             `json:"showLsNumber"`
	ShowStudentGroup  bool             `json:"showStudentgroup"`
}

// masterData is what lessons are resolved against.
type masterData struct {
	classes  types.Classes
	teachers types.Teachers
	subjects types.Subjects
	rooms    types.Rooms
	units    types.TimeUnits
}

// Timetable returns the lessons of one element between start and end,
// inclusive, with classes, teachers, subjects, rooms and time units
// resolved. Master data lists the account may not read are left empty.
func (s *Session) Timetable(ctx context.Context, start, end time.Time, typ types.ElementType, id int) (types.Timetable, error) {
	r, err := newDateRange(start, end)
	if err != nil {
		return nil, err
	}
	params := optionsParams{Options: timetableOptions{
		dateRange:        r,
		Element:          timetableElement{ID: id, Type: int(typ)},
		ShowInfo:         true,
		ShowSubstText:    true,
		ShowLsText:       true,
		ShowLsNumber:     true,
		ShowStudentGroup: true,
	}}

	var (
		lessons []wireLesson
		grid    types.TimegridUnits
		master  masterData
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lessons, err = fetch[[]wireLesson](gctx, s, types.MethodTimetable, params)
		return err
	})
	g.Go(func() error {
		var err error
		grid, err = s.TimegridUnits(gctx)
		if err != nil {
			return fmt.Errorf("loading timegrid: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		master.classes = optionalList(gctx, s, types.MethodClasses, s.Classes)
		return nil
	})
	g.Go(func() error {
		master.teachers = optionalList(gctx, s, types.MethodTeachers, s.Teachers)
		return nil
	})
	g.Go(func() error {
		master.subjects = optionalList(gctx, s, types.MethodSubjects, s.Subjects)
		return nil
	})
	g.Go(func() error {
		master.rooms = optionalList(gctx, s, types.MethodRooms, s.Rooms)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(grid) == 0 {
		return nil, ErrNoTimegrid
	}
	master.units = grid.Reference()
	return resolveLessons(lessons, master)
}

// optionalList loads a master data list, logging failures and returning an
// empty list instead.
func optionalList[L ~[]E, E any](ctx context.Context, s *Session, method types.Method, load func(context.Context) (L, error)) L {
	list, err := load(ctx)
	if err != nil {
		s.opts.logger.Warn("master data unavailable, lessons will not reference it", map[string]any{
			"method": string(method),
			"error":  err,
		})
		return L{}
	}
	return list
}

func resolveLessons(in []wireLesson, m masterData) (types.Timetable, error) {
	out := make(types.Timetable, 0, len(in))
	for _, w := range in {
		l, err := resolveLesson(w, m)
		if err != nil {
			return nil, fmt.Errorf("lesson %d: %w", w.ID, err)
		}
		out = append(out, l)
	}
	return out, nil
}

func resolveLesson(w wireLesson, m masterData) (types.Lesson, error) {
	date, err := types.ParseDate(w.Date)
	if err != nil {
		return types.Lesson{}, err
	}
	start, err := types.ParseClock(w.StartTime)
	if err != nil {
		return types.Lesson{}, err
	}
	end, err := types.ParseClock(w.EndTime)
	if err != nil {
		return types.Lesson{}, err
	}

	l := types.Lesson{
		ID:           w.ID,
		Date:         date,
		Start:        start,
		End:          end,
		Code:         types.ParseLessonCode(w.Code),
		ActivityType: w.ActivityType,
		Info:         w.Info,
		SubstText:    w.SubstText,
		LsText:       w.LsText,
		LsNumber:     w.LsNumber,
		StudentGroup: w.StudentGroup,
	}
	if unit, ok := m.units.FindByStartTime(start); ok {
		l.TimeUnit = &unit
	}
	l.Classes, l.OriginalClasses = resolveRefs[types.Classes](w.Classes, m.classes.FindByID)
	l.Teachers, l.OriginalTeachers = resolveRefs[types.Teachers](w.Teachers, m.teachers.FindByID)
	l.Subjects, l.OriginalSubjects = resolveRefs[types.Subjects](w.Subjects, m.subjects.FindByID)
	l.Rooms, l.OriginalRooms = resolveRefs[types.Rooms](w.Rooms, m.rooms.FindByID)
	return l, nil
}

// resolveRefs looks up each reference and the element it replaced. Unknown
// ids are skipped.
func resolveRefs[L ~[]E, E any](refs []wireRef, byID func(int) (E, bool)) (current, original L) {
	current, original = L{}, L{}
	for _, r := range refs {
		if v, ok := byID(r.ID); ok {
			current = append(current, v)
		}
		if r.OrgID != nil {
			if v, ok := byID(*r.OrgID); ok {
				original = append(original, v)
			}
		}
	}
	return current, original
}

// TimetableForClass returns the timetable of a class.
func (s *Session) TimetableForClass(ctx context.Context, start, end time.Time, id int) (types.Timetable, error) {
	return s.Timetable(ctx, start, end, types.ElementClass, id)
}

// TimetableForTeacher returns the timetable of a teacher.
func (s *Session) TimetableForTeacher(ctx context.Context, start, end time.Time, id int) (types.Timetable, error) {
	return s.Timetable(ctx, start, end, types.ElementTeacher, id)
}

// TimetableForSubject returns the timetable of a subject.
func (s *Session) TimetableForSubject(ctx context.Context, start, end time.Time, id int) (types.Timetable, error) {
	return s.Timetable(ctx, start, end, types.ElementSubject, id)
}

// TimetableForRoom returns the timetable of a room.
func (s *Session) TimetableForRoom(ctx context.Context, start, end time.Time, id int) (types.Timetable, error) {
	return s.Timetable(ctx, start, end, types.ElementRoom, id)
}

// TimetableForPerson returns the timetable of a person.
func (s *Session) TimetableForPerson(ctx context.Context, start, end time.Time, id int) (types.Timetable, error) {
	return s.Timetable(ctx, start, end, types.ElementPerson, id)
}

// WeeklyTimetable returns the Monday to Sunday timetable of the week
// containing anyDay.
func (s *Session) WeeklyTimetable(ctx context.Context, anyDay time.Time, typ types.ElementType, id int) (types.WeeklyTimetable, error) {
	monday := types.MondayOf(anyDay)
	lessons, err := s.Timetable(ctx, monday, monday.AddDate(0, 0, 6), typ, id)
	if err != nil {
		return types.WeeklyTimetable{}, err
	}
	return types.NewWeeklyTimetable(monday, lessons), nil
}

// WeeklyTimetableForClass returns the weekly timetable of a class.
func (s *Session) WeeklyTimetableForClass(ctx context.Context, anyDay time.Time, id int) (types.WeeklyTimetable, error) {
	return s.WeeklyTimetable(ctx, anyDay, types.ElementClass, id)
}

// WeeklyTimetableForTeacher returns the weekly timetable of a teacher.
func (s *Session) WeeklyTimetableForTeacher(ctx context.Context, anyDay time.Time, id int) (types.WeeklyTimetable, error) {
	return s.WeeklyTimetable(ctx, anyDay, types.ElementTeacher, id)
}

// WeeklyTimetableForSubject returns the weekly timetable of a subject.
func (s *Session) WeeklyTimetableForSubject(ctx context.Context, anyDay time.Time, id int) (types.WeeklyTimetable, error) {
	return s.WeeklyTimetable(ctx, anyDay, types.ElementSubject, id)
}

// WeeklyTimetableForRoom returns the weekly timetable of a room.
func (s *Session) WeeklyTimetableForRoom(ctx context.Context, anyDay time.Time, id int) (types.WeeklyTimetable, error) {
	return s.WeeklyTimetable(ctx, anyDay, types.ElementRoom, id)
}

// WeeklyTimetableForPerson returns the weekly timetable of a person.
func (s *Session) WeeklyTimetableForPerson(ctx context.Context, anyDay time.Time, id int) (types.WeeklyTimetable, error) {
	return s.WeeklyTimetable(ctx, anyDay, types.ElementPerson, id)
}

// OwnTimetable returns the timetable of the logged-in person.
func (s *Session) OwnTimetable(ctx context.Context, start, end time.Time) (types.Timetable, error) {
	infos := s.Infos()
	typ := infos.PersonType
	if typ == 0 {
		typ = types.ElementPerson
	}
	return s.Timetable(ctx, start, end, typ, infos.PersonID)
}

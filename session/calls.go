package session

import (
	"context"
	"fmt"
	"time"

	"github.com/initializ/untis/jsonrpc"
	"github.com/initializ/untis/types"
)

// dateRange is the startDate / endDate pair most calls take.
type dateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func newDateRange(start, end time.Time) (dateRange, error) {
	if types.DateOnly(end).Before(types.DateOnly(start)) {
		return dateRange{}, fmt.Errorf("%s to %s: %w", types.FormatDate(start), types.FormatDate(end), ErrInvalidRange)
	}
	return dateRange{StartDate: types.FormatDate(start), EndDate: types.FormatDate(end)}, nil
}

type classRegEventsParams struct {
	dateRange
	Type int `json:"type,omitempty"`
	ID   int `json:"id,omitempty"`
}

type examsParams struct {
	dateRange
	ExamTypeID int `json:"examTypeId"`
}

type classesParams struct {
	SchoolYearID int `json:"schoolyearId"`
}

type optionsParams struct {
	Options any `json:"options"`
}

func decode[T any](resp *jsonrpc.Response, method types.Method) (T, error) {
	var v T
	if err := resp.Decode(&v); err != nil {
		return v, fmt.Errorf("decoding %s: %w", method, err)
	}
	return v, nil
}

func fetch[T any](ctx context.Context, s *Session, method types.Method, params any) (T, error) {
	resp, err := s.call(ctx, method, params, true)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](resp, method)
}

// ClassRegCategories returns the raw class register categories.
func (s *Session) ClassRegCategories(ctx context.Context) (*jsonrpc.Response, error) {
	return s.call(ctx, types.MethodClassRegCategories, nil, true)
}

// ClassRegCategoryGroups returns the raw class register category groups.
func (s *Session) ClassRegCategoryGroups(ctx context.Context) (*jsonrpc.Response, error) {
	return s.call(ctx, types.MethodClassRegCategoryGroups, nil, true)
}

// ClassRegEvents returns the raw class register events between start and
// end, inclusive.
func (s *Session) ClassRegEvents(ctx context.Context, start, end time.Time) (*jsonrpc.Response, error) {
	r, err := newDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.call(ctx, types.MethodClassRegEvents, classRegEventsParams{dateRange: r}, true)
}

// ClassRegEventsFor returns the class register events of one element.
func (s *Session) ClassRegEventsFor(ctx context.Context, start, end time.Time, typ types.ElementType, id int) (*jsonrpc.Response, error) {
	r, err := newDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.call(ctx, types.MethodClassRegEvents, classRegEventsParams{dateRange: r, Type: int(typ), ID: id}, true)
}

// ClassRegEventsForClass returns the class register events of a class.
func (s *Session) ClassRegEventsForClass(ctx context.Context, start, end time.Time, id int) (*jsonrpc.Response, error) {
	return s.ClassRegEventsFor(ctx, start, end, types.ElementClass, id)
}

// ClassRegEventsForTeacher returns the class register events of a teacher.
func (s *Session) ClassRegEventsForTeacher(ctx context.Context, start, end time.Time, id int) (*jsonrpc.Response, error) {
	return s.ClassRegEventsFor(ctx, start, end, types.ElementTeacher, id)
}

// ClassRegEventsForSubject returns the class register events of a subject.
func (s *Session) ClassRegEventsForSubject(ctx context.Context, start, end time.Time, id int) (*jsonrpc.Response, error) {
	return s.ClassRegEventsFor(ctx, start, end, types.ElementSubject, id)
}

// ClassRegEventsForRoom returns the class register events of a room.
func (s *Session) ClassRegEventsForRoom(ctx context.Context, start, end time.Time, id int) (*jsonrpc.Response, error) {
	return s.ClassRegEventsFor(ctx, start, end, types.ElementRoom, id)
}

// ClassRegEventsForPerson returns the class register events of a person.
func (s *Session) ClassRegEventsForPerson(ctx context.Context, start, end time.Time, id int) (*jsonrpc.Response, error) {
	return s.ClassRegEventsFor(ctx, start, end, types.ElementPerson, id)
}

// Departments returns all departments.
func (s *Session) Departments(ctx context.Context) (types.Departments, error) {
	w, err := fetch[[]wireEntity](ctx, s, types.MethodDepartments, nil)
	if err != nil {
		return nil, err
	}
	return toDepartments(w), nil
}

// Exams returns the raw exams of one exam type between start and end.
func (s *Session) Exams(ctx context.Context, start, end time.Time, examTypeID int) (*jsonrpc.Response, error) {
	r, err := newDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.call(ctx, types.MethodExams, examsParams{dateRange: r, ExamTypeID: examTypeID}, true)
}

// ExamTypes returns the raw exam types.
func (s *Session) ExamTypes(ctx context.Context) (*jsonrpc.Response, error) {
	return s.call(ctx, types.MethodExamTypes, nil, true)
}

// Holidays returns all holidays.
func (s *Session) Holidays(ctx context.Context) (types.Holidays, error) {
	w, err := fetch[[]wirePeriod](ctx, s, types.MethodHolidays, nil)
	if err != nil {
		return nil, err
	}
	return toHolidays(w)
}

// Classes returns the classes of the current school year.
func (s *Session) Classes(ctx context.Context) (types.Classes, error) {
	w, err := fetch[[]wireEntity](ctx, s, types.MethodClasses, nil)
	if err != nil {
		return nil, err
	}
	return toClasses(w), nil
}

// ClassesForSchoolYear returns the classes of the given school year.
func (s *Session) ClassesForSchoolYear(ctx context.Context, schoolYearID int) (types.Classes, error) {
	w, err := fetch[[]wireEntity](ctx, s, types.MethodClasses, classesParams{SchoolYearID: schoolYearID})
	if err != nil {
		return nil, err
	}
	return toClasses(w), nil
}

// LatestImportTime returns when the school last imported data. It is never
// served from the cache.
func (s *Session) LatestImportTime(ctx context.Context) (types.LatestImportTime, error) {
	resp, err := s.call(ctx, types.MethodLatestImportTime, nil, false)
	if err != nil {
		return 0, err
	}
	return decode[types.LatestImportTime](resp, types.MethodLatestImportTime)
}

// Rooms returns all rooms.
func (s *Session) Rooms(ctx context.Context) (types.Rooms, error) {
	w, err := fetch[[]wireRoom](ctx, s, types.MethodRooms, nil)
	if err != nil {
		return nil, err
	}
	return toRooms(w), nil
}

// SchoolYears returns all school years.
func (s *Session) SchoolYears(ctx context.Context) (types.SchoolYears, error) {
	w, err := fetch[[]wirePeriod](ctx, s, types.MethodSchoolYears, nil)
	if err != nil {
		return nil, err
	}
	return toSchoolYears(w)
}

// CurrentSchoolYear returns the running school year. ErrNoSchoolYear is
// returned outside of any school year.
func (s *Session) CurrentSchoolYear(ctx context.Context) (types.SchoolYear, error) {
	resp, err := s.call(ctx, types.MethodCurrentSchoolYear, nil, true)
	if err != nil {
		return types.SchoolYear{}, err
	}
	if resp.IsNull() {
		return types.SchoolYear{}, ErrNoSchoolYear
	}
	w, err := decode[wirePeriod](resp, types.MethodCurrentSchoolYear)
	if err != nil {
		return types.SchoolYear{}, err
	}
	return toSchoolYear(w)
}

// StatusData returns the raw lesson type and code colors.
func (s *Session) StatusData(ctx context.Context) (*jsonrpc.Response, error) {
	return s.call(ctx, types.MethodStatusData, nil, true)
}

// Subjects returns all subjects.
func (s *Session) Subjects(ctx context.Context) (types.Subjects, error) {
	w, err := fetch[[]wireSubject](ctx, s, types.MethodSubjects, nil)
	if err != nil {
		return nil, err
	}
	return toSubjects(w), nil
}

// Teachers returns all teachers. Most student accounts lack the right to
// call this.
func (s *Session) Teachers(ctx context.Context) (types.Teachers, error) {
	w, err := fetch[[]wireTeacher](ctx, s, types.MethodTeachers, nil)
	if err != nil {
		return nil, err
	}
	return toTeachers(w), nil
}

// TimegridUnits returns the school's timegrid.
func (s *Session) TimegridUnits(ctx context.Context) (types.TimegridUnits, error) {
	w, err := fetch[[]wireTimegridDay](ctx, s, types.MethodTimegridUnits, nil)
	if err != nil {
		return nil, err
	}
	return toTimegrid(w)
}

// TimetableWithAbsences returns the raw timetable of the logged-in student
// including absences.
func (s *Session) TimetableWithAbsences(ctx context.Context, start, end time.Time) (*jsonrpc.Response, error) {
	r, err := newDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.call(ctx, types.MethodTimetableWithAbsences, optionsParams{Options: r}, true)
}

// CustomData calls any method with the given params, bypassing the cache.
// Nil params are sent as an empty object.
func (s *Session) CustomData(ctx context.Context, method string, params any) (*jsonrpc.Response, error) {
	return s.call(ctx, types.Method(method), params, false)
}

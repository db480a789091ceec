package types

import (
	"cmp"
	"time"
)

// Lesson is one timetable entry. TimeUnit is nil when the lesson does not
// start on a timegrid boundary, LsNumber when the server omitted it.
type Lesson struct {
	ID               int        `json:"id"`
	Date             time.Time  `json:"date"`
	Start            Clock      `json:"startTime"`
	End              Clock      `json:"endTime"`
	TimeUnit         *TimeUnit  `json:"timeUnit,omitempty"`
	Classes          Classes    `json:"classes"`
	OriginalClasses  Classes    `json:"originalClasses,omitempty"`
	Teachers         Teachers   `json:"teachers"`
	OriginalTeachers Teachers   `json:"originalTeachers,omitempty"`
	Rooms            Rooms      `json:"rooms"`
	OriginalRooms    Rooms      `json:"originalRooms,omitempty"`
	Subjects         Subjects   `json:"subjects"`
	OriginalSubjects Subjects   `json:"originalSubjects,omitempty"`
	Code             LessonCode `json:"code"`
	ActivityType     string     `json:"activityType,omitempty"`
	Info             string     `json:"info,omitempty"`
	SubstText        string     `json:"substText,omitempty"`
	LsText           string     `json:"lsText,omitempty"`
	LsNumber         *int       `json:"lsNumber,omitempty"`
	StudentGroup     string     `json:"studentGroup,omitempty"`
}

// HasChanges reports whether a class, teacher, room or subject of the
// lesson was substituted.
func (l Lesson) HasChanges() bool {
	return len(l.OriginalClasses) > 0 || len(l.OriginalTeachers) > 0 ||
		len(l.OriginalRooms) > 0 || len(l.OriginalSubjects) > 0
}

// Begins returns the start of the lesson as a point in time.
func (l Lesson) Begins() time.Time { return l.Start.On(l.Date) }

// Ends returns the end of the lesson as a point in time.
func (l Lesson) Ends() time.Time { return l.End.On(l.Date) }

// Timetable is a list of lessons.
type Timetable []Lesson

// OnDate returns the lessons held on date.
func (t Timetable) OnDate(date time.Time) Timetable {
	return filter(t, func(l Lesson) bool { return sameDay(l.Date, date) })
}

// Between returns the lessons whose date lies within [from, to].
func (t Timetable) Between(from, to time.Time) Timetable {
	return filter(t, func(l Lesson) bool { return withinDays(DateOnly(l.Date), from, to) })
}

func (t Timetable) FindByStartTime(start Clock) (Lesson, bool) {
	return find(t, func(l Lesson) bool { return l.Start == start })
}

func (t Timetable) FindByEndTime(end Clock) (Lesson, bool) {
	return find(t, func(l Lesson) bool { return l.End == end })
}

func (t Timetable) FindByTimeUnit(unit TimeUnit) (Lesson, bool) {
	return find(t, func(l Lesson) bool { return l.TimeUnit != nil && *l.TimeUnit == unit })
}

func (t Timetable) SearchByStartTime(start Clock) Timetable {
	return filter(t, func(l Lesson) bool { return l.Start == start })
}

func (t Timetable) SearchByEndTime(end Clock) Timetable {
	return filter(t, func(l Lesson) bool { return l.End == end })
}

func (t Timetable) SearchByTimeUnit(unit TimeUnit) Timetable {
	return filter(t, func(l Lesson) bool { return l.TimeUnit != nil && *l.TimeUnit == unit })
}

// SearchByClasses returns the lessons attended by every class in ids.
func (t Timetable) SearchByClasses(ids ...int) Timetable {
	return filter(t, func(l Lesson) bool { return containsAllIDs(l.Classes, ids) })
}

// SearchByTeachers returns the lessons taught by every teacher in ids.
func (t Timetable) SearchByTeachers(ids ...int) Timetable {
	return filter(t, func(l Lesson) bool { return containsAllIDs(l.Teachers, ids) })
}

// SearchByRooms returns the lessons held in every room in ids.
func (t Timetable) SearchByRooms(ids ...int) Timetable {
	return filter(t, func(l Lesson) bool { return containsAllIDs(l.Rooms, ids) })
}

// SearchBySubjects returns the lessons covering every subject in ids.
func (t Timetable) SearchBySubjects(ids ...int) Timetable {
	return filter(t, func(l Lesson) bool { return containsAllIDs(l.Subjects, ids) })
}

// ByCode returns the lessons with the given code.
func (t Timetable) ByCode(code LessonCode) Timetable {
	return filter(t, func(l Lesson) bool { return l.Code == code })
}

func (t Timetable) SearchByActivityType(activityType string) Timetable {
	return filter(t, func(l Lesson) bool { return containsFold(l.ActivityType, activityType) })
}

// Changed returns the lessons with substitutions.
func (t Timetable) Changed() Timetable {
	return filter(t, Lesson.HasChanges)
}

func (t Timetable) SortByDate() {
	sortBy(t, func(a, b Lesson) int { return a.Date.Compare(b.Date) })
}

func (t Timetable) SortByStartTime() {
	sortBy(t, func(a, b Lesson) int { return a.Start.Compare(b.Start) })
}

func (t Timetable) SortByEndTime() {
	sortBy(t, func(a, b Lesson) int { return a.End.Compare(b.End) })
}

// SortByTimeUnit orders by time unit start; lessons without a unit go last.
func (t Timetable) SortByTimeUnit() {
	sortBy(t, func(a, b Lesson) int {
		switch {
		case a.TimeUnit == nil && b.TimeUnit == nil:
			return 0
		case a.TimeUnit == nil:
			return 1
		case b.TimeUnit == nil:
			return -1
		}
		return a.TimeUnit.Start.Compare(b.TimeUnit.Start)
	})
}

// SortByClasses orders by the id of each lesson's first class.
func (t Timetable) SortByClasses() {
	sortBy(t, func(a, b Lesson) int { return cmp.Compare(firstID(a.Classes), firstID(b.Classes)) })
}

func (t Timetable) SortByTeachers() {
	sortBy(t, func(a, b Lesson) int { return cmp.Compare(firstID(a.Teachers), firstID(b.Teachers)) })
}

func (t Timetable) SortByRooms() {
	sortBy(t, func(a, b Lesson) int { return cmp.Compare(firstID(a.Rooms), firstID(b.Rooms)) })
}

func (t Timetable) SortBySubjects() {
	sortBy(t, func(a, b Lesson) int { return cmp.Compare(firstID(a.Subjects), firstID(b.Subjects)) })
}

func (t Timetable) SortByCode() {
	sortBy(t, func(a, b Lesson) int { return cmp.Compare(a.Code, b.Code) })
}

func (t Timetable) SortByActivityType() {
	sortBy(t, func(a, b Lesson) int { return compareFold(a.ActivityType, b.ActivityType) })
}

// SortChronologically orders by date, then start time.
func (t Timetable) SortChronologically() {
	sortBy(t, func(a, b Lesson) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return a.Start.Compare(b.Start)
	})
}

// Dates returns the distinct lesson days in ascending order.
func (t Timetable) Dates() []time.Time {
	return dedupeDates(collect(t, func(l Lesson) time.Time { return l.Date }))
}

func (t Timetable) StartTimes() []Clock {
	return collect(t, func(l Lesson) Clock { return l.Start })
}

func (t Timetable) EndTimes() []Clock {
	return collect(t, func(l Lesson) Clock { return l.End })
}

// TimeUnits returns the distinct time units in first-seen order.
func (t Timetable) TimeUnits() TimeUnits {
	out := make(TimeUnits, 0)
	for _, l := range t {
		if l.TimeUnit == nil {
			continue
		}
		if _, ok := out.FindByStartTime(l.TimeUnit.Start); !ok {
			out = append(out, *l.TimeUnit)
		}
	}
	return out
}

// Classes returns the distinct classes in first-seen order. The other
// collectors below behave the same way.
func (t Timetable) Classes() Classes {
	return distinctByID(t, func(l Lesson) Classes { return l.Classes })
}

func (t Timetable) Teachers() Teachers {
	return distinctByID(t, func(l Lesson) Teachers { return l.Teachers })
}

func (t Timetable) Rooms() Rooms {
	return distinctByID(t, func(l Lesson) Rooms { return l.Rooms })
}

func (t Timetable) Subjects() Subjects {
	return distinctByID(t, func(l Lesson) Subjects { return l.Subjects })
}

func (t Timetable) Codes() []LessonCode {
	return collect(t, func(l Lesson) LessonCode { return l.Code })
}

func (t Timetable) ActivityTypes() []string {
	return collect(t, func(l Lesson) string { return l.ActivityType })
}

func (t Timetable) Infos() []string {
	return collect(t, func(l Lesson) string { return l.Info })
}

func (t Timetable) SubstTexts() []string {
	return collect(t, func(l Lesson) string { return l.SubstText })
}

func (t Timetable) LsTexts() []string {
	return collect(t, func(l Lesson) string { return l.LsText })
}

// LsNumbers returns the lesson numbers of lessons that carry one.
func (t Timetable) LsNumbers() []int {
	out := make([]int, 0)
	for _, l := range t {
		if l.LsNumber != nil {
			out = append(out, *l.LsNumber)
		}
	}
	return out
}

func (t Timetable) StudentGroups() []string {
	return collect(t, func(l Lesson) string { return l.StudentGroup })
}

func distinctByID[S ~[]T, T Named](t Timetable, pick func(Lesson) S) S {
	out := make(S, 0)
	seen := make(map[int]bool)
	for _, l := range t {
		for _, v := range pick(l) {
			id := v.Base().ID
			if !seen[id] {
				seen[id] = true
				out = append(out, v)
			}
		}
	}
	return out
}

package types

import "time"

// WeeklyTimetable holds the lessons of one week, split by day.
type WeeklyTimetable struct {
	Monday time.Time    `json:"monday"`
	Days   [7]Timetable `json:"days"`
}

// MondayOf returns the Monday of the week containing date.
func MondayOf(date time.Time) time.Time {
	date = DateOnly(date)
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

// NewWeeklyTimetable distributes lessons over the week starting at the
// Monday of anyDay. Lessons outside that week are dropped.
func NewWeeklyTimetable(anyDay time.Time, lessons Timetable) WeeklyTimetable {
	w := WeeklyTimetable{Monday: MondayOf(anyDay)}
	for i := range w.Days {
		w.Days[i] = Timetable{}
	}
	sunday := w.Monday.AddDate(0, 0, 6)
	for _, l := range lessons.Between(w.Monday, sunday) {
		i := dayIndex(l.Date.Weekday())
		w.Days[i] = append(w.Days[i], l)
	}
	return w
}

func dayIndex(d time.Weekday) int { return (int(d) + 6) % 7 }

// Day returns the lessons of the given weekday.
func (w WeeklyTimetable) Day(d time.Weekday) Timetable { return w.Days[dayIndex(d)] }

// Date returns the calendar date of the given weekday in this week.
func (w WeeklyTimetable) Date(d time.Weekday) time.Time {
	return w.Monday.AddDate(0, 0, dayIndex(d))
}

// Sunday returns the last day of the week.
func (w WeeklyTimetable) Sunday() time.Time { return w.Monday.AddDate(0, 0, 6) }

// Lessons returns every lesson of the week, Monday first.
func (w WeeklyTimetable) Lessons() Timetable {
	out := make(Timetable, 0)
	for _, d := range w.Days {
		out = append(out, d...)
	}
	return out
}

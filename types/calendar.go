package types

import (
	"slices"
	"strings"
	"time"
)

// Holiday is a named holiday period. Start and End are inclusive dates.
type Holiday struct {
	Entity
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// Contains reports whether date falls within the holiday.
func (h Holiday) Contains(date time.Time) bool {
	return withinDays(DateOnly(date), h.Start, h.End)
}

// Holidays is a list of holidays.
type Holidays []Holiday

// FindByName returns the first Holiday whose name equals name, ignoring case.
func (l Holidays) FindByName(name string) (Holiday, bool) { return findByName(l, name) }

// FindByLongName returns the first Holiday whose long name equals longName, ignoring case.
func (l Holidays) FindByLongName(longName string) (Holiday, bool) { return findByLongName(l, longName) }

// FindByID returns the Holiday with the given id.
func (l Holidays) FindByID(id int) (Holiday, bool) { return findByID(l, id) }

// SearchByName returns every Holiday whose name contains name, ignoring case.
func (l Holidays) SearchByName(name string) Holidays { return searchByName(l, name) }

// SearchByLongName returns every Holiday whose long name contains longName, ignoring case.
func (l Holidays) SearchByLongName(longName string) Holidays { return searchByLongName(l, longName) }

// SearchByID returns every Holiday whose id contains the digits of id.
func (l Holidays) SearchByID(id int) Holidays { return searchByID(l, id) }

func (l Holidays) SortByName()     { sortByName(l) }
func (l Holidays) SortByLongName() { sortByLongName(l) }
func (l Holidays) SortByID()       { sortByID(l) }

func (l Holidays) Names() []string     { return names(l) }
func (l Holidays) LongNames() []string { return longNames(l) }
func (l Holidays) IDs() []int          { return ids(l) }

// FindByStartDate returns the holiday starting on date.
func (l Holidays) FindByStartDate(date time.Time) (Holiday, bool) {
	return find(l, func(h Holiday) bool { return sameDay(h.Start, date) })
}

// FindByEndDate returns the holiday ending on date.
func (l Holidays) FindByEndDate(date time.Time) (Holiday, bool) {
	return find(l, func(h Holiday) bool { return sameDay(h.End, date) })
}

// FindByDate returns the holiday that contains date.
func (l Holidays) FindByDate(date time.Time) (Holiday, bool) {
	return find(l, func(h Holiday) bool { return h.Contains(date) })
}

// SearchByStartDate returns holidays whose yyyyMMdd start contains the
// given fragment, e.g. "2024" or "202412".
func (l Holidays) SearchByStartDate(fragment string) Holidays {
	return filter(l, func(h Holiday) bool { return strings.Contains(FormatDate(h.Start), strings.TrimSpace(fragment)) })
}

// SearchByEndDate is SearchByStartDate for the end date.
func (l Holidays) SearchByEndDate(fragment string) Holidays {
	return filter(l, func(h Holiday) bool { return strings.Contains(FormatDate(h.End), strings.TrimSpace(fragment)) })
}

func (l Holidays) SortByStartDate() {
	sortBy(l, func(a, b Holiday) int { return a.Start.Compare(b.Start) })
}

func (l Holidays) SortByEndDate() {
	sortBy(l, func(a, b Holiday) int { return a.End.Compare(b.End) })
}

func (l Holidays) StartDates() []time.Time {
	return collect(l, func(h Holiday) time.Time { return h.Start })
}

func (l Holidays) EndDates() []time.Time {
	return collect(l, func(h Holiday) time.Time { return h.End })
}

// SchoolYear is a school year. Start and End are inclusive dates.
type SchoolYear struct {
	Name  string    `json:"name"`
	ID    int       `json:"id"`
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// Contains reports whether date falls within the school year.
func (y SchoolYear) Contains(date time.Time) bool {
	return withinDays(DateOnly(date), y.Start, y.End)
}

// SchoolYears is a list of school years.
type SchoolYears []SchoolYear

func (l SchoolYears) FindByName(name string) (SchoolYear, bool) {
	return find(l, func(y SchoolYear) bool { return equalFold(y.Name, name) })
}

func (l SchoolYears) FindByID(id int) (SchoolYear, bool) {
	return find(l, func(y SchoolYear) bool { return y.ID == id })
}

func (l SchoolYears) FindByStartDate(date time.Time) (SchoolYear, bool) {
	return find(l, func(y SchoolYear) bool { return sameDay(y.Start, date) })
}

func (l SchoolYears) FindByEndDate(date time.Time) (SchoolYear, bool) {
	return find(l, func(y SchoolYear) bool { return sameDay(y.End, date) })
}

// FindByDate returns the school year that contains date.
func (l SchoolYears) FindByDate(date time.Time) (SchoolYear, bool) {
	return find(l, func(y SchoolYear) bool { return y.Contains(date) })
}

func (l SchoolYears) SearchByName(name string) SchoolYears {
	return filter(l, func(y SchoolYear) bool { return containsFold(y.Name, name) })
}

func (l SchoolYears) SortByName() {
	sortBy(l, func(a, b SchoolYear) int { return compareFold(a.Name, b.Name) })
}

func (l SchoolYears) SortByID() {
	sortBy(l, func(a, b SchoolYear) int { return a.ID - b.ID })
}

func (l SchoolYears) SortByStartDate() {
	sortBy(l, func(a, b SchoolYear) int { return a.Start.Compare(b.Start) })
}

func (l SchoolYears) SortByEndDate() {
	sortBy(l, func(a, b SchoolYear) int { return a.End.Compare(b.End) })
}

func (l SchoolYears) Names() []string {
	return collect(l, func(y SchoolYear) string { return y.Name })
}

func (l SchoolYears) IDs() []int {
	return collect(l, func(y SchoolYear) int { return y.ID })
}

func (l SchoolYears) StartDates() []time.Time {
	return collect(l, func(y SchoolYear) time.Time { return y.Start })
}

func (l SchoolYears) EndDates() []time.Time {
	return collect(l, func(y SchoolYear) time.Time { return y.End })
}

func sameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

func withinDays(date, start, end time.Time) bool {
	return !date.Before(DateOnly(start)) && !date.After(DateOnly(end))
}

// dedupeDates returns the distinct days of dates in ascending order.
func dedupeDates(dates []time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		out = append(out, DateOnly(d))
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return slices.CompactFunc(out, func(a, b time.Time) bool { return a.Equal(b) })
}

package types

import (
	"strings"
	"time"
)

// TimeUnit is one period of the timegrid, e.g. "1" from 07:45 to 08:30.
type TimeUnit struct {
	Name  string `json:"name"`
	Start Clock  `json:"startTime"`
	End   Clock  `json:"endTime"`
}

// TimeUnits is the ordered list of periods of one day.
type TimeUnits []TimeUnit

func (l TimeUnits) FindByName(name string) (TimeUnit, bool) {
	return find(l, func(u TimeUnit) bool { return equalFold(u.Name, name) })
}

// FindByStartTime returns the unit starting at start.
func (l TimeUnits) FindByStartTime(start Clock) (TimeUnit, bool) {
	return find(l, func(u TimeUnit) bool { return u.Start == start })
}

// FindByEndTime returns the unit ending at end.
func (l TimeUnits) FindByEndTime(end Clock) (TimeUnit, bool) {
	return find(l, func(u TimeUnit) bool { return u.End == end })
}

// FindByTime returns the unit in progress at c. Start is inclusive, end
// exclusive.
func (l TimeUnits) FindByTime(c Clock) (TimeUnit, bool) {
	return find(l, func(u TimeUnit) bool { return !c.Before(u.Start) && c.Before(u.End) })
}

func (l TimeUnits) SearchByName(name string) TimeUnits {
	return filter(l, func(u TimeUnit) bool { return containsFold(u.Name, name) })
}

// SearchByStartTime returns units whose "15:04" start contains fragment,
// so "08" matches every unit starting in the eight o'clock hour.
func (l TimeUnits) SearchByStartTime(fragment string) TimeUnits {
	return filter(l, func(u TimeUnit) bool { return strings.Contains(u.Start.String(), strings.TrimSpace(fragment)) })
}

func (l TimeUnits) SearchByEndTime(fragment string) TimeUnits {
	return filter(l, func(u TimeUnit) bool { return strings.Contains(u.End.String(), strings.TrimSpace(fragment)) })
}

func (l TimeUnits) SortByName() {
	sortBy(l, func(a, b TimeUnit) int { return compareFold(a.Name, b.Name) })
}

func (l TimeUnits) SortByStartTime() {
	sortBy(l, func(a, b TimeUnit) int { return a.Start.Compare(b.Start) })
}

func (l TimeUnits) SortByEndTime() {
	sortBy(l, func(a, b TimeUnit) int { return a.End.Compare(b.End) })
}

func (l TimeUnits) Names() []string {
	return collect(l, func(u TimeUnit) string { return u.Name })
}

func (l TimeUnits) StartTimes() []Clock {
	return collect(l, func(u TimeUnit) Clock { return u.Start })
}

func (l TimeUnits) EndTimes() []Clock {
	return collect(l, func(u TimeUnit) Clock { return u.End })
}

// TimegridUnit holds the periods of one weekday.
type TimegridUnit struct {
	Day   time.Weekday `json:"day"`
	Units TimeUnits    `json:"timeUnits"`
}

// TimegridUnits is the school's timegrid, one entry per teaching day.
type TimegridUnits []TimegridUnit

// WeekdayOf maps the WebUntis day number (1 is Sunday, 7 is Saturday).
func WeekdayOf(day int) time.Weekday {
	return time.Weekday(((day-1)%7 + 7) % 7)
}

// FindByDay returns the timegrid of the given weekday.
func (l TimegridUnits) FindByDay(day time.Weekday) (TimegridUnit, bool) {
	return find(l, func(u TimegridUnit) bool { return u.Day == day })
}

func (l TimegridUnits) Days() []time.Weekday {
	return collect(l, func(u TimegridUnit) time.Weekday { return u.Day })
}

// AllTimeUnits concatenates the units of every day in list order.
func (l TimegridUnits) AllTimeUnits() TimeUnits {
	out := make(TimeUnits, 0)
	for _, u := range l {
		out = append(out, u.Units...)
	}
	return out
}

// Reference returns the units of the first day, which lessons are matched
// against by start time.
func (l TimegridUnits) Reference() TimeUnits {
	if len(l) == 0 {
		return nil
	}
	return l[0].Units
}

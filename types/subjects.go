package types

import "strings"

// DefaultSubjectColor is used when the server sends no color for a subject.
const DefaultSubjectColor = "b1b3b4"

// Subject is a subject with its display colors. Colors carry a leading #.
type Subject struct {
	ActiveEntity
	AlternateName string `json:"alternateName"`
	BackColor     string `json:"backColor"`
	ForeColor     string `json:"foreColor"`
}

// NewSubject builds a Subject, defaulting missing colors and adding the #
// prefix.
func NewSubject(base ActiveEntity, alternateName, backColor, foreColor string) Subject {
	return Subject{
		ActiveEntity:  base,
		AlternateName: alternateName,
		BackColor:     hexColor(backColor),
		ForeColor:     hexColor(foreColor),
	}
}

func hexColor(c string) string {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if c == "" {
		c = DefaultSubjectColor
	}
	return "#" + c
}

// Subjects is a list of subjects.
type Subjects []Subject

// FindByName returns the first Subject whose name equals name, ignoring case.
func (l Subjects) FindByName(name string) (Subject, bool) { return findByName(l, name) }

// FindByLongName returns the first Subject whose long name equals longName, ignoring case.
func (l Subjects) FindByLongName(longName string) (Subject, bool) { return findByLongName(l, longName) }

// FindByID returns the Subject with the given id.
func (l Subjects) FindByID(id int) (Subject, bool) { return findByID(l, id) }

// SearchByName returns every Subject whose name contains name, ignoring case.
func (l Subjects) SearchByName(name string) Subjects { return searchByName(l, name) }

// SearchByLongName returns every Subject whose long name contains longName, ignoring case.
func (l Subjects) SearchByLongName(longName string) Subjects { return searchByLongName(l, longName) }

// SearchByID returns every Subject whose id contains the digits of id.
func (l Subjects) SearchByID(id int) Subjects { return searchByID(l, id) }

func (l Subjects) SortByName()     { sortByName(l) }
func (l Subjects) SortByLongName() { sortByLongName(l) }
func (l Subjects) SortByID()       { sortByID(l) }

func (l Subjects) Names() []string     { return names(l) }
func (l Subjects) LongNames() []string { return longNames(l) }
func (l Subjects) IDs() []int          { return ids(l) }

// FindByActive returns the first Subject with the given active flag.
func (l Subjects) FindByActive(active bool) (Subject, bool) { return findByActive(l, active) }

// SearchByActive returns every Subject with the given active flag.
func (l Subjects) SearchByActive(active bool) Subjects { return searchByActive(l, active) }

func (l Subjects) SortByActive()        { sortByActive(l) }
func (l Subjects) ActiveStates() []bool { return activeStates(l) }

// FindByAlternateName returns the first subject with the alternate name, ignoring case.
func (l Subjects) FindByAlternateName(alternateName string) (Subject, bool) {
	return find(l, func(s Subject) bool { return equalFold(s.AlternateName, alternateName) })
}

// FindByBackColor returns the first subject with the background color.
func (l Subjects) FindByBackColor(color string) (Subject, bool) {
	return find(l, func(s Subject) bool { return equalFold(s.BackColor, hexColor(color)) })
}

// FindByForeColor returns the first subject with the foreground color.
func (l Subjects) FindByForeColor(color string) (Subject, bool) {
	return find(l, func(s Subject) bool { return equalFold(s.ForeColor, hexColor(color)) })
}

func (l Subjects) SearchByAlternateName(alternateName string) Subjects {
	return filter(l, func(s Subject) bool { return containsFold(s.AlternateName, alternateName) })
}

func (l Subjects) SearchByBackColor(color string) Subjects {
	return filter(l, func(s Subject) bool { return equalFold(s.BackColor, hexColor(color)) })
}

func (l Subjects) SearchByForeColor(color string) Subjects {
	return filter(l, func(s Subject) bool { return equalFold(s.ForeColor, hexColor(color)) })
}

func (l Subjects) SortByAlternateName() {
	sortBy(l, func(a, b Subject) int { return compareFold(a.AlternateName, b.AlternateName) })
}

func (l Subjects) SortByBackColor() {
	sortBy(l, func(a, b Subject) int { return compareFold(a.BackColor, b.BackColor) })
}

func (l Subjects) SortByForeColor() {
	sortBy(l, func(a, b Subject) int { return compareFold(a.ForeColor, b.ForeColor) })
}

func (l Subjects) AlternateNames() []string {
	return collect(l, func(s Subject) string { return s.AlternateName })
}

func (l Subjects) BackColors() []string {
	return collect(l, func(s Subject) string { return s.BackColor })
}

func (l Subjects) ForeColors() []string {
	return collect(l, func(s Subject) string { return s.ForeColor })
}

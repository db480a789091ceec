package types

import "strings"

// Teacher is a teacher. LongName holds the surname.
type Teacher struct {
	ActiveEntity
	Title    string `json:"title"`
	ForeName string `json:"foreName"`
	FullName string `json:"fullName"`
}

// NewTeacher builds a Teacher and derives its full name from title,
// forename and surname.
func NewTeacher(base ActiveEntity, title, foreName string) Teacher {
	parts := make([]string, 0, 3)
	for _, p := range []string{title, foreName, base.LongName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return Teacher{
		ActiveEntity: base,
		Title:        title,
		ForeName:     foreName,
		FullName:     strings.Join(parts, " "),
	}
}

// Teachers is a list of teachers.
type Teachers []Teacher

// FindByName returns the first Teacher whose name equals name, ignoring case.
func (l Teachers) FindByName(name string) (Teacher, bool) { return findByName(l, name) }

// FindByLongName returns the first Teacher whose long name equals longName, ignoring case.
func (l Teachers) FindByLongName(longName string) (Teacher, bool) { return findByLongName(l, longName) }

// FindByID returns the Teacher with the given id.
func (l Teachers) FindByID(id int) (Teacher, bool) { return findByID(l, id) }

// SearchByName returns every Teacher whose name contains name, ignoring case.
func (l Teachers) SearchByName(name string) Teachers { return searchByName(l, name) }

// SearchByLongName returns every Teacher whose long name contains longName, ignoring case.
func (l Teachers) SearchByLongName(longName string) Teachers { return searchByLongName(l, longName) }

// SearchByID returns every Teacher whose id contains the digits of id.
func (l Teachers) SearchByID(id int) Teachers { return searchByID(l, id) }

func (l Teachers) SortByName()     { sortByName(l) }
func (l Teachers) SortByLongName() { sortByLongName(l) }
func (l Teachers) SortByID()       { sortByID(l) }

func (l Teachers) Names() []string     { return names(l) }
func (l Teachers) LongNames() []string { return longNames(l) }
func (l Teachers) IDs() []int          { return ids(l) }

// FindByActive returns the first Teacher with the given active flag.
func (l Teachers) FindByActive(active bool) (Teacher, bool) { return findByActive(l, active) }

// SearchByActive returns every Teacher with the given active flag.
func (l Teachers) SearchByActive(active bool) Teachers { return searchByActive(l, active) }

func (l Teachers) SortByActive()        { sortByActive(l) }
func (l Teachers) ActiveStates() []bool { return activeStates(l) }

func (l Teachers) FindByTitle(title string) (Teacher, bool) {
	return find(l, func(t Teacher) bool { return equalFold(t.Title, title) })
}

func (l Teachers) FindByForeName(foreName string) (Teacher, bool) {
	return find(l, func(t Teacher) bool { return equalFold(t.ForeName, foreName) })
}

func (l Teachers) FindByFullName(fullName string) (Teacher, bool) {
	return find(l, func(t Teacher) bool { return equalFold(t.FullName, fullName) })
}

func (l Teachers) SearchByTitle(title string) Teachers {
	return filter(l, func(t Teacher) bool { return containsFold(t.Title, title) })
}

func (l Teachers) SearchByForeName(foreName string) Teachers {
	return filter(l, func(t Teacher) bool { return containsFold(t.ForeName, foreName) })
}

func (l Teachers) SearchByFullName(fullName string) Teachers {
	return filter(l, func(t Teacher) bool { return containsFold(t.FullName, fullName) })
}

func (l Teachers) SortByTitle() {
	sortBy(l, func(a, b Teacher) int { return compareFold(a.Title, b.Title) })
}

func (l Teachers) SortByForeName() {
	sortBy(l, func(a, b Teacher) int { return compareFold(a.ForeName, b.ForeName) })
}

func (l Teachers) SortByFullName() {
	sortBy(l, func(a, b Teacher) int { return compareFold(a.FullName, b.FullName) })
}

func (l Teachers) Titles() []string {
	return collect(l, func(t Teacher) string { return t.Title })
}

func (l Teachers) ForeNames() []string {
	return collect(l, func(t Teacher) string { return t.ForeName })
}

func (l Teachers) FullNames() []string {
	return collect(l, func(t Teacher) string { return t.FullName })
}

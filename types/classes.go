package types

// Class is a school class (Klasse).
type Class struct {
	ActiveEntity
}

// Classes is a list of classes.
type Classes []Class

// FindByName returns the first Class whose name equals name, ignoring case.
func (l Classes) FindByName(name string) (Class, bool) { return findByName(l, name) }

// FindByLongName returns the first Class whose long name equals longName, ignoring case.
func (l Classes) FindByLongName(longName string) (Class, bool) { return findByLongName(l, longName) }

// FindByID returns the Class with the given id.
func (l Classes) FindByID(id int) (Class, bool) { return findByID(l, id) }

// SearchByName returns every Class whose name contains name, ignoring case.
func (l Classes) SearchByName(name string) Classes { return searchByName(l, name) }

// SearchByLongName returns every Class whose long name contains longName, ignoring case.
func (l Classes) SearchByLongName(longName string) Classes { return searchByLongName(l, longName) }

// SearchByID returns every Class whose id contains the digits of id.
func (l Classes) SearchByID(id int) Classes { return searchByID(l, id) }

func (l Classes) SortByName()     { sortByName(l) }
func (l Classes) SortByLongName() { sortByLongName(l) }
func (l Classes) SortByID()       { sortByID(l) }

func (l Classes) Names() []string     { return names(l) }
func (l Classes) LongNames() []string { return longNames(l) }
func (l Classes) IDs() []int          { return ids(l) }

// FindByActive returns the first Class with the given active flag.
func (l Classes) FindByActive(active bool) (Class, bool) { return findByActive(l, active) }

// SearchByActive returns every Class with the given active flag.
func (l Classes) SearchByActive(active bool) Classes { return searchByActive(l, active) }

func (l Classes) SortByActive()        { sortByActive(l) }
func (l Classes) ActiveStates() []bool { return activeStates(l) }

// Department is a school department.
type Department struct {
	Entity
}

// Departments is a list of departments.
type Departments []Department

// FindByName returns the first Department whose name equals name, ignoring case.
func (l Departments) FindByName(name string) (Department, bool) { return findByName(l, name) }

// FindByLongName returns the first Department whose long name equals longName, ignoring case.
func (l Departments) FindByLongName(longName string) (Department, bool) { return findByLongName(l, longName) }

// FindByID returns the Department with the given id.
func (l Departments) FindByID(id int) (Department, bool) { return findByID(l, id) }

// SearchByName returns every Department whose name contains name, ignoring case.
func (l Departments) SearchByName(name string) Departments { return searchByName(l, name) }

// SearchByLongName returns every Department whose long name contains longName, ignoring case.
func (l Departments) SearchByLongName(longName string) Departments { return searchByLongName(l, longName) }

// SearchByID returns every Department whose id contains the digits of id.
func (l Departments) SearchByID(id int) Departments { return searchByID(l, id) }

func (l Departments) SortByName()     { sortByName(l) }
func (l Departments) SortByLongName() { sortByLongName(l) }
func (l Departments) SortByID()       { sortByID(l) }

func (l Departments) Names() []string     { return names(l) }
func (l Departments) LongNames() []string { return longNames(l) }
func (l Departments) IDs() []int          { return ids(l) }

package types

// Room is a room, optionally assigned to a building.
type Room struct {
	ActiveEntity
	Building string `json:"building"`
}

// Rooms is a list of rooms.
type Rooms []Room

// FindByName returns the first Room whose name equals name, ignoring case.
func (l Rooms) FindByName(name string) (Room, bool) { return findByName(l, name) }

// FindByLongName returns the first Room whose long name equals longName, ignoring case.
func (l Rooms) FindByLongName(longName string) (Room, bool) { return findByLongName(l, longName) }

// FindByID returns the Room with the given id.
func (l Rooms) FindByID(id int) (Room, bool) { return findByID(l, id) }

// SearchByName returns every Room whose name contains name, ignoring case.
func (l Rooms) SearchByName(name string) Rooms { return searchByName(l, name) }

// SearchByLongName returns every Room whose long name contains longName, ignoring case.
func (l Rooms) SearchByLongName(longName string) Rooms { return searchByLongName(l, longName) }

// SearchByID returns every Room whose id contains the digits of id.
func (l Rooms) SearchByID(id int) Rooms { return searchByID(l, id) }

func (l Rooms) SortByName()     { sortByName(l) }
func (l Rooms) SortByLongName() { sortByLongName(l) }
func (l Rooms) SortByID()       { sortByID(l) }

func (l Rooms) Names() []string     { return names(l) }
func (l Rooms) LongNames() []string { return longNames(l) }
func (l Rooms) IDs() []int          { return ids(l) }

// FindByActive returns the first Room with the given active flag.
func (l Rooms) FindByActive(active bool) (Room, bool) { return findByActive(l, active) }

// SearchByActive returns every Room with the given active flag.
func (l Rooms) SearchByActive(active bool) Rooms { return searchByActive(l, active) }

func (l Rooms) SortByActive()        { sortByActive(l) }
func (l Rooms) ActiveStates() []bool { return activeStates(l) }

// FindByBuilding returns the first room in the given building, ignoring case.
func (l Rooms) FindByBuilding(building string) (Room, bool) {
	return find(l, func(r Room) bool { return equalFold(r.Building, building) })
}

// SearchByBuilding returns every room whose building contains building.
func (l Rooms) SearchByBuilding(building string) Rooms {
	return filter(l, func(r Room) bool { return containsFold(r.Building, building) })
}

func (l Rooms) SortByBuilding() {
	sortBy(l, func(a, b Room) int { return compareFold(a.Building, b.Building) })
}

func (l Rooms) Buildings() []string {
	return collect(l, func(r Room) string { return r.Building })
}

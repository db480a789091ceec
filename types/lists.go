package types

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// Entity is the name / id / long name triple shared by most master data.
type Entity struct {
	Name     string `json:"name"`
	ID       int    `json:"id"`
	LongName string `json:"longName"`
}

// Base returns the entity itself.
func (e Entity) Base() Entity { return e }

// ActiveEntity is an Entity with an active flag.
type ActiveEntity struct {
	Entity
	Active bool `json:"active"`
}

// IsActive reports the active flag.
func (e ActiveEntity) IsActive() bool { return e.Active }

// Named is implemented by everything embedding Entity.
type Named interface {
	Base() Entity
}

// Activatable is implemented by everything embedding ActiveEntity.
type Activatable interface {
	Named
	IsActive() bool
}

func equalFold(value, query string) bool {
	return strings.EqualFold(value, strings.TrimSpace(query))
}

func containsFold(value, query string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(strings.TrimSpace(query)))
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func find[T any](s []T, keep func(T) bool) (T, bool) {
	for _, v := range s {
		if keep(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func filter[S ~[]T, T any](s S, keep func(T) bool) S {
	out := make(S, 0)
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func collect[T, V any](s []T, f func(T) V) []V {
	out := make([]V, 0, len(s))
	for _, v := range s {
		out = append(out, f(v))
	}
	return out
}

func sortBy[T any](s []T, cmp func(a, b T) int) {
	slices.SortStableFunc(s, cmp)
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

// Shared Named list operations.

func findByName[T Named](s []T, name string) (T, bool) {
	return find(s, func(v T) bool { return equalFold(v.Base().Name, name) })
}

func findByLongName[T Named](s []T, longName string) (T, bool) {
	return find(s, func(v T) bool { return equalFold(v.Base().LongName, longName) })
}

func findByID[T Named](s []T, id int) (T, bool) {
	return find(s, func(v T) bool { return v.Base().ID == id })
}

func searchByName[S ~[]T, T Named](s S, name string) S {
	return filter(s, func(v T) bool { return containsFold(v.Base().Name, name) })
}

func searchByLongName[S ~[]T, T Named](s S, longName string) S {
	return filter(s, func(v T) bool { return containsFold(v.Base().LongName, longName) })
}

// searchByID matches ids whose decimal form contains the decimal form of id.
func searchByID[S ~[]T, T Named](s S, id int) S {
	needle := strconv.Itoa(id)
	return filter(s, func(v T) bool { return strings.Contains(strconv.Itoa(v.Base().ID), needle) })
}

func sortByName[T Named](s []T) {
	sortBy(s, func(a, b T) int { return compareFold(a.Base().Name, b.Base().Name) })
}

func sortByLongName[T Named](s []T) {
	sortBy(s, func(a, b T) int { return compareFold(a.Base().LongName, b.Base().LongName) })
}

func sortByID[T Named](s []T) {
	sortBy(s, func(a, b T) int { return cmp.Compare(a.Base().ID, b.Base().ID) })
}

func names[T Named](s []T) []string {
	return collect(s, func(v T) string { return v.Base().Name })
}

func ids[T Named](s []T) []int {
	return collect(s, func(v T) int { return v.Base().ID })
}

func longNames[T Named](s []T) []string {
	return collect(s, func(v T) string { return v.Base().LongName })
}

func findByActive[T Activatable](s []T, active bool) (T, bool) {
	return find(s, func(v T) bool { return v.IsActive() == active })
}

func searchByActive[S ~[]T, T Activatable](s S, active bool) S {
	return filter(s, func(v T) bool { return v.IsActive() == active })
}

// sortByActive puts inactive entries first.
func sortByActive[T Activatable](s []T) {
	sortBy(s, func(a, b T) int { return boolCmp(a.IsActive(), b.IsActive()) })
}

func activeStates[T Activatable](s []T) []bool {
	return collect(s, func(v T) bool { return v.IsActive() })
}

// containsAllIDs reports whether every id in want is present in have.
func containsAllIDs[T Named](have []T, want []int) bool {
	for _, id := range want {
		if _, ok := findByID(have, id); !ok {
			return false
		}
	}
	return true
}

func firstID[T Named](s []T) int {
	if len(s) == 0 {
		return 0
	}
	return s[0].Base().ID
}

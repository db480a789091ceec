// Package types holds the objects decoded from WebUntis responses together
// with the lookup, search and sort helpers of their lists.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ElementType identifies what kind of element a timetable is requested for.
type ElementType int

const (
	ElementClass ElementType = iota + 1
	ElementTeacher
	ElementSubject
	ElementRoom
	ElementPerson
	ElementOther
)

var elementNames = map[ElementType]string{
	ElementClass:   "class",
	ElementTeacher: "teacher",
	ElementSubject: "subject",
	ElementRoom:    "room",
	ElementPerson:  "person",
	ElementOther:   "other",
}

// ElementTypeOf maps the numeric type used on the wire. Values above the
// known range map to ElementOther.
func ElementTypeOf(n int) (ElementType, error) {
	if n < 1 {
		return 0, fmt.Errorf("invalid element type %d", n)
	}
	if n > int(ElementOther) {
		return ElementOther, nil
	}
	return ElementType(n), nil
}

// ParseElementType accepts a type name ("class", "teacher", ...) or its
// numeric value.
func ParseElementType(s string) (ElementType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return ElementTypeOf(n)
	}
	switch s {
	case "klasse", "classes":
		return ElementClass, nil
	case "student":
		return ElementPerson, nil
	}
	for t, name := range elementNames {
		if name == s || name+"s" == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown element type %q (known: class, teacher, subject, room, person)", s)
}

func (e ElementType) String() string {
	if name, ok := elementNames[e]; ok {
		return name
	}
	return "ElementType(" + strconv.Itoa(int(e)) + ")"
}

// MarshalText encodes the type by name.
func (e ElementType) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// UnmarshalText decodes a name or numeric value.
func (e *ElementType) UnmarshalText(text []byte) error {
	t, err := ParseElementType(string(text))
	if err != nil {
		return err
	}
	*e = t
	return nil
}

// Method is a WebUntis JSON-RPC method name.
type Method string

const (
	MethodLogin                  Method = "authenticate"
	MethodLogout                 Method = "logout"
	MethodClassRegCategories     Method = "getClassregCategories"
	MethodClassRegCategoryGroups Method = "getClassregCategoryGroups"
	MethodClassRegEvents         Method = "getClassregEvents"
	MethodCurrentSchoolYear      Method = "getCurrentSchoolyear"
	MethodDepartments            Method = "getDepartments"
	MethodExams                  Method = "getExams"
	MethodExamTypes              Method = "getExamTypes"
	MethodHolidays               Method = "getHolidays"
	MethodClasses                Method = "getKlassen"
	MethodLatestImportTime       Method = "getLatestImportTime"
	MethodRooms                  Method = "getRooms"
	MethodSchoolYears            Method = "getSchoolyears"
	MethodStatusData             Method = "getStatusData"
	MethodSubjects               Method = "getSubjects"
	MethodTeachers               Method = "getTeachers"
	MethodTimegridUnits          Method = "getTimegridUnits"
	MethodTimetable              Method = "getTimetable"
	MethodTimetableWithAbsences  Method = "getTimetableWithAbsences"
)

// LessonCode marks a lesson as regular, cancelled or irregular. Codes the
// server sends that are not listed here are kept verbatim.
type LessonCode string

const (
	CodeRegular   LessonCode = "regular"
	CodeCancelled LessonCode = "cancelled"
	CodeIrregular LessonCode = "irregular"
)

// ParseLessonCode normalizes a code; an empty code is regular.
func ParseLessonCode(s string) LessonCode {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CodeRegular
	}
	return LessonCode(s)
}

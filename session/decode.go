package session

import (
	"fmt"
	"time"

	"github.com/initializ/untis/types"
)

// Wire shapes of WebUntis results. Dates are yyyyMMdd and times HHmm
// integers.

type wireAuth struct {
	SessionID  string `json:"sessionId"`
	PersonID   int    `json:"personId"`
	PersonType int    `json:"personType"`
	KlasseID   int    `json:"klasseId"`
}

type wireEntity struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LongName string `json:"longName"`
	Active   bool   `json:"active"`
}

func (w wireEntity) entity() types.Entity {
	return types.Entity{Name: w.Name, ID: w.ID, LongName: w.LongName}
}

func (w wireEntity) active() types.ActiveEntity {
	return types.ActiveEntity{Entity: w.entity(), Active: w.Active}
}

type wireRoom struct {
	wireEntity
	Building string `json:"building"`
}

type wireSubject struct {
	wireEntity
	AlternateName string `json:"alternateName"`
	BackColor     string `json:"backColor"`
	ForeColor     string `json:"foreColor"`
}

type wireTeacher struct {
	wireEntity
	Title    string `json:"title"`
	ForeName string `json:"foreName"`
}

type wirePeriod struct {
	wireEntity
	StartDate int `json:"startDate"`
	EndDate   int `json:"endDate"`
}

func (w wirePeriod) dates() (start, end time.Time, err error) {
	if start, err = types.ParseDate(w.StartDate); err != nil {
		return start, end, err
	}
	end, err = types.ParseDate(w.EndDate)
	return start, end, err
}

type wireTimegridDay struct {
	Day       int            `json:"day"`
	TimeUnits []wireTimeUnit `json:"timeUnits"`
}

type wireTimeUnit struct {
	Name      string `json:"name"`
	StartTime int    `json:"startTime"`
	EndTime   int    `json:"endTime"`
}

type wireRef struct {
	ID    int  `json:"id"`
	OrgID *int `json:"orgid,omitempty"`
}

type wireLesson struct {
	ID           int       `json:"id"`
	Date         int       `json:"date"`
	StartTime    int       `json:"startTime"`
	EndTime      int       `json:"endTime"`
	Classes      []wireRef `json:"kl"`
	Teachers     []wireRef `json:"te"`
	Subjects     []wireRef `json:"su"`
	Rooms        []wireRef `json:"ro"`
	Code         string    `json:"code"`
	ActivityType string    `json:"activityType"`
	Info         string    `json:"info"`
	SubstText    string    `json:"substText"`
	LsText       string    `json:"lstext"`
	LsNumber     *int      `json:"lsnumber"`
	StudentGroup string    `json:"sg"`
}

func toClasses(in []wireEntity) types.Classes {
	out := make(types.Classes, 0, len(in))
	for _, w := range in {
		out = append(out, types.Class{ActiveEntity: w.active()})
	}
	return out
}

func toDepartments(in []wireEntity) types.Departments {
	out := make(types.Departments, 0, len(in))
	for _, w := range in {
		out = append(out, types.Department{Entity: w.entity()})
	}
	return out
}

func toRooms(in []wireRoom) types.Rooms {
	out := make(types.Rooms, 0, len(in))
	for _, w := range in {
		out = append(out, types.Room{ActiveEntity: w.active(), Building: w.Building})
	}
	return out
}

func toSubjects(in []wireSubject) types.Subjects {
	out := make(types.Subjects, 0, len(in))
	for _, w := range in {
		out = append(out, types.NewSubject(w.active(), w.AlternateName, w.BackColor, w.ForeColor))
	}
	return out
}

func toTeachers(in []wireTeacher) types.Teachers {
	out := make(types.Teachers, 0, len(in))
	for _, w := range in {
		out = append(out, types.NewTeacher(w.active(), w.Title, w.ForeName))
	}
	return out
}

func toHolidays(in []wirePeriod) (types.Holidays, error) {
	out := make(types.Holidays, 0, len(in))
	for _, w := range in {
		start, end, err := w.dates()
		if err != nil {
			return nil, fmt.Errorf("holiday %d: %w", w.ID, err)
		}
		out = append(out, types.Holiday{Entity: w.entity(), Start: start, End: end})
	}
	return out, nil
}

func toSchoolYear(w wirePeriod) (types.SchoolYear, error) {
	start, end, err := w.dates()
	if err != nil {
		return types.SchoolYear{}, fmt.Errorf("school year %d: %w", w.ID, err)
	}
	return types.SchoolYear{Name: w.Name, ID: w.ID, Start: start, End: end}, nil
}

func toSchoolYears(in []wirePeriod) (types.SchoolYears, error) {
	out := make(types.SchoolYears, 0, len(in))
	for _, w := range in {
		y, err := toSchoolYear(w)
		if err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, nil
}

func toTimegrid(in []wireTimegridDay) (types.TimegridUnits, error) {
	out := make(types.TimegridUnits, 0, len(in))
	for _, d := range in {
		units := make(types.TimeUnits, 0, len(d.TimeUnits))
		for _, u := range d.TimeUnits {
			start, err := types.ParseClock(u.StartTime)
			if err != nil {
				return nil, fmt.Errorf("time unit %q: %w", u.Name, err)
			}
			end, err := types.ParseClock(u.EndTime)
			if err != nil {
				return nil, fmt.Errorf("time unit %q: %w", u.Name, err)
			}
			units = append(units, types.TimeUnit{Name: u.Name, Start: start, End: end})
		}
		out = append(out, types.TimegridUnit{Day: types.WeekdayOf(d.Day), Units: units})
	}
	return out, nil
}

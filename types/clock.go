package types

import (
	"fmt"
	"strconv"
	"time"
)

// dateLayout is the yyyyMMdd layout WebUntis uses for dates.
const dateLayout = "20060102"

// ParseDate converts a yyyyMMdd integer into a date at UTC midnight.
func ParseDate(v int) (time.Time, error) {
	t, err := time.Parse(dateLayout, strconv.Itoa(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid untis date %d: %w", v, err)
	}
	return t, nil
}

// FormatDate renders t as yyyyMMdd.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock converts an Hmm / HHmm integer (5 is 00:05, 745 is 07:45).
func ParseClock(v int) (Clock, error) {
	if v < 0 || v > 2359 || v%100 > 59 {
		return Clock{}, fmt.Errorf("invalid untis time %d", v)
	}
	return Clock{Hour: v / 100, Minute: v % 100}, nil
}

// ParseClockString parses "15:04".
func ParseClockString(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// Untis returns the HHmm integer form.
func (c Clock) Untis() int { return c.Hour*100 + c.Minute }

// Minutes returns the minutes since midnight.
func (c Clock) Minutes() int { return c.Hour*60 + c.Minute }

// Compare returns -1, 0 or +1.
func (c Clock) Compare(o Clock) int {
	switch a, b := c.Minutes(), o.Minutes(); {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Before reports whether c is earlier than o.
func (c Clock) Before(o Clock) bool { return c.Compare(o) < 0 }

// On places the clock on the given date.
func (c Clock) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, date.Location())
}

// MarshalText encodes the clock as "15:04".
func (c Clock) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText decodes "15:04".
func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClockString(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

package core

import (
	"time"
)

// Date represents a calendar day with no time-of-day component.
// The underlying instant is always midnight UTC so day arithmetic is exact.
type Date time.Time

// NewDate creates a date from year, month and day
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates a time.Time to its calendar day
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Time returns the underlying time.Time (midnight UTC)
func (d Date) Time() time.Time {
	return time.Time(d)
}

// IsZero checks if the date is zero
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// Before returns true if d is before u
func (d Date) Before(u Date) bool {
	return time.Time(d).Before(time.Time(u))
}

// After returns true if d is after u
func (d Date) After(u Date) bool {
	return time.Time(d).After(time.Time(u))
}

// Equal returns true if d and u are the same calendar day
func (d Date) Equal(u Date) bool {
	return time.Time(d).Equal(time.Time(u))
}

// AddDays returns the date n days after d (n may be negative)
func (d Date) AddDays(n int) Date {
	return Date(time.Time(d).AddDate(0, 0, n))
}

// DaysUntil returns the signed number of days from d to u.
// Both dates sit at midnight UTC, so the difference is an exact day count.
func (d Date) DaysUntil(u Date) int {
	return int(time.Time(u).Sub(time.Time(d)).Hours() / 24)
}

// Year returns the calendar year
func (d Date) Year() int {
	return time.Time(d).Year()
}

// Month returns the calendar month
func (d Date) Month() time.Month {
	return time.Time(d).Month()
}

// MonthKey returns the year-month bucket key, e.g. "2023-02"
func (d Date) MonthKey() string {
	return time.Time(d).Format("2006-01")
}

// String returns the ISO representation, e.g. "2023-02-28"
func (d Date) String() string {
	return time.Time(d).Format("2006-01-02")
}

// ParseISODate parses a date in ISO form (2006-01-02)
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, NewInvalidDateError(s, err)
	}
	return DateOf(t), nil
}

// JSON marshaling for Date
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseISODate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

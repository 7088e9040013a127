package kernel

import (
	"fmt"
	"math"
	"time"

	"fulfillment/internal/pkg/errs"
)

// DateLayout is the wire format of every date stamp stored in order labels.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// Date is a calendar day without a time of day or zone. The zero value is
// invalid and reports IsZero.
//
// Date is comparable, so it can be used with == and as a map value.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate builds a Date and rejects values that do not exist in the calendar
// (e.g. 2025-02-30).
func NewDate(year int, month time.Month, dayOfMonth int) (Date, error) {
	t := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != dayOfMonth {
		return Date{}, errs.NewValueIsInvalidErrorWithCause(
			"date",
			fmt.Errorf("%04d-%02d-%02d is not a calendar day", year, month, dayOfMonth),
		)
	}
	return Date{year: year, month: month, day: dayOfMonth}, nil
}

// MustDate is NewDate for literals known to be valid.
func MustDate(year int, month time.Month, dayOfMonth int) Date {
	d, err := NewDate(year, month, dayOfMonth)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDate parses a YYYY-MM-DD stamp.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	return DateOf(t), nil
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Year() int          { return d.year }
func (d Date) Month() time.Month  { return d.month }
func (d Date) Day() int           { return d.day }
func (d Date) Equal(o Date) bool  { return d == o }
func (d Date) Before(o Date) bool { return d.midnight().Before(o.midnight()) }
func (d Date) After(o Date) bool  { return d.midnight().After(o.midnight()) }

// AddDays returns the date n calendar days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnight().AddDate(0, 0, n))
}

// DaysSince returns round((d₀₀:₀₀ − earlier₀₀:₀₀) / 1 day). It is negative when
// earlier is after d.
func (d Date) DaysSince(earlier Date) int {
	return int(math.Round(float64(d.midnight().Sub(earlier.midnight())) / float64(day)))
}

// In returns local midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.midnight().Format(DateLayout)
}

func (d Date) midnight() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Calendar tells which day it is in the shop's time zone. Jobs take a Calendar
// instead of calling time.Now so that tests can pin "today".
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar returns a Calendar on the wall clock in loc (UTC when nil).
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc, now: time.Now}
}

// FixedCalendar returns a Calendar that always reports today.
func FixedCalendar(today Date) Calendar {
	return Calendar{
		loc: time.UTC,
		now: func() time.Time { return today.In(time.UTC).Add(12 * time.Hour) },
	}
}

// WithClock overrides the clock for deterministic testing.
func (c Calendar) WithClock(now func() time.Time) Calendar {
	c.now = now
	return c
}

// Now returns the current instant in the calendar's location.
func (c Calendar) Now() time.Time {
	if c.now == nil {
		return time.Now().In(c.location())
	}
	return c.now().In(c.location())
}

// Today returns the current calendar day in the calendar's location.
func (c Calendar) Today() Date {
	return DateOf(c.Now())
}

func (c Calendar) Location() *time.Location {
	return c.location()
}

func (c Calendar) location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

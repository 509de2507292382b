package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
)

const DateFormat = "2006-01-02"

// Date is a day in calendar, without time-of-day and timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the date of t, in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q: %w", domerr.ErrInvalidValue, s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// In returns the beginning of the date in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// At returns the moment of the date and the clock in loc.
func (d Date) At(c Clock, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour(), c.Minute(), 0, 0, loc)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.In(time.UTC).Weekday()
}

// Compare returns -1 if d is before o, +1 if after, or 0.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	}
	return cmpInt(d.Day, o.Day)
}

func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

func (d Date) After(o Date) bool {
	return d.Compare(o) > 0
}

// Between tells since <= d <= until.
func (d Date) Between(since, until Date) bool {
	return !d.Before(since) && !d.After(until)
}

// WeekStart returns Sunday of the week which d is in.
func (d Date) WeekStart() Date {
	return d.AddDays(-int(d.Weekday()))
}

// WeekEnd returns Saturday of the week which d is in.
func (d Date) WeekEnd() Date {
	return d.WeekStart().AddDays(6)
}

func (d Date) MonthStart() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

func (d Date) MonthEnd() Date {
	return DateOf(d.MonthStart().In(time.UTC).AddDate(0, 1, -1))
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock is a time of day, in minute precision.
//
// The value is minutes since midnight.
type Clock int

const minutesInDay = 24 * 60

// NewClock returns hour:minute. It fails when out of a day.
func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || 23 < hour || minute < 0 || 59 < minute {
		return 0, fmt.Errorf(
			"%w: clock %02d:%02d is out of range", domerr.ErrInvalidValue, hour, minute,
		)
	}
	return Clock(hour*60 + minute), nil
}

// ClockOf returns the time of day of t, truncated to minutes.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

// ParseClock parses "HH:MM" or "HH:MM:SS". Seconds are truncated.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: clock %q", domerr.ErrInvalidValue, s)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || len(p) != 2 {
			return 0, fmt.Errorf("%w: clock %q", domerr.ErrInvalidValue, s)
		}
		nums[i] = n
	}
	if len(nums) == 3 && (nums[2] < 0 || 59 < nums[2]) {
		return 0, fmt.Errorf("%w: clock %q", domerr.ErrInvalidValue, s)
	}
	return NewClock(nums[0], nums[1])
}

func (c Clock) Hour() int {
	return int(c) / 60
}

func (c Clock) Minute() int {
	return int(c) % 60
}

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int {
	return int(c)
}

// AddMinutes returns c + n minutes.
//
// ok is false when the result leaves the day.
func (c Clock) AddMinutes(n int) (result Clock, ok bool) {
	v := int(c) + n
	if v < 0 || minutesInDay <= v {
		return c, false
	}
	return Clock(v), true
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

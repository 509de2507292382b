package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mindgarden/consultation/pkg/domain"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
	"github.com/mindgarden/consultation/pkg/utils/try"
)

func TestParseDate(t *testing.T) {
	t.Run("it parses YYYY-MM-DD", func(t *testing.T) {
		actual := try.To(domain.ParseDate("2024-02-29")).OrFatal(t)
		expected := domain.Date{Year: 2024, Month: time.February, Day: 29}
		if actual != expected {
			t.Errorf("expected %v, got %v", expected, actual)
		}
		if actual.String() != "2024-02-29" {
			t.Errorf("unexpected format: %s", actual)
		}
	})

	for _, in := range []string{"", "2024/01/01", "2023-02-29", "24-1-1"} {
		t.Run("it rejects "+in, func(t *testing.T) {
			_, err := domain.ParseDate(in)
			if !errors.Is(err, domerr.ErrInvalidValue) {
				t.Errorf("expected ErrInvalidValue, got %v", err)
			}
		})
	}
}

func TestDate_Ranges(t *testing.T) {
	type When struct {
		date string
	}
	type Then struct {
		weekStart  string
		weekEnd    string
		monthStart string
		monthEnd   string
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			d := try.To(domain.ParseDate(when.date)).OrFatal(t)

			if got := d.WeekStart().String(); got != then.weekStart {
				t.Errorf("week start: expected %s, got %s", then.weekStart, got)
			}
			if got := d.WeekEnd().String(); got != then.weekEnd {
				t.Errorf("week end: expected %s, got %s", then.weekEnd, got)
			}
			if got := d.MonthStart().String(); got != then.monthStart {
				t.Errorf("month start: expected %s, got %s", then.monthStart, got)
			}
			if got := d.MonthEnd().String(); got != then.monthEnd {
				t.Errorf("month end: expected %s, got %s", then.monthEnd, got)
			}
		}
	}

	t.Run("a wednesday in the middle of month", theory(
		When{date: "2024-05-15"},
		Then{
			weekStart: "2024-05-12", weekEnd: "2024-05-18",
			monthStart: "2024-05-01", monthEnd: "2024-05-31",
		},
	))

	t.Run("a sunday starts its own week", theory(
		When{date: "2024-05-12"},
		Then{
			weekStart: "2024-05-12", weekEnd: "2024-05-18",
			monthStart: "2024-05-01", monthEnd: "2024-05-31",
		},
	))

	t.Run("a week across months and a leap february", theory(
		When{date: "2024-02-29"},
		Then{
			weekStart: "2024-02-25", weekEnd: "2024-03-02",
			monthStart: "2024-02-01", monthEnd: "2024-02-29",
		},
	))

	t.Run("a week across years", theory(
		When{date: "2025-01-01"},
		Then{
			weekStart: "2024-12-29", weekEnd: "2025-01-04",
			monthStart: "2025-01-01", monthEnd: "2025-01-31",
		},
	))
}

func TestDate_Compare(t *testing.T) {
	a := try.To(domain.ParseDate("2024-05-15")).OrFatal(t)
	b := try.To(domain.ParseDate("2024-06-01")).OrFatal(t)

	if !a.Before(b) || a.After(b) {
		t.Errorf("%s should be before %s", a, b)
	}
	if a.Compare(a) != 0 {
		t.Errorf("%s should equal to itself", a)
	}
	if !a.Between(a, b) || !b.Between(a, b) {
		t.Error("Between should be inclusive")
	}
	if a.AddDays(17) != b {
		t.Errorf("expected %s, got %s", b, a.AddDays(17))
	}
}

func TestParseClock(t *testing.T) {
	type Then struct {
		clock domain.Clock
		err   error
	}

	theory := func(when string, then Then) func(*testing.T) {
		return func(t *testing.T) {
			actual, err := domain.ParseClock(when)
			if then.err != nil {
				if !errors.Is(err, then.err) {
					t.Errorf("expected error %v, got %v", then.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if actual != then.clock {
				t.Errorf("expected %s, got %s", then.clock, actual)
			}
		}
	}

	t.Run("HH:MM", theory("09:30", Then{clock: domain.Clock(9*60 + 30)}))
	t.Run("HH:MM:SS truncates seconds", theory("14:05:59", Then{clock: domain.Clock(14*60 + 5)}))
	t.Run("midnight", theory("00:00", Then{clock: 0}))
	t.Run("24:00 is out of range", theory("24:00", Then{err: domerr.ErrInvalidValue}))
	t.Run("minute out of range", theory("10:60", Then{err: domerr.ErrInvalidValue}))
	t.Run("single digit hour", theory("9:30", Then{err: domerr.ErrInvalidValue}))
	t.Run("garbage", theory("noon", Then{err: domerr.ErrInvalidValue}))
}

func TestClock_AddMinutes(t *testing.T) {
	c := try.To(domain.ParseClock("23:00")).OrFatal(t)

	if got, ok := c.AddMinutes(50); !ok || got.String() != "23:50" {
		t.Errorf("expected 23:50, got %s (ok=%v)", got, ok)
	}
	if _, ok := c.AddMinutes(60); ok {
		t.Error("it should not pass midnight")
	}
}

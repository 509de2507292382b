package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mindgarden/consultation/pkg/domain"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
	"github.com/mindgarden/consultation/pkg/utils/try"
)

func slot(t *testing.T, start, end string) domain.TimeSlot {
	t.Helper()
	return domain.TimeSlot{
		Start: try.To(domain.ParseClock(start)).OrFatal(t),
		End:   try.To(domain.ParseClock(end)).OrFatal(t),
	}
}

func TestTimeSlot_TooClose(t *testing.T) {
	type When struct {
		a, b [2]string
	}
	type Then struct {
		overlaps bool
		tooClose bool
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			a := slot(t, when.a[0], when.a[1])
			b := slot(t, when.b[0], when.b[1])

			if got := a.Overlaps(b); got != then.overlaps {
				t.Errorf("Overlaps: expected %v, got %v", then.overlaps, got)
			}
			if got := b.Overlaps(a); got != then.overlaps {
				t.Errorf("Overlaps (flipped): expected %v, got %v", then.overlaps, got)
			}
			if got := a.TooClose(b, domain.BreakBetweenSessions); got != then.tooClose {
				t.Errorf("TooClose: expected %v, got %v", then.tooClose, got)
			}
			if got := b.TooClose(a, domain.BreakBetweenSessions); got != then.tooClose {
				t.Errorf("TooClose (flipped): expected %v, got %v", then.tooClose, got)
			}
		}
	}

	t.Run("overlapping slots", theory(
		When{a: [2]string{"10:00", "10:50"}, b: [2]string{"10:30", "11:20"}},
		Then{overlaps: true, tooClose: true},
	))
	t.Run("back-to-back slots are too close", theory(
		When{a: [2]string{"10:00", "10:50"}, b: [2]string{"10:50", "11:40"}},
		Then{overlaps: false, tooClose: true},
	))
	t.Run("5 minutes apart is too close", theory(
		When{a: [2]string{"10:00", "10:50"}, b: [2]string{"10:55", "11:45"}},
		Then{overlaps: false, tooClose: true},
	))
	t.Run("exactly 10 minutes apart is fine", theory(
		When{a: [2]string{"10:00", "10:50"}, b: [2]string{"11:00", "11:50"}},
		Then{overlaps: false, tooClose: false},
	))
	t.Run("containing slot", theory(
		When{a: [2]string{"09:00", "12:00"}, b: [2]string{"10:00", "10:50"}},
		Then{overlaps: true, tooClose: true},
	))
}

func TestTimeSlot_Validate(t *testing.T) {
	if err := slot(t, "10:00", "10:50").Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := slot(t, "10:00", "10:00").Validate(); !errors.Is(err, domerr.ErrInvalidValue) {
		t.Errorf("empty slot should be rejected: %v", err)
	}
	if err := slot(t, "11:00", "10:00").Validate(); !errors.Is(err, domerr.ErrInvalidValue) {
		t.Errorf("reversed slot should be rejected: %v", err)
	}
}

func TestScheduleStatus_CanMoveTo(t *testing.T) {
	allowed := map[domain.ScheduleStatus][]domain.ScheduleStatus{
		domain.Confirmed: {domain.Booked},
		domain.Completed: {domain.Booked, domain.Confirmed},
		domain.Cancelled: {domain.Booked, domain.Confirmed, domain.Available, domain.Blocked},
	}

	for _, to := range domain.ScheduleStatuses() {
		for _, from := range domain.ScheduleStatuses() {
			expected := false
			for _, a := range allowed[to] {
				if a == from {
					expected = true
				}
			}
			if got := from.CanMoveTo(to); got != expected {
				t.Errorf("%s -> %s: expected %v, got %v", from, to, expected, got)
			}
		}
	}
}

func TestAsScheduleStatus(t *testing.T) {
	for _, s := range domain.ScheduleStatuses() {
		got, err := domain.AsScheduleStatus(string(s))
		if err != nil || got != s {
			t.Errorf("%s: got %s, %v", s, got, err)
		}
	}
	if got, err := domain.AsScheduleStatus("booked"); err != nil || got != domain.Booked {
		t.Errorf("it should be case-insensitive: %s, %v", got, err)
	}
	if _, err := domain.AsScheduleStatus("DONE"); !errors.Is(err, domerr.ErrInvalidValue) {
		t.Errorf("unknown status should be rejected: %v", err)
	}
}

func TestConsultationType_DefaultDuration(t *testing.T) {
	for ct, minutes := range map[domain.ConsultationType]int{
		domain.Individual: 50, domain.Family: 80, domain.Couple: 80, domain.Group: 90,
		domain.Initial: 60, domain.FollowUp: 50, domain.Crisis: 60, domain.Assessment: 90,
	} {
		if got := ct.DefaultDuration(); got != time.Duration(minutes)*time.Minute {
			t.Errorf("%s: expected %d minutes, got %s", ct, minutes, got)
		}
	}
}

func TestSchedule_EndsBefore(t *testing.T) {
	s := domain.Schedule{
		Date:  try.To(domain.ParseDate("2024-05-15")).OrFatal(t),
		Start: try.To(domain.ParseClock("10:00")).OrFatal(t),
		End:   try.To(domain.ParseClock("10:50")).OrFatal(t),
	}
	loc := time.FixedZone("KST", 9*60*60)

	if s.EndsBefore(time.Date(2024, 5, 15, 10, 49, 0, 0, loc)) {
		t.Error("it has not ended yet")
	}
	if !s.EndsBefore(time.Date(2024, 5, 15, 10, 51, 0, 0, loc)) {
		t.Error("it has ended")
	}
}

func TestScheduleFindQuery_ScopedTo(t *testing.T) {
	consultant := domain.UserId(10)
	base := domain.ScheduleFindQuery{ConsultantId: &consultant}

	t.Run("admin keeps the query", func(t *testing.T) {
		q := base.ScopedTo(domain.Caller{UserId: 1, Role: domain.BranchManager})
		if q.ConsultantId == nil || *q.ConsultantId != consultant || q.ClientId != nil {
			t.Errorf("unexpected query: %+v", q)
		}
	})

	t.Run("consultant sees only own", func(t *testing.T) {
		q := base.ScopedTo(domain.Caller{UserId: 20, Role: domain.Consultant})
		if q.ConsultantId == nil || *q.ConsultantId != 20 {
			t.Errorf("unexpected query: %+v", q)
		}
	})

	t.Run("client sees only own", func(t *testing.T) {
		q := domain.ScheduleFindQuery{}.ScopedTo(domain.Caller{UserId: 30, Role: domain.Client})
		if q.ClientId == nil || *q.ClientId != 30 || q.ConsultantId != nil {
			t.Errorf("unexpected query: %+v", q)
		}
	})
}

package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
)

type ScheduleId int64

func (id ScheduleId) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func ParseScheduleId(s string) (ScheduleId, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: schedule id %q", domerr.ErrInvalidValue, s)
	}
	return ScheduleId(v), nil
}

type ScheduleStatus string

const (
	// Open slot of a Consultant. Nobody has booked it.
	Available ScheduleStatus = "AVAILABLE"

	// A Client has booked the slot.
	Booked ScheduleStatus = "BOOKED"

	// An admin has confirmed the booking.
	Confirmed ScheduleStatus = "CONFIRMED"

	// The session has been held. One session of the mapping is consumed.
	Completed ScheduleStatus = "COMPLETED"

	Cancelled ScheduleStatus = "CANCELLED"

	// The Consultant is not available in this slot (vacation, meeting, ...).
	Blocked ScheduleStatus = "BLOCKED"
)

func (s ScheduleStatus) String() string {
	return string(s)
}

func ScheduleStatuses() []ScheduleStatus {
	return []ScheduleStatus{Available, Booked, Confirmed, Completed, Cancelled, Blocked}
}

// OpenStatuses are statuses of schedules which will consume a session in future.
func OpenStatuses() []ScheduleStatus {
	return []ScheduleStatus{Booked, Confirmed}
}

// IsOpen tells whether the schedule will consume a session in future.
func (s ScheduleStatus) IsOpen() bool {
	return s == Booked || s == Confirmed
}

// AsScheduleStatus parses status name, case-insensitively.
func AsScheduleStatus(s string) (ScheduleStatus, error) {
	st := ScheduleStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range ScheduleStatuses() {
		if st == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: unknown schedule status %q", domerr.ErrInvalidValue, s)
}

type ConsultationType string

const (
	Individual ConsultationType = "INDIVIDUAL"
	Family     ConsultationType = "FAMILY"
	Couple     ConsultationType = "COUPLE"
	Group      ConsultationType = "GROUP"
	Initial    ConsultationType = "INITIAL"
	FollowUp   ConsultationType = "FOLLOW_UP"
	Crisis     ConsultationType = "CRISIS"
	Assessment ConsultationType = "ASSESSMENT"
)

var consultationDurations = map[ConsultationType]time.Duration{
	Individual: 50 * time.Minute,
	Family:     80 * time.Minute,
	Couple:     80 * time.Minute,
	Group:      90 * time.Minute,
	Initial:    60 * time.Minute,
	FollowUp:   50 * time.Minute,
	Crisis:     60 * time.Minute,
	Assessment: 90 * time.Minute,
}

func (c ConsultationType) String() string {
	return string(c)
}

// DefaultDuration is the length of a session of this type.
func (c ConsultationType) DefaultDuration() time.Duration {
	if d, ok := consultationDurations[c]; ok {
		return d
	}
	return consultationDurations[Individual]
}

func AsConsultationType(s string) (ConsultationType, error) {
	ct := ConsultationType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := consultationDurations[ct]; ok {
		return ct, nil
	}
	return "", fmt.Errorf("%w: unknown consultation type %q", domerr.ErrInvalidValue, s)
}

// BreakBetweenSessions is the least gap between two schedules of a Consultant.
const BreakBetweenSessions = 10 * time.Minute

type Schedule struct {
	Id             ScheduleId
	ConsultantId   UserId
	ConsultantName string

	// nil for slots without client (AVAILABLE or BLOCKED).
	ClientId   *UserId
	ClientName string

	Date  Date
	Start Clock
	End   Clock

	Status           ScheduleStatus
	ConsultationType ConsultationType

	Title       string
	Description string
	Notes       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Schedule) Equal(o *Schedule) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	sameClient := (s.ClientId == nil && o.ClientId == nil) ||
		(s.ClientId != nil && o.ClientId != nil && *s.ClientId == *o.ClientId)

	return s.Id == o.Id &&
		s.ConsultantId == o.ConsultantId &&
		s.ConsultantName == o.ConsultantName &&
		sameClient &&
		s.ClientName == o.ClientName &&
		s.Date == o.Date &&
		s.Start == o.Start &&
		s.End == o.End &&
		s.Status == o.Status &&
		s.ConsultationType == o.ConsultationType &&
		s.Title == o.Title &&
		s.Description == o.Description &&
		s.Notes == o.Notes &&
		s.CreatedAt.Equal(o.CreatedAt) &&
		s.UpdatedAt.Equal(o.UpdatedAt)
}

// EndsBefore tells whether the schedule has ended at now (in loc).
func (s *Schedule) EndsBefore(now time.Time) bool {
	return s.Date.At(s.End, now.Location()).Before(now)
}

// TimeSlot is a range of time in a day: [Start, End).
type TimeSlot struct {
	Start Clock
	End   Clock
}

func (t TimeSlot) Validate() error {
	if t.End <= t.Start {
		return fmt.Errorf(
			"%w: time slot %s-%s: start should be before end",
			domerr.ErrInvalidValue, t.Start, t.End,
		)
	}
	return nil
}

// Overlaps tells whether two slots share any moment.
func (t TimeSlot) Overlaps(o TimeSlot) bool {
	return t.Start < o.End && o.Start < t.End
}

// TooClose tells whether two slots overlap or are apart less than gap.
func (t TimeSlot) TooClose(o TimeSlot, gap time.Duration) bool {
	g := int(gap / time.Minute)
	return int(t.Start) < int(o.End)+g && int(o.Start) < int(t.End)+g
}

// BookingSpec is a request to book a session of a Client with a Consultant.
type BookingSpec struct {
	ConsultantId     UserId
	ClientId         UserId
	Date             Date
	Slot             TimeSlot
	ConsultationType ConsultationType
	Title            string
	Description      string
}

// SlotSpec is a request to open (AVAILABLE) or block (BLOCKED) time of a Consultant.
type SlotSpec struct {
	ConsultantId UserId
	Date         Date
	Slot         TimeSlot
	Status       ScheduleStatus
	Title        string
	Description  string
}

func (s SlotSpec) Validate() error {
	if s.Status != Available && s.Status != Blocked {
		return fmt.Errorf(
			"%w: slot status should be %s or %s, but %s",
			domerr.ErrInvalidValue, Available, Blocked, s.Status,
		)
	}
	return s.Slot.Validate()
}

// ScheduleChange is a partial update of a Schedule. nil fields are kept.
type ScheduleChange struct {
	Title       *string
	Description *string
	Date        *Date
	Start       *Clock
	End         *Clock
}

// ScheduleFindQuery narrows schedules down. Zero values mean "any".
type ScheduleFindQuery struct {
	ConsultantId *UserId
	ClientId     *UserId
	Since        *Date
	Until        *Date
	Status       []ScheduleStatus
}

// ScopedTo narrows the query to what the caller can see.
//
// Admins are not narrowed.
func (q ScheduleFindQuery) ScopedTo(c Caller) ScheduleFindQuery {
	id := c.UserId
	switch {
	case c.Role.IsAdmin():
	case c.Role == Consultant:
		q.ConsultantId = &id
	default:
		q.ClientId = &id
	}
	return q
}

// CanMoveTo tells the state machine of schedules.
func (s ScheduleStatus) CanMoveTo(to ScheduleStatus) bool {
	switch to {
	case Confirmed:
		return s == Booked
	case Completed:
		return s == Booked || s == Confirmed
	case Cancelled:
		return s == Booked || s == Confirmed || s == Available || s == Blocked
	}
	return false
}

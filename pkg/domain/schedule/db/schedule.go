package db

import (
	"context"
	"time"

	"github.com/mindgarden/consultation/pkg/domain"
)

type ScheduleInterface interface {
	// Get retrieves Schedules by id.
	//
	// Args
	//
	// - context.Context
	//
	// - []ScheduleId: ids to be retrieved
	//
	// Returns
	//
	// - map[ScheduleId]*Schedule: found Schedules. Missing ids are not in keys.
	//
	// - error
	Get(context.Context, []domain.ScheduleId) (map[domain.ScheduleId]*domain.Schedule, error)

	// Find Schedules matching the query.
	//
	// Args
	//
	// - context.Context
	//
	// - ScheduleFindQuery: conditions. Unset conditions match everything.
	//
	// Returns
	//
	// - []Schedule: found Schedules, ordered by date and start time.
	//
	// - error
	Find(context.Context, domain.ScheduleFindQuery) ([]domain.Schedule, error)

	// Book a session of a Client with a Consultant.
	//
	// The pair should have an ACTIVE Mapping, and the Mapping should have more
	// remaining sessions than open (BOOKED or CONFIRMED) schedules of the pair.
	// The new schedule should not be too close to other schedules of the Consultant
	// (overlapping, or less than BreakBetweenSessions apart). Cancelled ones are ignored.
	//
	// Args
	//
	// - context.Context
	//
	// - BookingSpec
	//
	// Returns
	//
	// - ScheduleId: id of the new Schedule, which is BOOKED.
	//
	// - error:
	// ErrMissing when the pair has no Mapping (or the consultant is not registered),
	// ErrInvalidState when the Mapping is not ACTIVE,
	// ErrNoSession when every remaining session is booked already,
	// ErrConflict when the time is taken.
	Book(context.Context, domain.BookingSpec) (domain.ScheduleId, error)

	// CreateSlot opens (AVAILABLE) or blocks (BLOCKED) time of a Consultant.
	//
	// The same conflict rule as Book is applied.
	//
	// Returns
	//
	// - ScheduleId: id of the new Schedule.
	//
	// - error: ErrConflict when the time is taken. ErrInvalidValue for malformed spec.
	CreateSlot(context.Context, domain.SlotSpec) (domain.ScheduleId, error)

	// Confirm a BOOKED Schedule to be CONFIRMED.
	//
	// Args
	//
	// - context.Context
	//
	// - ScheduleId
	//
	// - string: note of the admin. It is appended to description, if not empty.
	//
	// Returns
	//
	// - error: ErrMissing or ErrInvalidState
	Confirm(ctx context.Context, id domain.ScheduleId, note string) error

	// Complete a BOOKED or CONFIRMED Schedule.
	//
	// One session of the Mapping of the pair is used in the same transaction.
	// The Mapping becomes SESSIONS_EXHAUSTED when it uses the last session.
	//
	// Returns
	//
	// - error: ErrMissing, ErrInvalidState, or ErrNoSession (Mapping has no session to be used).
	Complete(ctx context.Context, id domain.ScheduleId) error

	// Cancel a Schedule which is not COMPLETED nor CANCELLED.
	//
	// Args
	//
	// - context.Context
	//
	// - ScheduleId
	//
	// - string: reason. It is appended to notes, if not empty.
	//
	// Returns
	//
	// - error: ErrMissing or ErrInvalidState
	Cancel(ctx context.Context, id domain.ScheduleId, reason string) error

	// Update changes title, description, date or time of a Schedule.
	//
	// When date or time is changed, the conflict rule is checked again, excluding the Schedule itself.
	// COMPLETED or CANCELLED Schedules cannot be updated.
	//
	// Returns
	//
	// - error: ErrMissing, ErrInvalidState, ErrInvalidValue or ErrConflict
	Update(ctx context.Context, id domain.ScheduleId, change domain.ScheduleChange) error

	// AutoComplete completes BOOKED or CONFIRMED Schedules which have ended before now.
	//
	// Each Schedule uses a session as Complete does.
	// Schedules locked by others are skipped, and will be picked up next time.
	// Schedules whose Mapping has no session are left as they are.
	//
	// Args
	//
	// - context.Context
	//
	// - time.Time: now. Dates and times of schedules are compared in its location.
	//
	// Returns
	//
	// - []ScheduleId: completed Schedules.
	//
	// - error
	AutoComplete(ctx context.Context, now time.Time) ([]domain.ScheduleId, error)
}

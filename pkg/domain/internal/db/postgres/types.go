// Package postgres has conversions between domain types and postgres types,
// shared by postgres implementations of domain stores.
package postgres

import (
	"time"

	"github.com/jackc/pgtype"
	"github.com/mindgarden/consultation/pkg/domain"
)

const microsecondsInMinute = int64(time.Minute / time.Microsecond)

func PgDate(d domain.Date) pgtype.Date {
	return pgtype.Date{Time: d.In(time.UTC), Status: pgtype.Present}
}

// Date converts pgtype.Date to domain.Date. NULL is zero Date.
func Date(d pgtype.Date) domain.Date {
	if d.Status != pgtype.Present {
		return domain.Date{}
	}
	return domain.DateOf(d.Time)
}

func PgTime(c domain.Clock) pgtype.Time {
	return pgtype.Time{
		Microseconds: int64(c.Minutes()) * microsecondsInMinute,
		Status:       pgtype.Present,
	}
}

// Clock converts pgtype.Time to domain.Clock, truncating seconds.
func Clock(t pgtype.Time) domain.Clock {
	return domain.Clock(t.Microseconds / microsecondsInMinute)
}

// NullableUserId converts *UserId into nullable bigint.
func NullableUserId(id *domain.UserId) pgtype.Int8 {
	if id == nil {
		return pgtype.Int8{Status: pgtype.Null}
	}
	return pgtype.Int8{Int: int64(*id), Status: pgtype.Present}
}

// UserIdRef converts nullable bigint into *UserId.
func UserIdRef(i pgtype.Int8) *domain.UserId {
	if i.Status != pgtype.Present {
		return nil
	}
	id := domain.UserId(i.Int)
	return &id
}

// TimeRef converts nullable timestamptz into *time.Time.
func TimeRef(t pgtype.Timestamptz) *time.Time {
	if t.Status != pgtype.Present {
		return nil
	}
	v := t.Time
	return &v
}

// Text converts nullable text into string. NULL is "".
func Text(t pgtype.Varchar) string {
	if t.Status != pgtype.Present {
		return ""
	}
	return t.String
}

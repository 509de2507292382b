package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	kpool "github.com/mindgarden/consultation/pkg/conn/db/postgres/pool"
	"github.com/mindgarden/consultation/pkg/conn/db/postgres/scanner"
	"github.com/mindgarden/consultation/pkg/domain"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
	pgerr "github.com/mindgarden/consultation/pkg/domain/errors/dberrors/postgres"
	kpgintr "github.com/mindgarden/consultation/pkg/domain/internal/db/postgres"
	"github.com/mindgarden/consultation/pkg/domain/schedule/db"
	xe "github.com/mindgarden/consultation/pkg/errors"
)

type pgSchedule struct {
	pool kpool.Pool
}

var _ db.ScheduleInterface = &pgSchedule{}

func New(pool kpool.Pool) db.ScheduleInterface {
	return &pgSchedule{pool: pool}
}

type scheduleRow struct {
	ScheduleId       int64
	ConsultantId     int64
	ConsultantName   string
	ClientId         pgtype.Int8
	ClientName       pgtype.Varchar
	Date             pgtype.Date
	StartTime        pgtype.Time
	EndTime          pgtype.Time
	Status           string
	ConsultationType string
	Title            string
	Description      string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (r scheduleRow) toDomain() domain.Schedule {
	return domain.Schedule{
		Id:               domain.ScheduleId(r.ScheduleId),
		ConsultantId:     domain.UserId(r.ConsultantId),
		ConsultantName:   r.ConsultantName,
		ClientId:         kpgintr.UserIdRef(r.ClientId),
		ClientName:       kpgintr.Text(r.ClientName),
		Date:             kpgintr.Date(r.Date),
		Start:            kpgintr.Clock(r.StartTime),
		End:              kpgintr.Clock(r.EndTime),
		Status:           domain.ScheduleStatus(r.Status),
		ConsultationType: domain.ConsultationType(r.ConsultationType),
		Title:            r.Title,
		Description:      r.Description,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// "s" is the alias of "schedule".
const selectSchedule = `
select
	"s"."schedule_id", "s"."consultant_id", "co"."name" as "consultant_name",
	"s"."client_id", "cl"."name" as "client_name",
	"s"."date", "s"."start_time", "s"."end_time",
	"s"."status", "s"."consultation_type",
	"s"."title", "s"."description", "s"."notes",
	"s"."created_at", "s"."updated_at"
from "schedule" as "s"
inner join "user" as "co" on "co"."user_id" = "s"."consultant_id"
left outer join "user" as "cl" on "cl"."user_id" = "s"."client_id"
`

func querySchedules(ctx context.Context, conn kpool.Queryer, query string, args ...any) ([]domain.Schedule, error) {
	rows, err := scanner.New[scheduleRow]().QueryAll(ctx, conn, query, args...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	ret := make([]domain.Schedule, 0, len(rows))
	for _, r := range rows {
		ret = append(ret, r.toDomain())
	}
	return ret, nil
}

func lockSchedule(ctx context.Context, tx kpool.Tx, id domain.ScheduleId) (*domain.Schedule, error) {
	ss, err := querySchedules(
		ctx, tx, selectSchedule+`where "s"."schedule_id" = $1 for update of "s"`, int64(id),
	)
	if err != nil {
		return nil, err
	}
	if len(ss) == 0 {
		return nil, xe.Wrap(pgerr.Missing{Table: "schedule", Identity: id.String()})
	}
	return &ss[0], nil
}

// lockConsultant serializes schedule changes of the consultant.
func lockConsultant(ctx context.Context, tx kpool.Tx, consultant domain.UserId) error {
	var role string
	if err := tx.QueryRow(
		ctx, `select "role" from "user" where "user_id" = $1 for update`, int64(consultant),
	).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return xe.Wrap(pgerr.Missing{Table: "user", Identity: "consultant " + consultant.String()})
		}
		return xe.Wrap(err)
	}
	if role != string(domain.Consultant) {
		return xe.Wrap(pgerr.Missing{Table: "user", Identity: "consultant " + consultant.String()})
	}
	return nil
}

// checkConflict finds schedules of the consultant too close to the slot.
//
// Cancelled schedules and the schedule excluded are ignored.
func checkConflict(
	ctx context.Context,
	tx kpool.Tx,
	consultant domain.UserId,
	date domain.Date,
	slot domain.TimeSlot,
	exclude *domain.ScheduleId,
) error {
	excluded := pgtype.Int8{Status: pgtype.Null}
	if exclude != nil {
		excluded = pgtype.Int8{Int: int64(*exclude), Status: pgtype.Present}
	}

	others, err := querySchedules(
		ctx, tx,
		selectSchedule+`
		where "s"."consultant_id" = $1 and "s"."date" = $2 and "s"."status" <> $3
			and ($4::bigint is null or "s"."schedule_id" <> $4)
		`,
		int64(consultant), kpgintr.PgDate(date), string(domain.Cancelled), excluded,
	)
	if err != nil {
		return err
	}

	for _, o := range others {
		if slot.TooClose(domain.TimeSlot{Start: o.Start, End: o.End}, domain.BreakBetweenSessions) {
			return xe.Wrap(pgerr.Conflict{
				Table:   "schedule",
				Subject: fmt.Sprintf("%s %s-%s", date, slot.Start, slot.End),
				Reason: fmt.Sprintf(
					"too close to schedule %s (%s-%s, %s)", o.Id, o.Start, o.End, o.Status,
				),
			})
		}
	}
	return nil
}

func (m *pgSchedule) Get(ctx context.Context, ids []domain.ScheduleId) (map[domain.ScheduleId]*domain.Schedule, error) {
	ret := map[domain.ScheduleId]*domain.Schedule{}
	if len(ids) == 0 {
		return ret, nil
	}

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, int64(id))
	}

	ss, err := querySchedules(ctx, conn, selectSchedule+`where "s"."schedule_id" = any($1)`, raw)
	if err != nil {
		return nil, err
	}
	for nth := range ss {
		ret[ss[nth].Id] = &ss[nth]
	}
	return ret, nil
}

func (m *pgSchedule) Find(ctx context.Context, query domain.ScheduleFindQuery) ([]domain.Schedule, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	since := pgtype.Date{Status: pgtype.Null}
	if query.Since != nil {
		since = kpgintr.PgDate(*query.Since)
	}
	until := pgtype.Date{Status: pgtype.Null}
	if query.Until != nil {
		until = kpgintr.PgDate(*query.Until)
	}
	status := make([]string, 0, len(query.Status))
	for _, s := range query.Status {
		status = append(status, string(s))
	}

	return querySchedules(
		ctx, conn,
		selectSchedule+`
		where ($1::bigint is null or "s"."consultant_id" = $1)
			and ($2::bigint is null or "s"."client_id" = $2)
			and ($3::date is null or $3 <= "s"."date")
			and ($4::date is null or "s"."date" <= $4)
			and (cardinality($5::varchar[]) = 0 or "s"."status" = any($5))
		order by "s"."date", "s"."start_time", "s"."schedule_id"
		`,
		kpgintr.NullableUserId(query.ConsultantId),
		kpgintr.NullableUserId(query.ClientId),
		since, until, status,
	)
}

func (m *pgSchedule) Book(ctx context.Context, spec domain.BookingSpec) (domain.ScheduleId, error) {
	if err := spec.Slot.Validate(); err != nil {
		return 0, err
	}
	ctype := spec.ConsultationType
	if ctype == "" {
		ctype = domain.Individual
	}
	if _, err := domain.AsConsultationType(string(ctype)); err != nil {
		return 0, err
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	if err := lockConsultant(ctx, tx, spec.ConsultantId); err != nil {
		return 0, err
	}

	mapping, err := kpgintr.LockAliveMappingOf(ctx, tx, spec.ConsultantId, spec.ClientId)
	if err != nil {
		return 0, err
	}

	open, err := kpgintr.CountOpenSchedules(ctx, tx, spec.ConsultantId, spec.ClientId)
	if err != nil {
		return 0, err
	}
	if err := mapping.Bookable(open); err != nil {
		return 0, xe.Wrap(err)
	}

	if err := checkConflict(ctx, tx, spec.ConsultantId, spec.Date, spec.Slot, nil); err != nil {
		return 0, err
	}

	var id int64
	if err := tx.QueryRow(
		ctx,
		`
		insert into "schedule" (
			"consultant_id", "client_id", "date", "start_time", "end_time",
			"status", "consultation_type", "title", "description"
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		returning "schedule_id"
		`,
		int64(spec.ConsultantId), int64(spec.ClientId),
		kpgintr.PgDate(spec.Date), kpgintr.PgTime(spec.Slot.Start), kpgintr.PgTime(spec.Slot.End),
		string(domain.Booked), string(ctype), spec.Title, spec.Description,
	).Scan(&id); err != nil {
		return 0, xe.Wrap(pgerr.Translate(err, "schedule"))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, xe.Wrap(err)
	}
	return domain.ScheduleId(id), nil
}

func (m *pgSchedule) CreateSlot(ctx context.Context, spec domain.SlotSpec) (domain.ScheduleId, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	if err := lockConsultant(ctx, tx, spec.ConsultantId); err != nil {
		return 0, err
	}
	if err := checkConflict(ctx, tx, spec.ConsultantId, spec.Date, spec.Slot, nil); err != nil {
		return 0, err
	}

	var id int64
	if err := tx.QueryRow(
		ctx,
		`
		insert into "schedule" (
			"consultant_id", "date", "start_time", "end_time", "status", "title", "description"
		)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning "schedule_id"
		`,
		int64(spec.ConsultantId),
		kpgintr.PgDate(spec.Date), kpgintr.PgTime(spec.Slot.Start), kpgintr.PgTime(spec.Slot.End),
		string(spec.Status), spec.Title, spec.Description,
	).Scan(&id); err != nil {
		return 0, xe.Wrap(pgerr.Translate(err, "schedule"))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, xe.Wrap(err)
	}
	return domain.ScheduleId(id), nil
}

// moveTo locks the schedule, checks the transition and runs update.
func (m *pgSchedule) moveTo(
	ctx context.Context,
	id domain.ScheduleId,
	to domain.ScheduleStatus,
	update func(tx kpool.Tx, s *domain.Schedule) error,
) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	s, err := lockSchedule(ctx, tx, id)
	if err != nil {
		return err
	}
	if !s.Status.CanMoveTo(to) {
		return xe.Wrap(pgerr.InvalidState{
			Table: "schedule", Identity: id.String(), Status: string(s.Status),
			Op: "change to " + string(to),
		})
	}

	if err := update(tx, s); err != nil {
		return err
	}
	return xe.Wrap(tx.Commit(ctx))
}

func (m *pgSchedule) Confirm(ctx context.Context, id domain.ScheduleId, note string) error {
	return m.moveTo(ctx, id, domain.Confirmed, func(tx kpool.Tx, s *domain.Schedule) error {
		desc := s.Description
		if note != "" {
			desc = domain.AppendNote(desc, "[admin confirmed] "+note)
		}
		_, err := tx.Exec(
			ctx,
			`
			update "schedule" set "status" = $2, "description" = $3, "updated_at" = now()
			where "schedule_id" = $1
			`,
			int64(id), string(domain.Confirmed), desc,
		)
		return xe.Wrap(err)
	})
}

func (m *pgSchedule) Complete(ctx context.Context, id domain.ScheduleId) error {
	return m.moveTo(ctx, id, domain.Completed, func(tx kpool.Tx, s *domain.Schedule) error {
		return complete(ctx, tx, s)
	})
}

// complete uses a session of the mapping of the pair and marks the schedule COMPLETED.
func complete(ctx context.Context, tx kpool.Tx, s *domain.Schedule) error {
	if s.ClientId == nil {
		return xe.Wrap(pgerr.InvalidState{
			Table: "schedule", Identity: s.Id.String(), Status: string(s.Status),
			Op: "complete without client",
		})
	}
	mapping, err := kpgintr.LockAliveMappingOf(ctx, tx, s.ConsultantId, *s.ClientId)
	if err != nil {
		return err
	}
	if err := kpgintr.UseSession(ctx, tx, mapping); err != nil {
		return err
	}

	_, err = tx.Exec(
		ctx,
		`update "schedule" set "status" = $2, "updated_at" = now() where "schedule_id" = $1`,
		int64(s.Id), string(domain.Completed),
	)
	return xe.Wrap(err)
}

func (m *pgSchedule) Cancel(ctx context.Context, id domain.ScheduleId, reason string) error {
	return m.moveTo(ctx, id, domain.Cancelled, func(tx kpool.Tx, s *domain.Schedule) error {
		notes := s.Notes
		if reason != "" {
			notes = domain.AppendNote(notes, "[cancelled] "+reason)
		}
		_, err := tx.Exec(
			ctx,
			`
			update "schedule" set "status" = $2, "notes" = $3, "updated_at" = now()
			where "schedule_id" = $1
			`,
			int64(id), string(domain.Cancelled), notes,
		)
		return xe.Wrap(err)
	})
}

func (m *pgSchedule) Update(ctx context.Context, id domain.ScheduleId, change domain.ScheduleChange) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	s, err := lockSchedule(ctx, tx, id)
	if err != nil {
		return err
	}
	if s.Status == domain.Completed || s.Status == domain.Cancelled {
		return xe.Wrap(pgerr.InvalidState{
			Table: "schedule", Identity: id.String(), Status: string(s.Status), Op: "update",
		})
	}

	next := *s
	if change.Title != nil {
		next.Title = *change.Title
	}
	if change.Description != nil {
		next.Description = *change.Description
	}
	if change.Date != nil {
		next.Date = *change.Date
	}
	if change.Start != nil {
		next.Start = *change.Start
	}
	if change.End != nil {
		next.End = *change.End
	}

	slot := domain.TimeSlot{Start: next.Start, End: next.End}
	if next.Date != s.Date || next.Start != s.Start || next.End != s.End {
		if err := slot.Validate(); err != nil {
			return err
		}
		if err := lockConsultant(ctx, tx, s.ConsultantId); err != nil {
			return err
		}
		if err := checkConflict(ctx, tx, s.ConsultantId, next.Date, slot, &id); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "schedule" set
			"title" = $2, "description" = $3,
			"date" = $4, "start_time" = $5, "end_time" = $6,
			"updated_at" = now()
		where "schedule_id" = $1
		`,
		int64(id), next.Title, next.Description,
		kpgintr.PgDate(next.Date), kpgintr.PgTime(next.Start), kpgintr.PgTime(next.End),
	); err != nil {
		return xe.Wrap(pgerr.Translate(err, "schedule"))
	}

	return xe.Wrap(tx.Commit(ctx))
}

func (m *pgSchedule) AutoComplete(ctx context.Context, now time.Time) ([]domain.ScheduleId, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	today := domain.DateOf(now)
	ended, err := querySchedules(
		ctx, tx,
		selectSchedule+`
		where "s"."status" = any($1)
			and ("s"."date" < $2 or ("s"."date" = $2 and "s"."end_time" <= $3))
		order by "s"."date", "s"."end_time", "s"."schedule_id"
		for update of "s" skip locked
		`,
		[]string{string(domain.Booked), string(domain.Confirmed)},
		kpgintr.PgDate(today), kpgintr.PgTime(domain.ClockOf(now)),
	)
	if err != nil {
		return nil, err
	}

	completed := []domain.ScheduleId{}
	for nth := range ended {
		s := &ended[nth]
		if err := complete(ctx, tx, s); err != nil {
			if errors.Is(err, domerr.ErrNoSession) ||
				errors.Is(err, domerr.ErrInvalidState) ||
				errors.Is(err, domerr.ErrMissing) {
				continue
			}
			return nil, err
		}
		completed = append(completed, s.Id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, xe.Wrap(err)
	}
	return completed, nil
}

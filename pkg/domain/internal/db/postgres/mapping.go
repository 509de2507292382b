package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgtype"
	kpool "github.com/mindgarden/consultation/pkg/conn/db/postgres/pool"
	"github.com/mindgarden/consultation/pkg/conn/db/postgres/scanner"
	"github.com/mindgarden/consultation/pkg/domain"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
	pgerr "github.com/mindgarden/consultation/pkg/domain/errors/dberrors/postgres"
	xe "github.com/mindgarden/consultation/pkg/errors"
)

type MappingRow struct {
	MappingId      int64
	ConsultantId   int64
	ConsultantName string
	ClientId       int64
	ClientName     string
	Status         string

	PackageName   string
	PackagePrice  int64
	TotalSessions int
	UsedSessions  int

	PaymentMethod      pgtype.Varchar
	PaymentReference   pgtype.Varchar
	PaymentAmount      pgtype.Int8
	PaymentConfirmedAt pgtype.Timestamptz

	ApprovedBy   string
	ApprovedAt   pgtype.Timestamptz
	TerminatedAt pgtype.Timestamptz

	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r MappingRow) ToDomain() domain.Mapping {
	m := domain.Mapping{
		Id:             domain.MappingId(r.MappingId),
		ConsultantId:   domain.UserId(r.ConsultantId),
		ConsultantName: r.ConsultantName,
		ClientId:       domain.UserId(r.ClientId),
		ClientName:     r.ClientName,
		Status:         domain.MappingStatus(r.Status),
		PackageName:    r.PackageName,
		PackagePrice:   r.PackagePrice,
		TotalSessions:  r.TotalSessions,
		UsedSessions:   r.UsedSessions,
		ApprovedBy:     r.ApprovedBy,
		ApprovedAt:     TimeRef(r.ApprovedAt),
		TerminatedAt:   TimeRef(r.TerminatedAt),
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.PaymentConfirmedAt.Status == pgtype.Present {
		m.Payment = &domain.PaymentRecord{
			Payment: domain.Payment{
				Method:    domain.PaymentMethod(Text(r.PaymentMethod)),
				Reference: Text(r.PaymentReference),
				Amount:    r.PaymentAmount.Int,
			},
			ConfirmedAt: r.PaymentConfirmedAt.Time,
		}
	}
	return m
}

// SelectMapping is a query selecting columns of MappingRow.
//
// Use it as the head of a query; "m" is the alias of "mapping".
const SelectMapping = `
select
	"m"."mapping_id", "m"."consultant_id", "co"."name" as "consultant_name",
	"m"."client_id", "cl"."name" as "client_name", "m"."status",
	"m"."package_name", "m"."package_price", "m"."total_sessions", "m"."used_sessions",
	"m"."payment_method", "m"."payment_reference", "m"."payment_amount", "m"."payment_confirmed_at",
	"m"."approved_by", "m"."approved_at", "m"."terminated_at",
	"m"."notes", "m"."created_at", "m"."updated_at"
from "mapping" as "m"
inner join "user" as "co" on "co"."user_id" = "m"."consultant_id"
inner join "user" as "cl" on "cl"."user_id" = "m"."client_id"
`

// QueryMappings runs query (starting with SelectMapping) and converts rows.
func QueryMappings(ctx context.Context, conn kpool.Queryer, query string, args ...any) ([]domain.Mapping, error) {
	rows, err := scanner.New[MappingRow]().QueryAll(ctx, conn, query, args...)
	if err != nil {
		return nil, err
	}
	ret := make([]domain.Mapping, 0, len(rows))
	for _, r := range rows {
		ret = append(ret, r.ToDomain())
	}
	return ret, nil
}

// LockMapping gets a Mapping by id, with row lock.
//
// Returns
//
// - *Mapping
//
// - error: ErrMissing when not found.
func LockMapping(ctx context.Context, tx kpool.Tx, id domain.MappingId) (*domain.Mapping, error) {
	ms, err := QueryMappings(
		ctx, tx,
		SelectMapping+`where "m"."mapping_id" = $1 for update of "m"`,
		int64(id),
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if len(ms) == 0 {
		return nil, xe.Wrap(pgerr.Missing{Table: "mapping", Identity: id.String()})
	}
	return &ms[0], nil
}

// LockAliveMappingOf gets the Mapping of the pair which is not TERMINATED, with row lock.
//
// Returns
//
// - *Mapping
//
// - error: ErrMissing when the pair has no such Mapping.
func LockAliveMappingOf(
	ctx context.Context, tx kpool.Tx, consultant domain.UserId, client domain.UserId,
) (*domain.Mapping, error) {
	ms, err := QueryMappings(
		ctx, tx,
		SelectMapping+`
		where "m"."consultant_id" = $1 and "m"."client_id" = $2 and "m"."status" <> $3
		for update of "m"
		`,
		int64(consultant), int64(client), string(domain.Terminated),
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	switch len(ms) {
	case 0:
		return nil, xe.Wrap(pgerr.Missing{
			Table:    "mapping",
			Identity: fmt.Sprintf("consultant=%s, client=%s", consultant, client),
		})
	case 1:
		return &ms[0], nil
	}
	return nil, xe.Wrap(pgerr.TooMuch{
		Table:    "mapping",
		Identity: fmt.Sprintf("consultant=%s, client=%s", consultant, client),
		Expected: 1,
	})
}

// UseSession consumes a session of a locked Mapping.
//
// m is updated to the new state.
//
// Returns
//
// - error: ErrInvalidState when m is not ACTIVE, ErrNoSession when no sessions left.
func UseSession(ctx context.Context, tx kpool.Tx, m *domain.Mapping) error {
	if m.Status != domain.Active {
		return xe.Wrap(pgerr.InvalidState{
			Table: "mapping", Identity: m.Id.String(), Status: string(m.Status), Op: "use session",
		})
	}
	if m.RemainingSessions() <= 0 {
		return xe.Wrap(fmt.Errorf("%w: mapping %s", domerr.ErrNoSession, m.Id))
	}

	used := m.UsedSessions + 1
	status := domain.Active
	if m.TotalSessions <= used {
		status = domain.SessionsExhausted
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "mapping" set "used_sessions" = $2, "status" = $3, "updated_at" = now()
		where "mapping_id" = $1
		`,
		int64(m.Id), used, string(status),
	); err != nil {
		return xe.Wrap(pgerr.Translate(err, "mapping"))
	}

	m.UsedSessions = used
	m.Status = status
	return nil
}

// CountOpenSchedules counts BOOKED or CONFIRMED schedules of the pair.
//
// Each of them will use a session of the pair's Mapping when it is completed.
func CountOpenSchedules(ctx context.Context, tx kpool.Tx, consultant domain.UserId, client domain.UserId) (int, error) {
	var open int
	if err := tx.QueryRow(
		ctx,
		`
		select count(*) from "schedule"
		where "consultant_id" = $1 and "client_id" = $2 and "status" = any($3)
		`,
		int64(consultant), int64(client),
		[]string{string(domain.Booked), string(domain.Confirmed)},
	).Scan(&open); err != nil {
		return 0, xe.Wrap(err)
	}
	return open, nil
}

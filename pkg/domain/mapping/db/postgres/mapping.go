package postgres

import (
	"context"
	"fmt"
	"time"

	kpool "github.com/mindgarden/consultation/pkg/conn/db/postgres/pool"
	"github.com/mindgarden/consultation/pkg/domain"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
	pgerr "github.com/mindgarden/consultation/pkg/domain/errors/dberrors/postgres"
	kpgintr "github.com/mindgarden/consultation/pkg/domain/internal/db/postgres"
	"github.com/mindgarden/consultation/pkg/domain/mapping/db"
	xe "github.com/mindgarden/consultation/pkg/errors"
)

type pgMapping struct {
	pool kpool.Pool
}

var _ db.MappingInterface = &pgMapping{}

func New(pool kpool.Pool) db.MappingInterface {
	return &pgMapping{pool: pool}
}

func (m *pgMapping) Get(ctx context.Context, ids []domain.MappingId) (map[domain.MappingId]*domain.Mapping, error) {
	ret := map[domain.MappingId]*domain.Mapping{}
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

	ms, err := kpgintr.QueryMappings(
		ctx, conn, kpgintr.SelectMapping+`where "m"."mapping_id" = any($1)`, raw,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	for nth := range ms {
		ret[ms[nth].Id] = &ms[nth]
	}
	return ret, nil
}

func (m *pgMapping) Find(ctx context.Context, query domain.MappingFindQuery) ([]domain.Mapping, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	var consultant, client *int64
	if query.ConsultantId != nil {
		v := int64(*query.ConsultantId)
		consultant = &v
	}
	if query.ClientId != nil {
		v := int64(*query.ClientId)
		client = &v
	}
	status := make([]string, 0, len(query.Status))
	for _, s := range query.Status {
		status = append(status, string(s))
	}

	ms, err := kpgintr.QueryMappings(
		ctx, conn,
		kpgintr.SelectMapping+`
		where ($1::bigint is null or "m"."consultant_id" = $1)
			and ($2::bigint is null or "m"."client_id" = $2)
			and (cardinality($3::varchar[]) = 0 or "m"."status" = any($3))
		order by "m"."mapping_id"
		`,
		consultant, client, status,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return ms, nil
}

func (m *pgMapping) Create(ctx context.Context, spec domain.MappingSpec) (domain.MappingId, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	// roles are checked to keep consultants and clients apart.
	{
		var consultantRole, clientRole string
		if err := tx.QueryRow(
			ctx,
			`
			select
				coalesce((select "role" from "user" where "user_id" = $1), ''),
				coalesce((select "role" from "user" where "user_id" = $2), '')
			`,
			int64(spec.ConsultantId), int64(spec.ClientId),
		).Scan(&consultantRole, &clientRole); err != nil {
			return 0, xe.Wrap(err)
		}
		if consultantRole != string(domain.Consultant) {
			return 0, xe.Wrap(pgerr.Missing{Table: "user", Identity: "consultant " + spec.ConsultantId.String()})
		}
		if clientRole != string(domain.Client) {
			return 0, xe.Wrap(pgerr.Missing{Table: "user", Identity: "client " + spec.ClientId.String()})
		}
	}

	var id int64
	if err := tx.QueryRow(
		ctx,
		`
		insert into "mapping" (
			"consultant_id", "client_id", "status",
			"package_name", "package_price", "total_sessions", "used_sessions", "notes"
		)
		values ($1, $2, $3, $4, $5, $6, 0, $7)
		returning "mapping_id"
		`,
		int64(spec.ConsultantId), int64(spec.ClientId), string(domain.PendingPayment),
		spec.PackageName, spec.PackagePrice, spec.TotalSessions, spec.Notes,
	).Scan(&id); err != nil {
		return 0, xe.Wrap(pgerr.Translate(err, "mapping"))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, xe.Wrap(err)
	}
	return domain.MappingId(id), nil
}

// transit locks the mapping, checks its status and runs update.
func (m *pgMapping) transit(
	ctx context.Context,
	id domain.MappingId,
	op string,
	from []domain.MappingStatus,
	update func(tx kpool.Tx, mapping *domain.Mapping) error,
) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	mapping, err := kpgintr.LockMapping(ctx, tx, id)
	if err != nil {
		return err
	}

	allowed := false
	for _, f := range from {
		if mapping.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return xe.Wrap(pgerr.InvalidState{
			Table: "mapping", Identity: id.String(), Status: string(mapping.Status), Op: op,
		})
	}

	if err := update(tx, mapping); err != nil {
		return err
	}

	return xe.Wrap(tx.Commit(ctx))
}

func (m *pgMapping) ConfirmPayment(
	ctx context.Context, id domain.MappingId, payment domain.Payment, now time.Time,
) (bool, error) {
	if _, err := domain.AsPaymentMethod(string(payment.Method)); err != nil {
		return false, err
	}
	if payment.Amount < 0 {
		return false, fmt.Errorf("%w: payment amount should not be negative", domerr.ErrInvalidValue)
	}

	mismatch := false
	err := m.transit(
		ctx, id, "confirm payment", []domain.MappingStatus{domain.PendingPayment},
		func(tx kpool.Tx, mapping *domain.Mapping) error {
			mismatch = payment.Amount != mapping.PackagePrice
			_, err := tx.Exec(
				ctx,
				`
				update "mapping" set
					"status" = $2,
					"payment_method" = $3, "payment_reference" = $4, "payment_amount" = $5,
					"payment_confirmed_at" = $6, "updated_at" = now()
				where "mapping_id" = $1
				`,
				int64(id), string(domain.PaymentConfirmed),
				string(payment.Method), payment.Reference, payment.Amount, now,
			)
			return xe.Wrap(err)
		},
	)
	if err != nil {
		return false, err
	}
	return mismatch, nil
}

func (m *pgMapping) Approve(ctx context.Context, id domain.MappingId, admin string, now time.Time) error {
	return m.transit(
		ctx, id, "approve", []domain.MappingStatus{domain.PaymentConfirmed},
		func(tx kpool.Tx, mapping *domain.Mapping) error {
			_, err := tx.Exec(
				ctx,
				`
				update "mapping" set
					"status" = $2, "approved_by" = $3, "approved_at" = $4, "updated_at" = now()
				where "mapping_id" = $1
				`,
				int64(id), string(domain.Active), admin, now,
			)
			return xe.Wrap(err)
		},
	)
}

func (m *pgMapping) Reject(ctx context.Context, id domain.MappingId, reason string, now time.Time) error {
	return m.transit(
		ctx, id, "reject", []domain.MappingStatus{domain.PendingPayment, domain.PaymentConfirmed},
		func(tx kpool.Tx, mapping *domain.Mapping) error {
			notes := mapping.Notes
			if reason != "" {
				notes = domain.AppendNote(notes, "[rejected] "+reason)
			}
			_, err := tx.Exec(
				ctx,
				`
				update "mapping" set
					"status" = $2, "terminated_at" = $3, "notes" = $4, "updated_at" = now()
				where "mapping_id" = $1
				`,
				int64(id), string(domain.Terminated), now, notes,
			)
			return xe.Wrap(err)
		},
	)
}

func (m *pgMapping) UseSession(ctx context.Context, id domain.MappingId) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	mapping, err := kpgintr.LockMapping(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := kpgintr.UseSession(ctx, tx, mapping); err != nil {
		return err
	}

	return xe.Wrap(tx.Commit(ctx))
}

func (m *pgMapping) Extend(ctx context.Context, id domain.MappingId, ext domain.Extension) error {
	if ext.Sessions <= 0 {
		return fmt.Errorf("%w: sessions to be added should be positive", domerr.ErrInvalidValue)
	}
	if ext.Price < 0 {
		return fmt.Errorf("%w: price should not be negative", domerr.ErrInvalidValue)
	}

	return m.transit(
		ctx, id, "extend", []domain.MappingStatus{domain.Active, domain.SessionsExhausted},
		func(tx kpool.Tx, mapping *domain.Mapping) error {
			name := mapping.PackageName
			if ext.PackageName != "" {
				name = ext.PackageName
			}
			notes := domain.AppendNote(
				mapping.Notes,
				fmt.Sprintf("[extended] +%d sessions, +%d", ext.Sessions, ext.Price),
			)
			_, err := tx.Exec(
				ctx,
				`
				update "mapping" set
					"status" = $2,
					"total_sessions" = "total_sessions" + $3,
					"package_price" = "package_price" + $4,
					"package_name" = $5, "notes" = $6, "updated_at" = now()
				where "mapping_id" = $1
				`,
				int64(id), string(domain.Active), ext.Sessions, ext.Price, name, notes,
			)
			return xe.Wrap(err)
		},
	)
}

func (m *pgMapping) PartialRefund(
	ctx context.Context, id domain.MappingId, sessions int, reason string, now time.Time,
) (domain.Refund, error) {
	var refund domain.Refund
	err := m.transit(
		ctx, id, "refund", []domain.MappingStatus{domain.Active},
		func(tx kpool.Tx, mapping *domain.Mapping) error {
			open, err := kpgintr.CountOpenSchedules(ctx, tx, mapping.ConsultantId, mapping.ClientId)
			if err != nil {
				return err
			}
			if refundable := mapping.Refundable(open); sessions < 1 || refundable < sessions {
				return fmt.Errorf(
					"%w: sessions to be refunded should be in 1..%d (%d left, %d booked)",
					domerr.ErrInvalidValue, refundable, mapping.RemainingSessions(), open,
				)
			}
			if !mapping.InRefundWindow(now) {
				return xe.Wrap(fmt.Errorf("%w: mapping %s", domerr.ErrRefundWindow, id))
			}

			refund = domain.Refund{
				MappingId: id,
				Sessions:  sessions,
				Amount:    mapping.ProRata(sessions),
			}
			status := mapping.Status
			if sessions == mapping.RemainingSessions() {
				status = domain.SessionsExhausted
			}
			return m.refund(ctx, tx, mapping, refund, "[partial refund]", reason, status, nil)
		},
	)
	if err != nil {
		return domain.Refund{}, err
	}
	return refund, nil
}

func (m *pgMapping) Terminate(
	ctx context.Context, id domain.MappingId, reason string, now time.Time,
) (domain.Refund, error) {
	var refund domain.Refund
	err := m.transit(
		ctx, id, "terminate",
		[]domain.MappingStatus{
			domain.PendingPayment, domain.PaymentConfirmed, domain.Active, domain.SessionsExhausted,
		},
		func(tx kpool.Tx, mapping *domain.Mapping) error {
			refund = domain.Refund{MappingId: id}
			if mapping.Payment != nil {
				remaining := mapping.RemainingSessions()
				refund.Sessions = remaining
				refund.Amount = mapping.ProRata(remaining)
			}

			if err := m.refund(
				ctx, tx, mapping, refund, "[terminated]", reason, domain.Terminated, &now,
			); err != nil {
				return err
			}

			reasonNote := "[mapping terminated]"
			if reason != "" {
				reasonNote += " " + reason
			}
			if _, err := tx.Exec(
				ctx,
				`
				update "schedule" set
					"status" = $3,
					"notes" = case when "notes" = '' then $4 else "notes" || E'\n' || $4 end,
					"updated_at" = now()
				where "consultant_id" = $1 and "client_id" = $2 and "status" = any($5)
				`,
				int64(mapping.ConsultantId), int64(mapping.ClientId),
				string(domain.Cancelled), reasonNote,
				[]string{string(domain.Booked), string(domain.Confirmed)},
			); err != nil {
				return xe.Wrap(err)
			}
			return nil
		},
	)
	if err != nil {
		return domain.Refund{}, err
	}
	return refund, nil
}

// refund removes refunded sessions from the mapping and records it in notes.
func (m *pgMapping) refund(
	ctx context.Context,
	tx kpool.Tx,
	mapping *domain.Mapping,
	refund domain.Refund,
	label string,
	reason string,
	status domain.MappingStatus,
	terminatedAt *time.Time,
) error {
	line := fmt.Sprintf("%s %d sessions, %d refunded", label, refund.Sessions, refund.Amount)
	if reason != "" {
		line += ": " + reason
	}
	_, err := tx.Exec(
		ctx,
		`
		update "mapping" set
			"total_sessions" = "total_sessions" - $2,
			"package_price" = "package_price" - $3,
			"status" = $4,
			"terminated_at" = coalesce($5, "terminated_at"),
			"notes" = $6,
			"updated_at" = now()
		where "mapping_id" = $1
		`,
		int64(mapping.Id), refund.Sessions, refund.Amount, string(status),
		terminatedAt, domain.AppendNote(mapping.Notes, line),
	)
	return xe.Wrap(pgerr.Translate(err, "mapping"))
}

package db

import (
	"context"
	"time"

	"github.com/mindgarden/consultation/pkg/domain"
)

type MappingInterface interface {
	// Get retrieves Mappings by id.
	//
	// Returns
	//
	// - map[MappingId]*Mapping: found Mappings. Missing ids are not in keys.
	//
	// - error
	Get(context.Context, []domain.MappingId) (map[domain.MappingId]*domain.Mapping, error)

	// Find Mappings matching the query, ordered by id.
	Find(context.Context, domain.MappingFindQuery) ([]domain.Mapping, error)

	// Create a new Mapping in PENDING_PAYMENT.
	//
	// Returns
	//
	// - MappingId: id of the new Mapping.
	//
	// - error:
	// ErrConflict when the pair has a Mapping which is not TERMINATED.
	// ErrMissing when the consultant or the client is not registered.
	Create(context.Context, domain.MappingSpec) (domain.MappingId, error)

	// ConfirmPayment records payment of a PENDING_PAYMENT Mapping, and makes it PAYMENT_CONFIRMED.
	//
	// Args
	//
	// - context.Context
	//
	// - MappingId
	//
	// - Payment
	//
	// - time.Time: when the payment is confirmed
	//
	// Returns
	//
	// - bool: true if the paid amount differs from the package price. The payment is accepted anyway.
	//
	// - error: ErrMissing or ErrInvalidState
	ConfirmPayment(ctx context.Context, id domain.MappingId, payment domain.Payment, now time.Time) (bool, error)

	// Approve a PAYMENT_CONFIRMED Mapping to be ACTIVE.
	//
	// Args
	//
	// - context.Context
	//
	// - MappingId
	//
	// - string: name of the admin who approves.
	//
	// - time.Time: when it is approved.
	//
	// Returns
	//
	// - error: ErrMissing or ErrInvalidState
	Approve(ctx context.Context, id domain.MappingId, admin string, now time.Time) error

	// Reject a Mapping before approval (PENDING_PAYMENT or PAYMENT_CONFIRMED). It becomes TERMINATED.
	//
	// Returns
	//
	// - error: ErrMissing or ErrInvalidState
	Reject(ctx context.Context, id domain.MappingId, reason string, now time.Time) error

	// UseSession consumes a session of an ACTIVE Mapping.
	//
	// It becomes SESSIONS_EXHAUSTED when the last session is used.
	//
	// Returns
	//
	// - error: ErrMissing, ErrInvalidState or ErrNoSession
	UseSession(ctx context.Context, id domain.MappingId) error

	// Extend adds sessions (and price) to an ACTIVE or SESSIONS_EXHAUSTED Mapping.
	//
	// SESSIONS_EXHAUSTED Mapping becomes ACTIVE again.
	// When Extension.PackageName is not empty, the package name is replaced.
	//
	// Returns
	//
	// - error: ErrMissing, ErrInvalidState or ErrInvalidValue (non-positive sessions)
	Extend(ctx context.Context, id domain.MappingId, ext domain.Extension) error

	// PartialRefund returns some of remaining sessions of an ACTIVE Mapping.
	//
	// It is accepted only within RefundWindow since the payment confirmation.
	// Refunded sessions are removed from total sessions.
	// Sessions reserved by open (BOOKED or CONFIRMED) Schedules of the pair are not refundable.
	// The Mapping becomes SESSIONS_EXHAUSTED when no sessions are left.
	//
	// Args
	//
	// - context.Context
	//
	// - MappingId
	//
	// - int: sessions to be refunded. 1 <= sessions <= remaining sessions - open schedules.
	//
	// - string: reason, appended to notes.
	//
	// - time.Time: now
	//
	// Returns
	//
	// - Refund: refunded sessions and amount, pro rata of the package price.
	//
	// - error: ErrMissing, ErrInvalidState, ErrInvalidValue or ErrRefundWindow
	PartialRefund(ctx context.Context, id domain.MappingId, sessions int, reason string, now time.Time) (domain.Refund, error)

	// Terminate ends a Mapping and refunds all remaining sessions.
	//
	// BOOKED or CONFIRMED Schedules of the pair are cancelled in the same transaction,
	// whatever their dates are.
	//
	// Returns
	//
	// - Refund: refunded sessions and amount, pro rata of the package price.
	//
	// - error: ErrMissing or ErrInvalidState (already TERMINATED)
	Terminate(ctx context.Context, id domain.MappingId, reason string, now time.Time) (domain.Refund, error)
}

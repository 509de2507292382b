package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
)

type MappingId int64

func (id MappingId) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func ParseMappingId(s string) (MappingId, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: mapping id %q", domerr.ErrInvalidValue, s)
	}
	return MappingId(v), nil
}

type MappingStatus string

const (
	// Mapping is created, and the Client has not paid yet.
	PendingPayment MappingStatus = "PENDING_PAYMENT"

	// An admin has confirmed the payment. Waiting for approval.
	PaymentConfirmed MappingStatus = "PAYMENT_CONFIRMED"

	// Sessions can be booked.
	Active MappingStatus = "ACTIVE"

	// All sessions have been used. It can be Extended to be Active again.
	SessionsExhausted MappingStatus = "SESSIONS_EXHAUSTED"

	// Rejected or terminated. This is final.
	Terminated MappingStatus = "TERMINATED"
)

func (m MappingStatus) String() string {
	return string(m)
}

func MappingStatuses() []MappingStatus {
	return []MappingStatus{
		PendingPayment, PaymentConfirmed, Active, SessionsExhausted, Terminated,
	}
}

func AsMappingStatus(s string) (MappingStatus, error) {
	st := MappingStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range MappingStatuses() {
		if st == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: unknown mapping status %q", domerr.ErrInvalidValue, s)
}

type PaymentMethod string

const (
	Card         PaymentMethod = "CARD"
	BankTransfer PaymentMethod = "BANK_TRANSFER"
	Cash         PaymentMethod = "CASH"
)

func (p PaymentMethod) String() string {
	return string(p)
}

func AsPaymentMethod(s string) (PaymentMethod, error) {
	pm := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	switch pm {
	case Card, BankTransfer, Cash:
		return pm, nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", domerr.ErrInvalidValue, s)
}

// RefundWindow is how long partial refund is accepted after payment confirmation.
const RefundWindow = 15 * 24 * time.Hour

type Payment struct {
	Method    PaymentMethod
	Reference string
	Amount    int64
}

type PaymentRecord struct {
	Payment
	ConfirmedAt time.Time
}

type Mapping struct {
	Id MappingId

	ConsultantId   UserId
	ConsultantName string
	ClientId       UserId
	ClientName     string

	Status MappingStatus

	PackageName  string
	PackagePrice int64

	TotalSessions int
	UsedSessions  int

	// nil until payment is confirmed.
	Payment *PaymentRecord

	ApprovedBy   string
	ApprovedAt   *time.Time
	TerminatedAt *time.Time

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *Mapping) RemainingSessions() int {
	return m.TotalSessions - m.UsedSessions
}

// Bookable tells whether new schedules can be booked on this mapping,
// given the number of already open (booked or confirmed) schedules.
func (m *Mapping) Bookable(openSchedules int) error {
	if m.Status != Active {
		return fmt.Errorf(
			"%w: mapping %s is %s", domerr.ErrInvalidState, m.Id, m.Status,
		)
	}
	if m.RemainingSessions() <= openSchedules {
		return fmt.Errorf(
			"%w: mapping %s has %d sessions left and %d are booked already",
			domerr.ErrNoSession, m.Id, m.RemainingSessions(), openSchedules,
		)
	}
	return nil
}

// Refundable returns how many sessions can be refunded,
// given the number of already open (booked or confirmed) schedules.
//
// Sessions reserved by open schedules are not refundable.
func (m *Mapping) Refundable(openSchedules int) int {
	return max(m.RemainingSessions()-openSchedules, 0)
}

// ProRata returns the price of n sessions in the package.
//
// Fractions are truncated.
func (m *Mapping) ProRata(n int) int64 {
	if m.TotalSessions <= 0 {
		return 0
	}
	return m.PackagePrice * int64(n) / int64(m.TotalSessions)
}

// InRefundWindow tells whether partial refund is accepted at now.
func (m *Mapping) InRefundWindow(now time.Time) bool {
	if m.Payment == nil {
		return false
	}
	return !now.After(m.Payment.ConfirmedAt.Add(RefundWindow))
}

func (m *Mapping) Equal(o *Mapping) bool {
	if m == nil || o == nil {
		return m == nil && o == nil
	}
	eqTime := func(a, b *time.Time) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		return a.Equal(*b)
	}
	eqPayment := func(a, b *PaymentRecord) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		return a.Payment == b.Payment && a.ConfirmedAt.Equal(b.ConfirmedAt)
	}

	return m.Id == o.Id &&
		m.ConsultantId == o.ConsultantId &&
		m.ConsultantName == o.ConsultantName &&
		m.ClientId == o.ClientId &&
		m.ClientName == o.ClientName &&
		m.Status == o.Status &&
		m.PackageName == o.PackageName &&
		m.PackagePrice == o.PackagePrice &&
		m.TotalSessions == o.TotalSessions &&
		m.UsedSessions == o.UsedSessions &&
		eqPayment(m.Payment, o.Payment) &&
		m.ApprovedBy == o.ApprovedBy &&
		eqTime(m.ApprovedAt, o.ApprovedAt) &&
		eqTime(m.TerminatedAt, o.TerminatedAt) &&
		m.Notes == o.Notes &&
		m.CreatedAt.Equal(o.CreatedAt) &&
		m.UpdatedAt.Equal(o.UpdatedAt)
}

type MappingSpec struct {
	ConsultantId  UserId
	ClientId      UserId
	PackageName   string
	PackagePrice  int64
	TotalSessions int
	Notes         string
}

func (s MappingSpec) Validate() error {
	if s.ConsultantId == s.ClientId {
		return fmt.Errorf("%w: consultant and client are the same user", domerr.ErrInvalidValue)
	}
	if s.TotalSessions <= 0 {
		return fmt.Errorf("%w: total sessions should be positive", domerr.ErrInvalidValue)
	}
	if s.PackagePrice < 0 {
		return fmt.Errorf("%w: package price should not be negative", domerr.ErrInvalidValue)
	}
	return nil
}

type MappingFindQuery struct {
	ConsultantId *UserId
	ClientId     *UserId
	Status       []MappingStatus
}

func (q MappingFindQuery) ScopedTo(c Caller) MappingFindQuery {
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

// Extension adds sessions to a mapping.
type Extension struct {
	Sessions    int
	PackageName string
	Price       int64
}

// Refund is the result of refunding sessions.
type Refund struct {
	MappingId MappingId
	Sessions  int
	Amount    int64
}

// AppendNote appends a line to notes.
func AppendNote(notes string, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}

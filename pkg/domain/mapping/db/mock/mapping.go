package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/mindgarden/consultation/pkg/domain"
	dbmock "github.com/mindgarden/consultation/pkg/domain/internal/db/mock"
	"github.com/mindgarden/consultation/pkg/domain/mapping/db"
)

type MappingInterface struct {
	Impl struct {
		Get            func(context.Context, []domain.MappingId) (map[domain.MappingId]*domain.Mapping, error)
		Find           func(context.Context, domain.MappingFindQuery) ([]domain.Mapping, error)
		Create         func(context.Context, domain.MappingSpec) (domain.MappingId, error)
		ConfirmPayment func(context.Context, domain.MappingId, domain.Payment, time.Time) (bool, error)
		Approve        func(context.Context, domain.MappingId, string, time.Time) error
		Reject         func(context.Context, domain.MappingId, string, time.Time) error
		UseSession     func(context.Context, domain.MappingId) error
		Extend         func(context.Context, domain.MappingId, domain.Extension) error
		PartialRefund  func(context.Context, domain.MappingId, int, string, time.Time) (domain.Refund, error)
		Terminate      func(context.Context, domain.MappingId, string, time.Time) (domain.Refund, error)
	}
	Calls struct {
		Get            dbmock.CallLog[[]domain.MappingId]
		Find           dbmock.CallLog[domain.MappingFindQuery]
		Create         dbmock.CallLog[domain.MappingSpec]
		ConfirmPayment dbmock.CallLog[struct {
			Id      domain.MappingId
			Payment domain.Payment
			Now     time.Time
		}]
		Approve dbmock.CallLog[struct {
			Id    domain.MappingId
			Admin string
			Now   time.Time
		}]
		Reject dbmock.CallLog[struct {
			Id     domain.MappingId
			Reason string
			Now    time.Time
		}]
		UseSession dbmock.CallLog[domain.MappingId]
		Extend     dbmock.CallLog[struct {
			Id        domain.MappingId
			Extension domain.Extension
		}]
		PartialRefund dbmock.CallLog[struct {
			Id       domain.MappingId
			Sessions int
			Reason   string
			Now      time.Time
		}]
		Terminate dbmock.CallLog[struct {
			Id     domain.MappingId
			Reason string
			Now    time.Time
		}]
	}
}

func NewMappingInterface() *MappingInterface {
	return &MappingInterface{}
}

var _ db.MappingInterface = &MappingInterface{}

func (m *MappingInterface) Get(ctx context.Context, ids []domain.MappingId) (map[domain.MappingId]*domain.Mapping, error) {
	m.Calls.Get = append(m.Calls.Get, ids)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, ids)
	}
	panic(errors.New("it should not be called"))
}

func (m *MappingInterface) Find(ctx context.Context, query domain.MappingFindQuery) ([]domain.Mapping, error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *MappingInterface) Create(ctx context.Context, spec domain.MappingSpec) (domain.MappingId, error) {
	m.Calls.Create = append(m.Calls.Create, spec)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *MappingInterface) ConfirmPayment(ctx context.Context, id domain.MappingId, payment domain.Payment, now time.Time) (bool, error) {
	m.Calls.ConfirmPayment = append(m.Calls.ConfirmPayment, struct {
		Id      domain.MappingId
		Payment domain.Payment
		Now     time.Time
	}{Id: id, Payment: payment, Now: now})
	if m.Impl.ConfirmPayment != nil {
		return m.Impl.ConfirmPayment(ctx, id, payment, now)
	}
	panic(errors.New("it should not be called"))
}

func (m *MappingInterface) Approve(ctx context.Context, id domain.MappingId, admin string, now time.Time) error {
	m.Calls.Approve = append(m.Calls.Approve, struct {
		Id    domain.MappingId
		Admin string
		Now   time.Time
	}{Id: id, Admin: admin, Now: now})
	if m.Impl.Approve != nil {
		return m.Impl.Approve(ctx, id, admin, now)
	}
	panic(errors.New("it should not be called"))
}

func (m *MappingInterface) Reject(ctx context.Context, id domain.MappingId, reason string, now time.Time) error {
	m.Calls.Reject = append(m.Calls.Reject, struct {
		Id     domain.MappingId
		Reason string
		Now    time.Time
	}{Id: id, Reason: reason, Now: now})
	if m.Impl.Reject != nil {
		return m.Impl.Reject(ctx, id, reason, now)
	}
	panic(errors.New("it should not be called"))
}

func (m *MappingInterface) UseSession(ctx context.Context, id domain.MappingId) error {
	m.Calls.UseSession = append(m.Calls.UseSession, id)
	if m.Impl.UseSession != nil {
		return m.Impl.UseSession(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *MappingInterface) Extend(ctx context.Context, id domain.MappingId, ext domain.Extension) error {
	m.Calls.Extend = append(m.Calls.Extend, struct {
		Id        domain.MappingId
		Extension domain.Extension
	}{Id: id, Extension: ext})
	if m.Impl.Extend != nil {
		return m.Impl.Extend(ctx, id, ext)
	}
	panic(errors.New("it should not be called"))
}

func (m *MappingInterface) PartialRefund(ctx context.Context, id domain.MappingId, sessions int, reason string, now time.Time) (domain.Refund, error) {
	m.Calls.PartialRefund = append(m.Calls.PartialRefund, struct {
		Id       domain.MappingId
		Sessions int
		Reason   string
		Now      time.Time
	}{Id: id, Sessions: sessions, Reason: reason, Now: now})
	if m.Impl.PartialRefund != nil {
		return m.Impl.PartialRefund(ctx, id, sessions, reason, now)
	}
	panic(errors.New("it should not be called"))
}

func (m *MappingInterface) Terminate(ctx context.Context, id domain.MappingId, reason string, now time.Time) (domain.Refund, error) {
	m.Calls.Terminate = append(m.Calls.Terminate, struct {
		Id     domain.MappingId
		Reason string
		Now    time.Time
	}{Id: id, Reason: reason, Now: now})
	if m.Impl.Terminate != nil {
		return m.Impl.Terminate(ctx, id, reason, now)
	}
	panic(errors.New("it should not be called"))
}

package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/mindgarden/consultation/pkg/domain"
	dbmock "github.com/mindgarden/consultation/pkg/domain/internal/db/mock"
	"github.com/mindgarden/consultation/pkg/domain/schedule/db"
)

type ScheduleInterface struct {
	Impl struct {
		Get          func(context.Context, []domain.ScheduleId) (map[domain.ScheduleId]*domain.Schedule, error)
		Find         func(context.Context, domain.ScheduleFindQuery) ([]domain.Schedule, error)
		Book         func(context.Context, domain.BookingSpec) (domain.ScheduleId, error)
		CreateSlot   func(context.Context, domain.SlotSpec) (domain.ScheduleId, error)
		Confirm      func(context.Context, domain.ScheduleId, string) error
		Complete     func(context.Context, domain.ScheduleId) error
		Cancel       func(context.Context, domain.ScheduleId, string) error
		Update       func(context.Context, domain.ScheduleId, domain.ScheduleChange) error
		AutoComplete func(context.Context, time.Time) ([]domain.ScheduleId, error)
	}
	Calls struct {
		Get        dbmock.CallLog[[]domain.ScheduleId]
		Find       dbmock.CallLog[domain.ScheduleFindQuery]
		Book       dbmock.CallLog[domain.BookingSpec]
		CreateSlot dbmock.CallLog[domain.SlotSpec]
		Confirm    dbmock.CallLog[struct {
			Id   domain.ScheduleId
			Note string
		}]
		Complete dbmock.CallLog[domain.ScheduleId]
		Cancel   dbmock.CallLog[struct {
			Id     domain.ScheduleId
			Reason string
		}]
		Update dbmock.CallLog[struct {
			Id     domain.ScheduleId
			Change domain.ScheduleChange
		}]
		AutoComplete dbmock.CallLog[time.Time]
	}
}

func NewScheduleInterface() *ScheduleInterface {
	return &ScheduleInterface{}
}

var _ db.ScheduleInterface = &ScheduleInterface{}

func (m *ScheduleInterface) Get(ctx context.Context, ids []domain.ScheduleId) (map[domain.ScheduleId]*domain.Schedule, error) {
	m.Calls.Get = append(m.Calls.Get, ids)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, ids)
	}
	panic(errors.New("it should not be called"))
}

func (m *ScheduleInterface) Find(ctx context.Context, query domain.ScheduleFindQuery) ([]domain.Schedule, error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *ScheduleInterface) Book(ctx context.Context, spec domain.BookingSpec) (domain.ScheduleId, error) {
	m.Calls.Book = append(m.Calls.Book, spec)
	if m.Impl.Book != nil {
		return m.Impl.Book(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *ScheduleInterface) CreateSlot(ctx context.Context, spec domain.SlotSpec) (domain.ScheduleId, error) {
	m.Calls.CreateSlot = append(m.Calls.CreateSlot, spec)
	if m.Impl.CreateSlot != nil {
		return m.Impl.CreateSlot(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *ScheduleInterface) Confirm(ctx context.Context, id domain.ScheduleId, note string) error {
	m.Calls.Confirm = append(m.Calls.Confirm, struct {
		Id   domain.ScheduleId
		Note string
	}{Id: id, Note: note})
	if m.Impl.Confirm != nil {
		return m.Impl.Confirm(ctx, id, note)
	}
	panic(errors.New("it should not be called"))
}

func (m *ScheduleInterface) Complete(ctx context.Context, id domain.ScheduleId) error {
	m.Calls.Complete = append(m.Calls.Complete, id)
	if m.Impl.Complete != nil {
		return m.Impl.Complete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *ScheduleInterface) Cancel(ctx context.Context, id domain.ScheduleId, reason string) error {
	m.Calls.Cancel = append(m.Calls.Cancel, struct {
		Id     domain.ScheduleId
		Reason string
	}{Id: id, Reason: reason})
	if m.Impl.Cancel != nil {
		return m.Impl.Cancel(ctx, id, reason)
	}
	panic(errors.New("it should not be called"))
}

func (m *ScheduleInterface) Update(ctx context.Context, id domain.ScheduleId, change domain.ScheduleChange) error {
	m.Calls.Update = append(m.Calls.Update, struct {
		Id     domain.ScheduleId
		Change domain.ScheduleChange
	}{Id: id, Change: change})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, id, change)
	}
	panic(errors.New("it should not be called"))
}

func (m *ScheduleInterface) AutoComplete(ctx context.Context, now time.Time) ([]domain.ScheduleId, error) {
	m.Calls.AutoComplete = append(m.Calls.AutoComplete, now)
	if m.Impl.AutoComplete != nil {
		return m.Impl.AutoComplete(ctx, now)
	}
	panic(errors.New("it should not be called"))
}

package mocks

import (
	"context"
	"errors"

	"github.com/mindgarden/consultation/pkg/domain"
	dbmock "github.com/mindgarden/consultation/pkg/domain/internal/db/mock"
	"github.com/mindgarden/consultation/pkg/domain/user/db"
)

type UserInterface struct {
	Impl struct {
		Register func(context.Context, domain.UserSpec) (domain.UserId, error)
		Get      func(context.Context, []domain.UserId) (map[domain.UserId]*domain.User, error)
		Find     func(context.Context, *domain.Role) ([]domain.User, error)
	}
	Calls struct {
		Register dbmock.CallLog[domain.UserSpec]
		Get      dbmock.CallLog[[]domain.UserId]
		Find     dbmock.CallLog[*domain.Role]
	}
}

func NewUserInterface() *UserInterface {
	return &UserInterface{}
}

var _ db.UserInterface = &UserInterface{}

func (m *UserInterface) Register(ctx context.Context, spec domain.UserSpec) (domain.UserId, error) {
	m.Calls.Register = append(m.Calls.Register, spec)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Get(ctx context.Context, ids []domain.UserId) (map[domain.UserId]*domain.User, error) {
	m.Calls.Get = append(m.Calls.Get, ids)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, ids)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Find(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	m.Calls.Find = append(m.Calls.Find, role)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, role)
	}
	panic(errors.New("it should not be called"))
}

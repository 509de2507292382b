package db

import (
	"context"

	"github.com/mindgarden/consultation/pkg/domain"
)

type UserInterface interface {
	// Register a new User.
	//
	// Returns
	//
	// - UserId: id of the new User.
	//
	// - error: ErrConflict when the email is taken (case-insensitively).
	Register(context.Context, domain.UserSpec) (domain.UserId, error)

	// Get retrieves Users by id. Missing ids are not in keys.
	Get(context.Context, []domain.UserId) (map[domain.UserId]*domain.User, error)

	// Find Users. When role is not nil, only Users in the role are returned.
	//
	// Users are ordered by name.
	Find(ctx context.Context, role *domain.Role) ([]domain.User, error)
}

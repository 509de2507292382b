package users

import (
	"fmt"
	"strings"

	"github.com/mindgarden/consultation/pkg/domain"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
)

type User struct {
	UserId int64  `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Email  string `json:"email"`
}

func Compose(u domain.User) User {
	return User{
		UserId: int64(u.Id),
		Name:   u.Name,
		Role:   string(u.Role),
		Email:  u.Email,
	}
}

func ComposeList(us []domain.User) []User {
	ret := make([]User, 0, len(us))
	for _, u := range us {
		ret = append(ret, Compose(u))
	}
	return ret
}

// RegisterRequest is the body of "POST /api/users".
type RegisterRequest struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

func (r RegisterRequest) ToSpec() (domain.UserSpec, error) {
	role, err := domain.AsRole(r.Role)
	if err != nil {
		return domain.UserSpec{}, err
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return domain.UserSpec{}, fmt.Errorf("%w: name is required", domerr.ErrInvalidValue)
	}
	email := strings.TrimSpace(r.Email)
	if !strings.Contains(email, "@") {
		return domain.UserSpec{}, fmt.Errorf("%w: email %q", domerr.ErrInvalidValue, r.Email)
	}
	return domain.UserSpec{Name: name, Role: role, Email: email}, nil
}

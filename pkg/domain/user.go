package domain

import (
	"fmt"
	"strconv"
	"strings"

	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
)

type UserId int64

func (id UserId) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseUserId parses decimal user id.
func ParseUserId(s string) (UserId, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: user id %q", domerr.ErrInvalidValue, s)
	}
	return UserId(v), nil
}

type Role string

const (
	Admin            Role = "ADMIN"
	BranchSuperAdmin Role = "BRANCH_SUPER_ADMIN"
	BranchManager    Role = "BRANCH_MANAGER"
	HQAdmin          Role = "HQ_ADMIN"
	SuperHQAdmin     Role = "SUPER_HQ_ADMIN"

	Consultant Role = "CONSULTANT"
	Client     Role = "CLIENT"
)

func (r Role) String() string {
	return string(r)
}

// IsAdmin tells whether the role is one of the admin family.
//
// Every admin sees schedules and mappings of all consultants.
func (r Role) IsAdmin() bool {
	switch r {
	case Admin, BranchSuperAdmin, BranchManager, HQAdmin, SuperHQAdmin:
		return true
	}
	return false
}

func Roles() []Role {
	return []Role{
		Admin, BranchSuperAdmin, BranchManager, HQAdmin, SuperHQAdmin,
		Consultant, Client,
	}
}

// AsRole parses role name, case-insensitively.
func AsRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Roles() {
		if r == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: unknown role %q", domerr.ErrInvalidValue, s)
}

type User struct {
	Id    UserId
	Name  string
	Role  Role
	Email string
}

func (u *User) Equal(o *User) bool {
	if u == nil || o == nil {
		return u == nil && o == nil
	}
	return *u == *o
}

type UserSpec struct {
	Name  string
	Role  Role
	Email string
}

// Caller is the authenticated identity who sends a request.
type Caller struct {
	UserId UserId
	Role   Role
}

// CanSeeSchedule tells whether the caller may read the schedule.
//
// Admins read everything. Consultants and Clients read schedules they take part in.
func (c Caller) CanSeeSchedule(s *Schedule) bool {
	switch {
	case c.Role.IsAdmin():
		return true
	case c.Role == Consultant:
		return s.ConsultantId == c.UserId
	case c.Role == Client:
		return s.ClientId != nil && *s.ClientId == c.UserId
	}
	return false
}

// CanManageSchedule tells whether the caller may change the schedule.
//
// Clients never change schedules by themselves.
func (c Caller) CanManageSchedule(s *Schedule) bool {
	switch {
	case c.Role.IsAdmin():
		return true
	case c.Role == Consultant:
		return s.ConsultantId == c.UserId
	}
	return false
}

// CanSeeMapping tells whether the caller may read the mapping.
func (c Caller) CanSeeMapping(m *Mapping) bool {
	switch {
	case c.Role.IsAdmin():
		return true
	case c.Role == Consultant:
		return m.ConsultantId == c.UserId
	case c.Role == Client:
		return m.ClientId == c.UserId
	}
	return false
}

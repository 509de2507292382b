package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/mindgarden/consultation/pkg/api/types/errors"
	apiusers "github.com/mindgarden/consultation/pkg/api/types/users"
	"github.com/mindgarden/consultation/pkg/domain"
	"github.com/mindgarden/consultation/pkg/domain/user/db"
)

// FindUsersHandler lists users, optionally in a role.
//
// Clients can not list users.
func FindUsersHandler(dbuser db.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}
		if !caller.Role.IsAdmin() && caller.Role != domain.Consultant {
			return apierr.Forbidden("clients can not list users", nil)
		}

		role, err := queryParam(c, "role", domain.AsRole)
		if err != nil {
			return err
		}

		found, err := dbuser.Find(c.Request().Context(), role)
		if err != nil {
			return apierr.FromDomainError(err)
		}
		return c.JSON(http.StatusOK, apiusers.ComposeList(found))
	}
}

func RegisterUserHandler(dbuser db.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}
		if err := adminOnly(caller); err != nil {
			return err
		}
		body, err := readJSON[apiusers.RegisterRequest](c, false)
		if err != nil {
			return err
		}
		spec, err := body.ToSpec()
		if err != nil {
			return apierr.FromDomainError(err)
		}

		ctx := c.Request().Context()
		id, err := dbuser.Register(ctx, spec)
		if err != nil {
			return apierr.FromDomainError(err)
		}
		found, err := dbuser.Get(ctx, []domain.UserId{id})
		if err != nil {
			return apierr.FromDomainError(err)
		}
		u, ok := found[id]
		if !ok {
			return apierr.NotFound()
		}
		return c.JSON(http.StatusCreated, apiusers.Compose(*u))
	}
}

// WhoAmIHandler responds the caller itself.
func WhoAmIHandler(dbuser db.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}
		found, err := dbuser.Get(c.Request().Context(), []domain.UserId{caller.UserId})
		if err != nil {
			return apierr.FromDomainError(err)
		}
		u, ok := found[caller.UserId]
		if !ok {
			return apierr.NotFound(apierr.WithAdvice("the token is for an unknown user."))
		}
		return c.JSON(http.StatusOK, apiusers.Compose(*u))
	}
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/mindgarden/consultation/pkg/api/types/errors"
	apimappings "github.com/mindgarden/consultation/pkg/api/types/mappings"
	"github.com/mindgarden/consultation/pkg/domain"
	"github.com/mindgarden/consultation/pkg/domain/mapping/db"
	userdb "github.com/mindgarden/consultation/pkg/domain/user/db"
)

func FindMappingsHandler(dbmapping db.MappingInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}

		q := domain.MappingFindQuery{}
		if q.ConsultantId, err = queryParam(c, "consultant", domain.ParseUserId); err != nil {
			return err
		}
		if q.ClientId, err = queryParam(c, "client", domain.ParseUserId); err != nil {
			return err
		}
		if q.Status, err = queryList(c, "status", domain.AsMappingStatus); err != nil {
			return err
		}

		found, err := dbmapping.Find(c.Request().Context(), q.ScopedTo(caller))
		if err != nil {
			return apierr.FromDomainError(err)
		}
		return c.JSON(http.StatusOK, apimappings.ComposeList(found))
	}
}

func getMapping(ctx context.Context, dbmapping db.MappingInterface, id domain.MappingId) (*domain.Mapping, error) {
	found, err := dbmapping.Get(ctx, []domain.MappingId{id})
	if err != nil {
		return nil, apierr.FromDomainError(err)
	}
	m, ok := found[id]
	if !ok {
		return nil, apierr.NotFound()
	}
	return m, nil
}

func GetMappingHandler(dbmapping db.MappingInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}
		id, err := pathParam(c, param, domain.ParseMappingId)
		if err != nil {
			return err
		}

		m, err := getMapping(c.Request().Context(), dbmapping, id)
		if err != nil {
			return err
		}
		if !caller.CanSeeMapping(m) {
			return apierr.NotFound()
		}
		return c.JSON(http.StatusOK, apimappings.Compose(*m))
	}
}

func CreateMappingHandler(dbmapping db.MappingInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}
		if err := adminOnly(caller); err != nil {
			return err
		}
		body, err := readJSON[apimappings.CreateRequest](c, false)
		if err != nil {
			return err
		}
		spec, err := body.ToSpec()
		if err != nil {
			return apierr.FromDomainError(err)
		}

		ctx := c.Request().Context()
		id, err := dbmapping.Create(ctx, spec)
		if err != nil {
			return apierr.FromDomainError(err)
		}
		m, err := getMapping(ctx, dbmapping, id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, apimappings.Compose(*m))
	}
}

// adminMapping is the common flow of admin operations on a mapping:
// check permission, read body, operate, and then respond.
//
// respond receives the mapping read after the operation and what operate returned.
func adminMapping[B any, R any](
	dbmapping db.MappingInterface,
	param string,
	optionalBody bool,
	operate func(c echo.Context, caller domain.Caller, id domain.MappingId, body B) (R, error),
	respond func(m domain.Mapping, result R) any,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}
		if err := adminOnly(caller); err != nil {
			return err
		}
		id, err := pathParam(c, param, domain.ParseMappingId)
		if err != nil {
			return err
		}
		body, err := readJSON[B](c, optionalBody)
		if err != nil {
			return err
		}

		result, err := operate(c, caller, id, body)
		if err != nil {
			return apierr.FromDomainError(err)
		}

		m, err := getMapping(c.Request().Context(), dbmapping, id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, respond(*m, result))
	}
}

func composeMapping[R any](m domain.Mapping, _ R) any {
	return apimappings.Compose(m)
}

func composeRefund(_ domain.Mapping, r domain.Refund) any {
	return apimappings.ComposeRefund(r)
}

func ConfirmPaymentHandler(dbmapping db.MappingInterface, param string, now func() time.Time) echo.HandlerFunc {
	return adminMapping(
		dbmapping, param, false,
		func(c echo.Context, _ domain.Caller, id domain.MappingId, body apimappings.PaymentRequest) (bool, error) {
			payment, err := body.ToPayment()
			if err != nil {
				return false, err
			}
			mismatch, err := dbmapping.ConfirmPayment(c.Request().Context(), id, payment, now())
			if err != nil {
				return false, err
			}
			if mismatch {
				c.Logger().Warnf(
					"mapping %s: paid amount %d differs from the package price", id, payment.Amount,
				)
			}
			return mismatch, nil
		},
		func(m domain.Mapping, mismatch bool) any {
			return apimappings.PaymentResult{Mapping: apimappings.Compose(m), AmountMismatch: mismatch}
		},
	)
}

// ApproveMappingHandler activates a mapping. The approver is recorded by the caller's name.
func ApproveMappingHandler(dbmapping db.MappingInterface, dbuser userdb.UserInterface, param string, now func() time.Time) echo.HandlerFunc {
	return adminMapping(
		dbmapping, param, true,
		func(c echo.Context, caller domain.Caller, id domain.MappingId, _ struct{}) (struct{}, error) {
			ctx := c.Request().Context()
			users, err := dbuser.Get(ctx, []domain.UserId{caller.UserId})
			if err != nil {
				return struct{}{}, err
			}
			approver := "admin#" + caller.UserId.String()
			if u, ok := users[caller.UserId]; ok {
				approver = u.Name
			}
			return struct{}{}, dbmapping.Approve(ctx, id, approver, now())
		},
		composeMapping[struct{}],
	)
}

func RejectMappingHandler(dbmapping db.MappingInterface, param string, now func() time.Time) echo.HandlerFunc {
	return adminMapping(
		dbmapping, param, true,
		func(c echo.Context, _ domain.Caller, id domain.MappingId, body apimappings.ReasonRequest) (struct{}, error) {
			return struct{}{}, dbmapping.Reject(c.Request().Context(), id, body.Reason, now())
		},
		composeMapping[struct{}],
	)
}

func UseSessionHandler(dbmapping db.MappingInterface, param string) echo.HandlerFunc {
	return adminMapping(
		dbmapping, param, true,
		func(c echo.Context, _ domain.Caller, id domain.MappingId, _ struct{}) (struct{}, error) {
			return struct{}{}, dbmapping.UseSession(c.Request().Context(), id)
		},
		composeMapping[struct{}],
	)
}

func ExtendMappingHandler(dbmapping db.MappingInterface, param string) echo.HandlerFunc {
	return adminMapping(
		dbmapping, param, false,
		func(c echo.Context, _ domain.Caller, id domain.MappingId, body apimappings.ExtendRequest) (struct{}, error) {
			ext, err := body.ToExtension()
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, dbmapping.Extend(c.Request().Context(), id, ext)
		},
		composeMapping[struct{}],
	)
}

func RefundMappingHandler(dbmapping db.MappingInterface, param string, now func() time.Time) echo.HandlerFunc {
	return adminMapping(
		dbmapping, param, false,
		func(c echo.Context, _ domain.Caller, id domain.MappingId, body apimappings.RefundRequest) (domain.Refund, error) {
			return dbmapping.PartialRefund(c.Request().Context(), id, body.Sessions, body.Reason, now())
		},
		composeRefund,
	)
}

func TerminateMappingHandler(dbmapping db.MappingInterface, param string, now func() time.Time) echo.HandlerFunc {
	return adminMapping(
		dbmapping, param, true,
		func(c echo.Context, _ domain.Caller, id domain.MappingId, body apimappings.ReasonRequest) (domain.Refund, error) {
			return dbmapping.Terminate(c.Request().Context(), id, body.Reason, now())
		},
		composeRefund,
	)
}

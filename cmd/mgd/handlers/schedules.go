package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/mindgarden/consultation/pkg/api/types/errors"
	apischedules "github.com/mindgarden/consultation/pkg/api/types/schedules"
	"github.com/mindgarden/consultation/pkg/domain"
	"github.com/mindgarden/consultation/pkg/domain/schedule/db"
	"github.com/mindgarden/consultation/pkg/domain/schedule/listing"
)

// scheduleQuery reads query parameters for schedule listing, scoped to the caller.
//
// Only admins can choose a consultant. Others are narrowed to themselves.
func scheduleQuery(c echo.Context, caller domain.Caller) (domain.ScheduleFindQuery, error) {
	q := domain.ScheduleFindQuery{}

	consultant, err := queryParam(c, "consultant", domain.ParseUserId)
	if err != nil {
		return q, err
	}
	q.ConsultantId = consultant

	if q.Since, err = queryParam(c, "since", domain.ParseDate); err != nil {
		return q, err
	}
	if q.Until, err = queryParam(c, "until", domain.ParseDate); err != nil {
		return q, err
	}
	if q.Status, err = queryList(c, "status", domain.AsScheduleStatus); err != nil {
		return q, err
	}

	return q.ScopedTo(caller), nil
}

func FindSchedulesHandler(dbschedule db.ScheduleInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}
		q, err := scheduleQuery(c, caller)
		if err != nil {
			return err
		}

		found, err := dbschedule.Find(c.Request().Context(), q)
		if err != nil {
			return apierr.FromDomainError(err)
		}
		return c.JSON(http.StatusOK, apischedules.ComposeList(found))
	}
}

// PagedSchedulesHandler lists schedules, and then filters, sorts and paginates them.
//
// Categories based on date ("TODAY", "THIS_WEEK", ...) are evaluated in loc.
func PagedSchedulesHandler(dbschedule db.ScheduleInterface, now func() time.Time, loc *time.Location) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}
		q, err := scheduleQuery(c, caller)
		if err != nil {
			return err
		}

		lq := listing.Query{Search: c.QueryParam("q")}
		if lq.Category, err = listing.AsCategory(c.QueryParam("filter")); err != nil {
			return apierr.BadRequest("query parameter filter is unknown", err)
		}
		if lq.Sort, err = listing.AsSortOption(c.QueryParam("sort")); err != nil {
			return apierr.BadRequest("query parameter sort is unknown", err)
		}
		if lq.Page, err = queryInt(c, "page"); err != nil {
			return err
		}
		if lq.PageSize, err = queryInt(c, "size"); err != nil {
			return err
		}

		found, err := dbschedule.Find(c.Request().Context(), q)
		if err != nil {
			return apierr.FromDomainError(err)
		}

		page := listing.Run(now().In(loc), found, lq)
		return c.JSON(http.StatusOK, apischedules.ComposePage(page))
	}
}

func getSchedule(ctx context.Context, dbschedule db.ScheduleInterface, id domain.ScheduleId) (*domain.Schedule, error) {
	found, err := dbschedule.Get(ctx, []domain.ScheduleId{id})
	if err != nil {
		return nil, apierr.FromDomainError(err)
	}
	s, ok := found[id]
	if !ok {
		return nil, apierr.NotFound()
	}
	return s, nil
}

func GetScheduleHandler(dbschedule db.ScheduleInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}
		id, err := pathParam(c, param, domain.ParseScheduleId)
		if err != nil {
			return err
		}

		s, err := getSchedule(c.Request().Context(), dbschedule, id)
		if err != nil {
			return err
		}
		if !caller.CanSeeSchedule(s) {
			return apierr.NotFound()
		}
		return c.JSON(http.StatusOK, apischedules.Compose(*s))
	}
}

// canBookFor tells whether the caller may put schedules on the consultant's calendar.
func canBookFor(caller domain.Caller, consultant domain.UserId) bool {
	if caller.Role.IsAdmin() {
		return true
	}
	return caller.Role == domain.Consultant && caller.UserId == consultant
}

func BookScheduleHandler(dbschedule db.ScheduleInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}
		body, err := readJSON[apischedules.BookingRequest](c, false)
		if err != nil {
			return err
		}
		spec, err := body.ToSpec()
		if err != nil {
			return apierr.FromDomainError(err)
		}
		if !canBookFor(caller, spec.ConsultantId) {
			return apierr.Forbidden("consultants can book only on their own calendar", nil)
		}

		ctx := c.Request().Context()
		id, err := dbschedule.Book(ctx, spec)
		if err != nil {
			return apierr.FromDomainError(err)
		}
		s, err := getSchedule(ctx, dbschedule, id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, apischedules.Compose(*s))
	}
}

func CreateSlotHandler(dbschedule db.ScheduleInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}
		body, err := readJSON[apischedules.SlotRequest](c, false)
		if err != nil {
			return err
		}
		spec, err := body.ToSpec()
		if err != nil {
			return apierr.FromDomainError(err)
		}
		if !canBookFor(caller, spec.ConsultantId) {
			return apierr.Forbidden("consultants can open slots only on their own calendar", nil)
		}

		ctx := c.Request().Context()
		id, err := dbschedule.CreateSlot(ctx, spec)
		if err != nil {
			return apierr.FromDomainError(err)
		}
		s, err := getSchedule(ctx, dbschedule, id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, apischedules.Compose(*s))
	}
}

// manageSchedule is the common flow of changing a schedule:
// read body, check permission, change, and then respond the changed schedule.
func manageSchedule[T any](
	dbschedule db.ScheduleInterface,
	param string,
	adminRequired bool,
	optionalBody bool,
	change func(ctx context.Context, id domain.ScheduleId, body T) error,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}
		if adminRequired {
			if err := adminOnly(caller); err != nil {
				return err
			}
		}
		id, err := pathParam(c, param, domain.ParseScheduleId)
		if err != nil {
			return err
		}
		body, err := readJSON[T](c, optionalBody)
		if err != nil {
			return err
		}

		ctx := c.Request().Context()
		s, err := getSchedule(ctx, dbschedule, id)
		if err != nil {
			return err
		}
		if !caller.CanManageSchedule(s) {
			if caller.CanSeeSchedule(s) {
				return apierr.Forbidden("you can not change this schedule", nil)
			}
			return apierr.NotFound()
		}

		if err := change(ctx, id, body); err != nil {
			return apierr.FromDomainError(err)
		}

		s, err = getSchedule(ctx, dbschedule, id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, apischedules.Compose(*s))
	}
}

func UpdateScheduleHandler(dbschedule db.ScheduleInterface, param string) echo.HandlerFunc {
	return manageSchedule(
		dbschedule, param, false, false,
		func(ctx context.Context, id domain.ScheduleId, body apischedules.UpdateRequest) error {
			return dbschedule.Update(ctx, id, body.ToChange())
		},
	)
}

func ConfirmScheduleHandler(dbschedule db.ScheduleInterface, param string) echo.HandlerFunc {
	return manageSchedule(
		dbschedule, param, true, true,
		func(ctx context.Context, id domain.ScheduleId, body apischedules.ConfirmRequest) error {
			return dbschedule.Confirm(ctx, id, body.Note)
		},
	)
}

func CompleteScheduleHandler(dbschedule db.ScheduleInterface, param string) echo.HandlerFunc {
	return manageSchedule(
		dbschedule, param, false, true,
		func(ctx context.Context, id domain.ScheduleId, _ struct{}) error {
			return dbschedule.Complete(ctx, id)
		},
	)
}

func CancelScheduleHandler(dbschedule db.ScheduleInterface, param string) echo.HandlerFunc {
	return manageSchedule(
		dbschedule, param, false, true,
		func(ctx context.Context, id domain.ScheduleId, body apischedules.CancelRequest) error {
			return dbschedule.Cancel(ctx, id, body.Reason)
		},
	)
}

func AutoCompleteHandler(dbschedule db.ScheduleInterface, now func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerOf(c)
		if err != nil {
			return err
		}
		if err := adminOnly(caller); err != nil {
			return err
		}

		completed, err := dbschedule.AutoComplete(c.Request().Context(), now())
		if err != nil {
			return apierr.FromDomainError(err)
		}

		resp := apischedules.AutoCompleteResult{Completed: make([]int64, 0, len(completed))}
		for _, id := range completed {
			resp.Completed = append(resp.Completed, int64(id))
		}
		if 0 < len(completed) {
			c.Logger().Infof("auto-completed %d schedules: %v", len(completed), resp.Completed)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mindgarden/consultation/cmd/mgd/handlers"
	"github.com/mindgarden/consultation/pkg/auth"
	configs "github.com/mindgarden/consultation/pkg/configs/server"
	"github.com/mindgarden/consultation/pkg/domain/mindgarden"
	"github.com/mindgarden/consultation/pkg/utils/echoutil"
)

var API_ROOT = "/api"

func api(subpath string) string {
	if !strings.HasSuffix(subpath, "/") {
		subpath += "/"
	}
	return fmt.Sprintf("%s/%s", API_ROOT, subpath)
}

func BuildServer(mg mindgarden.MindGarden, conf *configs.ServerConfig, verifier auth.Verifier, now func() time.Time) *echo.Echo {
	e := echo.New()
	echoutil.SetLevel(e, conf.LogLevel())

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		e.DefaultHTTPErrorHandler(err, c)
		if he, ok := err.(*echo.HTTPError); ok && he.Code < 500 {
			c.Logger().Debug(err)
			return
		}
		c.Logger().Error(err)
	}

	e.Pre(middleware.AddTrailingSlash())
	e.Use(echoutil.RequestId, echoutil.LogHandlerFunc, middleware.Recover())

	// "today" of schedules is decided in the configured timezone.
	clock := now
	now = func() time.Time { return clock().In(conf.Location()) }

	schedules := mg.Schedule().Database()
	mappings := mg.Mapping().Database()
	users := mg.User().Database()

	authed := auth.Middleware(verifier)

	e.GET(api("schedules"), handlers.FindSchedulesHandler(schedules), authed)
	e.GET(api("schedules/paged"), handlers.PagedSchedulesHandler(schedules, now, conf.Location()), authed)
	e.POST(api("schedules"), handlers.BookScheduleHandler(schedules), authed)
	e.POST(api("schedules/slots"), handlers.CreateSlotHandler(schedules), authed)
	e.POST(api("schedules/auto-complete"), handlers.AutoCompleteHandler(schedules, now), authed)
	e.GET(api("schedules/:scheduleId"), handlers.GetScheduleHandler(schedules, "scheduleId"), authed)
	e.PUT(api("schedules/:scheduleId"), handlers.UpdateScheduleHandler(schedules, "scheduleId"), authed)
	e.PUT(api("schedules/:scheduleId/confirm"), handlers.ConfirmScheduleHandler(schedules, "scheduleId"), authed)
	e.PUT(api("schedules/:scheduleId/complete"), handlers.CompleteScheduleHandler(schedules, "scheduleId"), authed)
	e.PUT(api("schedules/:scheduleId/cancel"), handlers.CancelScheduleHandler(schedules, "scheduleId"), authed)

	e.GET(api("mappings"), handlers.FindMappingsHandler(mappings), authed)
	e.POST(api("mappings"), handlers.CreateMappingHandler(mappings), authed)
	e.GET(api("mappings/:mappingId"), handlers.GetMappingHandler(mappings, "mappingId"), authed)
	e.PUT(api("mappings/:mappingId/payment"), handlers.ConfirmPaymentHandler(mappings, "mappingId", now), authed)
	e.PUT(api("mappings/:mappingId/approve"), handlers.ApproveMappingHandler(mappings, users, "mappingId", now), authed)
	e.PUT(api("mappings/:mappingId/reject"), handlers.RejectMappingHandler(mappings, "mappingId", now), authed)
	e.PUT(api("mappings/:mappingId/sessions/use"), handlers.UseSessionHandler(mappings, "mappingId"), authed)
	e.PUT(api("mappings/:mappingId/sessions/extend"), handlers.ExtendMappingHandler(mappings, "mappingId"), authed)
	e.PUT(api("mappings/:mappingId/refund"), handlers.RefundMappingHandler(mappings, "mappingId", now), authed)
	e.PUT(api("mappings/:mappingId/terminate"), handlers.TerminateMappingHandler(mappings, "mappingId", now), authed)

	e.GET(api("users"), handlers.FindUsersHandler(users), authed)
	e.POST(api("users"), handlers.RegisterUserHandler(users), authed)
	e.GET(api("users/me"), handlers.WhoAmIHandler(users), authed)

	return e
}

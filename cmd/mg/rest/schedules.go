package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apischedules "github.com/mindgarden/consultation/pkg/api/types/schedules"
	"github.com/mindgarden/consultation/pkg/domain"
)

type FindScheduleParameter struct {
	// effective only for admins
	ConsultantId *int64

	Since *domain.Date
	Until *domain.Date

	Status []string
}

func (p FindScheduleParameter) query() url.Values {
	q := url.Values{}
	if p.ConsultantId != nil {
		q.Set("consultant", strconv.FormatInt(*p.ConsultantId, 10))
	}
	if p.Since != nil {
		q.Set("since", p.Since.String())
	}
	if p.Until != nil {
		q.Set("until", p.Until.String())
	}
	if len(p.Status) != 0 {
		q.Set("status", strings.Join(p.Status, ","))
	}
	return q
}

func scheduleMessages(scheduleId int64) MessageFor {
	return MessageFor{
		Status4xx: fmt.Sprintf("schedule #%d cannot be processed", scheduleId),
	}
}

func (c *client) FindSchedules(ctx context.Context, param FindScheduleParameter) ([]apischedules.Schedule, error) {
	return call[[]apischedules.Schedule](
		ctx, c, http.MethodGet, c.apipath("schedules"), param.query(), nil,
		MessageFor{Status4xx: "failed to find schedules"},
	)
}

func (c *client) GetSchedule(ctx context.Context, scheduleId int64) (apischedules.Schedule, error) {
	return call[apischedules.Schedule](
		ctx, c, http.MethodGet, c.apipath("schedules", strconv.FormatInt(scheduleId, 10)), nil, nil,
		MessageFor{Status4xx: fmt.Sprintf("schedule #%d is not found", scheduleId)},
	)
}

func (c *client) BookSchedule(ctx context.Context, req apischedules.BookingRequest) (apischedules.Schedule, error) {
	return call[apischedules.Schedule](
		ctx, c, http.MethodPost, c.apipath("schedules"), nil, req,
		MessageFor{Status4xx: "the schedule cannot be booked"},
	)
}

func (c *client) ConfirmSchedule(ctx context.Context, scheduleId int64, note string) (apischedules.Schedule, error) {
	return call[apischedules.Schedule](
		ctx, c, http.MethodPut, c.apipath("schedules", strconv.FormatInt(scheduleId, 10), "confirm"), nil,
		apischedules.ConfirmRequest{Note: note},
		scheduleMessages(scheduleId),
	)
}

func (c *client) CompleteSchedule(ctx context.Context, scheduleId int64) (apischedules.Schedule, error) {
	return call[apischedules.Schedule](
		ctx, c, http.MethodPut, c.apipath("schedules", strconv.FormatInt(scheduleId, 10), "complete"), nil,
		struct{}{},
		scheduleMessages(scheduleId),
	)
}

func (c *client) CancelSchedule(ctx context.Context, scheduleId int64, reason string) (apischedules.Schedule, error) {
	return call[apischedules.Schedule](
		ctx, c, http.MethodPut, c.apipath("schedules", strconv.FormatInt(scheduleId, 10), "cancel"), nil,
		apischedules.CancelRequest{Reason: reason},
		scheduleMessages(scheduleId),
	)
}

func (c *client) AutoComplete(ctx context.Context) (apischedules.AutoCompleteResult, error) {
	return call[apischedules.AutoCompleteResult](
		ctx, c, http.MethodPost, c.apipath("schedules", "auto-complete"), nil, nil,
		MessageFor{Status4xx: "failed to complete ended schedules"},
	)
}

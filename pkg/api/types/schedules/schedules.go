package schedules

import (
	"fmt"
	"time"

	"github.com/mindgarden/consultation/pkg/domain"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
	"github.com/mindgarden/consultation/pkg/domain/schedule/listing"
	"github.com/mindgarden/consultation/pkg/utils/rfctime"
)

type Schedule struct {
	ScheduleId       int64           `json:"scheduleId"`
	ConsultantId     int64           `json:"consultantId"`
	ConsultantName   string          `json:"consultantName"`
	ClientId         *int64          `json:"clientId,omitempty"`
	ClientName       string          `json:"clientName,omitempty"`
	Date             domain.Date     `json:"date"`
	StartTime        domain.Clock    `json:"startTime"`
	EndTime          domain.Clock    `json:"endTime"`
	Status           string          `json:"status"`
	ConsultationType string          `json:"consultationType"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        rfctime.RFC3339 `json:"createdAt"`
	UpdatedAt        rfctime.RFC3339 `json:"updatedAt"`
}

func Compose(s domain.Schedule) Schedule {
	var client *int64
	if s.ClientId != nil {
		c := int64(*s.ClientId)
		client = &c
	}
	return Schedule{
		ScheduleId:       int64(s.Id),
		ConsultantId:     int64(s.ConsultantId),
		ConsultantName:   s.ConsultantName,
		ClientId:         client,
		ClientName:       s.ClientName,
		Date:             s.Date,
		StartTime:        s.Start,
		EndTime:          s.End,
		Status:           string(s.Status),
		ConsultationType: string(s.ConsultationType),
		Title:            s.Title,
		Description:      s.Description,
		Notes:            s.Notes,
		CreatedAt:        rfctime.RFC3339(s.CreatedAt),
		UpdatedAt:        rfctime.RFC3339(s.UpdatedAt),
	}
}

func ComposeList(ss []domain.Schedule) []Schedule {
	ret := make([]Schedule, 0, len(ss))
	for _, s := range ss {
		ret = append(ret, Compose(s))
	}
	return ret
}

// ToDomain converts back to domain.Schedule.
//
// Unknown status or consultation type are kept as they are.
func (s Schedule) ToDomain() domain.Schedule {
	var client *domain.UserId
	if s.ClientId != nil {
		c := domain.UserId(*s.ClientId)
		client = &c
	}
	return domain.Schedule{
		Id:               domain.ScheduleId(s.ScheduleId),
		ConsultantId:     domain.UserId(s.ConsultantId),
		ConsultantName:   s.ConsultantName,
		ClientId:         client,
		ClientName:       s.ClientName,
		Date:             s.Date,
		Start:            s.StartTime,
		End:              s.EndTime,
		Status:           domain.ScheduleStatus(s.Status),
		ConsultationType: domain.ConsultationType(s.ConsultationType),
		Title:            s.Title,
		Description:      s.Description,
		Notes:            s.Notes,
		CreatedAt:        s.CreatedAt.Time(),
		UpdatedAt:        s.UpdatedAt.Time(),
	}
}

func (s *Schedule) Equal(o *Schedule) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	a, b := s.ToDomain(), o.ToDomain()
	return a.Equal(&b)
}

// Page is a page of listed schedules.
type Page struct {
	Items      []Schedule `json:"items"`
	Page       int        `json:"page"`
	Size       int        `json:"size"`
	Total      int        `json:"total"`
	TotalPages int        `json:"totalPages"`

	// count of schedules before filtering.
	Unfiltered int `json:"unfiltered"`
}

func ComposePage(p listing.Page) Page {
	return Page{
		Items:      ComposeList(p.Items),
		Page:       p.Page,
		Size:       p.PageSize,
		Total:      p.TotalCount,
		TotalPages: p.TotalPages,
		Unfiltered: p.Unfiltered,
	}
}

// BookingRequest is the body of "POST /api/schedules".
type BookingRequest struct {
	ConsultantId int64        `json:"consultantId"`
	ClientId     int64        `json:"clientId"`
	Date         domain.Date  `json:"date"`
	StartTime    domain.Clock `json:"startTime"`

	// When omitted, the default duration of the consultation type is used.
	EndTime          *domain.Clock `json:"endTime,omitempty"`
	ConsultationType string        `json:"consultationType,omitempty"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
}

func (r BookingRequest) ToSpec() (domain.BookingSpec, error) {
	ctype := domain.Individual
	if r.ConsultationType != "" {
		c, err := domain.AsConsultationType(r.ConsultationType)
		if err != nil {
			return domain.BookingSpec{}, err
		}
		ctype = c
	}
	if r.Date.IsZero() {
		return domain.BookingSpec{}, fmt.Errorf("%w: date is required", domerr.ErrInvalidValue)
	}

	end, err := endOf(r.StartTime, r.EndTime, ctype.DefaultDuration())
	if err != nil {
		return domain.BookingSpec{}, err
	}
	slot := domain.TimeSlot{Start: r.StartTime, End: end}
	if err := slot.Validate(); err != nil {
		return domain.BookingSpec{}, err
	}

	return domain.BookingSpec{
		ConsultantId:     domain.UserId(r.ConsultantId),
		ClientId:         domain.UserId(r.ClientId),
		Date:             r.Date,
		Slot:             slot,
		ConsultationType: ctype,
		Title:            r.Title,
		Description:      r.Description,
	}, nil
}

func endOf(start domain.Clock, end *domain.Clock, d time.Duration) (domain.Clock, error) {
	if end != nil {
		return *end, nil
	}
	e, ok := start.AddMinutes(int(d / time.Minute))
	if !ok {
		return 0, fmt.Errorf("%w: session starting at %s runs over midnight", domerr.ErrInvalidValue, start)
	}
	return e, nil
}

// SlotRequest is the body of "POST /api/schedules/slots".
type SlotRequest struct {
	ConsultantId int64        `json:"consultantId"`
	Date         domain.Date  `json:"date"`
	StartTime    domain.Clock `json:"startTime"`
	EndTime      domain.Clock `json:"endTime"`

	// AVAILABLE or BLOCKED. Empty is AVAILABLE.
	Status      string `json:"status,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

func (r SlotRequest) ToSpec() (domain.SlotSpec, error) {
	status := domain.Available
	if r.Status != "" {
		s, err := domain.AsScheduleStatus(r.Status)
		if err != nil {
			return domain.SlotSpec{}, err
		}
		status = s
	}
	if r.Date.IsZero() {
		return domain.SlotSpec{}, fmt.Errorf("%w: date is required", domerr.ErrInvalidValue)
	}
	spec := domain.SlotSpec{
		ConsultantId: domain.UserId(r.ConsultantId),
		Date:         r.Date,
		Slot:         domain.TimeSlot{Start: r.StartTime, End: r.EndTime},
		Status:       status,
		Title:        r.Title,
		Description:  r.Description,
	}
	if err := spec.Validate(); err != nil {
		return domain.SlotSpec{}, err
	}
	return spec, nil
}

// UpdateRequest is the body of "PUT /api/schedules/:scheduleId". Omitted fields are kept.
type UpdateRequest struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Date        *domain.Date  `json:"date,omitempty"`
	StartTime   *domain.Clock `json:"startTime,omitempty"`
	EndTime     *domain.Clock `json:"endTime,omitempty"`
}

func (r UpdateRequest) ToChange() domain.ScheduleChange {
	return domain.ScheduleChange{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Start:       r.StartTime,
		End:         r.EndTime,
	}
}

type ConfirmRequest struct {
	Note string `json:"note,omitempty"`
}

type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

type AutoCompleteResult struct {
	Completed []int64 `json:"completed"`
}

package mock

import (
	"context"
	"testing"

	"github.com/mindgarden/consultation/cmd/mg/rest"
	apimappings "github.com/mindgarden/consultation/pkg/api/types/mappings"
	apischedules "github.com/mindgarden/consultation/pkg/api/types/schedules"
	apiusers "github.com/mindgarden/consultation/pkg/api/types/users"
)

type ScheduleNoteArgs struct {
	ScheduleId int64
	Text       string
}

type MappingArgs[T any] struct {
	MappingId int64
	Request   T
}

// New returns a Client which fails t when an operation without Impl is called.
func New(t *testing.T) *MockClient {
	return &MockClient{t: t}
}

type MockClient struct {
	t *testing.T

	Impl struct {
		FindSchedules    func(ctx context.Context, param rest.FindScheduleParameter) ([]apischedules.Schedule, error)
		GetSchedule      func(ctx context.Context, scheduleId int64) (apischedules.Schedule, error)
		BookSchedule     func(ctx context.Context, req apischedules.BookingRequest) (apischedules.Schedule, error)
		ConfirmSchedule  func(ctx context.Context, scheduleId int64, note string) (apischedules.Schedule, error)
		CompleteSchedule func(ctx context.Context, scheduleId int64) (apischedules.Schedule, error)
		CancelSchedule   func(ctx context.Context, scheduleId int64, reason string) (apischedules.Schedule, error)
		AutoComplete     func(ctx context.Context) (apischedules.AutoCompleteResult, error)
		FindMappings     func(ctx context.Context, param rest.FindMappingParameter) ([]apimappings.Mapping, error)
		GetMapping       func(ctx context.Context, mappingId int64) (apimappings.Mapping, error)
		CreateMapping    func(ctx context.Context, req apimappings.CreateRequest) (apimappings.Mapping, error)
		ConfirmPayment   func(ctx context.Context, mappingId int64, req apimappings.PaymentRequest) (apimappings.PaymentResult, error)
		ApproveMapping   func(ctx context.Context, mappingId int64) (apimappings.Mapping, error)
		ExtendMapping    func(ctx context.Context, mappingId int64, req apimappings.ExtendRequest) (apimappings.Mapping, error)
		RefundMapping    func(ctx context.Context, mappingId int64, req apimappings.RefundRequest) (apimappings.Refund, error)
		TerminateMapping func(ctx context.Context, mappingId int64, reason string) (apimappings.Refund, error)
		WhoAmI           func(ctx context.Context) (apiusers.User, error)
	}

	Calls struct {
		FindSchedules    []rest.FindScheduleParameter
		GetSchedule      []int64
		BookSchedule     []apischedules.BookingRequest
		ConfirmSchedule  []ScheduleNoteArgs
		CompleteSchedule []int64
		CancelSchedule   []ScheduleNoteArgs
		AutoComplete     int
		FindMappings     []rest.FindMappingParameter
		GetMapping       []int64
		CreateMapping    []apimappings.CreateRequest
		ConfirmPayment   []MappingArgs[apimappings.PaymentRequest]
		ApproveMapping   []int64
		ExtendMapping    []MappingArgs[apimappings.ExtendRequest]
		RefundMapping    []MappingArgs[apimappings.RefundRequest]
		TerminateMapping []MappingArgs[string]
		WhoAmI           int
	}
}

var _ rest.Client = &MockClient{}

func (m *MockClient) FindSchedules(ctx context.Context, param rest.FindScheduleParameter) ([]apischedules.Schedule, error) {
	m.t.Helper()
	m.Calls.FindSchedules = append(m.Calls.FindSchedules, param)
	if m.Impl.FindSchedules == nil {
		m.t.Fatal("FindSchedules is not ready to be called")
	}
	return m.Impl.FindSchedules(ctx, param)
}

func (m *MockClient) GetSchedule(ctx context.Context, scheduleId int64) (apischedules.Schedule, error) {
	m.t.Helper()
	m.Calls.GetSchedule = append(m.Calls.GetSchedule, scheduleId)
	if m.Impl.GetSchedule == nil {
		m.t.Fatal("GetSchedule is not ready to be called")
	}
	return m.Impl.GetSchedule(ctx, scheduleId)
}

func (m *MockClient) BookSchedule(ctx context.Context, req apischedules.BookingRequest) (apischedules.Schedule, error) {
	m.t.Helper()
	m.Calls.BookSchedule = append(m.Calls.BookSchedule, req)
	if m.Impl.BookSchedule == nil {
		m.t.Fatal("BookSchedule is not ready to be called")
	}
	return m.Impl.BookSchedule(ctx, req)
}

func (m *MockClient) ConfirmSchedule(ctx context.Context, scheduleId int64, note string) (apischedules.Schedule, error) {
	m.t.Helper()
	m.Calls.ConfirmSchedule = append(m.Calls.ConfirmSchedule, ScheduleNoteArgs{ScheduleId: scheduleId, Text: note})
	if m.Impl.ConfirmSchedule == nil {
		m.t.Fatal("ConfirmSchedule is not ready to be called")
	}
	return m.Impl.ConfirmSchedule(ctx, scheduleId, note)
}

func (m *MockClient) CompleteSchedule(ctx context.Context, scheduleId int64) (apischedules.Schedule, error) {
	m.t.Helper()
	m.Calls.CompleteSchedule = append(m.Calls.CompleteSchedule, scheduleId)
	if m.Impl.CompleteSchedule == nil {
		m.t.Fatal("CompleteSchedule is not ready to be called")
	}
	return m.Impl.CompleteSchedule(ctx, scheduleId)
}

func (m *MockClient) CancelSchedule(ctx context.Context, scheduleId int64, reason string) (apischedules.Schedule, error) {
	m.t.Helper()
	m.Calls.CancelSchedule = append(m.Calls.CancelSchedule, ScheduleNoteArgs{ScheduleId: scheduleId, Text: reason})
	if m.Impl.CancelSchedule == nil {
		m.t.Fatal("CancelSchedule is not ready to be called")
	}
	return m.Impl.CancelSchedule(ctx, scheduleId, reason)
}

func (m *MockClient) AutoComplete(ctx context.Context) (apischedules.AutoCompleteResult, error) {
	m.t.Helper()
	m.Calls.AutoComplete += 1
	if m.Impl.AutoComplete == nil {
		m.t.Fatal("AutoComplete is not ready to be called")
	}
	return m.Impl.AutoComplete(ctx)
}

func (m *MockClient) FindMappings(ctx context.Context, param rest.FindMappingParameter) ([]apimappings.Mapping, error) {
	m.t.Helper()
	m.Calls.FindMappings = append(m.Calls.FindMappings, param)
	if m.Impl.FindMappings == nil {
		m.t.Fatal("FindMappings is not ready to be called")
	}
	return m.Impl.FindMappings(ctx, param)
}

func (m *MockClient) GetMapping(ctx context.Context, mappingId int64) (apimappings.Mapping, error) {
	m.t.Helper()
	m.Calls.GetMapping = append(m.Calls.GetMapping, mappingId)
	if m.Impl.GetMapping == nil {
		m.t.Fatal("GetMapping is not ready to be called")
	}
	return m.Impl.GetMapping(ctx, mappingId)
}

func (m *MockClient) CreateMapping(ctx context.Context, req apimappings.CreateRequest) (apimappings.Mapping, error) {
	m.t.Helper()
	m.Calls.CreateMapping = append(m.Calls.CreateMapping, req)
	if m.Impl.CreateMapping == nil {
		m.t.Fatal("CreateMapping is not ready to be called")
	}
	return m.Impl.CreateMapping(ctx, req)
}

func (m *MockClient) ConfirmPayment(ctx context.Context, mappingId int64, req apimappings.PaymentRequest) (apimappings.PaymentResult, error) {
	m.t.Helper()
	m.Calls.ConfirmPayment = append(m.Calls.ConfirmPayment, MappingArgs[apimappings.PaymentRequest]{mappingId, req})
	if m.Impl.ConfirmPayment == nil {
		m.t.Fatal("ConfirmPayment is not ready to be called")
	}
	return m.Impl.ConfirmPayment(ctx, mappingId, req)
}

func (m *MockClient) ApproveMapping(ctx context.Context, mappingId int64) (apimappings.Mapping, error) {
	m.t.Helper()
	m.Calls.ApproveMapping = append(m.Calls.ApproveMapping, mappingId)
	if m.Impl.ApproveMapping == nil {
		m.t.Fatal("ApproveMapping is not ready to be called")
	}
	return m.Impl.ApproveMapping(ctx, mappingId)
}

func (m *MockClient) ExtendMapping(ctx context.Context, mappingId int64, req apimappings.ExtendRequest) (apimappings.Mapping, error) {
	m.t.Helper()
	m.Calls.ExtendMapping = append(m.Calls.ExtendMapping, MappingArgs[apimappings.ExtendRequest]{mappingId, req})
	if m.Impl.ExtendMapping == nil {
		m.t.Fatal("ExtendMapping is not ready to be called")
	}
	return m.Impl.ExtendMapping(ctx, mappingId, req)
}

func (m *MockClient) RefundMapping(ctx context.Context, mappingId int64, req apimappings.RefundRequest) (apimappings.Refund, error) {
	m.t.Helper()
	m.Calls.RefundMapping = append(m.Calls.RefundMapping, MappingArgs[apimappings.RefundRequest]{mappingId, req})
	if m.Impl.RefundMapping == nil {
		m.t.Fatal("RefundMapping is not ready to be called")
	}
	return m.Impl.RefundMapping(ctx, mappingId, req)
}

func (m *MockClient) TerminateMapping(ctx context.Context, mappingId int64, reason string) (apimappings.Refund, error) {
	m.t.Helper()
	m.Calls.TerminateMapping = append(m.Calls.TerminateMapping, MappingArgs[string]{mappingId, reason})
	if m.Impl.TerminateMapping == nil {
		m.t.Fatal("TerminateMapping is not ready to be called")
	}
	return m.Impl.TerminateMapping(ctx, mappingId, reason)
}

func (m *MockClient) WhoAmI(ctx context.Context) (apiusers.User, error) {
	m.t.Helper()
	m.Calls.WhoAmI += 1
	if m.Impl.WhoAmI == nil {
		m.t.Fatal("WhoAmI is not ready to be called")
	}
	return m.Impl.WhoAmI(ctx)
}

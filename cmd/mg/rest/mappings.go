package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apimappings "github.com/mindgarden/consultation/pkg/api/types/mappings"
	apiusers "github.com/mindgarden/consultation/pkg/api/types/users"
)

type FindMappingParameter struct {
	ConsultantId *int64
	ClientId     *int64
	Status       []string
}

func (p FindMappingParameter) query() url.Values {
	q := url.Values{}
	if p.ConsultantId != nil {
		q.Set("consultant", strconv.FormatInt(*p.ConsultantId, 10))
	}
	if p.ClientId != nil {
		q.Set("client", strconv.FormatInt(*p.ClientId, 10))
	}
	if len(p.Status) != 0 {
		q.Set("status", strings.Join(p.Status, ","))
	}
	return q
}

func mappingpath(c *client, mappingId int64, elems ...string) string {
	return c.apipath(append([]string{"mappings", strconv.FormatInt(mappingId, 10)}, elems...)...)
}

func mappingMessages(mappingId int64) MessageFor {
	return MessageFor{
		Status4xx: fmt.Sprintf("mapping #%d cannot be processed", mappingId),
	}
}

func (c *client) FindMappings(ctx context.Context, param FindMappingParameter) ([]apimappings.Mapping, error) {
	return call[[]apimappings.Mapping](
		ctx, c, http.MethodGet, c.apipath("mappings"), param.query(), nil,
		MessageFor{Status4xx: "failed to find mappings"},
	)
}

func (c *client) GetMapping(ctx context.Context, mappingId int64) (apimappings.Mapping, error) {
	return call[apimappings.Mapping](
		ctx, c, http.MethodGet, mappingpath(c, mappingId), nil, nil,
		MessageFor{Status4xx: fmt.Sprintf("mapping #%d is not found", mappingId)},
	)
}

func (c *client) CreateMapping(ctx context.Context, req apimappings.CreateRequest) (apimappings.Mapping, error) {
	return call[apimappings.Mapping](
		ctx, c, http.MethodPost, c.apipath("mappings"), nil, req,
		MessageFor{Status4xx: "the mapping cannot be created"},
	)
}

func (c *client) ConfirmPayment(ctx context.Context, mappingId int64, req apimappings.PaymentRequest) (apimappings.PaymentResult, error) {
	return call[apimappings.PaymentResult](
		ctx, c, http.MethodPut, mappingpath(c, mappingId, "payment"), nil, req,
		mappingMessages(mappingId),
	)
}

func (c *client) ApproveMapping(ctx context.Context, mappingId int64) (apimappings.Mapping, error) {
	return call[apimappings.Mapping](
		ctx, c, http.MethodPut, mappingpath(c, mappingId, "approve"), nil, struct{}{},
		mappingMessages(mappingId),
	)
}

func (c *client) ExtendMapping(ctx context.Context, mappingId int64, req apimappings.ExtendRequest) (apimappings.Mapping, error) {
	return call[apimappings.Mapping](
		ctx, c, http.MethodPut, mappingpath(c, mappingId, "sessions", "extend"), nil, req,
		mappingMessages(mappingId),
	)
}

func (c *client) RefundMapping(ctx context.Context, mappingId int64, req apimappings.RefundRequest) (apimappings.Refund, error) {
	return call[apimappings.Refund](
		ctx, c, http.MethodPut, mappingpath(c, mappingId, "refund"), nil, req,
		mappingMessages(mappingId),
	)
}

func (c *client) TerminateMapping(ctx context.Context, mappingId int64, reason string) (apimappings.Refund, error) {
	return call[apimappings.Refund](
		ctx, c, http.MethodPut, mappingpath(c, mappingId, "terminate"), nil,
		apimappings.ReasonRequest{Reason: reason},
		mappingMessages(mappingId),
	)
}

func (c *client) WhoAmI(ctx context.Context) (apiusers.User, error) {
	return call[apiusers.User](
		ctx, c, http.MethodGet, c.apipath("users", "me"), nil, nil,
		MessageFor{},
	)
}

package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	kprof "github.com/mindgarden/consultation/cmd/mg/config/profiles"
	apimappings "github.com/mindgarden/consultation/pkg/api/types/mappings"
	apischedules "github.com/mindgarden/consultation/pkg/api/types/schedules"
	apiusers "github.com/mindgarden/consultation/pkg/api/types/users"
)

// Client talks to the MindGarden API as the owner of the profile's token.
type Client interface {
	// FindSchedules fetches schedules visible to the caller.
	//
	// The server narrows the result to the caller's own schedules
	// unless the caller is an admin.
	FindSchedules(ctx context.Context, param FindScheduleParameter) ([]apischedules.Schedule, error)

	GetSchedule(ctx context.Context, scheduleId int64) (apischedules.Schedule, error)

	// BookSchedule books a session of the consultant for the client.
	BookSchedule(ctx context.Context, req apischedules.BookingRequest) (apischedules.Schedule, error)

	// ConfirmSchedule confirms a booked schedule. Admin only.
	ConfirmSchedule(ctx context.Context, scheduleId int64, note string) (apischedules.Schedule, error)

	CompleteSchedule(ctx context.Context, scheduleId int64) (apischedules.Schedule, error)

	CancelSchedule(ctx context.Context, scheduleId int64, reason string) (apischedules.Schedule, error)

	// AutoComplete completes schedules which have ended. Admin only.
	AutoComplete(ctx context.Context) (apischedules.AutoCompleteResult, error)

	FindMappings(ctx context.Context, param FindMappingParameter) ([]apimappings.Mapping, error)

	GetMapping(ctx context.Context, mappingId int64) (apimappings.Mapping, error)

	// CreateMapping starts a mapping waiting for payment. Admin only.
	CreateMapping(ctx context.Context, req apimappings.CreateRequest) (apimappings.Mapping, error)

	ConfirmPayment(ctx context.Context, mappingId int64, req apimappings.PaymentRequest) (apimappings.PaymentResult, error)

	ApproveMapping(ctx context.Context, mappingId int64) (apimappings.Mapping, error)

	ExtendMapping(ctx context.Context, mappingId int64, req apimappings.ExtendRequest) (apimappings.Mapping, error)

	RefundMapping(ctx context.Context, mappingId int64, req apimappings.RefundRequest) (apimappings.Refund, error)

	// TerminateMapping refunds remaining sessions and ends the mapping.
	TerminateMapping(ctx context.Context, mappingId int64, reason string) (apimappings.Refund, error)

	// WhoAmI returns the owner of the token.
	WhoAmI(ctx context.Context) (apiusers.User, error)
}

type client struct {
	httpclient *http.Client
	api        string
	token      string
}

// NewClient creates a Client for the profile.
//
// When the profile is broken, it returns an error wrapping profiles.ErrProfileInvalid.
func NewClient(prof *kprof.Profile) (Client, error) {
	if err := prof.Verify(); err != nil {
		return nil, err
	}

	httpclient := new(http.Client)
	if prof.Cert.CA != "" {
		hc, err := trustCa(httpclient, prof.Cert.CA)
		if err != nil {
			return nil, err
		}
		httpclient = hc
	}

	return &client{
		httpclient: httpclient,
		api:        strings.TrimSuffix(prof.ApiRoot, "/"),
		token:      prof.Token,
	}, nil
}

// apipath joins path elements after the api root, with a trailing slash.
func (c *client) apipath(elems ...string) string {
	p := []string{c.api}
	for _, e := range elems {
		p = append(p, url.PathEscape(strings.Trim(e, "/")))
	}
	return strings.Join(p, "/") + "/"
}

func (c *client) request(
	ctx context.Context, method string, path string, query url.Values, body any,
) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	if len(query) != 0 {
		req.URL.RawQuery = query.Encode()
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	return c.httpclient.Do(req)
}

// call sends a request and decodes its response into T.
func call[T any](
	ctx context.Context, c *client,
	method string, path string, query url.Values, body any,
	messageFor MessageFor,
) (T, error) {
	var ret T
	resp, err := c.request(ctx, method, path, query, body)
	if err != nil {
		return ret, err
	}
	defer resp.Body.Close()

	if _, ok := messageFor[Status5xx]; !ok {
		messageFor[Status5xx] = fmt.Sprintf("server error (status code = %d)", resp.StatusCode)
	}
	if _, ok := messageFor[Status4xx]; !ok && resp.StatusCode == http.StatusUnauthorized {
		messageFor[Status4xx] = "the token is rejected. Ask your admin for a new profile"
	}

	if err := unmarshalJsonResponse(resp, &ret, messageFor); err != nil {
		return ret, err
	}
	return ret, nil
}

func trustCa(hc *http.Client, cacert string) (*http.Client, error) {
	if hc.Transport == nil {
		hc.Transport = http.DefaultTransport
	}
	tran, ok := hc.Transport.(*http.Transport)
	if !ok {
		return nil, errors.New("failed to add ca cert")
	}
	tran = tran.Clone()

	tcc := tran.TLSClientConfig.Clone()
	if tcc == nil {
		tcc = &tls.Config{}
	}
	if tcc.RootCAs == nil {
		tcc.RootCAs = x509.NewCertPool()
	}

	bin, err := base64.StdEncoding.DecodeString(cacert)
	if err != nil {
		return nil, err
	}
	if !tcc.RootCAs.AppendCertsFromPEM(bin) {
		return nil, errors.New("failed to add ca cert")
	}

	tran.TLSClientConfig = tcc
	hc.Transport = tran
	return hc, nil
}

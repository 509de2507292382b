package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mindgarden/consultation/pkg/auth"
	"github.com/mindgarden/consultation/pkg/domain"
)

type RequestOption func(req *http.Request) *http.Request

func WithContext(ctx context.Context) RequestOption {
	return func(req *http.Request) *http.Request {
		return req.WithContext(ctx)
	}
}

func WithHeader(key string, value string, values ...string) RequestOption {
	return func(req *http.Request) *http.Request {
		req.Header.Add(key, value)
		for _, v := range values {
			req.Header.Add(key, v)
		}
		return req
	}
}

// = WithHeader("Content-Type", ctyp)
func ContentType(ctyp string) RequestOption {
	return WithHeader("Content-Type", ctyp)
}

// JSON marshals v as a request body.
func JSON(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(b)
}

// ContextOption modifies echo.Context made for a request.
type ContextOption func(echo.Context) echo.Context

// AsCaller makes the request as if it passed the auth middleware with the caller.
func AsCaller(caller domain.Caller) ContextOption {
	return func(c echo.Context) echo.Context {
		return auth.WithCaller(c, caller)
	}
}

// PathParams sets path parameters, as the router does.
func PathParams(kv ...string) ContextOption {
	return func(c echo.Context) echo.Context {
		names := []string{}
		values := []string{}
		for i := 0; i+1 < len(kv); i += 2 {
			names = append(names, kv[i])
			values = append(values, kv[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
		return c
	}
}

func newContext(
	e *echo.Echo, method string, target string, data io.Reader,
	reqopts []RequestOption, ctxopts []ContextOption,
) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, data)
	for _, opt := range reqopts {
		req = opt(req)
	}
	resp := httptest.NewRecorder()

	ctx := e.NewContext(req, resp)
	for _, opt := range ctxopts {
		ctx = opt(ctx)
	}
	return ctx, resp
}

func Get(e *echo.Echo, target string, reqopts []RequestOption, ctxopts ...ContextOption) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(e, http.MethodGet, target, nil, reqopts, ctxopts)
}

func Post(e *echo.Echo, target string, data io.Reader, reqopts []RequestOption, ctxopts ...ContextOption) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(e, http.MethodPost, target, data, reqopts, ctxopts)
}

func Put(e *echo.Echo, target string, data io.Reader, reqopts []RequestOption, ctxopts ...ContextOption) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(e, http.MethodPut, target, data, reqopts, ctxopts)
}

// StatusOf returns the status code carried by err.
//
// It is 0 when err is nil, and 500 when err is not an *echo.HTTPError.
func StatusOf(err error) int {
	if err == nil {
		return 0
	}
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return http.StatusInternalServerError
}

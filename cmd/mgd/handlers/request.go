package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/mindgarden/consultation/pkg/api/types/errors"
	"github.com/mindgarden/consultation/pkg/auth"
	"github.com/mindgarden/consultation/pkg/domain"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
)

func callerOf(c echo.Context) (domain.Caller, error) {
	caller, ok := auth.CallerOf(c)
	if !ok {
		return domain.Caller{}, apierr.Unauthorized("request should have bearer token", nil)
	}
	return caller, nil
}

func adminOnly(caller domain.Caller) error {
	if caller.Role.IsAdmin() {
		return nil
	}
	return apierr.Forbidden("only admins can do this", nil)
}

// readJSON decodes the request body into T.
//
// When optional is true, empty body is the zero value of T.
func readJSON[T any](c echo.Context, optional bool) (T, error) {
	var body T
	req := c.Request()

	if optional && req.ContentLength == 0 {
		return body, nil
	}

	ctype := strings.ToLower(req.Header.Get(echo.HeaderContentType))
	if !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		return body, apierr.BadRequest(
			"unexpected content type. it should be application/json", nil,
		)
	}

	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return body, nil
		}
		return body, apierr.BadRequest("can not understand the requested json", err)
	}
	return body, nil
}

func pathParam[T any](c echo.Context, name string, parse func(string) (T, error)) (T, error) {
	v, err := parse(c.Param(name))
	if err != nil {
		return v, apierr.BadRequest(fmt.Sprintf("path parameter %s is malformed", name), err)
	}
	return v, nil
}

func queryParam[T any](c echo.Context, name string, parse func(string) (T, error)) (*T, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := parse(raw)
	if err != nil {
		return nil, apierr.BadRequest(fmt.Sprintf("query parameter %s is malformed", name), err)
	}
	return &v, nil
}

// queryList parses comma separated values. Each value is trimmed. Empty values are ignored.
func queryList[T any](c echo.Context, name string, parse func(string) (T, error)) ([]T, error) {
	ret := []T{}
	for _, raw := range c.QueryParams()[name] {
		for _, item := range strings.Split(raw, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			v, err := parse(item)
			if err != nil {
				return nil, apierr.BadRequest(fmt.Sprintf("query parameter %s is malformed", name), err)
			}
			ret = append(ret, v)
		}
	}
	return ret, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	v, err := queryParam(c, name, func(s string) (int, error) {
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", domerr.ErrInvalidValue, err)
		}
		return i, nil
	})
	if err != nil || v == nil {
		return 0, err
	}
	return *v, nil
}

package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	cerr "github.com/mindgarden/consultation/cmd/mg/errors"
	apierr "github.com/mindgarden/consultation/pkg/api/types/errors"
)

// MessageFor is the summary of errors by status code range.
type MessageFor map[StatusCodeRange]string

// HTTPError is the cause of errors from non-2xx responses.
type HTTPError struct {
	StatusCode int

	// nil when the server does not send its error message.
	Message *apierr.ErrorMessage
}

func (e *HTTPError) Error() string {
	if e.Message == nil {
		return fmt.Sprintf("status code = %d", e.StatusCode)
	}
	return fmt.Sprintf("status code = %d: %s", e.StatusCode, e.Message.Reason)
}

// Retryable reports whether the same request may succeed later.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || 500 <= e.StatusCode
}

// StatusCodeOf returns the status code in err, or 0 when err is not from a response.
func StatusCodeOf(err error) int {
	herr := new(HTTPError)
	if errors.As(err, &herr) {
		return herr.StatusCode
	}
	return 0
}

// unmarshalJsonResponse decodes a 2xx response into v.
// Otherwise, it returns a CUIError summarized with messageFor.
func unmarshalJsonResponse[T any](resp *http.Response, v *T, messageFor MessageFor) error {
	if StatusCodeRangeOf(resp) == Status2xx {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return cerr.NewCuiError(
				fmt.Sprintf("unexpected response: %s (status code = %d)", err, resp.StatusCode),
				cerr.WithCause(err),
			)
		}
		return nil
	}
	return errorResponse(resp, messageFor)
}

func errorResponse(resp *http.Response, messageFor MessageFor) error {
	scr := StatusCodeRangeOf(resp)
	summary, ok := messageFor[scr]
	if !ok {
		summary = fmt.Sprintf("%s (status code = %d)", scr, resp.StatusCode)
	}

	herr := &HTTPError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return cerr.NewCuiError(
			fmt.Sprintf("%s\ncannot read server message: %s", summary, err),
			cerr.WithCause(herr),
		)
	}

	eresp := new(apierr.ErrorResponse)
	if err := json.Unmarshal(body, eresp); err == nil {
		herr.Message = &eresp.Message
		return cerr.NewCuiError(
			summary,
			cerr.WithCause(herr),
			cerr.WithDetail(func(s string) (string, error) {
				return s + "\n" + eresp.Message.String(), nil
			}),
		)
	}

	return cerr.NewCuiError(
		summary,
		cerr.WithCause(herr),
		cerr.WithDetail(func(s string) (string, error) {
			if len(body) == 0 {
				return s, nil
			}
			return s + "\n" + string(body), nil
		}),
	)
}

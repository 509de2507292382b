package errors

import (
	"fmt"
	"strings"
)

// Verbose is an error which can tell more than Error().
type Verbose interface {
	Verbose() string
}

// CUIError is an error to be shown to users of the command line.
type CUIError interface {
	error
	Verbose
}

type cuierror struct {
	summary string
	detail  func(summary string) (string, error)
	hint    string
	cause   error
}

func (ce *cuierror) Unwrap() error {
	return ce.cause
}

func (ce *cuierror) Error() string {
	message := ce.summary
	if ce.detail != nil {
		m, err := ce.detail(ce.summary)
		if err != nil {
			m = fmt.Sprintf("%s\n(failed to build the detail: %s)", ce.summary, err)
		}
		message = m
	}
	if ce.hint != "" {
		message += "\n" + ce.hint
	}
	return message
}

func (ce *cuierror) Verbose() string {
	message := []string{ce.Error()}
	switch cause := ce.cause.(type) {
	case nil:
	case Verbose:
		message = append(message, "caused by: "+cause.Verbose())
	default:
		message = append(message, "caused by: "+cause.Error())
	}
	return strings.Join(message, "\n")
}

type CuiErrorOption func(*cuierror) *cuierror

func NewCuiError(summary string, options ...CuiErrorOption) CUIError {
	err := &cuierror{summary: summary}
	for _, o := range options {
		err = o(err)
	}
	return err
}

// WithDetail builds the message from the summary.
func WithDetail(printer func(summary string) (string, error)) CuiErrorOption {
	return func(ce *cuierror) *cuierror {
		ce.detail = printer
		return ce
	}
}

// WithHint appends a line telling users what to do next.
func WithHint(hint string) CuiErrorOption {
	return func(ce *cuierror) *cuierror {
		ce.hint = hint
		return ce
	}
}

func WithCause(err error) CuiErrorOption {
	return func(ce *cuierror) *cuierror {
		ce.cause = err
		return ce
	}
}

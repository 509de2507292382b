package errors_test

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	xe "github.com/mindgarden/consultation/pkg/errors"
)

type bookingErr struct{}

func (bookingErr) Error() string {
	return "booking failed"
}

func failToBook(message string) error {
	return xe.New(message)
}

func TestNew(t *testing.T) {
	t.Run("it knows where it is created", func(t *testing.T) {
		testee := failToBook("no session left")
		message := testee.Error()

		_, thisFile, _, _ := runtime.Caller(0)

		if !strings.Contains(message, "failToBook") {
			t.Errorf("function name is missing: %s", message)
		}
		if !strings.Contains(message, thisFile) {
			t.Errorf("file name (%s) is missing: %s", thisFile, message)
		}
		if !strings.HasSuffix(message, "<- no session left") {
			t.Errorf("original message is missing: %s", message)
		}
	})
}

func TestWrap(t *testing.T) {
	t.Run("it keeps the chain for errors.Is", func(t *testing.T) {
		root := bookingErr{}
		err := xe.Wrap(fmt.Errorf("%w", fmt.Errorf("%w", root)))
		if !errors.Is(err, root) {
			t.Error("wrapped error cannot be unwrapped")
		}
	})

	t.Run("it keeps the chain for errors.As", func(t *testing.T) {
		err := xe.Wrap(bookingErr{})
		var target bookingErr
		if !errors.As(err, &target) {
			t.Error("wrapped error is not found by errors.As")
		}

		var withCaller *xe.ErrWithCaller
		if !errors.As(err, &withCaller) {
			t.Fatal("ErrWithCaller is not found by errors.As")
		}
		if withCaller.Line() <= 0 {
			t.Errorf("line is not recorded: %d", withCaller.Line())
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if err := xe.Wrap(nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := xe.WrapWithNote("note", nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("note is placed in the message", func(t *testing.T) {
		err := xe.WrapWithNote("locking mapping", bookingErr{})
		if !strings.Contains(err.Error(), "(locking mapping) <- booking failed") {
			t.Errorf("unexpected message: %s", err.Error())
		}
	})
}

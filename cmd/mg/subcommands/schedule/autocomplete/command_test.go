package autocomplete_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/mindgarden/consultation/cmd/mg/rest/mock"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/internal/commandline"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/logger"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/schedule/autocomplete"
	apischedules "github.com/mindgarden/consultation/pkg/api/types/schedules"
)

func TestTask(t *testing.T) {
	type when struct {
		result apischedules.AutoCompleteResult
		err    error
		json   bool
	}
	type then struct {
		stdout string
		err    error
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			client := mock.New(t)
			client.Impl.AutoComplete = func(context.Context) (apischedules.AutoCompleteResult, error) {
				return when.result, when.err
			}
			stdout := new(bytes.Buffer)
			err := autocomplete.Task(
				context.Background(), logger.Null(), client,
				commandline.MockCommandline[autocomplete.Flag]{
					Stdout_: stdout, Stderr_: io.Discard,
					Flags_: autocomplete.Flag{Json: when.json},
				},
				[]any{},
			)
			if client.Calls.AutoComplete != 1 {
				t.Errorf("AutoComplete is called %d times", client.Calls.AutoComplete)
			}
			if then.err != nil {
				if !errors.Is(err, then.err) {
					t.Errorf("expected error %v, but %v", then.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if stdout.String() != then.stdout {
				t.Errorf("stdout: actual = %q, expected = %q", stdout, then.stdout)
			}
		}
	}

	t.Run("it lists completed schedules", theory(
		when{result: apischedules.AutoCompleteResult{Completed: []int64{3, 5}}},
		then{stdout: "schedule 3 is completed\nschedule 5 is completed\n"},
	))

	t.Run("it tells nothing is done", theory(
		when{result: apischedules.AutoCompleteResult{}},
		then{stdout: "no schedules to be completed.\n"},
	))

	t.Run("json of nothing is an empty list", theory(
		when{result: apischedules.AutoCompleteResult{}, json: true},
		then{stdout: "{\n    \"completed\": []\n}\n"},
	))

	fake := errors.New("fake")
	t.Run("error from server is returned", theory(
		when{err: fake},
		then{err: fake},
	))
}

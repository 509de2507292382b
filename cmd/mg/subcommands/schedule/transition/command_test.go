package transition_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/mindgarden/consultation/cmd/mg/rest/mock"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/internal/commandline"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/schedule/transition"
	apischedules "github.com/mindgarden/consultation/pkg/api/types/schedules"
	"github.com/youta-t/flarc"
)

func TestTask(t *testing.T) {
	type when struct {
		transit transition.Transit
		done    string
		arg     string
		message string
		prepare func(*mock.MockClient)
	}
	type then struct {
		check    func(*testing.T, *mock.MockClient)
		log      string
		usageErr bool
		err      error
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			client := mock.New(t)
			if when.prepare != nil {
				when.prepare(client)
			}
			logs := new(bytes.Buffer)
			stdout := new(bytes.Buffer)

			err := transition.Task(when.transit, when.done)(
				context.Background(), log.New(logs, "", 0), client,
				commandline.MockCommandline[transition.Flag]{
					Stdout_: stdout, Stderr_: io.Discard,
					Flags_: transition.Flag{Message: when.message},
					Args_:  map[string][]string{transition.ARG_SCHEDULE_ID: {when.arg}},
				},
				[]any{},
			)

			if then.usageErr {
				if !errors.Is(err, flarc.ErrUsage) {
					t.Errorf("expected usage error, but %v", err)
				}
				return
			}
			if then.check != nil {
				then.check(t, client)
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
			if !strings.Contains(logs.String(), then.log) {
				t.Errorf("log: %q does not contain %q", logs, then.log)
			}
			if !strings.Contains(stdout.String(), "Schedule:") {
				t.Errorf("the schedule is not shown: %s", stdout)
			}
		}
	}

	t.Run("confirm passes the note", theory(
		when{
			transit: transition.Confirm, done: "confirmed", arg: "3", message: "see you",
			prepare: func(c *mock.MockClient) {
				c.Impl.ConfirmSchedule = func(_ context.Context, id int64, _ string) (apischedules.Schedule, error) {
					return apischedules.Schedule{ScheduleId: id, Status: "CONFIRMED"}, nil
				}
			},
		},
		then{
			log: "schedule 3 is confirmed",
			check: func(t *testing.T, c *mock.MockClient) {
				if len(c.Calls.ConfirmSchedule) != 1 || c.Calls.ConfirmSchedule[0] != (mock.ScheduleNoteArgs{ScheduleId: 3, Text: "see you"}) {
					t.Errorf("ConfirmSchedule: %+v", c.Calls.ConfirmSchedule)
				}
			},
		},
	))

	t.Run("complete ignores the message", theory(
		when{
			transit: transition.Complete, done: "completed", arg: "4", message: "ignored",
			prepare: func(c *mock.MockClient) {
				c.Impl.CompleteSchedule = func(_ context.Context, id int64) (apischedules.Schedule, error) {
					return apischedules.Schedule{ScheduleId: id, Status: "COMPLETED"}, nil
				}
			},
		},
		then{
			log: "schedule 4 is completed",
			check: func(t *testing.T, c *mock.MockClient) {
				if len(c.Calls.CompleteSchedule) != 1 || c.Calls.CompleteSchedule[0] != 4 {
					t.Errorf("CompleteSchedule: %+v", c.Calls.CompleteSchedule)
				}
			},
		},
	))

	fake := errors.New("fake")
	t.Run("cancel returns error from server", theory(
		when{
			transit: transition.Cancel, done: "cancelled", arg: "5", message: "sick",
			prepare: func(c *mock.MockClient) {
				c.Impl.CancelSchedule = func(context.Context, int64, string) (apischedules.Schedule, error) {
					return apischedules.Schedule{}, fake
				}
			},
		},
		then{
			err: fake,
			check: func(t *testing.T, c *mock.MockClient) {
				if len(c.Calls.CancelSchedule) != 1 || c.Calls.CancelSchedule[0] != (mock.ScheduleNoteArgs{ScheduleId: 5, Text: "sick"}) {
					t.Errorf("CancelSchedule: %+v", c.Calls.CancelSchedule)
				}
			},
		},
	))

	t.Run("non-numeric id is usage error", theory(
		when{transit: transition.Cancel, done: "cancelled", arg: "five"},
		then{usageErr: true},
	))
}

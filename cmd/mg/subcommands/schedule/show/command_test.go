package show_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/mindgarden/consultation/cmd/mg/rest"
	"github.com/mindgarden/consultation/cmd/mg/rest/mock"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/internal/commandline"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/logger"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/schedule/show"
	apischedules "github.com/mindgarden/consultation/pkg/api/types/schedules"
	"github.com/mindgarden/consultation/pkg/domain"
	"github.com/youta-t/flarc"
)

func TestTask(t *testing.T) {
	client := int64(7)
	schedule := apischedules.Schedule{
		ScheduleId: 12, ConsultantId: 2, ConsultantName: "Kim",
		ClientId: &client, ClientName: "Park",
		Date:      domain.Date{Year: 2025, Month: 1, Day: 15},
		StartTime: 600, EndTime: 660,
		Status: "BOOKED", ConsultationType: "INDIVIDUAL", Title: "first session",
	}

	type when struct {
		arg     string
		json    bool
		showErr error
	}
	type then struct {
		calledWith []domain.ScheduleId
		contains   []string
		err        error
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			called := []domain.ScheduleId{}
			fakeShow := func(_ context.Context, _ rest.Client, id domain.ScheduleId) (apischedules.Schedule, error) {
				called = append(called, id)
				return schedule, when.showErr
			}

			stdout := new(bytes.Buffer)
			err := show.Task(fakeShow)(
				context.Background(), logger.Null(), mock.New(t),
				commandline.MockCommandline[show.Flag]{
					Stdout_: stdout, Stderr_: io.Discard,
					Flags_: show.Flag{Json: when.json},
					Args_:  map[string][]string{show.ARG_SCHEDULE_ID: {when.arg}},
				},
				[]any{},
			)

			if len(called) != len(then.calledWith) || (len(called) == 1 && called[0] != then.calledWith[0]) {
				t.Errorf("show is called with %v, expected %v", called, then.calledWith)
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
			for _, c := range then.contains {
				if !strings.Contains(stdout.String(), c) {
					t.Errorf("output does not contain %q:\n%s", c, stdout)
				}
			}
			if when.json {
				actual := apischedules.Schedule{}
				if err := json.Unmarshal(stdout.Bytes(), &actual); err != nil {
					t.Fatal(err)
				}
				if !actual.Equal(&schedule) {
					t.Errorf("json: actual = %+v, expected = %+v", actual, schedule)
				}
			}
		}
	}

	t.Run("it shows the schedule", theory(
		when{arg: "12"},
		then{
			calledWith: []domain.ScheduleId{12},
			contains:   []string{"first session", "BOOKED", "2025-01-15", "10:00-11:00", "Kim (#2)", "Park"},
		},
	))

	t.Run("it writes json", theory(
		when{arg: "12", json: true},
		then{calledWith: []domain.ScheduleId{12}},
	))

	t.Run("non-numeric id is usage error", theory(
		when{arg: "twelve"},
		then{err: flarc.ErrUsage},
	))

	fake := errors.New("fake")
	t.Run("error from server is returned", theory(
		when{arg: "12", showErr: fake},
		then{calledWith: []domain.ScheduleId{12}, err: fake},
	))
}

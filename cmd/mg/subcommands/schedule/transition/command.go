// Package transition provides commands moving a schedule forward:
// confirm, complete and cancel.
package transition

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mindgarden/consultation/cmd/mg/render"
	"github.com/mindgarden/consultation/cmd/mg/rest"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/common"
	apischedules "github.com/mindgarden/consultation/pkg/api/types/schedules"
	"github.com/mindgarden/consultation/pkg/domain"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Message string `flag:"message" alias:"m" metavar:"TEXT" help:"Note of the confirmation, or reason of the cancellation."`
	Json    bool   `flag:"json" help:"Write the updated schedule as JSON."`
}

// Transit changes the status of the schedule. message can be empty.
type Transit func(
	ctx context.Context,
	client rest.Client,
	scheduleId domain.ScheduleId,
	message string,
) (apischedules.Schedule, error)

const (
	ARG_SCHEDULE_ID = "SCHEDULE_ID"
)

func Confirm(ctx context.Context, client rest.Client, scheduleId domain.ScheduleId, note string) (apischedules.Schedule, error) {
	return client.ConfirmSchedule(ctx, int64(scheduleId), note)
}

func Complete(ctx context.Context, client rest.Client, scheduleId domain.ScheduleId, _ string) (apischedules.Schedule, error) {
	return client.CompleteSchedule(ctx, int64(scheduleId))
}

func Cancel(ctx context.Context, client rest.Client, scheduleId domain.ScheduleId, reason string) (apischedules.Schedule, error) {
	return client.CancelSchedule(ctx, int64(scheduleId), reason)
}

func NewConfirm() (flarc.Command, error) {
	return newCommand(
		"Confirm a booked schedule.", "confirmed", Confirm,
		`
Confirm a BOOKED schedule. Consultants and admins can confirm.

"--message" is recorded in the notes of the schedule.
`,
	)
}

func NewComplete() (flarc.Command, error) {
	return newCommand(
		"Complete a confirmed schedule.", "completed", Complete,
		`
Complete a CONFIRMED schedule. It uses a session of the mapping
between the consultant and the client.

"--message" is ignored.
`,
	)
}

func NewCancel() (flarc.Command, error) {
	return newCommand(
		"Cancel a schedule.", "cancelled", Cancel,
		`
Cancel a BOOKED or CONFIRMED schedule.

"--message" is recorded as the reason in the notes of the schedule.
`,
	)
}

func newCommand(usage string, done string, transit Transit, description string) (flarc.Command, error) {
	return flarc.NewCommand(
		usage,
		Flag{},
		flarc.Args{
			{
				Name: ARG_SCHEDULE_ID, Required: true,
				Help: "Id of the schedule",
			},
		},
		common.NewTask(Task(transit, done)),
		flarc.WithDescription(description),
	)
}

func Task(transit Transit, done string) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client rest.Client,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		scheduleId, err := domain.ParseScheduleId(cl.Args()[ARG_SCHEDULE_ID][0])
		if err != nil {
			return fmt.Errorf("%w: %s: %w", flarc.ErrUsage, ARG_SCHEDULE_ID, err)
		}

		flags := cl.Flags()
		s, err := transit(ctx, client, scheduleId, flags.Message)
		if err != nil {
			return err
		}
		logger.Printf("schedule %d is %s", s.ScheduleId, done)

		if flags.Json {
			enc := json.NewEncoder(cl.Stdout())
			enc.SetIndent("", "    ")
			return enc.Encode(s)
		}
		return render.Schedule(cl.Stdout(), s)
	}
}

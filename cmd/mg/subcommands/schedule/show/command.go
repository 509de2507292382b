package show

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
	Json bool `flag:"json" help:"Write the schedule as JSON."`
}

type Option struct {
	show func(
		ctx context.Context,
		client rest.Client,
		scheduleId domain.ScheduleId,
	) (apischedules.Schedule, error)
}

func WithShow(
	show func(
		ctx context.Context,
		client rest.Client,
		scheduleId domain.ScheduleId,
	) (apischedules.Schedule, error),
) func(*Option) *Option {
	return func(o *Option) *Option {
		o.show = show
		return o
	}
}

const (
	ARG_SCHEDULE_ID = "SCHEDULE_ID"
)

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		show: RunShowSchedule,
	}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Show the schedule.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_SCHEDULE_ID, Required: true,
				Help: "Id of the schedule to be shown",
			},
		},
		common.NewTask(Task(option.show)),
	)
}

func Task(
	show func(
		ctx context.Context,
		client rest.Client,
		scheduleId domain.ScheduleId,
	) (apischedules.Schedule, error),
) common.Task[Flag] {
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

		s, err := show(ctx, client, scheduleId)
		if err != nil {
			return err
		}

		if cl.Flags().Json {
			enc := json.NewEncoder(cl.Stdout())
			enc.SetIndent("", "    ")
			return enc.Encode(s)
		}
		return render.Schedule(cl.Stdout(), s)
	}
}

func RunShowSchedule(
	ctx context.Context,
	client rest.Client,
	scheduleId domain.ScheduleId,
) (apischedules.Schedule, error) {
	return client.GetSchedule(ctx, int64(scheduleId))
}

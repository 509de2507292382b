package book

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mindgarden/consultation/cmd/mg/render"
	"github.com/mindgarden/consultation/cmd/mg/rest"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/common"
	apischedules "github.com/mindgarden/consultation/pkg/api/types/schedules"
	"github.com/mindgarden/consultation/pkg/domain"
	kargs "github.com/mindgarden/consultation/pkg/utils/args"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Consultant  *kargs.Flag[domain.UserId]           `flag:"consultant" metavar:"USER_ID" help:"Consultant of the session. Required."`
	Client      *kargs.Flag[domain.UserId]           `flag:"client" metavar:"USER_ID" help:"Client of the session. Required."`
	Date        *kargs.Flag[domain.Date]             `flag:"date" alias:"d" metavar:"YYYY-MM-DD" help:"Day of the session. Required."`
	Start       *kargs.Flag[domain.Clock]            `flag:"start" metavar:"HH:MM" help:"Start time of the session. Required."`
	End         *kargs.Flag[domain.Clock]            `flag:"end" metavar:"HH:MM" help:"End time of the session. Defaults to the length of the consultation type."`
	Type        *kargs.Flag[domain.ConsultationType] `flag:"type" alias:"t" metavar:"INDIVIDUAL|FAMILY|COUPLE|..." help:"Consultation type."`
	Title       string                               `flag:"title" metavar:"TEXT" help:"Title of the session. Required."`
	Description string                               `flag:"description" metavar:"TEXT" help:"Description of the session."`
	Json        bool                                 `flag:"json" help:"Write the booked schedule as JSON."`
}

type Option struct {
	book func(
		ctx context.Context,
		client rest.Client,
		req apischedules.BookingRequest,
	) (apischedules.Schedule, error)
}

func WithBook(
	book func(
		ctx context.Context,
		client rest.Client,
		req apischedules.BookingRequest,
	) (apischedules.Schedule, error),
) func(*Option) *Option {
	return func(o *Option) *Option {
		o.book = book
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		book: RunBookSchedule,
	}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Book a consultation session for a client.",
		Flag{
			Consultant: kargs.Parser(domain.ParseUserId),
			Client:     kargs.Parser(domain.ParseUserId),
			Date:       kargs.Parser(domain.ParseDate),
			Start:      kargs.Parser(domain.ParseClock),
			End:        kargs.Parser(domain.ParseClock),
			Type:       kargs.WithDefault(domain.AsConsultationType, domain.Individual),
		},
		flarc.Args{},
		common.NewTask(Task(option.book)),
		flarc.WithDescription(`
Book a consultation session.

The session should not overlap other sessions of the consultant,
and there should be a break (10 minutes) between sessions.
Clients can book only with their consultants of an active mapping.

Example
-------

Book a 50 minutes individual session at 14:00:

	{{ .Command }} --consultant 2 --client 7 --date 2025-01-15 --start 14:00 --title "first session"

Book a family session with the explicit end time:

	{{ .Command }} --consultant 2 --client 7 --date 2025-01-15 --start 14:00 --end 15:30 --type family --title "family session"
`),
	)
}

func Task(
	book func(
		ctx context.Context,
		client rest.Client,
		req apischedules.BookingRequest,
	) (apischedules.Schedule, error),
) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client rest.Client,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		flags := cl.Flags()

		missing := []string{}
		for _, f := range []struct {
			name  string
			given bool
		}{
			{name: "--consultant", given: flags.Consultant.IsSet()},
			{name: "--client", given: flags.Client.IsSet()},
			{name: "--date", given: flags.Date.IsSet()},
			{name: "--start", given: flags.Start.IsSet()},
		} {
			if !f.given {
				missing = append(missing, f.name)
			}
		}
		if strings.TrimSpace(flags.Title) == "" {
			missing = append(missing, "--title")
		}
		if len(missing) != 0 {
			return fmt.Errorf("%w: required flags are missing: %s", flarc.ErrUsage, strings.Join(missing, ", "))
		}

		req := apischedules.BookingRequest{
			ConsultantId:     int64(flags.Consultant.Value()),
			ClientId:         int64(flags.Client.Value()),
			Date:             flags.Date.Value(),
			StartTime:        flags.Start.Value(),
			ConsultationType: domain.Individual.String(),
			Title:            strings.TrimSpace(flags.Title),
			Description:      flags.Description,
		}
		if flags.End.IsSet() {
			end := flags.End.Value()
			req.EndTime = &end
		}
		if flags.Type != nil {
			req.ConsultationType = flags.Type.Value().String()
		}
		if _, err := req.ToSpec(); err != nil {
			return fmt.Errorf("%w: %w", flarc.ErrUsage, err)
		}

		booked, err := book(ctx, client, req)
		if err != nil {
			return err
		}
		logger.Printf("schedule %d is booked", booked.ScheduleId)

		if flags.Json {
			enc := json.NewEncoder(cl.Stdout())
			enc.SetIndent("", "    ")
			return enc.Encode(booked)
		}
		return render.Schedule(cl.Stdout(), booked)
	}
}

func RunBookSchedule(
	ctx context.Context,
	client rest.Client,
	req apischedules.BookingRequest,
) (apischedules.Schedule, error) {
	return client.BookSchedule(ctx, req)
}

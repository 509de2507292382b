package list

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	cerr "github.com/mindgarden/consultation/cmd/mg/errors"
	"github.com/mindgarden/consultation/cmd/mg/render"
	"github.com/mindgarden/consultation/cmd/mg/rest"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/common"
	apischedules "github.com/mindgarden/consultation/pkg/api/types/schedules"
	"github.com/mindgarden/consultation/pkg/domain"
	"github.com/mindgarden/consultation/pkg/domain/schedule/listing"
	kargs "github.com/mindgarden/consultation/pkg/utils/args"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Search     string                          `flag:"search" alias:"q" metavar:"WORD" help:"Show schedules whose title, consultant, client or description contains WORD."`
	Filter     *kargs.Flag[listing.Category]   `flag:"filter" alias:"f" metavar:"CATEGORY" help:"Show schedules in the category. See below for categories."`
	Sort       *kargs.Flag[listing.SortOption] `flag:"sort" alias:"s" metavar:"ORDER" help:"Order of schedules. See below for orders."`
	Page       int                             `flag:"page" alias:"p" metavar:"N" help:"Page number to be shown, from 1."`
	Size       int                             `flag:"size" metavar:"N" help:"Schedules in a page."`
	Consultant *kargs.Flag[domain.UserId]      `flag:"consultant" metavar:"USER_ID" help:"Show schedules of the consultant only."`
	Since      *kargs.Flag[domain.Date]        `flag:"since" metavar:"YYYY-MM-DD" help:"Show schedules on the day or later."`
	Until      *kargs.Flag[domain.Date]        `flag:"until" metavar:"YYYY-MM-DD" help:"Show schedules on the day or earlier."`
	Json       bool                            `flag:"json" help:"Write the page as JSON."`
}

type Option struct {
	fetch func(
		ctx context.Context,
		client rest.Client,
		param rest.FindScheduleParameter,
	) ([]apischedules.Schedule, error)

	now func() time.Time
}

func WithFetch(
	fetch func(
		ctx context.Context,
		client rest.Client,
		param rest.FindScheduleParameter,
	) ([]apischedules.Schedule, error),
) func(*Option) *Option {
	return func(o *Option) *Option {
		o.fetch = fetch
		return o
	}
}

func WithClock(now func() time.Time) func(*Option) *Option {
	return func(o *Option) *Option {
		o.now = now
		return o
	}
}

func names[T fmt.Stringer](ts []T) string {
	ns := make([]string, len(ts))
	for i, t := range ts {
		ns[i] = t.String()
	}
	return strings.Join(ns, ", ")
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		fetch: RunFetchSchedules,
		now:   time.Now,
	}
	for _, o := range options {
		option = o(option)
	}

	sizes := make([]string, 0, len(listing.PageSizes()))
	for _, s := range listing.PageSizes() {
		sizes = append(sizes, fmt.Sprint(s))
	}

	return flarc.NewCommand(
		"List schedules, page by page.",
		Flag{
			Filter:     kargs.WithDefault(listing.AsCategory, listing.All),
			Sort:       kargs.WithDefault(listing.AsSortOption, listing.DefaultSort),
			Page:       1,
			Size:       listing.DefaultPageSize,
			Consultant: kargs.Parser(domain.ParseUserId),
			Since:      kargs.Parser(domain.ParseDate),
			Until:      kargs.Parser(domain.ParseDate),
		},
		flarc.Args{},
		common.NewTask(Task(option.fetch, option.now)),
		flarc.WithDescription(fmt.Sprintf(`
List schedules which you can see, filtered, sorted and paginated.

Categories for --filter:

	%s

Orders for --sort:

	%s

Page sizes shown in the web console are %s. Other positive sizes are also accepted.

Example
-------

Upcoming schedules of Kim, in date order:

	{{ .Command }} --filter upcoming --sort date_asc --search Kim

The 2nd page of cancelled schedules, 20 schedules per page:

	{{ .Command }} --filter cancelled --page 2 --size 20
`,
			names(listing.Categories()), names(listing.SortOptions()), strings.Join(sizes, ", "),
		)),
	)
}

func Task(
	fetch func(
		ctx context.Context,
		client rest.Client,
		param rest.FindScheduleParameter,
	) ([]apischedules.Schedule, error),
	now func() time.Time,
) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client rest.Client,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		flags := cl.Flags()
		if flags.Page < 1 {
			return fmt.Errorf("%w: --page should be 1 or more", flarc.ErrUsage)
		}
		if flags.Size < 1 {
			return fmt.Errorf("%w: --size should be 1 or more", flarc.ErrUsage)
		}

		param := rest.FindScheduleParameter{}
		if f := flags.Consultant; f.IsSet() {
			id := int64(f.Value())
			param.ConsultantId = &id
		}
		if f := flags.Since; f.IsSet() {
			d := f.Value()
			param.Since = &d
		}
		if f := flags.Until; f.IsSet() {
			d := f.Value()
			param.Until = &d
		}

		found, err := fetch(ctx, client, param)
		if err != nil {
			return cerr.NewCuiError(
				"failed to load schedules.",
				cerr.WithCause(err),
				cerr.WithHint("Check the connection to the server, and run the command again."),
			)
		}

		schedules := make([]domain.Schedule, 0, len(found))
		for _, s := range found {
			schedules = append(schedules, s.ToDomain())
		}

		query := listing.Query{
			Search:   flags.Search,
			Category: listing.All,
			Sort:     listing.DefaultSort,
			Page:     flags.Page,
			PageSize: flags.Size,
		}
		if flags.Filter != nil {
			query.Category = flags.Filter.Value()
		}
		if flags.Sort != nil {
			query.Sort = flags.Sort.Value()
		}

		page := apischedules.ComposePage(listing.Run(now(), schedules, query))
		if flags.Json {
			enc := json.NewEncoder(cl.Stdout())
			enc.SetIndent("", "    ")
			return enc.Encode(page)
		}
		return render.SchedulePage(cl.Stdout(), page)
	}
}

func RunFetchSchedules(
	ctx context.Context,
	client rest.Client,
	param rest.FindScheduleParameter,
) ([]apischedules.Schedule, error) {
	return client.FindSchedules(ctx, param)
}

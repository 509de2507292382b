package list

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/mindgarden/consultation/cmd/mg/render"
	"github.com/mindgarden/consultation/cmd/mg/rest"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/common"
	apimappings "github.com/mindgarden/consultation/pkg/api/types/mappings"
	"github.com/mindgarden/consultation/pkg/domain"
	kargs "github.com/mindgarden/consultation/pkg/utils/args"
	"github.com/youta-t/flarc"
)

// Statuses is a flag.Value collecting mapping statuses.
// It accepts comma separated statuses, and can be repeated.
type Statuses []domain.MappingStatus

func (s *Statuses) String() string {
	if s == nil {
		return ""
	}
	names := make([]string, len(*s))
	for i, st := range *s {
		names[i] = st.String()
	}
	return strings.Join(names, ",")
}

func (s *Statuses) Set(v string) error {
	for _, name := range strings.Split(v, ",") {
		st, err := domain.AsMappingStatus(name)
		if err != nil {
			return err
		}
		*s = append(*s, st)
	}
	return nil
}

type Flag struct {
	Consultant *kargs.Flag[domain.UserId] `flag:"consultant" metavar:"USER_ID" help:"Show mappings of the consultant."`
	Client     *kargs.Flag[domain.UserId] `flag:"client" metavar:"USER_ID" help:"Show mappings of the client."`
	Status     *Statuses                  `flag:"status" alias:"s" metavar:"STATUS[,STATUS...]" help:"Show mappings in the statuses. Repeatable."`
	Json       bool                       `flag:"json" help:"Write mappings as JSON."`
}

type Option struct {
	find func(
		ctx context.Context,
		client rest.Client,
		param rest.FindMappingParameter,
	) ([]apimappings.Mapping, error)
}

func WithFind(
	find func(
		ctx context.Context,
		client rest.Client,
		param rest.FindMappingParameter,
	) ([]apimappings.Mapping, error),
) func(*Option) *Option {
	return func(o *Option) *Option {
		o.find = find
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		find: RunFindMappings,
	}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"List mappings between consultants and clients.",
		Flag{
			Consultant: kargs.Parser(domain.ParseUserId),
			Client:     kargs.Parser(domain.ParseUserId),
			Status:     &Statuses{},
		},
		flarc.Args{},
		common.NewTask(Task(option.find)),
		flarc.WithDescription(`
List mappings which you can see.

Statuses are PENDING_PAYMENT, PAYMENT_CONFIRMED, ACTIVE, SESSIONS_EXHAUSTED and TERMINATED.

Example
-------

Mappings waiting for approval:

	{{ .Command }} --status payment_confirmed

Active mappings of a consultant:

	{{ .Command }} --consultant 2 --status active
`),
	)
}

func Task(
	find func(
		ctx context.Context,
		client rest.Client,
		param rest.FindMappingParameter,
	) ([]apimappings.Mapping, error),
) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client rest.Client,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		flags := cl.Flags()
		param := rest.FindMappingParameter{}
		if flags.Consultant.IsSet() {
			id := int64(flags.Consultant.Value())
			param.ConsultantId = &id
		}
		if flags.Client.IsSet() {
			id := int64(flags.Client.Value())
			param.ClientId = &id
		}
		if flags.Status != nil {
			for _, s := range *flags.Status {
				param.Status = append(param.Status, s.String())
			}
		}

		found, err := find(ctx, client, param)
		if err != nil {
			return err
		}

		if flags.Json {
			enc := json.NewEncoder(cl.Stdout())
			enc.SetIndent("", "    ")
			return enc.Encode(found)
		}
		return render.Mappings(cl.Stdout(), found)
	}
}

func RunFindMappings(
	ctx context.Context,
	client rest.Client,
	param rest.FindMappingParameter,
) ([]apimappings.Mapping, error) {
	return client.FindMappings(ctx, param)
}

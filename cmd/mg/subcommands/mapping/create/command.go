package create

import (
	"context"
	"fmt"
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

type Flag struct {
	Consultant *kargs.Flag[domain.UserId] `flag:"consultant" metavar:"USER_ID" help:"Consultant of the mapping. Required."`
	Client     *kargs.Flag[domain.UserId] `flag:"client" metavar:"USER_ID" help:"Client of the mapping. Required."`
	Package    string                     `flag:"package" metavar:"NAME" help:"Name of the session package. Required."`
	Price      int64                      `flag:"price" metavar:"AMOUNT" help:"Price of the package."`
	Sessions   int                        `flag:"sessions" metavar:"N" help:"Sessions in the package. Required."`
	Notes      string                     `flag:"notes" metavar:"TEXT" help:"Notes of the mapping."`
	Json       bool                       `flag:"json" help:"Write the created mapping as JSON."`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Map a client to a consultant with a session package.",
		Flag{
			Consultant: kargs.Parser(domain.ParseUserId),
			Client:     kargs.Parser(domain.ParseUserId),
		},
		flarc.Args{},
		common.NewTask[Flag](Task),
		flarc.WithDescription(`
Create a mapping between a consultant and a client. Only admins can create.

The mapping starts as PENDING_PAYMENT.
Confirm the payment and approve it to let the client book sessions.

Example
-------

	{{ .Command }} --consultant 2 --client 7 --package "basic 10" --price 500000 --sessions 10
`),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	client rest.Client,
	cl flarc.Commandline[Flag],
	params []any,
) error {
	flags := cl.Flags()

	missing := []string{}
	if !flags.Consultant.IsSet() {
		missing = append(missing, "--consultant")
	}
	if !flags.Client.IsSet() {
		missing = append(missing, "--client")
	}
	if strings.TrimSpace(flags.Package) == "" {
		missing = append(missing, "--package")
	}
	if flags.Sessions == 0 {
		missing = append(missing, "--sessions")
	}
	if len(missing) != 0 {
		return fmt.Errorf("%w: required flags are missing: %s", flarc.ErrUsage, strings.Join(missing, ", "))
	}

	req := apimappings.CreateRequest{
		ConsultantId:  int64(flags.Consultant.Value()),
		ClientId:      int64(flags.Client.Value()),
		PackageName:   strings.TrimSpace(flags.Package),
		PackagePrice:  flags.Price,
		TotalSessions: flags.Sessions,
		Notes:         flags.Notes,
	}
	if _, err := req.ToSpec(); err != nil {
		return fmt.Errorf("%w: %w", flarc.ErrUsage, err)
	}

	m, err := client.CreateMapping(ctx, req)
	if err != nil {
		return err
	}
	logger.Printf("mapping %d is created", m.MappingId)

	if flags.Json {
		return render.JSON(cl.Stdout(), m)
	}
	return render.Mapping(cl.Stdout(), m)
}

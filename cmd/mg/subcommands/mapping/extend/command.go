package extend

import (
	"context"
	"fmt"
	"log"

	"github.com/mindgarden/consultation/cmd/mg/render"
	"github.com/mindgarden/consultation/cmd/mg/rest"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/common"
	apimappings "github.com/mindgarden/consultation/pkg/api/types/mappings"
	"github.com/mindgarden/consultation/pkg/domain"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Sessions int    `flag:"sessions" metavar:"N" help:"Sessions to be added. Required."`
	Package  string `flag:"package" metavar:"NAME" help:"New package name. Kept when omitted."`
	Price    int64  `flag:"price" metavar:"AMOUNT" help:"Price of the added sessions."`
	Json     bool   `flag:"json" help:"Write the extended mapping as JSON."`
}

const (
	ARG_MAPPING_ID = "MAPPING_ID"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Add sessions to a mapping.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_MAPPING_ID, Required: true,
				Help: "Id of the mapping to be extended",
			},
		},
		common.NewTask[Flag](Task),
		flarc.WithDescription(`
Add sessions to an ACTIVE or SESSIONS_EXHAUSTED mapping. Only admins can extend.

The price is added to the package price. A SESSIONS_EXHAUSTED mapping gets ACTIVE again.
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
	mappingId, err := domain.ParseMappingId(cl.Args()[ARG_MAPPING_ID][0])
	if err != nil {
		return fmt.Errorf("%w: %s: %w", flarc.ErrUsage, ARG_MAPPING_ID, err)
	}

	flags := cl.Flags()
	req := apimappings.ExtendRequest{
		Sessions:    flags.Sessions,
		PackageName: flags.Package,
		Price:       flags.Price,
	}
	if _, err := req.ToExtension(); err != nil {
		return fmt.Errorf("%w: %w", flarc.ErrUsage, err)
	}

	m, err := client.ExtendMapping(ctx, int64(mappingId), req)
	if err != nil {
		return err
	}
	logger.Printf("mapping %d has %d session(s) left", m.MappingId, m.RemainingSessions)

	if flags.Json {
		return render.JSON(cl.Stdout(), m)
	}
	return render.Mapping(cl.Stdout(), m)
}

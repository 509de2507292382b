package show

import (
	"context"
	"fmt"
	"log"

	"github.com/mindgarden/consultation/cmd/mg/render"
	"github.com/mindgarden/consultation/cmd/mg/rest"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/common"
	"github.com/mindgarden/consultation/pkg/domain"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Json bool `flag:"json" help:"Write the mapping as JSON."`
}

const (
	ARG_MAPPING_ID = "MAPPING_ID"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show the mapping.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_MAPPING_ID, Required: true,
				Help: "Id of the mapping to be shown",
			},
		},
		common.NewTask[Flag](Task),
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
	m, err := client.GetMapping(ctx, int64(mappingId))
	if err != nil {
		return err
	}
	if cl.Flags().Json {
		return render.JSON(cl.Stdout(), m)
	}
	return render.Mapping(cl.Stdout(), m)
}

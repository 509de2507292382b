package whoami

import (
	"context"
	"fmt"
	"log"

	"github.com/mindgarden/consultation/cmd/mg/render"
	"github.com/mindgarden/consultation/cmd/mg/rest"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/common"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Json bool `flag:"json" help:"Write the user as JSON."`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show the user of the profile.",
		Flag{},
		flarc.Args{},
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
	u, err := client.WhoAmI(ctx)
	if err != nil {
		return err
	}
	if cl.Flags().Json {
		return render.JSON(cl.Stdout(), u)
	}
	_, err = fmt.Fprintf(cl.Stdout(), "%s <%s> (#%d, %s)\n", u.Name, u.Email, u.UserId, u.Role)
	return err
}

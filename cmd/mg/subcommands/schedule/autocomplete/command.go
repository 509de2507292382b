package autocomplete

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mindgarden/consultation/cmd/mg/rest"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/common"
	apischedules "github.com/mindgarden/consultation/pkg/api/types/schedules"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Json bool `flag:"json" help:"Write the result as JSON."`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Complete confirmed schedules which have ended.",
		Flag{},
		flarc.Args{},
		common.NewTask[Flag](Task),
		flarc.WithDescription(`
Complete CONFIRMED schedules whose end time has passed, at once.
Only admins can do this.

The server does the same thing periodically with "mgloop",
so this command is for catching up by hand.
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
	result, err := client.AutoComplete(ctx)
	if err != nil {
		return err
	}
	if result.Completed == nil {
		result.Completed = []int64{}
	}

	if cl.Flags().Json {
		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		return enc.Encode(result)
	}
	return write(cl, result)
}

func write(cl flarc.Commandline[Flag], result apischedules.AutoCompleteResult) error {
	if len(result.Completed) == 0 {
		_, err := fmt.Fprintln(cl.Stdout(), "no schedules to be completed.")
		return err
	}
	for _, id := range result.Completed {
		if _, err := fmt.Fprintf(cl.Stdout(), "schedule %d is completed\n", id); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/mindgarden/consultation/cmd/mg/subcommands/common"
	subinit "github.com/mindgarden/consultation/cmd/mg/subcommands/init"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/logger"
	submapping "github.com/mindgarden/consultation/cmd/mg/subcommands/mapping"
	subschedule "github.com/mindgarden/consultation/cmd/mg/subcommands/schedule"
	subwhoami "github.com/mindgarden/consultation/cmd/mg/subcommands/whoami"
	"github.com/mindgarden/consultation/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := logger.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := try.To(common.Flags(".")).OrFatal(logger)
	init := try.To(subinit.New()).OrFatal(logger)
	schedule := try.To(subschedule.New()).OrFatal(logger)
	mapping := try.To(submapping.New()).OrFatal(logger)
	whoami := try.To(subwhoami.New()).OrFatal(logger)

	mg := try.To(
		flarc.NewCommandGroup(
			"MindGarden consultation commandline interface",
			cf,
			flarc.WithSubcommand("init", init),
			flarc.WithSubcommand("schedule", schedule),
			flarc.WithSubcommand("mapping", mapping),
			flarc.WithSubcommand("whoami", whoami),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, mg, flarc.WithHelp(true)))
}

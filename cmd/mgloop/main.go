package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mindgarden/consultation/cmd/mgloop/autocomplete"
	"github.com/mindgarden/consultation/cmd/mgloop/recurring"
	configs "github.com/mindgarden/consultation/pkg/configs/server"
	"github.com/mindgarden/consultation/pkg/domain/mindgarden"
	"github.com/mindgarden/consultation/pkg/loop"
	"github.com/mindgarden/consultation/pkg/utils/args"
	"github.com/mindgarden/consultation/pkg/utils/filewatch"
	"github.com/mindgarden/consultation/pkg/utils/try"
)

func main() {
	logger := log.New(os.Stderr, "[autocomplete loop] ", log.LstdFlags)
	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill, syscall.SIGTERM,
	)
	defer cancel()

	pconfig := flag.String(
		"config", os.Getenv("MG_CONFIG"), "path to config file",
	)
	pSchemaRepo := flag.String(
		"schema-repo", "", "schema repository path. overrides the config file.",
	)
	policy := args.WithDefault(recurring.ParsePolicy, recurring.Forever(time.Minute))
	flag.Var(
		policy, "policy",
		`loop policy (syntax: forever[:COOLDOWN]|backlog; default: forever:1m).`+
			` "forever[:COOLDOWN]" = run until error, waiting COOLDOWN when no schedules have ended.`+
			` "backlog" = run until error or no schedules have ended.`,
	)
	ptimeout := flag.Duration("timeout", 30*time.Second, "timeout of each round")
	flag.Parse()

	if *pconfig != "" {
		wctx, wcancel, err := filewatch.UntilModifyContext(ctx, *pconfig)
		if err != nil {
			logger.Fatal(err)
		}
		defer wcancel()
		ctx = wctx
	}

	conf := try.To(configs.LoadServerConfig(*pconfig)).OrFatal(logger)
	repo := conf.SchemaRepository()
	if *pSchemaRepo != "" {
		repo = *pSchemaRepo
	}
	opts := []mindgarden.Option{}
	if repo != "" {
		opts = append(opts, mindgarden.WithSchemaRepository(repo))
	}
	mg := try.To(mindgarden.New(ctx, conf.DBURI(), opts...)).OrFatal(logger)
	defer mg.Close()

	{
		sctx, scancel := mg.Schema().Database().Context(ctx)
		defer scancel()
		ctx = sctx
	}

	logger.Printf(`start loop /w policy "%s"`, policy.Value())

	loc := conf.Location()
	task := autocomplete.Task(
		mg.Schedule().Database(),
		func() time.Time { return time.Now().In(loc) },
		logger,
	)
	total, err := loop.Start(
		ctx, 0,
		task.Applied(recurring.UntilError(policy.Value())),
		loop.WithTimeout(*ptimeout),
	)
	logger.Printf("%d schedule(s) have been completed", total)

	if err == nil {
		return
	} else if errors.Is(err, context.Canceled) {
		cause := context.Cause(ctx)
		if errors.Is(cause, filewatch.ErrModified) {
			logger.Println("stop loop. restart to reload:", cause)
			return
		}
		logger.Fatal(err, " (loop context is cancelled by: ", cause, ")")
	}
	logger.Fatal(err)
}

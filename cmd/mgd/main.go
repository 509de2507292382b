package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/mindgarden/consultation/pkg/auth"
	configs "github.com/mindgarden/consultation/pkg/configs/server"
	"github.com/mindgarden/consultation/pkg/domain"
	"github.com/mindgarden/consultation/pkg/domain/mindgarden"
	"github.com/mindgarden/consultation/pkg/utils/filewatch"
)

// parseCaller parses "ID:ROLE".
func parseCaller(s string) (domain.Caller, error) {
	sid, srole, ok := strings.Cut(s, ":")
	if !ok {
		return domain.Caller{}, fmt.Errorf("%q should be in the form ID:ROLE", s)
	}
	id, err := domain.ParseUserId(sid)
	if err != nil {
		return domain.Caller{}, err
	}
	role, err := domain.AsRole(srole)
	if err != nil {
		return domain.Caller{}, err
	}
	return domain.Caller{UserId: id, Role: role}, nil
}

func main() {
	pconfig := flag.String(
		"config", os.Getenv("MG_CONFIG"), "path to config file",
	)
	schemaRepo := flag.String("schema-repo", "", "schema repository path. overrides the config file.")
	issueToken := flag.String(
		"issue-token", "",
		"print a bearer token for ID:ROLE (for example, 1:ADMIN) and exit",
	)

	flag.Parse()

	conf, err := configs.LoadServerConfig(*pconfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(2)
	}

	now := time.Now
	authority := auth.New(conf.Auth().Key(), conf.Auth().Issuer(), conf.Auth().TTL(), auth.WithClock(now))

	if *issueToken != "" {
		caller, err := parseCaller(*issueToken)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		token, err := authority.Issue(caller)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	if *pconfig != "" {
		ctx_, ccan, err := filewatch.UntilModifyContext(ctx, *pconfig)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to watch config:", err)
			os.Exit(1)
		}
		defer ccan()
		ctx = ctx_
	}

	repo := conf.SchemaRepository()
	if *schemaRepo != "" {
		repo = *schemaRepo
	}
	mgOpts := []mindgarden.Option{}
	if repo != "" {
		mgOpts = append(mgOpts, mindgarden.WithSchemaRepository(repo))
	}
	mg, err := mindgarden.New(ctx, conf.DBURI(), mgOpts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to connect database:", err)
		os.Exit(1)
	}
	{
		ctx_, ccan := mg.Schema().Database().Context(ctx)
		defer ccan()
		ctx = ctx_
	}

	server := BuildServer(mg, conf, authority, now)
	for _, r := range server.Routes() {
		server.Logger.Debugf("- mount handler: %s %s", strings.ToUpper(r.Method), r.Path)
	}

	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		if err := server.Start(fmt.Sprintf(":%d", conf.Port())); err != nil && err != http.ErrServerClosed {
			ch <- err
		}
	}()

	exit := 0
	select {
	case <-ctx.Done():
		if err := ctx.Err(); err != nil {
			server.Logger.Infof("context has been done: %s, cause: %s", err, context.Cause(ctx))
			exit = 1
		}
	case err := <-ch:
		if err != nil {
			server.Logger.Error("server stops with error:", err)
			exit = 1
		}
	}

	server.Logger.Info("shutting down...")
	qctx, qcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer qcancel()

	if err := server.Shutdown(qctx); err != nil {
		server.Logger.Errorf("shutdown with error. %+v", err)
		exit = 1
	}
	mg.Close()
	os.Exit(exit)
}

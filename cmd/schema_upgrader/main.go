package main

import (
	"context"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"

	"github.com/mindgarden/consultation/pkg/domain/mindgarden"
	"github.com/mindgarden/consultation/pkg/utils/try"
	"github.com/youta-t/flarc"
)

type Flag struct {
	DBURI    string `flag:"dburi" metavar:"postgres://..." help:"URI of the database. When given, --host, --port, --user, --pass and --database are ignored."`
	Host     string `flag:"host" help:"The host of the database."`
	Port     int    `flag:"port" help:"The port of the database."`
	User     string `flag:"user" help:"The user of the database."`
	Password string `flag:"pass" help:"The password of the database."`
	Database string `flag:"database" help:"The name of the database."`

	Schema string `flag:"schema" help:"The path to the schema repository directory. The builtin schema is used when omitted."`
}

func (f Flag) uri() string {
	if f.DBURI != "" {
		return f.DBURI
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(f.User, f.Password),
		Host:   f.Host + ":" + strconv.Itoa(f.Port),
		Path:   "/" + f.Database,
	}
	return u.String()
}

func connect(ctx context.Context, flags Flag) (mindgarden.MindGarden, error) {
	options := []mindgarden.Option{}
	if flags.Schema != "" {
		options = append(options, mindgarden.WithSchemaRepository(flags.Schema))
	}
	return mindgarden.New(ctx, flags.uri(), options...)
}

func Task(
	logger *log.Logger,
	connect func(context.Context, Flag) (mindgarden.MindGarden, error),
) flarc.Task[Flag] {
	return func(ctx context.Context, c flarc.Commandline[Flag], _ []any) error {
		mg, err := connect(ctx, c.Flags())
		if err != nil {
			return err
		}
		defer mg.Close()

		schema := mg.Schema().Database()
		before, err := schema.Version(ctx)
		if err != nil {
			return err
		}
		if err := schema.Upgrade(ctx); err != nil {
			return err
		}
		after, err := schema.Version(ctx)
		if err != nil {
			return err
		}

		if before == after {
			logger.Printf("schema is up to date (version %d)", after)
		} else {
			logger.Printf("schema is upgraded: version %d -> %d", before, after)
		}
		return nil
	}
}

func main() {
	logger := log.New(os.Stderr, "[schema upgrader] ", log.LstdFlags)
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt, os.Kill,
	)
	defer cancel()

	port := 5432
	if sp := os.Getenv("DB_PORT"); sp != "" {
		p, err := strconv.Atoi(sp)
		if err == nil {
			port = p
		}
	}

	cmd := try.To(flarc.NewCommand(
		"database schema upgrader",
		Flag{
			DBURI:    os.Getenv("MG_DBURI"),
			Host:     os.Getenv("DB_HOST"),
			Port:     port,
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Database: os.Getenv("DB_NAME"),

			Schema: os.Getenv("MG_SCHEMA"),
		},
		flarc.Args{},
		Task(logger, connect),
	)).OrFatal(logger)

	os.Exit(flarc.Run(ctx, cmd))
}

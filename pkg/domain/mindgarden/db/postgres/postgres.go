package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/mindgarden/consultation/pkg/conn/db/postgres/pool"
	kmapping "github.com/mindgarden/consultation/pkg/domain/mapping/db"
	kpgmapping "github.com/mindgarden/consultation/pkg/domain/mapping/db/postgres"
	dbInterface "github.com/mindgarden/consultation/pkg/domain/mindgarden/db"
	kschedule "github.com/mindgarden/consultation/pkg/domain/schedule/db"
	kpgschedule "github.com/mindgarden/consultation/pkg/domain/schedule/db/postgres"
	kschema "github.com/mindgarden/consultation/pkg/domain/schema/db"
	kpgschema "github.com/mindgarden/consultation/pkg/domain/schema/db/postgres"
	kuser "github.com/mindgarden/consultation/pkg/domain/user/db"
	kpguser "github.com/mindgarden/consultation/pkg/domain/user/db/postgres"
	xe "github.com/mindgarden/consultation/pkg/errors"
)

type mgPostgres struct {
	pool     kpool.Pool
	schedule kschedule.ScheduleInterface
	mapping  kmapping.MappingInterface
	user     kuser.UserInterface
	schema   kschema.SchemaInterface
}

type Config struct {
	// directory of schema repository.
	//
	// When it is empty, the builtin repository is used and not watched.
	SchemaRepository string
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

// New connects to the database and builds stores on it.
func New(ctx context.Context, url string, options ...Option) (dbInterface.Database, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}

	return Attach(kpool.Wrap(pool), c), nil
}

// Attach builds stores on the pool.
func Attach(p kpool.Pool, c Config) dbInterface.Database {
	schema := kpgschema.FromFS(p, kpgschema.Builtin())
	if c.SchemaRepository != "" {
		schema = kpgschema.New(p, c.SchemaRepository)
	}

	return &mgPostgres{
		pool:     p,
		schedule: kpgschedule.New(p),
		mapping:  kpgmapping.New(p),
		user:     kpguser.New(p),
		schema:   schema,
	}
}

func (m *mgPostgres) Schedule() kschedule.ScheduleInterface {
	return m.schedule
}

func (m *mgPostgres) Mapping() kmapping.MappingInterface {
	return m.mapping
}

func (m *mgPostgres) User() kuser.UserInterface {
	return m.user
}

func (m *mgPostgres) Schema() kschema.SchemaInterface {
	return m.schema
}

func (m *mgPostgres) Close() error {
	m.pool.Close()
	return nil
}

package mindgarden

import (
	"context"

	"github.com/mindgarden/consultation/pkg/domain/mapping"
	dbInterface "github.com/mindgarden/consultation/pkg/domain/mindgarden/db"
	"github.com/mindgarden/consultation/pkg/domain/mindgarden/db/postgres"
	"github.com/mindgarden/consultation/pkg/domain/schedule"
	"github.com/mindgarden/consultation/pkg/domain/schema"
	"github.com/mindgarden/consultation/pkg/domain/user"
)

type MindGarden interface {
	Schedule() schedule.Interface
	Mapping() mapping.Interface
	User() user.Interface
	Schema() schema.Interface

	// Close releases connections to the database.
	Close() error
}

type mindgarden struct {
	database dbInterface.Database

	schedule schedule.Interface
	mapping  mapping.Interface
	user     user.Interface
	schema   schema.Interface
}

// New connects to the database at dburi.
func New(ctx context.Context, dburi string, options ...Option) (MindGarden, error) {
	opt := &_options{}
	for _, o := range options {
		o(opt)
	}

	pg, err := postgres.New(ctx, dburi, opt.pg...)
	if err != nil {
		return nil, err
	}
	return FromDatabase(pg), nil
}

// FromDatabase builds MindGarden on stores.
func FromDatabase(database dbInterface.Database) MindGarden {
	return &mindgarden{
		database: database,
		schedule: schedule.New(database.Schedule()),
		mapping:  mapping.New(database.Mapping()),
		user:     user.New(database.User()),
		schema:   schema.New(database.Schema()),
	}
}

type Option func(*_options)

type _options struct {
	pg []postgres.Option
}

func WithSchemaRepository(repository string) Option {
	return func(o *_options) {
		o.pg = append(o.pg, postgres.WithSchemaRepository(repository))
	}
}

func (m *mindgarden) Schedule() schedule.Interface {
	return m.schedule
}

func (m *mindgarden) Mapping() mapping.Interface {
	return m.mapping
}

func (m *mindgarden) User() user.Interface {
	return m.user
}

func (m *mindgarden) Schema() schema.Interface {
	return m.schema
}

func (m *mindgarden) Close() error {
	return m.database.Close()
}

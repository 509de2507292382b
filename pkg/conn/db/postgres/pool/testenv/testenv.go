//go:build container

package testenv

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/mindgarden/consultation/pkg/conn/db/postgres/pool"
	pgschema "github.com/mindgarden/consultation/pkg/domain/schema/db/postgres"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PoolBroaker is a interface to get a pool.
type PoolBroaker interface {
	// GetPool returns a pool.
	//
	// Tables are cleaned up before returning and after t.
	GetPool(ctx context.Context, t *testing.T) kpool.Pool
}

type pg struct {
	pool *pgxpool.Pool
}

func (p *pg) GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Helper()
	t.Cleanup(func() {
		ClearTables(context.Background(), p.pool, t)
	})
	ClearTables(ctx, p.pool, t)
	return kpool.Wrap(p.pool)
}

type pgConnOptions struct {
	Image    string
	User     string
	Password string
	Dbname   string
	NoSchema bool
}

type PgConnOption func(*pgConnOptions) *pgConnOptions

func WithImage(image string) PgConnOption {
	return func(o *pgConnOptions) *pgConnOptions {
		o.Image = image
		return o
	}
}

// WithoutSchema skips applying the builtin schema.
func WithoutSchema() PgConnOption {
	return func(o *pgConnOptions) *pgConnOptions {
		o.NoSchema = true
		return o
	}
}

// NewPoolBroaker starts a postgres container and returns PoolBroaker connecting to it.
//
// The builtin schema is applied unless WithoutSchema is given.
// The container is terminated when t is finished.
func NewPoolBroaker(ctx context.Context, t *testing.T, options ...PgConnOption) PoolBroaker {
	t.Helper()

	opts := &pgConnOptions{
		Image:    "postgres:16-alpine",
		User:     "test-user",
		Password: "test-pass",
		Dbname:   "mindgarden",
	}
	for _, o := range options {
		opts = o(opts)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.Image,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     opts.User,
				"POSTGRES_PASSWORD": opts.Password,
				"POSTGRES_DB":       opts.Dbname,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.Connect(
		ctx,
		fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			opts.User, opts.Password, host, port.Port(), opts.Dbname,
		),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if !opts.NoSchema {
		if err := pgschema.FromFS(kpool.Wrap(pool), pgschema.Builtin()).Upgrade(ctx); err != nil {
			t.Fatalf("failed to apply schema: %v", err)
		}
	}

	return &pg{pool: pool}
}

// ClearTables removes all records and resets id sequences.
func ClearTables(ctx context.Context, p *pgxpool.Pool, t *testing.T) {
	t.Helper()

	if _, err := p.Exec(
		ctx, `TRUNCATE "schedule", "mapping", "user" RESTART IDENTITY CASCADE`,
	); err != nil {
		t.Logf("fail to clean-up tables (ignored): %v", err)
	}
}

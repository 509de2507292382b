package postgres

import (
	"cmp"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kpool "github.com/mindgarden/consultation/pkg/conn/db/postgres/pool"
	"github.com/mindgarden/consultation/pkg/domain/schema/db"
	xe "github.com/mindgarden/consultation/pkg/errors"
)

//go:embed repository
var builtin embed.FS

// Builtin returns the schema repository bundled in the binary.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtin, "repository")
	if err != nil {
		panic(err) // the directory is embedded. never happen.
	}
	return sub
}

type pgSchema struct {
	pool kpool.Pool

	repository fs.FS

	// directory of the repository, if it is on the file system. Empty for Builtin.
	dir string
}

var _ db.SchemaInterface = &pgSchema{}

// New creates a new Schema from the repository directory.
//
// The repository directory has subdirectories named by version numbers,
// and each subdirectory has .sql files which are applied in lexical order.
func New(pool kpool.Pool, schemaRepository string) db.SchemaInterface {
	return &pgSchema{
		pool:       pool,
		repository: os.DirFS(schemaRepository),
		dir:        schemaRepository,
	}
}

// FromFS creates a new Schema from the repository on fs.
//
// Schema made by this does not watch the repository.
func FromFS(pool kpool.Pool, repository fs.FS) db.SchemaInterface {
	return &pgSchema{pool: pool, repository: repository}
}

type version struct {
	Version int
	Root    string
}

func (v version) Apply(ctx context.Context, repo fs.FS, conn kpool.Queryer) error {
	return fs.WalkDir(repo, v.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".sql") {
			return nil
		}

		query, err := fs.ReadFile(repo, p)
		if err != nil {
			return err
		}
		if _, err := conn.Exec(ctx, string(query)); err != nil {
			return xe.WrapWithNote(p, err)
		}
		return nil
	})
}

func (s *pgSchema) Version(ctx context.Context) (int, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return -1, xe.Wrap(err)
	}
	defer conn.Release()

	var version int
	if err := conn.QueryRow(
		ctx, `SELECT coalesce(max("version"), 0) FROM "schema_version"`,
	).Scan(&version); err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) {
			if pgerr.Code == pgerrcode.UndefinedTable {
				return 0, nil
			}
		}
		return -1, xe.Wrap(err)
	}

	return version, nil
}

func (s *pgSchema) Upgrade(ctx context.Context) error {
	versions, err := s.versions()
	if err != nil {
		return xe.Wrap(err)
	}

	current, err := s.Version(ctx)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	for _, v := range versions {
		if v.Version <= current {
			continue
		}
		if err := v.Apply(ctx, s.repository, tx); err != nil {
			return xe.WrapWithNote(fmt.Sprintf("version %d", v.Version), err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM "schema_version"`); err != nil {
			return xe.Wrap(err)
		}
		if _, err := tx.Exec(
			ctx, `INSERT INTO "schema_version" ("version") VALUES ($1)`, v.Version,
		); err != nil {
			return xe.Wrap(err)
		}
	}

	return xe.Wrap(tx.Commit(ctx))
}

func (s *pgSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	cctx, can := context.WithCancelCause(ctx)

	checkVersion := func() {
		vs, err := s.versions()
		if err != nil {
			can(fmt.Errorf("failed to read schema repository: %w", err))
			return
		}
		current, err := s.Version(cctx)
		if err != nil {
			can(fmt.Errorf("failed to get current schema version: %w", err))
			return
		}
		if len(vs) == 0 {
			return
		}
		if latest := vs[len(vs)-1]; current < latest.Version {
			can(fmt.Errorf(
				"schema is outdated: %d (in db) < %d (in repository)",
				current, latest.Version,
			))
		}
	}

	if s.dir == "" {
		checkVersion()
		return cctx, func() { can(nil) }
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		can(err)
		return cctx, func() {}
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		can(err)
		return cctx, func() {}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
					continue
				}
				if filepath.Clean(s.dir) != filepath.Dir(ev.Name) {
					continue
				}
				checkVersion()
			}
		}
	}()

	checkVersion()
	return cctx, func() { can(nil) }
}

// versions looks up schema versions in the repository, sorted by version number.
func (s *pgSchema) versions() ([]version, error) {
	entries, err := fs.ReadDir(s.repository, ".")
	if err != nil {
		return nil, err
	}

	vs := make([]version, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		vs = append(vs, version{Version: v, Root: path.Clean(entry.Name())})
	}
	slices.SortFunc(vs, func(a, b version) int { return cmp.Compare(a.Version, b.Version) })

	return vs, nil
}

// Null is a schema without repository.
//
// It never upgrades and never gets outdated.
func Null() db.SchemaInterface {
	return nullSchema{}
}

type nullSchema struct{}

func (nullSchema) Upgrade(context.Context) error {
	return errors.New("no schema repository available")
}

func (nullSchema) Version(context.Context) (int, error) {
	return -1, nil
}

func (nullSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithCancel(ctx)
}

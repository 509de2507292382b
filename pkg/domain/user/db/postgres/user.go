package postgres

import (
	"context"

	kpool "github.com/mindgarden/consultation/pkg/conn/db/postgres/pool"
	"github.com/mindgarden/consultation/pkg/conn/db/postgres/scanner"
	"github.com/mindgarden/consultation/pkg/domain"
	pgerr "github.com/mindgarden/consultation/pkg/domain/errors/dberrors/postgres"
	"github.com/mindgarden/consultation/pkg/domain/user/db"
	xe "github.com/mindgarden/consultation/pkg/errors"
)

type pgUser struct {
	pool kpool.Pool
}

var _ db.UserInterface = &pgUser{}

func New(pool kpool.Pool) db.UserInterface {
	return &pgUser{pool: pool}
}

type userRow struct {
	UserId int64
	Name   string
	Role   string
	Email  string
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		Id:    domain.UserId(r.UserId),
		Name:  r.Name,
		Role:  domain.Role(r.Role),
		Email: r.Email,
	}
}

func (m *pgUser) Register(ctx context.Context, spec domain.UserSpec) (domain.UserId, error) {
	if _, err := domain.AsRole(string(spec.Role)); err != nil {
		return 0, err
	}

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	defer conn.Release()

	var id int64
	if err := conn.QueryRow(
		ctx,
		`insert into "user" ("name", "role", "email") values ($1, $2, $3) returning "user_id"`,
		spec.Name, string(spec.Role), spec.Email,
	).Scan(&id); err != nil {
		return 0, xe.Wrap(pgerr.Translate(err, "user"))
	}

	return domain.UserId(id), nil
}

func (m *pgUser) Get(ctx context.Context, ids []domain.UserId) (map[domain.UserId]*domain.User, error) {
	ret := map[domain.UserId]*domain.User{}
	if len(ids) == 0 {
		return ret, nil
	}

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, int64(id))
	}

	rows, err := scanner.New[userRow]().QueryAll(
		ctx, conn,
		`select "user_id", "name", "role", "email" from "user" where "user_id" = any($1)`,
		raw,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	for _, r := range rows {
		u := r.toDomain()
		ret[u.Id] = &u
	}
	return ret, nil
}

func (m *pgUser) Find(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	var r *string
	if role != nil {
		s := string(*role)
		r = &s
	}

	rows, err := scanner.New[userRow]().QueryAll(
		ctx, conn,
		`
		select "user_id", "name", "role", "email" from "user"
		where $1::varchar is null or "role" = $1
		order by "name", "user_id"
		`,
		r,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	ret := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.toDomain())
	}
	return ret, nil
}

package scanner

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v4"
)

type Queryer interface {
	Query(context.Context, string, ...any) (pgx.Rows, error)
}

// Scanner converts rows into structs, type-safely.
//
// # example
//
//	type scheduleRow struct {
//		Id    int64       `sql:"schedule_id"`
//		Date  pgtype.Date
//		Start pgtype.Time `sql:"start_time"`
//	}
//
//	rows, err := scanner.New[scheduleRow]().QueryAll(
//		ctx, conn, `select "schedule_id", "date", "start_time" from "schedule"`,
//	)
//
// # mapping rule
//
// A column is mapped into
//
//  1. the field with tag `sql:"column_name"`,
//  2. or, the field named as same as the column,
//  3. or, the field named in CamelCase of the column ("client_name" -> "ClientName").
//
// Columns without field are errors.
type Scanner[T any] interface {
	// ScanAll reads all rows and closes them.
	ScanAll(pgx.Rows) ([]T, error)

	// QueryAll sends query and reads all rows of the result.
	QueryAll(ctx context.Context, conn Queryer, query string, args ...any) ([]T, error)
}

type scanner[T any] struct {
	byTag  map[string]string
	byName map[string]string
}

// New makes Scanner for the struct type T.
func New[T any]() Scanner[T] {
	t := reflect.TypeOf(*new(T))
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("scanner: %s is not a struct", t))
	}

	byTag := map[string]string{}
	byName := map[string]string{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		byName[f.Name] = f.Name
		if tag, ok := f.Tag.Lookup("sql"); ok {
			byTag[tag] = f.Name
		}
	}
	return &scanner[T]{byTag: byTag, byName: byName}
}

func camel(column string) string {
	b := &strings.Builder{}
	for _, word := range strings.Split(column, "_") {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	return b.String()
}

func (s *scanner[T]) fieldFor(column string) (string, bool) {
	if f, ok := s.byTag[column]; ok {
		return f, true
	}
	if f, ok := s.byName[column]; ok {
		return f, true
	}
	f, ok := s.byName[camel(column)]
	return f, ok
}

func (s *scanner[T]) ScanAll(rows pgx.Rows) ([]T, error) {
	defer rows.Close()

	descs := rows.FieldDescriptions()
	fields := make([]string, 0, len(descs))
	for _, fd := range descs {
		f, ok := s.fieldFor(string(fd.Name))
		if !ok {
			return nil, fmt.Errorf(
				`field for column "%s" is not found in type "%T"`, fd.Name, *new(T),
			)
		}
		fields = append(fields, f)
	}

	ret := []T{}
	for rows.Next() {
		elem := new(T)
		v := reflect.ValueOf(elem).Elem()
		dest := make([]any, len(fields))
		for nth, f := range fields {
			dest[nth] = v.FieldByName(f).Addr().Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		ret = append(ret, *elem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *scanner[T]) QueryAll(ctx context.Context, conn Queryer, query string, args ...any) ([]T, error) {
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return s.ScanAll(rows)
}

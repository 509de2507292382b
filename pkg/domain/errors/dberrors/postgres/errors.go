package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
)

// requested data is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}
func (m Missing) Unwrap() error {
	return domerr.ErrMissing
}

// requested data is found too much.
type TooMuch struct {
	Table    string
	Identity string
	Expected int
}

var _ error = TooMuch{}

func (t TooMuch) Error() string {
	return fmt.Sprintf(
		"%s is found in %s more than %d times",
		t.Identity, t.Table, t.Expected,
	)
}

func (t TooMuch) Unwrap() error {
	return domerr.ErrTooMuch
}

// requested record collides with another record.
type Conflict struct {
	Table   string
	Subject string
	Reason  string
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	return fmt.Sprintf("%s in %s: %s", c.Subject, c.Table, c.Reason)
}

func (c Conflict) Unwrap() error {
	return domerr.ErrConflict
}

// status of the record does not allow the operation.
type InvalidState struct {
	Table    string
	Identity string
	Status   string
	Op       string
}

var _ error = InvalidState{}

func (i InvalidState) Error() string {
	return fmt.Sprintf(
		"%s in %s is %s: cannot %s", i.Identity, i.Table, i.Status, i.Op,
	)
}

func (i InvalidState) Unwrap() error {
	return domerr.ErrInvalidState
}

// Translate converts errors from postgres into domain errors.
//
// - unique violation -> ErrConflict
//
// - foreign key violation -> ErrMissing (referred record is not there)
//
// - check violation -> ErrInvalidValue
//
// Others are returned as is.
func Translate(err error, table string) error {
	if err == nil {
		return nil
	}
	pgerr := new(pgconn.PgError)
	if !errors.As(err, &pgerr) {
		return err
	}
	switch pgerr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf(
			"%w: %w", Conflict{Table: table, Subject: pgerr.ConstraintName, Reason: pgerr.Detail}, err,
		)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf(
			"%w: %w", Missing{Table: table, Identity: pgerr.Detail}, err,
		)
	case pgerrcode.CheckViolation:
		return fmt.Errorf("%w: %s: %w", domerr.ErrInvalidValue, pgerr.ConstraintName, err)
	}
	return err
}

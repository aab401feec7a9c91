package sqlerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Code is the constraint category of a database error.
type Code int

const (
	Other Code = iota
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
)

func (c Code) String() string {
	switch c {
	case UniqueViolation:
		return "unique_violation"
	case ForeignKeyViolation:
		return "foreign_key_violation"
	case NotNullViolation:
		return "not_null_violation"
	case CheckViolation:
		return "check_violation"
	default:
		return "other"
	}
}

// ErrIntegrity matches every constraint violation through errors.Is.
var ErrIntegrity = errors.New("integrity constraint violation")

// Error is a driver error normalised across Postgres and SQLite.
type Error struct {
	Code           Code
	TableName      string
	ColumnName     string
	ConstraintName string
	Message        string
	driverErr      error
}

func (e *Error) Error() string {
	if e.ColumnName != "" {
		return fmt.Sprintf("%s on %s.%s: %s", e.Code, e.TableName, e.ColumnName, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

func (e *Error) Is(target error) bool {
	return target == ErrIntegrity && e.Code != Other
}

// Convert wraps constraint violations in *Error and returns anything else
// unchanged.
func Convert(err error) error {
	if err == nil {
		return nil
	}

	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return convertPgError(pgErr)
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return convertSQLiteError(liteErr)
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Code: UniqueViolation, Message: err.Error(), driverErr: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &Error{Code: ForeignKeyViolation, Message: err.Error(), driverErr: err}
	}

	return err
}

// ErrCode reports the constraint category of err, Other when it is not one.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(Convert(err), &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// IsIntegrity reports whether err is any constraint violation.
func IsIntegrity(err error) bool {
	return errors.Is(Convert(err), ErrIntegrity)
}

// Key (username)=(alice) already exists.
var pgDetailKey = regexp.MustCompile(`Key \(([^)]+)\)=`)

func convertPgError(src *pgconn.PgError) error {
	code := mapPgCode(src.Code)
	if code == Other {
		return src
	}

	column := src.ColumnName
	if column == "" {
		if m := pgDetailKey.FindStringSubmatch(src.Detail); len(m) == 2 {
			column = m[1]
		}
	}

	return &Error{
		Code:           code,
		TableName:      src.TableName,
		ColumnName:     column,
		ConstraintName: src.ConstraintName,
		Message:        src.Message,
		driverErr:      src,
	}
}

func mapPgCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	default:
		return Other
	}
}

func convertSQLiteError(src sqlite3.Error) error {
	if src.Code != sqlite3.ErrConstraint {
		return src
	}

	out := &Error{Message: src.Error(), driverErr: src}

	switch src.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		out.Code = UniqueViolation
	case sqlite3.ErrConstraintForeignKey:
		out.Code = ForeignKeyViolation
	case sqlite3.ErrConstraintNotNull:
		out.Code = NotNullViolation
	case sqlite3.ErrConstraintCheck:
		out.Code = CheckViolation
	default:
		out.Code = CheckViolation
	}

	// "UNIQUE constraint failed: users.username" or
	// "CHECK constraint failed: chk_users_username_not_empty"
	if _, target, ok := strings.Cut(src.Error(), "failed: "); ok {
		target = strings.TrimSpace(strings.SplitN(target, ",", 2)[0])
		if table, column, found := strings.Cut(target, "."); found {
			out.TableName, out.ColumnName = table, column
		} else {
			out.ConstraintName = target
		}
	}

	return out
}

package stores

import (
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound indicates that a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// SchemaError indicates that schema creation or migration failed.
// It is fatal to process startup when returned from Init or Migrate.
type SchemaError struct {
	Op  string
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error during %s: %v", e.Op, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ConstraintError indicates that an insert violated a NOT NULL or
// foreign key constraint. No row is inserted when it is returned.
type ConstraintError struct {
	Op  string
	Err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation during %s: %v", e.Op, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// StorageError indicates a generic I/O or locking failure during an
// operation (connect, execute, commit, scan).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ErrorClass reports the taxonomy class of a store error as a label
// value: "schema", "constraint", "storage", or "" for non-store errors.
func ErrorClass(err error) string {
	var (
		scErr *SchemaError
		coErr *ConstraintError
		stErr *StorageError
	)
	switch {
	case errors.As(err, &scErr):
		return "schema"
	case errors.As(err, &coErr):
		return "constraint"
	case errors.As(err, &stErr):
		return "storage"
	default:
		return ""
	}
}

// classify maps a driver error to the store's error taxonomy.
// SQLite constraint violations (primary result code 19) become
// ConstraintError; everything else is a StorageError.
func classify(op string, err error) error {
	var serr *sqlite.Error
	if errors.As(err, &serr) && serr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return &ConstraintError{Op: op, Err: err}
	}
	return &StorageError{Op: op, Err: err}
}

package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when an insert violates a uniqueness rule,
	// such as a second completion for the same ledger key.
	ErrDuplicate = errors.New("persistence: duplicate")
	// ErrConstraintViolation is returned when a CHECK constraint rejects
	// the record.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrForeignKeyViolation is returned when a referenced record is
	// missing.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
)

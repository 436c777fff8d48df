package database

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateSKU = errors.New("duplicate sku")
)

// StoreWriteError is returned when a single record could not be persisted.
type StoreWriteError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

func writeError(op, key string, err error) error {
	if isDuplicateKey(err) {
		err = errors.Errorf("%s: %w", err.Error(), ErrDuplicateSKU)
	}
	return &StoreWriteError{Op: op, Key: key, Err: err}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

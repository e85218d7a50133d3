package library

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that a mutation targeted a record that no longer
	// exists. Callers racing against delete treat this as benign.
	ErrNotFound = errors.New("library: record not found")

	// ErrPersistence reports that the underlying storage failed. The store
	// does not retry; the operation fails outright.
	ErrPersistence = errors.New("library: persistence failure")

	// ErrEmptyCaption reports an attempt to persist a blank caption.
	ErrEmptyCaption = errors.New("library: empty caption")

	// ErrAlreadyCaptioned reports an attempt to overwrite an existing caption.
	ErrAlreadyCaptioned = errors.New("library: record already captioned")

	// ErrAlreadyProcessed reports an attempt to overwrite an existing
	// processed payload.
	ErrAlreadyProcessed = errors.New("library: record already processed")
)

func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrPersistence, err)
}

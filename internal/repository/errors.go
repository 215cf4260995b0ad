package repository

import (
	"errors"
	"fmt"
)

// ErrStaleWrite is returned when a conditional update matched no row because the
// record moved on since it was read.
var ErrStaleWrite = errors.New("stale write: record changed concurrently")

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	Key      string
	Value    string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s %s not found", e.Resource, e.Key, e.Value)
}

func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

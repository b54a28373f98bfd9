package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrConflict          = errors.New("concurrent modification")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrUnknownCollection = errors.New("unknown collection")
)

// Op is the kind of store operation that failed.
type Op string

const (
	OpGet         Op = "get"
	OpList        Op = "list"
	OpCreate      Op = "create"
	OpUpdate      Op = "update"
	OpDelete      Op = "delete"
	OpBatch       Op = "batch"
	OpTransaction Op = "transaction"
)

// OpError records which operation failed, on which document path, and with
// what payload, so permission failures can be diagnosed after the fact.
type OpError struct {
	Op      Op
	Path    string
	Payload any
	Err     error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Path joins a collection and a document ID.
func Path(collection, id string) string {
	if id == "" {
		return collection
	}
	return collection + "/" + id
}

// NotFound builds an OpError wrapping ErrNotFound.
func NotFound(collection, id string) error {
	return &OpError{Op: OpGet, Path: Path(collection, id), Err: ErrNotFound}
}

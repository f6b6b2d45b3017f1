package repositories

import "fmt"

type storageErrorKind int

const (
	storageErrorNotFound storageErrorKind = iota
	storageErrorCorrupt
	storageErrorUnavailable
)

// StorageError categorises persistence failures so services can decide
// between failing and falling back.
type StorageError struct {
	kind  storageErrorKind
	scope string
	err   error
}

var _ RepositoryError = (*StorageError)(nil)

// NewNotFoundError reports a missing record for the given scope.
func NewNotFoundError(scope string) *StorageError {
	return &StorageError{kind: storageErrorNotFound, scope: scope}
}

// NewCorruptError reports stored data that can no longer be decoded.
func NewCorruptError(scope string, err error) *StorageError {
	return &StorageError{kind: storageErrorCorrupt, scope: scope, err: err}
}

// NewUnavailableError reports a backing store that could not be reached.
func NewUnavailableError(scope string, err error) *StorageError {
	return &StorageError{kind: storageErrorUnavailable, scope: scope, err: err}
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	var label string
	switch e.kind {
	case storageErrorNotFound:
		label = "not found"
	case storageErrorCorrupt:
		label = "corrupt"
	default:
		label = "unavailable"
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.scope, label, e.err)
	}
	return fmt.Sprintf("%s: %s", e.scope, label)
}

// Unwrap exposes the underlying cause when present.
func (e *StorageError) Unwrap() error { return e.err }

// IsNotFound reports whether the record was absent.
func (e *StorageError) IsNotFound() bool { return e.kind == storageErrorNotFound }

// IsCorrupt reports whether stored data failed to decode.
func (e *StorageError) IsCorrupt() bool { return e.kind == storageErrorCorrupt }

// IsUnavailable reports whether the backing store was unreachable.
func (e *StorageError) IsUnavailable() bool { return e.kind == storageErrorUnavailable }

// Package common defines shared constants and sentinel errors used across
// the surveysync agent. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable signals that the local store could not complete
	// an operation. Soft for cache-population paths, hard on the primary
	// save path where local storage is the last resort.
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// ErrRemoteUnreachable signals a failed remote read or write. It is the
	// expected common case in offline operation and always triggers a
	// fallback, never a user-visible failure.
	ErrRemoteUnreachable = errors.New("remote store unreachable")

	// ErrMalformedQueueEntry marks a sync-queue entry that cannot ever be
	// applied (e.g. create/update without a payload). Dropped, not retried.
	ErrMalformedQueueEntry = errors.New("malformed sync queue entry")

	ErrInternal = errors.New("internal error")
)

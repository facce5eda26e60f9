package repository

import "errors"

var (
	// ErrNotFound means the requested id has no matching record. Callers map
	// it to a 404; it is never a storage fault.
	ErrNotFound = errors.New("record not found")

	// ErrConversationMissing is returned when a history references a
	// conversation that does not exist. It is a validation failure, not a
	// storage fault, and nothing is written when it occurs.
	ErrConversationMissing = errors.New("conversation does not exist")
)

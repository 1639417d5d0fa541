package bot

import (
	"errors"
	"fmt"
)

// Validation-class errors are terminal for a command: they are reported to
// the user and never mutate the cache or the store.
var (
	// ErrMissingContext means a guild-scoped command was invoked from a
	// direct message.
	ErrMissingContext = errors.New("command invoked outside a guild")

	// ErrPermissionDenied means the invoker lacks administrator permission.
	ErrPermissionDenied = errors.New("administrator permission required")

	// ErrNotFound means an expected settings entry was absent from both the
	// cache and the store.
	ErrNotFound = errors.New("guild settings not found")
)

// ValidationError reports a rejected argument value.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// StoreWriteError wraps a failed durable write or delete. Lifecycle
// processing treats it as retryable; command processing reports it to the
// user. It is never fatal to the process.
type StoreWriteError struct {
	Op      string
	GuildID uint64
	Err     error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store %s for guild %d: %v", e.Op, e.GuildID, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// StoreReadError wraps a failed durable read, such as the cache warmup
// load. Retryable, like StoreWriteError.
type StoreReadError struct {
	Op  string
	Err error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreReadError) Unwrap() error {
	return e.Err
}

// retryable reports whether an event handler failure should be retried by
// the dispatcher.
func retryable(err error) bool {
	var w *StoreWriteError
	var r *StoreReadError
	return errors.As(err, &w) || errors.As(err, &r)
}

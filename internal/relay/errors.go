package relay

import "fmt"

// ErrorKind classifies a handler failure so the router can pick the right
// outbound error event. Delivery failures and operations on already-gone
// connections are not represented here: the former are logged and skipped,
// the latter are no-ops.
type ErrorKind int

const (
	// KindValidation marks a malformed event payload. Signaled to the
	// originating connection only, never retried.
	KindValidation ErrorKind = iota
	// KindPersistence marks a storage write failure. The event's message is
	// not considered delivered and no partial broadcast happens.
	KindPersistence
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// EventError is the uniform failure result of an event handler.
type EventError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *EventError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *EventError) Unwrap() error { return e.Err }

func validationErr(format string, args ...any) *EventError {
	return &EventError{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

func persistenceErr(reason string, err error) *EventError {
	return &EventError{Kind: KindPersistence, Reason: reason, Err: err}
}

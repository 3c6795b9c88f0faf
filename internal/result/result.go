package result

import "fmt"

// ErrorKind is the closed set of failure categories components report.
type ErrorKind int

const (
	// Validation marks failures caused by invalid input data.
	Validation ErrorKind = iota
	// Conflict marks operations rejected by current state, e.g. a duplicate insert.
	Conflict
	// NotFound marks lookups for ids the ledger does not hold.
	NotFound
	// Transient marks retryable upstream conditions.
	Transient
	// Unexpected marks uncategorized internal failures.
	Unexpected
)

func (k ErrorKind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	case Transient:
		return "transient"
	case Unexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("error_kind(%d)", int(k))
	}
}

// Error describes a typed operation failure. Code is an optional HTTP
// status hint; zero means no hint.
type Error struct {
	Kind    ErrorKind
	Message string
	Code    int
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Result is a success-or-failure envelope. Every expected failure mode in
// the payment core travels as a Result value; plain error returns are
// reserved for faults.
type Result[T any] struct {
	data T
	err  *Error
}

// Success wraps data in a successful Result.
func Success[T any](data T) Result[T] {
	return Result[T]{data: data}
}

// Failure builds a failed Result. code may be zero when no HTTP hint applies.
func Failure[T any](kind ErrorKind, message string, code int) Result[T] {
	return Result[T]{err: &Error{Kind: kind, Message: message, Code: code}}
}

// FailureFrom builds a failed Result carrying an existing Error unchanged.
// The orchestrator uses it to pass bank failures through verbatim.
func FailureFrom[T any](err Error) Result[T] {
	return Result[T]{err: &err}
}

// IsSuccess reports whether the operation succeeded.
func (r Result[T]) IsSuccess() bool { return r.err == nil }

// IsFailure reports whether the operation failed.
func (r Result[T]) IsFailure() bool { return r.err != nil }

// Data returns the payload; the zero value when the Result is a failure.
func (r Result[T]) Data() T { return r.data }

// Err returns the failure details, or nil on success.
func (r Result[T]) Err() *Error { return r.err }

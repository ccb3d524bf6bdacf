// Package errors provides the typed error model for the ray-tracing
// engine, matching the four error kinds the design calls for: input,
// resource, invariant, and transient.
package errors

import "fmt"

// Kind categorizes a RenderError by how the caller is expected to react.
type Kind string

const (
	// KindInput covers malformed CSV files or unparseable grid sizes.
	// Fatal at startup.
	KindInput Kind = "input"
	// KindResource covers mmap failures, GPU surface unavailability, or
	// storage backend outages. Fatal at startup.
	KindResource Kind = "resource"
	// KindInvariant covers a violated data-shape invariant — an SVO child
	// index out of pool bounds, a BVH index pointing outside its array.
	// These are programming bugs; Fatal/Requiref below turn them into
	// panics rather than returned errors.
	KindInvariant Kind = "invariant"
	// KindTransient covers a dropped frame — a cache miss storm, a
	// swap-chain stall. Logged and the frame is skipped; never fatal.
	KindTransient Kind = "transient"
)

// RenderError is the error type returned across package boundaries in
// this module.
type RenderError struct {
	Kind      Kind
	Component string
	Operation string
	Message   string
	Cause     error
	Context   map[string]interface{}
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s.%s: %s: %v", e.Kind, e.Component, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s.%s: %s", e.Kind, e.Component, e.Operation, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *RenderError) Unwrap() error { return e.Cause }

// Is matches another RenderError with the same Kind and Component.
func (e *RenderError) Is(target error) bool {
	t, ok := target.(*RenderError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Component == t.Component
}

// WithContext attaches a diagnostic key/value pair, returning the same
// error for chaining.
func (e *RenderError) WithContext(key string, value interface{}) *RenderError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New constructs a RenderError with no wrapped cause.
func New(kind Kind, component, operation, message string) *RenderError {
	return &RenderError{Kind: kind, Component: component, Operation: operation, Message: message}
}

// Newf is New with a formatted message.
func Newf(kind Kind, component, operation, format string, args ...interface{}) *RenderError {
	return New(kind, component, operation, fmt.Sprintf(format, args...))
}

// Wrap constructs a RenderError around an existing error.
func Wrap(kind Kind, component, operation string, err error) *RenderError {
	if err == nil {
		return nil
	}
	return &RenderError{Kind: kind, Component: component, Operation: operation, Message: err.Error(), Cause: err}
}

// Fatal panics with a RenderError whose Kind is KindInvariant — for a
// violated shape invariant that means the program itself is wrong, not
// its input.
func Fatal(component, operation, message string) {
	panic(New(KindInvariant, component, operation, message))
}

// Requiref panics with a KindInvariant RenderError if cond is false. It
// is the idiomatic call site for the shape invariants in §3/§4 ("a
// non-empty non-leaf node's child index points within bounds", etc.).
func Requiref(cond bool, component, operation, format string, args ...interface{}) {
	if !cond {
		panic(Newf(KindInvariant, component, operation, format, args...))
	}
}

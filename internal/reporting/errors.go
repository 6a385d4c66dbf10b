package reporting

import "fmt"

// ValidationError marks a malformed or logically inconsistent filter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid report filter: %s %s", e.Field, e.Reason)
}

// NotFoundError marks a filter that references an unknown event or
// category. The policy is explicit: unknown references fail the report
// instead of silently producing an all-zero envelope.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// DataAccessError wraps any underlying store failure. A failed aggregate
// sub-query fails the whole report; the engine never substitutes zeros.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("report query %s failed: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

func dataErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, Err: err}
}

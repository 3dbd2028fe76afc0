package corrections

import "fmt"

// InvalidPayloadError reports malformed JSON or an unsupported payload shape
// on a mutating request. Surfaced as HTTP 400.
type InvalidPayloadError struct {
	Reason string
}

func (e *InvalidPayloadError) Error() string {
	return "invalid payload: " + e.Reason
}

// PayloadTooLargeError reports a request body over the configured ceiling.
// Checked before any JSON parsing; surfaced as HTTP 413.
type PayloadTooLargeError struct {
	Size  int
	Limit int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload of %d bytes exceeds the %d byte limit", e.Size, e.Limit)
}

// PersistenceError reports that the key-value store was unavailable or a
// write failed. Surfaced as HTTP 500 with the message only; the service never
// retries automatically.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("corrections store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

package domain

import "fmt"

// ParseError reports input that arrived over a boundary (HTTP body, query
// string, Kafka payload) and could not be decoded into the expected shape.
type ParseError struct {
	Source string // "body", "query", "path", "message"
	Field  string // empty when the payload as a whole is malformed
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("malformed %s field %q: %v", e.Source, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

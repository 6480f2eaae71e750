package parser

import "fmt"

// FieldError reports a strict rule that matched nothing.
type FieldError struct {
	Key      string
	Selector string
	URL      string
}

func (e FieldError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("field_not_found: %s (%s) on %s", e.Key, e.Selector, e.URL)
	}
	return fmt.Sprintf("field_not_found: %s (%s)", e.Key, e.Selector)
}

// StructureError reports a best-effort structural element that is missing.
type StructureError struct {
	Key      string
	Selector string
	URL      string
}

func (e StructureError) Error() string {
	return fmt.Sprintf("structure_missing: %s (%s) on %s", e.Key, e.Selector, e.URL)
}

// ParseError reports text that could not be converted.
type ParseError struct {
	Key  string
	Text string
	Err  error
}

func (e ParseError) Error() string {
	return fmt.Errorf("parse: %s from %q: %w", e.Key, e.Text, e.Err).Error()
}

func (e ParseError) Unwrap() error {
	return e.Err
}

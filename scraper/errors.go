package scraper

import (
	"context"
	"errors"

	"github.com/aluiziolira/go-scrape-threads/browser"
	"github.com/aluiziolira/go-scrape-threads/parser"
)

// errorTypeLabel maps an error to the label used by metrics and logs.
func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	if errors.Is(err, browser.ErrNoPage) {
		return "no_page"
	}
	var field parser.FieldError
	if errors.As(err, &field) {
		return "field_not_found"
	}
	var structure parser.StructureError
	if errors.As(err, &structure) {
		return "structure_missing"
	}
	var parse parser.ParseError
	if errors.As(err, &parse) {
		return "parse"
	}
	var launch browser.LaunchError
	if errors.As(err, &launch) {
		return "launch"
	}
	var nav browser.NavigationError
	if errors.As(err, &nav) {
		return "navigation"
	}
	return "other"
}

package browser

import "fmt"

// LaunchError indicates the backend could not be started.
type LaunchError struct {
	Err error
}

func (e LaunchError) Error() string {
	return fmt.Errorf("launch: %w", e.Err).Error()
}

func (e LaunchError) Unwrap() error {
	return e.Err
}

// NavigationError indicates a page failed to load.
type NavigationError struct {
	URL string
	Err error
}

func (e NavigationError) Error() string {
	return fmt.Errorf("navigation: %s: %w", e.URL, e.Err).Error()
}

func (e NavigationError) Unwrap() error {
	return e.Err
}

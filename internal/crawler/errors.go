package crawler

import (
	"errors"
	"fmt"
)

// ErrConfiguration is wrapped by every error caused by an invalid target
// or fetch options. It is reported before any network activity.
var ErrConfiguration = errors.New("invalid crawl configuration")

// FetchError reports a page that could not be fetched. Any fetch failure
// fails the whole session.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IOError reports an artifact that could not be written.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to write artifacts: %v", e.Err)
	}
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

func configError(err error) error {
	return fmt.Errorf("%w: %w", ErrConfiguration, err)
}

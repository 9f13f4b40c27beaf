package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
)

// CatalogLoadError reports a catalog source that is missing or malformed.
type CatalogLoadError struct {
	Message string
	Err     error
}

func (e *CatalogLoadError) Error() string {
	if e.Err != nil {
		return "catalog load: " + e.Message + ": " + e.Err.Error()
	}
	return "catalog load: " + e.Message
}

func (e *CatalogLoadError) Unwrap() error {
	return e.Err
}

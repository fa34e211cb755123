package marketplace

import (
	"context"
	"errors"
	"fmt"

	"vsxregistry/internal/models"
)

//go:generate mockgen -destination=mocks/mock_api.go -package=mocks -source=api.go API

// API reads extension metadata from a remote registry. Every method takes a
// fully built URL; endpoint construction belongs to the caller.
type API interface {
	GetExtensions(ctx context.Context, endpoint string) ([]models.ExtensionPart, error)
	GetExtension(ctx context.Context, url string) (*models.ExtensionFull, error)
	GetExtensionReadMe(ctx context.Context, url string) (string, error)
	GetExtensionReviews(ctx context.Context, url string) (*models.ReviewList, error)
}

// ErrRegistry marks an error reported by the registry in a response body.
var ErrRegistry = errors.New("registry error")

// HTTPError is returned for any non-200 response.
type HTTPError struct {
	StatusCode int
	URL        string
	Status     string
	Message    string
}

func NewHTTPError(statusCode int, url, status string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, URL: url, Status: status}
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d for %s: %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("HTTP %d for %s: %s", e.StatusCode, e.URL, e.Status)
}

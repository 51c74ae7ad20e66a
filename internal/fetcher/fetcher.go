// Package fetcher downloads remote documents for the harbor register client.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body decoded to UTF-8.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

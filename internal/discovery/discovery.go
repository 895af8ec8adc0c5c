// Package discovery turns a search query into candidate page URLs.
package discovery

import (
	"context"
	"errors"

	"safesearch-analyzer/internal/ioformats"
)

// DefaultMaxResults is how many URLs a query yields unless configured otherwise.
const DefaultMaxResults = 10

var ErrSearchFailed = errors.New("search request failed")

// Provider returns at most limit URLs for query. An empty slice with a nil
// error means nothing was found.
type Provider interface {
	Discover(ctx context.Context, query string, limit int) ([]string, error)
}

// Static ignores the query and returns a fixed list.
type Static []string

func (s Static) Discover(_ context.Context, _ string, limit int) ([]string, error) {
	return capped(s, limit), nil
}

// File reads the URL list from a CSV or NDJSON file on every call.
type File struct {
	Path string
}

func (f File) Discover(_ context.Context, _ string, limit int) ([]string, error) {
	urls, err := ioformats.ReadURLs(f.Path)
	if err != nil {
		return nil, err
	}
	return capped(urls, limit), nil
}

func capped(urls []string, limit int) []string {
	if limit > 0 && len(urls) > limit {
		urls = urls[:limit]
	}
	return append([]string(nil), urls...)
}

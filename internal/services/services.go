// package services defines interface CoverFetcher for resolving catalog cover images over HTTP
//
// NeoDB
package services

import (
	"context"
)

// CoverFetcher resolves the cover image URL of a catalog page.
type CoverFetcher interface {
	// CoverURL fetches the page at link and returns the absolute URL of its cover image.
	// Returns an error if the request fails or the page has no cover.
	CoverURL(ctx context.Context, link string) (string, error)

	// Name returns the name of the catalog (e.g., "NeoDB")
	Name() string
}

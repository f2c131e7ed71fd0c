// Package services defines the [CoverFetcher] interface for catalog sites and implements it for NeoDB.
//
// # CoverFetcher Interface
//
// The export pipeline only needs one thing from a catalog: the cover image of an item page.
// Keeping that behind an interface lets the worker pool in the tasks package run against a fake in tests.
//
// # NeoDB Implementation
//
// [NeoDBService] issues a plain GET with a desktop browser User-Agent, parses the response with goquery
// and reads the src attribute of the first image inside the #item-cover element.
// Root-relative paths are resolved against the configured origin (https://neodb.social by default).
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrEmptyCoverLink] : the link was empty, no request was made
//   - [shared.ErrFetchFailed] : transport error or non-2xx status
//   - [shared.ErrCoverNotFound] : the page has no cover image
//
// Callers treat every error as a missing cover; no request is retried.
package services

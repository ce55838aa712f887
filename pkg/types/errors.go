// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Sentinel errors for the failure categories the batch report tracks.
// Stage code wraps these with %w so KindOf can classify any error chain.
var (
	// ErrLookup marks a failed search call (unreachable service or
	// non-success status).
	ErrLookup = errors.New("lookup failed")

	// ErrParse marks a search response that could not be decoded.
	ErrParse = errors.New("malformed search response")

	// ErrFetch marks a failed document download call.
	ErrFetch = errors.New("fetch failed")

	// ErrEmptyDocument marks a document response with an empty body.
	ErrEmptyDocument = errors.New("empty document body")

	// ErrFilesystem marks a failure creating the save directory or
	// writing a file.
	ErrFilesystem = errors.New("filesystem failure")
)

// ErrorKind is the report-facing failure category.
type ErrorKind string

const (
	KindLookup        ErrorKind = "lookup"
	KindParse         ErrorKind = "parse"
	KindFetch         ErrorKind = "fetch"
	KindEmptyDocument ErrorKind = "empty_document"
	KindFilesystem    ErrorKind = "filesystem"
	KindUnknown       ErrorKind = "unknown"
)

// KindOf classifies err by the sentinel found in its chain. Errors that
// wrap none of the sentinels report KindUnknown.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyDocument):
		return KindEmptyDocument
	case errors.Is(err, ErrLookup):
		return KindLookup
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrFetch):
		return KindFetch
	case errors.Is(err, ErrFilesystem):
		return KindFilesystem
	default:
		return KindUnknown
	}
}

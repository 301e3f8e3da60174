package domain

import "errors"

var (
	// ErrIndexNotFound signals that the requested search index does not exist.
	ErrIndexNotFound = errors.New("the index could not be found")
	// ErrInvalidLimit signals a non-positive or unparseable result limit.
	ErrInvalidLimit = errors.New("the limit must be a positive value")
	// ErrInvalidQuery signals missing or malformed query syntax.
	ErrInvalidQuery = errors.New("the query is missing or malformed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	// Always recovered locally: ranking degrades, the request proceeds.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

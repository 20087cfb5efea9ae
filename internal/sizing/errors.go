package sizing

import "fmt"

// MetadataFetchError means the playlist itself could not be resolved. It aborts
// the whole aggregation.
type MetadataFetchError struct {
	URL string
	Err error
}

func (e *MetadataFetchError) Error() string {
	return fmt.Sprintf("fetch playlist metadata for %s: %v", e.URL, e.Err)
}

func (e *MetadataFetchError) Unwrap() error { return e.Err }

// VideoFetchError means one playlist member's encodings could not be listed.
// The aggregator records it and moves on.
type VideoFetchError struct {
	URL string
	Err error
}

func (e *VideoFetchError) Error() string {
	return fmt.Sprintf("list encodings for %s: %v", e.URL, e.Err)
}

func (e *VideoFetchError) Unwrap() error { return e.Err }

package storage

import (
	"fmt"
	"strings"
)

// Scheme is the URI scheme marking an object store location.
const Scheme = "s3://"

// LocationType discriminates store locations from local paths.
type LocationType string

const (
	LocationStore LocationType = "store"
	LocationLocal LocationType = "local"
)

// Location is the resolved form of a location string: either a
// (bucket, key-or-prefix) pair in the object store, or a local
// filesystem path. Immutable after resolution.
type Location struct {
	Type   LocationType
	Bucket string
	Prefix string
	Path   string
}

// ParseLocation resolves a location string. Strings starting with the
// store scheme are parsed as bucket + key/prefix; anything else is
// treated as a local file path. The function is total: a malformed
// store URI degrades to an empty bucket and prefix rather than failing.
// Callers that require a store location must check IsStore themselves.
func ParseLocation(s string) Location {
	if !strings.HasPrefix(s, Scheme) {
		return Location{Type: LocationLocal, Path: s}
	}

	rest := strings.TrimPrefix(s, Scheme)
	loc := Location{Type: LocationStore}

	parts := strings.SplitN(rest, "/", 2)
	loc.Bucket = parts[0]
	if len(parts) > 1 {
		loc.Prefix = parts[1]
	}

	return loc
}

// IsStore reports whether the location points into the object store.
func (l Location) IsStore() bool {
	return l.Type == LocationStore
}

// String renders the location back to its string form.
func (l Location) String() string {
	if l.Type == LocationLocal {
		return l.Path
	}
	if l.Prefix == "" {
		return Scheme + l.Bucket
	}
	return fmt.Sprintf("%s%s/%s", Scheme, l.Bucket, l.Prefix)
}

// Filename returns the substring of key after the last slash. Used to
// preserve the object's file name when redirecting output to a target
// prefix.
func Filename(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

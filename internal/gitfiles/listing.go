// pattern: Functional Core

package gitfiles

import (
	"path"
	"strings"
)

// Listing groups relative directory paths by their first segment. Keys keep
// first-seen order; each key maps to the paths below it with that segment
// stripped.
type Listing struct {
	keys  []string
	inner map[string][]string
}

// Bucket builds a Listing from slash-separated relative paths.
func Bucket(paths []string) Listing {
	l := Listing{inner: make(map[string][]string)}
	for _, p := range paths {
		top, rest, _ := strings.Cut(p, "/")
		if top == "" {
			continue
		}
		if _, ok := l.inner[top]; !ok {
			l.keys = append(l.keys, top)
			l.inner[top] = nil
		}
		if rest != "" {
			l.inner[top] = append(l.inner[top], rest)
		}
	}
	return l
}

// Keys returns the top-level directory names in first-seen order.
func (l Listing) Keys() []string {
	return append([]string(nil), l.keys...)
}

// Inner returns the paths below key, relative to key.
func (l Listing) Inner(key string) []string {
	return append([]string(nil), l.inner[key]...)
}

// Descend re-buckets the paths below key one segment deeper. Keys that are
// not in the listing descend to an empty Listing.
func (l Listing) Descend(key string) Listing {
	return Bucket(l.inner[path.Base(key)])
}

// Len is the number of top-level keys.
func (l Listing) Len() int {
	return len(l.keys)
}

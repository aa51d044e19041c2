// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package coverage decides how much of a requested window the local cache
// can serve and what must be fetched.
package coverage

import (
	"time"
)

// Kind is the variant of a coverage decision.
type Kind int

const (
	// UseCacheAsIs serves the query from the cache without fetching.
	UseCacheAsIs Kind = iota
	// ExtendCache fetches [Start, End] and merges it into the cache.
	ExtendCache
	// FetchFresh fetches [Start, End] without reading the cache.
	FetchFresh
)

// Labels reported for each decision.
const (
	LabelCached  = "cached"
	LabelSmart   = "smart cache"
	LabelFresh   = "fresh"
	LabelNoCache = "no cache"
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case UseCacheAsIs:
		return "use-cache"
	case ExtendCache:
		return "extend-cache"
	case FetchFresh:
		return "fetch-fresh"
	default:
		return "unknown"
	}
}

// State describes the cache contents relevant to planning.
type State struct {
	// Empty is true when no cache exists or it holds no records.
	Empty bool
	// Oldest is the timestamp of the first cached record.
	Oldest time.Time
	// Newest is the timestamp of the last cached record.
	Newest time.Time
}

// Decision is the plan for one query.
type Decision struct {
	Kind Kind
	// Start and End bound the range to fetch. Both are zero for UseCacheAsIs.
	Start time.Time
	End   time.Time
	// Label is the cache-state label shown to the user.
	Label string
}

// NeedsFetch reports whether the decision requires contacting the store.
func (d Decision) NeedsFetch() bool {
	return d.Kind != UseCacheAsIs
}

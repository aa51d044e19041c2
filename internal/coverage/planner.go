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

package coverage

import (
	"time"
)

// Planner builds coverage decisions.
type Planner struct {
	now func() time.Time
	// refreshAfter marks a cache stale when its newest record is older than
	// now minus this duration. Zero disables the check.
	refreshAfter time.Duration
}

// Option configures a Planner.
type Option func(*Planner)

// WithClock overrides the clock used for window end times.
func WithClock(
	now func() time.Time,
) Option {
	return func(p *Planner) {
		p.now = now
	}
}

// WithRefreshAfter enables staleness-based cache extension.
func WithRefreshAfter(
	d time.Duration,
) Option {
	return func(p *Planner) {
		p.refreshAfter = d
	}
}

// NewPlanner returns a Planner using the wall clock.
func NewPlanner(
	opts ...Option,
) *Planner {
	p := &Planner{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan decides whether start can be served from the cache described by
// state. Coverage is a bounds check only; holes inside the cached range are
// not detected. forceFresh wins over forceCache.
func (p *Planner) Plan(
	start time.Time,
	state State,
	forceFresh bool,
	forceCache bool,
) Decision {
	now := p.now().UTC()
	start = start.UTC()

	if forceFresh || state.Empty {
		return Decision{Kind: FetchFresh, Start: start, End: now, Label: LabelFresh}
	}

	if forceCache {
		return Decision{Kind: UseCacheAsIs, Label: LabelCached}
	}

	if start.Before(state.Oldest) || start.After(state.Newest) {
		return Decision{Kind: ExtendCache, Start: start, End: now, Label: LabelSmart}
	}

	if p.refreshAfter > 0 && now.Sub(state.Newest) > p.refreshAfter {
		return Decision{Kind: ExtendCache, Start: start, End: now, Label: LabelSmart}
	}

	return Decision{Kind: UseCacheAsIs, Label: LabelCached}
}

// Bypass is the decision used when caching is disabled for an invocation.
func (p *Planner) Bypass(
	start time.Time,
) Decision {
	return Decision{Kind: FetchFresh, Start: start.UTC(), End: p.now().UTC(), Label: LabelNoCache}
}

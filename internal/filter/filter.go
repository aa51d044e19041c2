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

// Package filter selects the records matching an endpoint pattern set and an
// optional client address.
package filter

import (
	"regexp"
	"strings"
	"time"

	"github.com/retr0h/edgelog/internal/record"
)

// Pipeline is a compiled filter.
type Pipeline struct {
	patterns []*regexp.Regexp
	ip       string
	since    time.Time
	until    time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWindow restricts records to [since, until]. A zero bound is open.
func WithWindow(
	since time.Time,
	until time.Time,
) Option {
	return func(p *Pipeline) {
		p.since = since
		p.until = until
	}
}

// New compiles endpoint patterns into a Pipeline. Patterns are unanchored
// regular expressions; one that does not compile matches as a literal
// substring. An empty ip disables the address filter.
func New(
	patterns []string,
	ip string,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{ip: strings.TrimSpace(ip)}
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		re, err := regexp.Compile(raw)
		if err != nil {
			re = regexp.MustCompile(regexp.QuoteMeta(raw))
		}
		p.patterns = append(p.patterns, re)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SplitPatterns splits comma-joined endpoint arguments into patterns.
func SplitPatterns(
	args ...string,
) []string {
	var out []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Apply returns the matching records in ascending order. Input that is not
// already ordered is stably sorted first; the input slice is not modified.
// No match yields an empty, non-nil slice.
func (p *Pipeline) Apply(
	records []record.LogRecord,
) []record.LogRecord {
	if !record.IsSorted(records) {
		sorted := make([]record.LogRecord, len(records))
		copy(sorted, records)
		record.SortStable(sorted)
		records = sorted
	}

	out := make([]record.LogRecord, 0)
	for _, r := range records {
		if p.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether a single record passes every filter. The address
// check runs first since it is the cheapest.
func (p *Pipeline) Match(
	r record.LogRecord,
) bool {
	if p.ip != "" && r.ClientIP != p.ip {
		return false
	}
	if !p.since.IsZero() && r.Timestamp.Before(p.since) {
		return false
	}
	if !p.until.IsZero() && r.Timestamp.After(p.until) {
		return false
	}
	return p.matchEndpoint(r.URIStem)
}

func (p *Pipeline) matchEndpoint(
	path string,
) bool {
	if len(p.patterns) == 0 {
		return true
	}
	for _, re := range p.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

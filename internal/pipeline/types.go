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

// Package pipeline runs one query: plan coverage, fetch what is missing,
// merge into the cache, and filter the result.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/retr0h/edgelog/internal/coverage"
	"github.com/retr0h/edgelog/internal/fetch"
	"github.com/retr0h/edgelog/internal/merge"
	"github.com/retr0h/edgelog/internal/record"
	"github.com/retr0h/edgelog/internal/telemetry"
)

//go:generate go tool mockgen -source=types.go -destination=mocks/types.gen.go -package=mocks

// Fetcher retrieves records newer than since for one target.
type Fetcher interface {
	Fetch(ctx context.Context, target fetch.Target, since time.Time) (*fetch.Batch, error)
}

// Request holds the inputs of one query.
type Request struct {
	// Env names a configured environment.
	Env string `validate:"required,valid_env"`
	// Endpoints are path patterns; each entry may hold comma-joined patterns.
	Endpoints []string `validate:"required,min=1,dive,required"`
	// Minutes is the window size counted back from now.
	Minutes int `validate:"required,gt=0"`
	// IP restricts results to one client address.
	IP string `validate:"omitempty,ip"`
	// UseCache enables reading and accumulating the cache file.
	UseCache bool
	// ForceFresh fetches the whole window without consulting the cache.
	ForceFresh bool
	// CacheOnly answers from the cache without fetching when it has data.
	CacheOnly bool
}

// Stats counts what happened during a run.
type Stats struct {
	Listed       int
	Selected     int
	Failed       int
	Fetched      int
	Dropped      int
	CacheDropped int
	Cached       int
	Matched      int
	Persisted    bool
	Duration     time.Duration
}

// Result is the outcome of a run.
type Result struct {
	Decision  coverage.Decision
	Records   []record.LogRecord
	Stats     Stats
	CachePath string
	Since     time.Time
	Until     time.Time
}

// Pipeline wires the planner, fetcher, merger, cache and filter together.
type Pipeline struct {
	logger       *slog.Logger
	appFs        afero.Fs
	cacheDir     string
	targets      map[string]fetch.Target
	fetcher      Fetcher
	key          merge.KeyFunc
	refreshAfter time.Duration
	metrics      *telemetry.Metrics
	now          func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

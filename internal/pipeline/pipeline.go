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

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/retr0h/edgelog/internal/cache"
	"github.com/retr0h/edgelog/internal/coverage"
	"github.com/retr0h/edgelog/internal/fetch"
	"github.com/retr0h/edgelog/internal/filter"
	"github.com/retr0h/edgelog/internal/merge"
	"github.com/retr0h/edgelog/internal/record"
	"github.com/retr0h/edgelog/internal/telemetry"
	"github.com/retr0h/edgelog/internal/validation"
)

// ErrInvalidRequest is returned when a Request fails validation.
var ErrInvalidRequest = errors.New("invalid request")

// WithKeyFunc sets the dedup identity used when merging.
func WithKeyFunc(
	key merge.KeyFunc,
) Option {
	return func(p *Pipeline) {
		p.key = key
	}
}

// WithRefreshAfter enables the staleness check of the planner.
func WithRefreshAfter(
	d time.Duration,
) Option {
	return func(p *Pipeline) {
		p.refreshAfter = d
	}
}

// WithMetrics records every completed run.
func WithMetrics(
	m *telemetry.Metrics,
) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithClock overrides the time source.
func WithClock(
	now func() time.Time,
) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New returns a Pipeline that keeps one cache file per environment under
// cacheDir on appFs.
func New(
	logger *slog.Logger,
	appFs afero.Fs,
	cacheDir string,
	targets map[string]fetch.Target,
	fetcher Fetcher,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		logger:   logger,
		appFs:    appFs,
		cacheDir: cacheDir,
		targets:  targets,
		fetcher:  fetcher,
		key:      merge.ByTimestamp,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Store returns the cache store of env.
func (p *Pipeline) Store(
	env string,
) *cache.Store {
	return cache.New(p.logger, p.appFs, p.cacheDir, env)
}

// Run executes one query.
//
// With caching disabled the window is fetched in full and the cache file is
// replaced by that batch alone. With ForceFresh the cache is neither read for
// planning nor for results, but the batch is still merged into it.
// Otherwise the planner decides between answering from the cache and
// extending it, and results come from the merged cache set.
func (p *Pipeline) Run(
	ctx context.Context,
	req Request,
) (result *Result, err error) {
	if errMsg, ok := validation.Struct(req); !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errMsg)
	}

	patterns := filter.SplitPatterns(req.Endpoints...)
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: endpoints hold no patterns", ErrInvalidRequest)
	}

	target, ok := p.targets[req.Env]
	if !ok {
		return nil, fmt.Errorf("%w: environment %q has no target", ErrInvalidRequest, req.Env)
	}

	began := p.now()
	now := began.UTC()
	since := now.Add(-time.Duration(req.Minutes) * time.Minute)

	ctx, span := telemetry.Tracer().Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("edgelog.env", req.Env),
		attribute.Int("edgelog.minutes", req.Minutes),
		attribute.Bool("edgelog.use_cache", req.UseCache),
		attribute.Bool("edgelog.force_fresh", req.ForceFresh),
		attribute.Bool("edgelog.cache_only", req.CacheOnly),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	logger := p.logger.With(slog.String("env", req.Env))
	store := p.Store(req.Env)
	planner := coverage.NewPlanner(
		coverage.WithClock(func() time.Time { return now }),
		coverage.WithRefreshAfter(p.refreshAfter),
	)

	result = &Result{
		CachePath: store.Path(),
		Since:     since,
		Until:     now,
	}

	snap := &cache.Snapshot{}
	switch {
	case !req.UseCache:
		result.Decision = planner.Bypass(since)
	case req.ForceFresh:
		result.Decision = planner.Plan(since, coverage.State{Empty: true}, true, req.CacheOnly)
	default:
		snap, err = p.load(ctx, store)
		if err != nil {
			return nil, err
		}
		result.Stats.CacheDropped = snap.Dropped
		result.Decision = planner.Plan(since, snap.State(), false, req.CacheOnly)
	}

	span.SetAttributes(attribute.String("edgelog.decision", result.Decision.Label))
	logger.DebugContext(
		ctx,
		"coverage planned",
		slog.String("decision", result.Decision.Kind.String()),
		slog.String("label", result.Decision.Label),
		slog.Time("since", since),
	)

	batch := &fetch.Batch{}
	if result.Decision.NeedsFetch() {
		batch, err = p.fetcher.Fetch(ctx, target, result.Decision.Start)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", req.Env, err)
		}
	}
	result.Stats.Listed = batch.Listed
	result.Stats.Selected = batch.Selected
	result.Stats.Failed = batch.Failed
	result.Stats.Fetched = len(batch.Records)
	result.Stats.Dropped = batch.Dropped

	pool, err := p.reconcile(ctx, store, req, result, snap, batch)
	if err != nil {
		return nil, err
	}

	_, filterSpan := telemetry.Tracer().Start(ctx, "filter")
	pl := filter.New(
		patterns,
		req.IP,
		filter.WithWindow(since, now),
	)
	result.Records = pl.Apply(pool)
	filterSpan.SetAttributes(attribute.Int("filter.matched", len(result.Records)))
	filterSpan.End()

	result.Stats.Matched = len(result.Records)
	result.Stats.Duration = p.now().Sub(began)

	logger.InfoContext(
		ctx,
		"query complete",
		slog.String("source", result.Decision.Label),
		slog.Int("matched", result.Stats.Matched),
		slog.Int("fetched", result.Stats.Fetched),
		slog.Int("failed_objects", result.Stats.Failed),
		slog.Int("cached", result.Stats.Cached),
	)

	if p.metrics != nil {
		p.metrics.Observe(telemetry.Run{
			Env:      req.Env,
			Decision: result.Decision.Label,
			Listed:   result.Stats.Listed,
			Selected: result.Stats.Selected,
			Failed:   result.Stats.Failed,
			Fetched:  result.Stats.Fetched,
			Dropped:  result.Stats.Dropped + result.Stats.CacheDropped,
			Cached:   result.Stats.Cached,
			Matched:  result.Stats.Matched,
			Duration: result.Stats.Duration,
		}, p.now())
	}

	return result, nil
}

// reconcile merges the batch into the cache as the request demands and
// returns the record set results are filtered from.
func (p *Pipeline) reconcile(
	ctx context.Context,
	store *cache.Store,
	req Request,
	result *Result,
	snap *cache.Snapshot,
	batch *fetch.Batch,
) ([]record.LogRecord, error) {
	switch {
	case !result.Decision.NeedsFetch():
		result.Stats.Cached = len(snap.Records)

		return snap.Records, nil

	case batch.Selected == 0:
		// Nothing in the window remotely; the cache stays as it was.
		if req.UseCache && !req.ForceFresh {
			result.Stats.Cached = len(snap.Records)

			return snap.Records, nil
		}

		return nil, nil

	case !req.UseCache:
		fresh := merge.Sorted(batch.Records, p.key)
		if len(fresh) == 0 {
			// Every selected object failed; keep the previous file.
			return fresh, nil
		}
		if err := p.persist(ctx, store, fresh); err != nil {
			return nil, err
		}
		result.Stats.Cached = len(fresh)
		result.Stats.Persisted = true

		return fresh, nil

	case req.ForceFresh:
		fresh := merge.Sorted(batch.Records, p.key)

		existing, err := p.load(ctx, store)
		if err != nil {
			return nil, err
		}
		result.Stats.CacheDropped = existing.Dropped
		result.Stats.Cached = len(existing.Records)

		if len(fresh) > 0 {
			merged := merge.Merge(existing.Records, fresh, p.key)
			if err := p.persist(ctx, store, merged); err != nil {
				return nil, err
			}
			result.Stats.Cached = len(merged)
			result.Stats.Persisted = true
		}

		return fresh, nil

	default:
		result.Stats.Cached = len(snap.Records)
		if len(batch.Records) == 0 {
			return snap.Records, nil
		}

		merged := merge.Merge(snap.Records, batch.Records, p.key)
		if err := p.persist(ctx, store, merged); err != nil {
			return nil, err
		}
		result.Stats.Cached = len(merged)
		result.Stats.Persisted = true

		return merged, nil
	}
}

func (p *Pipeline) load(
	ctx context.Context,
	store *cache.Store,
) (*cache.Snapshot, error) {
	_, span := telemetry.Tracer().Start(ctx, "cache.load")
	defer span.End()

	snap, err := store.Load()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("loading cache: %w", err)
	}
	// Files written elsewhere may repeat keys.
	snap.Records = merge.Sorted(snap.Records, p.key)
	span.SetAttributes(attribute.Int("cache.records", len(snap.Records)))

	return snap, nil
}

func (p *Pipeline) persist(
	ctx context.Context,
	store *cache.Store,
	records []record.LogRecord,
) error {
	_, span := telemetry.Tracer().Start(ctx, "cache.persist")
	defer span.End()

	span.SetAttributes(attribute.Int("cache.records", len(records)))
	if err := store.Persist(records); err != nil {
		span.RecordError(err)
		return fmt.Errorf("persisting cache: %w", err)
	}

	return nil
}

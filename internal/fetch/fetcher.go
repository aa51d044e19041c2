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

package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/retr0h/edgelog/internal/record"
	"github.com/retr0h/edgelog/internal/telemetry"
)

// New returns a Fetcher. Non-positive workers or maxObjects fall back to the
// package defaults.
func New(
	logger *slog.Logger,
	store ObjectStore,
	workers int,
	maxObjects int,
) *Fetcher {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if maxObjects <= 0 {
		maxObjects = DefaultMaxObjects
	}
	return &Fetcher{
		logger:     logger,
		store:      store,
		workers:    workers,
		maxObjects: maxObjects,
	}
}

// Fetch downloads every object in target whose hour key is at or after the
// hour of since, parses the records, and returns them in ascending order.
// A failed object is logged and skipped; only a listing failure is returned
// as an error.
func (f *Fetcher) Fetch(
	ctx context.Context,
	target Target,
	since time.Time,
) (*Batch, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "fetch")
	defer span.End()

	keys, err := f.store.List(ctx, target.Bucket, target.Prefix)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("listing objects: %w", err)
	}

	sinceKey := HourKey(since)
	objects := SelectObjects(keys, sinceKey, f.maxObjects)

	span.SetAttributes(
		attribute.String("fetch.bucket", target.Bucket),
		attribute.String("fetch.since_hour", sinceKey),
		attribute.Int("fetch.listed", len(keys)),
		attribute.Int("fetch.selected", len(objects)),
	)

	f.logger.DebugContext(
		ctx,
		"objects selected",
		slog.String("bucket", target.Bucket),
		slog.String("prefix", target.Prefix),
		slog.String("since_hour", sinceKey),
		slog.Int("listed", len(keys)),
		slog.Int("selected", len(objects)),
	)

	batch := &Batch{
		Listed:   len(keys),
		Selected: len(objects),
	}
	if len(objects) == 0 {
		return batch, nil
	}

	// Each worker writes only its own slot so completion order cannot
	// affect the result.
	perObject := make([][]record.LogRecord, len(objects))
	var failed, dropped atomic.Int64

	var g errgroup.Group
	g.SetLimit(f.workers)
	for i, obj := range objects {
		g.Go(func() error {
			records, n, err := f.fetchObject(ctx, target.Bucket, obj.Key)
			if err != nil {
				failed.Add(1)
				f.logger.WarnContext(
					ctx,
					"skipping object",
					slog.String("key", obj.Key),
					slog.String("error", err.Error()),
				)
				return nil
			}
			perObject[i] = records
			dropped.Add(int64(n))
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, records := range perObject {
		total += len(records)
	}
	all := make([]record.LogRecord, 0, total)
	for _, records := range perObject {
		all = append(all, records...)
	}
	record.SortStable(all)

	batch.Records = all
	batch.Failed = int(failed.Load())
	batch.Dropped = int(dropped.Load())

	span.SetAttributes(
		attribute.Int("fetch.failed", batch.Failed),
		attribute.Int("fetch.records", len(all)),
	)

	return batch, nil
}

func (f *Fetcher) fetchObject(
	ctx context.Context,
	bucket string,
	key string,
) ([]record.LogRecord, int, error) {
	raw, err := f.store.Get(ctx, bucket, key)
	if err != nil {
		return nil, 0, err
	}

	data, err := Decompress(raw)
	if err != nil {
		return nil, 0, fmt.Errorf("decompressing %s: %w", key, err)
	}

	records, dropped := record.ParseLines(data)
	return records, dropped, nil
}

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

// Package fetch retrieves raw access-log objects for a time range from a
// remote object store.
package fetch

import (
	"context"
	"log/slog"

	"github.com/retr0h/edgelog/internal/record"
)

//go:generate go tool mockgen -source=types.go -destination=mocks/types.gen.go -package=mocks

// ObjectStore lists and retrieves log objects.
type ObjectStore interface {
	// List returns every object key under prefix in bucket.
	List(ctx context.Context, bucket string, prefix string) ([]string, error)
	// Get returns the raw, possibly compressed, bytes of one object.
	Get(ctx context.Context, bucket string, key string) ([]byte, error)
}

// Target locates the log objects of one environment.
type Target struct {
	Bucket string
	Prefix string
}

// Object is a listed key with its embedded hour key.
type Object struct {
	Key     string
	HourKey string
}

// Batch is the outcome of one fetch run.
type Batch struct {
	// Records are the parsed records in ascending order. Duplicates are
	// not removed.
	Records []record.LogRecord
	// Listed is the number of keys returned by the store.
	Listed int
	// Selected is the number of objects inside the requested window.
	Selected int
	// Failed is the number of selected objects that could not be read.
	Failed int
	// Dropped is the number of malformed lines skipped.
	Dropped int
}

// Fetcher downloads and parses the objects covering a time range.
type Fetcher struct {
	logger     *slog.Logger
	store      ObjectStore
	workers    int
	maxObjects int
}

// Defaults applied when a Fetcher is built with non-positive limits.
const (
	DefaultWorkers    = 4
	DefaultMaxObjects = 500
)

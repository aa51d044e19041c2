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

// Package cache persists previously fetched access-log records, one file per
// environment.
package cache

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/retr0h/edgelog/internal/record"
)

const (
	defaultFileMode = 0o644
	defaultDirMode  = 0o755
)

// ErrUnreadable is returned when a cache file exists but cannot be read.
var ErrUnreadable = errors.New("cache file unreadable")

// Store is the cache handle for one environment.
type Store struct {
	logger *slog.Logger
	appFs  afero.Fs
	dir    string
	env    string
}

// Snapshot is the in-memory view of a loaded cache file.
type Snapshot struct {
	// Records are ordered ascending with unique keys.
	Records []record.LogRecord
	// Dropped counts lines that failed to parse.
	Dropped int
}

// Info describes a cache file on disk.
type Info struct {
	Path    string    `json:"path"`
	Exists  bool      `json:"exists"`
	Size    int64     `json:"size"`
	Records int       `json:"records"`
	Oldest  time.Time `json:"oldest,omitzero"`
	Newest  time.Time `json:"newest,omitzero"`
	ModTime time.Time `json:"mod_time,omitzero"`
}

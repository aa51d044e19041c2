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

package cache

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/retr0h/edgelog/internal/coverage"
	"github.com/retr0h/edgelog/internal/record"
)

// FileName returns the cache file name for an environment.
func FileName(
	env string,
) string {
	return fmt.Sprintf("edgelog_%s_cache.log", env)
}

// New returns the cache Store for env under dir.
func New(
	logger *slog.Logger,
	appFs afero.Fs,
	dir string,
	env string,
) *Store {
	return &Store{
		logger: logger.With(slog.String("env", env)),
		appFs:  appFs,
		dir:    dir,
		env:    env,
	}
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName(s.env))
}

// Load reads the cache file. A missing file yields an empty snapshot.
// Malformed lines are dropped. Repeated keys are kept; deduplication belongs
// to the caller's key function.
func (s *Store) Load() (*Snapshot, error) {
	data, err := afero.ReadFile(s.appFs, s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Snapshot{}, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, s.Path(), err)
	}

	records, dropped := record.ParseLines(data)
	if !record.IsSorted(records) {
		// Hand-edited or foreign files; restore the ordering invariant.
		record.SortStable(records)
	}

	s.logger.Debug(
		"cache loaded",
		slog.String("path", s.Path()),
		slog.Int("records", len(records)),
		slog.Int("dropped", dropped),
	)

	return &Snapshot{Records: records, Dropped: dropped}, nil
}

// Persist replaces the cache file with records. The file is written to a
// temporary name in the same directory and renamed over the original.
func (s *Store) Persist(
	records []record.LogRecord,
) error {
	if err := s.appFs.MkdirAll(s.dir, defaultDirMode); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	tmp, err := afero.TempFile(s.appFs, s.dir, FileName(s.env)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = s.appFs.Remove(tmpName)
	}

	w := bufio.NewWriter(tmp)
	for _, r := range records {
		if _, err := w.WriteString(r.Raw); err != nil {
			cleanup()
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			cleanup()
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		cleanup()
		return fmt.Errorf("flushing writer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.appFs.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := s.appFs.Chmod(tmpName, defaultFileMode); err != nil {
		_ = s.appFs.Remove(tmpName)
		return fmt.Errorf("setting cache mode: %w", err)
	}
	if err := s.appFs.Rename(tmpName, s.Path()); err != nil {
		_ = s.appFs.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	s.logger.Debug(
		"cache persisted",
		slog.String("path", s.Path()),
		slog.Int("records", len(records)),
	)

	return nil
}

// Clear removes the cache file. Removing a missing file is not an error.
func (s *Store) Clear() error {
	if err := s.appFs.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}

// Info loads the cache file and reports its size and bounds.
func (s *Store) Info() (*Info, error) {
	info := &Info{Path: s.Path()}

	fi, err := s.appFs.Stat(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return info, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, s.Path(), err)
	}
	info.Exists = true
	info.Size = fi.Size()
	info.ModTime = fi.ModTime()

	snap, err := s.Load()
	if err != nil {
		return nil, err
	}
	info.Records = len(snap.Records)
	info.Oldest, info.Newest, _ = snap.Bounds()

	return info, nil
}

// Bounds returns the first and last record timestamps. ok is false when the
// snapshot holds no records.
func (snap *Snapshot) Bounds() (time.Time, time.Time, bool) {
	if snap == nil || len(snap.Records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return snap.Records[0].Timestamp, snap.Records[len(snap.Records)-1].Timestamp, true
}

// State converts the snapshot into planner input.
func (snap *Snapshot) State() coverage.State {
	oldest, newest, ok := snap.Bounds()
	if !ok {
		return coverage.State{Empty: true}
	}
	return coverage.State{Oldest: oldest, Newest: newest}
}

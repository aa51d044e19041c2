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

// Package merge combines cached and freshly fetched records into one
// deduplicated, chronologically ordered set.
package merge

import (
	"fmt"

	"github.com/retr0h/edgelog/internal/record"
)

// KeyFunc returns the identity used to collapse duplicate records.
type KeyFunc func(r record.LogRecord) string

// ByTimestamp identifies records by their verbatim (date,time) pair. Two
// distinct requests logged in the same second collapse to one.
func ByTimestamp(
	r record.LogRecord,
) string {
	return r.Key()
}

// ByLine identifies records by their full raw line.
func ByLine(
	r record.LogRecord,
) string {
	return r.Raw
}

// Key names accepted by KeyFuncFor.
const (
	KeyTimestamp = "timestamp"
	KeyLine      = "line"
)

// KeyFuncFor resolves a configured dedup key name.
func KeyFuncFor(
	name string,
) (KeyFunc, error) {
	switch name {
	case "", KeyTimestamp:
		return ByTimestamp, nil
	case KeyLine:
		return ByLine, nil
	default:
		return nil, fmt.Errorf("unknown dedup key %q", name)
	}
}

// Merge concatenates existing and incoming, stable-sorts by timestamp, and
// keeps the first occurrence of every key. Existing records therefore win
// over incoming records with the same key. Neither input is modified.
func Merge(
	existing []record.LogRecord,
	incoming []record.LogRecord,
	key KeyFunc,
) []record.LogRecord {
	if key == nil {
		key = ByTimestamp
	}

	all := make([]record.LogRecord, 0, len(existing)+len(incoming))
	all = append(all, existing...)
	all = append(all, incoming...)
	record.SortStable(all)

	seen := make(map[string]struct{}, len(all))
	out := all[:0]
	for _, r := range all {
		k := key(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}

	return out
}

// Sorted is Merge with no existing records.
func Sorted(
	incoming []record.LogRecord,
	key KeyFunc,
) []record.LogRecord {
	return Merge(nil, incoming, key)
}

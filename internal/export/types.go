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

// Package export writes query results to a file.
package export

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/retr0h/edgelog/internal/record"
)

// Format selects the on-disk encoding of exported records.
type Format string

const (
	// FormatJSONL writes one JSON object per record.
	FormatJSONL Format = "jsonl"
	// FormatRaw writes the original tab-delimited log line.
	FormatRaw Format = "raw"
)

// Exporter receives records one at a time between Open and Close.
type Exporter interface {
	Open(ctx context.Context) error
	Write(ctx context.Context, rec record.LogRecord) error
	Close(ctx context.Context) error
}

// Result summarizes an export run.
type Result struct {
	TotalRecords    int
	ExportedRecords int
}

// ProgressFunc is called after each batch with the running exported count and total.
type ProgressFunc func(exported int, total int)

// FormatForPath picks raw output for .log, .tsv and .txt files and JSON
// lines for everything else.
func FormatForPath(
	path string,
) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".log", ".tsv", ".txt":
		return FormatRaw
	default:
		return FormatJSONL
	}
}

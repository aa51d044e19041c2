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

package export_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/edgelog/internal/export"
	"github.com/retr0h/edgelog/internal/record"
)

type FilePublicTestSuite struct {
	suite.Suite

	ctx   context.Context
	appFs afero.Fs
	rec   record.LogRecord
}

func (s *FilePublicTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.appFs = afero.NewMemMapFs()
	s.rec = record.LogRecord{
		Date:      "2026-02-21",
		Time:      "10:30:00",
		Timestamp: time.Date(2026, 2, 21, 10, 30, 0, 0, time.UTC),
		ClientIP:  "203.0.113.7",
		Method:    "GET",
		URIStem:   "/api/v1/users",
		Status:    "200",
		Bytes:     512,
		UserAgent: "curl/8.4.0",
		Raw:       "2026-02-21\t10:30:00\tSEA19-C1\t512\t203.0.113.7\tGET\td1.cloudfront.net\t/api/v1/users\t200\t-\tcurl/8.4.0",
	}
}

func (s *FilePublicTestSuite) TestWrite() {
	tests := []struct {
		name         string
		format       export.Format
		validateFunc func(content string)
	}{
		{
			name:   "when jsonl writes one object per line without raw",
			format: export.FormatJSONL,
			validateFunc: func(content string) {
				lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
				s.Require().Len(lines, 2)

				var got map[string]any
				s.Require().NoError(json.Unmarshal([]byte(lines[0]), &got))
				s.Equal("/api/v1/users", got["uri_stem"])
				s.Equal("203.0.113.7", got["client_ip"])
				s.NotContains(got, "raw")
				s.NotContains(got, "Raw")
			},
		},
		{
			name:   "when raw writes original lines",
			format: export.FormatRaw,
			validateFunc: func(content string) {
				s.Equal(s.rec.Raw+"\n"+s.rec.Raw+"\n", content)
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			e := export.NewFileExporter(s.appFs, "/out/results", tc.format)
			s.Require().NoError(s.appFs.MkdirAll("/out", 0o755))

			s.Require().NoError(e.Open(s.ctx))
			s.Require().NoError(e.Write(s.ctx, s.rec))
			s.Require().NoError(e.Write(s.ctx, s.rec))
			s.Require().NoError(e.Close(s.ctx))

			data, err := afero.ReadFile(s.appFs, "/out/results")
			s.Require().NoError(err)
			tc.validateFunc(string(data))
		})
	}
}

func (s *FilePublicTestSuite) TestOpenTruncates() {
	s.Require().NoError(afero.WriteFile(s.appFs, "/results.jsonl", []byte("stale\nstale\n"), 0o644))

	e := export.NewFileExporter(s.appFs, "/results.jsonl", export.FormatRaw)
	s.Require().NoError(e.Open(s.ctx))
	s.Require().NoError(e.Write(s.ctx, s.rec))
	s.Require().NoError(e.Close(s.ctx))

	data, err := afero.ReadFile(s.appFs, "/results.jsonl")
	s.Require().NoError(err)
	s.Equal(s.rec.Raw+"\n", string(data))
}

func (s *FilePublicTestSuite) TestErrors() {
	tests := []struct {
		name        string
		setup       func() *export.FileExporter
		run         func(e *export.FileExporter) error
		errContains string
	}{
		{
			name: "when filesystem is read-only open fails",
			setup: func() *export.FileExporter {
				return export.NewFileExporter(
					afero.NewReadOnlyFs(s.appFs),
					"/results.jsonl",
					export.FormatJSONL,
				)
			},
			run:         func(e *export.FileExporter) error { return e.Open(s.ctx) },
			errContains: "opening export file",
		},
		{
			name: "when write is called before open",
			setup: func() *export.FileExporter {
				return export.NewFileExporter(s.appFs, "/results.jsonl", export.FormatJSONL)
			},
			run:         func(e *export.FileExporter) error { return e.Write(s.ctx, s.rec) },
			errContains: "exporter not opened",
		},
		{
			name: "when close is called before open",
			setup: func() *export.FileExporter {
				return export.NewFileExporter(s.appFs, "/results.jsonl", export.FormatJSONL)
			},
			run:         func(e *export.FileExporter) error { return e.Close(s.ctx) },
			errContains: "exporter not opened",
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			err := tc.run(tc.setup())

			s.Error(err)
			s.Contains(err.Error(), tc.errContains)
		})
	}
}

func TestFilePublicTestSuite(t *testing.T) {
	suite.Run(t, new(FilePublicTestSuite))
}

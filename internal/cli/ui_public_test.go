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

package cli_test

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/edgelog/internal/cli"
	"github.com/retr0h/edgelog/internal/record"
)

type UITestSuite struct {
	suite.Suite
}

func TestUITestSuite(t *testing.T) {
	suite.Run(t, new(UITestSuite))
}

func captureStdout(
	fn func(),
) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	out, _ := io.ReadAll(r)
	os.Stdout = old

	return string(out)
}

func (suite *UITestSuite) TestPrintKV() {
	tests := []struct {
		name     string
		pairs    []string
		contains []string
		empty    bool
	}{
		{
			name:     "when pairs are even prints labels and values",
			pairs:    []string{"Source", "smart cache", "Matched", "12"},
			contains: []string{"Source:", "smart cache", "Matched:", "12"},
		},
		{
			name:  "when pairs are odd prints nothing",
			pairs: []string{"Source"},
			empty: true,
		},
		{
			name:  "when no pairs prints nothing",
			empty: true,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			output := captureStdout(func() {
				cli.PrintKV(tc.pairs...)
			})

			if tc.empty {
				suite.Empty(output)
				return
			}
			for _, c := range tc.contains {
				suite.Contains(output, c)
			}
		})
	}
}

func (suite *UITestSuite) TestPrintCompactTable() {
	tests := []struct {
		name         string
		sections     []cli.Section
		validateFunc func(output string)
	}{
		{
			name: "when section has title prints title and uppercase headers",
			sections: []cli.Section{{
				Title:   "Results",
				Headers: []string{"path", "status"},
				Rows:    [][]string{{"/api/orders", "200"}},
			}},
			validateFunc: func(output string) {
				suite.Contains(output, "Results:")
				suite.Contains(output, "PATH")
				suite.Contains(output, "STATUS")
				suite.Contains(output, "/api/orders")
			},
		},
		{
			name: "when cell spans lines flattens it",
			sections: []cli.Section{{
				Headers: []string{"DATA"},
				Rows:    [][]string{{"first\nsecond"}},
			}},
			validateFunc: func(output string) {
				suite.Contains(output, "first second")
			},
		},
		{
			name: "when cell is too wide truncates with ellipsis",
			sections: []cli.Section{{
				Headers: []string{"PATH", "STATUS"},
				Rows:    [][]string{{"/" + strings.Repeat("a", 80), "200"}},
			}},
			validateFunc: func(output string) {
				suite.Contains(output, "…")
				suite.NotContains(output, strings.Repeat("a", 80))
			},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			output := captureStdout(func() {
				cli.PrintCompactTable(tc.sections)
			})

			tc.validateFunc(output)
		})
	}
}

func (suite *UITestSuite) TestRecordSection() {
	loc, err := time.LoadLocation("America/New_York")
	suite.Require().NoError(err)

	records := []record.LogRecord{
		{
			Timestamp: time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC),
			ClientIP:  "203.0.113.7",
			Method:    "GET",
			URIStem:   "/api/orders",
			Status:    "200",
			Bytes:     2048,
			UserAgent: "curl/8.4.0",
		},
		{
			Timestamp: time.Date(2026, 3, 1, 15, 5, 0, 0, time.UTC),
			ClientIP:  "198.51.100.2",
			Method:    "POST",
			URIStem:   "/api/cart",
			Status:    "503",
			Bytes:     12,
		},
	}

	section := cli.RecordSection("prod", records, loc)

	suite.Equal("prod", section.Title)
	suite.Equal(cli.RecordHeaders, section.Headers)
	suite.Len(section.Rows, 2)
	suite.Len(section.Styles, 2)
	suite.Equal([]string{
		"2026-03-01 10:04:05 EST",
		"200",
		"GET",
		"203.0.113.7",
		"2.0 KB",
		"/api/orders",
		"curl/8.4.0",
	}, section.Rows[0])
	suite.Equal("503", section.Rows[1][1])
}

func (suite *UITestSuite) TestFormatTimestamp() {
	ts := time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC)

	suite.Equal("2026-03-01 15:04:05 UTC", cli.FormatTimestamp(ts, nil))
	suite.Equal("", cli.FormatTimestamp(time.Time{}, time.UTC))
}

func (suite *UITestSuite) TestLoadLocation() {
	tests := []struct {
		name      string
		input     string
		want      string
		expectErr bool
	}{
		{name: "when empty uses UTC", input: "", want: "UTC"},
		{name: "when utc in any case", input: "utc", want: "UTC"},
		{name: "when local uses host zone", input: "Local", want: time.Local.String()},
		{name: "when IANA name", input: "Europe/Berlin", want: "Europe/Berlin"},
		{name: "when unknown zone", input: "Mars/Olympus", expectErr: true},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			loc, err := cli.LoadLocation(tc.input)
			if tc.expectErr {
				suite.Error(err)
				suite.Contains(err.Error(), "loading timezone")
				return
			}

			suite.NoError(err)
			suite.Equal(tc.want, loc.String())
		})
	}
}

func (suite *UITestSuite) TestFormatBytes() {
	tests := []struct {
		name  string
		input int64
		want  string
	}{
		{name: "when bytes", input: 512, want: "512 B"},
		{name: "when kilobytes", input: 5325, want: "5.2 KB"},
		{name: "when megabytes", input: 1048576, want: "1.0 MB"},
		{name: "when gigabytes", input: 3 * 1024 * 1024 * 1024, want: "3.0 GB"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.want, cli.FormatBytes(tc.input))
		})
	}
}

func (suite *UITestSuite) TestFormatAge() {
	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		{name: "when zero", input: 0, want: ""},
		{name: "when seconds", input: 30 * time.Second, want: "30s"},
		{name: "when minutes", input: 45 * time.Minute, want: "45m"},
		{name: "when hours", input: 12*time.Hour + 30*time.Minute, want: "12h 30m"},
		{name: "when days", input: 76 * time.Hour, want: "3d 4h"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.want, cli.FormatAge(tc.input))
		})
	}
}

func (suite *UITestSuite) TestFormatList() {
	suite.Equal("None", cli.FormatList(nil))
	suite.Equal("/api, /auth", cli.FormatList([]string{"/api", "/auth"}))
}

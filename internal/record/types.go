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

// Package record parses CDN access-log lines into LogRecords.
package record

import (
	"errors"
	"time"
)

// Field positions in a tab-delimited access-log line.
const (
	fieldDate      = 0
	fieldTime      = 1
	fieldBytes     = 3
	fieldClientIP  = 4
	fieldMethod    = 5
	fieldURIStem   = 7
	fieldStatus    = 8
	fieldUserAgent = 10
)

// MinFields is the minimum number of tab-separated fields a line must carry.
const MinFields = fieldUserAgent + 1

// UserAgentMaxLen is the display length user agents are truncated to.
const UserAgentMaxLen = 60

// Layout is the zero-padded fixed-width form of a record timestamp as it
// appears in the date and time fields.
const Layout = "2006-01-02 15:04:05"

var (
	// ErrComment is returned for blank lines and lines starting with '#'.
	ErrComment = errors.New("comment line")
	// ErrFieldCount is returned when a line has too few fields.
	ErrFieldCount = errors.New("unexpected field count")
	// ErrTimestamp is returned when the date and time fields do not parse.
	ErrTimestamp = errors.New("unparseable timestamp")
)

// LogRecord is one normalized access-log entry.
type LogRecord struct {
	// Date is the date field exactly as written in the raw line.
	Date string `json:"date"`
	// Time is the time field exactly as written in the raw line.
	Time string `json:"time"`
	// Timestamp is the UTC instant derived from Date and Time.
	Timestamp time.Time `json:"timestamp"`
	// ClientIP is the viewer address, never the forwarded-for chain.
	ClientIP string `json:"client_ip"`
	// Method is the HTTP method, passed through unvalidated.
	Method string `json:"method"`
	// URIStem is the request path without query string.
	URIStem string `json:"uri_stem"`
	// Status is the HTTP status code as written.
	Status string `json:"status"`
	// Bytes is the response size.
	Bytes int64 `json:"bytes"`
	// UserAgent is the decoded and truncated user agent.
	UserAgent string `json:"user_agent"`
	// Raw is the original line, used for dedup and cache serialization.
	Raw string `json:"-"`
}

// Key returns the dedup key: the (date,time) pair as it appears verbatim.
func (r LogRecord) Key() string {
	return r.Date + "\t" + r.Time
}

// StatusClass returns the leading digit class of the status ("2xx", "4xx").
// Unknown statuses return "".
func (r LogRecord) StatusClass() string {
	if len(r.Status) != 3 || r.Status[0] < '1' || r.Status[0] > '5' {
		return ""
	}
	return r.Status[:1] + "xx"
}

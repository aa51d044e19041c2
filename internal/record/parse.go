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

package record

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// userAgentEscapes is the subset of percent escapes decoded in user agents.
// Double-encoded spaces come first so "%2520" does not decode to "%20".
var userAgentEscapes = strings.NewReplacer(
	"%2520", " ",
	"%20", " ",
	"%22", `"`,
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2C", ",",
	"%3B", ";",
	"%3A", ":",
	"%2F", "/",
)

// Parse converts one raw access-log line into a LogRecord.
func Parse(
	line string,
) (LogRecord, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
		return LogRecord{}, ErrComment
	}

	fields := strings.Split(line, "\t")
	if len(fields) < MinFields {
		return LogRecord{}, fmt.Errorf("%w: got %d, want at least %d",
			ErrFieldCount, len(fields), MinFields)
	}

	ts, err := time.ParseInLocation(
		Layout,
		fields[fieldDate]+" "+fields[fieldTime],
		time.UTC,
	)
	if err != nil {
		return LogRecord{}, fmt.Errorf("%w: %q %q", ErrTimestamp, fields[fieldDate], fields[fieldTime])
	}

	// sc-bytes is "-" on some aborted requests.
	size, _ := strconv.ParseInt(fields[fieldBytes], 10, 64)

	return LogRecord{
		Date:      fields[fieldDate],
		Time:      fields[fieldTime],
		Timestamp: ts,
		ClientIP:  fields[fieldClientIP],
		Method:    fields[fieldMethod],
		URIStem:   fields[fieldURIStem],
		Status:    fields[fieldStatus],
		Bytes:     size,
		UserAgent: DecodeUserAgent(fields[fieldUserAgent]),
		Raw:       line,
	}, nil
}

// ParseLines parses every line in data. Blank and comment lines are skipped
// and malformed lines are dropped; the number of dropped lines is returned.
func ParseLines(
	data []byte,
) ([]LogRecord, int) {
	lines := bytes.Split(data, []byte{'\n'})
	records := make([]LogRecord, 0, len(lines))
	dropped := 0

	for _, line := range lines {
		rec, err := Parse(string(line))
		switch {
		case err == nil:
			records = append(records, rec)
		case errors.Is(err, ErrComment):
		default:
			dropped++
		}
	}

	return records, dropped
}

// DecodeUserAgent decodes the known escape subset and truncates the result
// to UserAgentMaxLen runes.
func DecodeUserAgent(
	raw string,
) string {
	ua := userAgentEscapes.Replace(raw)
	if utf8.RuneCountInString(ua) <= UserAgentMaxLen {
		return ua
	}

	runes := []rune(ua)
	return string(runes[:UserAgentMaxLen])
}

// Less reports whether a sorts before b.
func Less(
	a LogRecord,
	b LogRecord,
) bool {
	return a.Timestamp.Before(b.Timestamp)
}

// IsSorted reports whether records are in ascending timestamp order.
func IsSorted(
	records []LogRecord,
) bool {
	return sort.SliceIsSorted(records, func(i, j int) bool {
		return Less(records[i], records[j])
	})
}

// SortStable orders records by timestamp, keeping the relative order of
// records that share a timestamp.
func SortStable(
	records []LogRecord,
) {
	sort.SliceStable(records, func(i, j int) bool {
		return Less(records[i], records[j])
	})
}

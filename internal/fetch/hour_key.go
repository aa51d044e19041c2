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
	"regexp"
	"sort"
	"time"
)

// HourKeyLayout is the hour-granularity timestamp embedded in object keys.
const HourKeyLayout = "2006-01-02-15"

var hourKeyRe = regexp.MustCompile(`(?:^|[./_-])(\d{4}-\d{2}-\d{2}-\d{2})(?:[./_]|$)`)

// HourKey returns the hour key for t in UTC.
func HourKey(
	t time.Time,
) string {
	return t.UTC().Format(HourKeyLayout)
}

// ExtractHourKey returns the hour key embedded in an object key such as
// "logs/E2ABC.2026-03-01-10.a1b2c3.gz".
func ExtractHourKey(
	key string,
) (string, bool) {
	m := hourKeyRe.FindStringSubmatch(key)
	if m == nil {
		return "", false
	}
	if _, err := time.Parse(HourKeyLayout, m[1]); err != nil {
		return "", false
	}
	return m[1], true
}

// SelectObjects keeps the keys whose hour key is at or after sinceHourKey,
// ordered by hour key then key. When more than maxObjects qualify only the
// newest maxObjects are kept; maxObjects <= 0 disables the cap.
func SelectObjects(
	keys []string,
	sinceHourKey string,
	maxObjects int,
) []Object {
	selected := make([]Object, 0, len(keys))
	for _, key := range keys {
		hk, ok := ExtractHourKey(key)
		if !ok || hk < sinceHourKey {
			continue
		}
		selected = append(selected, Object{Key: key, HourKey: hk})
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].HourKey != selected[j].HourKey {
			return selected[i].HourKey < selected[j].HourKey
		}
		return selected[i].Key < selected[j].Key
	})

	if maxObjects > 0 && len(selected) > maxObjects {
		selected = selected[len(selected)-maxObjects:]
	}

	return selected
}

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

package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/retr0h/edgelog/internal/cache"
	"github.com/retr0h/edgelog/internal/cli"
)

// cacheInfoCmd represents the cache info command.
var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache file location, size and covered range",
	Run: func(_ *cobra.Command, _ []string) {
		loc, err := cli.LoadLocation(appConfig.Output.Timezone)
		if err != nil {
			cli.LogFatal(logger, "invalid timezone", err)
		}

		stores := cacheStores()
		infos := make([]*cache.Info, 0, len(stores))
		for _, store := range stores {
			info, err := store.Info()
			if err != nil {
				cli.LogFatal(logger, "failed to read cache", err, "path", store.Path())
			}
			infos = append(infos, info)
		}

		if jsonOutput {
			data, err := json.Marshal(infos)
			if err != nil {
				cli.LogFatal(logger, "failed to marshal cache info", err)
			}
			fmt.Println(string(data))
			return
		}

		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, cacheInfoRow(info, loc, time.Now()))
		}

		cli.PrintCompactTable([]cli.Section{{
			Title:   "Cache",
			Headers: []string{"PATH", "RECORDS", "SIZE", "OLDEST", "NEWEST", "AGE"},
			Rows:    rows,
		}})
	},
}

// cacheInfoRow renders one cache file as a table row. Age is the time since
// the newest cached record.
func cacheInfoRow(
	info *cache.Info,
	loc *time.Location,
	now time.Time,
) []string {
	if !info.Exists {
		return []string{info.Path, "0", "-", "-", "-", "-"}
	}

	age := "-"
	if !info.Newest.IsZero() {
		age = cli.FormatAge(now.Sub(info.Newest))
	}

	return []string{
		info.Path,
		strconv.Itoa(info.Records),
		cli.FormatBytes(info.Size),
		cli.FormatTimestamp(info.Oldest, loc),
		cli.FormatTimestamp(info.Newest, loc),
		age,
	}
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
}

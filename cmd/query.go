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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/retr0h/edgelog/internal/cli"
	"github.com/retr0h/edgelog/internal/export"
	"github.com/retr0h/edgelog/internal/filter"
	"github.com/retr0h/edgelog/internal/pipeline"
	"github.com/retr0h/edgelog/internal/record"
	"github.com/retr0h/edgelog/internal/telemetry"
)

var (
	queryEnv       string
	queryMinutes   int
	queryIP        string
	queryNoCache   bool
	queryFresh     bool
	queryCacheOnly bool
	queryOutput    string
	queryTimezone  string
)

// queryCmd represents the query command.
var queryCmd = &cobra.Command{
	Use:     "query ENDPOINT[,ENDPOINT...] [ENDPOINT...]",
	Aliases: []string{"q"},
	Short:   "Show access log records matching endpoints",
	Long: `Show every access log record whose path matches one of the given
endpoint patterns within the last --minutes minutes.

Patterns are unanchored regular expressions; a pattern that is not a valid
expression matches as a literal substring. Multiple patterns are OR-ed.

By default the local cache answers when it covers the window and is
extended otherwise. --fresh refetches the whole window (the cache is still
updated), --cache-only answers from the cache whenever it has data, and
--no-cache bypasses it and replaces the cache file with the fetched batch.
`,
	Example: `  edgelog query /api/v2/orders -e prod -m 30
  edgelog q '/api/(cart|checkout)' --ip 203.0.113.7 --fresh
  edgelog q /auth,/api -m 120 --output results.jsonl`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		tz := appConfig.Output.Timezone
		if cmd.Flags().Changed("tz") {
			tz = queryTimezone
		}
		loc, err := cli.LoadLocation(tz)
		if err != nil {
			cli.LogFatal(logger, "invalid timezone", err)
		}

		metrics := telemetry.NewMetrics()
		p, err := newPipeline(&appConfig, metrics)
		if err != nil {
			cli.LogFatal(logger, "failed to build pipeline", err)
		}

		result, err := p.Run(ctx, pipeline.Request{
			Env:        queryEnv,
			Endpoints:  filter.SplitPatterns(args...),
			Minutes:    queryMinutes,
			IP:         queryIP,
			UseCache:   appConfig.Cache.Enabled && !queryNoCache,
			ForceFresh: queryFresh,
			CacheOnly:  queryCacheOnly,
		})
		if err != nil {
			cli.LogFatal(logger, "query failed", err, "env", queryEnv)
		}

		if err := metrics.WriteTextfile(appConfig.Telemetry.Metrics.Textfile); err != nil {
			logger.Warn("metrics not written", slog.String("error", err.Error()))
		}

		if queryOutput != "" {
			writeQueryExport(ctx, result.Records)
		}

		if jsonOutput {
			printRecordsJSON(result.Records)
			return
		}

		displayQueryResult(result, loc)
	},
}

func writeQueryExport(
	ctx context.Context,
	records []record.LogRecord,
) {
	exporter := export.NewFileExporter(appFs, queryOutput, export.FormatForPath(queryOutput))

	res, err := export.Run(ctx, logger, records, exporter, export.DefaultBatchSize,
		func(exported int, total int) {
			logger.Debug(
				"export progress",
				slog.Int("exported", exported),
				slog.Int("total", total),
			)
		},
	)
	if err != nil {
		cli.LogFatal(logger, "export failed", err, "output", queryOutput)
	}

	logger.Info(
		"results exported",
		slog.String("output", queryOutput),
		slog.Int("records", res.ExportedRecords),
	)
}

func printRecordsJSON(
	records []record.LogRecord,
) {
	data, err := json.Marshal(records)
	if err != nil {
		cli.LogFatal(logger, "failed to marshal records", err)
	}

	fmt.Fprintln(os.Stdout, string(data))
}

func displayQueryResult(
	result *pipeline.Result,
	loc *time.Location,
) {
	fmt.Println()
	cli.PrintKV(
		"Env", queryEnv,
		"Source", result.Decision.Label,
		"Matched", strconv.Itoa(result.Stats.Matched),
	)
	cli.PrintKV(
		"From", cli.FormatTimestamp(result.Since, loc),
		"To", cli.FormatTimestamp(result.Until, loc),
	)
	if result.Decision.NeedsFetch() {
		cli.PrintKV(
			"Objects", fmt.Sprintf(
				"%d listed, %d fetched, %d failed",
				result.Stats.Listed,
				result.Stats.Selected-result.Stats.Failed,
				result.Stats.Failed,
			),
			"Records", strconv.Itoa(result.Stats.Fetched),
		)
	}

	if len(result.Records) == 0 {
		fmt.Println()
		fmt.Println("  " + cli.DimStyle.Render("No matching records."))
		return
	}

	cli.PrintCompactTable([]cli.Section{
		cli.RecordSection("", result.Records, loc),
	})
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVarP(&queryEnv, "env", "e", "", "Environment to query (required)")
	queryCmd.Flags().IntVarP(&queryMinutes, "minutes", "m", 60, "Window size in minutes back from now")
	queryCmd.Flags().StringVar(&queryIP, "ip", "", "Only show records from this client IP")
	queryCmd.Flags().BoolVar(&queryNoCache, "no-cache", false, "Bypass the cache and replace it with this fetch")
	queryCmd.Flags().BoolVarP(&queryFresh, "fresh", "f", false, "Refetch the whole window, then update the cache")
	queryCmd.Flags().BoolVar(&queryCacheOnly, "cache-only", false, "Answer from the cache whenever it has data")
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", "", "Also write results to a file (.jsonl or .log)")
	queryCmd.Flags().StringVar(&queryTimezone, "tz", "", "Timezone for displayed timestamps")

	_ = queryCmd.MarkFlagRequired("env")
	queryCmd.MarkFlagsMutuallyExclusive("fresh", "cache-only")
	queryCmd.MarkFlagsMutuallyExclusive("no-cache", "cache-only")
}

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
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/retr0h/edgelog/internal/cli"
)

// cacheClearCmd represents the cache clear command.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cache files",
	Long: `Delete the cache file of --env, or of every configured environment.
The next query of a cleared environment fetches its full window.
`,
	Run: func(_ *cobra.Command, _ []string) {
		for _, store := range cacheStores() {
			if err := store.Clear(); err != nil {
				cli.LogFatal(logger, "failed to clear cache", err, "path", store.Path())
			}
			logger.Info("cache cleared", slog.String("path", store.Path()))
		}

		fmt.Println()
		cli.PrintKV("Cleared", cli.FormatList(clearedEnvs()))
	},
}

func clearedEnvs() []string {
	if cacheEnv != "" {
		return []string{cacheEnv}
	}

	return sortedEnvironments(&appConfig)
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}

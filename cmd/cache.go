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

	"github.com/spf13/cobra"

	"github.com/retr0h/edgelog/internal/cache"
	"github.com/retr0h/edgelog/internal/cli"
	"github.com/retr0h/edgelog/internal/validation"
)

var cacheEnv string

// cacheCmd represents the cache command.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local log cache",
	Long: `Inspect or clear the per-environment cache files that hold previously
fetched log records.
`,
}

// cacheStores returns the store of --env, or of every configured
// environment when it is empty.
func cacheStores() []*cache.Store {
	envs := sortedEnvironments(&appConfig)
	if cacheEnv != "" {
		if errMsg, ok := validation.Var(cacheEnv, "valid_env"); !ok {
			cli.LogFatal(logger, "invalid environment", fmt.Errorf("%s", errMsg), "env", cacheEnv)
		}
		envs = []string{cacheEnv}
	}

	stores := make([]*cache.Store, 0, len(envs))
	for _, env := range envs {
		stores = append(stores, cache.New(logger, appFs, appConfig.Cache.Dir, env))
	}

	return stores
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.PersistentFlags().
		StringVarP(&cacheEnv, "env", "e", "", "Environment (default: all configured)")
}

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
	"sort"

	"github.com/retr0h/edgelog/internal/config"
	"github.com/retr0h/edgelog/internal/exec"
	"github.com/retr0h/edgelog/internal/fetch"
	"github.com/retr0h/edgelog/internal/merge"
	"github.com/retr0h/edgelog/internal/pipeline"
	"github.com/retr0h/edgelog/internal/telemetry"
)

// targetsFromConfig maps each configured environment to its fetch target.
func targetsFromConfig(
	envs map[string]config.Environment,
) map[string]fetch.Target {
	targets := make(map[string]fetch.Target, len(envs))
	for name, env := range envs {
		targets[name] = fetch.Target{
			Bucket: env.Bucket,
			Prefix: env.Prefix,
		}
	}

	return targets
}

// sortedEnvironments returns the configured environment names in order.
func sortedEnvironments(
	cfg *config.Config,
) []string {
	names := cfg.EnvironmentNames()
	sort.Strings(names)

	return names
}

// newPipeline wires the aws CLI object store, fetcher and cache into a
// query pipeline from the loaded configuration.
func newPipeline(
	cfg *config.Config,
	metrics *telemetry.Metrics,
) (*pipeline.Pipeline, error) {
	key, err := merge.KeyFuncFor(cfg.Cache.DedupKey)
	if err != nil {
		return nil, err
	}

	store := fetch.NewAWSCLI(
		logger,
		exec.New(logger),
		fetch.AWSCLIConfig{
			Profile:     cfg.AWS.Profile,
			Region:      cfg.AWS.Region,
			EndpointURL: cfg.AWS.EndpointURL,
			Timeout:     cfg.AWS.Timeout,
		},
	)
	fetcher := fetch.New(logger, store, cfg.Fetch.Workers, cfg.Fetch.MaxObjects)

	return pipeline.New(
		logger,
		appFs,
		cfg.Cache.Dir,
		targetsFromConfig(cfg.Environments),
		fetcher,
		pipeline.WithKeyFunc(key),
		pipeline.WithRefreshAfter(cfg.Cache.RefreshAfter),
		pipeline.WithMetrics(metrics),
	), nil
}

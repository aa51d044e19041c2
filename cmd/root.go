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
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/retr0h/edgelog/internal/cli"
	"github.com/retr0h/edgelog/internal/config"
	"github.com/retr0h/edgelog/internal/telemetry"
	"github.com/retr0h/edgelog/internal/validation"
)

// skipConfigAnnotation marks commands that run without a config file.
const skipConfigAnnotation = "edgelog/skip-config"

var (
	appConfig      config.Config
	appFs          = afero.NewOsFs()
	logger         = slog.New(slog.NewTextHandler(os.Stderr, nil))
	jsonOutput     bool
	buildInfo      goversion.Info
	tracerShutdown = func(context.Context) error { return nil }
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "edgelog",
	Short: "Query CDN access logs with an incremental local cache.",
	Long: `Query CDN access logs for one or more API endpoints over a recent
time window. Log objects already seen are kept in a local cache per
environment, so repeated queries only download what is missing.

┌─┐┌┬┐┌─┐┌─┐┬  ┌─┐┌─┐
├┤  │││ ┬├┤ │  │ ││ ┬
└─┘─┴┘└─┘└─┘┴─┘└─┘└─┘

https://github.com/retr0h/edgelog
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if cmd.Annotations[skipConfigAnnotation] == "true" {
			return
		}

		initConfig()
		initTracer(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tracerShutdown(ctx); err != nil {
			logger.Warn("flushing traces", slog.String("error", err.Error()))
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(
	info goversion.Info,
) {
	buildInfo = info

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogger)

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable or disable debug mode")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Enable JSON output")
	rootCmd.PersistentFlags().
		StringP("config", "c", defaultConfigFile(), "Path to config file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("configFile", rootCmd.PersistentFlags().Lookup("config"))

	viper.SetDefault("cache.dir", defaultCacheDir())
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dedup_key", "timestamp")
	viper.SetDefault("fetch.workers", 4)
	viper.SetDefault("fetch.max_objects", 500)
	viper.SetDefault("aws.timeout", 300)
}

func defaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "edgelog.yaml"
	}

	return filepath.Join(dir, "edgelog", "edgelog.yaml")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "edgelog")
	}

	return filepath.Join(dir, "edgelog")
}

func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("edgelog")
	viper.SetConfigFile(viper.GetString("configFile"))

	if err := viper.ReadInConfig(); err != nil {
		cli.LogFatal(logger, "failed to read config", err, "configFile", viper.ConfigFileUsed())
	}

	if err := viper.Unmarshal(&appConfig); err != nil {
		cli.LogFatal(logger, "failed to unmarshal config", err, "configFile", viper.ConfigFileUsed())
	}
	appConfig.Cache.Dir = expandHome(appConfig.Cache.Dir)

	// Auto-enable tracing in debug mode so trace_id appears in log lines.
	// No exporter is set, just log correlation.
	if appConfig.Debug && !appConfig.Telemetry.Tracing.Enabled {
		appConfig.Telemetry.Tracing.Enabled = true
	}

	if err := config.Validate(&appConfig); err != nil {
		cli.LogFatal(logger, "validation failed", err, "configFile", viper.ConfigFileUsed())
	}

	validation.RegisterEnvironmentLister(appConfig.EnvironmentNames)
}

func initLogger() {
	logLevel := slog.LevelInfo
	if viper.GetBool("debug") {
		logLevel = slog.LevelDebug
	}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.Kitchen,
			NoColor:    !term.IsTerminal(int(os.Stderr.Fd())),
		})
	}

	handler = telemetry.NewTraceHandler(handler)
	logger = slog.New(handler).With(slog.String("run_id", uuid.NewString()))
}

func initTracer(
	ctx context.Context,
) {
	shutdown, err := telemetry.InitTracer(
		ctx,
		"edgelog",
		buildInfo.GitVersion,
		appConfig.Telemetry.Tracing,
	)
	if err != nil {
		cli.LogFatal(logger, "failed to initialize tracing", err)
	}

	tracerShutdown = shutdown
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(
	path string,
) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

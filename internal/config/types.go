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

package config

import "time"

// Config represents the root structure of the YAML configuration file.
// This struct is used to unmarshal configuration data from Viper.
type Config struct {
	AWS          AWS                    `mapstructure:"aws"`
	Environments map[string]Environment `mapstructure:"environments" validate:"required,min=1,dive"`
	Cache        Cache                  `mapstructure:"cache"`
	Fetch        Fetch                  `mapstructure:"fetch"`
	Output       Output                 `mapstructure:"output"`
	Telemetry    Telemetry              `mapstructure:"telemetry"`
	// Debug enable or disable debug option set from CLI.
	Debug bool `mapstructure:"debug"`
}

// AWS configuration settings passed to the aws CLI.
type AWS struct {
	// Profile selects a named profile from the shared credentials file.
	Profile string `mapstructure:"profile"`
	// Region overrides the default region.
	Region string `mapstructure:"region"`
	// EndpointURL points the CLI at an S3-compatible endpoint.
	EndpointURL string `mapstructure:"endpoint_url" validate:"omitempty,url"`
	// Timeout is the per-command timeout in seconds.
	Timeout int `mapstructure:"timeout" validate:"gte=0"`
}

// Environment describes where one environment's access logs live.
type Environment struct {
	// Bucket holding the access log objects.
	Bucket string `mapstructure:"bucket" validate:"required"`
	// Prefix narrows the listing, e.g. "cloudfront/E2ABCDEF".
	Prefix string `mapstructure:"prefix"`
}

// Cache configuration settings.
type Cache struct {
	// Dir holding one cache file per environment.
	Dir string `mapstructure:"dir"`
	// Enabled toggles the persistent cache. The --no-cache flag overrides it.
	Enabled bool `mapstructure:"enabled"`
	// DedupKey selects record identity: "timestamp" or "line".
	DedupKey string `mapstructure:"dedup_key" validate:"omitempty,oneof=timestamp line"`
	// RefreshAfter forces an extend when the newest cached record is older
	// than this. Zero disables the check.
	RefreshAfter time.Duration `mapstructure:"refresh_after" validate:"gte=0"`
}

// Fetch configuration settings.
type Fetch struct {
	// Workers bounds concurrent object downloads.
	Workers int `mapstructure:"workers" validate:"gte=0"`
	// MaxObjects caps how many objects one fetch will download.
	MaxObjects int `mapstructure:"max_objects" validate:"gte=0"`
}

// Output configuration settings.
type Output struct {
	// Timezone used when rendering timestamps, e.g. "America/Los_Angeles".
	Timezone string `mapstructure:"timezone" validate:"omitempty,timezone"`
}

// Telemetry configuration settings.
type Telemetry struct {
	Tracing TracingConfig `mapstructure:"tracing,omitempty"`
	Metrics MetricsConfig `mapstructure:"metrics,omitempty"`
}

// MetricsConfig configuration settings for Prometheus metrics.
type MetricsConfig struct {
	// Textfile is the path of a node_exporter textfile written after each
	// query. Empty disables metrics output.
	Textfile string `mapstructure:"textfile"`
}

// TracingConfig configuration settings for distributed tracing.
type TracingConfig struct {
	// Enabled enables or disables tracing.
	Enabled bool `mapstructure:"enabled"`
	// Exporter selects the trace exporter: "stdout" or "otlp".
	Exporter string `mapstructure:"exporter" validate:"omitempty,oneof=none stdout otlp"`
	// OTLPEndpoint is the gRPC endpoint for the OTLP exporter (e.g., "localhost:4317").
	OTLPEndpoint string `mapstructure:"otlp_endpoint" validate:"required_if=Exporter otlp"`
}

// EnvironmentNames returns the configured environment names.
func (c *Config) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}

	return names
}

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
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/retr0h/edgelog/internal/exec"
)

// AWSCLIConfig holds the aws CLI parameters used for every call.
type AWSCLIConfig struct {
	Profile     string
	Region      string
	EndpointURL string
	// Timeout is the per-command timeout in seconds.
	Timeout int
}

// AWSCLI is an ObjectStore backed by the aws CLI (`aws s3 ls`, `aws s3 cp`).
type AWSCLI struct {
	logger      *slog.Logger
	execManager exec.Manager
	cfg         AWSCLIConfig
}

// NewAWSCLI returns an ObjectStore that shells out to the aws CLI.
func NewAWSCLI(
	logger *slog.Logger,
	execManager exec.Manager,
	cfg AWSCLIConfig,
) *AWSCLI {
	return &AWSCLI{
		logger:      logger,
		execManager: execManager,
		cfg:         cfg,
	}
}

// List runs `aws s3 ls --recursive` and returns the object keys.
func (a *AWSCLI) List(
	ctx context.Context,
	bucket string,
	prefix string,
) ([]string, error) {
	args := append([]string{"s3", "ls", objectURL(bucket, prefix), "--recursive"}, a.globalArgs()...)

	result, err := a.execManager.RunCmdFull(ctx, "aws", args, nil, a.cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("listing s3://%s/%s: %w", bucket, prefix, err)
	}

	// ls exits 1 without output when nothing matches the prefix.
	if result.ExitCode == 1 && strings.TrimSpace(result.Stdout+result.Stderr) == "" {
		return nil, nil
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("listing s3://%s/%s: %w", bucket, prefix, exitError(result))
	}

	return parseListing(result.Stdout), nil
}

// Get runs `aws s3 cp <object> -` and returns the object bytes.
func (a *AWSCLI) Get(
	ctx context.Context,
	bucket string,
	key string,
) ([]byte, error) {
	args := append([]string{"s3", "cp", objectURL(bucket, key), "-", "--only-show-errors"}, a.globalArgs()...)

	out, err := a.run(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("downloading s3://%s/%s: %w", bucket, key, err)
	}

	return []byte(out), nil
}

func (a *AWSCLI) run(
	ctx context.Context,
	args []string,
) (string, error) {
	result, err := a.execManager.RunCmdFull(ctx, "aws", args, nil, a.cfg.Timeout)
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", exitError(result)
	}
	return result.Stdout, nil
}

func exitError(
	result *exec.CmdResult,
) error {
	return fmt.Errorf(
		"aws exited with code %d: %s",
		result.ExitCode,
		strings.TrimSpace(result.Stderr),
	)
}

func (a *AWSCLI) globalArgs() []string {
	var args []string
	if a.cfg.Profile != "" {
		args = append(args, "--profile", a.cfg.Profile)
	}
	if a.cfg.Region != "" {
		args = append(args, "--region", a.cfg.Region)
	}
	if a.cfg.EndpointURL != "" {
		args = append(args, "--endpoint-url", a.cfg.EndpointURL)
	}
	return args
}

func objectURL(
	bucket string,
	key string,
) string {
	return "s3://" + bucket + "/" + strings.TrimPrefix(key, "/")
}

// parseListing extracts keys from `aws s3 ls --recursive` output lines of the
// form "2026-03-01 10:31:02      12345 logs/E2ABC.2026-03-01-10.a1b2.gz".
func parseListing(
	out string,
) []string {
	var keys []string
	for _, line := range strings.Split(out, "\n") {
		if key, ok := listingKey(strings.TrimRight(line, "\r")); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// listingKey returns the raw remainder of line after the date, time and size
// columns, so whitespace inside a key survives.
func listingKey(
	line string,
) (string, bool) {
	rest := line
	for range 3 {
		rest = strings.TrimLeft(rest, " \t")
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			return "", false
		}
		rest = rest[i:]
	}
	rest = strings.TrimLeft(rest, " \t")
	if rest == "" {
		return "", false
	}
	return rest, true
}

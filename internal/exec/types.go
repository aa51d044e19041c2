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

// Package exec runs external commands with captured output.
package exec

import (
	"context"
	"log/slog"
)

//go:generate go tool mockgen -source=types.go -destination=mocks/exec.gen.go -package=mocks

// Manager runs external commands.
type Manager interface {
	// RunCmdFull executes name with args, extra environment variables, and a
	// timeout in seconds, returning captured stdout and stderr.
	RunCmdFull(
		ctx context.Context,
		name string,
		args []string,
		env []string,
		timeout int,
	) (*CmdResult, error)
}

// CmdResult is the captured outcome of a command.
type CmdResult struct {
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMs int64
}

// Exec is the os/exec backed Manager.
type Exec struct {
	logger *slog.Logger
}

// New returns an Exec that logs each invocation at debug level.
func New(
	logger *slog.Logger,
) *Exec {
	return &Exec{
		logger: logger,
	}
}

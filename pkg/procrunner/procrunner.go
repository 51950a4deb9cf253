// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package procrunner is the process runner capability named in spec.md
// §6: a processor that shells out (a minifier CLI, a linter, a formatter)
// runs through here rather than calling os/exec directly, so output
// capture, cancellation, and bounded fan-out are handled the same way
// everywhere. A child's stdout and stderr are buffered into its Result;
// nothing here streams or logs them.
package procrunner

import (
	"bytes"
	"context"
	"os/exec"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// Options configures one Exec call.
type Options struct {
	Dir string
	Env []string
	// Stdin, if non-nil, is written to the process's standard input.
	Stdin []byte
}

// Result is the outcome of one process run.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Exec runs command synchronously and returns its captured output. A
// non-zero exit is reported via Result.ExitCode, not as an error; err is
// reserved for failures to start or stream the process.
func Exec(ctx context.Context, command string, args []string, opts Options) (Result, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = opts.Dir
	if opts.Env != nil {
		cmd.Env = opts.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if opts.Stdin != nil {
		cmd.Stdin = bytes.NewReader(opts.Stdin)
	}

	runErr := cmd.Run()
	result := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if runErr == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return result, errors.Errorf("running %s: %w", command, runErr)
}

// ExecAsync runs Exec in its own goroutine and delivers the result via cb.
func ExecAsync(ctx context.Context, command string, args []string, opts Options, cb func(Result, error)) {
	go func() {
		result, err := Exec(ctx, command, args, opts)
		cb(result, err)
	}()
}

// Call is one invocation to run as part of a bounded fan-out.
type Call struct {
	Command string
	Args    []string
	Options Options
}

// ExecAll runs calls concurrently, bounded to at most maxConcurrent
// processes in flight at once, and returns one Result per call in the
// same order as calls. A failure to run any call (an error from Exec) aborts the
// remaining in-flight calls and is returned; a non-zero exit code does
// not.
func ExecAll(ctx context.Context, calls []Call, maxConcurrent int) ([]Result, error) {
	results := make([]Result, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, c := range calls {
		i, c := i, c
		g.Go(func() error {
			result, err := Exec(gctx, c.Command, c.Args, c.Options)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

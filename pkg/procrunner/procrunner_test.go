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

package procrunner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecCapturesStdout(t *testing.T) {
	result, err := Exec(context.Background(), "echo", []string{"hello"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "hello\n", string(result.Stdout))
}

func TestExecNonZeroExitIsNotAnError(t *testing.T) {
	result, err := Exec(context.Background(), "false", nil, Options{})
	require.NoError(t, err)
	assert.NotEqual(t, 0, result.ExitCode)
}

func TestExecMissingCommandIsAnError(t *testing.T) {
	_, err := Exec(context.Background(), "definitely-not-a-real-command", nil, Options{})
	assert.Error(t, err)
}

func TestExecAsyncDeliversResult(t *testing.T) {
	done := make(chan Result, 1)
	ExecAsync(context.Background(), "echo", []string{"async"}, Options{}, func(r Result, err error) {
		require.NoError(t, err)
		done <- r
	})

	select {
	case r := <-done:
		assert.Equal(t, "async\n", string(r.Stdout))
	case <-time.After(2 * time.Second):
		t.Fatal("ExecAsync never delivered a result")
	}
}

func TestExecAllRunsEveryCallInOrder(t *testing.T) {
	calls := []Call{
		{Command: "echo", Args: []string{"one"}},
		{Command: "echo", Args: []string{"two"}},
		{Command: "echo", Args: []string{"three"}},
	}

	results, err := ExecAll(context.Background(), calls, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "one\n", string(results[0].Stdout))
	assert.Equal(t, "two\n", string(results[1].Stdout))
	assert.Equal(t, "three\n", string(results[2].Stdout))
}

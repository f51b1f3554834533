// Copyright 2024 Jeeves CI
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

package provision

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands on behalf of the provisioner.
type Runner interface {
	// Run executes name with args in dir, streaming its output.
	Run(ctx context.Context, dir, name string, args ...string) error
	// Output executes name with args in dir and returns its stdout.
	Output(ctx context.Context, dir, name string, args ...string) (string, error)
}

type execRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewRunner returns a Runner backed by os/exec. Command output is
// discarded unless verbose is set; stderr is always passed through.
func NewRunner(verbose bool) Runner {
	var o io.Writer = io.Discard
	if verbose {
		o = os.Stdout
	}
	return &execRunner{stdout: o, stderr: os.Stderr}
}

func (r *execRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (r *execRunner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stderr = r.stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

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
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// ErrActivationFailed indicates the created environment did not export the
// VIRTUAL_ENV sentinel when activated.
var ErrActivationFailed = errors.New("environment activation failed")

// Environment is an isolated Python environment rooted at a directory.
type Environment struct {
	Root   string
	runner Runner
}

func NewEnvironment(root string, runner Runner) *Environment {
	return &Environment{Root: root, runner: runner}
}

// Create materializes the environment by invoking the unpacked virtualenv
// script against the base interpreter.
func (e *Environment) Create(ctx context.Context, python, virtualenvScript string) error {
	if err := e.runner.Run(ctx, "", python, virtualenvScript, e.Root); err != nil {
		return fmt.Errorf("failed to create environment at %s: %w", e.Root, err)
	}
	return nil
}

// Activate sources the environment's activation script in a subshell and
// returns the resolved VIRTUAL_ENV path. An empty sentinel means the
// environment is not usable.
func (e *Environment) Activate(ctx context.Context) (string, error) {
	var out string
	var err error
	if runtime.GOOS == "windows" {
		script := filepath.Join(e.Root, "Scripts", "activate.ps1")
		out, err = e.runner.Output(ctx, "", "powershell", "-Command",
			fmt.Sprintf(". %q; $Env:VIRTUAL_ENV", script))
	} else {
		script := filepath.Join(e.Root, "bin", "activate")
		out, err = e.runner.Output(ctx, "", "bash", "-c",
			fmt.Sprintf(`source %q && printf '%%s' "$VIRTUAL_ENV"`, script))
	}
	if err != nil {
		return "", fmt.Errorf("%w at %q: %v", ErrActivationFailed, e.Root, err)
	}
	if out == "" {
		return "", fmt.Errorf("%w at %q: VIRTUAL_ENV not set", ErrActivationFailed, e.Root)
	}
	return out, nil
}

// InstallRequirements installs the fixed dependency set from manifest
// using the environment's own pip.
func (e *Environment) InstallRequirements(ctx context.Context, manifest string) error {
	if err := e.runner.Run(ctx, "", e.pip(), "install", "-r", manifest); err != nil {
		return fmt.Errorf("failed to install requirements from %s: %w", manifest, err)
	}
	return nil
}

func (e *Environment) pip() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.Root, "Scripts", "pip.exe")
	}
	return filepath.Join(e.Root, "bin", "pip")
}

// ActivateCommand returns the shell command an operator runs to activate
// the environment, for display in the success banner.
func (e *Environment) ActivateCommand() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.Root, "Scripts", "activate.ps1")
	}
	return "source " + filepath.Join(e.Root, "bin", "activate")
}

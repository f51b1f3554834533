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

// Package provision creates the isolated Python environment a Jenkins CI
// master runs on: it fetches a pinned virtualenv release, materializes the
// environment, validates it, installs the dependency manifest, and seeds
// the master's config files.
package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jeeves-ci/jeeves-cli/pkg/util"
)

const (
	DefaultEnvName           = "jenkins-env"
	DefaultVirtualenvVersion = "1.11.6"
	DefaultPython            = "python"
	DefaultRequirements      = "requirements.txt"

	virtualenvURLTemplate = "https://pypi.python.org/packages/source/v/virtualenv/virtualenv-%s.zip"
	tmpDirName            = "tmp"
)

// FetchFunc downloads url into dest. It exists so tests can provision
// without network access.
type FetchFunc func(ctx context.Context, url, dest string) error

type Options struct {
	// BaseDir is the invocation location. Defaults to the current
	// working directory.
	BaseDir string
	// EnvName is the environment directory name relative to BaseDir.
	EnvName string
	// VirtualenvVersion pins the virtualenv release to download.
	VirtualenvVersion string
	// Python is the base interpreter used to run virtualenv.
	Python string
	// Requirements is the dependency manifest, relative to BaseDir.
	Requirements string

	Runner Runner
	Logger *zap.Logger
	Fetch  FetchFunc
}

// Step is one stage of the provisioning sequence. Cleanup, when present,
// runs if this or any later step fails.
type Step struct {
	Name    string
	Run     func(ctx context.Context) error
	Cleanup func()
}

type Provisioner struct {
	opts Options
	env  *Environment
	log  *zap.Logger
}

func New(opts Options) (*Provisioner, error) {
	if opts.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		opts.BaseDir = wd
	}
	if opts.EnvName == "" {
		opts.EnvName = DefaultEnvName
	}
	if opts.VirtualenvVersion == "" {
		opts.VirtualenvVersion = DefaultVirtualenvVersion
	}
	if opts.Python == "" {
		opts.Python = DefaultPython
	}
	if opts.Requirements == "" {
		opts.Requirements = DefaultRequirements
	}
	if opts.Runner == nil {
		opts.Runner = NewRunner(false)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Fetch == nil {
		opts.Fetch = func(ctx context.Context, url, dest string) error {
			return util.DownloadFile(ctx, url, dest, "Downloading virtualenv")
		}
	}

	return &Provisioner{
		opts: opts,
		env:  NewEnvironment(filepath.Join(opts.BaseDir, opts.EnvName), opts.Runner),
		log:  opts.Logger,
	}, nil
}

// EnvDir returns the absolute path of the environment directory.
func (p *Provisioner) EnvDir() string {
	return p.env.Root
}

// Env returns the environment being provisioned.
func (p *Provisioner) Env() *Environment {
	return p.env
}

// Run executes the provisioning sequence. On the first failing step all
// registered cleanups run in reverse order, leaving no partial environment
// or scratch directory behind.
func (p *Provisioner) Run(ctx context.Context) error {
	tmpDir := filepath.Join(p.opts.BaseDir, tmpDirName)
	archive := filepath.Join(tmpDir, fmt.Sprintf("virtualenv-%s.zip", p.opts.VirtualenvVersion))
	script := filepath.Join(tmpDir, fmt.Sprintf("virtualenv-%s", p.opts.VirtualenvVersion), "virtualenv.py")
	manifest := filepath.Join(p.opts.BaseDir, p.opts.Requirements)

	steps := []Step{
		{
			Name: "reset workspace",
			Run: func(ctx context.Context) error {
				if err := os.RemoveAll(p.env.Root); err != nil {
					return err
				}
				if err := os.RemoveAll(tmpDir); err != nil {
					return err
				}
				return os.MkdirAll(tmpDir, 0o755)
			},
			Cleanup: func() { os.RemoveAll(tmpDir) },
		},
		{
			Name: "fetch virtualenv",
			Run: func(ctx context.Context) error {
				url := fmt.Sprintf(virtualenvURLTemplate, p.opts.VirtualenvVersion)
				return p.opts.Fetch(ctx, url, archive)
			},
		},
		{
			Name: "expand archive",
			Run: func(ctx context.Context) error {
				return Unzip(archive, tmpDir)
			},
		},
		{
			Name: "create environment",
			Run: func(ctx context.Context) error {
				return p.env.Create(ctx, p.opts.Python, script)
			},
			Cleanup: func() { os.RemoveAll(p.env.Root) },
		},
		{
			Name: "validate activation",
			Run: func(ctx context.Context) error {
				resolved, err := p.env.Activate(ctx)
				if err != nil {
					return err
				}
				p.log.Debug("environment activated", zap.String("virtual_env", resolved))
				return nil
			},
		},
		{
			Name: "install requirements",
			Run: func(ctx context.Context) error {
				return p.env.InstallRequirements(ctx, manifest)
			},
		},
		{
			Name: "remove scratch directory",
			Run: func(ctx context.Context) error {
				return os.RemoveAll(tmpDir)
			},
		},
		{
			Name: "seed config files",
			Run: func(ctx context.Context) error {
				return ApplySeeds(p.opts.BaseDir, DefaultSeeds())
			},
		},
	}

	return p.runSteps(ctx, steps)
}

func (p *Provisioner) runSteps(ctx context.Context, steps []Step) error {
	var cleanups []func()

	fail := func(name string, err error) error {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		return fmt.Errorf("%s: %w", name, err)
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return fail(s.Name, err)
		}
		if s.Cleanup != nil {
			cleanups = append(cleanups, s.Cleanup)
		}
		p.log.Debug("running step", zap.String("step", s.Name))
		if err := s.Run(ctx); err != nil {
			return fail(s.Name, err)
		}
	}

	return nil
}

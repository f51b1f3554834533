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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/jeeves-ci/jeeves-cli/pkg/config"
	"github.com/jeeves-ci/jeeves-cli/pkg/provision"
	"github.com/jeeves-ci/jeeves-cli/pkg/util"
)

var (
	virtualenvVersion string
	pythonBin         string
	requirementsFile  string

	SetupCommands = []*cli.Command{
		{
			Name:      "setup",
			Category:  "Core",
			Usage:     "Provision the isolated Python environment for the Jenkins master",
			ArgsUsage: "[ENV_NAME]",
			Action:    setupEnvironment,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "virtualenv-version",
					Usage:       "Pinned `VERSION` of virtualenv to download",
					Destination: &virtualenvVersion,
				},
				&cli.StringFlag{
					Name:        "python",
					Usage:       "Base `INTERPRETER` used to create the environment",
					Value:       provision.DefaultPython,
					Destination: &pythonBin,
				},
				&cli.StringFlag{
					Name:        "requirements",
					Usage:       "`FILE` with the pinned dependency set",
					Value:       provision.DefaultRequirements,
					Destination: &requirementsFile,
				},
				silentFlag,
			},
		},
	}
)

func setupEnvironment(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return err
	}

	envName := cmd.Args().First()
	if envName == "" {
		envName = cfg.EnvName()
	}

	version := virtualenvVersion
	if version == "" {
		version = cfg.Virtualenv()
	}
	if err := validateVersionArg("virtualenv", version); err != nil {
		return err
	}

	baseDir, err := filepath.Abs(workingDir)
	if err != nil {
		return err
	}

	if err := confirmReset(ctx, cmd, filepath.Join(baseDir, envName)); err != nil {
		return err
	}

	verbose := cmd.Bool("verbose")
	p, err := provision.New(provision.Options{
		BaseDir:           baseDir,
		EnvName:           envName,
		VirtualenvVersion: version,
		Python:            pythonBin,
		Requirements:      requirementsFile,
		Runner:            provision.NewRunner(verbose),
		Logger:            log,
	})
	if err != nil {
		return err
	}

	run := p.Run
	if !verbose {
		run = func(ctx context.Context) error {
			return util.Await("Provisioning "+envName, ctx, p.Run)
		}
	}
	// activation failures already name the target path
	if err := run(ctx); err != nil {
		return err
	}

	fmt.Printf("\nVirtual environment ready at %s\n\n", util.Accented(p.EnvDir()))
	fmt.Printf("To activate it, run:\n\n    %s\n\n", p.Env().ActivateCommand())
	fmt.Println("Add your Pulse and LDAP credentials to " +
		util.Accented(".authentication.ini") + " before starting the master.")

	return nil
}

// confirmReset asks before destroying a pre-existing environment, but only
// in interactive use so scripted reruns stay non-blocking.
func confirmReset(ctx context.Context, cmd *cli.Command, envDir string) error {
	if cmd.Bool("silent") || !isatty.IsTerminal(os.Stdout.Fd()) {
		return nil
	}
	if _, err := os.Stat(envDir); os.IsNotExist(err) {
		return nil
	}

	proceed := true
	confirm := huh.NewConfirm().
		Title(fmt.Sprintf("Environment %q exists and will be recreated. Continue?", envDir)).
		Value(&proceed).
		WithTheme(util.Theme)
	if err := huh.NewForm(huh.NewGroup(confirm)).
		WithTheme(util.Theme).
		RunWithContext(ctx); err != nil {
		return err
	}
	if !proceed {
		return errors.New("aborted")
	}
	return nil
}

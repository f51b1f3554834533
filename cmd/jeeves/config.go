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

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/jeeves-ci/jeeves-cli/pkg/config"
	"github.com/jeeves-ci/jeeves-cli/pkg/jenkins"
)

var ConfigCommands = []*cli.Command{
	{
		Name:     "config",
		Category: "Core",
		Usage:    "Inspect and change persisted CLI defaults",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the current defaults",
				Action: showConfig,
			},
			{
				Name:      "set-env",
				Usage:     "Set the default environment directory name",
				ArgsUsage: "`NAME`",
				Action:    setDefaultEnv,
			},
			{
				Name:      "set-jenkins",
				Usage:     "Pin the Jenkins version used by `start`",
				ArgsUsage: "`VERSION`",
				Action:    setJenkinsVersion,
			},
		},
	},
}

func showConfig(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func setDefaultEnv(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return errors.New("environment name is required")
	}
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return err
	}
	cfg.DefaultEnv = name
	return cfg.PersistIfNeeded()
}

func setJenkinsVersion(ctx context.Context, cmd *cli.Command) error {
	version := cmd.Args().First()
	if version == "" {
		return errors.New("version is required")
	}
	if err := jenkins.ValidateVersion(version); err != nil {
		return err
	}
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return err
	}
	cfg.JenkinsVersion = version
	return cfg.PersistIfNeeded()
}

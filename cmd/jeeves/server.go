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
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/jeeves-ci/jeeves-cli/pkg/config"
	"github.com/jeeves-ci/jeeves-cli/pkg/jenkins"
	"github.com/jeeves-ci/jeeves-cli/pkg/util"
)

var (
	jenkinsVersion string
	envFile        string
	javaBinFlag    = &cli.StringFlag{
		Name:  "java",
		Usage: "Java `BINARY` used to launch the master",
		Value: "java",
	}

	ServerCommands = []*cli.Command{
		{
			Name:     "start",
			Category: "Core",
			Usage:    "Download the Jenkins WAR if needed and start the master",
			Action:   startServer,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "jenkins-version",
					Usage:       "Pinned Jenkins `VERSION` to run",
					Destination: &jenkinsVersion,
				},
				&cli.StringFlag{
					Name:        "env-file",
					Usage:       "`FILE` with environment overrides for the master",
					Value:       ".env.local",
					Destination: &envFile,
				},
				hidden(javaBinFlag),
			},
		},
	}
)

func startServer(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return err
	}

	version := jenkinsVersion
	if version == "" {
		version = cfg.Jenkins()
	}
	if err := jenkins.ValidateVersion(version); err != nil {
		return err
	}

	baseDir, err := filepath.Abs(workingDir)
	if err != nil {
		return err
	}

	srv := jenkins.NewServer(baseDir)
	srv.Version = version
	srv.JavaBin = cmd.String("java")
	srv.Logger = log
	if len(cfg.JavaOpts) > 0 {
		srv.JavaOpts = cfg.JavaOpts
	}
	srv.EnvFile = resolveEnvFile(baseDir, envFile)

	if err := util.Await("Preparing Jenkins "+version, ctx, srv.EnsureWar); err != nil {
		return err
	}

	return srv.Run(ctx)
}

// resolveEnvFile returns the env file to load, or "" when it does not
// exist. Absolute paths are used as given; relative paths resolve against
// the working directory.
func resolveEnvFile(baseDir, envFile string) string {
	if envFile == "" {
		return ""
	}
	if filepath.IsAbs(envFile) {
		if util.FileExists(filepath.Dir(envFile), filepath.Base(envFile)) {
			return envFile
		}
		return ""
	}
	if util.FileExists(baseDir, envFile) {
		return filepath.Join(baseDir, envFile)
	}
	return ""
}

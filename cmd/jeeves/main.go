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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	jeevescli "github.com/jeeves-ci/jeeves-cli"
)

var log = zap.NewNop()

func main() {
	app := &cli.Command{
		Name:                   "jeeves",
		Usage:                  "Provision and run a Jenkins CI master",
		Description:            "Bootstraps the isolated Python environment the CI automation runs in, seeds its configuration, and manages the Jenkins master process.",
		Version:                jeevescli.Version,
		EnableShellCompletion:  true,
		Suggest:                true,
		HideHelpCommand:        true,
		UseShortOptionHandling: true,
		Flags:                  globalFlags,
		Before:                 initLogger,
	}

	app.Commands = append(app.Commands, SetupCommands...)
	app.Commands = append(app.Commands, ServerCommands...)
	app.Commands = append(app.Commands, ConfigCommands...)

	// Register cleanup hook for SIGINT, SIGTERM, SIGQUIT
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := zapcore.InfoLevel
	if cmd.Bool("verbose") {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.ConsoleSeparator = " | "

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	log = logger

	return nil, nil
}

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
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/urfave/cli/v3"
)

var (
	workingDir string = "."

	silentFlag = &cli.BoolFlag{
		Name:     "silent",
		Usage:    "If set, will not prompt for confirmation",
		Required: false,
		Value:    false,
	}
	globalFlags = []cli.Flag{
		&cli.StringFlag{
			Name:        "dir",
			Aliases:     []string{"d"},
			Usage:       "`PATH` to the CI working directory",
			Value:       ".",
			Destination: &workingDir,
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log debug output and stream subcommand output",
		},
	}
)

// optional returns a copy of the flag with Required unset.
func optional(flag *cli.StringFlag) *cli.StringFlag {
	newFlag := *flag
	newFlag.Required = false
	return &newFlag
}

// hidden returns a copy of the flag that is hidden from usage notes.
func hidden(flag *cli.StringFlag) *cli.StringFlag {
	newFlag := *flag
	newFlag.Hidden = true
	return &newFlag
}

func validateVersionArg(name, value string) error {
	if _, err := semver.NewVersion(value); err != nil {
		return fmt.Errorf("invalid %s version %q: %w", name, value, err)
	}
	return nil
}

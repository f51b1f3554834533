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

package config

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/jeeves-ci/jeeves-cli/pkg/jenkins"
	"github.com/jeeves-ci/jeeves-cli/pkg/provision"
)

// Defaults come from the packages that own them, so a pin bumped there is
// picked up here.
const (
	DefaultEnvName           = provision.DefaultEnvName
	DefaultVirtualenvVersion = provision.DefaultVirtualenvVersion
	DefaultJenkinsVersion    = jenkins.DefaultVersion
)

// CLIConfig holds persisted defaults for the jeeves CLI.
type CLIConfig struct {
	DefaultEnv        string   `yaml:"default_env"`
	VirtualenvVersion string   `yaml:"virtualenv_version"`
	JenkinsVersion    string   `yaml:"jenkins_version"`
	JavaOpts          []string `yaml:"java_opts"`
	// absent from YAML
	hasPersisted bool
}

// LoadOrCreate loads the config file from ~/.jeeves/cli-config.yaml.
// If it doesn't exist, it'll return an empty config file.
func LoadOrCreate() (*CLIConfig, error) {
	configPath, err := getConfigLocation()
	if err != nil {
		return nil, err
	}

	c := &CLIConfig{}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return c, nil
	} else if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(content, c); err != nil {
		return nil, err
	}
	c.hasPersisted = true

	return c, nil
}

// EnvName returns the configured default environment name, falling back
// to the fixed default.
func (c *CLIConfig) EnvName() string {
	if c.DefaultEnv != "" {
		return c.DefaultEnv
	}
	return DefaultEnvName
}

func (c *CLIConfig) Virtualenv() string {
	if c.VirtualenvVersion != "" {
		return c.VirtualenvVersion
	}
	return DefaultVirtualenvVersion
}

func (c *CLIConfig) Jenkins() string {
	if c.JenkinsVersion != "" {
		return c.JenkinsVersion
	}
	return DefaultJenkinsVersion
}

// IsZero reports whether nothing has been configured.
func (c *CLIConfig) IsZero() bool {
	return c.DefaultEnv == "" && c.VirtualenvVersion == "" && c.JenkinsVersion == "" && len(c.JavaOpts) == 0
}

func (c *CLIConfig) PersistIfNeeded() error {
	if c.IsZero() && !c.hasPersisted {
		// doesn't need to be persisted
		return nil
	}

	configPath, err := getConfigLocation()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(path.Dir(configPath), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err = os.WriteFile(configPath, data, 0o600); err != nil {
		return err
	}
	c.hasPersisted = true
	return nil
}

func getConfigLocation() (string, error) {
	if dir := os.Getenv("JEEVES_HOME"); dir != "" {
		return path.Join(dir, "cli-config.yaml"), nil
	}

	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}

	return path.Join(dir, ".jeeves", "cli-config.yaml"), nil
}

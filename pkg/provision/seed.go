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
	"fmt"
	"path/filepath"

	"github.com/jeeves-ci/jeeves-cli/pkg/util"
)

// Seed is a one-time copy of a template config into the working
// directory. The target is never overwritten on later runs.
type Seed struct {
	Template string
	Target   string
}

// DefaultSeeds returns the config files the Jenkins master expects in its
// working directory.
func DefaultSeeds() []Seed {
	return []Seed{
		{Template: filepath.Join("config", "authentication.ini"), Target: ".authentication.ini"},
		{Template: filepath.Join("config", "jenkins.properties"), Target: ".jenkins.properties"},
	}
}

// ApplySeeds copies each template under base to its target under base,
// skipping targets that already exist.
func ApplySeeds(base string, seeds []Seed) error {
	for _, s := range seeds {
		if util.FileExists(base, s.Target) {
			continue
		}
		src := filepath.Join(base, s.Template)
		dest := filepath.Join(base, s.Target)
		if err := util.CopyFile(src, dest); err != nil {
			return fmt.Errorf("failed to seed %s: %w", s.Target, err)
		}
	}
	return nil
}

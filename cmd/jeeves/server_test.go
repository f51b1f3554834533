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
	"os"
	"path/filepath"
	"testing"
)

func TestResolveEnvFile(t *testing.T) {
	baseDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(baseDir, ".env.local"), []byte("A=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	elsewhere := t.TempDir()
	absFile := filepath.Join(elsewhere, "overrides.env")
	if err := os.WriteFile(absFile, []byte("B=2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		envFile  string
		expected string
	}{
		{
			name:     "relative file resolves against the working directory",
			envFile:  ".env.local",
			expected: filepath.Join(baseDir, ".env.local"),
		},
		{
			name:     "absolute file is used as given",
			envFile:  absFile,
			expected: absFile,
		},
		{
			name:     "missing relative file is skipped",
			envFile:  ".env.production",
			expected: "",
		},
		{
			name:     "missing absolute file is skipped",
			envFile:  filepath.Join(elsewhere, "missing.env"),
			expected: "",
		},
		{
			name:     "empty flag is skipped",
			envFile:  "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveEnvFile(baseDir, tt.envFile); got != tt.expected {
				t.Errorf("resolveEnvFile(%q, %q) = %q, want %q", baseDir, tt.envFile, got, tt.expected)
			}
		})
	}
}

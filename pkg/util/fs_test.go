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

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T) string
		filename string
		expected bool
	}{
		{
			name: "regular file exists",
			setup: func(t *testing.T) string {
				tmpDir := t.TempDir()
				if err := os.WriteFile(filepath.Join(tmpDir, "test.txt"), []byte("test"), 0o644); err != nil {
					t.Fatal(err)
				}
				return tmpDir
			},
			filename: "test.txt",
			expected: true,
		},
		{
			name: "directory exists but should return false",
			setup: func(t *testing.T) string {
				tmpDir := t.TempDir()
				if err := os.Mkdir(filepath.Join(tmpDir, "subdir"), 0o755); err != nil {
					t.Fatal(err)
				}
				return tmpDir
			},
			filename: "subdir",
			expected: false,
		},
		{
			name: "non-existent file",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			filename: "non-existent.txt",
			expected: false,
		},
		{
			name: "symlink to regular file",
			setup: func(t *testing.T) string {
				tmpDir := t.TempDir()
				file := filepath.Join(tmpDir, "test.txt")
				if err := os.WriteFile(file, []byte("test"), 0o644); err != nil {
					t.Fatal(err)
				}
				if err := os.Symlink(file, filepath.Join(tmpDir, "link.txt")); err != nil {
					t.Fatal(err)
				}
				return tmpDir
			},
			filename: "link.txt",
			expected: true,
		},
		{
			name: "broken symlink",
			setup: func(t *testing.T) string {
				tmpDir := t.TempDir()
				if err := os.Symlink("/non/existent/path", filepath.Join(tmpDir, "broken")); err != nil {
					t.Fatal(err)
				}
				return tmpDir
			},
			filename: "broken",
			expected: false,
		},
		{
			name: "empty filename",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			filename: "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			if got := FileExists(dir, tt.filename); got != tt.expected {
				t.Errorf("FileExists(%q, %q) = %v, want %v", dir, tt.filename, got, tt.expected)
			}
		})
	}
}

func TestFileExistsEmptyDir(t *testing.T) {
	if FileExists("", "test.txt") {
		t.Error("FileExists with empty dir should return false")
	}
}

func TestCopyFile(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src.txt")
	dest := filepath.Join(tmpDir, "dest.txt")

	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o640))
	require.NoError(t, CopyFile(src, dest))

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "payload", string(content))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestCopyFileMissingSource(t *testing.T) {
	tmpDir := t.TempDir()
	err := CopyFile(filepath.Join(tmpDir, "missing"), filepath.Join(tmpDir, "dest"))
	require.Error(t, err)
}

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

package jenkins

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"1.580.3", false},
		{"2.462.3", false},
		{"1.409.0", false},
		{"1.396.0", true}, // predates the LTS line
		{"latest", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := ValidateVersion(tt.version)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestEnsureWarDownloadsOnce(t *testing.T) {
	base := t.TempDir()
	srv := NewServer(base)

	var fetches int
	srv.Fetch = func(ctx context.Context, url, dest string) error {
		fetches++
		require.Contains(t, url, srv.Version)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		return os.WriteFile(dest, []byte("war"), 0o644)
	}

	require.NoError(t, srv.EnsureWar(context.Background()))
	require.Equal(t, 1, fetches)
	require.FileExists(t, srv.WarPath())

	// cached WAR must not be fetched again
	require.NoError(t, srv.EnsureWar(context.Background()))
	require.Equal(t, 1, fetches)
}

func TestEnsureWarFailedFetchDoesNotPoisonCache(t *testing.T) {
	base := t.TempDir()
	srv := NewServer(base)

	var fetches int
	srv.Fetch = func(ctx context.Context, url, dest string) error {
		fetches++
		if fetches == 1 {
			// simulate a connection drop after a partial write
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(dest, []byte("partial"), 0o644); err != nil {
				return err
			}
			return context.Canceled
		}
		return os.WriteFile(dest, []byte("complete war"), 0o644)
	}

	require.Error(t, srv.EnsureWar(context.Background()))
	require.NoFileExists(t, srv.WarPath(), "a failed download must not satisfy the cache check")

	require.NoError(t, srv.EnsureWar(context.Background()))
	require.Equal(t, 2, fetches, "the WAR must be refetched after a failed download")

	content, err := os.ReadFile(srv.WarPath())
	require.NoError(t, err)
	require.Equal(t, "complete war", string(content))
}

func TestWarPathNamesPinnedVersion(t *testing.T) {
	srv := NewServer("/ci")
	srv.Version = "1.580.3"
	require.Equal(t, filepath.Join("/ci", "war", "jenkins-1.580.3.war"), srv.WarPath())
}

func TestCommandEnv(t *testing.T) {
	base := t.TempDir()
	envFile := filepath.Join(base, ".env.local")
	require.NoError(t, os.WriteFile(envFile, []byte("HTTP_PORT=8080\n"), 0o644))

	srv := NewServer(base)
	srv.EnvFile = envFile

	env := srv.commandEnv()
	require.Contains(t, env, "JENKINS_HOME="+filepath.Join(base, HomeDirName))
	require.Contains(t, env, "HTTP_PORT=8080")

	// JENKINS_HOME must win over any overlay
	last := env[len(env)-1]
	require.True(t, strings.HasPrefix(last, "JENKINS_HOME="))
}

func TestRunReportsExitFailure(t *testing.T) {
	base := t.TempDir()
	srv := NewServer(base)
	srv.JavaBin = "false" // exits non-zero immediately
	srv.Fetch = func(ctx context.Context, url, dest string) error {
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		return os.WriteFile(dest, []byte("war"), 0o644)
	}

	require.Error(t, srv.Run(context.Background()))
}

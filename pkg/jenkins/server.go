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

// Package jenkins manages the Jenkins master: a cached WAR download and
// the java process that serves it.
package jenkins

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jeeves-ci/jeeves-cli/pkg/util"
)

const (
	DefaultVersion = "1.580.3"
	HomeDirName    = "jenkins-master"

	warURLTemplate = "http://mirrors.jenkins-ci.org/war-stable/%s/jenkins.war"
	warDirName     = "war"

	// first LTS line; anything older predates the war-stable mirror
	minimumVersion = "1.409.0"
)

// DefaultJavaOpts match the settings the master has always run with.
var DefaultJavaOpts = []string{"-Xms2g", "-Xmx2g", "-XX:MaxPermSize=512M", "-Xincgc"}

// FetchFunc downloads url into dest.
type FetchFunc func(ctx context.Context, url, dest string) error

type Server struct {
	BaseDir  string
	Version  string
	JavaBin  string
	JavaOpts []string
	// EnvFile, when set and present, overlays the process environment
	// before launch.
	EnvFile string

	Logger *zap.Logger
	Fetch  FetchFunc
}

func NewServer(baseDir string) *Server {
	return &Server{
		BaseDir:  baseDir,
		Version:  DefaultVersion,
		JavaBin:  "java",
		JavaOpts: DefaultJavaOpts,
		Logger:   zap.NewNop(),
		Fetch: func(ctx context.Context, url, dest string) error {
			return util.DownloadFile(ctx, url, dest, "Downloading Jenkins")
		},
	}
}

// ValidateVersion checks that v parses as a version and is not older than
// the first LTS line.
func ValidateVersion(v string) error {
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("invalid Jenkins version %q: %w", v, err)
	}
	min := semver.MustParse(minimumVersion)
	if ver.LessThan(min) {
		return fmt.Errorf("Jenkins version %s predates the %s LTS line", v, minimumVersion)
	}
	return nil
}

// WarPath returns the cached WAR location for the pinned version.
func (s *Server) WarPath() string {
	return filepath.Join(s.BaseDir, warDirName, fmt.Sprintf("jenkins-%s.war", s.Version))
}

// HomeDir returns the JENKINS_HOME directory.
func (s *Server) HomeDir() string {
	return filepath.Join(s.BaseDir, HomeDirName)
}

// EnsureWar downloads the pinned WAR if it is not already cached. Unlike
// the provisioner's scratch artifacts, the WAR persists across runs.
func (s *Server) EnsureWar(ctx context.Context) error {
	war := s.WarPath()
	if _, err := os.Stat(war); err == nil {
		s.Logger.Debug("using cached WAR", zap.String("path", war))
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", war, err)
	}

	url := fmt.Sprintf(warURLTemplate, s.Version)
	if err := s.Fetch(ctx, url, war); err != nil {
		// a truncated WAR must not satisfy the cache check next run
		os.Remove(war)
		return fmt.Errorf("failed to download Jenkins %s: %w", s.Version, err)
	}
	return nil
}

// Run launches the master and blocks until it exits or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.EnsureWar(ctx); err != nil {
		return err
	}

	args := append(append([]string{}, s.JavaOpts...), "-jar", s.WarPath())
	cmd := exec.CommandContext(ctx, s.JavaBin, args...)
	cmd.Env = s.commandEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	s.Logger.Info("starting Jenkins",
		zap.String("version", s.Version),
		zap.String("home", s.HomeDir()),
	)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("jenkins exited: %w", err)
	}
	return nil
}

func (s *Server) commandEnv() []string {
	env := os.Environ()
	if s.EnvFile != "" {
		if overlay, err := godotenv.Read(s.EnvFile); err == nil {
			for k, v := range overlay {
				env = append(env, k+"="+v)
			}
		} else {
			s.Logger.Warn("failed to read env file", zap.String("path", s.EnvFile), zap.Error(err))
		}
	}
	return append(env, "JENKINS_HOME="+s.HomeDir())
}

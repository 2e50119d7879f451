// Package paths resolves the workspace, project and configuration
// directory locations.
package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// AppName names the per-user configuration directory.
const AppName = "waypoint"

// DefaultProjectsDirName is the workspace-relative directory holding one
// subdirectory per project.
const DefaultProjectsDirName = "projects"

// Environment variable names for directory overrides.
const (
	EnvWorkspace = "WAYPOINT_WORKSPACE"
	EnvConfigDir = "WAYPOINT_CONFIG_DIR"
)

// ErrNoProject is returned when a project argument is empty.
var ErrNoProject = errors.New("project name is required")

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/waypoint (fallback ~/.config/waypoint)
// macOS:   ~/Library/Application Support/waypoint
// Windows: %APPDATA%/waypoint
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > WAYPOINT_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveWorkspace returns the workspace root following the precedence
// chain: flag > WAYPOINT_WORKSPACE env > current directory.
func ResolveWorkspace(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvWorkspace); env != "" {
		return filepath.Abs(env)
	}
	return platformDir.getwd()
}

// ProjectsDir joins the workspace and the projects directory name. An
// absolute projectsDir is returned unchanged.
func ProjectsDir(workspace, projectsDir string) string {
	if projectsDir == "" {
		projectsDir = DefaultProjectsDirName
	}
	if filepath.IsAbs(projectsDir) {
		return filepath.Clean(projectsDir)
	}
	return filepath.Join(workspace, projectsDir)
}

// ProjectDir resolves a project argument to its directory. An absolute
// argument, or one that already starts with the projects directory, is
// taken as a path; anything else is a project name under the projects
// directory.
func ProjectDir(workspace, projectsDir, project string) (string, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return "", ErrNoProject
	}
	if filepath.IsAbs(project) {
		return filepath.Clean(project), nil
	}
	if projectsDir == "" {
		projectsDir = DefaultProjectsDirName
	}
	clean := filepath.Clean(project)
	prefix := filepath.Clean(projectsDir) + string(filepath.Separator)
	if !filepath.IsAbs(projectsDir) && strings.HasPrefix(clean, prefix) {
		return filepath.Join(workspace, clean), nil
	}
	return filepath.Join(ProjectsDir(workspace, projectsDir), clean), nil
}

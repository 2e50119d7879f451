// Package config loads waypoint settings from waypoint.yaml, WAYPOINT_*
// environment variables and built-in defaults using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/waypoint/internal/paths"
	"github.com/mesh-intelligence/waypoint/internal/project"
	"github.com/mesh-intelligence/waypoint/internal/store"
)

const (
	configFileName = "waypoint"
	configFileType = "yaml"

	// FileName is the workspace configuration file.
	FileName = "waypoint.yaml"

	envPrefix = "WAYPOINT"
)

// Config keys.
const (
	KeyProjectsDir = "projects_dir"
	KeyStateFile   = "state_file"
	KeySchemaPath  = "schema_path"
	KeyConcurrency = "concurrency"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyIndexPath   = "index_path"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrInvalidConfig is returned when a setting has an unsupported value.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultYAML is written by `waypoint init` when the workspace has no
// configuration file yet.
const DefaultYAML = `# waypoint workspace configuration

# Directory holding one subdirectory per project.
projects_dir: projects

# State document file name inside each project directory.
state_file: currentstate.json

# Optional schema override (YAML); empty uses the built-in schema.
# schema_path: schema.yaml

# optimistic rejects a write when the document changed since it was read;
# none lets the last writer win.
concurrency: optimistic

# debug, info, warn or error; text or json.
log_level: warn
log_format: text

# Optional SQLite file for the project index; empty keeps it in memory.
# index_path: .waypoint/index.db
`

// Config holds resolved settings.
type Config struct {
	ProjectsDir string `mapstructure:"projects_dir"`
	StateFile   string `mapstructure:"state_file"`
	SchemaPath  string `mapstructure:"schema_path"`
	Concurrency string `mapstructure:"concurrency"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	IndexPath   string `mapstructure:"index_path"`

	// Workspace is the resolved workspace root.
	Workspace string `mapstructure:"-"`
	// File is the configuration file that was read, if any.
	File string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyProjectsDir, paths.DefaultProjectsDirName)
	v.SetDefault(KeyStateFile, store.DefaultFileName)
	v.SetDefault(KeySchemaPath, "")
	v.SetDefault(KeyConcurrency, project.ConcurrencyOptimistic)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, FormatText)
	v.SetDefault(KeyIndexPath, "")
}

// Load reads configuration for workspace. When configFile is empty the
// workspace is searched first, then the user configuration directory. A
// missing configuration file is not an error.
func Load(configFile, workspace string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(workspace)
		if dir, err := paths.ResolveConfigDir(""); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Workspace = workspace
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.SchemaPath = cfg.resolve(cfg.SchemaPath)
	cfg.IndexPath = cfg.resolve(cfg.IndexPath)
	return &cfg, nil
}

// Validate checks that enumerated settings hold supported values.
func (c *Config) Validate() error {
	switch c.Concurrency {
	case project.ConcurrencyOptimistic, project.ConcurrencyNone:
	default:
		return fmt.Errorf("%w: concurrency %q (want %s or %s)", ErrInvalidConfig,
			c.Concurrency, project.ConcurrencyOptimistic, project.ConcurrencyNone)
	}
	switch c.LogFormat {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: log_format %q (want %s or %s)", ErrInvalidConfig, c.LogFormat, FormatText, FormatJSON)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.StateFile == "" || filepath.Base(c.StateFile) != c.StateFile {
		return fmt.Errorf("%w: state_file %q must be a plain file name", ErrInvalidConfig, c.StateFile)
	}
	return nil
}

// ProjectsPath returns the absolute projects directory.
func (c *Config) ProjectsPath() string {
	return paths.ProjectsDir(c.Workspace, c.ProjectsDir)
}

// ProjectDir resolves a project argument against the workspace.
func (c *Config) ProjectDir(name string) (string, error) {
	return paths.ProjectDir(c.Workspace, c.ProjectsDir, name)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Workspace, p)
}

// WriteDefault writes DefaultYAML into dir unless a configuration file
// already exists. It reports whether a file was written.
func WriteDefault(dir string) (bool, error) {
	path := filepath.Join(dir, FileName)
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultYAML), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

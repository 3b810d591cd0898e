// Package config loads todo settings from TOML files, the environment, and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// Backend names accepted in the config.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Output formats accepted in the config.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Default values.
const (
	DefaultBackend    = BackendJSON
	DefaultJSONFile   = ".todo.json"
	DefaultSQLiteFile = ".todo.db"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultOutput     = OutputText

	ProjectConfigFile = ".todo.toml"
)

// Config holds every setting the CLI reads.
type Config struct {
	Backend   string `toml:"backend"`
	File      string `toml:"file"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	Output    string `toml:"output"`
}

// Overrides are values set explicitly on the command line.
// Empty fields leave the loaded value untouched.
type Overrides struct {
	ConfigFile string
	Backend    string
	File       string
	LogLevel   string
	Output     string
}

// Load resolves configuration in priority order:
// 1. Defaults
// 2. User config file ($XDG_CONFIG_HOME/todo/config.toml or OS config dir)
// 3. Project config file (.todo.toml in the current directory)
// 4. Explicit --config file
// 5. Environment variables (TODO_*)
// 6. CLI flags
func Load(o Overrides) (*Config, error) {
	cfg := Defaults()

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	if o.ConfigFile != "" {
		if err := loadConfigFile(cfg, expandPath(o.ConfigFile)); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", o.ConfigFile, err)
		}
	}

	loadFromEnv(cfg)
	applyOverrides(cfg, o)

	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns a config with every default applied.
func Defaults() *Config {
	return &Config{
		Backend:   DefaultBackend,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Output:    DefaultOutput,
	}
}

// loadConfigFile decodes a TOML file over cfg.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("TODO_FILE"); v != "" {
		cfg.File = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TODO_OUTPUT"); v != "" {
		cfg.Output = v
	}
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if o.File != "" {
		cfg.File = o.File
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.Output != "" {
		cfg.Output = o.Output
	}
}

// finalizeConfig validates values and derives the store path.
func finalizeConfig(cfg *Config) error {
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))

	switch cfg.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("invalid backend %q, must be one of: %s, %s", cfg.Backend, BackendJSON, BackendSQLite)
	}

	switch cfg.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("invalid output %q, must be one of: %s, %s, %s", cfg.Output, OutputText, OutputJSON, OutputYAML)
	}

	if cfg.File == "" {
		cfg.File = DefaultFile(cfg.Backend)
	}
	cfg.File = expandPath(cfg.File)
	return nil
}

// DefaultFile returns the store file name used when none is configured.
func DefaultFile(backend string) string {
	if backend == BackendSQLite {
		return DefaultSQLiteFile
	}
	return DefaultJSONFile
}

func findUserConfigFile() string {
	dir := userConfigDir()
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, "todo", "config.toml")
	if fileExists(path) {
		return path
	}
	return ""
}

func findProjectConfigFile() string {
	if fileExists(ProjectConfigFile) {
		return ProjectConfigFile
	}
	return ""
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return dir
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// expandPath expands ~ and environment variables in paths.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if expanded == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return home
	}
	if strings.HasPrefix(expanded, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(expanded, "~\\")) {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}

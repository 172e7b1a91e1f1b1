package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the tool's own settings. Project configuration lives in the
// per-directory config files named by ConfigName.
type Config struct {
	ToolName   string   `mapstructure:"tool_name"`
	ConfigName string   `mapstructure:"config_name"`
	Shell      string   `mapstructure:"shell"`
	LogLevel   string   `mapstructure:"log_level"`
	LogFile    string   `mapstructure:"log_file"`
	Theme      string   `mapstructure:"theme"`
	Ignore     []string `mapstructure:"ignore"`
	NoColor    bool     `mapstructure:"no_color"`
}

// LookPathFunc is the function signature for looking up executables.
type LookPathFunc func(name string) (string, error)

func DefaultConfig() Config {
	return Config{
		ToolName:   "dia",
		ConfigName: "dia.json",
		Shell:      "bash",
		LogLevel:   "info",
		LogFile:    filepath.Join(configDir(), "dia.log"),
		Theme:      "mocha",
		Ignore:     []string{"src"},
	}
}

func Load() (Config, error) {
	if path := os.Getenv("DIA_CONFIG"); path != "" {
		return LoadFrom(path)
	}
	return LoadFrom(filepath.Join(configDir(), "config.yaml"))
}

// LoadFrom reads settings from configPath. A missing file yields the
// defaults; DIA_* environment variables override both.
func LoadFrom(configPath string) (Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("tool_name", def.ToolName)
	v.SetDefault("config_name", def.ConfigName)
	v.SetDefault("shell", def.Shell)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("theme", def.Theme)
	v.SetDefault("ignore", def.Ignore)
	v.SetDefault("no_color", def.NoColor)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("DIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return def, fmt.Errorf("read config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return def, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return def, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.ToolName == "" {
		cfg.ToolName = def.ToolName
	}
	if cfg.ConfigName == "" {
		cfg.ConfigName = def.ConfigName
	}
	if cfg.Shell == "" {
		cfg.Shell = def.Shell
	}
	if cfg.Theme == "" {
		cfg.Theme = def.Theme
	}

	return cfg, nil
}

// ValidateShell checks that the configured shell is installed.
func (c *Config) ValidateShell(lookPath LookPathFunc) error {
	if _, err := lookPath(c.Shell); err != nil {
		return fmt.Errorf("shell %q not found: %w", c.Shell, err)
	}
	return nil
}

// ValidateShellOnPath is ValidateShell against the process PATH.
func (c *Config) ValidateShellOnPath() error {
	return c.ValidateShell(exec.LookPath)
}

func configDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "dia")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "dia")
	}

	return filepath.Join(home, ".config", "dia")
}

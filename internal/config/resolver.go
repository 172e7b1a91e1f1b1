// pattern: Imperative Shell

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"dia/internal/logging"
)

// manifestName is the fallback source of commands when a directory has no
// dedicated config file.
const manifestName = "package.json"

// Resolver reads the per-directory config. Missing and invalid configs
// resolve to an empty Project; invalid ones are logged and reported.
type Resolver struct {
	ConfigName string
	Logger     *logging.ScopedLogger
	// Report receives every ValidationError. Optional.
	Report func(error)
}

// NewResolver creates a Resolver for the given config file name.
func NewResolver(configName string, logger *logging.ScopedLogger, report func(error)) *Resolver {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Resolver{ConfigName: configName, Logger: logger, Report: report}
}

// Resolve returns the config for dir.
func (r *Resolver) Resolve(dir string) Project {
	p, err := r.load(dir)
	if err != nil {
		r.Logger.Warn("ignoring config", "dir", dir, "error", err)
		if r.Report != nil {
			r.Report(err)
		}
		return Project{}
	}
	return p
}

func (r *Resolver) load(dir string) (Project, error) {
	configFile := filepath.Join(dir, r.ConfigName)
	data, err := os.ReadFile(configFile)
	if err == nil {
		raw, err := unmarshalDocument(configFile, data)
		if err != nil {
			return Project{}, &ValidationError{Path: configFile, Reason: err.Error()}
		}
		return Decode(configFile, raw)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Project{}, fmt.Errorf("read %s: %w", configFile, err)
	}

	manifest := filepath.Join(dir, manifestName)
	data, err = os.ReadFile(manifest)
	if err != nil {
		return Project{}, nil
	}
	return r.fromManifest(manifest, data)
}

// fromManifest turns the manifest's scripts into commands and injects an
// install command that the scripts may override.
func (r *Resolver) fromManifest(manifest string, data []byte) (Project, error) {
	var pkg struct {
		Scripts map[string]any `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		r.Logger.Info("failed to parse manifest", "path", manifest, "error", err)
		return Project{}, nil
	}
	if pkg.Scripts == nil {
		return Project{}, nil
	}

	commands := map[string]any{"install": "npm i"}
	for name, script := range pkg.Scripts {
		commands[name] = script
	}
	return Decode(manifest, map[string]any{"commands": commands})
}

func unmarshalDocument(path string, data []byte) (any, error) {
	var raw any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for sirseer-pulls with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .sirseer-pulls.yaml (current directory)
//   - .sirseer-pulls.yml (current directory)
//   - ~/.sirseer/pulls.yaml
//   - ~/.sirseer/pulls.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Path expansion (~ and environment variables) is
// performed on the cache path.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Try to load config file if path is provided
	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		// Try default locations
		defaultPaths := []string{
			".sirseer-pulls.yaml",
			".sirseer-pulls.yml",
			filepath.Join(os.Getenv("HOME"), ".sirseer", "pulls.yaml"),
			filepath.Join(os.Getenv("HOME"), ".sirseer", "pulls.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Cache.Path = expandPath(cfg.Cache.Path)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	// GitHub endpoint
	if endpoint := os.Getenv("GITHUB_API_URL"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}

	// Cache settings
	if ttl := os.Getenv("SIRSEER_CACHE_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil && parsed > 0 {
			cfg.Cache.TTL = Duration(parsed)
		}
	}
	if path := os.Getenv("SIRSEER_CACHE_PATH"); path != "" {
		cfg.Cache.Path = path
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// Validate checks if the configuration contains valid values. This should be
// called after loading configuration to catch invalid settings early.
func (c *Config) Validate() error {
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", c.Cache.TTL.AsDuration())
	}
	if c.Cache.Path == "" {
		return fmt.Errorf("cache path cannot be empty")
	}
	switch c.Defaults.Status {
	case "open", "closed", "all":
	default:
		return fmt.Errorf("default status must be open, closed, or all, got: %q", c.Defaults.Status)
	}
	switch c.Defaults.Format {
	case "csv", "json":
	default:
		return fmt.Errorf("default format must be csv or json, got: %q", c.Defaults.Format)
	}
	return nil
}

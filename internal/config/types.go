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

// Package config types define the configuration structures used throughout
// sirseer-pulls. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for sirseer-pulls.
// It consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the application.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Cache    CacheConfig    `yaml:"cache"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// GitHubConfig contains GitHub-specific settings including the API endpoint
// and authentication configuration. This allows easy configuration for
// GitHub Enterprise deployments by specifying a custom endpoint.
type GitHubConfig struct {
	APIEndpoint string `yaml:"api_endpoint"`
	TokenEnv    string `yaml:"token_env"`
}

// CacheConfig controls the local result cache: where the database lives and
// how long an entry stays fresh before the next invocation refetches.
type CacheConfig struct {
	Path string   `yaml:"path"`
	TTL  Duration `yaml:"ttl"`
}

// DefaultsConfig contains default settings that apply to all list operations
// unless overridden by command-line flags.
type DefaultsConfig struct {
	Status string `yaml:"status"`
	Format string `yaml:"format"`
}

// Duration wraps time.Duration so YAML values can use Go duration syntax
// like "5m" or "1h30m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// AsDuration returns the value as a time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns a Config with sensible defaults suitable for most
// use cases. These defaults target public GitHub.com but can be overridden
// for GitHub Enterprise or special requirements.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint: "https://api.github.com",
			TokenEnv:    "GITHUB_TOKEN",
		},
		Cache: CacheConfig{
			Path: "~/.sirseer/pulls/cache.db",
			TTL:  Duration(5 * time.Minute),
		},
		Defaults: DefaultsConfig{
			Status: "open",
			Format: "csv",
		},
	}
}

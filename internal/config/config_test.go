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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GitHub.APIEndpoint != "https://api.github.com" {
		t.Errorf("APIEndpoint = %q", cfg.GitHub.APIEndpoint)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_TOKEN" {
		t.Errorf("TokenEnv = %q", cfg.GitHub.TokenEnv)
	}
	if cfg.Cache.TTL.AsDuration() != 5*time.Minute {
		t.Errorf("TTL = %s, want 5m", cfg.Cache.TTL.AsDuration())
	}
	if cfg.Defaults.Status != "open" || cfg.Defaults.Format != "csv" {
		t.Errorf("defaults = %q/%q", cfg.Defaults.Status, cfg.Defaults.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pulls.yaml")
	content := `
github:
  api_endpoint: https://github.example.com/api/v3
cache:
  path: /tmp/pulls-cache.db
  ttl: 30m
defaults:
  status: all
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.GitHub.APIEndpoint != "https://github.example.com/api/v3" {
		t.Errorf("APIEndpoint = %q", cfg.GitHub.APIEndpoint)
	}
	if cfg.Cache.Path != "/tmp/pulls-cache.db" {
		t.Errorf("Cache.Path = %q", cfg.Cache.Path)
	}
	if cfg.Cache.TTL.AsDuration() != 30*time.Minute {
		t.Errorf("TTL = %s, want 30m", cfg.Cache.TTL.AsDuration())
	}
	if cfg.Defaults.Status != "all" || cfg.Defaults.Format != "json" {
		t.Errorf("defaults = %q/%q", cfg.Defaults.Status, cfg.Defaults.Format)
	}
	// Token env keeps its default when the file doesn't set it
	if cfg.GitHub.TokenEnv != "GITHUB_TOKEN" {
		t.Errorf("TokenEnv = %q", cfg.GitHub.TokenEnv)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // keep discovery away from a real ~/.sirseer
	t.Setenv("GITHUB_API_URL", "https://ghe.internal/api/v3")
	t.Setenv("SIRSEER_CACHE_TTL", "90s")
	t.Setenv("SIRSEER_CACHE_PATH", "/var/cache/pulls.db")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.GitHub.APIEndpoint != "https://ghe.internal/api/v3" {
		t.Errorf("APIEndpoint = %q", cfg.GitHub.APIEndpoint)
	}
	if cfg.Cache.TTL.AsDuration() != 90*time.Second {
		t.Errorf("TTL = %s, want 90s", cfg.Cache.TTL.AsDuration())
	}
	if cfg.Cache.Path != "/var/cache/pulls.db" {
		t.Errorf("Cache.Path = %q", cfg.Cache.Path)
	}
}

func TestEnvOverrideInvalidTTLIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SIRSEER_CACHE_TTL", "not-a-duration")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Cache.TTL.AsDuration() != 5*time.Minute {
		t.Errorf("TTL = %s, want default 5m", cfg.Cache.TTL.AsDuration())
	}
}

func TestDurationUnmarshalYAML(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"5m", 5 * time.Minute, false},
		{"1h30m", 90 * time.Minute, false},
		{"300s", 300 * time.Second, false},
		{"five minutes", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			err := yaml.Unmarshal([]byte("\""+tt.input+"\""), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && d.AsDuration() != tt.want {
				t.Errorf("Unmarshal(%q) = %s, want %s", tt.input, d.AsDuration(), tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty endpoint",
			mutate:  func(c *Config) { c.GitHub.APIEndpoint = "" },
			wantErr: true,
		},
		{
			name:    "zero ttl",
			mutate:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: true,
		},
		{
			name:    "empty cache path",
			mutate:  func(c *Config) { c.Cache.Path = "" },
			wantErr: true,
		},
		{
			name:    "bad status",
			mutate:  func(c *Config) { c.Defaults.Status = "merged" },
			wantErr: true,
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Defaults.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

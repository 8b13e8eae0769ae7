// Package config handles the declarative YAML configuration for FleetScope.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Clouds    map[string]CloudConfig `yaml:"clouds"`
	Server    ServerConfig           `yaml:"server"`
	Mongo     MongoConfig            `yaml:"mongo"`
	Collector CollectorConfig        `yaml:"collector"`
	Provision ProvisionConfig        `yaml:"provision"`
	Log       LogConfig              `yaml:"log"`
}

// CloudConfig describes one provider and its account credential blocks.
// Accounts, projects and subscriptions are aliases for the same shape; the
// first non-empty map wins, matching the provider's own vocabulary.
type CloudConfig struct {
	Enabled       bool                     `yaml:"enabled"`
	Accounts      map[string]AccountConfig `yaml:"accounts,omitempty"`
	Projects      map[string]AccountConfig `yaml:"projects,omitempty"`
	Subscriptions map[string]AccountConfig `yaml:"subscriptions,omitempty"`
}

// AccountConfig holds the credential block of one account.
type AccountConfig struct {
	Credentials map[string]string `yaml:"credentials"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	MetricsAddr string   `yaml:"metrics_addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// MongoConfig holds the snapshot store settings.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// CollectorConfig holds aggregation settings.
type CollectorConfig struct {
	TaskTimeoutStr string `yaml:"task_timeout"`
	TaskTimeout    time.Duration
}

// ProvisionConfig holds the GitOps and notification settings.
type ProvisionConfig struct {
	GitHubRepo   string `yaml:"github_repo"`
	GitHubBranch string `yaml:"github_branch"`
	SlackChannel string `yaml:"slack_channel"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)

	if err := parseTaskTimeout(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.MetricsAddr == "" {
		cfg.Server.MetricsAddr = ":9090"
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = "mongodb://localhost:27017"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "lyricinfra"
	}
	if cfg.Collector.TaskTimeoutStr == "" {
		cfg.Collector.TaskTimeoutStr = "5m"
	}
	if cfg.Provision.GitHubBranch == "" {
		cfg.Provision.GitHubBranch = "main"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func parseTaskTimeout(cfg *Config) error {
	d, err := time.ParseDuration(cfg.Collector.TaskTimeoutStr)
	if err != nil {
		return fmt.Errorf("parse task_timeout %q: %w", cfg.Collector.TaskTimeoutStr, err)
	}
	cfg.Collector.TaskTimeout = d
	return nil
}

// EnabledClouds returns the names of enabled providers, sorted for
// deterministic dispatch order.
func (c *Config) EnabledClouds() []string {
	names := make([]string, 0, len(c.Clouds))
	for name, cloud := range c.Clouds {
		if cloud.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Credentials resolves the credential block for one provider account. A
// missing provider or account yields an empty map, not an error: the account
// is treated as enabled but uncredentialed and contributes zero clusters.
// Values are resolved on every call, never cached.
func (c *Config) Credentials(cloud, account string) map[string]string {
	accounts := c.Clouds[cloud].accountMap()
	creds := accounts[account].Credentials

	resolved := make(map[string]string, len(creds))
	for key, value := range creds {
		resolved[key] = resolveEnv(value)
	}
	return resolved
}

func (cc CloudConfig) accountMap() map[string]AccountConfig {
	switch {
	case len(cc.Accounts) > 0:
		return cc.Accounts
	case len(cc.Projects) > 0:
		return cc.Projects
	default:
		return cc.Subscriptions
	}
}

// resolveEnv substitutes ${NAME} values from the process environment. An
// unset variable resolves to an empty string, not an error.
func resolveEnv(value string) string {
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		return os.Getenv(value[2 : len(value)-1])
	}
	return value
}

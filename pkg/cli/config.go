package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// UserConfig represents ~/.vinegraph/config.yaml.
type UserConfig struct {
	CurrentProfile string             `yaml:"current-profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile represents a single named configuration profile.
type Profile struct {
	Host   string `yaml:"host,omitempty"`
	Port   int    `yaml:"port,omitempty"`
	Token  string `yaml:"token,omitempty"`
	Graph  string `yaml:"graph,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// DefaultUserConfig returns the config used when no file exists yet: an
// empty "default" profile marked active, so the first set-profile or
// use-profile has something to build on.
func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {},
		},
	}
}

// Validate rejects values a profile can never connect with. Zero values
// are fine, they mean "inherit the flag or env default".
func (p Profile) Validate() error {
	if p.Port < 0 || p.Port > 65535 {
		return fmt.Errorf("port %d out of range", p.Port)
	}
	switch p.Output {
	case "", "table", "json":
	default:
		return fmt.Errorf("output %q must be table or json", p.Output)
	}
	return nil
}

// Validate checks every profile in the config.
func (c *UserConfig) Validate() error {
	for _, name := range c.ProfileNames() {
		if err := c.Profiles[name].Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
	}
	return nil
}

// ProfileNames returns the configured profile names, sorted.
func (c *UserConfig) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActiveProfile returns the profile to use based on the override or current-profile.
func (c *UserConfig) ActiveProfile(override string) Profile {
	name := c.CurrentProfile
	if override != "" {
		name = override
	}
	if p, ok := c.Profiles[name]; ok {
		return p
	}
	return Profile{}
}

// ConfigDir returns the path to ~/.vinegraph/.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vinegraph")
}

// ConfigPath returns the path to ~/.vinegraph/config.yaml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LoadUserConfig reads and validates ~/.vinegraph/config.yaml. A missing
// file surfaces as an error wrapping fs.ErrNotExist; callers that treat
// the file as optional check for that and fall back to
// DefaultUserConfig.
func LoadUserConfig() (*UserConfig, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveUserConfig writes ~/.vinegraph/config.yaml.
func SaveUserConfig(cfg *UserConfig) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(ConfigPath(), data, 0o600)
}

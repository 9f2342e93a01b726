// Package config loads the pipeline configuration from shipline.toml.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file location relative to the repository root.
const DefaultPath = "shipline.toml"

// Config holds all pipeline configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Build   BuildConfig   `toml:"build"`
	Deploy  DeployConfig  `toml:"deploy"`
	Hosting HostingConfig `toml:"hosting"`
	Secrets SecretsConfig `toml:"secrets"`
}

// GeneralConfig holds repository-level settings.
type GeneralConfig struct {
	// Mainline is the branch release pull requests target.
	Mainline string `toml:"mainline"`
	// VersionFile is the tracked file holding the current version.
	VersionFile string `toml:"version_file"`
	// AuthorName and AuthorEmail identify the automation in commits and tags.
	AuthorName  string `toml:"author_name"`
	AuthorEmail string `toml:"author_email"`
}

// BuildConfig holds the build stage settings.
type BuildConfig struct {
	// Components are built in parallel; each runs its own command.
	Components []ComponentConfig `toml:"components"`
}

// ComponentConfig is a single buildable component.
type ComponentConfig struct {
	Name    string   `toml:"name"`
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	Dir     string   `toml:"dir"`
}

// DeployConfig holds the deploy stage settings.
type DeployConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	// Region, Account, and Environment are exported to the deploy
	// command's environment.
	Region      string `toml:"region"`
	Account     string `toml:"account"`
	Environment string `toml:"environment"`
}

// HostingConfig holds the repository hosting API settings.
type HostingConfig struct {
	BaseURL string `toml:"base_url"`
	// Repo is the hosting system's repository identifier, e.g. "org/service".
	Repo string `toml:"repo"`
	// TokenSecret names the secret holding the hosting API token.
	TokenSecret string `toml:"token_secret"`
}

// SecretsConfig selects and configures the secret provider.
type SecretsConfig struct {
	// Provider is "env" or "aws".
	Provider string `toml:"provider"`
	// Region overrides the AWS region for the aws provider.
	Region string `toml:"region"`
	// EnvPrefix is the variable prefix for the env provider.
	EnvPrefix string `toml:"env_prefix"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			Mainline:    "main",
			VersionFile: "VERSION",
			AuthorName:  "shipline",
			AuthorEmail: "shipline@localhost",
		},
		Hosting: HostingConfig{
			TokenSecret: "hosting/api-token",
		},
		Secrets: SecretsConfig{
			Provider:  "env",
			EnvPrefix: "SHIPLINE",
		},
	}
}

// Load reads configuration from a TOML file, falling back to defaults
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks constraints the TOML schema cannot express.
func (c *Config) Validate() error {
	if c.General.Mainline == "" {
		return fmt.Errorf("general.mainline cannot be empty")
	}
	if c.General.VersionFile == "" {
		return fmt.Errorf("general.version_file cannot be empty")
	}
	switch c.Secrets.Provider {
	case "env", "aws", "":
	default:
		return fmt.Errorf("secrets.provider must be \"env\" or \"aws\", got %q", c.Secrets.Provider)
	}
	for i, comp := range c.Build.Components {
		if comp.Name == "" {
			return fmt.Errorf("build.components[%d]: name cannot be empty", i)
		}
		if comp.Command == "" {
			return fmt.Errorf("build.components[%d] (%s): command cannot be empty", i, comp.Name)
		}
	}
	return nil
}

// Package config loads the provisioning step list from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/provision/internal/domain/provision"
)

// DefaultManifest is the dependency manifest used when no config overrides it.
const DefaultManifest = "requirements.txt"

// Config is the top-level provision.yaml structure.
type Config struct {
	Steps []StepConfig `yaml:"steps"`
}

// StepConfig describes one install step in the config file.
type StepConfig struct {
	Name             string `yaml:"name"`
	Kind             string `yaml:"kind"`
	Target           string `yaml:"target"`
	RefreshIndex     bool   `yaml:"refresh_index"`
	UpgradeInstaller bool   `yaml:"upgrade_installer"`
}

// Default returns the built-in provisioning sequence: refresh the apt index
// and install ffmpeg, then upgrade pip and install from the manifest.
func Default(manifest string) *Config {
	if manifest == "" {
		manifest = DefaultManifest
	}
	return &Config{
		Steps: []StepConfig{
			{
				Name:         "install ffmpeg",
				Kind:         string(provision.KindSystemPackage),
				Target:       "ffmpeg",
				RefreshIndex: true,
			},
			{
				Name:             "install python dependencies",
				Kind:             string(provision.KindLanguagePackageSet),
				Target:           manifest,
				UpgradeInstaller: true,
			},
		},
	}
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the step list constraints before any step runs.
func (c *Config) Validate() error {
	if len(c.Steps) == 0 {
		return fmt.Errorf("config must declare at least one step")
	}
	for i, step := range c.Steps {
		if step.Target == "" {
			return fmt.Errorf("step %d (%q): target must not be empty", i, step.Name)
		}
		if !provision.Kind(step.Kind).Valid() {
			return fmt.Errorf("step %d (%q): unknown kind %q", i, step.Name, step.Kind)
		}
	}
	return nil
}

// InstallSteps converts the config into domain install steps, preserving
// declaration order.
func (c *Config) InstallSteps() []provision.InstallStep {
	steps := make([]provision.InstallStep, 0, len(c.Steps))
	for _, s := range c.Steps {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("install %s", s.Target)
		}
		steps = append(steps, provision.InstallStep{
			Name:             name,
			Kind:             provision.Kind(s.Kind),
			Target:           s.Target,
			RefreshIndex:     s.RefreshIndex,
			UpgradeInstaller: s.UpgradeInstaller,
		})
	}
	return steps
}

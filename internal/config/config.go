// Package config loads the engine configuration from YAML with
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all engine configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM provider settings
	LLM LLMConfig `yaml:"llm"`

	// Static data locations
	Data DataConfig `yaml:"data"`

	// Diagnostic logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the generative-model client.
type LLMConfig struct {
	Provider        string `yaml:"provider"` // gemini
	APIKey          string `yaml:"api_key"`
	Model           string `yaml:"model"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
	Timeout         string `yaml:"timeout"`
}

// DataConfig locates the static taxonomy and vocabulary files.
type DataConfig struct {
	SpecDir        string `yaml:"spec_dir"`        // modules/, submodules/, checklists/
	MicroRulesDir  string `yaml:"micro_rules_dir"` // {category}.json files
	VocabularyPath string `yaml:"vocabulary_path"` // optional YAML override
}

// LoggingConfig controls the category file loggers.
type LoggingConfig struct {
	DebugMode bool   `yaml:"debug_mode"`
	Level     string `yaml:"level"`
	Dir       string `yaml:"dir"`
}

// Default returns the default configuration rooted at the data directory.
func Default() *Config {
	return &Config{
		Name:    "primusgen",
		Version: "1.0.0",
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			Timeout:  "10m",
		},
		Data: DataConfig{
			SpecDir:        "data",
			MicroRulesDir:  filepath.Join("data", "micro_rules"),
			VocabularyPath: "",
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
			Dir:       ".primusgen",
		},
	}
}

// Load reads a YAML config file, layering it over the defaults, then
// applies environment overrides. A missing file is not an error: the
// defaults plus environment are a complete configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides pulls secrets from the environment. The API key never
// belongs in the config file of a repo that documents audits.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("PRIMUSGEN_API_KEY"); key != "" {
		c.LLM.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("PRIMUSGEN_MODEL"); model != "" {
		c.LLM.Model = model
	}
}

// LLMTimeout parses the configured timeout, defaulting to ten minutes.
func (c *Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

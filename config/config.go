// Package config loads the generator settings from JSON or YAML.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/areibman/vibeshift/registry"
)

const (
	DefaultPath       = "config/config.json"
	defaultModel      = "gpt-4"
	defaultServerAddr = ":8080"
)

// Config holds everything the generator needs for one project.
type Config struct {
	ProjectDir   string          `json:"project_dir,omitempty" yaml:"project_dir,omitempty"`
	MaxAttempts  int             `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	RegistryMode string          `json:"registry_mode,omitempty" yaml:"registry_mode,omitempty"`
	ServerAddr   string          `json:"server_addr,omitempty" yaml:"server_addr,omitempty"`
	LLM          *LLMConfig      `json:"llm,omitempty" yaml:"llm,omitempty"`
	Validator    ValidatorConfig `json:"validator" yaml:"validator"`
	Log          LogConfig       `json:"log" yaml:"log"`
	Report       ReportConfig    `json:"report" yaml:"report"`
}

// LLMConfig selects and tunes the generation backend.
type LLMConfig struct {
	Provider    string  `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model       string  `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	APIKeyEnv   string  `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// ValidatorConfig is the external check; the game name is appended to Args.
type ValidatorConfig struct {
	Command string   `json:"command,omitempty" yaml:"command,omitempty"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty" yaml:"max_age_days,omitempty"`
	Verbose    bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// ReportConfig enables HTML run reports when Dir is set.
type ReportConfig struct {
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.ProjectDir == "" {
		c.ProjectDir = "."
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.RegistryMode == "" {
		c.RegistryMode = string(registry.ModeAccumulate)
	}
	if c.ServerAddr == "" {
		c.ServerAddr = defaultServerAddr
	}
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2000
	}
	if c.Validator.Command == "" {
		c.Validator.Command = "node"
		if len(c.Validator.Args) == 0 {
			c.Validator.Args = []string{"validateGames.cjs"}
		}
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(".vibeshift", "generator.log")
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 15
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 28
	}
}

// Validate rejects settings the generator cannot run with.
func (c Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if _, err := registry.ParseMode(c.RegistryMode); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads JSON (or YAML for .yaml/.yml) config from disk. A missing
// file yields Default().
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Path joins rel onto the project directory.
func (c Config) Path(rel string) string {
	return filepath.Join(c.ProjectDir, rel)
}

// MicrogamesDir is where generated scenes and registry.ts live.
func (c Config) MicrogamesDir() string {
	return c.Path(filepath.Join("src", "scenes", "microgames"))
}

// RegistryPath is the registry document.
func (c Config) RegistryPath() string {
	return filepath.Join(c.MicrogamesDir(), "registry.ts")
}

// ResolveAPIKey resolves the backend key: inline value, then api_key_env, then the
// provider's conventional variable.
func (l *LLMConfig) ResolveAPIKey(provider string) string {
	if l == nil {
		return ""
	}
	if l.APIKey != "" {
		return l.APIKey
	}
	if l.APIKeyEnv != "" {
		return os.Getenv(l.APIKeyEnv)
	}
	switch provider {
	case "gemini":
		if k := os.Getenv("GEMINI_API_KEY"); k != "" {
			return k
		}
		return os.Getenv("GOOGLE_API_KEY")
	case "deepseek":
		return os.Getenv("DEEPSEEK_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}

// CredentialEnvVars are checked for the startup warning.
var CredentialEnvVars = []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY"}

// HasCredentialEnv reports whether any well-known API key variable is set.
func HasCredentialEnv() bool {
	for _, name := range CredentialEnvVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

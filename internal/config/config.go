package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath overrides the config file location
	EnvConfigPath = "SALARYSTATS_CONFIG"

	DefaultSuperJobKeyEnv = "SUPERJOB_SECRET_KEY"
)

var (
	ErrMissingAPIKey = errors.New("missing SuperJob API key")
	ErrNoLanguages   = errors.New("no languages configured")
)

// Config represents the application configuration
type Config struct {
	Languages     []string      `yaml:"languages"`
	Location      string        `yaml:"location"`
	PagePause     time.Duration `yaml:"page_pause"`
	LanguagePause time.Duration `yaml:"language_pause"`
	Timeout       time.Duration `yaml:"timeout"`
	Retries       int           `yaml:"retries"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"`
	Proxy         string        `yaml:"proxy"`
	UserAgent     string        `yaml:"user_agent"`

	HeadHunter HeadHunterConfig `yaml:"headhunter"`
	SuperJob   SuperJobConfig   `yaml:"superjob"`
}

type HeadHunterConfig struct {
	Enabled      bool   `yaml:"enabled"`
	BaseURL      string `yaml:"base_url"`
	Area         int    `yaml:"area"`
	Period       int    `yaml:"period"`
	SearchField  string `yaml:"search_field"`
	PerPage      int    `yaml:"per_page"`
	TextTemplate string `yaml:"text_template"`
	Currency     string `yaml:"currency"`
	MaxPages     int    `yaml:"max_pages"`
}

type SuperJobConfig struct {
	Enabled         bool   `yaml:"enabled"`
	BaseURL         string `yaml:"base_url"`
	APIKeyEnv       string `yaml:"api_key_env"`
	APIKey          string `yaml:"-"`
	TownID          int    `yaml:"town_id"`
	CatalogueID     int    `yaml:"catalogue_id"`
	Count           int    `yaml:"count"`
	KeywordTemplate string `yaml:"keyword_template"`
	Currency        string `yaml:"currency"`
	MaxPages        int    `yaml:"max_pages"`
}

// Default returns the built-in configuration used when no file is present
func Default() *Config {
	return &Config{
		Languages:     []string{"Python", "Java", "JavaScript", "C++", "C#", "PHP", "Ruby", "Go", "1С"},
		Location:      "Moscow",
		PagePause:     300 * time.Millisecond,
		LanguagePause: 500 * time.Millisecond,
		Timeout:       30 * time.Second,
		RetryBackoff:  time.Second,
		HeadHunter: HeadHunterConfig{
			Enabled:      true,
			BaseURL:      "https://api.hh.ru/vacancies",
			Area:         1,
			Period:       30,
			SearchField:  "name",
			PerPage:      100,
			TextTemplate: "ПРОГРАММИСТ %s",
			Currency:     "RUR",
			// hh.ru refuses to page deeper than 2000 results
			MaxPages: 20,
		},
		SuperJob: SuperJobConfig{
			Enabled:         true,
			BaseURL:         "https://api.superjob.ru/2.0/vacancies/",
			APIKeyEnv:       DefaultSuperJobKeyEnv,
			TownID:          4,
			CatalogueID:     48,
			Count:           100,
			KeywordTemplate: "программист %[1]s разработчик %[1]s",
			Currency:        "rub",
			// superjob.ru stops at 500 results
			MaxPages: 5,
		},
	}
}

// Load reads the configuration file at path on top of the defaults and
// resolves secrets from the environment. An empty path falls back to
// $SALARYSTATS_CONFIG and then ./config.yaml; a missing file is not an error.
// A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	// .env is optional, the process environment is used as is otherwise
	_ = godotenv.Load()

	cfg := Default()

	configPath, explicit := findConfigPath(path)
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
	case os.IsNotExist(err) && !explicit:
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	cfg.ResolveSecrets()
	return cfg, nil
}

func findConfigPath(path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, true
	}
	return "config.yaml", false
}

// ResolveSecrets fills API keys from the environment
func (c *Config) ResolveSecrets() {
	envName := c.SuperJob.APIKeyEnv
	if envName == "" {
		envName = DefaultSuperJobKeyEnv
	}
	c.SuperJob.APIKey = strings.TrimSpace(os.Getenv(envName))
}

// Validate checks the configuration before any request is made
func (c *Config) Validate() error {
	if len(c.Languages) == 0 {
		return ErrNoLanguages
	}
	for _, lang := range c.Languages {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("empty language name in %v", c.Languages)
		}
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}
	if c.PagePause < 0 || c.LanguagePause < 0 {
		return fmt.Errorf("pauses must not be negative")
	}

	if c.HeadHunter.Enabled {
		if c.HeadHunter.BaseURL == "" {
			return fmt.Errorf("headhunter.base_url is required")
		}
		if c.HeadHunter.PerPage <= 0 || c.HeadHunter.PerPage > 100 {
			return fmt.Errorf("headhunter.per_page must be between 1 and 100, got %d", c.HeadHunter.PerPage)
		}
	}

	if c.SuperJob.Enabled {
		if c.SuperJob.BaseURL == "" {
			return fmt.Errorf("superjob.base_url is required")
		}
		if c.SuperJob.Count <= 0 || c.SuperJob.Count > 100 {
			return fmt.Errorf("superjob.count must be between 1 and 100, got %d", c.SuperJob.Count)
		}
		if c.SuperJob.APIKey == "" {
			envName := c.SuperJob.APIKeyEnv
			if envName == "" {
				envName = DefaultSuperJobKeyEnv
			}
			return fmt.Errorf("%w: set %s or disable superjob", ErrMissingAPIKey, envName)
		}
	}

	return nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file-based configuration for agentctl. Every secret can also
// arrive through the environment, which wins over the file.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Scraper ScraperConfig `yaml:"scraper"`
	Store   StoreConfig   `yaml:"store"`
	Agent   AgentConfig   `yaml:"agent"`
	Log     LogConfig     `yaml:"log"`
}

// LLMConfig selects and configures the model backend.
type LLMConfig struct {
	// Provider is "openrouter" (default) or "openai".
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float32 `yaml:"temperature"`
	SiteURL     string  `yaml:"site_url"`
	SiteName    string  `yaml:"site_name"`
}

type ScraperConfig struct {
	BaseURL string `yaml:"base_url"`
	// FetchPages enables re-fetching result pages whose content came back
	// empty from the scraper service.
	FetchPages bool `yaml:"fetch_pages"`
}

// StoreConfig selects the persistence backends. Driver covers articles and,
// unless JobsDriver overrides it, jobs too. JobsDriver may additionally be
// "redis" for cheap status polling.
type StoreConfig struct {
	Driver     string        `yaml:"driver"` // "memory" or "postgres"
	JobsDriver string        `yaml:"jobs_driver"`
	Postgres   PostgresConfig `yaml:"postgres"`
	Redis      RedisConfig    `yaml:"redis"`
}

type PostgresConfig struct {
	ConnString    string `yaml:"conn_string"`
	ArticlesTable string `yaml:"articles_table"`
	JobsTable     string `yaml:"jobs_table"`
}

type RedisConfig struct {
	Addr     string   `yaml:"addr"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	Prefix   string   `yaml:"prefix"`
	TTL      Duration `yaml:"ttl"`
}

// Duration decodes Go duration strings like "24h" from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// AgentConfig exposes the workflow knobs. Zero values fall back to the
// built-in defaults.
type AgentConfig struct {
	MinResearchResults int `yaml:"min_research_results"`
	MaxSearchAttempts  int `yaml:"max_search_attempts"`
	ResultsPerQuery    int `yaml:"results_per_query"`
	MaxArticleImages   int `yaml:"max_article_images"`
	SourceExcerptChars int `yaml:"source_excerpt_chars"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig reads the YAML config file if path is non-empty, then overlays
// environment variables and defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if c.LLM.Provider == "openai" {
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	}
	if v := os.Getenv("SCRAPER_API_URL"); v != "" {
		c.Scraper.BaseURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Store.Postgres.ConnString = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openrouter"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Store.JobsDriver == "" {
		c.Store.JobsDriver = c.Store.Driver
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

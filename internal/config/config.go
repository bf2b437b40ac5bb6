package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fiwarelab/gavel/internal/policy"
)

type Config struct {
	Cases   string           `yaml:"cases"`
	Results Results          `yaml:"results"`
	Policy  policy.Overrides `yaml:"policy"`
	Judge   Judge            `yaml:"judge"`
	Pricing string           `yaml:"pricing"`
}

type Results struct {
	Dir string `yaml:"dir"`
}

// Judge configures the optional LLM-backed text equivalence scorer.
// Disabled by default: the deterministic lexical scorer keeps
// benchmark runs byte-reproducible.
type Judge struct {
	Enabled   bool   `yaml:"enabled"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Results.Dir == "" {
		cfg.Results.Dir = "results"
	}
	if cfg.Judge.Enabled {
		if cfg.Judge.APIKeyEnv == "" {
			cfg.Judge.APIKeyEnv = "OPENAI_API_KEY"
		}
		if os.Getenv(cfg.Judge.APIKeyEnv) == "" {
			return fmt.Errorf("judge enabled but %s is not set", cfg.Judge.APIKeyEnv)
		}
	}
	if cfg.Policy.Weights != nil {
		w := cfg.Policy.Weights
		if w.Correctness < 0 || w.Reasoning < 0 || w.Efficiency < 0 {
			return fmt.Errorf("policy weights must be non-negative")
		}
	}
	if cfg.Policy.Mode != nil {
		if _, ok := policy.ParseMode(*cfg.Policy.Mode); !ok {
			return fmt.Errorf("unknown grading_mode %q", *cfg.Policy.Mode)
		}
	}
	return nil
}

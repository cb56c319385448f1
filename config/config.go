// Package config loads benchmark configuration from YAML with
// environment overrides, probing the same paths regardless of where the
// binary is launched from.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Matching struct {
	Enabled   bool    `mapstructure:"enabled"`
	Threshold float64 `mapstructure:"threshold"`
}

type Solver struct {
	// ExactMaxSpeakers is the per-side cutover above which the greedy
	// strategy replaces the exact assignment solver.
	ExactMaxSpeakers int `mapstructure:"exact_max_speakers"`
}

type Normalize struct {
	Enabled bool `mapstructure:"enabled"`
}

type LLM struct {
	GatewayURL        string   `mapstructure:"gateway_url"`
	APIKey            string   `mapstructure:"api_key"`
	EvaluatorModels   []string `mapstructure:"evaluator_models"`
	ConsolidatorModel string   `mapstructure:"consolidator_model"`
	MaxTokens         int      `mapstructure:"max_tokens"`
}

type Paths struct {
	Outputs string `mapstructure:"outputs"`
}

type Root struct {
	LogLevel  string    `mapstructure:"log_level"`
	Matching  Matching  `mapstructure:"matching"`
	Solver    Solver    `mapstructure:"solver"`
	Normalize Normalize `mapstructure:"normalize"`
	LLM       LLM       `mapstructure:"llm"`
	Paths     Paths     `mapstructure:"paths"`
}

// Load reads config.yaml from the probed locations, applies defaults and
// STT_-prefixed environment overrides, and picks up a .env file for the
// gateway API key if one is present.
func Load() (*Root, error) {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join("config", env))

	v.SetEnvPrefix("STT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("matching.enabled", true)
	v.SetDefault("matching.threshold", 80.0)
	v.SetDefault("solver.exact_max_speakers", 20)
	v.SetDefault("normalize.enabled", true)
	v.SetDefault("llm.gateway_url", "https://llm-gateway.assemblyai.com/v1/chat/completions")
	v.SetDefault("llm.evaluator_models", []string{
		"claude-sonnet-4-5-20250929",
		"gpt-5",
		"gemini-2.5-pro",
	})
	v.SetDefault("llm.consolidator_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("llm.max_tokens", 4000)
	v.SetDefault("paths.outputs", "outputs")

	if err := v.ReadInConfig(); err != nil {
		// Defaults alone are a valid configuration.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &cfg, nil
}

// Package config handles application configuration using Viper.
// Viper supports YAML files, environment variables, and defaults — merged in priority order.
// Go convention: configuration is loaded into structs, not accessed as raw key-value pairs.
//
// The LLM API keys are deliberately NOT module-level state: they live in the
// config struct and get injected into the client constructors, so tests can
// supply fake credentials without touching the process environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration struct. Nested structs organize related settings.
// `mapstructure` tags tell Viper how to map YAML/env keys to struct fields.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	CORS    CORSConfig    `mapstructure:"cors"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LLMConfig struct {
	// ProviderOrder controls which LLM providers are used and in what order.
	// First provider is primary, rest are fallbacks. Example: ["openai", "anthropic"]
	ProviderOrder []string        `mapstructure:"provider_order"`
	OpenAI        OpenAIConfig    `mapstructure:"openai"`
	Anthropic     AnthropicConfig `mapstructure:"anthropic"`

	// Completion parameters sent on every call. The prompt is deterministic,
	// so the sampling parameters are fixed per request too.
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`

	// RequestTimeout bounds a single outbound completion call. The upstream
	// API gives no latency guarantee, so an unbounded call could pin a
	// request handler indefinitely.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// RatePerMinute caps outbound calls across all providers (cost control).
	RatePerMinute int `mapstructure:"rate_per_minute"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from a YAML file and environment variables.
// In Go, functions return errors as the last return value — callers must check them.
// This pattern replaces try/catch: if err != nil { handle it }.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults — these apply when neither file nor env provides a value.
	// The completion defaults mirror the original behavior: gpt-4,
	// temperature 0.7, 300 output tokens.
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.database_path", "./storage/sentiment-service.db")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("llm.provider_order", []string{"openai", "anthropic"})
	v.SetDefault("llm.openai.model", "gpt-4")
	v.SetDefault("llm.anthropic.model", "claude-sonnet-4-5-20250929")
	// Empty defaults register the key paths — Viper's Unmarshal only sees
	// env-provided values for keys it already knows about.
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 300)
	v.SetDefault("llm.request_timeout", 30*time.Second)
	v.SetDefault("llm.rate_per_minute", 10)
	v.SetDefault("log.level", "info")

	// Read from YAML config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read config file (ignore "not found" — defaults + env are enough)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Environment variables override everything.
	// SENTIMENT_ prefix + nested keys:
	// SENTIMENT_LLM_OPENAI_API_KEY=sk-... → llm.openai.api_key
	v.SetEnvPrefix("SENTIMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal into our Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Address returns the listen address string like "0.0.0.0:8080".
// This is a method on ServerConfig — Go attaches methods to types via receiver syntax.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Package config loads application configuration from config.yaml and
// ENRICH_* environment variables, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dataset    DatasetConfig    `yaml:"dataset" mapstructure:"dataset"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Prompts    PromptsConfig    `yaml:"prompts" mapstructure:"prompts"`
	Repair     RepairConfig     `yaml:"repair" mapstructure:"repair"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates the dataset CSV.
type DatasetConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// PerplexityConfig holds Perplexity API settings for the extraction stage.
type PerplexityConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	Model     string  `yaml:"model" mapstructure:"model"`
	MaxTokens int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RPS       float64 `yaml:"rps" mapstructure:"rps"`
}

// OpenAIConfig holds OpenAI API settings for the classification stage.
type OpenAIConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	Model   string  `yaml:"model" mapstructure:"model"`
	Effort  string  `yaml:"effort" mapstructure:"effort"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
}

// PromptsConfig locates prompt template overrides. Built-in defaults apply
// when a file is absent.
type PromptsConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// RepairConfig configures the repair stage.
type RepairConfig struct {
	MaxInfoLength int    `yaml:"max_info_length" mapstructure:"max_info_length"`
	TaxonomyPath  string `yaml:"taxonomy_path" mapstructure:"taxonomy_path"`
}

// RetryConfig configures the capability retry decorators.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMS int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMS     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ENRICH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.path", "data/companies.csv")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-reasoning")
	v.SetDefault("perplexity.max_tokens", 4500)
	v.SetDefault("perplexity.rps", 1.0)
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-5")
	v.SetDefault("openai.effort", "high")
	v.SetDefault("openai.rps", 1.0)
	v.SetDefault("prompts.dir", "prompts")
	v.SetDefault("repair.max_info_length", 7500)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_ms", 1000)
	v.SetDefault("retry.max_backoff_ms", 30000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// Package config loads salescast settings from defaults, environment
// variables (prefix SALESCAST) and an optional YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable, e.g.
// SALESCAST_EVALUATION_STEPS. Leaf names come from split_words so that
// no variable is read without the prefix.
const EnvPrefix = "SALESCAST"

// Config is the complete command configuration.
type Config struct {
	Input      InputConfig      `yaml:"input" envconfig:"INPUT"`
	Evaluation EvaluationConfig `yaml:"evaluation" envconfig:"EVALUATION"`
	Forecast   ForecastConfig   `yaml:"forecast" envconfig:"FORECAST"`
	Regression RegressionConfig `yaml:"regression" envconfig:"REGRESSION"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Metrics    MetricsConfig    `yaml:"metrics" envconfig:"METRICS"`
}

// InputConfig describes the transaction file.
type InputConfig struct {
	DateColumn    string  `yaml:"date_column" split_words:"true" default:"Order Date" validate:"required"`
	SalesColumn   string  `yaml:"sales_column" split_words:"true" default:"Sales" validate:"required"`
	Sheet         string  `yaml:"sheet" split_words:"true"`
	IQRMultiplier float64 `yaml:"iqr_multiplier" split_words:"true" default:"1.5" validate:"gt=0"`
}

// EvaluationConfig controls the forward-chaining run and its strategies.
type EvaluationConfig struct {
	Train          int     `yaml:"train" split_words:"true" default:"0" validate:"min=0"`
	Horizon        int     `yaml:"horizon" split_words:"true" default:"1" validate:"min=1"`
	Steps          int     `yaml:"steps" split_words:"true" default:"12" validate:"min=1"`
	MAWindows      []int   `yaml:"ma_windows" split_words:"true" default:"3,6" validate:"dive,min=1"`
	SESAlpha       float64 `yaml:"ses_alpha" split_words:"true" default:"0.2" validate:"gt=0,lte=1"`
	SeasonalPeriod int     `yaml:"seasonal_period" split_words:"true" default:"12" validate:"min=2"`
	Criterion      string  `yaml:"criterion" split_words:"true" default:"aic" validate:"oneof=aic aicc bic"`
	Stepwise       bool    `yaml:"stepwise" split_words:"true" default:"true"`
	LagRegression  bool    `yaml:"lag_regression" split_words:"true" default:"false"`
	CacheSize      int     `yaml:"cache_size" split_words:"true" default:"256" validate:"min=0"`
}

// ForecastConfig controls the Holt-Winters forecast.
type ForecastConfig struct {
	Months     int     `yaml:"months" split_words:"true" default:"24" validate:"min=1"`
	Confidence float64 `yaml:"confidence" split_words:"true" default:"0.95" validate:"gt=0,lt=1"`
}

// RegressionConfig controls the lag regression pipeline.
type RegressionConfig struct {
	Lags          int     `yaml:"lags" split_words:"true" default:"2" validate:"min=1"`
	TrainFraction float64 `yaml:"train_fraction" split_words:"true" default:"0.8" validate:"gt=0,lt=1"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" split_words:"true" default:"info" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development" split_words:"true" default:"false"`
}

// MetricsConfig names the Prometheus textfile to write after a run.
// Empty disables the export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" split_words:"true"`
}

// Load builds the configuration. Defaults are overridden by environment
// variables, which are overridden by the YAML file at path when path is
// not empty. Command-line flags are applied by the caller, followed by
// Validate.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFile decodes YAML onto cfg. Keys absent from the file leave the
// current values untouched.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

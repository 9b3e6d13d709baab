// Package config loads run settings from an optional YAML file, environment
// variables prefixed with LUECKENTEXT_ and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// DefaultFeedURL is the Atom feed articles are picked from.
	DefaultFeedURL = "https://www.tagesschau.de/xml/atom/"
	// DefaultFeedDomain filters feed entries down to articles of the feed's own site.
	DefaultFeedDomain = "tagesschau.de"

	envPrefix = "LUECKENTEXT"
)

type Config struct {
	Feeds      FeedsConfig      `mapstructure:"feeds"`
	Scraper    ScraperConfig    `mapstructure:"scraper"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Templates  TemplatesConfig  `mapstructure:"templates"`
	Output     OutputConfig     `mapstructure:"output"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Debug      bool             `mapstructure:"debug"`
}

type FeedsConfig struct {
	URL    string `mapstructure:"url" validate:"required,url"`
	Domain string `mapstructure:"domain" validate:"required"`
	// File optionally lists several feeds; it replaces URL and Domain.
	File string `mapstructure:"file" validate:"omitempty,file"`
}

type ScraperConfig struct {
	Selectors []SelectorConfig `mapstructure:"selectors" validate:"required,min=1,dive"`
}

// SelectorConfig names the article container and the paragraphs inside it.
type SelectorConfig struct {
	Container string `mapstructure:"container" validate:"required"`
	Paragraph string `mapstructure:"paragraph" validate:"required"`
}

type DictionaryConfig struct {
	Provider       string `mapstructure:"provider" validate:"required,oneof=dwds duden tfd custom"`
	URLTemplate    string `mapstructure:"url_template" validate:"required_if=Provider custom"`
	NotFoundMarker string `mapstructure:"not_found_marker" validate:"required_if=Provider custom"`
	MaxLookups     int    `mapstructure:"max_lookups" validate:"gte=0"`
}

type TemplatesConfig struct {
	Exercise string `mapstructure:"exercise"`
}

type OutputConfig struct {
	Directory string `mapstructure:"directory" validate:"required"`
	Prefix    string `mapstructure:"prefix" validate:"required"`
	AnswerKey bool   `mapstructure:"answer_key"`
}

type HTTPConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RetryAttempts int           `mapstructure:"retry_attempts" validate:"gte=1"`
	RetryDelay    time.Duration `mapstructure:"retry_delay" validate:"gte=0"`
	UserAgent     string        `mapstructure:"user_agent"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("feeds.url", DefaultFeedURL)
	v.SetDefault("feeds.domain", DefaultFeedDomain)
	v.SetDefault("feeds.file", "")
	v.SetDefault("scraper.selectors", []map[string]any{
		{"container": "div.section.sectionZ.sectionArticle", "paragraph": "p.text.small"},
		{"container": "article", "paragraph": "p.textabsatz"},
	})
	v.SetDefault("dictionary.provider", "dwds")
	v.SetDefault("dictionary.url_template", "")
	v.SetDefault("dictionary.not_found_marker", "")
	v.SetDefault("dictionary.max_lookups", 0)
	v.SetDefault("templates.exercise", "")
	v.SetDefault("output.directory", ".")
	v.SetDefault("output.prefix", "deutschtest_")
	v.SetDefault("output.answer_key", false)
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.retry_attempts", 1)
	v.SetDefault("http.retry_delay", 2*time.Second)
	v.SetDefault("http.user_agent", "lueckentext/1.0")
	v.SetDefault("debug", false)
}

// Load reads configFile, or lueckentext.yaml from the working directory or
// $HOME/.config/lueckentext when configFile is empty. A missing file is fine.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("lueckentext")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("$HOME", ".config", "lueckentext"))
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("debug", envPrefix+"_DEBUG", "DEBUG"); err != nil {
		return nil, fmt.Errorf("failed to bind DEBUG environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	return &cfg, nil
}

// Validate checks every field and reports all violations in one error.
func (c *Config) Validate() error {
	validate, trans, err := newValidator()
	if err != nil {
		return fmt.Errorf("newValidator > %w", err)
	}

	err = validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate.Struct > %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fe.Translate(trans))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

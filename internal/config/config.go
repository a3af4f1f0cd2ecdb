package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/pai-assistant/")
	v.AddConfigPath("$HOME/.pai-assistant")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("ASSISTANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Generator defaults
	v.SetDefault("generator.provider", "openai")

	// Server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:8088")
	v.SetDefault("server.cors_origins", []string{"*"})

	// Gateway defaults
	v.SetDefault("gateway.base_url", "http://localhost:3000")
	v.SetDefault("gateway.api_key", "")
	v.SetDefault("gateway.session", "default")
	v.SetDefault("gateway.timeout", "15s")

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4")
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.top_p", 0.9)
	v.SetDefault("openai.max_body_size", 4096)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 500)
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.max_body_size", 4096)

	// Assistant defaults
	v.SetDefault("assistant.reply_enabled", true)
	v.SetDefault("assistant.history_window", 10)
	v.SetDefault("assistant.persona", "You are a helpful personal assistant answering WhatsApp messages on behalf of your owner.")

	// Classifier defaults
	v.SetDefault("classifier.long_message_words", 50)
	v.SetDefault("classifier.very_short_words", 3)
	v.SetDefault("classifier.very_long_words", 100)
	v.SetDefault("classifier.spam_url_count", 3)
	v.SetDefault("classifier.spam_uppercase_ratio", 0.6)
	v.SetDefault("classifier.spam_uppercase_min_letters", 15)
	v.SetDefault("classifier.shout_uppercase_ratio", 0.5)
	v.SetDefault("classifier.shout_min_letters", 10)
	v.SetDefault("classifier.business_hours_start", 9)
	v.SetDefault("classifier.business_hours_end", 18)
	v.SetDefault("classifier.extra_keywords", map[string][]string{})

	// Storage defaults
	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.sqlite_path", "/data/assistant.db")
	v.SetDefault("storage.mysql_dsn", "user:password@tcp(localhost:3306)/assistant")
	v.SetDefault("storage.retention", "720h")
	v.SetDefault("storage.cleanup_frequency", "1h")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}

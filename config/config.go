package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/cookme/web/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Spoonacular SpoonacularConfig
	Search      SearchConfig
	Templates   TemplatesConfig
	Log         LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port              string        `mapstructure:"port"`
	Environment       string        `mapstructure:"environment"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// SpoonacularConfig holds recipe API configuration
type SpoonacularConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SearchConfig controls how ingredient searches are carried out
type SearchConfig struct {
	FetchInstructions  bool `mapstructure:"fetch_instructions"`
	InstructionWorkers int  `mapstructure:"instruction_workers"`
}

// TemplatesConfig points at an HTML template overriding the embedded page.
// An empty Path uses the embedded template.
type TemplatesConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration like Load, reading the given file instead of
// searching the default config paths when path is not empty.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/cookme/")
	}

	// COOKME_SPOONACULAR_API_KEY maps to spoonacular.api_key
	v.SetEnvPrefix("COOKME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key is given a default
// so that AutomaticEnv can bind it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_header_timeout", "5s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("spoonacular.api_key", "")
	v.SetDefault("spoonacular.base_url", "https://api.spoonacular.com/recipes/")
	v.SetDefault("spoonacular.timeout", "10s")

	v.SetDefault("search.fetch_instructions", true)
	v.SetDefault("search.instruction_workers", 1)

	v.SetDefault("templates.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Spoonacular.APIKey == "" {
		return fmt.Errorf("%w: Spoonacular API key is required (set COOKME_SPOONACULAR_API_KEY)", domain.ErrConfiguration)
	}

	if config.Spoonacular.BaseURL == "" {
		return fmt.Errorf("%w: Spoonacular base URL must not be empty", domain.ErrConfiguration)
	}

	if config.Spoonacular.Timeout <= 0 {
		return fmt.Errorf("%w: Spoonacular timeout must be positive, got: %s", domain.ErrConfiguration, config.Spoonacular.Timeout)
	}

	if config.Search.InstructionWorkers < 1 {
		return fmt.Errorf("%w: instruction workers must be at least 1, got: %d", domain.ErrConfiguration, config.Search.InstructionWorkers)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("%w: log format must be 'text' or 'json', got: %s", domain.ErrConfiguration, config.Log.Format)
	}

	return nil
}

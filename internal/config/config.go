// Package config handles Nimbus configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./config.yaml, ~/.config/nimbus/config.yaml, /etc/nimbus/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "nimbus", "config.yaml"))
	}

	paths = append(paths, "/etc/nimbus/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the path found, or an error if nothing was found.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all Nimbus configuration.
type Config struct {
	Listen     ListenConfig     `yaml:"listen"`
	Weather    WeatherConfig    `yaml:"weather"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Defaults   DefaultsConfig   `yaml:"defaults"`
	LogLevel   string           `yaml:"log_level"`
}

// ListenConfig defines the API server settings.
type ListenConfig struct {
	Address string `yaml:"address"` // Bind address (default: "" = all interfaces)
	Port    int    `yaml:"port"`
}

// WeatherConfig defines the external weather data provider.
type WeatherConfig struct {
	// APIKey authenticates against the provider. Falls back to the
	// OPENWEATHERMAP_API_KEY environment variable when empty.
	APIKey string `yaml:"api_key"`
	// GeocodeURL and ForecastURL override the provider endpoints.
	// Used by tests and self-hosted mirrors.
	GeocodeURL  string `yaml:"geocode_url"`
	ForecastURL string `yaml:"forecast_url"`
}

// ClassifierConfig defines how user utterances are mapped to capabilities.
type ClassifierConfig struct {
	// Provider selects the classifier implementation: "ollama" for
	// model-backed classification, "keyword" for the deterministic
	// phrase matcher. Default: "keyword".
	Provider  string `yaml:"provider"`
	OllamaURL string `yaml:"ollama_url"`
	Model     string `yaml:"model"`
}

// DefaultsConfig seeds new sessions with initial preferences.
type DefaultsConfig struct {
	City            string `yaml:"city"`
	TemperatureUnit string `yaml:"temperature_unit"`
}

// Load reads configuration from a YAML file. A .env file in the working
// directory is merged into the environment first so that ${VAR} expansion
// in the YAML can see secrets kept out of the config file.
func Load(path string) (*Config, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvFallbacks()
	return cfg, nil
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Listen: ListenConfig{Port: 8001},
		Classifier: ClassifierConfig{
			Provider: "keyword",
		},
		Defaults: DefaultsConfig{
			City:            "Tunis",
			TemperatureUnit: "Celsius",
		},
	}
}

func (c *Config) applyEnvFallbacks() {
	if c.Weather.APIKey == "" {
		c.Weather.APIKey = os.Getenv("OPENWEATHERMAP_API_KEY")
	}
}

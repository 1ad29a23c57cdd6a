package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port        string   `envconfig:"PORT"         default:"8080"`
	AppEnv      string   `envconfig:"APP_ENV"      default:"development"`
	GinMode     string   `envconfig:"GIN_MODE"`
	FrontendURL []string `envconfig:"FRONTEND_URL"`

	RapidAPIKey     string        `envconfig:"RAPIDAPI_KEY"`
	RapidAPIHost    string        `envconfig:"RAPIDAPI_HOST"        default:"sky-scrapper.p.rapidapi.com"`
	SkyScrapperURL  string        `envconfig:"SKYSCRAPPER_BASE_URL" default:"https://sky-scrapper.p.rapidapi.com"`
	AirportLocale   string        `envconfig:"AIRPORT_LOCALE"       default:"en-US"`
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT"     default:"30s"`

	ChatBaseURL string `envconfig:"CHAT_BASE_URL" default:"https://api.openai.com/v1"`
	ChatAPIKey  string `envconfig:"CHAT_API_KEY"`
	ChatAPIHost string `envconfig:"CHAT_API_HOST"`
	ChatModel   string `envconfig:"CHAT_MODEL"    default:"gpt-4o-mini"`

	NERModelPath string `envconfig:"NER_MODEL_PATH"`
}

// Load reads an optional .env file and then binds the process environment
// into a Config. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	origins := make([]string, 0, len(c.FrontendURL))
	for _, u := range c.FrontendURL {
		if u = strings.TrimSpace(u); u != "" {
			origins = append(origins, u)
		}
	}
	c.FrontendURL = origins

	// The chat provider is usually reached through the same RapidAPI account.
	if c.ChatAPIKey == "" {
		c.ChatAPIKey = c.RapidAPIKey
	}
	c.ChatBaseURL = strings.TrimRight(c.ChatBaseURL, "/")
	c.SkyScrapperURL = strings.TrimRight(c.SkyScrapperURL, "/")
}

// Warnings lists configuration gaps that degrade the service without
// preventing it from starting.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.RapidAPIKey == "" {
		warnings = append(warnings, "RAPIDAPI_KEY not set, airport and flight lookups will be rejected by the provider")
	}
	if c.ChatAPIKey == "" {
		warnings = append(warnings, "CHAT_API_KEY not set, chat fallback will fail")
	}
	return warnings
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "" || c.AppEnv == "development"
}

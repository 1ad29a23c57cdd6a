package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RAPIDAPI_KEY", "secret")
	t.Setenv("CHAT_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sky-scrapper.p.rapidapi.com", cfg.RapidAPIHost)
	assert.Equal(t, "https://sky-scrapper.p.rapidapi.com", cfg.SkyScrapperURL)
	assert.Equal(t, "en-US", cfg.AirportLocale)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
	assert.Equal(t, "secret", cfg.ChatAPIKey, "chat key falls back to the RapidAPI key")
	assert.Empty(t, cfg.Warnings())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FRONTEND_URL", "https://a.example.com, ,https://b.example.com")
	t.Setenv("SKYSCRAPPER_BASE_URL", "http://localhost:4000/")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("RAPIDAPI_KEY", "")
	t.Setenv("CHAT_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.FrontendURL)
	assert.Equal(t, "http://localhost:4000", cfg.SkyScrapperURL)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Len(t, cfg.Warnings(), 2)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("PROVIDER_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

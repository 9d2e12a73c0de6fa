package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory so no stray config or .env file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV_FILE", "")
	return dir
}

func TestLoadDefaultsWithEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("WEATHER_API_BASE_URL", "https://weather.example.com/api")
	t.Setenv("WEATHER_API_KEY", "weather-secret")
	t.Setenv("LLM_API_KEY", "llm-secret")
	t.Setenv("INTENT_MAX_QUERY_TOKENS", "32")
	t.Setenv("ADVICE_TEMPERATURE", "0.5")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, "https://weather.example.com/api", cfg.Weather.BaseURL)
	require.Equal(t, "weather-secret", cfg.Weather.APIKey)
	require.Equal(t, "X-API-Key", cfg.Weather.APIKeyHeader)
	require.Equal(t, "llm-secret", cfg.LLM.APIKey)
	require.Equal(t, LLMClientHTTP, cfg.LLM.Client)
	require.Equal(t, float32(0.1), cfg.Intent.Temperature)
	require.Equal(t, 150, cfg.Intent.MaxTokens)
	require.Equal(t, 32, cfg.Intent.MaxQueryTokens)
	require.Equal(t, float32(0.5), cfg.Advice.Temperature)
	require.Equal(t, 500, cfg.Advice.MaxTokens)
	require.Equal(t, time.Duration(0), cfg.HTTP.WriteTimeout)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.AllowedOrigins)
	require.Empty(t, cfg.Intent.Prompt)
	require.Empty(t, cfg.Advice.Prompt)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
llm:
  model: gpt-4o
  client: sdk
weather:
  baseUrl: https://weather.example.com
  timezone: Asia/Singapore
intent:
  maxTokens: 80
`), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "gpt-4o", cfg.LLM.Model)
	require.Equal(t, LLMClientSDK, cfg.LLM.Client)
	require.Equal(t, 80, cfg.Intent.MaxTokens)

	loc, err := cfg.Weather.Location()
	require.NoError(t, err)
	require.Equal(t, "Asia/Singapore", loc.String())
}

func TestLoadReadsDotEnvWithoutOverridingEnvironment(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"WEATHER_API_BASE_URL=https://from-dotenv.example.com\nWEATHER_API_KEY=dotenv-key\n",
	), 0o600))
	t.Setenv("WEATHER_API_KEY", "process-key")
	// Registered with t.Setenv so the value godotenv writes is rolled back after the test.
	t.Setenv("WEATHER_API_BASE_URL", "")
	require.NoError(t, os.Unsetenv("WEATHER_API_BASE_URL"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://from-dotenv.example.com", cfg.Weather.BaseURL)
	require.Equal(t, "process-key", cfg.Weather.APIKey)
}

func TestLoadMissingExplicitEnvFile(t *testing.T) {
	isolate(t)
	t.Setenv("ENV_FILE", "does-not-exist.env")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Weather.BaseURL = "https://weather.example.com"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing weather base url", mutate: func(c *Config) { c.Weather.BaseURL = " " }},
		{name: "unknown llm client", mutate: func(c *Config) { c.LLM.Client = "grpc" }},
		{name: "empty model", mutate: func(c *Config) { c.LLM.Model = "" }},
		{name: "zero intent tokens", mutate: func(c *Config) { c.Intent.MaxTokens = 0 }},
		{name: "negative query tokens", mutate: func(c *Config) { c.Intent.MaxQueryTokens = -1 }},
		{name: "zero advice tokens", mutate: func(c *Config) { c.Advice.MaxTokens = 0 }},
		{name: "bad timezone", mutate: func(c *Config) { c.Weather.Timezone = "Mars/Olympus" }},
		{name: "rate limit without burst", mutate: func(c *Config) { c.HTTP.RateLimit.Burst = 0 }},
		{name: "empty address", mutate: func(c *Config) { c.HTTP.Address = "" }},
	}
	for _, tt := range tests {
		cfg := valid()
		tt.mutate(cfg)
		require.Error(t, cfg.Validate(), tt.name)
	}
}

package main

import (
	"log/slog"

	"github.com/yanqian/weather-advisor/internal/domain/weather"
	"github.com/yanqian/weather-advisor/internal/infra/config"
	"github.com/yanqian/weather-advisor/internal/infra/llm/chatgpt"
	"github.com/yanqian/weather-advisor/internal/infra/llm/openaisdk"
	"github.com/yanqian/weather-advisor/internal/infra/weather/weatherapi"
	"github.com/yanqian/weather-advisor/pkg/metrics"
)

func provideWeatherConfig(cfg *config.Config) (weather.Config, error) {
	loc, err := cfg.Weather.Location()
	if err != nil {
		return weather.Config{}, err
	}
	return weather.Config{
		Model: cfg.LLM.Model,
		Intent: weather.PromptConfig{
			Prompt:      cfg.Intent.Prompt,
			Temperature: cfg.Intent.Temperature,
			MaxTokens:   cfg.Intent.MaxTokens,
		},
		Advice: weather.PromptConfig{
			Prompt:      cfg.Advice.Prompt,
			Temperature: cfg.Advice.Temperature,
			MaxTokens:   cfg.Advice.MaxTokens,
		},
		MaxQueryTokens: cfg.Intent.MaxQueryTokens,
		Location:       loc,
	}, nil
}

func provideChatClient(cfg *config.Config, logger *slog.Logger) (weather.ChatClient, error) {
	if cfg.LLM.Client == config.LLMClientSDK {
		client, err := openaisdk.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("using openai sdk chat client", "model", cfg.LLM.Model)
		return client, nil
	}
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func provideWeatherClient(cfg *config.Config) *weatherapi.Client {
	return weatherapi.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.APIKeyHeader)
}

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) metrics.TokenCounter {
	return metrics.NewTokenCounter(cfg.LLM.Model, logger)
}

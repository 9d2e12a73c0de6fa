package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/yanqian/weather-advisor/internal/infra/llm/chatgpt"
)

const defaultAdvicePrompt = "You are a friendly personal weather assistant. Using the weather data below, write short personalized advice for the user with a few emojis."

var errEmptyAdvice = errors.New("language model returned no content")

type adviceGenerator struct {
	cfg    PromptConfig
	model  string
	client ChatClient
	logger *slog.Logger
}

// adviceResult is the outcome of one model call. A non-nil err means text is unusable.
type adviceResult struct {
	text string
	err  error
}

// orFallback resolves the result into displayable advice.
func (r adviceResult) orFallback(fallback func() string) string {
	if r.err != nil || strings.TrimSpace(r.text) == "" {
		return fallback()
	}
	return r.text
}

// Generate never fails; when the model is unavailable the templated fallback is returned.
func (g *adviceGenerator) Generate(ctx context.Context, weather NormalizedContext, query, location string) string {
	result := g.request(ctx, weather, query, location)
	if result.err != nil {
		g.logger.Warn("advice generation failed, using fallback", "error", result.err, "location", location)
	}
	return result.orFallback(func() string {
		return fallbackAdvice(weather, location)
	})
}

func (g *adviceGenerator) request(ctx context.Context, weather NormalizedContext, query, location string) adviceResult {
	resp, err := g.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       g.model,
		Messages:    []chatgpt.Message{{Role: "user", Content: g.buildPrompt(weather, query, location)}},
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		return adviceResult{err: err}
	}
	if usage := resp.Usage.TokenUsage(); !usage.IsZero() {
		g.logger.Debug("advice generation usage", usage.LogAttrs()...)
	}
	content := resp.FirstContent()
	if content == "" {
		return adviceResult{err: errEmptyAdvice}
	}
	return adviceResult{text: content}
}

func (g *adviceGenerator) buildPrompt(weather NormalizedContext, query, location string) string {
	base := strings.TrimSpace(g.cfg.Prompt)
	if base == "" {
		base = defaultAdvicePrompt
	}

	data, err := json.Marshal(weather)
	if err != nil {
		data = []byte("{}")
	}

	var b strings.Builder
	b.WriteString(base)
	fmt.Fprintf(&b, "\n\nUser question: %s\nLocation: %s\nWeather data: %s\n", query, location, data)
	b.WriteString("\nCover:\n- what to wear\n- suitable activities\n- health tips (sun, hydration, air, cold)\n- a short mood boost")
	if weather.ForecastSummary != nil {
		b.WriteString("\n- one line about tomorrow's outlook")
	}
	b.WriteString("\nKeep it concise and conversational.")
	return b.String()
}

// fallbackAdvice is built only from the current reading; it must never be empty.
func fallbackAdvice(weather NormalizedContext, location string) string {
	place := strings.TrimSpace(location)
	if place == "" {
		place = strings.TrimSpace(weather.Location)
	}
	if place == "" {
		place = "your area"
	}
	description := strings.TrimSpace(weather.Current.Description)
	if description == "" {
		description = strings.TrimSpace(weather.Current.Condition)
	}
	if description == "" {
		description = "current conditions"
	}
	return fmt.Sprintf(
		"🌤️ Weather in %s: %s, %s (feels like %s). Dress for the conditions and have a great day!",
		place, description, formatDegrees(weather.Current.Temperature), formatDegrees(weather.Current.FeelsLike),
	)
}

func formatDegrees(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "°C"
}

package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/weather-advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/weather-advisor/pkg/errors"
)

const defaultIntentPrompt = "You extract weather lookup intent from user questions. Identify the location name, its approximate latitude and longitude, and whether the user wants the current weather or a forecast."

// ParsedIntent is the success branch of intent parsing.
type ParsedIntent struct {
	Intent   Intent
	Warnings []string
}

type intentExtractor struct {
	cfg    PromptConfig
	model  string
	client ChatClient
	logger *slog.Logger
}

// Extract asks the model to interpret query and parses its reply.
func (e *intentExtractor) Extract(ctx context.Context, query string) (Intent, error) {
	resp, err := e.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       e.model,
		Messages:    []chatgpt.Message{{Role: "user", Content: e.buildPrompt(query)}},
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
	})
	if err != nil {
		return Intent{}, apperrors.Wrap(CodeInterpretation, "language model request failed", err)
	}
	if usage := resp.Usage.TokenUsage(); !usage.IsZero() {
		e.logger.Debug("intent extraction usage", usage.LogAttrs()...)
	}

	content := resp.FirstContent()
	if content == "" {
		return Intent{}, apperrors.Wrap(CodeInterpretation, "language model returned no content", nil)
	}

	parsed, err := parseIntent(content)
	if err != nil {
		e.logger.Warn("intent extraction failed", "error", err, "raw", extractionRaw(err))
		return Intent{}, apperrors.Wrap(CodeInterpretation, "could not interpret query", err)
	}
	for _, warning := range parsed.Warnings {
		e.logger.Warn("intent extraction warning", "warning", warning, "location", parsed.Intent.LocationName)
	}
	return parsed.Intent, nil
}

func (e *intentExtractor) buildPrompt(query string) string {
	base := strings.TrimSpace(e.cfg.Prompt)
	if base == "" {
		base = defaultIntentPrompt
	}
	enforcer := ` Respond ONLY with JSON using this shape: {"locationName":string,"latitude":number,"longitude":number,"requestType":"current"|"forecast"}. No prose, no code fences.`
	return fmt.Sprintf("%s%s\n\nUser question: %s", base, enforcer, query)
}

// parseIntent pulls the JSON object out of a free-text model reply. The object spans from the
// first '{' to the last '}' in text; braces are not balanced. A '}' that precedes every '{'
// makes the reply malformed rather than object-free.
func parseIntent(text string) (ParsedIntent, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 {
		return ParsedIntent{}, &ExtractionError{Reason: ReasonNoJSONObject, Raw: text}
	}
	if end < start {
		return ParsedIntent{}, &ExtractionError{Reason: ReasonMalformedJSON, Raw: text}
	}
	slice := text[start : end+1]

	var wire struct {
		LocationName json.RawMessage `json:"locationName"`
		Latitude     json.RawMessage `json:"latitude"`
		Longitude    json.RawMessage `json:"longitude"`
		RequestType  json.RawMessage `json:"requestType"`
	}
	if err := json.Unmarshal([]byte(slice), &wire); err != nil {
		return ParsedIntent{}, &ExtractionError{Reason: ReasonMalformedJSON, Raw: slice, Err: err}
	}

	var location string
	if err := json.Unmarshal(wire.LocationName, &location); err != nil || strings.TrimSpace(location) == "" {
		return ParsedIntent{}, &ExtractionError{Reason: ReasonMissingLocation, Raw: slice}
	}
	if isAbsent(wire.RequestType) {
		return ParsedIntent{}, &ExtractionError{Reason: ReasonMissingRequestType, Raw: slice}
	}

	result := ParsedIntent{
		Intent: Intent{
			LocationName: location,
			RequestType:  requestTypeFrom(wire.RequestType),
		},
	}
	lat, latOK := numberFrom(wire.Latitude)
	lon, lonOK := numberFrom(wire.Longitude)
	if latOK && lonOK {
		result.Intent.Latitude = &lat
		result.Intent.Longitude = &lon
	} else {
		result.Warnings = append(result.Warnings, "latitude/longitude not numeric, coordinates dropped")
	}
	return result, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

func numberFrom(raw json.RawMessage) (float64, bool) {
	if isAbsent(raw) {
		return 0, false
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, false
	}
	number, ok := value.(float64)
	return number, ok
}

// requestTypeFrom keeps unrecognised values as-is: strings are unquoted, anything else
// keeps its JSON text.
func requestTypeFrom(raw json.RawMessage) RequestType {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return RequestType(text)
	}
	return RequestType(strings.TrimSpace(string(raw)))
}

func extractionRaw(err error) string {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Raw
	}
	return ""
}

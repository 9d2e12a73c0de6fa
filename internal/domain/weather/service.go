package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/weather-advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/weather-advisor/pkg/errors"
	"github.com/yanqian/weather-advisor/pkg/metrics"
	"github.com/yanqian/weather-advisor/pkg/util"
)

// Service exposes the interpret, retrieve and explain pipeline.
type Service interface {
	Lookup(ctx context.Context, req Request) (Envelope, error)
	ForecastDays(ctx context.Context, latitude, longitude float64) (ForecastDays, error)
}

type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// WeatherClient retrieves raw provider payloads. Implementations reject nil or non-finite
// coordinates with ErrInvalidCoordinates.
type WeatherClient interface {
	Fetch(ctx context.Context, latitude, longitude *float64, requestType RequestType) (RawPayload, error)
}

type service struct {
	cfg       Config
	extractor *intentExtractor
	advisor   *adviceGenerator
	weather   WeatherClient
	counter   metrics.TokenCounter
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the weather domain.
func NewService(cfg Config, weatherClient WeatherClient, client ChatClient, counter metrics.TokenCounter, logger *slog.Logger) Service {
	logger = logger.With("component", "weather.service")
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &service{
		cfg: cfg,
		extractor: &intentExtractor{
			cfg:    cfg.Intent,
			model:  cfg.Model,
			client: client,
			logger: logger,
		},
		advisor: &adviceGenerator{
			cfg:    cfg.Advice,
			model:  cfg.Model,
			client: client,
			logger: logger,
		},
		weather: weatherClient,
		counter: counter,
		logger:  logger,
		now:     util.NowUTC,
	}
}

func (s *service) Lookup(ctx context.Context, req Request) (Envelope, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return Envelope{}, apperrors.Wrap(CodeInvalidInput, "query cannot be empty", nil)
	}
	if err := s.checkQueryLength(query); err != nil {
		return Envelope{}, err
	}

	intent, err := s.extractor.Extract(ctx, query)
	if err != nil {
		return Envelope{}, err
	}
	if !intent.HasCoordinates() {
		return Envelope{}, apperrors.Wrap(CodeInvalidInput, fmt.Sprintf("could not determine coordinates for %q", intent.LocationName), nil)
	}
	s.logger.Info("query interpreted", "location", intent.LocationName, "request_type", intent.RequestType)

	payload, err := s.weather.Fetch(ctx, intent.Latitude, intent.Longitude, intent.RequestType)
	if err != nil {
		return Envelope{}, apperrors.Wrap(CodeRetrieval, "failed to retrieve weather data", err)
	}
	s.logger.Info("weather data retrieved", "location", intent.LocationName, "shape", payload.Kind.String(), "entries", len(payload.Forecast))

	normalized := Normalize(payload, intent.LocationName)
	advice := s.advisor.Generate(ctx, normalized, query, intent.LocationName)

	return assemble(intent, payload, advice), nil
}

func (s *service) ForecastDays(ctx context.Context, latitude, longitude float64) (ForecastDays, error) {
	payload, err := s.weather.Fetch(ctx, &latitude, &longitude, RequestTypeForecast)
	if err != nil {
		return ForecastDays{}, apperrors.Wrap(CodeRetrieval, "failed to retrieve weather data", err)
	}
	entries := payload.Forecast
	if payload.Kind == PayloadCurrent && payload.Current != nil {
		entries = []Reading{*payload.Current}
	}
	return ForecastDays{
		OK:   true,
		Days: GroupByDay(entries, s.now(), s.cfg.Location),
	}, nil
}

func (s *service) checkQueryLength(query string) error {
	if s.cfg.MaxQueryTokens <= 0 || s.counter == nil {
		return nil
	}
	tokens := s.counter.Count(query)
	if tokens > s.cfg.MaxQueryTokens {
		s.logger.Warn("query rejected", "tokens", tokens, "limit", s.cfg.MaxQueryTokens)
		return apperrors.Wrap(CodeInvalidInput, fmt.Sprintf("query is too long (%d tokens, limit %d)", tokens, s.cfg.MaxQueryTokens), nil)
	}
	return nil
}

// assemble builds the success envelope; upstream stages have already enforced their contracts.
func assemble(intent Intent, payload RawPayload, advice string) Envelope {
	return Envelope{
		OK:             true,
		RequestDetails: intent,
		WeatherData:    payload,
		FriendlyAdvice: advice,
	}
}

package weatherapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/weather-advisor/internal/domain/weather"
)

const defaultAPIKeyHeader = "X-API-Key"

// Client fetches current and forecast payloads from the weather provider.
type Client struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	httpClient   *http.Client
}

// NewClient builds a provider client. Requests carry no client side deadline and are never retried.
func NewClient(baseURL, apiKey, apiKeyHeader string) *Client {
	header := strings.TrimSpace(apiKeyHeader)
	if header == "" {
		header = defaultAPIKeyHeader
	}
	return &Client{
		baseURL:      strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:       apiKey,
		apiKeyHeader: header,
		httpClient:   &http.Client{},
	}
}

// Fetch calls the forecast endpoint for forecast requests and the current endpoint otherwise.
func (c *Client) Fetch(ctx context.Context, latitude, longitude *float64, requestType weather.RequestType) (weather.RawPayload, error) {
	if !validCoordinate(latitude) || !validCoordinate(longitude) {
		return weather.RawPayload{}, weather.ErrInvalidCoordinates
	}

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(*latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(*longitude, 'f', -1, 64))
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, endpointFor(requestType), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return weather.RawPayload{}, fmt.Errorf("build weather request: %w", err)
	}
	req.Header.Set(c.apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.RawPayload{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.RawPayload{}, fmt.Errorf("read weather response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return weather.RawPayload{}, statusError(resp.StatusCode, body)
	}

	payload, envelope, err := weather.DecodePayload(body)
	if err != nil {
		if envelope.Failed() {
			return weather.RawPayload{}, providerError(envelope.Message, resp.StatusCode)
		}
		return weather.RawPayload{}, err
	}
	if envelope.Failed() {
		return weather.RawPayload{}, providerError(envelope.Message, resp.StatusCode)
	}
	return payload, nil
}

func endpointFor(requestType weather.RequestType) string {
	if requestType == weather.RequestTypeForecast {
		return "forecast"
	}
	return "weather"
}

func validCoordinate(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// statusError prefers the provider's own message and falls back to the status code.
func statusError(status int, body []byte) error {
	_, envelope, _ := weather.DecodePayload(body)
	return providerError(envelope.Message, status)
}

func providerError(message string, status int) error {
	if msg := strings.TrimSpace(message); msg != "" {
		return errors.New(msg)
	}
	return fmt.Errorf("weather provider request failed: status=%d", status)
}

var _ weather.WeatherClient = (*Client)(nil)

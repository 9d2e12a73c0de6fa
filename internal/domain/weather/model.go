package weather

import "time"

// RequestType tells the retriever which provider endpoint to call.
type RequestType string

const (
	RequestTypeCurrent  RequestType = "current"
	RequestTypeForecast RequestType = "forecast"
)

// Request is the payload accepted by the weather info endpoint.
type Request struct {
	Query string `json:"query"`
}

// Intent is the structured interpretation of a free-text query.
// Latitude and Longitude are either both set or both nil.
type Intent struct {
	LocationName string      `json:"locationName"`
	Latitude     *float64    `json:"latitude"`
	Longitude    *float64    `json:"longitude"`
	RequestType  RequestType `json:"requestType"`
}

// HasCoordinates reports whether both coordinates were resolved.
func (i Intent) HasCoordinates() bool {
	return i.Latitude != nil && i.Longitude != nil
}

// Envelope is the success response returned to API consumers.
type Envelope struct {
	OK             bool       `json:"ok"`
	RequestDetails Intent     `json:"requestDetails"`
	WeatherData    RawPayload `json:"weatherData"`
	FriendlyAdvice string     `json:"friendlyAdvice"`
}

// Reading is a single provider weather record, either the current observation or one forecast slot.
type Reading struct {
	Temperature   *float64 `json:"temperature,omitempty"`
	Temp          *float64 `json:"temp,omitempty"`
	FeelsLike     *float64 `json:"feelsLike,omitempty"`
	TempMin       *float64 `json:"tempMin,omitempty"`
	TempMax       *float64 `json:"tempMax,omitempty"`
	Humidity      *float64 `json:"humidity,omitempty"`
	WindSpeed     *float64 `json:"windSpeed,omitempty"`
	Condition     string   `json:"condition,omitempty"`
	ConditionCode *int     `json:"conditionCode,omitempty"`
	Description   string   `json:"description,omitempty"`
	Icon          string   `json:"icon,omitempty"`
	Timestamp     int64    `json:"timestamp"`
	UV            *float64 `json:"uv,omitempty"`
	Precipitation *float64 `json:"precipitation,omitempty"`
}

// TemperatureValue prefers temperature and falls back to temp.
func (r Reading) TemperatureValue() *float64 {
	if r.Temperature != nil {
		return r.Temperature
	}
	return r.Temp
}

// NormalizedContext is the shape-independent weather summary handed to advice generation.
type NormalizedContext struct {
	Location        string            `json:"location"`
	Current         CurrentConditions `json:"current"`
	ForecastSummary *ForecastSummary  `json:"forecastSummary,omitempty"`
}

// CurrentConditions describes the reading treated as "now".
type CurrentConditions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	FeelsLike   *float64 `json:"feelsLike,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	Description string   `json:"description,omitempty"`
	WindSpeed   *float64 `json:"windSpeed,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	UVIndex     float64  `json:"uvIndex"`
	IsDay       bool     `json:"isDay"`
}

// ForecastSummary describes tomorrow's outlook.
type ForecastSummary struct {
	Condition   string   `json:"condition,omitempty"`
	Description string   `json:"description,omitempty"`
	TempMin     *float64 `json:"tempMin,omitempty"`
	TempMax     *float64 `json:"tempMax,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
}

// DayGroup is one calendar day bucket of forecast entries.
type DayGroup struct {
	Label   string    `json:"label"`
	Entries []Reading `json:"entries"`
}

// ForecastDays is returned by the forecast grouping endpoint.
type ForecastDays struct {
	OK   bool       `json:"ok"`
	Days []DayGroup `json:"days"`
}

// PromptConfig tunes one language-model call.
type PromptConfig struct {
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Config wires runtime settings for the weather domain.
type Config struct {
	Model          string
	Intent         PromptConfig
	Advice         PromptConfig
	MaxQueryTokens int
	Location       *time.Location
}

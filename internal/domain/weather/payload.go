package weather

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// PayloadKind discriminates the two provider payload shapes.
type PayloadKind int

const (
	// PayloadCurrent carries a single object in data.
	PayloadCurrent PayloadKind = iota
	// PayloadForecast carries an array of entries in data.
	PayloadForecast
)

func (k PayloadKind) String() string {
	if k == PayloadForecast {
		return "forecast"
	}
	return "current"
}

// RawPayload is the provider response. Exactly one of Current or Forecast is meaningful,
// selected by Kind. Data keeps the provider bytes so the payload can be exposed unmodified.
type RawPayload struct {
	OK       bool
	Kind     PayloadKind
	Current  *Reading
	Forecast []Reading
	Data     json.RawMessage
}

// MarshalJSON re-emits the provider shape {"ok":...,"data":...}.
func (p RawPayload) MarshalJSON() ([]byte, error) {
	data := p.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return json.Marshal(struct {
		OK   bool            `json:"ok"`
		Data json.RawMessage `json:"data"`
	}{OK: p.OK, Data: data})
}

// ProviderResponse is the provider envelope before data is discriminated.
type ProviderResponse struct {
	OK      *bool           `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Failed reports whether the provider explicitly marked the response as unsuccessful.
func (r ProviderResponse) Failed() bool {
	return r.OK != nil && !*r.OK
}

// DecodePayload parses a provider body and discriminates the data shape.
func DecodePayload(body []byte) (RawPayload, ProviderResponse, error) {
	var envelope ProviderResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return RawPayload{}, ProviderResponse{}, fmt.Errorf("decode weather payload: %w", err)
	}
	payload, err := payloadFromData(envelope.Data)
	if err != nil {
		return RawPayload{}, envelope, err
	}
	payload.OK = envelope.OK == nil || *envelope.OK
	return payload, envelope, nil
}

func payloadFromData(data json.RawMessage) (RawPayload, error) {
	trimmed := bytes.TrimSpace(data)
	payload := RawPayload{Kind: PayloadCurrent, Data: append(json.RawMessage(nil), trimmed...)}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return payload, nil
	}

	switch trimmed[0] {
	case '[':
		var entries []Reading
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return RawPayload{}, fmt.Errorf("decode forecast entries: %w", err)
		}
		payload.Kind = PayloadForecast
		payload.Forecast = entries
	case '{':
		var reading Reading
		if err := json.Unmarshal(trimmed, &reading); err != nil {
			return RawPayload{}, fmt.Errorf("decode current reading: %w", err)
		}
		payload.Current = &reading
	default:
		return RawPayload{}, errors.New("weather data is neither an object nor an array")
	}
	return payload, nil
}

// UnmarshalJSON decodes a provider record leniently: a field whose JSON type does not fit is
// treated as absent, and a record that is not an object decodes to the zero Reading.
func (r *Reading) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		*r = Reading{}
		return nil
	}
	*r = Reading{
		Temperature:   floatField(fields, "temperature"),
		Temp:          floatField(fields, "temp"),
		FeelsLike:     floatField(fields, "feelsLike"),
		TempMin:       floatField(fields, "tempMin"),
		TempMax:       floatField(fields, "tempMax"),
		Humidity:      floatField(fields, "humidity"),
		WindSpeed:     floatField(fields, "windSpeed"),
		Condition:     stringField(fields, "condition"),
		ConditionCode: intField(fields, "conditionCode"),
		Description:   stringField(fields, "description"),
		Icon:          stringField(fields, "icon"),
		UV:            floatField(fields, "uv"),
		Precipitation: floatField(fields, "precipitation"),
	}
	if ts, ok := numberFrom(fields["timestamp"]); ok {
		r.Timestamp = int64(ts)
	}
	return nil
}

func floatField(fields map[string]json.RawMessage, key string) *float64 {
	v, ok := numberFrom(fields[key])
	if !ok {
		return nil
	}
	return &v
}

func intField(fields map[string]json.RawMessage, key string) *int {
	v, ok := numberFrom(fields[key])
	if !ok || v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
		return nil
	}
	n := int(v)
	return &n
}

func stringField(fields map[string]json.RawMessage, key string) string {
	var text string
	if err := json.Unmarshal(fields[key], &text); err != nil {
		return ""
	}
	return text
}

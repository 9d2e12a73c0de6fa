package weather

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/weather-advisor/pkg/errors"
)

func TestParseIntentEmbeddedInProse(t *testing.T) {
	text := `Sure! {"locationName":"Paris","latitude":48.85,"longitude":2.35,"requestType":"current"} Hope that helps!`

	parsed, err := parseIntent(text)
	require.NoError(t, err)
	require.Empty(t, parsed.Warnings)
	require.Equal(t, Intent{
		LocationName: "Paris",
		Latitude:     floatPtr(48.85),
		Longitude:    floatPtr(2.35),
		RequestType:  RequestTypeCurrent,
	}, parsed.Intent)
}

func TestParseIntentFailures(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantReason string
		wantRaw    string
	}{
		{
			name:       "no braces",
			text:       "I could not find that place.",
			wantReason: ReasonNoJSONObject,
			wantRaw:    "I could not find that place.",
		},
		{
			name:       "closing brace before opening brace",
			text:       "} nothing here {",
			wantReason: ReasonMalformedJSON,
			wantRaw:    "} nothing here {",
		},
		{
			name:       "only an opening brace",
			text:       "location { unknown",
			wantReason: ReasonNoJSONObject,
			wantRaw:    "location { unknown",
		},
		{
			name:       "malformed slice",
			text:       "result: {locationName: Paris}",
			wantReason: ReasonMalformedJSON,
			wantRaw:    "{locationName: Paris}",
		},
		{
			name:       "first and last brace span two objects",
			text:       `{"locationName":"Oslo"} or {"locationName":"Bergen"}`,
			wantReason: ReasonMalformedJSON,
			wantRaw:    `{"locationName":"Oslo"} or {"locationName":"Bergen"}`,
		},
		{
			name:       "missing location",
			text:       `{"latitude":1,"longitude":2,"requestType":"current"}`,
			wantReason: ReasonMissingLocation,
		},
		{
			name:       "blank location",
			text:       `{"locationName":"  ","latitude":1,"longitude":2,"requestType":"current"}`,
			wantReason: ReasonMissingLocation,
		},
		{
			name:       "missing request type",
			text:       `{"locationName":"Lima","latitude":-12.05,"longitude":-77.04}`,
			wantReason: ReasonMissingRequestType,
		},
		{
			name:       "null request type",
			text:       `{"locationName":"Lima","latitude":-12.05,"longitude":-77.04,"requestType":null}`,
			wantReason: ReasonMissingRequestType,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseIntent(tt.text)
			var extractionErr *ExtractionError
			require.ErrorAs(t, err, &extractionErr)
			require.Equal(t, tt.wantReason, extractionErr.Reason)
			if tt.wantRaw != "" {
				require.Equal(t, tt.wantRaw, extractionErr.Raw)
			}
		})
	}
}

func TestParseIntentDropsBothCoordinatesWhenOneIsInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "string latitude", text: `{"locationName":"Tokyo","latitude":"35.68","longitude":139.69,"requestType":"forecast"}`},
		{name: "null longitude", text: `{"locationName":"Tokyo","latitude":35.68,"longitude":null,"requestType":"forecast"}`},
		{name: "missing both", text: `{"locationName":"Tokyo","requestType":"forecast"}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			parsed, err := parseIntent(tt.text)
			require.NoError(t, err)
			require.Equal(t, "Tokyo", parsed.Intent.LocationName)
			require.Nil(t, parsed.Intent.Latitude)
			require.Nil(t, parsed.Intent.Longitude)
			require.False(t, parsed.Intent.HasCoordinates())
			require.Len(t, parsed.Warnings, 1)
		})
	}
}

func TestParseIntentPassesThroughUnknownRequestType(t *testing.T) {
	parsed, err := parseIntent(`{"locationName":"Nairobi","latitude":-1.29,"longitude":36.82,"requestType":"hourly"}`)
	require.NoError(t, err)
	require.Equal(t, RequestType("hourly"), parsed.Intent.RequestType)

	parsed, err = parseIntent(`{"locationName":"Nairobi","latitude":-1.29,"longitude":36.82,"requestType":3}`)
	require.NoError(t, err)
	require.Equal(t, RequestType("3"), parsed.Intent.RequestType)
}

func TestIntentExtractorWrapsFailures(t *testing.T) {
	tests := []struct {
		name  string
		reply stubReply
	}{
		{name: "transport error", reply: stubReply{err: errors.New("connection refused")}},
		{name: "no choices", reply: stubReply{}},
		{name: "blank content", reply: stubReply{resp: completion("   ")}},
		{name: "no json", reply: stubReply{resp: completion("Paris is lovely this time of year.")}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			extractor := &intentExtractor{
				cfg:    PromptConfig{Temperature: 0.1, MaxTokens: 150},
				model:  "gpt-test",
				client: &stubChatClient{replies: []stubReply{tt.reply}},
				logger: newTestLogger(),
			}
			_, err := extractor.Extract(context.Background(), "weather in paris")
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, CodeInterpretation))
		})
	}
}

func TestIntentExtractorRequestShape(t *testing.T) {
	chat := &stubChatClient{replies: []stubReply{{resp: completion(`{"locationName":"Paris","latitude":48.85,"longitude":2.35,"requestType":"current"}`)}}}
	extractor := &intentExtractor{
		cfg:    PromptConfig{Prompt: "Extract intent.", Temperature: 0.1, MaxTokens: 150},
		model:  "gpt-test",
		client: chat,
		logger: newTestLogger(),
	}

	intent, err := extractor.Extract(context.Background(), "is it raining in paris?")
	require.NoError(t, err)
	require.Equal(t, "Paris", intent.LocationName)

	require.Len(t, chat.requests, 1)
	req := chat.requests[0]
	require.Equal(t, "gpt-test", req.Model)
	require.Equal(t, float32(0.1), req.Temperature)
	require.Equal(t, 150, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	require.Equal(t, "user", req.Messages[0].Role)
	require.Contains(t, req.Messages[0].Content, "Extract intent.")
	require.Contains(t, req.Messages[0].Content, "is it raining in paris?")
	require.Contains(t, req.Messages[0].Content, "Respond ONLY with JSON")
}

func TestIntentPromptFallsBackToBuiltIn(t *testing.T) {
	blank := &intentExtractor{cfg: PromptConfig{Prompt: "  "}}
	prompt := blank.buildPrompt("rain in Quito?")
	require.True(t, strings.HasPrefix(prompt, defaultIntentPrompt))
	require.Contains(t, prompt, "User question: rain in Quito?")

	custom := &intentExtractor{cfg: PromptConfig{Prompt: "Find the place."}}
	require.True(t, strings.HasPrefix(custom.buildPrompt("x"), "Find the place."))
}

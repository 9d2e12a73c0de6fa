package weather

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-advisor/internal/infra/llm/chatgpt"
)

type stubReply struct {
	resp chatgpt.ChatCompletionResponse
	err  error
}

type stubChatClient struct {
	replies  []stubReply
	requests []chatgpt.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	idx := len(s.requests) - 1
	if idx >= len(s.replies) {
		return chatgpt.ChatCompletionResponse{}, nil
	}
	return s.replies[idx].resp, s.replies[idx].err
}

type stubWeatherClient struct {
	payload     RawPayload
	err         error
	calls       int
	lastLat     *float64
	lastLon     *float64
	lastRequest RequestType
}

func (s *stubWeatherClient) Fetch(ctx context.Context, latitude, longitude *float64, requestType RequestType) (RawPayload, error) {
	s.calls++
	s.lastLat = latitude
	s.lastLon = longitude
	s.lastRequest = requestType
	if s.err != nil {
		return RawPayload{}, s.err
	}
	return s.payload, nil
}

func completion(content string) chatgpt.ChatCompletionResponse {
	return chatgpt.ChatCompletionResponse{
		Choices: []chatgpt.Choice{{Message: chatgpt.Message{Role: "assistant", Content: content}}},
	}
}

func mustDecode(t *testing.T, body string) RawPayload {
	t.Helper()
	payload, _, err := DecodePayload([]byte(body))
	require.NoError(t, err)
	return payload
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func floatPtr(v float64) *float64 {
	return &v
}

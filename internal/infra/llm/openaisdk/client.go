package openaisdk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/yanqian/weather-advisor/internal/infra/llm/chatgpt"
)

// Client serves chat completions through the official OpenAI SDK.
type Client struct {
	client openai.Client
}

// NewClient builds an SDK backed client. The SDK's built-in retries are switched off so every
// completion is attempted exactly once.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key cannot be empty")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(baseURL); base != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(base, "/")+"/"))
	}
	return &Client{client: openai.NewClient(opts...)}, nil
}

// CreateChatCompletion maps the request onto the SDK and the reply back onto the wire types.
func (c *Client) CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	completion, err := c.client.Chat.Completions.New(ctx, newParams(req))
	if err != nil {
		return chatgpt.ChatCompletionResponse{}, fmt.Errorf("openai chat completion: %w", err)
	}

	out := chatgpt.ChatCompletionResponse{
		Usage: chatgpt.Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}
	for _, choice := range completion.Choices {
		out.Choices = append(out.Choices, chatgpt.Choice{
			Message: chatgpt.Message{Role: "assistant", Content: choice.Message.Content},
		})
	}
	return out, nil
}

func newParams(req chatgpt.ChatCompletionRequest) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: req.Model,
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}
	params.Temperature = openai.Float(float64(req.Temperature))
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	return params
}

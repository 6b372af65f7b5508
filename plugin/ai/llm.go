package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/zqn-cloud/jarvis/internal/observability"
)

var (
	// ErrLLMUnavailable marks transport and API failures of the LLM provider.
	ErrLLMUnavailable = errors.New("LLM 调用失败")
	// ErrInvalidJSON marks completions that are not a JSON object.
	ErrInvalidJSON = errors.New("LLM JSON 解析失败")
)

// JSONCompleter sends a single prompt and returns the decoded JSON object.
// The result is untrusted: every field may be absent, null or out of domain.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, prompt string) (map[string]any, error)
}

// InvalidJSONError carries the raw completion that failed to decode.
type InvalidJSONError struct {
	Content string
	Err     error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidJSON, e.Content)
}

// Is lets errors.Is(err, ErrInvalidJSON) match.
func (e *InvalidJSONError) Is(target error) bool {
	return target == ErrInvalidJSON
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Err
}

// chatClient is the subset of *openai.Client used here.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type llmService struct {
	client      chatClient
	model       string
	temperature float32
}

// NewLLMService creates a JSONCompleter backed by an OpenAI-compatible endpoint.
func NewLLMService(cfg *LLMConfig) (JSONCompleter, error) {
	if cfg == nil {
		return nil, errors.New("LLM config is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("LLM model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &llmService{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// CompleteJSON asks for a json_object response. It does not retry.
func (s *llmService) CompleteJSON(ctx context.Context, prompt string) (map[string]any, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: s.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLLMUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty chat response", ErrLLMUnavailable)
	}

	content := resp.Choices[0].Message.Content
	out, err := DecodeJSONObject(content)
	if err != nil {
		observability.Logger(ctx).Warn("LLM returned non-JSON content", "model", s.model, "error", err)
		return nil, err
	}
	return out, nil
}

// DecodeJSONObject decodes content that must be a single JSON object.
// Arrays, scalars and null are rejected.
func DecodeJSONObject(content string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &out); err != nil {
		return nil, &InvalidJSONError{Content: content, Err: err}
	}
	if out == nil {
		return nil, &InvalidJSONError{Content: content, Err: errors.New("not a JSON object")}
	}
	return out, nil
}

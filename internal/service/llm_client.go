package service

import (
	"braingain_backend/internal/config"
	"braingain_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// ChatRequest 单轮对话请求，要求模型返回 JSON 对象
type ChatRequest struct {
	System           string
	Prompt           string
	Temperature      float32
	FrequencyPenalty float32
	PresencePenalty  float32
}

// ChatClient 大模型调用接口，返回原始文本
type ChatClient interface {
	CompleteJSON(ctx context.Context, req ChatRequest) (string, error)
}

// RateLimitError 上游返回 429
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string { return fmt.Sprintf("llm rate limited: %v", e.Err) }

func (e *RateLimitError) Unwrap() error { return e.Err }

// ProviderUnavailableError 上游不可达或返回 5xx
type ProviderUnavailableError struct {
	Err error
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("llm provider unavailable: %v", e.Err)
}

func (e *ProviderUnavailableError) Unwrap() error { return e.Err }

// NewChatClient 按配置创建客户端，未配置密钥时返回 nil，测验生成将不可用
func NewChatClient(ctx context.Context, cfg config.AIConfig) (ChatClient, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			logger.Log.Warn("GEMINI_API_KEY is not set, quiz generation is disabled")
			return nil, nil
		}
		client, err := NewGeminiChatClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		if cfg.APIKey == "" {
			logger.Log.Warn("OPENAI_API_KEY is not set, quiz generation is disabled")
			return nil, nil
		}
		return NewOpenAIChatClient(cfg), nil
	}
}

// OpenAIChatClient 兼容 OpenAI 协议的服务均可通过 BaseURL 接入
type OpenAIChatClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIChatClient(cfg config.AIConfig) *OpenAIChatClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIChatClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

func (c *OpenAIChatClient) CompleteJSON(ctx context.Context, req ChatRequest) (string, error) {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            c.model,
		Messages:         messages,
		Temperature:      req.Temperature,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty completion content")
	}
	return content, nil
}

func mapOpenAIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Err: err}
	}
	return &ProviderUnavailableError{Err: err}
}

type GeminiChatClient struct {
	client *genai.Client
	model  string
}

func NewGeminiChatClient(ctx context.Context, cfg config.AIConfig) (*GeminiChatClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	model := cfg.Model
	if !strings.HasPrefix(model, "gemini") {
		model = defaultGeminiModel
	}
	return &GeminiChatClient{client: client, model: model}, nil
}

func (c *GeminiChatClient) CompleteJSON(ctx context.Context, req ChatRequest) (string, error) {
	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(req.Temperature)
	m.ResponseMIMEType = "application/json"
	if req.System != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", &ProviderUnavailableError{Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no candidates in Gemini response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", errors.New("empty Gemini response")
	}
	return content, nil
}

func (c *GeminiChatClient) Close() error {
	return c.client.Close()
}

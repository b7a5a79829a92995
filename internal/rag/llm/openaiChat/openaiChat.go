package openaiChat

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/customHttpClient"
	"github.com/akolanti/DocSearch/internal/rag/llm"
	"github.com/akolanti/DocSearch/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var clientInstance *openai.Client
var once sync.Once

type ChatHolder struct {
	client *openai.Client
}

// GetChatClient returns the shared OpenAI chat provider, or nil when no
// API key is configured.
func GetChatClient(ctx context.Context) *ChatHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("OpenAIChat")
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY not set, chat completions unavailable")
			return
		}
		client := openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithHTTPClient(customHttpClient.PooledClient()),
		)
		clientInstance = &client
	})

	if clientInstance == nil {
		return nil
	}
	return &ChatHolder{client: clientInstance}
}

func (c *ChatHolder) Complete(ctx context.Context, req llm.Request) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       openai.ChatModel(config.ChatModel),
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("chat completion failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

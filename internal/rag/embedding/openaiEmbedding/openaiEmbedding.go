package openaiEmbedding

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/customHttpClient"
	"github.com/akolanti/DocSearch/internal/rag/embedding"
	"github.com/akolanti/DocSearch/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var clientInstance *openai.Client
var once sync.Once

type EmbeddingHolder struct {
	client *openai.Client
}

// GetEmbeddingClient returns the shared OpenAI embedder, or nil when no
// API key is configured. Callers substitute embedding.Disabled then.
func GetEmbeddingClient(ctx context.Context) *EmbeddingHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("OpenAIEmbedding")
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY not set, embeddings unavailable")
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
	return &EmbeddingHolder{client: clientInstance}
}

func (e *EmbeddingHolder) Dimension() int {
	return config.EmbeddingOutputDimensionality
}

// GetEmbedding embeds text for storage or querying. Input is flattened
// to a single line and capped before the call; failures degrade to a
// zero vector so ingestion never stalls on the embedding service.
func (e *EmbeddingHolder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if cleaned == "" {
		logger.Warn("empty embedding input, returning zero vector")
		return embedding.ZeroVector(e.Dimension()), nil
	}
	if len(cleaned) > config.EmbeddingInputCharLimit {
		cleaned = cleaned[:config.EmbeddingInputCharLimit]
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfString: openai.String(cleaned)},
		Model:      openai.EmbeddingModel(config.EmbeddingModel),
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		logger.Error("embedding request failed", "error", err)
		return embedding.ZeroVector(e.Dimension()), err
	}
	if len(resp.Data) == 0 {
		logger.Error("embedding response contained no data")
		return embedding.ZeroVector(e.Dimension()), nil
	}

	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

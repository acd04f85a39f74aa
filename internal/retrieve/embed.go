package retrieve

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/veridict/veridict/internal/model"
)

// Embedder turns texts into embedding vectors for semantic scoring
type Embedder struct {
	client *openai.Client
	model  string
}

// NewEmbedder creates an embeddings client. Returns an error when the
// config cannot produce a working client.
func NewEmbedder(cfg model.EmbeddingsConfig) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embeddings API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	embeddingModel := cfg.Model
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}

	return &Embedder{
		client: openai.NewClientWithConfig(clientConfig),
		model:  embeddingModel,
	}, nil
}

// Embed returns one vector per input text, in input order
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response size mismatch: got %d, want %d", len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("embeddings response index out of range: %d", item.Index)
		}
		vector := make([]float64, len(item.Embedding))
		for i, v := range item.Embedding {
			vector[i] = float64(v)
		}
		vectors[item.Index] = vector
	}
	return vectors, nil
}

package types

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/xhad/journey/internal/models"
)

// Core interfaces
type Completer interface {
	Complete(ctx context.Context, messages []models.Message) (string, error)
}

// Generator takes langchaingo message content, as produced by prompt templates.
type Generator interface {
	Generate(ctx context.Context, content []llms.MessageContent, options ...llms.CallOption) (string, error)
}

type VectorStore interface {
	Store(ctx context.Context, docs []models.EmbeddedDocument) error
	Query(ctx context.Context, embedding []float32, limit int) ([]models.ScoredDocument, error)
	Close()
}

// Embedder matches langchaingo's embeddings.Embedder.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

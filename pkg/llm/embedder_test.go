package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/journey/internal/llmtest"
	"github.com/xhad/journey/pkg/llm"
)

func TestNewEmbedderWithConfig(t *testing.T) {
	emb, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{})
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", emb.Config.Model)
	assert.Equal(t, "http://localhost:11434", emb.Config.BaseURL)
}

func TestEmbedDocuments(t *testing.T) {
	emb, err := llm.NewEmbedderWithClient(&llmtest.Embedder{Dim: 32}, llm.EmbedderConfig{})
	require.NoError(t, err)

	docs := []string{"This is the first chunk.", "And this is the second chunk.", "Its third chunk."}

	vectors, err := emb.EmbedDocuments(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, vectors, len(docs))
	for i := range vectors {
		assert.Len(t, vectors[i], 32)
	}

	query, err := emb.EmbedQuery(context.Background(), "first chunk")
	require.NoError(t, err)
	assert.Len(t, query, 32)
}

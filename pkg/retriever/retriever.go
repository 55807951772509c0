// Package retriever answers "which documents mean the same thing as this
// query" by embedding both and ranking with cosine similarity.
package retriever

import (
	"context"
	"fmt"

	"github.com/xhad/journey/internal/models"
	"github.com/xhad/journey/internal/types"
)

const DefaultResults = 3

type Index struct {
	embedder types.Embedder
	store    types.VectorStore
	count    int
}

func NewIndex(embedder types.Embedder, store types.VectorStore) *Index {
	return &Index{embedder: embedder, store: store}
}

// Add embeds docs in one call and stores them. The embedder must return
// exactly one vector per document.
func (ix *Index) Add(ctx context.Context, docs []string) error {
	if len(docs) == 0 {
		return nil
	}

	vectors, err := ix.embedder.EmbedDocuments(ctx, docs)
	if err != nil {
		return err
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	embedded := make([]models.EmbeddedDocument, len(docs))
	for i, content := range docs {
		embedded[i] = models.EmbeddedDocument{
			Document: models.Document{
				ID:       fmt.Sprintf("doc_%d", ix.count+i),
				Content:  content,
				Metadata: map[string]interface{}{"position": ix.count + i},
			},
			Embedding: vectors[i],
		}
	}

	if err := ix.store.Store(ctx, embedded); err != nil {
		return fmt.Errorf("failed to store documents: %w", err)
	}
	ix.count += len(docs)
	return nil
}

// Len is the number of documents added through this index.
func (ix *Index) Len() int {
	return ix.count
}

// Search returns the n documents closest to query.
func (ix *Index) Search(ctx context.Context, query string, n int) ([]models.ScoredDocument, error) {
	if n <= 0 {
		n = DefaultResults
	}

	vector, err := ix.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	return ix.store.Query(ctx, vector, n)
}

package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/xhad/journey/internal/models"
)

// MemoryStore keeps embedded documents in process memory. It is rebuilt on
// every start.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []models.EmbeddedDocument
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) Store(_ context.Context, docs []models.EmbeddedDocument) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if len(docs) == 0 {
		return nil
	}

	dim := len(docs[0].Embedding)
	if len(ms.docs) > 0 {
		dim = len(ms.docs[0].Embedding)
	}
	// A batch is stored whole or not at all.
	for _, doc := range docs {
		if len(doc.Embedding) != dim {
			return fmt.Errorf("embedding dimension %d does not match store dimension %d", len(doc.Embedding), dim)
		}
	}

	ms.docs = append(ms.docs, docs...)
	return nil
}

// Query returns the limit most similar documents, or all of them when the
// store holds fewer.
func (ms *MemoryStore) Query(_ context.Context, queryEmbedding []float32, limit int) ([]models.ScoredDocument, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return Rank(queryEmbedding, ms.docs, limit), nil
}

func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.docs)
}

func (ms *MemoryStore) Close() {}

// Rank orders docs by cosine similarity to query. Equal scores are ordered
// by content, so the result does not depend on the order of docs.
func Rank(query []float32, docs []models.EmbeddedDocument, limit int) []models.ScoredDocument {
	results := make([]models.ScoredDocument, 0, len(docs))
	for _, doc := range docs {
		results = append(results, models.ScoredDocument{
			Document: doc.Document,
			Score:    CosineSimilarity(query, doc.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Content < results[j].Content
	})

	if limit >= 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}

// CosineSimilarity returns the cosine of the angle between a and b. A small
// epsilon keeps zero vectors from dividing by zero.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	return float32(dot / (math.Sqrt(normA)*math.Sqrt(normB) + 1e-10))
}

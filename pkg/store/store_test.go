package store

import (
	"context"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/journey/internal/models"
	"github.com/xhad/journey/internal/types"
)

var (
	_ types.VectorStore = (*MemoryStore)(nil)
	_ types.VectorStore = (*PGVectorStore)(nil)
)

func doc(content string, vec ...float32) models.EmbeddedDocument {
	return models.EmbeddedDocument{
		Document:  models.Document{ID: content, Content: content},
		Embedding: vec,
	}
}

func contents(results []models.ScoredDocument) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Content
	}
	return out
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Equal(t, float32(0), CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, float32(0), CosineSimilarity([]float32{1}, []float32{1, 1}))
}

func TestRank_OrderInvariant(t *testing.T) {
	docs := []models.EmbeddedDocument{
		doc("east", 1, 0),
		doc("north", 0, 1),
		doc("north-east", 1, 1),
		doc("also east", 2, 0),
		doc("west", -1, 0),
	}
	query := []float32{1, 0.1}

	want := contents(Rank(query, docs, 3))
	assert.Equal(t, []string{"also east", "east", "north-east"}, want)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]models.EmbeddedDocument(nil), docs...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, contents(Rank(query, shuffled, 3)))
	}
}

func TestRank_ExactCount(t *testing.T) {
	docs := []models.EmbeddedDocument{doc("a", 1), doc("b", 2), doc("c", 3), doc("d", -1)}

	for n := 0; n <= len(docs); n++ {
		assert.Len(t, Rank([]float32{1}, docs, n), n)
	}
	assert.Len(t, Rank([]float32{1}, docs, 10), len(docs))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()

	require.NoError(t, ms.Store(ctx, []models.EmbeddedDocument{doc("a", 1, 0), doc("b", 0, 1)}))
	assert.Equal(t, 2, ms.Len())

	err := ms.Store(ctx, []models.EmbeddedDocument{doc("c", 1, 0, 0)})
	assert.Error(t, err)

	results, err := ms.Query(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Content)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestMemoryStore_RejectsMixedBatch(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		seed   []models.EmbeddedDocument
		batch  []models.EmbeddedDocument
		before int
	}{
		{
			name:  "empty store",
			batch: []models.EmbeddedDocument{doc("a", 1, 0), doc("b", 1, 0, 0)},
		},
		{
			name:   "seeded store",
			seed:   []models.EmbeddedDocument{doc("a", 1, 0), doc("b", 0, 1)},
			batch:  []models.EmbeddedDocument{doc("c", 1, 1), doc("d", 1, 1, 1)},
			before: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := NewMemoryStore()
			require.NoError(t, ms.Store(ctx, tt.seed))

			err := ms.Store(ctx, tt.batch)
			require.Error(t, err)
			assert.Equal(t, tt.before, ms.Len())
		})
	}
}

func TestSanitizeUTF8(t *testing.T) {
	assert.Equal(t, "hello", sanitizeUTF8("hello"))
	assert.Equal(t, "héllo", sanitizeUTF8("héllo"))
	assert.Equal(t, "ab", sanitizeUTF8("a\xffb"))
}

func TestNewWithConfig_RejectsTableName(t *testing.T) {
	_, err := NewWithConfig(context.Background(), VectorStoreConfig{TableName: "docs; DROP TABLE x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestPGVectorStore(t *testing.T) {
	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := NewWithConfig(ctx, VectorStoreConfig{
		ConnString: connString,
		TableName:  "test_documents",
		VectorDim:  3,
		BatchSize:  2,
	})
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Reset(ctx))

	docs := []models.EmbeddedDocument{
		doc("groq", 1, 0, 0),
		doc("rag", 0, 1, 0),
		doc("agents", 0, 0, 1),
	}
	docs[0].Metadata = map[string]interface{}{"source": "test"}
	require.NoError(t, s.Store(ctx, docs))

	results, err := s.Query(ctx, []float32{0.1, 1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "rag", results[0].Content)

	err = s.Store(ctx, []models.EmbeddedDocument{doc("bad", 1, 2)})
	assert.Error(t, err)
}

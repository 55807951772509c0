package tools_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/xhad/journey/pkg/tools"
)

func TestRegistry(t *testing.T) {
	set := tools.Registry("notes.txt")
	assert.Equal(t, []string{"calculator", "datetime", "search_knowledge", "save_note"}, set.Names())

	tool, ok := set.Lookup("search_knowledge")
	require.True(t, ok)
	assert.Equal(t, "search_knowledge", tool.Name)

	_, ok = set.Lookup("browser")
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	set := tools.Set{
		{Name: "a", Description: "first"},
		{Name: "b", Description: "second"},
	}
	assert.Equal(t, "- a: first\n- b: second", set.Describe())
}

func TestDatetime(t *testing.T) {
	at := time.Date(2025, 3, 14, 21, 5, 0, 0, time.UTC)
	tool := tools.Datetime(func() time.Time { return at })

	out, err := tool.Run(context.Background(), "ignored")
	require.NoError(t, err)
	assert.Equal(t, "Current date and time: Friday, 14 March 2025 — 09:05 PM", out)
}

func TestSearchKnowledge(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"Tell me about GROQ", "Groq is a free ultra-fast LLM API. Used on Day 1."},
		{"what is pytorch", "PyTorch is a deep learning framework for building neural networks."},
		// "rag" comes before "agent" in the table.
		{"rag agent", "RAG is Retrieval Augmented Generation. Built on Day 4."},
		// substring match, as "storage" contains "rag".
		{"storage", "RAG is Retrieval Augmented Generation. Built on Day 4."},
		{"kubernetes", tools.NoKnowledge},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, tools.SearchKnowledge(tt.query))
		})
	}
}

func TestSaveNote(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent_notes.txt")
	at := time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)
	tool := tools.SaveNote(path, func() time.Time { return at })

	out, err := tool.Run(context.Background(), "review cosine similarity")
	require.NoError(t, err)
	assert.Equal(t, "Note saved: review cosine similarity", out)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[2025-03-14 09:26] review cosine similarity\n", string(b))

	bad := tools.SaveNote(filepath.Join(t.TempDir(), "missing", "notes.txt"), time.Now)
	_, err = bad.Run(context.Background(), "x")
	assert.Error(t, err)
}

func TestGenerateSchema(t *testing.T) {
	type input struct {
		Query string `json:"query" jsonschema_description:"What to look up."`
		Limit int    `json:"limit,omitempty"`
	}

	schema := tools.GenerateSchema[input]()
	require.True(t, gjson.Valid(schema))
	assert.Equal(t, "object", gjson.Get(schema, "type").String())
	assert.Equal(t, "string", gjson.Get(schema, "properties.query.type").String())
	assert.Equal(t, "What to look up.", gjson.Get(schema, "properties.query.description").String())
	assert.Equal(t, "integer", gjson.Get(schema, "properties.limit.type").String())
	assert.Equal(t, int64(1), gjson.Get(schema, "required.#").Int())
	assert.Equal(t, "query", gjson.Get(schema, "required.0").String())
}

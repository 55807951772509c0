package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/xhad/journey/internal/llmtest"
	"github.com/xhad/journey/internal/models"
	"github.com/xhad/journey/pkg/llm"
	"github.com/xhad/journey/pkg/session"
)

func echoEngine() *llm.ChatEngine {
	model := &llmtest.Model{Respond: func(msgs []llms.MessageContent) (string, error) {
		return "echo: " + llmtest.Text(msgs[len(msgs)-1]), nil
	}}
	return llm.NewWithModel(model, llm.ChatConfig{})
}

func TestGet_SameConversationAcrossCalls(t *testing.T) {
	store := session.NewStore("sys")
	engine := echoEngine()

	_, err := store.Get("alice").Send(context.Background(), engine, "one")
	require.NoError(t, err)
	_, err = store.Get("alice").Send(context.Background(), engine, "two")
	require.NoError(t, err)

	first := store.Get("alice").Messages()
	second := store.Get("alice").Messages()
	assert.Equal(t, first, second)
	require.Len(t, first, 5)
	assert.Equal(t, models.System("sys"), first[0])
	assert.Equal(t, models.Assistant("echo: two"), first[4])

	assert.Same(t, store.Get("alice"), store.Get("alice"))
	assert.NotSame(t, store.Get("alice"), store.Get("bob"))
}

func TestGet_EmptyIDIsDefault(t *testing.T) {
	store := session.NewStore("sys")
	assert.Same(t, store.Get(session.DefaultID), store.Get(""))
	assert.Equal(t, []string{session.DefaultID}, store.IDs())
}

func TestDelete(t *testing.T) {
	store := session.NewStore("sys")
	store.Get("b")
	store.Get("a")

	assert.Equal(t, []string{"a", "b"}, store.IDs())
	assert.Equal(t, 2, store.TotalMessages())

	assert.True(t, store.Delete("a"))
	assert.False(t, store.Delete("a"))
	assert.False(t, store.Delete("missing"))
	assert.Equal(t, 1, store.Count())
}

func TestConcurrentSessions(t *testing.T) {
	store := session.NewStore("sys")
	engine := echoEngine()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i%4)
			_, err := store.Get(id).Send(context.Background(), engine, "hi")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, store.Count())
	// 4 system prompts + 20 exchanges of two messages each.
	assert.Equal(t, 44, store.TotalMessages())

	for _, id := range store.IDs() {
		msgs := store.Get(id).Messages()
		for i := 1; i < len(msgs); i += 2 {
			assert.Equal(t, models.RoleUser, msgs[i].Role)
			assert.Equal(t, models.RoleAssistant, msgs[i+1].Role)
		}
	}
}

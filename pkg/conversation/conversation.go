package conversation

import (
	"context"
	"sync"

	"github.com/xhad/journey/internal/models"
	"github.com/xhad/journey/internal/types"
)

// Conversation is an ordered list of turns sent to the model as context.
type Conversation struct {
	mu       sync.Mutex
	messages []models.Message
}

// New starts a conversation. An empty system prompt starts with no messages.
func New(systemPrompt string) *Conversation {
	c := &Conversation{}
	if systemPrompt != "" {
		c.messages = append(c.messages, models.System(systemPrompt))
	}
	return c
}

func FromMessages(messages []models.Message) *Conversation {
	c := &Conversation{messages: make([]models.Message, len(messages))}
	copy(c.messages, messages)
	return c
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Turns counts messages other than the system prompt.
func (c *Conversation) Turns() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.messages {
		if m.Role != models.RoleSystem {
			n++
		}
	}
	return n
}

// Send appends the user turn, asks the model with the full history and
// records the reply. The conversation is locked for the whole exchange so
// turns from concurrent callers never interleave. If the model fails the
// user turn is dropped again.
func (c *Conversation) Send(ctx context.Context, completer types.Completer, input string) (string, error) {
	return c.exchange(input, func(history []models.Message) (string, error) {
		return completer.Complete(ctx, history)
	})
}

// Streamer is satisfied by llm.ChatEngine.
type Streamer interface {
	Stream(ctx context.Context, messages []models.Message, onChunk func(chunk string) error) (string, error)
}

// SendStream is Send with incremental delivery of the reply.
func (c *Conversation) SendStream(ctx context.Context, streamer Streamer, input string, onChunk func(chunk string) error) (string, error) {
	return c.exchange(input, func(history []models.Message) (string, error) {
		return streamer.Stream(ctx, history, onChunk)
	})
}

func (c *Conversation) exchange(input string, complete func([]models.Message) (string, error)) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, models.User(input))

	history := make([]models.Message, len(c.messages))
	copy(history, c.messages)

	reply, err := complete(history)
	if err != nil {
		c.messages = c.messages[:len(c.messages)-1]
		return "", err
	}

	c.messages = append(c.messages, models.Assistant(reply))
	return reply, nil
}

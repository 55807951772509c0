// Package chain pipes prompt templates into a chat engine.
package chain

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"github.com/xhad/journey/internal/types"
	"github.com/xhad/journey/pkg/llm"
)

// Chain formats Template with the given values and sends the result to Engine.
type Chain struct {
	Template prompts.ChatPromptTemplate
	Engine   types.Generator
}

func New(template prompts.ChatPromptTemplate, engine types.Generator) *Chain {
	return &Chain{Template: template, Engine: engine}
}

func (c *Chain) Invoke(ctx context.Context, values map[string]any) (string, error) {
	for _, name := range c.Template.GetInputVariables() {
		if _, ok := values[name]; !ok {
			return "", fmt.Errorf("missing prompt value %q", name)
		}
	}

	messages, err := c.Template.FormatMessages(values)
	if err != nil {
		return "", fmt.Errorf("failed to format prompt: %w", err)
	}
	return c.Engine.Generate(ctx, llm.FromChatMessages(messages))
}

// Expert answers a question as a topic expert in a fixed number of lines.
// Values: topic, lines, question.
func Expert() prompts.ChatPromptTemplate {
	return prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate(
			"You are an expert in {{.topic}}. Answer in exactly {{.lines}} lines.",
			[]string{"topic", "lines"},
		),
		prompts.NewHumanMessagePromptTemplate("{{.question}}", []string{"question"}),
	})
}

func Concept() prompts.ChatPromptTemplate {
	return prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate("You are an AI expert. Explain concepts simply.", nil),
		prompts.NewHumanMessagePromptTemplate("Explain {{.concept}} in one sentence.", []string{"concept"}),
	})
}

func Example() prompts.ChatPromptTemplate {
	return prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate("You are a practical AI teacher.", nil),
		prompts.NewHumanMessagePromptTemplate(
			"Give one real world example of this: {{.explanation}}",
			[]string{"explanation"},
		),
	})
}

// ChainedExplanation explains concept in one sentence, then feeds that
// explanation into a second chain asking for a real world example.
func ChainedExplanation(ctx context.Context, engine types.Generator, concept string) (explanation, example string, err error) {
	explanation, err = New(Concept(), engine).Invoke(ctx, map[string]any{"concept": concept})
	if err != nil {
		return "", "", fmt.Errorf("failed to explain concept: %w", err)
	}

	example, err = New(Example(), engine).Invoke(ctx, map[string]any{"explanation": explanation})
	if err != nil {
		return explanation, "", fmt.Errorf("failed to generate example: %w", err)
	}
	return explanation, example, nil
}

// MemoryChat keeps a chat history and replays it through a "history"
// placeholder on every turn.
type MemoryChat struct {
	chain *Chain

	mu      sync.Mutex
	history []llms.ChatMessage
}

func NewMemoryChat(engine types.Generator, systemPrompt string) *MemoryChat {
	template := prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate(systemPrompt, nil),
		prompts.MessagesPlaceholder{VariableName: "history"},
		prompts.NewHumanMessagePromptTemplate("{{.input}}", []string{"input"}),
	})
	return &MemoryChat{chain: New(template, engine)}
}

// Send answers input with the accumulated history, then records the turn.
// A failed turn leaves the history unchanged.
func (m *MemoryChat) Send(ctx context.Context, input string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reply, err := m.chain.Invoke(ctx, map[string]any{
		"history": m.history,
		"input":   input,
	})
	if err != nil {
		return "", err
	}

	m.history = append(m.history,
		llms.HumanChatMessage{Content: input},
		llms.AIChatMessage{Content: reply},
	)
	return reply, nil
}

// History returns a copy of the recorded messages.
func (m *MemoryChat) History() []llms.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llms.ChatMessage, len(m.history))
	copy(out, m.history)
	return out
}

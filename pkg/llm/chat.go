package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/xhad/journey/internal/models"
)

const (
	DefaultGroqURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"
)

var ErrEmptyResponse = errors.New("no response from LLM")

// ChatConfig represents the configuration for a chat engine.
type ChatConfig struct {
	Provider    string // groq, openai or ollama
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// ChatEngine sends conversations to a hosted model and returns its replies.
type ChatEngine struct {
	config ChatConfig
	llm    llms.Model
}

// NewWithConfig creates a new ChatEngine with the given configuration.
func NewWithConfig(config ChatConfig) (*ChatEngine, error) {
	config, err := withDefaults(config)
	if err != nil {
		return nil, err
	}

	var model llms.Model
	switch config.Provider {
	case "groq", "openai":
		if config.APIKey == "" {
			return nil, fmt.Errorf("api key is required for provider %s", config.Provider)
		}
		model, err = openai.New(
			openai.WithToken(config.APIKey),
			openai.WithBaseURL(config.BaseURL),
			openai.WithModel(config.Model),
		)
	case "ollama":
		model, err = ollama.New(
			ollama.WithModel(config.Model),
			ollama.WithServerURL(config.BaseURL),
		)
	default:
		return nil, fmt.Errorf("unknown provider %q", config.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &ChatEngine{
		config: config,
		llm:    model,
	}, nil
}

// NewWithModel wraps an existing model, e.g. a scripted one in tests.
func NewWithModel(model llms.Model, config ChatConfig) *ChatEngine {
	config, _ = withDefaults(config)
	return &ChatEngine{config: config, llm: model}
}

func withDefaults(config ChatConfig) (ChatConfig, error) {
	if config.Provider == "" {
		config.Provider = "groq"
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return config, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return config, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 1024
	}
	if config.BaseURL == "" {
		if config.Provider == "ollama" {
			config.BaseURL = "http://localhost:11434"
		} else {
			config.BaseURL = DefaultGroqURL
		}
	}
	return config, nil
}

// ModelName reports the configured model, as shown by health endpoints.
func (ce *ChatEngine) ModelName() string {
	return ce.config.Model
}

func (ce *ChatEngine) options(extra ...llms.CallOption) []llms.CallOption {
	opts := []llms.CallOption{
		llms.WithMaxTokens(ce.config.MaxTokens),
		llms.WithTemperature(ce.config.Temperature),
	}
	return append(opts, extra...)
}

// Generate sends prepared message content. Prompt-template chains use it directly.
func (ce *ChatEngine) Generate(ctx context.Context, content []llms.MessageContent, extra ...llms.CallOption) (string, error) {
	response, err := ce.llm.GenerateContent(ctx, content, ce.options(extra...)...)
	if err != nil {
		return "", fmt.Errorf("chat error: %w", err)
	}

	if response == nil || len(response.Choices) == 0 || response.Choices[0] == nil {
		return "", ErrEmptyResponse
	}

	return response.Choices[0].Content, nil
}

// Complete sends the whole conversation and returns the assistant reply.
func (ce *ChatEngine) Complete(ctx context.Context, messages []models.Message) (string, error) {
	content, err := ToMessageContent(messages)
	if err != nil {
		return "", err
	}
	return ce.Generate(ctx, content)
}

// Ask is a single user turn with no history.
func (ce *ChatEngine) Ask(ctx context.Context, prompt string) (string, error) {
	return ce.Complete(ctx, []models.Message{models.User(prompt)})
}

// Stream behaves like Complete but hands each chunk to onChunk as it arrives.
// The full reply is still returned.
func (ce *ChatEngine) Stream(ctx context.Context, messages []models.Message, onChunk func(chunk string) error) (string, error) {
	content, err := ToMessageContent(messages)
	if err != nil {
		return "", err
	}

	streaming := llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
		if len(chunk) == 0 {
			return nil
		}
		return onChunk(string(chunk))
	})

	return ce.Generate(ctx, content, streaming)
}

// ToMessageContent maps role/content records onto langchaingo message types.
func ToMessageContent(messages []models.Message) ([]llms.MessageContent, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		var role llms.ChatMessageType
		switch m.Role {
		case models.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case models.RoleUser:
			role = llms.ChatMessageTypeHuman
		case models.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			return nil, fmt.Errorf("invalid role %q", m.Role)
		}
		content = append(content, llms.TextParts(role, m.Content))
	}
	return content, nil
}

// FromChatMessages converts formatted prompt-template output to message content.
func FromChatMessages(messages []llms.ChatMessage) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(m.GetType(), m.GetContent()))
	}
	return content
}

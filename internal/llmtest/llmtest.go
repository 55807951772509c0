// Package llmtest provides scripted stand-ins for hosted models so tests
// never reach the network.
package llmtest

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"
	"unicode"

	"github.com/tmc/langchaingo/llms"
)

var ErrNoResponses = errors.New("llmtest: no scripted responses left")

// Model replays Responses in order. When Respond is set it is used instead.
type Model struct {
	Responses []string
	Respond   func(messages []llms.MessageContent) (string, error)
	Err       error

	mu    sync.Mutex
	calls [][]llms.MessageContent
}

func NewModel(responses ...string) *Model {
	return &Model{Responses: responses}
}

func (m *Model) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, messages)
	reply, err := m.next(messages)
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}

	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.StreamingFunc != nil {
		for _, word := range strings.SplitAfter(reply, " ") {
			if word == "" {
				continue
			}
			if err := opts.StreamingFunc(ctx, []byte(word)); err != nil {
				return nil, err
			}
		}
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: reply}},
	}, nil
}

func (m *Model) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func (m *Model) next(messages []llms.MessageContent) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.Respond != nil {
		return m.Respond(messages)
	}
	if len(m.Responses) == 0 {
		return "", ErrNoResponses
	}
	reply := m.Responses[0]
	m.Responses = m.Responses[1:]
	return reply, nil
}

// Calls returns every message list the model has been sent.
func (m *Model) Calls() [][]llms.MessageContent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]llms.MessageContent, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastCall returns the most recent message list, or nil.
func (m *Model) LastCall() []llms.MessageContent {
	calls := m.Calls()
	if len(calls) == 0 {
		return nil
	}
	return calls[len(calls)-1]
}

// Text joins the text parts of a message.
func Text(mc llms.MessageContent) string {
	var b strings.Builder
	for _, part := range mc.Parts {
		if t, ok := part.(llms.TextContent); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// Embedder hashes words into a fixed number of buckets. Texts that share
// words get similar vectors, which is enough to exercise ranking.
type Embedder struct {
	Dim int

	mu    sync.Mutex
	calls int
}

func (e *Embedder) CreateEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	dim := e.Dim
	if dim <= 0 {
		dim = 64
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, dim)
		for _, word := range Words(text) {
			h := fnv.New32a()
			_, _ = h.Write([]byte(word))
			vec[h.Sum32()%uint32(dim)]++
		}
		out[i] = vec
	}
	return out, nil
}

func (e *Embedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// Words lowercases text and splits it on anything that is not a letter or digit.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Package finetune builds instruction datasets and compares prompting
// strategies for a specialised tutor model.
package finetune

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tmc/langchaingo/prompts"
	"github.com/xhad/journey/internal/types"
	"github.com/xhad/journey/pkg/chain"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency = 2
	Instruction        = "You are an AI Architect tutor. Answer clearly and practically."
	CompareQuestion    = "How long will it take me to get a good job in AI?"
)

// Approach is one way of customising a model's behaviour.
type Approach struct {
	Name    string `json:"name"`
	Cost    string `json:"cost"`
	Speed   string `json:"speed"`
	Power   string `json:"power"`
	UseWhen string `json:"use_when"`
	Example string `json:"example"`
}

var Approaches = []Approach{
	{
		Name:    "Prompt Engineering",
		Cost:    "Free",
		Speed:   "Instant",
		Power:   "Low-Medium",
		UseWhen: "Quick customization, general tasks",
		Example: "You are an AI Architect tutor...",
	},
	{
		Name:    "RAG",
		Cost:    "Low",
		Speed:   "Fast",
		Power:   "Medium-High",
		UseWhen: "Large knowledge bases, frequently updated data",
		Example: "Search company docs -> inject into prompt",
	},
	{
		Name:    "Fine-tuning",
		Cost:    "High",
		Speed:   "Days/Weeks",
		Power:   "Highest",
		UseWhen: "Specific style, domain expertise, private data",
		Example: "Train on 10,000 medical Q&A pairs",
	},
}

type Scenario struct {
	Description string
	Approach    string
}

var Scenarios = []Scenario{
	{"Customer support bot for your company", "RAG"},
	{"Medical diagnosis assistant", "Fine-tuning"},
	{"General Q&A chatbot", "Prompt Engineering"},
	{"Legal document analyzer", "Fine-tuning + RAG"},
	{"Personal AI tutor", "RAG + Prompt Engineering"},
	{"Code completion for specific codebase", "Fine-tuning"},
	{"News summarizer", "Prompt Engineering"},
	{"Company policy assistant", "RAG"},
}

var Topics = []string{
	"What is a vector database?",
	"Explain RAG in simple terms",
	"What is LangChain used for?",
	"How do AI Agents work?",
}

type Guide struct {
	FineTuningSteps     []string `json:"fine_tuning_steps"`
	RecommendedTools    []string `json:"recommended_tools"`
	TrainingDataSources []string `json:"training_data_sources"`
}

var DefaultGuide = Guide{
	FineTuningSteps: []string{
		"1. Collect domain-specific data (minimum 500-1000 examples)",
		"2. Format as instruction-input-output pairs",
		"3. Choose base model (LLaMA, Mistral, Phi)",
		"4. Use LoRA/QLoRA for efficient fine-tuning",
		"5. Train on GPU (Google Colab free tier works)",
		"6. Evaluate on test set",
		"7. Deploy fine-tuned model",
	},
	RecommendedTools: []string{
		"Unsloth - fastest fine-tuning library",
		"Axolotl - flexible training framework",
		"HuggingFace - model hub and training",
		"Google Colab - free GPU for training",
		"Weights & Biases - experiment tracking",
	},
	TrainingDataSources: []string{
		"Manual creation (highest quality)",
		"GPT-4 generated synthetic data",
		"Web scraping domain content",
		"Company internal documents",
		"Public datasets on HuggingFace",
	},
}

// TrainingPair is one instruction-tuning example.
type TrainingPair struct {
	Instruction string `json:"instruction"`
	Input       string `json:"input"`
	Output      string `json:"output"`
}

func trainingTemplate() prompts.ChatPromptTemplate {
	return prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate(`You are creating training data for an AI Architect tutor model.
Generate a high quality answer that is:
- Clear and educational
- Practical and example-based
- Encouraging to learners
- Under 150 words`, nil),
		prompts.NewHumanMessagePromptTemplate("Question: {{.question}}\n\nProvide a training answer:", []string{"question"}),
	})
}

type Generator struct {
	Engine      types.Generator
	Concurrency int
}

func NewGenerator(engine types.Generator, concurrency int) *Generator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Generator{Engine: engine, Concurrency: concurrency}
}

// Generate asks the model for an answer to each topic. Requests run
// concurrently but pairs come back in topic order. onDone, if non-nil,
// is called once per finished topic and never concurrently.
func (g *Generator) Generate(ctx context.Context, topics []string, onDone func(topic string)) ([]TrainingPair, error) {
	pairs := make([]TrainingPair, len(topics))
	c := chain.New(trainingTemplate(), g.Engine)

	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.Concurrency)

	for i, topic := range topics {
		eg.Go(func() error {
			output, err := c.Invoke(ctx, map[string]any{"question": topic})
			if err != nil {
				return fmt.Errorf("failed to generate answer for %q: %w", topic, err)
			}
			pairs[i] = TrainingPair{Instruction: Instruction, Input: topic, Output: output}

			if onDone != nil {
				mu.Lock()
				onDone(topic)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return pairs, nil
}

const (
	GenericPrompt     = "You are a general AI assistant."
	SpecialisedPrompt = `You are an elite AI Architect tutor specialized in training
students from India to reach 1CR+ salary. You know their journey:
- They started with zero knowledge
- Built 10 projects in 10 days
- Current skills: Groq, LangChain, RAG, Agents, Vector DB, Fine-tuning
- Goal: AI Architect role in 3-5 years
Always relate answers to their specific journey and Indian tech market.`
)

func questionTemplate(system string) prompts.ChatPromptTemplate {
	return prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate(system, nil),
		prompts.NewHumanMessagePromptTemplate("{{.question}}", []string{"question"}),
	})
}

// Compare answers question once as a generic assistant and once as the
// specialised tutor a fine-tuned model would imitate.
func Compare(ctx context.Context, engine types.Generator, question string) (generic, specialised string, err error) {
	values := map[string]any{"question": question}

	generic, err = chain.New(questionTemplate(GenericPrompt), engine).Invoke(ctx, values)
	if err != nil {
		return "", "", fmt.Errorf("failed to get generic answer: %w", err)
	}

	specialised, err = chain.New(questionTemplate(SpecialisedPrompt), engine).Invoke(ctx, values)
	if err != nil {
		return generic, "", fmt.Errorf("failed to get specialised answer: %w", err)
	}
	return generic, specialised, nil
}

// WriteJSON writes v with two-space indentation, leaving non-ASCII and
// HTML characters as they are.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/xhad/journey/pkg/chain"
)

const expertQuestion = "What is the most important skill for an AI Architect?"

func runLangChain(ctx context.Context, args []string) error {
	fs, cf := newFlagSet("langchain")
	concept := fs.String("concept", "Vector Embeddings", "Concept to explain in the chained demo")
	_, engine, err := setup(fs, cf, args)
	if err != nil {
		return err
	}

	rule := strings.Repeat("=", 50)
	fmt.Println(rule)
	fmt.Println("Prompt templates, memory and chains")
	fmt.Println(rule)

	color.Cyan("\nFeature 1: Prompt Templates")
	fmt.Println(strings.Repeat("-", 30))
	answer, err := chain.New(chain.Expert(), engine).Invoke(ctx, map[string]any{
		"topic":    "AI Architecture",
		"lines":    "3",
		"question": expertQuestion,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Q: %s\nA: %s\n", expertQuestion, answer)

	color.Cyan("\nFeature 2: Conversation Memory")
	fmt.Println(strings.Repeat("-", 30))
	mc := chain.NewMemoryChat(engine, "You are a helpful AI Architect tutor.")
	first, err := mc.Send(ctx, "My name is AI Architect Student")
	if err != nil {
		return err
	}
	fmt.Printf("Turn 1: %s...\n\n", truncate(first, 100))
	second, err := mc.Send(ctx, "What is my name?")
	if err != nil {
		return err
	}
	fmt.Printf("Turn 2 (memory test): %s\n", second)

	color.Cyan("\nFeature 3: Chaining Prompts Together")
	fmt.Println(strings.Repeat("-", 30))
	explanation, example, err := chain.ChainedExplanation(ctx, engine, *concept)
	if err != nil {
		return err
	}
	fmt.Printf("Concept: %s\n\nReal World Example: %s\n\n", explanation, example)

	fmt.Println(rule)
	color.Green("LangChain demo complete")
	fmt.Println(rule)
	return nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

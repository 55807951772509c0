package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/xhad/journey/pkg/conversation"
)

const defaultAskPrompt = "What skills does an AI Architect need in 2025?"

func runAsk(ctx context.Context, args []string) error {
	fs, cf := newFlagSet("ask")
	_, engine, err := setup(fs, cf, args)
	if err != nil {
		return err
	}

	prompt := strings.Join(fs.Args(), " ")
	if prompt == "" {
		prompt = defaultAskPrompt
	}

	answer, err := withSpinner(" Asking "+engine.ModelName(), func() (string, error) {
		return engine.Ask(ctx, prompt)
	})
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}

func runChat(ctx context.Context, args []string) error {
	fs, cf := newFlagSet("chat")
	cfg, engine, err := setup(fs, cf, args)
	if err != nil {
		return err
	}

	printHeader("AI Architect Chatbot")
	fmt.Println("Type 'quit' to exit")

	conv := conversation.New(conversation.ChatbotPrompt)
	input := stdinReader("You")
	for {
		line, ok := input.Next()
		if !ok {
			break
		}
		if err := sendTurn(ctx, conv, engine, line, "AI", cfg.UI.Streaming); err != nil {
			return err
		}
	}

	color.Yellow("Goodbye! See you on Day 3.")
	return nil
}

func runTutor(ctx context.Context, args []string) error {
	fs, cf := newFlagSet("tutor")
	memory := fs.String("memory", "", "Conversation file (overrides config)")
	cfg, engine, err := setup(fs, cf, args)
	if err != nil {
		return err
	}

	path := cfg.Memory.TutorFile
	if *memory != "" {
		path = *memory
	}

	conv, err := conversation.Load(path, conversation.TutorPrompt)
	if err != nil {
		return fmt.Errorf("failed to load tutor memory: %w", err)
	}

	printHeader("Personal AI Architect Tutor")
	if previous := conv.Len() - 1; previous > 0 {
		color.Green("Loaded %d previous messages, continuing your journey!", previous)
	} else {
		color.Green("Starting fresh session!")
	}
	fmt.Println("Type 'quit' to exit")

	input := stdinReader("You")
	for {
		line, ok := input.Next()
		if !ok {
			break
		}
		if err := sendTurn(ctx, conv, engine, line, "Tutor", cfg.UI.Streaming); err != nil {
			return err
		}
		if err := conv.Save(path); err != nil {
			return fmt.Errorf("failed to save tutor memory: %w", err)
		}
	}

	if err := conv.Save(path); err != nil {
		return fmt.Errorf("failed to save tutor memory: %w", err)
	}
	color.Yellow("Progress saved! See you tomorrow!")
	return nil
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/xhad/journey/pkg/finetune"
)

func runFinetune(ctx context.Context, args []string) error {
	fs, cf := newFlagSet("finetune")
	skipCompare := fs.Bool("skip-compare", false, "Skip the generic vs specialised comparison")
	cfg, engine, err := setup(fs, cf, args)
	if err != nil {
		return err
	}

	rule := strings.Repeat("-", 40)
	printHeader("Fine-tuning LLMs")

	color.Cyan("\n[Part 1] Three Customization Approaches")
	fmt.Println(rule)
	for _, a := range finetune.Approaches {
		fmt.Printf("\n>> %s\n", a.Name)
		fmt.Printf("   cost: %s\n   speed: %s\n   power: %s\n   use_when: %s\n   example: %s\n",
			a.Cost, a.Speed, a.Power, a.UseWhen, a.Example)
	}

	color.Cyan("\n\n[Part 2] Creating Fine-tuning Dataset")
	fmt.Println(rule)
	bar := getProgressBar(len(finetune.Topics), "Generating training pairs")
	gen := finetune.NewGenerator(engine, cfg.Finetune.Concurrency)
	pairs, err := gen.Generate(ctx, finetune.Topics, func(string) {
		bar.Add(1)
	})
	bar.Finish()
	if err != nil {
		return err
	}
	if err := finetune.WriteJSON(cfg.Finetune.Output, pairs); err != nil {
		return err
	}
	color.Green("\n[SAVED] %d training pairs to %s", len(pairs), cfg.Finetune.Output)

	if !*skipCompare {
		color.Cyan("\n\n[Part 3] Generic vs Fine-tuned Model Behavior")
		fmt.Println(rule)
		generic, specialised, err := finetune.Compare(ctx, engine, finetune.CompareQuestion)
		if err != nil {
			return err
		}
		fmt.Printf("\nQuestion: %s\n", finetune.CompareQuestion)
		fmt.Printf("\n[GENERIC MODEL ANSWER]:\n%s\n\n", truncate(generic, 400))
		fmt.Printf("[FINE-TUNED MODEL ANSWER]:\n%s\n", truncate(specialised, 400))
	}

	color.Cyan("\n\n[Part 4] Fine-tune vs RAG vs Prompting Decision Framework")
	fmt.Println(rule)
	fmt.Println("\nScenario -> Best Approach:")
	for _, s := range finetune.Scenarios {
		fmt.Printf("  > %s\n    -> %s\n\n", s.Description, s.Approach)
	}

	if err := finetune.WriteJSON(cfg.Finetune.GuideOutput, finetune.DefaultGuide); err != nil {
		return err
	}
	color.Green("[SAVED] Fine-tuning guide saved to %s", cfg.Finetune.GuideOutput)
	return nil
}

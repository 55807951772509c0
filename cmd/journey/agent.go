package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/xhad/journey/pkg/agent"
	"github.com/xhad/journey/pkg/tools"
)

func runAgent(ctx context.Context, args []string) error {
	fs, cf := newFlagSet("agent")
	schema := fs.Bool("schema", false, "Print the JSON schema of the tool decision and exit")
	cfg, engine, err := setup(fs, cf, args)
	if err != nil {
		return err
	}

	if *schema {
		fmt.Println(tools.GenerateSchema[agent.Decision]())
		return nil
	}

	a := agent.New(engine, tools.Registry(cfg.Memory.NotesFile))
	a.OnTool = func(name, input, result string) {
		color.Magenta("Using tool: %s", name)
		color.Magenta("Tool input: %s", input)
		color.Magenta("Tool result: %s", result)
	}

	printHeader("AI Agent")
	fmt.Printf("Available tools: %s\n", strings.Join(a.Tools.Names(), ", "))
	fmt.Println("Type 'quit' to exit")

	input := stdinReader("You")
	for {
		line, ok := input.Next()
		if !ok {
			break
		}
		color.Cyan("\nAgent thinking...")
		res, err := a.Run(ctx, line)
		if err != nil {
			color.Red("Error: %v", err)
			continue
		}
		assistantPrompt("\nAgent: ")
		fmt.Println(res.Answer)
	}

	color.Yellow("Agent shutting down. See you on Day 6!")
	return nil
}

// stageObserver prints pipeline progress.
type stageObserver struct{}

func (stageObserver) StageStarted(spec agent.Spec) {
	color.Cyan("%s working...", spec.Name)
}

func (stageObserver) StageFinished(spec agent.Spec, output string) {
	color.Green("%s complete (%d words)", spec.Name, countWords(output))
}

func runPipeline(ctx context.Context, args []string) error {
	fs, cf := newFlagSet("pipeline")
	_, engine, err := setup(fs, cf, args)
	if err != nil {
		return err
	}

	p := agent.NewPipeline(engine)
	rule := strings.Repeat("=", 50)

	run := func(request string) error {
		fmt.Printf("\n%s\nUser Request: %s\n%s\n", rule, request, rule)
		report, err := p.Run(ctx, request, stageObserver{})
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\n", rule)
		color.Cyan("FINAL ANSWER:")
		fmt.Printf("%s\n%s\n%s\n", rule, report.Final, rule)
		return nil
	}

	if request := strings.Join(fs.Args(), " "); request != "" {
		return run(request)
	}

	printHeader("Multi-Agent System")
	fmt.Println("Agents: Researcher -> Writer -> Critic -> Manager")
	fmt.Println("Type 'quit' to exit")

	input := stdinReader("Your Request")
	for {
		request, ok := input.Next()
		if !ok {
			break
		}
		if err := run(request); err != nil {
			color.Red("Error: %v", err)
		}
	}

	color.Yellow("Multi-Agent System shutting down. See you on Day 7!")
	return nil
}

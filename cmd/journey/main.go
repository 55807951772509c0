package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	cfgPkg "github.com/xhad/journey/pkg/config"
	"github.com/xhad/journey/pkg/llm"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string) error
}

var commands = []command{
	{"ask", "send one prompt and print the answer", runAsk},
	{"chat", "chat with in-memory history", runChat},
	{"tutor", "chat with history saved to a JSON file", runTutor},
	{"rag", "answer questions from a document by keyword retrieval", runRAG},
	{"agent", "tool-using agent (calculator, datetime, search, notes)", runAgent},
	{"pipeline", "researcher, writer, critic and manager agents in sequence", runPipeline},
	{"web", "serve the browser chat app", runWeb},
	{"langchain", "prompt templates, memory and chained prompts", runLangChain},
	{"semantic", "semantic search and RAG over embedded documents", runSemantic},
	{"finetune", "build a fine-tuning dataset and compare prompting styles", runFinetune},
	{"api", "serve the REST API", runAPI},
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("journey: ")

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	cmd, ok := lookup(os.Args[1])
	if !ok {
		color.Red("unknown command %q\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.run(ctx, os.Args[2:]); err != nil {
		log.Fatal(err)
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: journey <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'journey <command> -h' for command flags.")
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configPath string
	model      string
	stream     bool
}

func newFlagSet(name string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cf := &commonFlags{}
	fs.StringVar(&cf.configPath, "config", "", "Path to config file")
	fs.StringVar(&cf.model, "model", "", "LLM model to use (overrides config)")
	fs.BoolVar(&cf.stream, "stream", true, "Stream responses as they are generated")
	return fs, cf
}

// loadConfig reads the config file, applies flag overrides and validates.
func loadConfig(fs *flag.FlagSet, cf *commonFlags) (*cfgPkg.Config, error) {
	cfg, err := cfgPkg.LoadConfig(cf.configPath)
	if err != nil {
		return nil, err
	}

	if cf.model != "" {
		cfg.LLM.Model = cf.model
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "stream" {
			cfg.UI.Streaming = cf.stream
		}
	})

	if errs := cfg.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid configuration:\n  %s", strings.Join(msgs, "\n  "))
	}
	return cfg, nil
}

func newEngine(cfg *cfgPkg.Config) (*llm.ChatEngine, error) {
	engine, err := llm.NewWithConfig(llm.ChatConfig{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat engine: %w", err)
	}
	return engine, nil
}

// setup parses args and builds the config and chat engine most commands need.
func setup(fs *flag.FlagSet, cf *commonFlags, args []string) (*cfgPkg.Config, *llm.ChatEngine, error) {
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfig(fs, cf)
	if err != nil {
		return nil, nil, err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, engine, nil
}

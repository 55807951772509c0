package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/xhad/journey/internal/types"
	cfgPkg "github.com/xhad/journey/pkg/config"
	"github.com/xhad/journey/pkg/knowledge"
	"github.com/xhad/journey/pkg/llm"
	"github.com/xhad/journey/pkg/rag"
	"github.com/xhad/journey/pkg/retriever"
	"github.com/xhad/journey/pkg/store"
)

const embedBatch = 5

// openStore returns pgvector when a database is configured, otherwise an
// in-memory store.
func openStore(ctx context.Context, cfg *cfgPkg.Config, keep bool) (types.VectorStore, error) {
	if cfg.Database.URL == "" {
		return store.NewMemoryStore(), nil
	}

	vs, err := store.NewWithConfig(ctx, store.VectorStoreConfig{
		ConnString: cfg.Database.URL,
		TableName:  cfg.Database.TableName,
		VectorDim:  cfg.Database.VectorDim,
		BatchSize:  cfg.Database.BatchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector store: %w", err)
	}
	if !keep {
		if err := vs.Reset(ctx); err != nil {
			vs.Close()
			return nil, err
		}
	}
	return vs, nil
}

func runSemantic(ctx context.Context, args []string) error {
	fs, cf := newFlagSet("semantic")
	keep := fs.Bool("keep", false, "Keep existing rows in the vector table")
	cfg, engine, err := setup(fs, cf, args)
	if err != nil {
		return err
	}

	printHeader("Vector Database + Advanced RAG")
	color.Cyan("Loading embedding model...")
	embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:     cfg.Embedder.Model,
		BaseURL:   cfg.Embedder.BaseURL,
		BatchSize: cfg.Database.BatchSize,
	})
	if err != nil {
		return err
	}

	vs, err := openStore(ctx, cfg, *keep)
	if err != nil {
		return err
	}
	defer vs.Close()

	index := retriever.NewIndex(embedder, vs)
	bar := getProgressBar(len(knowledge.Documents), "Creating vector embeddings")
	for start := 0; start < len(knowledge.Documents); start += embedBatch {
		end := min(start+embedBatch, len(knowledge.Documents))
		if err := index.Add(ctx, knowledge.Documents[start:end]); err != nil {
			return fmt.Errorf("failed to embed documents: %w", err)
		}
		bar.Add(end - start)
	}
	bar.Finish()
	color.Green("\n%d documents stored as vectors!", index.Len())

	r := &rag.SemanticRAG{Index: index, Results: cfg.Processor.SemanticResults, Engine: engine}

	color.Cyan("\nTesting Semantic Search")
	fmt.Println(strings.Repeat("-", 30))
	for _, query := range knowledge.SampleQueries {
		answer, sources, err := r.Ask(ctx, query)
		if err != nil {
			return err
		}
		fmt.Printf("\nQuery: %s\n", query)
		fmt.Printf("Sources found: %d\n", len(sources))
		fmt.Printf("Answer: %s...\n", truncate(answer, 200))
	}

	fmt.Println(strings.Repeat("=", 50))
	color.Cyan("Interactive Advanced RAG, ask anything!")
	fmt.Println("Type 'quit' to exit")

	input := stdinReader("Your Question")
	for {
		question, ok := input.Next()
		if !ok {
			break
		}
		answer, sources, err := r.Ask(ctx, question)
		if err != nil {
			color.Red("Error: %v", err)
			continue
		}
		fmt.Printf("\nRetrieved %d relevant documents\n", len(sources))
		assistantPrompt("\nAnswer: ")
		fmt.Println(answer)
		fmt.Println(strings.Repeat("-", 40))
	}

	color.Yellow("See you on Day 10!")
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	cfgPkg "github.com/xhad/journey/pkg/config"
	"github.com/xhad/journey/pkg/knowledge"
	"github.com/xhad/journey/pkg/processor"
	"github.com/xhad/journey/pkg/rag"
	"github.com/xhad/journey/pkg/scraper"
)

func runRAG(ctx context.Context, args []string) error {
	fs, cf := newFlagSet("rag")
	url := fs.String("url", "", "Scrape this site instead of using the built-in journal")
	depth := fs.Int("depth", 0, "Link depth when scraping (overrides config)")
	cfg, engine, err := setup(fs, cf, args)
	if err != nil {
		return err
	}

	r := rag.NewKeywordRAG(knowledge.Journal, cfg.Processor.ChunkSize, cfg.Processor.TopN, engine)
	if *url != "" {
		if *depth > 0 {
			cfg.Scraper.MaxDepth = *depth
		}
		spinner := getSpinner(" Scraping " + *url)
		chunks, pages, err := scrapeChunks(ctx, cfg, *url, func(string) {
			spinner.Add(1)
		})
		spinner.Finish()
		if err != nil {
			return err
		}
		color.Green("Scraped %d pages from %s", pages, *url)
		r = &rag.KeywordRAG{Chunks: chunks, TopN: cfg.Processor.TopN, Engine: engine}
	}

	printHeader("RAG Document Q&A System")
	color.Green("Document loaded and split into %d chunks", len(r.Chunks))
	fmt.Println("Type 'quit' to exit")

	input := stdinReader("Your Question")
	for {
		question, ok := input.Next()
		if !ok {
			break
		}
		answer, err := withSpinner(" Searching...", func() (string, error) {
			return r.Ask(ctx, question)
		})
		if err != nil {
			return err
		}
		assistantPrompt("\nAnswer: ")
		fmt.Println(answer)
	}

	color.Yellow("Goodbye!")
	return nil
}

// scrapeChunks crawls startURL and returns the chunks of every page. Chunks
// never span two pages.
func scrapeChunks(ctx context.Context, cfg *cfgPkg.Config, startURL string, onPage func(url string)) ([]string, int, error) {
	s := scraper.NewWithConfig(scraper.ScraperConfig{
		MaxDepth:          cfg.Scraper.MaxDepth,
		RateLimit:         cfg.Scraper.RateLimit,
		IgnorePatterns:    cfg.Scraper.IgnorePatterns,
		AllowedExtensions: cfg.Scraper.AllowedExtensions,
		OnProgress:        onPage,
	})

	docs, err := s.Scrape(ctx, startURL)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scrape %s: %w", startURL, err)
	}

	p := processor.NewWithConfig(processor.ProcessorConfig{ChunkSize: cfg.Processor.ChunkSize})
	var chunks []string
	for _, doc := range p.Process(docs) {
		chunks = append(chunks, doc.Chunks...)
	}
	if len(chunks) == 0 {
		return nil, 0, fmt.Errorf("no text found at %s: %w", startURL, scraper.ErrNoDocuments)
	}
	return chunks, len(docs), nil
}

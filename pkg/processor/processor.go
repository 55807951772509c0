package processor

import (
	"sort"
	"strings"

	"github.com/xhad/journey/internal/models"
)

const DefaultChunkSize = 200

type ProcessorConfig struct {
	ChunkSize int // words per chunk
}

type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkSize
	}

	return Processor{
		config: config,
	}
}

func (p *Processor) Process(docs []models.Document) []models.ChunkedDocument {
	processed := make([]models.ChunkedDocument, 0, len(docs))

	for _, doc := range docs {
		processed = append(processed, models.ChunkedDocument{
			Document: doc,
			Chunks:   SplitIntoChunks(doc.Content, p.config.ChunkSize),
		})
	}

	return processed
}

// SplitIntoChunks groups the words of text into chunks of size words.
// N words always produce ceil(N/size) chunks.
func SplitIntoChunks(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}

	words := strings.Fields(text)
	chunks := make([]string, 0, (len(words)+size-1)/size)

	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}

	return chunks
}

// Score is the number of distinct lowercase words shared by question and chunk.
func Score(question, chunk string) int {
	return overlap(wordSet(question), chunk)
}

func overlap(questionWords map[string]bool, chunk string) int {
	score := 0
	for word := range wordSet(chunk) {
		if questionWords[word] {
			score++
		}
	}
	return score
}

// FindRelevantChunks returns up to topN chunks with the highest score.
// Equal scores keep their input order.
func FindRelevantChunks(question string, chunks []string, topN int) []string {
	type scored struct {
		score int
		chunk string
	}

	questionWords := wordSet(question)
	results := make([]scored, len(chunks))
	for i, chunk := range chunks {
		results[i] = scored{score: overlap(questionWords, chunk), chunk: chunk}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if topN < 0 {
		topN = 0
	}
	if topN > len(results) {
		topN = len(results)
	}

	relevant := make([]string, 0, topN)
	for _, r := range results[:topN] {
		relevant = append(relevant, r.chunk)
	}
	return relevant
}

func wordSet(text string) map[string]bool {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

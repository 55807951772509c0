// Package rag answers questions from retrieved context rather than the
// model's own knowledge.
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"
	"github.com/xhad/journey/internal/models"
	"github.com/xhad/journey/internal/types"
	"github.com/xhad/journey/pkg/chain"
	"github.com/xhad/journey/pkg/processor"
	"github.com/xhad/journey/pkg/retriever"
)

var ErrNoDocuments = errors.New("no documents provided")

const keywordSystemPrompt = "You are a helpful assistant. Answer questions based only on the provided context."

// KeywordRAG picks chunks by word overlap with the question.
type KeywordRAG struct {
	Chunks []string
	TopN   int
	Engine types.Completer
}

func NewKeywordRAG(document string, chunkSize, topN int, engine types.Completer) *KeywordRAG {
	return &KeywordRAG{
		Chunks: processor.SplitIntoChunks(document, chunkSize),
		TopN:   topN,
		Engine: engine,
	}
}

func (r *KeywordRAG) Ask(ctx context.Context, question string) (string, error) {
	topN := r.TopN
	if topN <= 0 {
		topN = 2
	}

	relevant := strings.Join(processor.FindRelevantChunks(question, r.Chunks, topN), "\n\n")
	return r.Engine.Complete(ctx, []models.Message{
		models.System(keywordSystemPrompt),
		models.User(fmt.Sprintf("Context:\n%s\n\nQuestion: %s", relevant, question)),
	})
}

// TutorTemplate is the semantic RAG prompt. Values: context, question.
func TutorTemplate() prompts.ChatPromptTemplate {
	return prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate(`You are an AI Architect tutor.
Answer based on the context provided.
Be specific, encouraging, and relate to the student's journey.

Context:
{{.context}}`, []string{"context"}),
		prompts.NewHumanMessagePromptTemplate("{{.question}}", []string{"question"}),
	})
}

// SemanticRAG retrieves documents by meaning and answers with them as context.
type SemanticRAG struct {
	Index   *retriever.Index
	Results int
	Engine  types.Generator
}

// Ask returns the answer and the documents it was grounded on.
func (r *SemanticRAG) Ask(ctx context.Context, question string) (string, []string, error) {
	found, err := r.Index.Search(ctx, question, r.Results)
	if err != nil {
		return "", nil, fmt.Errorf("failed to search documents: %w", err)
	}

	sources := make([]string, len(found))
	for i, doc := range found {
		sources[i] = doc.Content
	}

	answer, err := chain.New(TutorTemplate(), r.Engine).Invoke(ctx, map[string]any{
		"context":  Bullets(sources),
		"question": question,
	})
	if err != nil {
		return "", nil, err
	}
	return answer, sources, nil
}

// ContextTemplate answers strictly from supplied context. Values: context, question.
func ContextTemplate() prompts.ChatPromptTemplate {
	return prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate("Answer based only on this context:\n{{.context}}", []string{"context"}),
		prompts.NewHumanMessagePromptTemplate("{{.question}}", []string{"question"}),
	})
}

// AnswerFromDocuments answers question using only the caller's documents.
func AnswerFromDocuments(ctx context.Context, engine types.Generator, question string, documents []string) (string, error) {
	if len(documents) == 0 {
		return "", ErrNoDocuments
	}

	return chain.New(ContextTemplate(), engine).Invoke(ctx, map[string]any{
		"context":  Bullets(documents),
		"question": question,
	})
}

// Bullets renders each document as a "- " line.
func Bullets(docs []string) string {
	lines := make([]string, len(docs))
	for i, doc := range docs {
		lines[i] = "- " + doc
	}
	return strings.Join(lines, "\n")
}

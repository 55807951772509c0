package models

type Document struct {
	ID       string
	URL      string
	Title    string
	Content  string
	Metadata map[string]interface{}
}

// ChunkedDocument is a document split into retrieval-sized pieces.
type ChunkedDocument struct {
	Document
	Chunks []string
}

type EmbeddedDocument struct {
	Document
	Embedding []float32
}

type ScoredDocument struct {
	Document
	Score float32
}

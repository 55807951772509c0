package store

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/xhad/journey/internal/models"
)

type VectorStoreConfig struct {
	ConnString string
	TableName  string
	VectorDim  int
	BatchSize  int
}

// PGVectorStore keeps embedded documents in PostgreSQL with the pgvector
// extension.
type PGVectorStore struct {
	config VectorStoreConfig
	pool   *pgxpool.Pool
}

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func NewWithConfig(ctx context.Context, config VectorStoreConfig) (*PGVectorStore, error) {
	if config.TableName == "" {
		config.TableName = "documents"
	}
	if !tableNamePattern.MatchString(config.TableName) {
		return nil, fmt.Errorf("invalid table name %q", config.TableName)
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768 // nomic-embed-text
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	vs := &PGVectorStore{
		config: config,
		pool:   pool,
	}

	if err := vs.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return vs, nil
}

func (vs *PGVectorStore) initialize(ctx context.Context) error {
	// Enable pgvector extension
	_, err := vs.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL DEFAULT '',
			title TEXT,
			content TEXT NOT NULL,
			embedding vector(%d),
			metadata JSONB
		)`, vs.config.TableName, vs.config.VectorDim)

	_, err = vs.pool.Exec(ctx, createTable)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		vs.config.TableName, vs.config.TableName)

	_, err = vs.pool.Exec(ctx, createIndex)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// Store upserts documents, one transaction per batch.
func (vs *PGVectorStore) Store(ctx context.Context, docs []models.EmbeddedDocument) error {
	for i := 0; i < len(docs); i += vs.config.BatchSize {
		end := i + vs.config.BatchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := vs.storeBatch(ctx, docs[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (vs *PGVectorStore) storeBatch(ctx context.Context, docs []models.EmbeddedDocument) error {
	tx, err := vs.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, url, title, content, embedding, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata`,
		vs.config.TableName)

	for _, doc := range docs {
		if len(doc.Embedding) != vs.config.VectorDim {
			return fmt.Errorf("document %s: embedding has %d dimensions, table expects %d", doc.ID, len(doc.Embedding), vs.config.VectorDim)
		}

		_, err = tx.Exec(ctx, stmt,
			doc.ID,
			doc.URL,
			sanitizeUTF8(doc.Title),
			sanitizeUTF8(doc.Content),
			pgvector.NewVector(doc.Embedding),
			doc.Metadata,
		)
		if err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (vs *PGVectorStore) Query(ctx context.Context, queryEmbedding []float32, limit int) ([]models.ScoredDocument, error) {
	query := fmt.Sprintf(`
		SELECT id, url, COALESCE(title, ''), content, metadata, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1, content
		LIMIT $2`,
		vs.config.TableName)

	rows, err := vs.pool.Query(ctx, query, pgvector.NewVector(queryEmbedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []models.ScoredDocument
	for rows.Next() {
		var doc models.ScoredDocument
		var score float64
		err := rows.Scan(
			&doc.ID,
			&doc.URL,
			&doc.Title,
			&doc.Content,
			&doc.Metadata,
			&score,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		doc.Score = float32(score)
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Reset removes every stored document. The table is rebuilt from the
// knowledge base on each start.
func (vs *PGVectorStore) Reset(ctx context.Context) error {
	_, err := vs.pool.Exec(ctx, fmt.Sprintf("TRUNCATE %s", vs.config.TableName))
	if err != nil {
		return fmt.Errorf("failed to reset table: %w", err)
	}
	return nil
}

func (vs *PGVectorStore) Close() {
	if vs.pool != nil {
		vs.pool.Close()
	}
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}

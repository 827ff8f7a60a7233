package datastore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/gloriarusenova/RAG-document-system/database"
	"github.com/gloriarusenova/RAG-document-system/embeddings"
)

const embedBatchSize = 16

// SourceDocument is one record of a pre-chunked corpus file. Chunking
// happens upstream; the loader only embeds and stores.
type SourceDocument struct {
	Source   string            `json:"source"`
	Chunks   []string          `json:"chunks"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Loader embeds pre-chunked documents and upserts them into Postgres.
// Chunk IDs follow the <sourceName>:<chunkIndex> convention used by
// question-set ground truth.
type Loader struct {
	pool      *pgxpool.Pool
	embedder  embeddings.Embedder
	logger    *log.Logger
	dimension int
}

func NewLoader(pool *pgxpool.Pool, embedder embeddings.Embedder, logger *log.Logger, dimension int) *Loader {
	if logger == nil {
		logger = log.Default()
	}

	return &Loader{
		pool:      pool,
		embedder:  embedder,
		logger:    logger,
		dimension: dimension,
	}
}

// LoadFile reads a JSON corpus file and loads every document in it.
// A failing document is logged and skipped so the rest still load.
func (l *Loader) LoadFile(ctx context.Context, path string) error {
	if l.embedder == nil {
		return fmt.Errorf("embedder not configured")
	}
	if l.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if err := database.EnsureChunkSchema(ctx, l.pool, l.dimension); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read corpus file: %w", err)
	}

	var docs []SourceDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("parse corpus file: %w", err)
	}
	if len(docs) == 0 {
		l.logger.Printf("no documents found in %s", path)
		return nil
	}

	loaded := 0
	for _, doc := range docs {
		if err := l.loadDocument(ctx, doc); err != nil {
			l.logger.Printf("load failed for %s: %v", doc.Source, err)
			continue
		}
		loaded++
	}

	l.logger.Printf("loaded %d/%d documents from %s", loaded, len(docs), path)
	return nil
}

func (l *Loader) loadDocument(ctx context.Context, doc SourceDocument) error {
	source := strings.TrimSpace(doc.Source)
	if source == "" {
		return fmt.Errorf("document has empty source name")
	}
	if strings.Contains(source, ":") {
		return fmt.Errorf("source name %q must not contain ':'", source)
	}
	if len(doc.Chunks) == 0 {
		return fmt.Errorf("document %s has no chunks", source)
	}

	metadata := []byte("{}")
	if len(doc.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
	}

	for offset := 0; offset < len(doc.Chunks); offset += embedBatchSize {
		end := offset + embedBatchSize
		if end > len(doc.Chunks) {
			end = len(doc.Chunks)
		}
		batch := doc.Chunks[offset:end]

		vectors, err := l.embedder.Embed(ctx, batch)
		if err != nil {
			return fmt.Errorf("embed chunks %d-%d: %w", offset, end-1, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
		}

		for i, text := range batch {
			index := offset + i
			id := fmt.Sprintf("%s:%d", source, index)
			if _, err := l.pool.Exec(ctx, `
                INSERT INTO rag_chunks (id, source_name, chunk_index, content, metadata, embedding)
                VALUES ($1, $2, $3, $4, $5, $6)
                ON CONFLICT (id) DO UPDATE
                SET content = EXCLUDED.content,
                    metadata = EXCLUDED.metadata,
                    embedding = EXCLUDED.embedding,
                    updated_at = NOW()
            `, id, source, index, text, metadata, pgvector.NewVector(vectors[i])); err != nil {
				return fmt.Errorf("insert chunk %s: %w", id, err)
			}
		}
	}

	return nil
}

package datastore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/gloriarusenova/RAG-document-system/retrieval"
)

// Postgres serves nearest-neighbor queries over the rag_chunks table using
// pgvector's L2 distance operator.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) NearestNeighbors(ctx context.Context, embedding []float32, limit int) ([]retrieval.Neighbor, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("embedding is empty")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	probes := limit * 10
	if probes < 10 {
		probes = 10
	}
	if _, err := conn.Exec(ctx, fmt.Sprintf("SET ivfflat.probes = %d", probes)); err != nil {
		return nil, fmt.Errorf("set ivfflat probes: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT
            id,
            content,
            (embedding <-> $1::vector) AS distance
        FROM rag_chunks
        ORDER BY embedding <-> $1::vector
        LIMIT $2
    `, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("query nearest neighbors: %w", err)
	}
	defer rows.Close()

	neighbors := make([]retrieval.Neighbor, 0, limit)
	for rows.Next() {
		var n retrieval.Neighbor
		if scanErr := rows.Scan(&n.ID, &n.Content, &n.Distance); scanErr != nil {
			return nil, fmt.Errorf("scan neighbor row: %w", scanErr)
		}
		neighbors = append(neighbors, n)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return neighbors, nil
}

func (s *Postgres) CountChunks(ctx context.Context) (int64, error) {
	if s.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM rag_chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}

func (s *Postgres) Clear(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := s.pool.Exec(ctx, "TRUNCATE rag_chunks"); err != nil {
		return fmt.Errorf("truncate rag_chunks: %w", err)
	}
	return nil
}

var _ retrieval.Datastore = (*Postgres)(nil)

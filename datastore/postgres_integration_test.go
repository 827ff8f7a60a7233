package datastore_test

import (
	"context"
	"os"
	"testing"

	"github.com/pgvector/pgvector-go"

	"github.com/gloriarusenova/RAG-document-system/config"
	"github.com/gloriarusenova/RAG-document-system/database"
	"github.com/gloriarusenova/RAG-document-system/datastore"
)

func TestNearestNeighborOrdering(t *testing.T) {
	if os.Getenv("RUN_DB_INTEGRATION_TESTS") != "1" {
		t.Skip("set RUN_DB_INTEGRATION_TESTS=1 to run database connectivity checks")
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		t.Fatalf("postgres connection: %v", err)
	}
	defer pool.Close()

	dim := cfg.Embeddings.Dimension
	if dim <= 0 {
		t.Fatalf("invalid embedding dimension: %d", dim)
	}

	if err := database.EnsureChunkSchema(ctx, pool, dim); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, "DELETE FROM rag_chunks WHERE source_name = 'itest'")
	})

	makeVector := func(weight float32) []float32 {
		vec := make([]float32, dim)
		vec[0] = weight
		return vec
	}

	if _, err := pool.Exec(ctx, `
        INSERT INTO rag_chunks (id, source_name, chunk_index, content, embedding)
        VALUES ('itest:0', 'itest', 0, 'near', $1),
               ('itest:1', 'itest', 1, 'far', $2)
        ON CONFLICT (id) DO UPDATE SET embedding = EXCLUDED.embedding
    `, pgvector.NewVector(makeVector(0.1)), pgvector.NewVector(makeVector(5))); err != nil {
		t.Fatalf("insert chunks: %v", err)
	}

	store := datastore.NewPostgres(pool)
	neighbors, err := store.NearestNeighbors(ctx, makeVector(0.1), 2)
	if err != nil {
		t.Fatalf("nearest neighbors: %v", err)
	}
	if len(neighbors) < 2 {
		t.Fatalf("expected at least 2 neighbors, got %d", len(neighbors))
	}
	if neighbors[0].ID != "itest:0" {
		t.Errorf("expected itest:0 first, got %s", neighbors[0].ID)
	}
	if neighbors[0].Distance > neighbors[1].Distance {
		t.Errorf("distances must ascend: %f then %f", neighbors[0].Distance, neighbors[1].Distance)
	}
}

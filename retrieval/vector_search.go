package retrieval

import (
	"context"
	"fmt"
)

const defaultCoarseLimit = 20

// Neighbor is a raw nearest-neighbor row from the datastore: ascending
// distance under whatever metric the index defines.
type Neighbor struct {
	ID       string
	Content  string
	Distance float64
}

type Datastore interface {
	NearestNeighbors(ctx context.Context, embedding []float32, limit int) ([]Neighbor, error)
}

// VectorSearchStage runs the coarse first-stage lookup and converts the
// datastore's distances into descending relevance scores so downstream
// logic always treats higher as better.
type VectorSearchStage struct {
	store Datastore
}

func NewVectorSearchStage(store Datastore) *VectorSearchStage {
	return &VectorSearchStage{store: store}
}

func (s *VectorSearchStage) Search(ctx context.Context, embedding []float32, limit int) ([]ScoredChunk, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: datastore is not configured", ErrRetrievalUnavailable)
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("embedding is empty")
	}
	if limit <= 0 {
		limit = defaultCoarseLimit
	}

	neighbors, err := s.store.NearestNeighbors(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}

	// The datastore returns ascending distance, so scores come out in
	// descending order already; duplicates keep their first occurrence.
	seen := make(map[string]struct{}, len(neighbors))
	chunks := make([]ScoredChunk, 0, len(neighbors))
	for _, n := range neighbors {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: neighbor row has empty chunk id", ErrRetrievalUnavailable)
		}
		if n.Distance < 0 {
			return nil, fmt.Errorf("%w: negative distance %f for chunk %s", ErrRetrievalUnavailable, n.Distance, n.ID)
		}
		if _, ok := seen[n.ID]; ok {
			continue
		}
		seen[n.ID] = struct{}{}
		chunks = append(chunks, ScoredChunk{
			ID:      n.ID,
			Content: n.Content,
			Score:   1 / (1 + n.Distance),
			Rank:    len(chunks) + 1,
		})
	}

	return chunks, nil
}

package retrieval

import (
	"context"
	"fmt"
	"sort"
)

const defaultTopK = 5

// Candidate is the (chunkId, text) pair sent to the external re-ranking
// service.
type Candidate struct {
	ID      string
	Content string
}

// RerankedScore is a cross-encoder relevance score for one candidate.
// Scores are not comparable to the coarse vector-search scores.
type RerankedScore struct {
	ID    string
	Score float64
}

type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []Candidate) ([]RerankedScore, error)
}

// ReRankStage re-scores a candidate set against the full query text and
// keeps the topK highest-scoring candidates. The service's scores
// supersede the coarse scores entirely.
type ReRankStage struct {
	reranker Reranker
}

func NewReRankStage(reranker Reranker) *ReRankStage {
	return &ReRankStage{reranker: reranker}
}

func (s *ReRankStage) Rerank(ctx context.Context, query string, candidates []ScoredChunk, topK int) ([]ScoredChunk, error) {
	// Empty candidate sets never reach the external service.
	if len(candidates) == 0 {
		return []ScoredChunk{}, nil
	}
	if topK <= 0 {
		topK = defaultTopK
	}
	if s.reranker == nil {
		return nil, fmt.Errorf("%w: reranker is not configured", ErrRerankUnavailable)
	}

	payload := make([]Candidate, len(candidates))
	for i, c := range candidates {
		payload[i] = Candidate{ID: c.ID, Content: c.Content}
	}

	reranked, err := s.reranker.Rerank(ctx, query, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRerankUnavailable, err)
	}

	known := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		known[c.ID] = struct{}{}
	}

	scores := make(map[string]float64, len(reranked))
	for _, r := range reranked {
		// Identifiers the service invented are dropped rather than trusted.
		if _, ok := known[r.ID]; !ok {
			continue
		}
		scores[r.ID] = r.Score
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: service scored none of the %d candidates", ErrRerankUnavailable, len(candidates))
	}

	rescored := make([]ScoredChunk, 0, len(scores))
	for _, c := range candidates {
		score, ok := scores[c.ID]
		if !ok {
			continue
		}
		rescored = append(rescored, ScoredChunk{ID: c.ID, Content: c.Content, Score: score})
	}

	// Stable sort keeps the original candidate order on tied scores.
	sort.SliceStable(rescored, func(i, j int) bool {
		return rescored[i].Score > rescored[j].Score
	})

	if len(rescored) > topK {
		rescored = rescored[:topK]
	}
	for i := range rescored {
		rescored[i].Rank = i + 1
	}

	return rescored, nil
}

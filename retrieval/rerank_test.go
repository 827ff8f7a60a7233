package retrieval_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gloriarusenova/RAG-document-system/retrieval"
)

type stubReranker struct {
	scores []retrieval.RerankedScore
	err    error
	calls  int
}

func (s *stubReranker) Rerank(ctx context.Context, query string, candidates []retrieval.Candidate) ([]retrieval.RerankedScore, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.scores, nil
}

var _ retrieval.Reranker = (*stubReranker)(nil)

func coarseCandidates() []retrieval.ScoredChunk {
	return []retrieval.ScoredChunk{
		{ID: "docA:0", Content: "a", Score: 0.9, Rank: 1},
		{ID: "docA:1", Content: "b", Score: 0.8, Rank: 2},
		{ID: "docB:0", Content: "c", Score: 0.7, Rank: 3},
	}
}

func TestRerankEmptyCandidatesSkipsService(t *testing.T) {
	reranker := &stubReranker{}
	stage := retrieval.NewReRankStage(reranker)

	result, err := stage.Rerank(context.Background(), "query", nil, 5)
	if err != nil {
		t.Fatalf("rerank: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected empty result, got %d", len(result))
	}
	if reranker.calls != 0 {
		t.Fatalf("external service must not be called for empty candidates, got %d calls", reranker.calls)
	}
}

func TestRerankScoresSupersedeCoarseScores(t *testing.T) {
	reranker := &stubReranker{scores: []retrieval.RerankedScore{
		{ID: "docA:0", Score: 0.1},
		{ID: "docA:1", Score: 0.95},
		{ID: "docB:0", Score: 0.5},
	}}
	stage := retrieval.NewReRankStage(reranker)

	result, err := stage.Rerank(context.Background(), "query", coarseCandidates(), 5)
	if err != nil {
		t.Fatalf("rerank: %v", err)
	}

	wantOrder := []string{"docA:1", "docB:0", "docA:0"}
	if len(result) != len(wantOrder) {
		t.Fatalf("expected %d chunks, got %d", len(wantOrder), len(result))
	}
	for i, id := range wantOrder {
		if result[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, result[i].ID, id)
		}
		if result[i].Rank != i+1 {
			t.Errorf("position %d: rank %d, want %d", i, result[i].Rank, i+1)
		}
	}
	if result[0].Score != 0.95 {
		t.Errorf("coarse score not superseded: %f", result[0].Score)
	}
}

func TestRerankTrimsToTopK(t *testing.T) {
	reranker := &stubReranker{scores: []retrieval.RerankedScore{
		{ID: "docA:0", Score: 0.3},
		{ID: "docA:1", Score: 0.9},
		{ID: "docB:0", Score: 0.6},
	}}
	stage := retrieval.NewReRankStage(reranker)

	result, err := stage.Rerank(context.Background(), "query", coarseCandidates(), 2)
	if err != nil {
		t.Fatalf("rerank: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 chunks after trim, got %d", len(result))
	}
	if result[0].ID != "docA:1" || result[1].ID != "docB:0" {
		t.Fatalf("wrong top-2: %s, %s", result[0].ID, result[1].ID)
	}
}

func TestRerankTiesKeepOriginalOrder(t *testing.T) {
	reranker := &stubReranker{scores: []retrieval.RerankedScore{
		{ID: "docA:0", Score: 0.5},
		{ID: "docA:1", Score: 0.5},
		{ID: "docB:0", Score: 0.5},
	}}
	stage := retrieval.NewReRankStage(reranker)

	result, err := stage.Rerank(context.Background(), "query", coarseCandidates(), 5)
	if err != nil {
		t.Fatalf("rerank: %v", err)
	}

	wantOrder := []string{"docA:0", "docA:1", "docB:0"}
	for i, id := range wantOrder {
		if result[i].ID != id {
			t.Errorf("tied scores must keep candidate order: position %d got %s, want %s", i, result[i].ID, id)
		}
	}
}

func TestRerankDropsUnknownIDs(t *testing.T) {
	reranker := &stubReranker{scores: []retrieval.RerankedScore{
		{ID: "invented:99", Score: 1.0},
		{ID: "docA:1", Score: 0.8},
	}}
	stage := retrieval.NewReRankStage(reranker)

	result, err := stage.Rerank(context.Background(), "query", coarseCandidates(), 5)
	if err != nil {
		t.Fatalf("rerank: %v", err)
	}
	if len(result) != 1 || result[0].ID != "docA:1" {
		t.Fatalf("expected only docA:1, got %+v", result)
	}
}

func TestRerankServiceErrorIsRerankUnavailable(t *testing.T) {
	stage := retrieval.NewReRankStage(&stubReranker{err: errors.New("503")})

	_, err := stage.Rerank(context.Background(), "query", coarseCandidates(), 5)
	if !errors.Is(err, retrieval.ErrRerankUnavailable) {
		t.Fatalf("expected ErrRerankUnavailable, got %v", err)
	}
}

func TestRerankNoScoredCandidatesIsRerankUnavailable(t *testing.T) {
	stage := retrieval.NewReRankStage(&stubReranker{scores: []retrieval.RerankedScore{
		{ID: "invented:1", Score: 0.9},
	}})

	_, err := stage.Rerank(context.Background(), "query", coarseCandidates(), 5)
	if !errors.Is(err, retrieval.ErrRerankUnavailable) {
		t.Fatalf("expected ErrRerankUnavailable when nothing was scored, got %v", err)
	}
}

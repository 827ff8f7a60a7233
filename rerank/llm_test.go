package rerank_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gloriarusenova/RAG-document-system/llm"
	"github.com/gloriarusenova/RAG-document-system/rerank"
	"github.com/gloriarusenova/RAG-document-system/retrieval"
)

type stubLLM struct {
	output  string
	err     error
	gotUser string
}

func (s *stubLLM) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	for _, msg := range messages {
		if msg.Role == llm.RoleUser {
			s.gotUser = msg.Content
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return s.output, nil
}

var _ llm.Client = (*stubLLM)(nil)

func candidates() []retrieval.Candidate {
	return []retrieval.Candidate{
		{ID: "docA:0", Content: "alpha"},
		{ID: "docA:1", Content: "beta"},
	}
}

func TestLLMRerankerParsesScores(t *testing.T) {
	client := &stubLLM{output: `[{"id": "docA:0", "score": 0.2}, {"id": "docA:1", "score": 0.9}]`}
	reranker := rerank.NewLLMReranker(client)

	scores, err := reranker.Rerank(context.Background(), "which is beta?", candidates())
	if err != nil {
		t.Fatalf("rerank: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if scores[1].ID != "docA:1" || scores[1].Score != 0.9 {
		t.Errorf("unexpected score entry: %+v", scores[1])
	}

	if !strings.Contains(client.gotUser, "id=docA:0") || !strings.Contains(client.gotUser, "alpha") {
		t.Errorf("prompt must list candidate ids and content, got %q", client.gotUser)
	}
}

func TestLLMRerankerStripsCodeFence(t *testing.T) {
	client := &stubLLM{output: "```json\n[{\"id\": \"docA:0\", \"score\": 0.7}]\n```"}
	reranker := rerank.NewLLMReranker(client)

	scores, err := reranker.Rerank(context.Background(), "query", candidates())
	if err != nil {
		t.Fatalf("rerank: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 0.7 {
		t.Fatalf("unexpected scores: %+v", scores)
	}
}

func TestLLMRerankerRejectsNonJSON(t *testing.T) {
	client := &stubLLM{output: "the most relevant passage is the second one"}
	reranker := rerank.NewLLMReranker(client)

	if _, err := reranker.Rerank(context.Background(), "query", candidates()); err == nil {
		t.Fatal("expected parse error for prose output")
	}
}

func TestLLMRerankerPropagatesClientError(t *testing.T) {
	wantErr := errors.New("overloaded")
	reranker := rerank.NewLLMReranker(&stubLLM{err: wantErr})

	_, err := reranker.Rerank(context.Background(), "query", candidates())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}

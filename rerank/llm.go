// Package rerank implements the external re-ranking service contract with
// a chat-completion model scoring query/passage pairs.
package rerank

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gloriarusenova/RAG-document-system/llm"
	"github.com/gloriarusenova/RAG-document-system/retrieval"
)

const rerankSystemPrompt = `You are a relevance scoring system. You will receive a query and a numbered list of passages, each with an id.

Score every passage for how well it answers the query, from 0.0 (irrelevant) to 1.0 (directly answers it). Judge each passage on its own content against the query.

Return ONLY a JSON array, no other text, with one object per passage:
[{"id": "<passage id>", "score": <number>}, ...]`

type LLMReranker struct {
	client llm.Client
}

func NewLLMReranker(client llm.Client) *LLMReranker {
	return &LLMReranker{client: client}
}

func (r *LLMReranker) Rerank(ctx context.Context, query string, candidates []retrieval.Candidate) ([]retrieval.RerankedScore, error) {
	if r.client == nil {
		return nil, fmt.Errorf("llm client is not configured")
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString("Query:\n")
	sb.WriteString(query)
	sb.WriteString("\n\nPassages:\n")
	for i, c := range candidates {
		sb.WriteString(fmt.Sprintf("%d. id=%s\n%s\n\n", i+1, c.ID, c.Content))
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: rerankSystemPrompt},
		{Role: llm.RoleUser, Content: sb.String()},
	}

	output, err := r.client.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("rerank completion: %w", err)
	}

	var parsed []struct {
		ID    string  `json:"id"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(output)), &parsed); err != nil {
		return nil, fmt.Errorf("parse rerank response: %w", err)
	}

	scores := make([]retrieval.RerankedScore, len(parsed))
	for i, item := range parsed {
		scores[i] = retrieval.RerankedScore{ID: item.ID, Score: item.Score}
	}

	return scores, nil
}

// stripCodeFence unwraps a ```json ... ``` block when the model adds one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var _ retrieval.Reranker = (*LLMReranker)(nil)

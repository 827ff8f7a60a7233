package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gloriarusenova/RAG-document-system/embeddings"
)

// Options holds the shared, read-only retrieval knobs. Zero values select
// the defaults.
type Options struct {
	// CoarseLimit is the candidate count requested from vector search.
	CoarseLimit int
	// TopK is the final result length after re-ranking.
	TopK int
	// StageRetries is the number of extra attempts per external call.
	// Zero means every transient error is reported, not retried.
	StageRetries int
}

// Pipeline orchestrates embed, coarse vector search, and re-ranking into a
// single ranked Result. It holds no per-query state; concurrent Retrieve
// calls are independent.
type Pipeline struct {
	embedder embeddings.Embedder
	search   *VectorSearchStage
	rerank   *ReRankStage
	opts     Options
	logger   *log.Logger
}

func NewPipeline(embedder embeddings.Embedder, search *VectorSearchStage, rerank *ReRankStage, opts Options, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	if opts.CoarseLimit <= 0 {
		opts.CoarseLimit = defaultCoarseLimit
	}
	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}

	return &Pipeline{
		embedder: embedder,
		search:   search,
		rerank:   rerank,
		opts:     opts,
		logger:   logger,
	}
}

func (p *Pipeline) Retrieve(ctx context.Context, query string) (Result, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, fmt.Errorf("query cannot be empty")
	}
	if p.embedder == nil {
		return Result{}, fmt.Errorf("%w: embedder is not configured", ErrEmbeddingUnavailable)
	}
	if p.search == nil {
		return Result{}, fmt.Errorf("%w: search stage is not configured", ErrRetrievalUnavailable)
	}

	var embedding []float32
	err := p.withRetries(ctx, "embed", func() error {
		vectors, embedErr := p.embedder.Embed(ctx, []string{query})
		if embedErr != nil {
			return embedErr
		}
		if len(vectors) == 0 || len(vectors[0]) == 0 {
			return fmt.Errorf("embedder returned no vectors")
		}
		embedding = vectors[0]
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}

	var candidates []ScoredChunk
	err = p.withRetries(ctx, "vector search", func() error {
		var searchErr error
		candidates, searchErr = p.search.Search(ctx, embedding, p.opts.CoarseLimit)
		return searchErr
	})
	if err != nil {
		return Result{}, err
	}

	// Nothing to re-rank; an empty index is not an error.
	if len(candidates) == 0 {
		return Result{Query: query, Chunks: []ScoredChunk{}, Mode: ModeFull, Latency: time.Since(start)}, nil
	}

	if p.rerank == nil {
		return p.degraded(query, candidates, start, fmt.Errorf("%w: rerank stage is not configured", ErrRerankUnavailable))
	}

	var ranked []ScoredChunk
	err = p.withRetries(ctx, "rerank", func() error {
		var rerankErr error
		ranked, rerankErr = p.rerank.Rerank(ctx, query, candidates, p.opts.TopK)
		return rerankErr
	})
	if err != nil {
		// A canceled batch stops here rather than degrading.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("rerank: %w", ctxErr)
		}
		if errors.Is(err, ErrRerankUnavailable) {
			return p.degraded(query, candidates, start, err)
		}
		return Result{}, err
	}

	return Result{Query: query, Chunks: ranked, Mode: ModeFull, Latency: time.Since(start)}, nil
}

// degraded keeps the top candidates in coarse-score order and tags the
// result so callers can tell a partial run from a full one.
func (p *Pipeline) degraded(query string, candidates []ScoredChunk, start time.Time, cause error) (Result, error) {
	p.logger.Printf("degrading to coarse ranking for query %q: %v", query, cause)

	topK := p.opts.TopK
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	chunks := make([]ScoredChunk, len(candidates))
	copy(chunks, candidates)
	for i := range chunks {
		chunks[i].Rank = i + 1
	}

	return Result{Query: query, Chunks: chunks, Mode: ModeDegraded, Latency: time.Since(start)}, nil
}

func (p *Pipeline) withRetries(ctx context.Context, stage string, op func() error) error {
	var err error
	for attempt := 0; attempt <= p.opts.StageRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if attempt > 0 {
			p.logger.Printf("%s retry %d/%d after error: %v", stage, attempt, p.opts.StageRetries, err)
		}
		if err = op(); err == nil {
			return nil
		}
	}
	return err
}

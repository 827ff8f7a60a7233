package retrieval

import "errors"

// Sentinel errors for the retrieval stages. Wrapped errors carry the
// underlying cause; match with errors.Is.
var (
	// ErrEmbeddingUnavailable means the query embedding could not be
	// produced. Fatal to the whole retrieval, no fallback.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRetrievalUnavailable means the datastore could not be reached or
	// returned a malformed response.
	ErrRetrievalUnavailable = errors.New("vector search unavailable")

	// ErrRerankUnavailable means the re-ranking service failed. The
	// pipeline absorbs it by falling back to the coarse ordering.
	ErrRerankUnavailable = errors.New("rerank service unavailable")
)

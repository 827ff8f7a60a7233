package eval

import (
	"context"
	"errors"

	"github.com/gloriarusenova/RAG-document-system/retrieval"
)

var (
	// ErrGenerationUnavailable means the answer generator failed.
	ErrGenerationUnavailable = errors.New("answer generation unavailable")

	// ErrJudgeUnavailable means the judge's reasoning service failed.
	ErrJudgeUnavailable = errors.New("judge service unavailable")

	// ErrJudgeParse means the judge's response could not be parsed into a
	// verdict. Distinct from a negative verdict.
	ErrJudgeParse = errors.New("judge response unparseable")
)

// Kind names the error category of a failed question for reporting.
func Kind(err error) string {
	switch {
	case errors.Is(err, retrieval.ErrEmbeddingUnavailable):
		return "embedding_unavailable"
	case errors.Is(err, retrieval.ErrRetrievalUnavailable):
		return "retrieval_unavailable"
	case errors.Is(err, retrieval.ErrRerankUnavailable):
		return "rerank_unavailable"
	case errors.Is(err, ErrGenerationUnavailable):
		return "generation_unavailable"
	case errors.Is(err, ErrJudgeParse):
		return "judge_parse_error"
	case errors.Is(err, ErrJudgeUnavailable):
		return "judge_unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "unknown"
	}
}

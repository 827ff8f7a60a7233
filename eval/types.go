package eval

import (
	"github.com/gloriarusenova/RAG-document-system/retrieval"
)

// TestQuestion is one labeled record of a question set: the question text,
// the expected answer, and the ground-truth relevant chunk IDs.
type TestQuestion struct {
	Question       string   `json:"question"`
	ExpectedAnswer string   `json:"expected_answer"`
	RelevantDocIDs []string `json:"relevant_doc_ids"`
}

// Metrics holds the ranking-quality scores for a single question.
type Metrics struct {
	Precision float64
	Recall    float64
	MRR       float64
}

// Verdict is the judge's classification of a generated answer.
type Verdict struct {
	Correct   bool
	Rationale string
}

// Result is the per-question evaluation record, assembled once and never
// mutated afterwards.
type Result struct {
	Question  TestQuestion
	Retrieval retrieval.Result
	Answer    string
	Metrics   Metrics
	Correct   bool
	Rationale string
}

// Failure records a question that could not be evaluated and why.
type Failure struct {
	Question TestQuestion
	Err      error
}

// AggregateMetrics are batch-level means, recomputed on demand from a
// result slice and never persisted.
type AggregateMetrics struct {
	MeanPrecision   float64
	MeanRecall      float64
	MeanMRR         float64
	CorrectnessRate float64
	Evaluated       int
}

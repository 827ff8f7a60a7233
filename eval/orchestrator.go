package eval

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/gloriarusenova/RAG-document-system/retrieval"
)

const defaultWorkers = 4

// Retriever is the slice of the retrieval pipeline the orchestrator needs.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (retrieval.Result, error)
}

// Orchestrator drives the full evaluation cycle per labeled question:
// retrieve evidence, generate an answer, score the ranking, judge the
// answer. Questions run concurrently up to a bounded worker count; one
// question's failure never aborts the batch.
type Orchestrator struct {
	retriever Retriever
	generator Generator
	judge     Judge
	workers   int
	logger    *log.Logger
}

func NewOrchestrator(retriever Retriever, generator Generator, judge Judge, workers int, logger *log.Logger) *Orchestrator {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Orchestrator{
		retriever: retriever,
		generator: generator,
		judge:     judge,
		workers:   workers,
		logger:    logger,
	}
}

// EvaluateBatch evaluates every question and returns the successful
// results plus a failure record for each question that could not complete.
// Result order follows completion, not input order; each Result carries
// its own TestQuestion. On cancellation, dispatching stops and the
// remaining questions are recorded as failures with the context error.
func (o *Orchestrator) EvaluateBatch(ctx context.Context, questions []TestQuestion) ([]Result, []Failure) {
	if len(questions) == 0 {
		return nil, nil
	}

	workers := o.workers
	if workers > len(questions) {
		workers = len(questions)
	}

	runID := uuid.NewString()
	o.logger.Printf("evaluation run %s: %d questions, %d workers", runID, len(questions), workers)

	type outcome struct {
		result  Result
		failure *Failure
	}

	jobs := make(chan TestQuestion)
	outcomes := make(chan outcome, len(questions))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range jobs {
				result, err := o.evaluateOne(ctx, q)
				if err != nil {
					outcomes <- outcome{failure: &Failure{Question: q, Err: err}}
					continue
				}
				outcomes <- outcome{result: result}
			}
		}()
	}

	dispatched := len(questions)
dispatch:
	for i, q := range questions {
		select {
		case <-ctx.Done():
			dispatched = i
			break dispatch
		case jobs <- q:
		}
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	// Fold sequentially after join; no shared accumulator is written by
	// the workers.
	results := make([]Result, 0, len(questions))
	failures := make([]Failure, 0)
	for out := range outcomes {
		if out.failure != nil {
			failures = append(failures, *out.failure)
			continue
		}
		results = append(results, out.result)
	}

	for _, q := range questions[dispatched:] {
		failures = append(failures, Failure{Question: q, Err: fmt.Errorf("not dispatched: %w", ctx.Err())})
	}

	o.logger.Printf("evaluation run %s: %d evaluated, %d failed", runID, len(results), len(failures))
	return results, failures
}

func (o *Orchestrator) evaluateOne(ctx context.Context, q TestQuestion) (Result, error) {
	retrieved, err := o.retriever.Retrieve(ctx, q.Question)
	if err != nil {
		return Result{}, fmt.Errorf("retrieve: %w", err)
	}

	answer, err := o.generator.Generate(ctx, q.Question, retrieved.Contents())
	if err != nil {
		return Result{}, fmt.Errorf("generate: %w", err)
	}

	metrics := CalculateRetrievalMetrics(retrieved.ChunkIDs(), q.RelevantDocIDs)

	verdict, err := o.judge.Judge(ctx, q.Question, q.ExpectedAnswer, answer)
	if err != nil {
		return Result{}, fmt.Errorf("judge: %w", err)
	}

	return Result{
		Question:  q,
		Retrieval: retrieved,
		Answer:    answer,
		Metrics:   metrics,
		Correct:   verdict.Correct,
		Rationale: verdict.Rationale,
	}, nil
}

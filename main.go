package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gloriarusenova/RAG-document-system/config"
	"github.com/gloriarusenova/RAG-document-system/database"
	"github.com/gloriarusenova/RAG-document-system/datastore"
	"github.com/gloriarusenova/RAG-document-system/embeddings"
	"github.com/gloriarusenova/RAG-document-system/eval"
	"github.com/gloriarusenova/RAG-document-system/llm"
	"github.com/gloriarusenova/RAG-document-system/rerank"
	"github.com/gloriarusenova/RAG-document-system/retrieval"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()

	switch os.Args[1] {
	case "load":
		loadCmd(cfg, logger, os.Args[2:])
	case "query":
		queryCmd(cfg, logger, os.Args[2:])
	case "eval":
		evalCmd(cfg, logger, os.Args[2:])
	case "clear":
		clearCmd(cfg, logger, os.Args[2:])
	default:
		logger.Printf("unknown command: %s", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func loadCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("load", flag.ExitOnError)
	file := flags.String("file", "sample_data/corpus.json", "path to pre-chunked corpus JSON file")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse load flags: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalf("postgres connection: %v", err)
	}
	defer pool.Close()

	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		logger.Fatalf("embedder setup: %v", err)
	}

	loader := datastore.NewLoader(pool, embedder, logger, cfg.Embeddings.Dimension)
	logger.Printf("loading chunks from %s using %s/%s embeddings", *file, strings.ToUpper(cfg.Embeddings.Provider), cfg.Embeddings.Model)

	if err := loader.LoadFile(ctx, *file); err != nil {
		logger.Fatalf("load failed: %v", err)
	}
}

func queryCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("query", flag.ExitOnError)
	question := flags.String("question", "", "question to retrieve evidence for")
	coarseLimit := flags.Int("coarse-limit", cfg.Retrieval.CoarseLimit, "candidate count for the coarse vector search")
	topK := flags.Int("top-k", cfg.Retrieval.TopK, "final result count after re-ranking")
	answer := flags.Bool("answer", true, "generate an answer from the retrieved evidence")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse query flags: %v", err)
	}

	if strings.TrimSpace(*question) == "" {
		fmt.Print("Enter your question: ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			*question = scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			logger.Fatalf("read question: %v", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalf("postgres connection: %v", err)
	}
	defer pool.Close()

	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		logger.Fatalf("embedder setup: %v", err)
	}

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		logger.Fatalf("llm setup: %v", err)
	}

	pipeline := newPipeline(pool, embedder, llmClient, retrieval.Options{
		CoarseLimit:  *coarseLimit,
		TopK:         *topK,
		StageRetries: cfg.Retrieval.StageRetries,
	}, logger)

	result, err := pipeline.Retrieve(ctx, *question)
	if err != nil {
		logger.Fatalf("retrieval failed: %v", err)
	}

	fmt.Printf("Retrieved %d chunks in %s (%s mode)\n", len(result.Chunks), result.Latency.Round(time.Millisecond), result.Mode)
	for _, chunk := range result.Chunks {
		fmt.Printf("%d. %s (score %.4f)\n", chunk.Rank, chunk.ID, chunk.Score)
		fmt.Printf("   %s\n", snippet(chunk.Content, 200))
	}

	if *answer {
		generator := eval.NewLLMGenerator(llmClient, logger)
		text, err := generator.Generate(ctx, *question, result.Contents())
		if err != nil {
			logger.Fatalf("answer generation failed: %v", err)
		}
		fmt.Println()
		fmt.Println(text)
	}
}

func evalCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("eval", flag.ExitOnError)
	file := flags.String("file", "sample_data/sample_questions.json", "path to question set JSON file")
	workers := flags.Int("workers", cfg.Eval.Workers, "concurrent evaluation workers")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse eval flags: %v", err)
	}

	questions, err := eval.LoadQuestions(*file)
	if err != nil {
		logger.Fatalf("load questions: %v", err)
	}
	if len(questions) == 0 {
		logger.Fatalf("no questions found in %s", *file)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalf("postgres connection: %v", err)
	}
	defer pool.Close()

	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		logger.Fatalf("embedder setup: %v", err)
	}

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		logger.Fatalf("llm setup: %v", err)
	}

	pipeline := newPipeline(pool, embedder, llmClient, retrieval.Options{
		CoarseLimit:  cfg.Retrieval.CoarseLimit,
		TopK:         cfg.Retrieval.TopK,
		StageRetries: cfg.Retrieval.StageRetries,
	}, logger)

	orchestrator := eval.NewOrchestrator(
		pipeline,
		eval.NewLLMGenerator(llmClient, logger),
		eval.NewLLMJudge(llmClient),
		*workers,
		logger,
	)

	results, failures := orchestrator.EvaluateBatch(ctx, questions)
	printReport(results, failures)
}

func clearCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("clear", flag.ExitOnError)
	confirmed := flags.Bool("confirm", false, "skip confirmation prompt")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse clear flags: %v", err)
	}

	if !*confirmed {
		fmt.Print("This will permanently delete all indexed chunks from Postgres. Continue? [y/N]: ")
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				logger.Fatalf("read confirmation: %v", err)
			}
			logger.Println("clear aborted")
			return
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer != "y" && answer != "yes" {
			logger.Println("clear aborted")
			return
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalf("postgres connection: %v", err)
	}
	defer pool.Close()

	store := datastore.NewPostgres(pool)
	if err := store.Clear(ctx); err != nil {
		logger.Fatalf("clear chunks: %v", err)
	}
	logger.Println("indexed chunks removed")
}

func newPipeline(pool *pgxpool.Pool, embedder embeddings.Embedder, llmClient llm.Client, opts retrieval.Options, logger *log.Logger) *retrieval.Pipeline {
	store := datastore.NewPostgres(pool)
	search := retrieval.NewVectorSearchStage(store)
	rerankStage := retrieval.NewReRankStage(rerank.NewLLMReranker(llmClient))
	return retrieval.NewPipeline(embedder, search, rerankStage, opts, logger)
}

func printReport(results []eval.Result, failures []eval.Failure) {
	for i, result := range results {
		status := "FAIL"
		if result.Correct {
			status = "PASS"
		}
		fmt.Printf("[%s] Q%d: %s\n", status, i+1, result.Question.Question)
		fmt.Printf("  Answer: %s\n", snippet(result.Answer, 300))
		fmt.Printf("  Expected: %s\n", snippet(result.Question.ExpectedAnswer, 300))
		if result.Rationale != "" {
			fmt.Printf("  Rationale: %s\n", snippet(result.Rationale, 300))
		}
		fmt.Printf("  Precision: %.3f  Recall: %.3f  MRR: %.3f  (retrieval %s, %s)\n",
			result.Metrics.Precision, result.Metrics.Recall, result.Metrics.MRR,
			result.Retrieval.Mode, result.Retrieval.Latency.Round(time.Millisecond))
		fmt.Println("--------------------------------")
	}

	for _, failure := range failures {
		fmt.Printf("[ERROR] %s: %s (%v)\n", eval.Kind(failure.Err), failure.Question.Question, failure.Err)
	}

	agg := eval.Aggregate(results)
	fmt.Printf("Evaluated %d questions, %d failures\n", agg.Evaluated, len(failures))
	if agg.Evaluated > 0 {
		fmt.Printf("Correct: %.0f%%  Mean Precision: %.3f  Mean Recall: %.3f  Mean MRR: %.3f\n",
			agg.CorrectnessRate*100, agg.MeanPrecision, agg.MeanRecall, agg.MeanMRR)
	}
}

func snippet(s string, max int) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func printUsage() {
	fmt.Println("Usage: rag-eval <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  load     Load a pre-chunked corpus file into the datastore")
	fmt.Println("  query    Retrieve ranked evidence (and optionally an answer) for a question")
	fmt.Println("  eval     Run the labeled question set through the full pipeline and score it")
	fmt.Println("  clear    Remove all indexed chunks from the datastore")
}

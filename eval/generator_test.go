package eval_test

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/gloriarusenova/RAG-document-system/eval"
)

func TestGeneratorExtractsResultTag(t *testing.T) {
	client := &stubLLM{output: "<reasoning>Passage 1 covers this.</reasoning>\n<result>The deadline is March 1.</result>"}
	gen := eval.NewLLMGenerator(client, log.New(io.Discard, "", 0))

	answer, err := gen.Generate(context.Background(), "When is the deadline?", []string{"The deadline is March 1."})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if answer != "The deadline is March 1." {
		t.Errorf("unexpected answer: %q", answer)
	}

	if !strings.Contains(client.gotSys, "The deadline is March 1.") {
		t.Error("context chunks must be embedded in the system prompt")
	}
}

func TestGeneratorFallsBackToFullOutput(t *testing.T) {
	client := &stubLLM{output: "  The deadline is March 1.  "}
	gen := eval.NewLLMGenerator(client, log.New(io.Discard, "", 0))

	answer, err := gen.Generate(context.Background(), "When is the deadline?", []string{"ctx"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if answer != "The deadline is March 1." {
		t.Errorf("expected trimmed full output, got %q", answer)
	}
}

func TestGeneratorErrorIsGenerationUnavailable(t *testing.T) {
	client := &stubLLM{err: errors.New("rate limited")}
	gen := eval.NewLLMGenerator(client, log.New(io.Discard, "", 0))

	_, err := gen.Generate(context.Background(), "q", nil)
	if !errors.Is(err, eval.ErrGenerationUnavailable) {
		t.Fatalf("expected ErrGenerationUnavailable, got %v", err)
	}
}

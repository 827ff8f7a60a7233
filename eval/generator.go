package eval

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gloriarusenova/RAG-document-system/llm"
)

const generatorSystemPrompt = `You are a meticulous AI assistant. Answer the user's question based ONLY on the provided context.

Follow these steps:
1. Write a step-by-step reasoning of how the context answers the question, inside <reasoning>...</reasoning> tags. Name which context passages are relevant and how they combine.
2. Then give the final, concise answer inside <result>...</result> tags.

If the context does not contain the information needed, say so clearly in both the reasoning and the result. Do not make up information.

Context:
%s`

// Generator produces an answer from a question and its retrieved context
// chunks.
type Generator interface {
	Generate(ctx context.Context, question string, contextChunks []string) (string, error)
}

// LLMGenerator prompts a chat model with chain-of-thought instructions and
// extracts the final answer from the tagged output.
type LLMGenerator struct {
	client llm.Client
	logger *log.Logger
}

func NewLLMGenerator(client llm.Client, logger *log.Logger) *LLMGenerator {
	if logger == nil {
		logger = log.Default()
	}
	return &LLMGenerator{client: client, logger: logger}
}

func (g *LLMGenerator) Generate(ctx context.Context, question string, contextChunks []string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("%w: llm client is not configured", ErrGenerationUnavailable)
	}

	contextBlock := strings.Join(contextChunks, "\n---\n")
	if len(contextChunks) == 0 {
		contextBlock = "(no context retrieved)"
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(generatorSystemPrompt, contextBlock)},
		{Role: llm.RoleUser, Content: question},
	}

	output, err := g.client.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	answer, ok := extractXMLTag(output, "result")
	if !ok {
		// The model ignored the format; the full text is still an answer.
		g.logger.Printf("generator output missing <result> tag, using full response")
		return strings.TrimSpace(output), nil
	}

	return answer, nil
}

var _ Generator = (*LLMGenerator)(nil)

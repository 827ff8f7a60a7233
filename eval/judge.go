package eval

import (
	"context"
	"fmt"
	"strings"

	"github.com/gloriarusenova/RAG-document-system/llm"
)

const judgeSystemPrompt = `You are a system that evaluates the correctness of a response to a question.
The question will be provided in <question>...</question> tags.
The response will be provided in <response>...</response> tags.
The expected answer will be provided in <expected_answer>...</expected_answer> tags.

The response does not have to match every word of the expected answer. It just needs to be right about the answer to the actual question itself.

Evaluate whether the response is correct or not, and return your reasoning in <reasoning>...</reasoning> tags.
Then return the result in <result>...</result> tags, as either 'true' or 'false'.`

// Judge classifies a generated answer against the expected answer.
type Judge interface {
	Judge(ctx context.Context, question, expectedAnswer, generatedAnswer string) (Verdict, error)
}

// LLMJudge delegates to a reasoning model and parses its tagged output.
// An unparseable response is an error, never a silent false verdict.
type LLMJudge struct {
	client llm.Client
}

func NewLLMJudge(client llm.Client) *LLMJudge {
	return &LLMJudge{client: client}
}

func (j *LLMJudge) Judge(ctx context.Context, question, expectedAnswer, generatedAnswer string) (Verdict, error) {
	if j.client == nil {
		return Verdict{}, fmt.Errorf("%w: llm client is not configured", ErrJudgeUnavailable)
	}

	userPrompt := fmt.Sprintf(
		"<question>\n%s\n</question>\n<response>\n%s\n</response>\n<expected_answer>\n%s\n</expected_answer>",
		question, generatedAnswer, expectedAnswer,
	)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: judgeSystemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	}

	output, err := j.client.Generate(ctx, messages)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrJudgeUnavailable, err)
	}

	result, ok := extractXMLTag(output, "result")
	if !ok {
		return Verdict{}, fmt.Errorf("%w: no <result> tag in %q", ErrJudgeParse, truncate(output, 200))
	}

	var correct bool
	switch strings.ToLower(result) {
	case "true":
		correct = true
	case "false":
		correct = false
	default:
		return Verdict{}, fmt.Errorf("%w: result %q is not true/false", ErrJudgeParse, truncate(result, 50))
	}

	rationale, _ := extractXMLTag(output, "reasoning")

	return Verdict{Correct: correct, Rationale: rationale}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

var _ Judge = (*LLMJudge)(nil)

package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoadQuestions reads a question-set file: a JSON array of
// {question, expected_answer, relevant_doc_ids} records. Relevant IDs are
// deduplicated preserving order; they follow the datastore's
// <sourceName>:<chunkIndex> convention.
func LoadQuestions(path string) ([]TestQuestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question set: %w", err)
	}

	var questions []TestQuestion
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse question set: %w", err)
	}

	for i := range questions {
		questions[i].Question = strings.TrimSpace(questions[i].Question)
		if questions[i].Question == "" {
			return nil, fmt.Errorf("question %d has empty question text", i)
		}
		questions[i].RelevantDocIDs = uniqueIDs(questions[i].RelevantDocIDs)
	}

	return questions, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

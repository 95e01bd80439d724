package app

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validMCQJSON = `[
  {"question": "What is 2+2?", "options": ["3", "4", "5", "6"], "answer": "B", "explanation": "Basic addition."},
  {"question": "Capital of France?", "options": ["Paris", "Lyon"], "answer": "A", "explanation": "Geography."},
  {"question": "Water formula?", "options": ["H2O", "CO2", "O2"], "answer": "A", "explanation": "Chemistry."}
]`

var answerPattern = regexp.MustCompile(`^Correct: .+ - .+$`)

func questionContext() []RetrievedChunk {
	return []RetrievedChunk{
		{Text: "Arithmetic basics.", Score: 0.9, Index: 0},
		{Text: "European capitals.", Score: 0.8, Index: 1},
	}
}

func TestQuestionFlowEndToEnd(t *testing.T) {
	retriever := &fakeRetriever{results: questionContext()}
	generator := &fakeGenerator{responses: []string{validMCQJSON}}
	flow := NewQuestionFlow(retriever, generator)

	result, err := flow.Run(context.Background(), QuestionInput{DocumentID: "doc-1", NumQuestions: 3})
	require.NoError(t, err)
	require.Len(t, result.Questions, 3)
	require.Len(t, result.Answers, 3)

	assert.Contains(t, result.Questions[0], "What is 2+2?")
	assert.Contains(t, result.Questions[0], "  A. 3\n")
	assert.Contains(t, result.Questions[0], "  B. 4\n")
	for _, a := range result.Answers {
		assert.Regexp(t, answerPattern, a)
	}
	assert.Equal(t, "Correct: B - Basic addition.", result.Answers[0])

	// Retrieval uses the fixed importance query with top 10.
	require.Len(t, retriever.queries, 1)
	assert.Equal(t, "important key points", retriever.queries[0])
	assert.Equal(t, 10, retriever.topKs[0])

	// One generation call; the prompt carries the retrieved material and
	// the requested count.
	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "create 3 objective MCQ questions")
	assert.Contains(t, generator.prompts[0], "Arithmetic basics.")
}

func TestQuestionFlowDefaultsQuestionCount(t *testing.T) {
	generator := &fakeGenerator{responses: []string{validMCQJSON}}
	flow := NewQuestionFlow(&fakeRetriever{results: questionContext()}, generator)

	_, err := flow.Run(context.Background(), QuestionInput{DocumentID: "doc-1"})
	require.NoError(t, err)
	assert.Contains(t, generator.prompts[0], "create 5 objective MCQ questions")
}

func TestQuestionFlowEmptyContext(t *testing.T) {
	generator := &fakeGenerator{}
	flow := NewQuestionFlow(&fakeRetriever{}, generator)

	result, err := flow.Run(context.Background(), QuestionInput{DocumentID: "doc-1", NumQuestions: 3})
	require.NoError(t, err)
	assert.Empty(t, result.Questions)
	assert.Empty(t, result.Answers)
	assert.Empty(t, generator.prompts, "no generation call without context")
}

func TestQuestionFlowRepairPath(t *testing.T) {
	generator := &fakeGenerator{responses: []string{
		"Sure! Here are your questions: {not json",
		"```json\n" + validMCQJSON + "\n```",
	}}
	flow := NewQuestionFlow(&fakeRetriever{results: questionContext()}, generator)

	result, err := flow.Run(context.Background(), QuestionInput{DocumentID: "doc-1", NumQuestions: 3})
	require.NoError(t, err)
	assert.Len(t, result.Questions, 3)

	require.Len(t, generator.prompts, 2)
	assert.Contains(t, generator.prompts[1], "fix it to valid JSON")
	assert.Contains(t, generator.prompts[1], "{not json", "repair prompt includes the malformed output verbatim")
}

func TestQuestionFlowRepairAlsoFails(t *testing.T) {
	generator := &fakeGenerator{responses: []string{"garbage one", "garbage two"}}
	flow := NewQuestionFlow(&fakeRetriever{results: questionContext()}, generator)

	result, err := flow.Run(context.Background(), QuestionInput{DocumentID: "doc-1", NumQuestions: 3})
	require.NoError(t, err)
	assert.Empty(t, result.Questions)
	assert.Empty(t, result.Answers)
	assert.Len(t, generator.prompts, 2, "exactly one repair attempt")
}

func TestQuestionFlowGenerationErrorDegradesToEmpty(t *testing.T) {
	generator := &fakeGenerator{errs: []error{errors.New("model timeout")}}
	flow := NewQuestionFlow(&fakeRetriever{results: questionContext()}, generator)

	result, err := flow.Run(context.Background(), QuestionInput{DocumentID: "doc-1", NumQuestions: 3})
	require.NoError(t, err)
	assert.Empty(t, result.Questions)
}

func TestQuestionFlowRetrievalErrorPropagates(t *testing.T) {
	flow := NewQuestionFlow(&fakeRetriever{err: errors.New("embedding down")}, &fakeGenerator{})
	_, err := flow.Run(context.Background(), QuestionInput{DocumentID: "doc-1"})
	require.Error(t, err)
}

func TestQuestionFlowMalformedItemsDegradeGracefully(t *testing.T) {
	partial := `[{"question": "Only a question"}, {"options": ["A only"], "answer": "A"}]`
	flow := NewQuestionFlow(&fakeRetriever{results: questionContext()},
		&fakeGenerator{responses: []string{partial}})

	result, err := flow.Run(context.Background(), QuestionInput{DocumentID: "doc-1", NumQuestions: 2})
	require.NoError(t, err)
	require.Len(t, result.Questions, 2)
	assert.Equal(t, "Only a question\n", result.Questions[0])
	assert.Equal(t, "Correct:  - ", result.Answers[0])
	assert.Contains(t, result.Questions[1], "  A. A only\n")
	assert.Equal(t, "Correct: A - ", result.Answers[1])
}

func TestExtractJSONArray(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"fenced block", "Here you go:\n```\n[1, 2]\n```\nEnjoy!", "[1, 2]"},
		{"prose wrapped", "The answer is [1, 2] as requested.", "[1, 2]"},
		{"raw array", `[{"question": "q"}]`, `[{"question": "q"}]`},
		{"no array at all", "nothing here", "nothing here"},
		{"fenced with language tag", "```json\n[3, 4]\n```", "[3, 4]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extractJSONArray(tc.in)
			assert.Equal(t, tc.want, got)
			if strings.HasPrefix(tc.want, "[") {
				assert.True(t, strings.HasPrefix(got, "[") && strings.HasSuffix(got, "]"))
			}
		})
	}
}

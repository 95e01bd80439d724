package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

const (
	defaultNumQuestions = 5
	questionQuery       = "important key points"
	questionTopK        = 10
)

// QuestionInput is the request-shaped state for one MCQ generation run.
type QuestionInput struct {
	DocumentID   string
	NumQuestions int
}

// QuestionResult holds rendered question and answer blocks, in item order.
type QuestionResult struct {
	Questions []string `json:"questions"`
	Answers   []string `json:"answers"`
}

// QuestionFlow generates multiple-choice questions grounded in a document's
// retrieved chunks. It always returns a well-formed, possibly empty result:
// missing context, malformed model output, and generation failures all
// degrade to zero questions instead of failing the request. Only retrieval
// (embedding/storage) errors propagate.
type QuestionFlow struct {
	retriever ChunkRetriever
	generator Generator
}

func NewQuestionFlow(retriever ChunkRetriever, generator Generator) *QuestionFlow {
	return &QuestionFlow{retriever: retriever, generator: generator}
}

type mcqItem struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

func (f *QuestionFlow) Run(ctx context.Context, input QuestionInput) (*QuestionResult, error) {
	result := &QuestionResult{Questions: []string{}, Answers: []string{}}

	chunks, err := f.retriever.Retrieve(ctx, input.DocumentID, questionQuery, questionTopK)
	if err != nil {
		return nil, err
	}
	material := joinChunkTexts(chunks)
	if strings.TrimSpace(material) == "" {
		return result, nil
	}

	numQuestions := input.NumQuestions
	if numQuestions <= 0 {
		numQuestions = defaultNumQuestions
	}

	for _, item := range f.generateItems(ctx, mcqPrompt(numQuestions, material)) {
		result.Questions = append(result.Questions, renderQuestionBlock(item))
		result.Answers = append(result.Answers, renderAnswerBlock(item))
	}
	return result, nil
}

// generateItems invokes the model and parses its output, with exactly one
// repair attempt when the first response is not a valid JSON array. Both
// generation calls swallow errors; the worst case is an empty item list.
func (f *QuestionFlow) generateItems(ctx context.Context, prompt string) []mcqItem {
	raw, err := f.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("mcq generation failed: %v", err)
		return nil
	}
	if items, ok := parseMCQItems(raw); ok {
		return items
	}

	fixed, err := f.generator.Generate(ctx, repairPrompt(raw))
	if err != nil {
		log.Printf("mcq repair generation failed: %v", err)
		return nil
	}
	items, ok := parseMCQItems(fixed)
	if !ok {
		log.Printf("mcq repair attempt still produced invalid json, returning zero questions")
		return nil
	}
	return items
}

func parseMCQItems(response string) ([]mcqItem, bool) {
	var items []mcqItem
	if err := json.Unmarshal([]byte(extractJSONArray(response)), &items); err != nil {
		return nil, false
	}
	return items, true
}

// extractJSONArray pulls a candidate JSON array out of a model response.
// Order of preference: a fenced code block whose trimmed content is an
// array, then the span from the first '[' to the last ']', then the raw
// response unchanged.
func extractJSONArray(text string) string {
	text = strings.TrimSpace(text)

	if strings.Contains(text, "```") {
		for _, part := range strings.Split(text, "```") {
			part = strings.TrimSpace(part)
			if strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]") {
				return part
			}
		}
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

func renderQuestionBlock(item mcqItem) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(item.Question))
	b.WriteString("\n")
	for i, opt := range item.Options {
		fmt.Fprintf(&b, "  %c. %s\n", 'A'+i, opt)
	}
	return b.String()
}

func renderAnswerBlock(item mcqItem) string {
	return fmt.Sprintf("Correct: %s - %s",
		strings.TrimSpace(item.Answer), strings.TrimSpace(item.Explanation))
}

func joinChunkTexts(chunks []RetrievedChunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, "\n\n")
}

func mcqPrompt(numQuestions int, material string) string {
	return fmt.Sprintf(`You are a teacher. Based ONLY on the following study material, create %d objective MCQ questions.

Material:
%s

Return ONLY a JSON array with this exact structure, no extra text:

[
  {
    "question": "Question text here",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "answer": "B",
    "explanation": "Short explanation of why this is correct."
  }
]
`, numQuestions, material)
}

func repairPrompt(previous string) string {
	return fmt.Sprintf(`You previously tried to return MCQs but the JSON was invalid.

Now return ONLY a valid JSON array of MCQs in this format, no explanation text outside the JSON:

[
  {
    "question": "Question text here",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "answer": "B",
    "explanation": "Short explanation of why this is correct."
  }
]

Here is your previous output, fix it to valid JSON:
`+"```text\n%s\n```", previous)
}

package app

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// SummaryMode selects the summary handler for a run.
type SummaryMode string

const (
	SummaryModeFull  SummaryMode = "full"
	SummaryModeTopic SummaryMode = "topic"
)

const (
	fullSummaryQuery = "overall content of document"
	fullSummaryTopK  = 15
	topicSummaryTopK = 8
)

// SummaryInput is the request-shaped state for one summary run.
type SummaryInput struct {
	DocumentID string
	Mode       SummaryMode
	Topic      string
}

type SummaryResult struct {
	Summary string `json:"summary"`
}

// SummaryFlow produces unstructured prose summaries from retrieved chunks.
// The mode tag routes to the full-document or topic handler; unknown modes
// fall through to full. Generation failures propagate to the caller; a
// document with no matching content yields a fixed explanatory message.
type SummaryFlow struct {
	retriever ChunkRetriever
	generator Generator
	cache     SummaryCache // nil disables caching
}

func NewSummaryFlow(retriever ChunkRetriever, generator Generator, cache SummaryCache) *SummaryFlow {
	return &SummaryFlow{retriever: retriever, generator: generator, cache: cache}
}

func (f *SummaryFlow) Run(ctx context.Context, input SummaryInput) (*SummaryResult, error) {
	if cached, ok := f.cacheGet(ctx, input); ok {
		return &SummaryResult{Summary: cached}, nil
	}

	var summary string
	var err error
	switch input.Mode {
	case SummaryModeTopic:
		summary, err = f.topicSummary(ctx, input.DocumentID, input.Topic)
	default:
		summary, err = f.fullSummary(ctx, input.DocumentID)
	}
	if err != nil {
		return nil, err
	}

	f.cacheSet(ctx, input, summary)
	return &SummaryResult{Summary: summary}, nil
}

func (f *SummaryFlow) fullSummary(ctx context.Context, documentID string) (string, error) {
	chunks, err := f.retriever.Retrieve(ctx, documentID, fullSummaryQuery, fullSummaryTopK)
	if err != nil {
		return "", err
	}
	material := joinChunkTexts(chunks)
	if strings.TrimSpace(material) == "" {
		return "There is no text to summarize for this document. It may be an image-only or empty file.", nil
	}

	prompt := `Summarize the following document in a clear, concise way for a student.
Focus on the main ideas, important definitions, and any key formulas.

Text:
` + material

	return f.generator.Generate(ctx, prompt)
}

func (f *SummaryFlow) topicSummary(ctx context.Context, documentID, topic string) (string, error) {
	chunks, err := f.retriever.Retrieve(ctx, documentID, topic, topicSummaryTopK)
	if err != nil {
		return "", err
	}
	material := joinChunkTexts(chunks)
	if strings.TrimSpace(material) == "" {
		return fmt.Sprintf("There is no text related to the topic %q in this document or the document contains no extractable text.", topic), nil
	}

	prompt := fmt.Sprintf(`You are an AI tutor. Summarize ONLY the parts of this text relevant to the topic: %q.

Text:
%s
`, topic, material)

	return f.generator.Generate(ctx, prompt)
}

func (f *SummaryFlow) cacheGet(ctx context.Context, input SummaryInput) (string, bool) {
	if f.cache == nil {
		return "", false
	}
	summary, ok, err := f.cache.Get(ctx, input.DocumentID, string(input.Mode), input.Topic)
	if err != nil {
		log.Printf("summary cache get failed: %v", err)
		return "", false
	}
	return summary, ok
}

func (f *SummaryFlow) cacheSet(ctx context.Context, input SummaryInput, summary string) {
	if f.cache == nil {
		return
	}
	if err := f.cache.Set(ctx, input.DocumentID, string(input.Mode), input.Topic, summary); err != nil {
		log.Printf("summary cache set failed: %v", err)
	}
}

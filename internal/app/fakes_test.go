package app

import (
	"context"
	"fmt"
	"time"

	"pdftutor/internal/model"
)

// fakeEmbedder returns canned vectors by exact text match, with a fallback
// for anything unlisted. It records every single-text embed query.
type fakeEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	queries  []string
	embedErr error
	batchErr error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.queries = append(f.queries, text)
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.lookup(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.lookup(t)
	}
	return out, nil
}

func (f *fakeEmbedder) lookup(text string) []float32 {
	if v, ok := f.vectors[text]; ok {
		return v
	}
	if f.fallback != nil {
		return f.fallback
	}
	return []float32{1, 1, 1}
}

type fakeChunkStore struct {
	chunks    []model.Chunk
	createErr error
	listErr   error
}

func (f *fakeChunkStore) CreateBatch(chunks []model.Chunk) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeChunkStore) ListByDocumentID(documentID string) ([]model.Chunk, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Chunk
	for _, c := range f.chunks {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChunkStore) DeleteByDocumentID(documentID string) error {
	var kept []model.Chunk
	for _, c := range f.chunks {
		if c.DocumentID != documentID {
			kept = append(kept, c)
		}
	}
	f.chunks = kept
	return nil
}

type fakeDocumentStore struct {
	docs []model.Document
}

func (f *fakeDocumentStore) Create(doc *model.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	f.docs = append(f.docs, *doc)
	return nil
}

func (f *fakeDocumentStore) GetByID(id string) (*model.Document, error) {
	for i := range f.docs {
		if f.docs[i].ID == id {
			doc := f.docs[i]
			return &doc, nil
		}
	}
	return nil, nil
}

func (f *fakeDocumentStore) List() ([]model.Document, error) {
	return append([]model.Document(nil), f.docs...), nil
}

func (f *fakeDocumentStore) ListOlderThan(cutoff time.Time) ([]model.Document, error) {
	var out []model.Document
	for _, d := range f.docs {
		if d.CreatedAt.Before(cutoff) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocumentStore) DeleteByID(id string) error {
	var kept []model.Document
	for _, d := range f.docs {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	f.docs = kept
	return nil
}

// fakeGenerator replays scripted responses/errors in call order and records
// every prompt it receives.
type fakeGenerator struct {
	responses []string
	errs      []error
	prompts   []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	if call < len(f.errs) && f.errs[call] != nil {
		return "", f.errs[call]
	}
	if call < len(f.responses) {
		return f.responses[call], nil
	}
	return "", fmt.Errorf("fake generator: unexpected call %d", call)
}

// fakeRetriever records the query and topK of each call.
type fakeRetriever struct {
	results []RetrievedChunk
	err     error
	queries []string
	topKs   []int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _, query string, topK int) ([]RetrievedChunk, error) {
	f.queries = append(f.queries, query)
	f.topKs = append(f.topKs, topK)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeSummaryCache struct {
	store  map[string]string
	getErr error
	setErr error
}

func cacheKey(documentID, mode, topic string) string {
	return documentID + "|" + mode + "|" + topic
}

func (f *fakeSummaryCache) Get(_ context.Context, documentID, mode, topic string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.store[cacheKey(documentID, mode, topic)]
	return v, ok, nil
}

func (f *fakeSummaryCache) Set(_ context.Context, documentID, mode, topic, summary string) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.store == nil {
		f.store = map[string]string{}
	}
	f.store[cacheKey(documentID, mode, topic)] = summary
	return nil
}

type fakeCleanupQueue struct {
	published int
	err       error
}

func (f *fakeCleanupQueue) PublishCleanupRequest(context.Context) error {
	f.published++
	return f.err
}

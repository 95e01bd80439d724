package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdftutor/internal/model"
)

func storedChunk(docID string, index int, text string, vec []float32) model.Chunk {
	c := model.Chunk{DocumentID: docID, ChunkIndex: index, Content: text}
	c.SetEmbedding(vec)
	return c
}

func TestRetrieveExactMatchScoresHighest(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0, 0},
		"beta":  {0, 1, 0},
		"gamma": {0, 0, 1},
	}}
	store := &fakeChunkStore{chunks: []model.Chunk{
		storedChunk("doc-1", 0, "alpha", []float32{1, 0, 0}),
		storedChunk("doc-1", 1, "beta", []float32{0, 1, 0}),
		storedChunk("doc-1", 2, "gamma", []float32{0, 0, 1}),
	}}
	r := NewRetriever(embedder, store)

	results, err := r.Retrieve(context.Background(), "doc-1", "beta", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "beta", results[0].Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestRetrieveBoundsAndOrdering(t *testing.T) {
	embedder := &fakeEmbedder{fallback: []float32{1, 0}}
	store := &fakeChunkStore{chunks: []model.Chunk{
		storedChunk("doc-1", 0, "weak", []float32{1, 3}),
		storedChunk("doc-1", 1, "strong", []float32{5, 0}),
		storedChunk("doc-1", 2, "medium", []float32{1, 1}),
	}}
	r := NewRetriever(embedder, store)

	results, err := r.Retrieve(context.Background(), "doc-1", "anything", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "strong", results[0].Text)
	assert.Equal(t, "medium", results[1].Text)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)

	// topK larger than the document returns everything, still ordered.
	results, err = r.Retrieve(context.Background(), "doc-1", "anything", 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRetrieveTiesBreakByChunkIndex(t *testing.T) {
	embedder := &fakeEmbedder{fallback: []float32{1, 0}}
	store := &fakeChunkStore{chunks: []model.Chunk{
		storedChunk("doc-1", 2, "third", []float32{2, 0}),
		storedChunk("doc-1", 0, "first", []float32{4, 0}),
		storedChunk("doc-1", 1, "second", []float32{3, 0}),
	}}
	r := NewRetriever(embedder, store)

	// All cosine scores are identical (same direction); order must follow
	// the original chunk index.
	results, err := r.Retrieve(context.Background(), "doc-1", "anything", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{results[0].Text, results[1].Text, results[2].Text})
}

func TestRetrieveEmptyDocument(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{}, &fakeChunkStore{})
	results, err := r.Retrieve(context.Background(), "missing-doc", "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveZeroVectorScoresZero(t *testing.T) {
	embedder := &fakeEmbedder{fallback: []float32{1, 1}}
	store := &fakeChunkStore{chunks: []model.Chunk{
		storedChunk("doc-1", 0, "blank", []float32{0, 0}),
	}}
	r := NewRetriever(embedder, store)

	results, err := r.Retrieve(context.Background(), "doc-1", "anything", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].Score)
}

func TestRetrieveMismatchedDimensionsUseShorterLength(t *testing.T) {
	embedder := &fakeEmbedder{fallback: []float32{1, 0}}
	store := &fakeChunkStore{chunks: []model.Chunk{
		storedChunk("doc-1", 0, "long-vector", []float32{1, 0, 0, 0, 7}),
	}}
	r := NewRetriever(embedder, store)

	results, err := r.Retrieve(context.Background(), "doc-1", "anything", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestRetrieveSubstitutesDefaultQuery(t *testing.T) {
	embedder := &fakeEmbedder{fallback: []float32{1, 0}}
	store := &fakeChunkStore{chunks: []model.Chunk{
		storedChunk("doc-1", 0, "content", []float32{1, 0}),
	}}
	r := NewRetriever(embedder, store)

	_, err := r.Retrieve(context.Background(), "doc-1", "   ", 1)
	require.NoError(t, err)
	require.Len(t, embedder.queries, 1)
	assert.Equal(t, "key points", embedder.queries[0])
}

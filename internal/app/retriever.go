package app

import (
	"context"
	"math"
	"sort"
	"strings"
)

// defaultQuery stands in when a caller supplies no query: "most important
// content" semantics for documents without an explicit topic.
const defaultQuery = "key points"

// RetrievedChunk is one ranked retrieval result.
type RetrievedChunk struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
	Index int     `json:"chunk_index"`
}

// Retriever embeds a query and ranks a single document's chunks by cosine
// similarity. The scan is exhaustive; retrieval scope is bounded to one
// document's chunks, so no approximate index is needed.
type Retriever struct {
	embedder Embedder
	chunks   ChunkStore
}

func NewRetriever(embedder Embedder, chunks ChunkStore) *Retriever {
	return &Retriever{embedder: embedder, chunks: chunks}
}

// Retrieve returns up to topK chunks ordered by descending score, ties
// broken by ascending chunk index. A document with no chunks yields an
// empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, documentID, query string, topK int) ([]RetrievedChunk, error) {
	if strings.TrimSpace(query) == "" {
		query = defaultQuery
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	all, err := r.chunks.ListByDocumentID(documentID)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	scored := make([]RetrievedChunk, len(all))
	for i := range all {
		scored[i] = RetrievedChunk{
			Text:  all[i].Content,
			Score: cosineSimilarity(queryVec, all[i].EmbeddingVector()),
			Index: all[i].ChunkIndex,
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Index < scored[j].Index
	})

	if topK < 0 {
		topK = 0
	}
	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored, nil
}

// cosineSimilarity compares over the shorter of the two lengths, defensive
// against inconsistent embedding dimensionality. A zero-norm vector scores
// 0.0 rather than dividing by zero.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

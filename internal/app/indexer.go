package app

import (
	"context"
	"errors"

	"pdftutor/internal/model"
	"pdftutor/internal/pkg/textsplit"
)

// Indexer splits document text into overlapping chunks, embeds them in one
// ordered batch, and persists chunk records. Persistence is all-or-nothing:
// if embedding fails nothing is written. Index appends; it never removes
// existing chunks, so a document must not be re-indexed without deleting
// its prior chunks first.
type Indexer struct {
	chunkSize int
	overlap   int
	embedder  Embedder
	chunks    ChunkStore
}

func NewIndexer(embedder Embedder, chunks ChunkStore, chunkSize, overlap int) *Indexer {
	if chunkSize <= 0 {
		chunkSize = textsplit.DefaultChunkSize
	}
	if overlap < 0 {
		overlap = textsplit.DefaultOverlap
	}
	return &Indexer{
		chunkSize: chunkSize,
		overlap:   overlap,
		embedder:  embedder,
		chunks:    chunks,
	}
}

// Index returns the number of chunks persisted for the document.
func (ix *Indexer) Index(ctx context.Context, documentID, text string) (int, error) {
	pieces, err := textsplit.Split(text, ix.chunkSize, ix.overlap)
	if err != nil {
		return 0, err
	}
	if len(pieces) == 0 {
		return 0, nil
	}

	embeddings, err := ix.embedder.EmbedBatch(ctx, pieces)
	if err != nil {
		return 0, err
	}
	if len(embeddings) != len(pieces) {
		return 0, errors.New("embedding count mismatch")
	}

	records := make([]model.Chunk, len(pieces))
	for i := range pieces {
		records[i] = model.Chunk{
			DocumentID: documentID,
			ChunkIndex: i,
			Content:    pieces[i],
		}
		records[i].SetEmbedding(embeddings[i])
	}
	if err := ix.chunks.CreateBatch(records); err != nil {
		return 0, err
	}
	return len(records), nil
}

package app

import (
	"context"
	"time"

	"pdftutor/internal/model"
)

// Collaborator interfaces for the services in this package. Production
// implementations live in internal/ai, internal/repository, internal/cache
// and internal/platform/rabbitmq; tests substitute in-memory fakes.

// Embedder produces fixed-dimension embedding vectors. EmbedBatch must
// return one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator performs a single-shot text completion.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChunkStore persists and retrieves chunk records.
type ChunkStore interface {
	CreateBatch(chunks []model.Chunk) error
	ListByDocumentID(documentID string) ([]model.Chunk, error)
	DeleteByDocumentID(documentID string) error
}

// DocumentStore persists document metadata.
type DocumentStore interface {
	Create(doc *model.Document) error
	GetByID(id string) (*model.Document, error)
	List() ([]model.Document, error)
	ListOlderThan(cutoff time.Time) ([]model.Document, error)
	DeleteByID(id string) error
}

// ChunkRetriever ranks a document's chunks against a query.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, documentID, query string, topK int) ([]RetrievedChunk, error)
}

// SummaryCache is a best-effort cache for generated summaries. A nil cache
// disables caching; errors are logged, never propagated.
type SummaryCache interface {
	Get(ctx context.Context, documentID, mode, topic string) (string, bool, error)
	Set(ctx context.Context, documentID, mode, topic, summary string) error
}

// CleanupQueue schedules an asynchronous retention sweep.
type CleanupQueue interface {
	PublishCleanupRequest(ctx context.Context) error
}

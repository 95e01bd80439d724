package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdftutor/internal/model"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrDocumentNotFound = errors.New("document not found")
)

// DefaultRetention is how long uploaded documents are kept before the
// sweep deletes them.
const DefaultRetention = 72 * time.Hour

// DocumentService owns the document lifecycle: ingestion (metadata +
// conditional indexing), listing, deletion, and the retention sweep.
// Each upload schedules an asynchronous sweep via the cleanup queue.
type DocumentService struct {
	docs      DocumentStore
	chunks    ChunkStore
	indexer   *Indexer
	cleanup   CleanupQueue // nil = sweeps only run when invoked directly
	retention time.Duration
}

func NewDocumentService(docs DocumentStore, chunks ChunkStore, indexer *Indexer, cleanup CleanupQueue, retention time.Duration) *DocumentService {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &DocumentService{
		docs:      docs,
		chunks:    chunks,
		indexer:   indexer,
		cleanup:   cleanup,
		retention: retention,
	}
}

// IngestInput carries already-extracted text; extraction itself happens at
// the transport boundary.
type IngestInput struct {
	Filename    string
	ContentType string
	Text        string
}

type IngestResult struct {
	DocumentID    string `json:"doc_id"`
	ChunksIndexed int    `json:"chunks_indexed"`
	HasText       bool   `json:"has_text"`
}

// Ingest stores document metadata and, when the document has extractable
// text, indexes its chunks. A document without text is stored with
// has_text=false and zero chunks.
func (s *DocumentService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	s.scheduleCleanup(ctx)

	hasText := strings.TrimSpace(input.Text) != ""
	doc := &model.Document{
		ID:          uuid.NewString(),
		Filename:    input.Filename,
		ContentType: input.ContentType,
		HasText:     hasText,
	}
	if err := s.docs.Create(doc); err != nil {
		return nil, err
	}

	indexed := 0
	if hasText {
		var err error
		indexed, err = s.indexer.Index(ctx, doc.ID, input.Text)
		if err != nil {
			return nil, err
		}
	}

	return &IngestResult{
		DocumentID:    doc.ID,
		ChunksIndexed: indexed,
		HasText:       hasText,
	}, nil
}

func (s *DocumentService) Get(id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	doc, err := s.docs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func (s *DocumentService) List() ([]model.Document, error) {
	return s.docs.List()
}

// Delete removes a document and all its chunks, chunks first.
func (s *DocumentService) Delete(id string) error {
	doc, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.chunks.DeleteByDocumentID(doc.ID); err != nil {
		return err
	}
	return s.docs.DeleteByID(doc.ID)
}

// CleanupExpired deletes documents older than the retention window and
// their chunks, returning the number of documents removed. Failures on
// individual documents are logged and skipped so one bad row cannot stall
// the sweep.
func (s *DocumentService) CleanupExpired(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.retention)
	expired, err := s.docs.ListOlderThan(cutoff)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, doc := range expired {
		if err := s.chunks.DeleteByDocumentID(doc.ID); err != nil {
			log.Printf("cleanup: delete chunks for document %s failed: %v", doc.ID, err)
			continue
		}
		if err := s.docs.DeleteByID(doc.ID); err != nil {
			log.Printf("cleanup: delete document %s failed: %v", doc.ID, err)
			continue
		}
		removed++
	}
	return removed, nil
}

func (s *DocumentService) scheduleCleanup(ctx context.Context) {
	if s.cleanup == nil {
		return
	}
	if err := s.cleanup.PublishCleanupRequest(ctx); err != nil {
		log.Printf("schedule cleanup failed: %v", err)
	}
}

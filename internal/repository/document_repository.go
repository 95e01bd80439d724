package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pdftutor/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(id string) (*model.Document, error) {
	var doc model.Document
	if err := r.db.Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) List() ([]model.Document, error) {
	var list []model.Document
	if err := r.db.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return list, nil
}

// ListOlderThan returns documents created before the cutoff, for the
// retention sweep.
func (r *DocumentRepository) ListOlderThan(cutoff time.Time) ([]model.Document, error) {
	var list []model.Document
	if err := r.db.Where("created_at < ?", cutoff).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list expired documents failed: %w", err)
	}
	return list, nil
}

func (r *DocumentRepository) DeleteByID(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Document{}).Error; err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}

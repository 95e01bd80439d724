package model

import "time"

// Document holds only metadata about an uploaded study file; the raw bytes
// are never stored. HasText=false means no chunks exist for this document.
type Document struct {
	ID          string    `gorm:"primaryKey;size:36" json:"doc_id"`
	Filename    string    `gorm:"size:256" json:"filename"`
	ContentType string    `gorm:"size:128" json:"content_type"`
	HasText     bool      `json:"has_text"`
	CreatedAt   time.Time `json:"created_at"`
}

// Package store holds the gorm-backed persistence adapters consumed by the
// handlers and the signing workflow.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/docsign-app/docsigngo/internal/database"
	"github.com/docsign-app/docsigngo/internal/models"
	"github.com/docsign-app/docsigngo/internal/signing"
	"gorm.io/gorm"
)

// Documents is the document metadata store.
type Documents struct {
	db *database.DB
}

// NewDocuments creates a Documents store on top of db.
func NewDocuments(db *database.DB) *Documents {
	return &Documents{db: db}
}

// FindByID loads one document. Maps gorm's not-found onto the workflow's
// ErrNotFound sentinel.
func (s *Documents) FindByID(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, signing.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	return &doc, nil
}

// FindByBlobRef resolves a document from either of its blob references.
// Used by the file-serving handler for ownership checks.
func (s *Documents) FindByBlobRef(ctx context.Context, ref string) (*models.Document, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).
		Where("file_path = ? OR signed_file_path = ?", ref, ref).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, signing.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve blob %s: %w", ref, err)
	}
	return &doc, nil
}

// ListByOwner returns the owner's documents newest-first. List access is
// filtered by ownership up front, never checked after the fact.
func (s *Documents) ListByOwner(ctx context.Context, userID string) ([]models.Document, error) {
	var docs []models.Document
	err := s.db.WithContext(ctx).
		Where("uploaded_by = ?", userID).
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// Create persists a new document record.
func (s *Documents) Create(ctx context.Context, doc *models.Document) error {
	return s.db.WithContext(ctx).Create(doc).Error
}

// Update persists the full document record.
func (s *Documents) Update(ctx context.Context, doc *models.Document) error {
	return s.db.WithContext(ctx).Save(doc).Error
}

// Delete soft-deletes the document record.
func (s *Documents) Delete(ctx context.Context, doc *models.Document) error {
	return s.db.WithContext(ctx).Delete(doc).Error
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"contentvault/internal/models"
)

// ContentStore handles all content-item database operations. The content
// hash is globally unique, so lookups here span every user.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const contentColumns = `
	id, content_hash, source_type, source_url, file_reference,
	extracted_text_path, extracted_text_paths, metadata, owner_id,
	processing_status, error_message, detected_language,
	created_at, updated_at`

// scanContent reads one content row from any row scanner.
func scanContent(row interface{ Scan(...any) error }) (*models.ContentItem, error) {
	c := &models.ContentItem{}
	var paths, metadata []byte
	if err := row.Scan(
		&c.ID, &c.ContentHash, &c.SourceType, &c.SourceURL, &c.FileReference,
		&c.ExtractedTextPath, &paths, &metadata, &c.OwnerID,
		&c.Status, &c.ErrorMessage, &c.DetectedLanguage,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if c.ExtractedTextPaths, err = unmarshalMap(paths); err != nil {
		return nil, err
	}
	if c.Metadata, err = unmarshalMap(metadata); err != nil {
		return nil, err
	}
	return c, nil
}

// FindByHash retrieves a content item by its content hash, across all
// owners. Returns nil if no item carries the hash.
func (s *ContentStore) FindByHash(hash string) (*models.ContentItem, error) {
	c, err := scanContent(s.db.QueryRow(
		`SELECT`+contentColumns+` FROM content_items WHERE content_hash = $1`, hash))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by hash: %w", err)
	}
	return c, nil
}

// FindByID retrieves a content item by ID. Returns nil if not found.
func (s *ContentStore) FindByID(id uuid.UUID) (*models.ContentItem, error) {
	c, err := scanContent(s.db.QueryRow(
		`SELECT`+contentColumns+` FROM content_items WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// Create inserts a new pending content item and returns it with generated
// fields. A duplicate hash surfaces as a unique violation the caller must
// resolve with FindByHash.
func (s *ContentStore) Create(c *models.ContentItem) (*models.ContentItem, error) {
	metadata, err := marshalMap(c.Metadata)
	if err != nil {
		return nil, err
	}
	paths, err := marshalMap(c.ExtractedTextPaths)
	if err != nil {
		return nil, err
	}
	if c.Status == "" {
		c.Status = models.StatusPending
	}

	created, err := scanContent(s.db.QueryRow(`
		INSERT INTO content_items (content_hash, source_type, source_url,
		                           file_reference, extracted_text_paths,
		                           metadata, owner_id, processing_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING`+contentColumns,
		c.ContentHash, c.SourceType, c.SourceURL, c.FileReference,
		paths, metadata, c.OwnerID, c.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return created, nil
}

// UpdateStatus moves an item to a new processing status, recording or
// clearing the error message and bumping updated_at.
func (s *ContentStore) UpdateStatus(id uuid.UUID, status models.ProcessingStatus, errorMessage *string) error {
	_, err := s.db.Exec(`
		UPDATE content_items
		SET processing_status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3
	`, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("update content status: %w", err)
	}
	return nil
}

// SetExtractionResult records a successful extraction: the primary text
// path, the per-language path map entry, the detected language, and the
// completed status, all in one write.
func (s *ContentStore) SetExtractionResult(id uuid.UUID, lang, path string, detectedLang *string) error {
	_, err := s.db.Exec(`
		UPDATE content_items
		SET extracted_text_path = $1,
		    extracted_text_paths = extracted_text_paths || jsonb_build_object($2::text, $1::text),
		    detected_language = COALESCE($3, detected_language),
		    processing_status = $4,
		    error_message = NULL,
		    updated_at = NOW()
		WHERE id = $5
	`, path, lang, detectedLang, models.StatusCompleted, id)
	if err != nil {
		return fmt.Errorf("set extraction result: %w", err)
	}
	return nil
}

// SetFileReference records where the raw upload for an item lives.
func (s *ContentStore) SetFileReference(id uuid.UUID, ref string) error {
	_, err := s.db.Exec(`
		UPDATE content_items SET file_reference = $1, updated_at = NOW() WHERE id = $2
	`, ref, id)
	if err != nil {
		return fmt.Errorf("set file reference: %w", err)
	}
	return nil
}

// ListByOwner returns an owner's content, newest first.
func (s *ContentStore) ListByOwner(ownerID uuid.UUID, limit, offset int) ([]models.ContentItem, error) {
	rows, err := s.db.Query(`
		SELECT`+contentColumns+`
		FROM content_items
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list content by owner: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Delete removes a content item. Processing jobs referencing it go with it
// through the FK cascade; bundle membership arrays are deliberately left
// untouched and may keep a stale ID.
func (s *ContentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

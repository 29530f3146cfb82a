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

// TagStore handles tag rows and content-tag links.
type TagStore struct {
	db *sql.DB
}

// NewTagStore creates a new TagStore with the given database connection.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// GetOrCreateTags resolves a list of raw names into tag rows, creating any
// that do not exist yet. Names are normalized first; empty results are
// discarded. The upsert is conflict-tolerant, so concurrent creators of the
// same name converge on a single row.
func (s *TagStore) GetOrCreateTags(rawNames []string) ([]models.Tag, error) {
	names := models.NormalizeTagNames(rawNames)
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var t models.Tag
		// DO UPDATE instead of DO NOTHING so the conflicting row is returned.
		err := s.db.QueryRow(`
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id, name, created_at
		`, name).Scan(&t.ID, &t.Name, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("upsert tag %q: %w", name, err)
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// LinkTags replaces a content item's tag set with the given tag IDs.
// Semantics are full-replace, not incremental: existing links are deleted
// and the new set inserted inside one transaction.
func (s *TagStore) LinkTags(contentID uuid.UUID, tagIDs []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin link tags: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM content_tags WHERE content_id = $1`, contentID); err != nil {
		return fmt.Errorf("clear tag links: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(`
			INSERT INTO content_tags (content_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, contentID, tagID); err != nil {
			return fmt.Errorf("insert tag link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tag links: %w", err)
	}
	return nil
}

// ListForContent returns the normalized tag names attached to one item.
func (s *TagStore) ListForContent(contentID uuid.UUID) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT t.name
		FROM tags t
		JOIN content_tags ct ON ct.tag_id = t.id
		WHERE ct.content_id = $1
		ORDER BY t.name
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("list tags for content: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// FindContentByTags returns content items linked to ALL of the requested
// tag names (intersection, not union), newest first. An item tagged with
// only some of the names never appears.
func (s *TagStore) FindContentByTags(rawNames []string, limit, offset int) ([]models.ContentItem, error) {
	names := models.NormalizeTagNames(rawNames)
	if len(names) == 0 {
		return nil, nil
	}

	// Matching distinct-tag count against the requested count implements
	// the AND semantics in a single grouped join.
	rows, err := s.db.Query(`
		SELECT c.id, c.content_hash, c.source_type, c.source_url, c.file_reference,
		       c.extracted_text_path, c.extracted_text_paths, c.metadata, c.owner_id,
		       c.processing_status, c.error_message, c.detected_language,
		       c.created_at, c.updated_at
		FROM content_items c
		JOIN content_tags ct ON ct.content_id = c.id
		JOIN tags t ON t.id = ct.tag_id
		WHERE t.name = ANY($1)
		GROUP BY c.id
		HAVING COUNT(DISTINCT t.name) = $2
		ORDER BY c.created_at DESC
		LIMIT $3 OFFSET $4
	`, names, len(names), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("find content by tags: %w", err)
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

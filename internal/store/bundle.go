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

// maxAttemptRetries bounds how many times a conflicting attempt number is
// recomputed before giving up.
const maxAttemptRetries = 5

// BundleStore handles bundles and their append-only attempt log.
type BundleStore struct {
	db *sql.DB
}

// NewBundleStore creates a new BundleStore with the given database connection.
func NewBundleStore(db *sql.DB) *BundleStore {
	return &BundleStore{db: db}
}

const bundleColumns = `id, owner_id, name, content_ids, created_at, updated_at`

func scanBundle(row interface{ Scan(...any) error }) (*models.Bundle, error) {
	b := &models.Bundle{}
	var ids []byte
	if err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &ids, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if b.ContentIDs, err = unmarshalIDs(ids); err != nil {
		return nil, err
	}
	return b, nil
}

// Create inserts a new bundle with its initial membership set.
func (s *BundleStore) Create(b *models.Bundle) (*models.Bundle, error) {
	ids, err := marshalIDs(b.ContentIDs)
	if err != nil {
		return nil, err
	}
	created, err := scanBundle(s.db.QueryRow(`
		INSERT INTO bundles (owner_id, name, content_ids)
		VALUES ($1, $2, $3)
		RETURNING `+bundleColumns,
		b.OwnerID, b.Name, ids,
	))
	if err != nil {
		return nil, fmt.Errorf("create bundle: %w", err)
	}
	return created, nil
}

// FindByID retrieves a bundle by ID. Returns nil if not found.
func (s *BundleStore) FindByID(id uuid.UUID) (*models.Bundle, error) {
	b, err := scanBundle(s.db.QueryRow(
		`SELECT `+bundleColumns+` FROM bundles WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find bundle by id: %w", err)
	}
	return b, nil
}

// UpdateContentIDs replaces the bundle's membership set. IDs are not
// validated against content_items: membership is an unenforced array and
// may hold stale entries.
func (s *BundleStore) UpdateContentIDs(id uuid.UUID, contentIDs []uuid.UUID) error {
	ids, err := marshalIDs(contentIDs)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		UPDATE bundles SET content_ids = $1, updated_at = NOW() WHERE id = $2
	`, ids, id)
	if err != nil {
		return fmt.Errorf("update bundle members: %w", err)
	}
	return nil
}

// ListByOwner returns an owner's bundles, newest first.
func (s *BundleStore) ListByOwner(ownerID uuid.UUID) ([]models.Bundle, error) {
	rows, err := s.db.Query(`
		SELECT `+bundleColumns+` FROM bundles
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list bundles by owner: %w", err)
	}
	defer rows.Close()

	var bundles []models.Bundle
	for rows.Next() {
		b, err := scanBundle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bundle: %w", err)
		}
		bundles = append(bundles, *b)
	}
	return bundles, rows.Err()
}

// Delete removes a bundle together with its attempt log.
func (s *BundleStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM bundles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bundle: %w", err)
	}
	return nil
}

const attemptColumns = `
	id, bundle_id, attempt_number, processing_type, output_language,
	system_prompt, user_prompt, combined_content_preview,
	custom_instructions, result_path, job_id, created_at`

func scanAttempt(row interface{ Scan(...any) error }) (*models.BundleAttempt, error) {
	a := &models.BundleAttempt{}
	if err := row.Scan(
		&a.ID, &a.BundleID, &a.AttemptNumber, &a.ProcessingType, &a.OutputLanguage,
		&a.SystemPrompt, &a.UserPrompt, &a.CombinedContentPreview,
		&a.CustomInstructions, &a.ResultPath, &a.JobID, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return a, nil
}

// CreateAttempt appends a new attempt to a bundle's log. Attempt numbers
// are strictly increasing starting at 1; the (bundle_id, attempt_number)
// uniqueness constraint arbitrates concurrent appenders, and a loser simply
// recomputes the next number and tries again.
func (s *BundleStore) CreateAttempt(a *models.BundleAttempt) (*models.BundleAttempt, error) {
	for range maxAttemptRetries {
		var next int
		err := s.db.QueryRow(`
			SELECT COALESCE(MAX(attempt_number), 0) + 1
			FROM bundle_attempts WHERE bundle_id = $1
		`, a.BundleID).Scan(&next)
		if err != nil {
			return nil, fmt.Errorf("next attempt number: %w", err)
		}

		created, err := scanAttempt(s.db.QueryRow(`
			INSERT INTO bundle_attempts (bundle_id, attempt_number, processing_type,
			                             output_language, system_prompt, user_prompt,
			                             combined_content_preview, custom_instructions,
			                             result_path, job_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING`+attemptColumns,
			a.BundleID, next, a.ProcessingType, a.OutputLanguage, a.SystemPrompt,
			a.UserPrompt, a.CombinedContentPreview, a.CustomInstructions,
			a.ResultPath, a.JobID,
		))
		if IsUniqueViolation(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create attempt: %w", err)
		}
		return created, nil
	}
	return nil, fmt.Errorf("create attempt: contention exceeded %d retries", maxAttemptRetries)
}

// SetAttemptResult links a finished attempt to its result artifact.
func (s *BundleStore) SetAttemptResult(id uuid.UUID, resultPath string, jobID *uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE bundle_attempts SET result_path = $1, job_id = $2 WHERE id = $3
	`, resultPath, jobID, id)
	if err != nil {
		return fmt.Errorf("set attempt result: %w", err)
	}
	return nil
}

// ListAttempts returns a bundle's attempts in version order.
func (s *BundleStore) ListAttempts(bundleID uuid.UUID) ([]models.BundleAttempt, error) {
	rows, err := s.db.Query(`
		SELECT`+attemptColumns+`
		FROM bundle_attempts
		WHERE bundle_id = $1
		ORDER BY attempt_number ASC
	`, bundleID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.BundleAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

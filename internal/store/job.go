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

// JobStore handles processing-job rows. Jobs hold latest execution state
// only: a retry mutates the row in place, unlike bundle attempts which are
// append-only.
type JobStore struct {
	db *sql.DB
}

// NewJobStore creates a new JobStore with the given database connection.
func NewJobStore(db *sql.DB) *JobStore {
	return &JobStore{db: db}
}

const jobColumns = `
	id, content_id, processing_type, status, result_path, user_prompt,
	output_language, error_message, owner_id, bundle_id, content_ids,
	created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (*models.ProcessingJob, error) {
	j := &models.ProcessingJob{}
	var contentIDs []byte
	if err := row.Scan(
		&j.ID, &j.ContentID, &j.ProcessingType, &j.Status, &j.ResultPath,
		&j.UserPrompt, &j.OutputLanguage, &j.ErrorMessage, &j.OwnerID,
		&j.BundleID, &contentIDs, &j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if j.ContentIDs, err = unmarshalIDs(contentIDs); err != nil {
		return nil, err
	}
	return j, nil
}

// Create inserts a new pending job. The job must target exactly one of a
// single content item or a bundle with its member snapshot.
func (s *JobStore) Create(j *models.ProcessingJob) (*models.ProcessingJob, error) {
	if !j.ValidTarget() {
		return nil, fmt.Errorf("job must target exactly one of content or bundle")
	}

	var contentIDs any
	if j.BundleID != nil {
		data, err := marshalIDs(j.ContentIDs)
		if err != nil {
			return nil, err
		}
		contentIDs = data
	}
	if j.OutputLanguage == "" {
		j.OutputLanguage = "en"
	}

	created, err := scanJob(s.db.QueryRow(`
		INSERT INTO processing_jobs (content_id, processing_type, status,
		                             user_prompt, output_language, owner_id,
		                             bundle_id, content_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING`+jobColumns,
		j.ContentID, j.ProcessingType, models.JobPending,
		j.UserPrompt, j.OutputLanguage, j.OwnerID, j.BundleID, contentIDs,
	))
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return created, nil
}

// FindByID retrieves a job by ID. Returns nil if not found.
func (s *JobStore) FindByID(id uuid.UUID) (*models.ProcessingJob, error) {
	j, err := scanJob(s.db.QueryRow(
		`SELECT`+jobColumns+` FROM processing_jobs WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find job by id: %w", err)
	}
	return j, nil
}

// UpdateStatus writes a job's execution outcome in place.
func (s *JobStore) UpdateStatus(id uuid.UUID, status models.JobStatus, resultPath, errorMessage *string) error {
	_, err := s.db.Exec(`
		UPDATE processing_jobs
		SET status = $1, result_path = $2, error_message = $3, updated_at = NOW()
		WHERE id = $4
	`, status, resultPath, errorMessage, id)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return nil
}

// Retry resets a job to pending, clearing the previous result and error.
// The same row is reused: no new job, no version history.
func (s *JobStore) Retry(id uuid.UUID) (*models.ProcessingJob, error) {
	j, err := scanJob(s.db.QueryRow(`
		UPDATE processing_jobs
		SET status = $1, result_path = NULL, error_message = NULL, updated_at = NOW()
		WHERE id = $2
		RETURNING`+jobColumns, models.JobPending, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retry job: %w", err)
	}
	return j, nil
}

// ListByOwner returns an owner's jobs, newest first.
func (s *JobStore) ListByOwner(ownerID uuid.UUID, limit, offset int) ([]models.ProcessingJob, error) {
	rows, err := s.db.Query(`
		SELECT`+jobColumns+`
		FROM processing_jobs
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list jobs by owner: %w", err)
	}
	defer rows.Close()

	var jobs []models.ProcessingJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingType names the kind of AI output a job produces. The generation
// itself happens in an external engine; this system only tracks the job row.
type ProcessingType string

const (
	ProcessingSummary      ProcessingType = "summary"
	ProcessingMVPPlan      ProcessingType = "mvp_plan"
	ProcessingContentIdeas ProcessingType = "content_ideas"
	ProcessingBlogPost     ProcessingType = "blog_post"
)

// JobStatus tracks a processing job. Unlike bundle attempts, a retried job
// mutates the same row in place: jobs hold latest state, not provenance.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// ProcessingJob is one AI processing request. Exactly one of ContentID or
// (BundleID + ContentIDs) is populated, never both.
type ProcessingJob struct {
	ID             uuid.UUID      `json:"id"`
	ContentID      *uuid.UUID     `json:"content_id,omitempty"`
	ProcessingType ProcessingType `json:"processing_type"`
	Status         JobStatus      `json:"status"`
	ResultPath     *string        `json:"result_path,omitempty"`
	UserPrompt     *string        `json:"user_prompt,omitempty"`
	OutputLanguage string         `json:"output_language"`
	ErrorMessage   *string        `json:"error_message,omitempty"`
	OwnerID        uuid.UUID      `json:"owner_id"`
	BundleID       *uuid.UUID     `json:"bundle_id,omitempty"`
	ContentIDs     []uuid.UUID    `json:"content_ids,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// IsBundleJob reports whether the job targets a bundle rather than a single
// content item.
func (j *ProcessingJob) IsBundleJob() bool {
	return j.BundleID != nil
}

// ValidTarget checks the single-item-or-bundle exclusivity rule.
func (j *ProcessingJob) ValidTarget() bool {
	if j.ContentID != nil {
		return j.BundleID == nil && len(j.ContentIDs) == 0
	}
	return j.BundleID != nil && len(j.ContentIDs) > 0
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Bundle groups content items for combined processing. Membership is a
// mutable, unordered set; member IDs are not referentially enforced, so a
// deleted content item can leave a stale ID behind.
type Bundle struct {
	ID         uuid.UUID   `json:"id"`
	OwnerID    uuid.UUID   `json:"owner_id"`
	Name       *string     `json:"name,omitempty"`
	ContentIDs []uuid.UUID `json:"content_ids"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// BundleAttempt is an append-only, version-numbered snapshot of one
// processing configuration applied to a bundle. Attempt numbers are strictly
// increasing per bundle starting at 1.
type BundleAttempt struct {
	ID                     uuid.UUID      `json:"id"`
	BundleID               uuid.UUID      `json:"bundle_id"`
	AttemptNumber          int            `json:"attempt_number"`
	ProcessingType         ProcessingType `json:"processing_type"`
	OutputLanguage         string         `json:"output_language"`
	SystemPrompt           string         `json:"system_prompt"`
	UserPrompt             *string        `json:"user_prompt,omitempty"`
	CombinedContentPreview *string        `json:"combined_content_preview,omitempty"`
	CustomInstructions     *string        `json:"custom_instructions,omitempty"`
	ResultPath             *string        `json:"result_path,omitempty"`
	JobID                  *uuid.UUID     `json:"job_id,omitempty"`
	CreatedAt              time.Time      `json:"created_at"`
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceType identifies where a content item came from and therefore which
// extraction chain processes it.
type SourceType string

const (
	SourcePDFURL  SourceType = "pdf_url"
	SourcePDFFile SourceType = "pdf_file"
	SourceYouTube SourceType = "youtube"
	SourceWeb     SourceType = "web"
)

// ProcessingStatus tracks a content item through its extraction lifecycle.
// Valid transitions: pending -> extracting -> completed | failed. A terminal
// item returns to extracting only through an explicit re-extraction.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusExtracting ProcessingStatus = "extracting"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// ContentItem is one ingested piece of content. The content hash is unique
// across all users: the first ingester becomes the owner and later ingesters
// of the same content receive the existing shared row.
type ContentItem struct {
	ID                 uuid.UUID         `json:"id"`
	ContentHash        string            `json:"content_hash"`
	SourceType         SourceType        `json:"source_type"`
	SourceURL          *string           `json:"source_url,omitempty"`
	FileReference      *string           `json:"file_reference,omitempty"`
	ExtractedTextPath  *string           `json:"extracted_text_path,omitempty"`
	ExtractedTextPaths map[string]string `json:"extracted_text_paths,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	OwnerID            uuid.UUID         `json:"owner_id"`
	Status             ProcessingStatus  `json:"processing_status"`
	ErrorMessage       *string           `json:"error_message,omitempty"`
	DetectedLanguage   *string           `json:"detected_language,omitempty"`
	Tags               []string          `json:"tags,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// IsTerminal returns true once extraction has either completed or failed.
func (s ProcessingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether the status machine allows moving from s to
// next. Terminal states only re-enter extracting (explicit re-extraction).
func (s ProcessingStatus) CanTransitionTo(next ProcessingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusExtracting
	case StatusExtracting:
		return next == StatusCompleted || next == StatusFailed
	case StatusCompleted, StatusFailed:
		return next == StatusExtracting
	}
	return false
}

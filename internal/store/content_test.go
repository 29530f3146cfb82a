// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"contentvault/internal/models"
)

// createTestContent inserts a pending web item for the given owner and hash.
func createTestContent(t *testing.T, db *sql.DB, ownerID uuid.UUID, hash string) *models.ContentItem {
	t.Helper()
	s := NewContentStore(db)
	url := "https://example.com/" + hash[:8]
	created, err := s.Create(&models.ContentItem{
		ContentHash: hash,
		SourceType:  models.SourceWeb,
		SourceURL:   &url,
		OwnerID:     ownerID,
	})
	if err != nil {
		t.Fatalf("create test content: %v", err)
	}
	return created
}

func TestContentStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	hash := testHash(t)
	owner := uuid.New()
	t.Cleanup(func() { cleanContentByHash(t, db, hash) })

	url := "https://example.com/article"
	created, err := s.Create(&models.ContentItem{
		ContentHash: hash,
		SourceType:  models.SourceWeb,
		SourceURL:   &url,
		Metadata:    map[string]string{"title": "Article"},
		OwnerID:     owner,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Status != models.StatusPending {
		t.Errorf("status: got %q, want %q", created.Status, models.StatusPending)
	}
	if created.Metadata["title"] != "Article" {
		t.Errorf("metadata title: got %q", created.Metadata["title"])
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected content, got nil")
	}
	if found.ContentHash != hash {
		t.Errorf("hash: got %q, want %q", found.ContentHash, hash)
	}
}

func TestContentStoreFindByHashSpansOwners(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	hash := testHash(t)
	t.Cleanup(func() { cleanContentByHash(t, db, hash) })

	firstOwner := uuid.New()
	created := createTestContent(t, db, firstOwner, hash)

	// A different requester still resolves the same row.
	found, err := s.FindByHash(hash)
	if err != nil {
		t.Fatalf("FindByHash: %v", err)
	}
	if found == nil {
		t.Fatal("expected content, got nil")
	}
	if found.ID != created.ID {
		t.Errorf("id: got %s, want %s", found.ID, created.ID)
	}
	if found.OwnerID != firstOwner {
		t.Errorf("owner stays the first ingester: got %s, want %s", found.OwnerID, firstOwner)
	}
}

func TestContentStoreFindByHashMissing(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	found, err := s.FindByHash(testHash(t))
	if err != nil {
		t.Fatalf("FindByHash: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for unknown hash, got %+v", found)
	}
}

func TestContentStoreDuplicateHashIsUniqueViolation(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	hash := testHash(t)
	t.Cleanup(func() { cleanContentByHash(t, db, hash) })

	createTestContent(t, db, uuid.New(), hash)

	url := "https://example.com/dupe"
	_, err := s.Create(&models.ContentItem{
		ContentHash: hash,
		SourceType:  models.SourceWeb,
		SourceURL:   &url,
		OwnerID:     uuid.New(),
	})
	if err == nil {
		t.Fatal("expected error inserting duplicate hash")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestContentStoreSetExtractionResult(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	hash := testHash(t)
	t.Cleanup(func() { cleanContentByHash(t, db, hash) })
	item := createTestContent(t, db, uuid.New(), hash)

	if err := s.UpdateStatus(item.ID, models.StatusExtracting, nil); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	detected := "en"
	path := "extracted/2026/01/" + hash + "_en.txt"
	if err := s.SetExtractionResult(item.ID, "en", path, &detected); err != nil {
		t.Fatalf("SetExtractionResult: %v", err)
	}

	found, err := s.FindByID(item.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Status != models.StatusCompleted {
		t.Errorf("status: got %q, want %q", found.Status, models.StatusCompleted)
	}
	if found.ExtractedTextPath == nil || *found.ExtractedTextPath != path {
		t.Errorf("extracted_text_path: got %v, want %q", found.ExtractedTextPath, path)
	}
	if found.ExtractedTextPaths["en"] != path {
		t.Errorf("paths map: got %v", found.ExtractedTextPaths)
	}
	if found.DetectedLanguage == nil || *found.DetectedLanguage != "en" {
		t.Errorf("detected_language: got %v", found.DetectedLanguage)
	}

	// A second language adds a map entry without losing the first.
	ruPath := "extracted/2026/01/" + hash + "_ru.txt"
	if err := s.SetExtractionResult(item.ID, "ru", ruPath, nil); err != nil {
		t.Fatalf("SetExtractionResult (ru): %v", err)
	}
	found, err = s.FindByID(item.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.ExtractedTextPaths["en"] != path || found.ExtractedTextPaths["ru"] != ruPath {
		t.Errorf("paths map after second language: got %v", found.ExtractedTextPaths)
	}
	// Detected language is remembered from the first pass.
	if found.DetectedLanguage == nil || *found.DetectedLanguage != "en" {
		t.Errorf("detected_language after second pass: got %v", found.DetectedLanguage)
	}
}

func TestContentStoreFailureRecordsMessage(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	hash := testHash(t)
	t.Cleanup(func() { cleanContentByHash(t, db, hash) })
	item := createTestContent(t, db, uuid.New(), hash)

	msg := "extraction failed: all strategies exhausted"
	if err := s.UpdateStatus(item.ID, models.StatusFailed, &msg); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	found, err := s.FindByID(item.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Status != models.StatusFailed {
		t.Errorf("status: got %q, want %q", found.Status, models.StatusFailed)
	}
	if found.ErrorMessage == nil || *found.ErrorMessage != msg {
		t.Errorf("error_message: got %v, want %q", found.ErrorMessage, msg)
	}
}

func TestContentStoreListByOwner(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	owner := uuid.New()
	h1, h2 := testHash(t), testHash(t)
	t.Cleanup(func() { cleanContentByHash(t, db, h1, h2) })

	createTestContent(t, db, owner, h1)
	createTestContent(t, db, owner, h2)
	// Another owner's item must not appear.
	other := testHash(t)
	t.Cleanup(func() { cleanContentByHash(t, db, other) })
	createTestContent(t, db, uuid.New(), other)

	items, err := s.ListByOwner(owner, 50, 0)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, it := range items {
		if it.OwnerID != owner {
			t.Errorf("unexpected owner %s in listing", it.OwnerID)
		}
	}
}

func TestContentStoreDeleteCascadesJobs(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)
	jobs := NewJobStore(db)

	hash := testHash(t)
	t.Cleanup(func() { cleanContentByHash(t, db, hash) })
	item := createTestContent(t, db, uuid.New(), hash)

	job, err := jobs.Create(&models.ProcessingJob{
		ContentID:      &item.ID,
		ProcessingType: models.ProcessingSummary,
		OwnerID:        item.OwnerID,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	if err := s.Delete(item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	gone, err := jobs.FindByID(job.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if gone != nil {
		t.Error("expected job to be removed by cascade")
	}
}

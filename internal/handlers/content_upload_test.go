// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// content_upload_test.go exercises upload ingestion end to end against a
// real PostgreSQL database. Tests are skipped if the database is not
// available.
package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"contentvault/internal/database"
	"contentvault/internal/filestore"
	"contentvault/internal/fingerprint"
	"contentvault/internal/ingest"
	"contentvault/internal/store"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "contentvault")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "contentvault")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testAPI wires a full API over a temp file store, no cache, no archive.
func testAPI(t *testing.T, db *sql.DB) *API {
	t.Helper()

	files, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("filestore: %v", err)
	}
	content := store.NewContentStore(db)
	svc := ingest.New(content, files, nil, nil, t.TempDir())
	return New(svc, content, store.NewTagStore(db), store.NewJobStore(db), store.NewBundleStore(db))
}

// uploadRequest builds a multipart POST carrying one file field.
func uploadRequest(t *testing.T, owner uuid.UUID, filename string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/content/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Owner-ID", owner.String())
	return req
}

func TestIngestUploadDedupStatusCodes(t *testing.T) {
	db := testDB(t)
	api := testAPI(t, db)

	// Not a parseable PDF — extraction fails, the registry row still exists
	// and carries the content identity.
	data := []byte("not-a-real-pdf-" + uuid.NewString())
	hash := fingerprint.HashBytes(data)
	t.Cleanup(func() { db.Exec("DELETE FROM content_items WHERE content_hash = $1", hash) })

	firstOwner := uuid.New()
	rr := httptest.NewRecorder()
	api.IngestUpload(rr, uploadRequest(t, firstOwner, "paper.pdf", data))

	if rr.Code != http.StatusCreated {
		t.Fatalf("first upload status: got %d, want 201", rr.Code)
	}
	var first struct {
		ID      uuid.UUID `json:"id"`
		OwnerID uuid.UUID `json:"owner_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode first response: %v", err)
	}
	if first.OwnerID != firstOwner {
		t.Errorf("owner: got %s, want %s", first.OwnerID, firstOwner)
	}

	// Byte-identical re-upload by someone else: shared row, 200 not 201.
	rr = httptest.NewRecorder()
	api.IngestUpload(rr, uploadRequest(t, uuid.New(), "renamed.pdf", data))

	if rr.Code != http.StatusOK {
		t.Errorf("duplicate upload status: got %d, want 200", rr.Code)
	}
	var second struct {
		ID      uuid.UUID `json:"id"`
		OwnerID uuid.UUID `json:"owner_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode second response: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected shared row, got %s and %s", second.ID, first.ID)
	}
	if second.OwnerID != firstOwner {
		t.Errorf("owner must stay the first uploader, got %s", second.OwnerID)
	}

	// The same bytes re-uploaded by the original owner also dedup, and the
	// owner match keeps the 201.
	rr = httptest.NewRecorder()
	api.IngestUpload(rr, uploadRequest(t, firstOwner, "paper.pdf", data))
	if rr.Code != http.StatusCreated {
		t.Errorf("same-owner re-upload status: got %d, want 201", rr.Code)
	}
}

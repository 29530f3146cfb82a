// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"contentvault/internal/ingest"
)

// ingestRequest is the body for URL-based ingestion.
type ingestRequest struct {
	URL            string `json:"url"`
	ForceReprocess bool   `json:"force_reprocess"`
}

// IngestURL ingests a URL. Duplicate submissions return the existing shared
// item with HTTP 200; a newly created item returns 201. Extraction failures
// still return the (failed) item.
func (a *API) IngestURL(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ingestRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	item, err := a.ingest.IngestURL(r.Context(), owner, req.URL, req.ForceReprocess)
	if errors.Is(err, ingest.ErrNotIngestable) {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "ingestion failed")
		return
	}

	status := http.StatusCreated
	if item.OwnerID != owner {
		// Shared row owned by an earlier ingester.
		status = http.StatusOK
	}
	a.attachTags(item)
	respondJSON(w, status, item)
}

// IngestUpload ingests an uploaded PDF file from a multipart form. A
// byte-identical re-upload returns the existing shared item with HTTP 200;
// a fresh item returns 201.
func (a *API) IngestUpload(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "upload too large or malformed")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	force := r.FormValue("force_reprocess") == "true"
	item, err := a.ingest.IngestFile(r.Context(), owner, header.Filename, data, force)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "ingestion failed")
		return
	}

	// A byte-identical re-upload resolves to the shared row, same as a
	// duplicate URL submission.
	status := http.StatusCreated
	if item.OwnerID != owner {
		status = http.StatusOK
	}
	a.attachTags(item)
	respondJSON(w, status, item)
}

// GetContent returns one content item by ID.
func (a *API) GetContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	item, err := a.content.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "content not found")
		return
	}
	a.attachTags(item)
	respondJSON(w, http.StatusOK, item)
}

// GetContentText returns the extracted plain text of an item, optionally a
// specific language body via ?lang=.
func (a *API) GetContentText(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	item, err := a.content.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "content not found")
		return
	}

	text, ok := a.ingest.Text(item, r.URL.Query().Get("lang"))
	if !ok {
		respondError(w, http.StatusNotFound, "no extracted text available")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

// ListContent returns the caller's content. With ?tags=a,b it instead
// searches all content carrying every listed tag.
func (a *API) ListContent(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	if rawTags := r.URL.Query().Get("tags"); rawTags != "" {
		items, err := a.tags.FindContentByTags(strings.Split(rawTags, ","), limit, offset)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "tag search failed")
			return
		}
		for i := range items {
			a.attachTags(&items[i])
		}
		respondJSON(w, http.StatusOK, items)
		return
	}

	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := a.content.ListByOwner(owner, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "list failed")
		return
	}
	for i := range items {
		a.attachTags(&items[i])
	}
	respondJSON(w, http.StatusOK, items)
}

// DeleteContent removes an item, its artifacts, and (via cascade) its jobs.
func (a *API) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	deleted, err := a.ingest.Delete(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "content not found")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// reextractRequest optionally targets one language body.
type reextractRequest struct {
	Language string `json:"language"`
}

// ReextractContent forces a fresh extraction run for an existing item. This
// is the only way a completed or failed item returns to extracting.
func (a *API) ReextractContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	var req reextractRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	item, err := a.ingest.Reextract(r.Context(), id, req.Language)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "re-extraction failed")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "content not found")
		return
	}
	a.attachTags(item)
	respondJSON(w, http.StatusOK, item)
}

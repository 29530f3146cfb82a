// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers exposes the ingestion core as a thin JSON API. User
// resolution and authentication live in an outer layer; callers identify
// the acting owner with the X-Owner-ID header and this surface treats it
// as an opaque, already-authorized identity.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"contentvault/internal/ingest"
	"contentvault/internal/store"
)

// maxUploadSize is the maximum allowed file upload size (100 MB).
const maxUploadSize = 100 << 20

// defaultPageSize bounds list endpoints when the caller gives no limit.
const defaultPageSize = 50

// API bundles the stores and the ingestion service behind HTTP handlers.
type API struct {
	ingest  *ingest.Service
	content *store.ContentStore
	tags    *store.TagStore
	jobs    *store.JobStore
	bundles *store.BundleStore
}

// New creates the API handler set.
func New(svc *ingest.Service, content *store.ContentStore, tags *store.TagStore, jobs *store.JobStore, bundles *store.BundleStore) *API {
	return &API{ingest: svc, content: content, tags: tags, jobs: jobs, bundles: bundles}
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// ownerID resolves the acting owner from the X-Owner-ID header.
func ownerID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get("X-Owner-ID")
	if raw == "" {
		return uuid.Nil, errors.New("X-Owner-ID header required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("X-Owner-ID must be a UUID")
	}
	return id, nil
}

// pathID parses a UUID out of a chi URL parameter value.
func pathID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	return id, err == nil
}

// pagination reads limit/offset query parameters with sane bounds.
func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

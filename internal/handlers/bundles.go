// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"contentvault/internal/models"
)

// previewLimit caps the combined-content preview stored on an attempt.
const previewLimit = 2000

type bundleRequest struct {
	Name       *string     `json:"name"`
	ContentIDs []uuid.UUID `json:"content_ids"`
}

// CreateBundle creates a bundle with its initial membership set.
func (a *API) CreateBundle(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req bundleRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bundle, err := a.bundles.Create(&models.Bundle{
		OwnerID:    owner,
		Name:       req.Name,
		ContentIDs: req.ContentIDs,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "bundle creation failed")
		return
	}
	respondJSON(w, http.StatusCreated, bundle)
}

// GetBundle returns a bundle with its membership array as stored — stale
// IDs of since-deleted content are not filtered out.
func (a *API) GetBundle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid bundle id")
		return
	}
	bundle, err := a.bundles.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if bundle == nil {
		respondError(w, http.StatusNotFound, "bundle not found")
		return
	}
	respondJSON(w, http.StatusOK, bundle)
}

// ListBundles returns the calling owner's bundles, newest first.
func (a *API) ListBundles(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	bundles, err := a.bundles.ListByOwner(owner)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	if bundles == nil {
		bundles = []models.Bundle{}
	}
	respondJSON(w, http.StatusOK, bundles)
}

// DeleteBundle removes a bundle and its attempt log. Member content items
// are untouched.
func (a *API) DeleteBundle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid bundle id")
		return
	}
	bundle, err := a.bundles.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if bundle == nil {
		respondError(w, http.StatusNotFound, "bundle not found")
		return
	}
	if err := a.bundles.Delete(id); err != nil {
		respondError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// UpdateBundleMembers replaces a bundle's membership set.
func (a *API) UpdateBundleMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid bundle id")
		return
	}
	var req bundleRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.bundles.UpdateContentIDs(id, req.ContentIDs); err != nil {
		respondError(w, http.StatusInternalServerError, "update failed")
		return
	}
	bundle, err := a.bundles.FindByID(id)
	if err != nil || bundle == nil {
		respondError(w, http.StatusNotFound, "bundle not found")
		return
	}
	respondJSON(w, http.StatusOK, bundle)
}

type attemptRequest struct {
	ProcessingType     models.ProcessingType `json:"processing_type"`
	OutputLanguage     string                `json:"output_language"`
	SystemPrompt       string                `json:"system_prompt"`
	UserPrompt         *string               `json:"user_prompt"`
	CustomInstructions *string               `json:"custom_instructions"`
}

// CreateBundleAttempt appends a new attempt to the bundle's version log. A
// preview of the combined member texts is captured so the configuration can
// be audited later even if members change.
func (a *API) CreateBundleAttempt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid bundle id")
		return
	}
	bundle, err := a.bundles.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if bundle == nil {
		respondError(w, http.StatusNotFound, "bundle not found")
		return
	}

	var req attemptRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SystemPrompt == "" {
		respondError(w, http.StatusBadRequest, "system_prompt is required")
		return
	}
	if req.OutputLanguage == "" {
		req.OutputLanguage = "en"
	}

	preview := a.combinedPreview(bundle)

	attempt, err := a.bundles.CreateAttempt(&models.BundleAttempt{
		BundleID:               id,
		ProcessingType:         req.ProcessingType,
		OutputLanguage:         req.OutputLanguage,
		SystemPrompt:           req.SystemPrompt,
		UserPrompt:             req.UserPrompt,
		CombinedContentPreview: preview,
		CustomInstructions:     req.CustomInstructions,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "attempt creation failed")
		return
	}
	respondJSON(w, http.StatusCreated, attempt)
}

// ListBundleAttempts returns a bundle's attempts in version order.
func (a *API) ListBundleAttempts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid bundle id")
		return
	}
	attempts, err := a.bundles.ListAttempts(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "list failed")
		return
	}
	respondJSON(w, http.StatusOK, attempts)
}

// combinedPreview concatenates the opening of each member's extracted text.
// Stale member IDs and missing texts are skipped silently.
func (a *API) combinedPreview(bundle *models.Bundle) *string {
	var parts []string
	remaining := previewLimit
	for _, contentID := range bundle.ContentIDs {
		if remaining <= 0 {
			break
		}
		item, err := a.content.FindByID(contentID)
		if err != nil || item == nil {
			continue
		}
		text, ok := a.ingest.Text(item, "")
		if !ok {
			continue
		}
		if len(text) > remaining {
			text = text[:remaining]
		}
		parts = append(parts, text)
		remaining -= len(text)
	}
	if len(parts) == 0 {
		return nil
	}
	preview := strings.Join(parts, "\n\n---\n\n")
	return &preview
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"contentvault/internal/models"
)

// attachTags fills an item's tag names for responses. Failures degrade to
// an untagged view rather than failing the request.
func (a *API) attachTags(item *models.ContentItem) {
	names, err := a.tags.ListForContent(item.ID)
	if err != nil {
		slog.Warn("tag lookup failed", "content_id", item.ID, "error", err)
		return
	}
	item.Tags = names
}

// tagRequest carries raw tag names; normalization happens in the store.
type tagRequest struct {
	Tags []string `json:"tags"`
}

// SetContentTags replaces a content item's tag set. Names are normalized,
// missing tags are created, and the link set is fully replaced — sending an
// empty list clears all tags.
func (a *API) SetContentTags(w http.ResponseWriter, r *http.Request) {
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

	var req tagRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tags, err := a.tags.GetOrCreateTags(req.Tags)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "tag upsert failed")
		return
	}
	ids := make([]uuid.UUID, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	if err := a.tags.LinkTags(id, ids); err != nil {
		respondError(w, http.StatusInternalServerError, "tag linking failed")
		return
	}

	a.attachTags(item)
	respondJSON(w, http.StatusOK, item)
}

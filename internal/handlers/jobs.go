// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"contentvault/internal/models"
)

type jobRequest struct {
	ContentID      *uuid.UUID            `json:"content_id"`
	BundleID       *uuid.UUID            `json:"bundle_id"`
	ProcessingType models.ProcessingType `json:"processing_type"`
	OutputLanguage string                `json:"output_language"`
	UserPrompt     *string               `json:"user_prompt"`
}

// CreateJob registers a pending processing job for the external AI engine
// to pick up. A bundle job snapshots the bundle's current membership into
// the job row.
func (a *API) CreateJob(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req jobRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if (req.ContentID == nil) == (req.BundleID == nil) {
		respondError(w, http.StatusBadRequest, "exactly one of content_id or bundle_id is required")
		return
	}

	job := &models.ProcessingJob{
		ContentID:      req.ContentID,
		BundleID:       req.BundleID,
		ProcessingType: req.ProcessingType,
		OutputLanguage: req.OutputLanguage,
		UserPrompt:     req.UserPrompt,
		OwnerID:        owner,
	}

	if req.BundleID != nil {
		bundle, err := a.bundles.FindByID(*req.BundleID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "bundle lookup failed")
			return
		}
		if bundle == nil {
			respondError(w, http.StatusNotFound, "bundle not found")
			return
		}
		job.ContentIDs = bundle.ContentIDs
	} else {
		item, err := a.content.FindByID(*req.ContentID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "content lookup failed")
			return
		}
		if item == nil {
			respondError(w, http.StatusNotFound, "content not found")
			return
		}
	}

	created, err := a.jobs.Create(job)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "job creation failed")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// GetJob returns one job row with its latest execution state.
func (a *API) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	job, err := a.jobs.FindByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// RetryJob resets a job in place for another run. Deliberately no version
// history here: only bundle attempts carry provenance.
func (a *API) RetryJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	job, err := a.jobs.Retry(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "retry failed")
		return
	}
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// ListJobs returns the caller's jobs, newest first.
func (a *API) ListJobs(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, offset := pagination(r)
	jobs, err := a.jobs.ListByOwner(owner, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "list failed")
		return
	}
	respondJSON(w, http.StatusOK, jobs)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ingest implements the dedup registry state machine: classify the
// input, fingerprint it, look the fingerprint up globally, and only on a
// miss run the source's extraction chain and persist its artifacts. The
// content hash is the system-wide identity; the same source submitted by
// any user resolves to one shared content item.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"contentvault/internal/cache"
	"contentvault/internal/classify"
	"contentvault/internal/extract"
	"contentvault/internal/filestore"
	"contentvault/internal/fingerprint"
	"contentvault/internal/models"
	"contentvault/internal/storage"
	"contentvault/internal/store"
)

// ErrNotIngestable marks input that is neither an ingestable URL nor a file.
var ErrNotIngestable = errors.New("input is not an ingestable url")

// exhaustedMessage is persisted when every strategy of a chain came up empty.
const exhaustedMessage = "extraction failed: all strategies exhausted"

// Service orchestrates ingestion end to end. Stores are authoritative; the
// lookup cache and the S3 archive are both optional accelerants.
type Service struct {
	content *store.ContentStore
	files   *filestore.Store
	lookup  *cache.HashLookup
	archive *storage.Archive

	chains     map[models.SourceType]*extract.Chain
	scratchDir string

	// beforeCreate runs between the registry lookup and the insert.
	// Tests use it to interleave a competing writer into the gap.
	beforeCreate func()
}

// New wires a Service over its collaborators. lookup and archive may be nil.
func New(content *store.ContentStore, files *filestore.Store, lookup *cache.HashLookup, archive *storage.Archive, scratchDir string) *Service {
	pdfChain := extract.NewPDFChain()
	return &Service{
		content: content,
		files:   files,
		lookup:  lookup,
		archive: archive,
		chains: map[models.SourceType]*extract.Chain{
			models.SourceYouTube: extract.NewYouTubeChain(scratchDir),
			models.SourcePDFURL:  pdfChain,
			models.SourcePDFFile: pdfChain,
			models.SourceWeb:     extract.NewWebChain(),
		},
		scratchDir: scratchDir,
	}
}

// IngestURL ingests a URL-shaped input. Duplicate submissions without
// forceReprocess return the existing item with zero extraction work; with
// forceReprocess the existing item is re-extracted in place. An extraction
// failure still returns a (failed) item, never an error.
func (s *Service) IngestURL(ctx context.Context, ownerID uuid.UUID, raw string, force bool) (*models.ContentItem, error) {
	kind, canonical := classify.Classify(raw)
	if kind == classify.KindNone {
		return nil, fmt.Errorf("%w: %q", ErrNotIngestable, raw)
	}

	hash, err := fingerprintURL(kind, canonical)
	if err != nil {
		return nil, fmt.Errorf("fingerprint url: %w", err)
	}

	sourceType := map[classify.Kind]models.SourceType{
		classify.KindYouTube: models.SourceYouTube,
		classify.KindPDF:     models.SourcePDFURL,
		classify.KindWeb:     models.SourceWeb,
	}[kind]

	return s.getOrCreate(ctx, getOrCreateInput{
		ownerID:    ownerID,
		sourceType: sourceType,
		sourceURL:  &canonical,
		hash:       hash,
		force:      force,
	})
}

// IngestFile ingests an uploaded PDF. The stream is hashed in bounded
// chunks; byte-identical re-uploads resolve to the existing item before any
// extraction runs.
func (s *Service) IngestFile(ctx context.Context, ownerID uuid.UUID, filename string, data []byte, force bool) (*models.ContentItem, error) {
	hash := fingerprint.HashBytes(data)

	// Dedup check first: an identical upload needs no new file writes.
	if existing, err := s.content.FindByHash(hash); err != nil {
		return nil, err
	} else if existing != nil && !force {
		s.lookup.Set(ctx, hash, existing.ID)
		slog.Info("upload dedup hit", "hash", hash, "content_id", existing.ID)
		return existing, nil
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := filestore.UploadKey(hash, ext)
	rel, err := s.files.Write(filestore.NamespaceUploads, key, data)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	s.archiveUpload(ctx, key, data)

	return s.getOrCreate(ctx, getOrCreateInput{
		ownerID:    ownerID,
		sourceType: models.SourcePDFFile,
		fileRef:    &rel,
		hash:       hash,
		force:      force,
	})
}

// fingerprintURL derives the content identity for a URL source. YouTube
// URLs keep their identity in the video-ID query parameter, which the
// normalized URL hash discards, so they hash by video ID instead: every URL
// form of one video (watch, short link, embed) maps to one content item,
// and distinct videos on the same host stay distinct.
func fingerprintURL(kind classify.Kind, canonical string) (string, error) {
	if kind == classify.KindYouTube {
		id, err := extract.ParseVideoID(canonical)
		if err != nil {
			// A YouTube host URL without a video (channel, playlist) has
			// nothing the transcript chain could work on.
			return "", fmt.Errorf("%w: %v", ErrNotIngestable, err)
		}
		return fingerprint.HashText("youtube:" + id), nil
	}
	return fingerprint.HashURL(canonical)
}

type getOrCreateInput struct {
	ownerID    uuid.UUID
	sourceType models.SourceType
	sourceURL  *string
	fileRef    *string
	hash       string
	force      bool
}

// getOrCreate is the dedup state machine core. Lookup order: cache, then
// the authoritative hash index. A lookup-then-insert race is resolved by
// catching the unique violation and re-reading the winner's row.
func (s *Service) getOrCreate(ctx context.Context, in getOrCreateInput) (*models.ContentItem, error) {
	if !in.force {
		if id, ok := s.lookup.Get(ctx, in.hash); ok {
			if item, err := s.content.FindByID(id); err == nil && item != nil {
				slog.Debug("dedup cache hit", "hash", in.hash, "content_id", id)
				return item, nil
			}
		}
	}

	existing, err := s.content.FindByHash(in.hash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.lookup.Set(ctx, in.hash, existing.ID)
		if !in.force {
			// Cache hit: the caller gets the shared row unchanged, no I/O.
			return existing, nil
		}
		if in.fileRef != nil && (existing.FileReference == nil || *existing.FileReference != *in.fileRef) {
			if err := s.content.SetFileReference(existing.ID, *in.fileRef); err != nil {
				return nil, err
			}
			existing.FileReference = in.fileRef
		}
		return s.runExtraction(ctx, existing, "")
	}

	if s.beforeCreate != nil {
		s.beforeCreate()
	}

	created, err := s.content.Create(&models.ContentItem{
		ContentHash:   in.hash,
		SourceType:    in.sourceType,
		SourceURL:     in.sourceURL,
		FileReference: in.fileRef,
		OwnerID:       in.ownerID,
		Status:        models.StatusPending,
	})
	if store.IsUniqueViolation(err) {
		// Lost the insert race: someone else created the row between our
		// lookup and insert. Their row is the shared item now.
		winner, ferr := s.content.FindByHash(in.hash)
		if ferr != nil {
			return nil, ferr
		}
		if winner == nil {
			return nil, fmt.Errorf("duplicate hash %s vanished after conflict", in.hash)
		}
		slog.Info("dedup insert race resolved", "hash", in.hash, "content_id", winner.ID)
		s.lookup.Set(ctx, in.hash, winner.ID)
		return winner, nil
	}
	if err != nil {
		return nil, err
	}

	s.lookup.Set(ctx, in.hash, created.ID)
	return s.runExtraction(ctx, created, "")
}

// Reextract re-runs the extraction chain for an existing item, optionally
// targeting a specific language body. This is the only path that moves a
// terminal item back to extracting.
func (s *Service) Reextract(ctx context.Context, contentID uuid.UUID, lang string) (*models.ContentItem, error) {
	item, err := s.content.FindByID(contentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return s.runExtraction(ctx, item, lang)
}

// runExtraction drives one item through extracting -> {completed, failed}.
// The text file is written before the row is marked completed; the reverse
// order could leave a completed-but-fileless row behind a crash.
func (s *Service) runExtraction(ctx context.Context, item *models.ContentItem, lang string) (*models.ContentItem, error) {
	if err := s.content.UpdateStatus(item.ID, models.StatusExtracting, nil); err != nil {
		return nil, err
	}

	src, err := s.sourceFor(ctx, item)
	if err != nil {
		return s.markFailed(item, err.Error())
	}

	chain := s.chains[item.SourceType]
	res, runErr := chain.Run(ctx, src)
	if runErr != nil {
		// Cancellation abandons remaining strategies; record and surface.
		s.markFailed(item, runErr.Error())
		return nil, runErr
	}
	if res == nil {
		return s.markFailed(item, exhaustedMessage)
	}

	detected := extract.DetectLanguage(res.Text)
	if lang == "" {
		if detected != "" {
			lang = detected
		} else {
			lang = "en"
		}
	}

	key := filestore.ExtractedTextKey(item.ContentHash, lang)
	rel, err := s.files.Write(filestore.NamespaceExtracted, key, []byte(res.Text))
	if err != nil {
		// Storage write failures propagate; the row must not read completed.
		s.markFailed(item, "storage write failed: "+err.Error())
		return nil, err
	}

	var detectedPtr *string
	if detected != "" {
		detectedPtr = &detected
	}
	if err := s.content.SetExtractionResult(item.ID, lang, rel, detectedPtr); err != nil {
		return nil, err
	}
	return s.content.FindByID(item.ID)
}

// markFailed records a terminal failure and returns the still-retrievable
// item so clients can inspect error_message and retry.
func (s *Service) markFailed(item *models.ContentItem, msg string) (*models.ContentItem, error) {
	slog.Warn("extraction failed", "content_id", item.ID, "source_type", item.SourceType, "error", msg)
	if err := s.content.UpdateStatus(item.ID, models.StatusFailed, &msg); err != nil {
		return nil, err
	}
	return s.content.FindByID(item.ID)
}

// sourceFor materializes the extraction input. PDF URLs are downloaded into
// the uploads namespace first so the page parser works from a local file.
func (s *Service) sourceFor(ctx context.Context, item *models.ContentItem) (extract.Source, error) {
	switch item.SourceType {
	case models.SourceYouTube, models.SourceWeb:
		if item.SourceURL == nil {
			return extract.Source{}, fmt.Errorf("item %s has no source url", item.ID)
		}
		return extract.Source{URL: *item.SourceURL}, nil

	case models.SourcePDFFile:
		if item.FileReference == nil {
			return extract.Source{}, fmt.Errorf("item %s has no file reference", item.ID)
		}
		if s.files.Exists(*item.FileReference) {
			return extract.Source{FilePath: filepath.Join(s.files.Root(), *item.FileReference)}, nil
		}
		path, err := s.restoreUpload(ctx, *item.FileReference)
		if err != nil {
			return extract.Source{}, err
		}
		return extract.Source{FilePath: path}, nil

	case models.SourcePDFURL:
		if item.FileReference != nil && s.files.Exists(*item.FileReference) {
			return extract.Source{FilePath: filepath.Join(s.files.Root(), *item.FileReference)}, nil
		}
		if item.SourceURL == nil {
			return extract.Source{}, fmt.Errorf("item %s has no source url", item.ID)
		}
		rel, err := s.downloadPDF(ctx, item.ID, *item.SourceURL)
		if err != nil {
			return extract.Source{}, err
		}
		return extract.Source{FilePath: filepath.Join(s.files.Root(), rel)}, nil
	}
	return extract.Source{}, fmt.Errorf("unknown source type %q", item.SourceType)
}

// Delete removes an item's row and artifacts. File deletions are tolerant:
// a missing artifact is logged, not fatal. The row delete cascades to
// processing jobs; bundle membership arrays keep whatever they held.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	item, err := s.content.FindByID(id)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}

	for _, rel := range item.ExtractedTextPaths {
		s.files.Delete(rel)
	}
	if item.ExtractedTextPath != nil {
		s.files.Delete(*item.ExtractedTextPath)
	}
	if item.FileReference != nil {
		s.files.Delete(*item.FileReference)
		s.deleteArchived(ctx, filepath.Base(*item.FileReference))
	}

	if err := s.content.Delete(id); err != nil {
		return false, err
	}
	s.lookup.Invalidate(ctx, item.ContentHash)
	slog.Info("content deleted", "content_id", id, "hash", item.ContentHash)
	return true, nil
}

// Text returns an item's extracted text body, preferring the requested
// language and falling back to the primary path. Missing files report a
// clean miss rather than an error.
func (s *Service) Text(item *models.ContentItem, lang string) (string, bool) {
	if lang != "" {
		if rel, ok := item.ExtractedTextPaths[lang]; ok {
			if data, ok := s.files.Read(rel); ok {
				return string(data), true
			}
		}
		return "", false
	}
	if item.ExtractedTextPath == nil {
		return "", false
	}
	data, ok := s.files.Read(*item.ExtractedTextPath)
	if !ok {
		return "", false
	}
	return string(data), true
}

// archiveUpload mirrors a raw upload to S3 when an archive is configured.
// Archive failures never block ingestion.
func (s *Service) archiveUpload(ctx context.Context, key string, data []byte) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Put(ctx, key, "application/octet-stream", data); err != nil {
		slog.Warn("upload archive failed", "key", key, "error", err)
	}
}

// restoreUpload pulls an archived raw upload back when the local copy is
// gone (retention sweep, storage loss), writing it to scratch for the
// parser.
func (s *Service) restoreUpload(ctx context.Context, rel string) (string, error) {
	key := filepath.Base(rel)
	if s.archive == nil {
		return "", fmt.Errorf("upload %s missing locally and no archive configured", key)
	}
	data, err := s.archive.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("restore upload from archive: %w", err)
	}
	path := filepath.Join(s.scratchDir, key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write restored upload: %w", err)
	}
	slog.Info("upload restored from archive", "key", key)
	return path, nil
}

// deleteArchived removes the archived copy of a raw upload. Best effort,
// like the local artifact deletes.
func (s *Service) deleteArchived(ctx context.Context, key string) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Delete(ctx, key); err != nil {
		slog.Warn("archive delete failed", "key", key, "error", err)
	}
}

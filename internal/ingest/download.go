// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"contentvault/internal/filestore"
	"contentvault/internal/fingerprint"
)

const (
	pdfDownloadTimeout = 60 * time.Second

	// maxPDFBytes caps remote PDF downloads.
	maxPDFBytes = 100 << 20
)

var pdfClient = &http.Client{Timeout: pdfDownloadTimeout}

// downloadPDF fetches a remote PDF into the uploads namespace and records
// it as the item's file reference. The stored key is content-addressed by
// the downloaded bytes, so re-downloads of identical documents collide on
// the same file.
func (s *Service) downloadPDF(ctx context.Context, contentID uuid.UUID, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build pdf request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; contentvault/1.0)")

	resp, err := pdfClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download pdf: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pdf download status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes))
	if err != nil {
		return "", fmt.Errorf("read pdf body: %w", err)
	}

	key := filestore.UploadKey(fingerprint.HashBytes(data), ".pdf")
	rel, err := s.files.Write(filestore.NamespaceUploads, key, data)
	if err != nil {
		return "", fmt.Errorf("store downloaded pdf: %w", err)
	}
	s.archiveUpload(ctx, key, data)

	if err := s.content.SetFileReference(contentID, rel); err != nil {
		return "", err
	}
	slog.Info("pdf downloaded", "content_id", contentID, "bytes", len(data), "path", rel)
	return rel, nil
}

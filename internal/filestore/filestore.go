// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package filestore persists extraction artifacts on disk in a
// content-addressed, date-partitioned layout:
//
//	{root}/{namespace}/{YYYY}/{MM}/{key}
//
// Partitions follow write time, so a retry crossing a month boundary lands
// in a different partition than the original. All I/O is whole-file
// create/read/delete; nothing is mutated in place.
package filestore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Namespace separates the three artifact families rooted independently
// under the storage root.
type Namespace string

const (
	NamespaceExtracted Namespace = "extracted"
	NamespaceResults   Namespace = "results"
	NamespaceUploads   Namespace = "uploads"
)

// Namespaces lists every namespace the store manages, in sweep order.
var Namespaces = []Namespace{NamespaceExtracted, NamespaceResults, NamespaceUploads}

// Store is a date-partitioned file store rooted at a single directory.
type Store struct {
	root string
	now  func() time.Time
}

// New creates a Store rooted at dir, creating the namespace roots up front.
func New(dir string) (*Store, error) {
	for _, ns := range Namespaces {
		if err := os.MkdirAll(filepath.Join(dir, string(ns)), 0o755); err != nil {
			return nil, fmt.Errorf("create namespace root %s: %w", ns, err)
		}
	}
	return &Store{root: dir, now: time.Now}, nil
}

// Root returns the configured storage root.
func (s *Store) Root() string {
	return s.root
}

// ExtractedTextKey builds the key for an extracted text body. Multiple
// language bodies of one content item sit side by side under distinct keys.
func ExtractedTextKey(contentHash, lang string) string {
	return contentHash + "_" + lang + ".txt"
}

// UploadKey builds the content-addressed key for a raw upload. Byte-identical
// re-uploads collide on disk even before the registry-level hash check runs.
func UploadKey(fileHash, ext string) string {
	if ext == "" {
		ext = ".bin"
	}
	return fileHash + ext
}

// ResultKey builds the key for a processing-job result body.
func ResultKey(jobID string) string {
	return jobID + ".txt"
}

// Write stores data under the namespace at the current write-time partition
// and returns the path of the created file, relative to the storage root.
func (s *Store) Write(ns Namespace, key string, data []byte) (string, error) {
	rel := s.partitionedPath(ns, key)
	abs := filepath.Join(s.root, rel)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create partition dir: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}

	slog.Debug("file stored", "namespace", ns, "path", rel, "bytes", len(data))
	return rel, nil
}

// Read returns the contents of a previously written file by its relative
// path. A missing or unreadable file is tolerated: it logs and returns
// (nil, false) rather than failing the caller.
func (s *Store) Read(rel string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(s.root, rel))
	if err != nil {
		slog.Warn("file read failed", "path", rel, "error", err)
		return nil, false
	}
	return data, true
}

// Delete removes a file by its relative path. Missing files are tolerated:
// the result reports whether a file was actually removed.
func (s *Store) Delete(rel string) bool {
	if err := os.Remove(filepath.Join(s.root, rel)); err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("file delete failed", "path", rel, "error", err)
		}
		return false
	}
	return true
}

// Exists reports whether a relative path currently resolves to a file.
func (s *Store) Exists(rel string) bool {
	info, err := os.Stat(filepath.Join(s.root, rel))
	return err == nil && !info.IsDir()
}

// partitionedPath places a key under its namespace's current year/month
// partition.
func (s *Store) partitionedPath(ns Namespace, key string) string {
	t := s.now().UTC()
	return filepath.Join(string(ns), fmt.Sprintf("%04d", t.Year()), fmt.Sprintf("%02d", int(t.Month())), key)
}

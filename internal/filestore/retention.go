// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package filestore

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

// SweepResult reports what one retention pass did.
type SweepResult struct {
	Examined int
	Deleted  int
	Failed   int
}

// Sweep walks every namespace and deletes files whose modification time is
// older than retentionDays. Per-file failures are logged and counted, never
// fatal: the sweep touches one file at a time, holds no locks, and may run
// concurrently with ingestion. A retentionDays of zero disables the sweep.
func (s *Store) Sweep(ctx context.Context, retentionDays int) SweepResult {
	if retentionDays <= 0 {
		return SweepResult{}
	}
	cutoff := s.now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

	results := make([]SweepResult, len(Namespaces))
	g, ctx := errgroup.WithContext(ctx)
	for i, ns := range Namespaces {
		g.Go(func() error {
			results[i] = s.sweepNamespace(ctx, ns, cutoff)
			return nil
		})
	}
	g.Wait()

	var total SweepResult
	for _, r := range results {
		total.Examined += r.Examined
		total.Deleted += r.Deleted
		total.Failed += r.Failed
	}
	slog.Info("retention sweep finished",
		"examined", total.Examined,
		"deleted", total.Deleted,
		"failed", total.Failed,
	)
	return total
}

func (s *Store) sweepNamespace(ctx context.Context, ns Namespace, cutoff time.Time) SweepResult {
	var res SweepResult
	root := filepath.Join(s.root, string(ns))

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			slog.Warn("sweep walk error", "namespace", ns, "path", path, "error", err)
			res.Failed++
			return nil
		}
		if d.IsDir() {
			return nil
		}
		res.Examined++

		info, err := d.Info()
		if err != nil {
			slog.Warn("sweep stat failed", "path", path, "error", err)
			res.Failed++
			return nil
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			slog.Warn("sweep delete failed", "path", path, "error", err)
			res.Failed++
			return nil
		}
		res.Deleted++
		return nil
	})
	return res
}

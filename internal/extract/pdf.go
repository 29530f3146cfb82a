// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// NewPDFChain builds the single-strategy chain for PDF sources. The chain
// machinery still applies: a failed parse yields "no text", not a crash.
func NewPDFChain() *Chain {
	return NewChain("pdf", &PDFReader{})
}

// PDFReader extracts text page by page from a PDF file on disk. Pages that
// fail extraction are skipped and logged; surviving pages are concatenated
// with blank-line separators under per-page markers.
type PDFReader struct{}

func (r *PDFReader) Name() string { return "pdf_reader" }

func (r *PDFReader) Extract(ctx context.Context, src Source) (string, error) {
	if src.FilePath == "" {
		return "", errors.New("pdf source has no file path")
	}

	// Reject files that are not structurally valid PDFs before page parsing.
	if err := api.ValidateFile(src.FilePath, nil); err != nil {
		return "", fmt.Errorf("pdf validation: %w", err)
	}

	f, reader, err := pdf.Open(src.FilePath)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	var pages []string
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := extractPage(reader, i)
		if err != nil {
			slog.Warn("pdf page extraction failed", "page", i, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, fmt.Sprintf("[Page %d]\n%s", i, strings.TrimSpace(text)))
	}

	// Zero surviving pages is "no text", which the chain treats as a miss.
	return strings.Join(pages, "\n\n"), nil
}

// extractPage isolates per-page panics: the underlying parser can panic on
// malformed content streams.
func extractPage(reader *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page parser panicked: %v", rec)
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", errors.New("null page object")
	}
	return page.GetPlainText(nil)
}

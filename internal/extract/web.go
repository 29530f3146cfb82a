// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

const defaultWebTimeout = 30 * time.Second

// maxWebBodyBytes caps how much of a page is read before readability runs.
const maxWebBodyBytes = 10 << 20

// NewWebChain builds the chain for generic web pages, backed by the
// readability scraper.
func NewWebChain() *Chain {
	return NewChain("web", NewWebScraper())
}

// WebScraper fetches a page and reduces it to readable article text. It also
// serves as the web-URL predicate consumed by the ingestion layer.
type WebScraper struct {
	client *http.Client
}

// NewWebScraper returns a scraper with a bounded per-request timeout.
func NewWebScraper() *WebScraper {
	return &WebScraper{client: &http.Client{Timeout: defaultWebTimeout}}
}

func (s *WebScraper) Name() string { return "readability" }

// IsWebURL reports whether the input is an absolute http(s) URL this scraper
// will accept.
func (s *WebScraper) IsWebURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *WebScraper) Extract(ctx context.Context, src Source) (string, error) {
	if !s.IsWebURL(src.URL) {
		return "", fmt.Errorf("not a web url: %q", src.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; contentvault/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page fetch status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWebBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}

	pageURL, _ := url.Parse(src.URL)
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", errors.New("page produced no readable text")
	}
	if article.Title != "" {
		text = article.Title + "\n\n" + text
	}
	return text, nil
}

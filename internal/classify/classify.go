// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package classify decides which extraction chain handles a raw input string
// and strips tracking noise from URLs before they are fingerprinted.
package classify

import (
	"net/url"
	"path"
	"strings"
)

// Kind is the source category assigned to a raw input.
type Kind string

const (
	KindNone    Kind = "none"
	KindYouTube Kind = "youtube"
	KindPDF     Kind = "pdf"
	KindWeb     Kind = "web"
)

// trackingParams are dropped during canonicalization. Entries ending in "*"
// match as prefixes.
var trackingParams = []string{
	"utm_*", "fbclid", "gclid", "ref", "source", "campaign", "_ga", "_gl", "mc_*",
}

// youtubeHosts are hostnames recognized as YouTube, with or without a
// leading "www." or "m.".
var youtubeHosts = map[string]bool{
	"youtube.com": true,
	"youtu.be":    true,
}

// articleHosts back the Suggest heuristic: domains known to serve readable
// articles, news, or documentation.
var articleHosts = map[string]Kind{
	"medium.com":        KindWeb,
	"substack.com":      KindWeb,
	"dev.to":            KindWeb,
	"habr.com":          KindWeb,
	"nytimes.com":       KindWeb,
	"theguardian.com":   KindWeb,
	"bbc.com":           KindWeb,
	"reuters.com":       KindWeb,
	"wikipedia.org":     KindWeb,
	"docs.google.com":   KindWeb,
	"readthedocs.io":    KindWeb,
	"arxiv.org":         KindPDF,
	"researchgate.net":  KindPDF,
	"ssrn.com":          KindPDF,
	"papers.ssrn.com":   KindPDF,
	"dl.acm.org":        KindPDF,
	"link.springer.com": KindPDF,
}

// Classify inspects a raw input string and returns its source kind together
// with the canonical form used for fingerprinting. Anything that is not an
// absolute http(s) URL with a host comes back as (KindNone, input) unchanged.
func Classify(raw string) (Kind, string) {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil {
		return KindNone, raw
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return KindNone, raw
	}
	if u.Host == "" {
		return KindNone, raw
	}

	if isYouTubeURL(u) {
		// YouTube URLs pass through untouched: the video-ID parameter is
		// load-bearing and the extractor canonicalizes on its own.
		return KindYouTube, trimmed
	}

	canonical := canonicalize(u)
	if looksLikePDF(u) {
		return KindPDF, canonical
	}
	return KindWeb, canonical
}

// Suggest is a secondary heuristic for inputs the primary check could not
// settle. It consults an allow-list of known article and paper domains and
// returns KindNone when the host is unknown.
func Suggest(raw string) Kind {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return KindNone
	}
	host := strings.ToLower(u.Hostname())
	for candidate, kind := range articleHosts {
		if host == candidate || strings.HasSuffix(host, "."+candidate) {
			return kind
		}
	}
	return KindNone
}

// canonicalize drops the fragment and strips tracking query parameters,
// leaving the rest of the URL untouched.
func canonicalize(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""

	q := c.Query()
	for key := range q {
		if isTrackingParam(key) {
			q.Del(key)
		}
	}
	c.RawQuery = q.Encode()
	return c.String()
}

func isTrackingParam(key string) bool {
	lower := strings.ToLower(key)
	for _, p := range trackingParams {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(lower, prefix) {
				return true
			}
		} else if lower == p {
			return true
		}
	}
	return false
}

func isYouTubeURL(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")
	return youtubeHosts[host]
}

// looksLikePDF flags URLs whose path ends in .pdf, or — deliberately loose —
// URLs mentioning "pdf" anywhere. The substring check catches viewer and
// download endpoints that hide the extension.
func looksLikePDF(u *url.URL) bool {
	if strings.EqualFold(path.Ext(u.Path), ".pdf") {
		return true
	}
	return strings.Contains(strings.ToLower(u.String()), "pdf")
}

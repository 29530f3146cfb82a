// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package extract

import (
	"encoding/xml"
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	// sequenceNumberLine matches bare SRT cue counters.
	sequenceNumberLine = regexp.MustCompile(`^\d+$`)
	// timestampLine matches standalone VTT/SRT style timestamps.
	timestampLine = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?([.,]\d{1,3})?$`)
	// markupTag matches HTML and subtitle formatting tags.
	markupTag = regexp.MustCompile(`<[^>]*>`)
	// whitespaceRun collapses internal whitespace after joining.
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// CleanSubtitleText turns raw subtitle file content (VTT, SRT, or timedtext
// dumps) into plain prose. It drops blank lines, bare sequence numbers, cue
// lines containing "-->", standalone timestamps, and format headers; strips
// markup; de-duplicates consecutive identical lines; and joins the rest with
// single spaces. Cleaning already-clean prose returns it unchanged.
func CleanSubtitleText(raw string) string {
	var kept []string
	var prev string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(markupTag.ReplaceAllString(line, ""))
		switch {
		case line == "":
			continue
		case sequenceNumberLine.MatchString(line):
			continue
		case strings.Contains(line, "-->"):
			continue
		case timestampLine.MatchString(line):
			continue
		case line == "WEBVTT" || strings.HasPrefix(line, "Kind:") || strings.HasPrefix(line, "Language:"):
			continue
		case line == prev:
			// Rolling captions repeat the previous line; keep one copy.
			continue
		}
		kept = append(kept, line)
		prev = line
	}

	return whitespaceRun.ReplaceAllString(strings.Join(kept, " "), " ")
}

// timedTextDoc mirrors YouTube's timedtext transcript XML:
//
//	<transcript><text start="0.0" dur="1.2">escaped text</text></transcript>
type timedTextDoc struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// parseTimedText decodes a timedtext XML payload into plain joined prose.
func parseTimedText(data []byte) (string, error) {
	var doc timedTextDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse timedtext xml: %w", err)
	}
	var parts []string
	for _, t := range doc.Texts {
		snippet := strings.TrimSpace(html.UnescapeString(t.Value))
		if snippet == "" {
			continue
		}
		parts = append(parts, snippet)
	}
	return CleanSubtitleText(strings.Join(parts, "\n")), nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package extract

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kkdai/youtube/v2"
	"golang.org/x/text/language"
)

// preferredTranscriptLangs orders auto-generated transcript languages when
// no manually authored track exists.
var preferredTranscriptLangs = []string{"en", "ru", "es"}

// defaultYouTubeTimeout bounds each network call; there is deliberately no
// end-to-end deadline across a whole chain.
const defaultYouTubeTimeout = 20 * time.Second

// ParseVideoID pulls the video ID out of the usual YouTube URL shapes.
func ParseVideoID(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse youtube url: %w", err)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	if host == "youtu.be" {
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
		return "", errors.New("youtu.be link without video id")
	}
	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}
	for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
		if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
			if id := strings.SplitN(rest, "/", 2)[0]; id != "" {
				return id, nil
			}
		}
	}
	return "", fmt.Errorf("no video id in %q", raw)
}

// NewYouTubeChain assembles the three-step fallback chain for YouTube
// sources: transcript-track API, caption extraction through a
// browser-emulating client, and a last-resort subtitle downloader that
// round-trips through scratch files.
func NewYouTubeChain(scratchDir string) *Chain {
	httpClient := &http.Client{Timeout: defaultYouTubeTimeout}
	ytClient := &youtube.Client{HTTPClient: httpClient}
	return NewChain("youtube",
		&TranscriptAPI{HTTPClient: httpClient},
		&CaptionClient{Client: ytClient, HTTPClient: httpClient},
		&DownloaderFallback{Client: ytClient, HTTPClient: httpClient, ScratchDir: scratchDir},
	)
}

// --- strategy (a): transcript-track API -----------------------------------

// TranscriptAPI fetches transcripts from YouTube's timedtext endpoint.
// Manually authored tracks win over any language; auto-generated tracks are
// tried in the fixed preference order; failing both, any track is used.
type TranscriptAPI struct {
	HTTPClient *http.Client
	// BaseURL overrides the timedtext endpoint, used by tests.
	BaseURL string
}

func (t *TranscriptAPI) Name() string { return "transcript_api" }

// transcriptTrack is one entry of the timedtext track listing.
type transcriptTrack struct {
	LangCode string `xml:"lang_code,attr"`
	Name     string `xml:"name,attr"`
	Kind     string `xml:"kind,attr"`
}

type transcriptList struct {
	XMLName xml.Name          `xml:"transcript_list"`
	Tracks  []transcriptTrack `xml:"track"`
}

func (t *TranscriptAPI) endpoint() string {
	if t.BaseURL != "" {
		return t.BaseURL
	}
	return "https://video.google.com/timedtext"
}

func (t *TranscriptAPI) Extract(ctx context.Context, src Source) (string, error) {
	videoID, err := ParseVideoID(src.URL)
	if err != nil {
		return "", err
	}

	listURL := t.endpoint() + "?type=list&v=" + url.QueryEscape(videoID)
	body, err := t.get(ctx, listURL)
	if err != nil {
		return "", err
	}

	var list transcriptList
	if err := xml.Unmarshal(body, &list); err != nil {
		return "", fmt.Errorf("parse track list: %w", err)
	}
	track, ok := pickTranscriptTrack(list.Tracks, preferredTranscriptLangs)
	if !ok {
		return "", errors.New("no transcript tracks available")
	}

	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", track.LangCode)
	if track.Kind != "" {
		q.Set("kind", track.Kind)
	}
	if track.Name != "" {
		q.Set("name", track.Name)
	}
	payload, err := t.get(ctx, t.endpoint()+"?"+q.Encode())
	if err != nil {
		return "", err
	}
	return parseTimedText(payload)
}

func (t *TranscriptAPI) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("timedtext request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// pickTranscriptTrack applies the fixed preference order: any manually
// authored track first, then auto-generated tracks by preferred language,
// then literally any track at all.
func pickTranscriptTrack(tracks []transcriptTrack, preferred []string) (transcriptTrack, bool) {
	if len(tracks) == 0 {
		return transcriptTrack{}, false
	}
	for _, tr := range tracks {
		if tr.Kind != "asr" {
			return tr, true
		}
	}
	for _, lang := range preferred {
		for _, tr := range tracks {
			if langBase(tr.LangCode) == lang {
				return tr, true
			}
		}
	}
	return tracks[0], true
}

// langBase reduces a BCP 47 tag like "en-US" to its base language "en".
func langBase(code string) string {
	tag := language.Make(code)
	base, conf := tag.Base()
	if conf == language.No {
		return strings.ToLower(code)
	}
	return base.String()
}

// --- strategy (b): caption extraction via browser-emulating client --------

// CaptionClient pulls caption tracks through the innertube player response,
// the same way a browser does. English variants are preferred, then any.
type CaptionClient struct {
	Client     *youtube.Client
	HTTPClient *http.Client
}

func (c *CaptionClient) Name() string { return "caption_client" }

func (c *CaptionClient) Extract(ctx context.Context, src Source) (string, error) {
	videoID, err := ParseVideoID(src.URL)
	if err != nil {
		return "", err
	}
	video, err := c.Client.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("fetch video metadata: %w", err)
	}
	track, ok := pickCaptionTrack(video.CaptionTracks)
	if !ok {
		return "", errors.New("video has no caption tracks")
	}

	payload, err := fetchURL(ctx, c.HTTPClient, track.BaseURL)
	if err != nil {
		return "", err
	}
	return parseTimedText(payload)
}

// pickCaptionTrack prefers English variants over anything else, keeping the
// original order within each group.
func pickCaptionTrack(tracks []youtube.CaptionTrack) (youtube.CaptionTrack, bool) {
	if len(tracks) == 0 {
		return youtube.CaptionTrack{}, false
	}
	for _, tr := range tracks {
		if langBase(tr.LanguageCode) == "en" {
			return tr, true
		}
	}
	return tracks[0], true
}

// --- strategy (c): downloader fallback ------------------------------------

// DownloaderFallback writes every available subtitle track into a scratch
// directory and reads back the first .vtt or .srt file found. Slowest and
// least precise, kept last.
type DownloaderFallback struct {
	Client     *youtube.Client
	HTTPClient *http.Client
	ScratchDir string
}

func (d *DownloaderFallback) Name() string { return "subtitle_downloader" }

func (d *DownloaderFallback) Extract(ctx context.Context, src Source) (string, error) {
	videoID, err := ParseVideoID(src.URL)
	if err != nil {
		return "", err
	}
	video, err := d.Client.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("fetch video metadata: %w", err)
	}
	if len(video.CaptionTracks) == 0 {
		return "", errors.New("video has no caption tracks")
	}

	dir := filepath.Join(d.ScratchDir, "subs-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	for _, track := range video.CaptionTracks {
		payload, err := fetchURL(ctx, d.HTTPClient, track.BaseURL+"&fmt=vtt")
		if err != nil {
			continue
		}
		name := fmt.Sprintf("%s.%s.vtt", videoID, track.LanguageCode)
		if err := os.WriteFile(filepath.Join(dir, name), payload, 0o644); err != nil {
			continue
		}
	}

	return ReadFirstSubtitleFile(dir)
}

// ReadFirstSubtitleFile scans a directory for subtitle files and returns the
// cleaned content of the first .vtt or .srt found (lexicographic order).
func ReadFirstSubtitleFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read scratch dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".vtt" || ext == ".srt" {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", errors.New("no subtitle files written")
	}
	sort.Strings(names)

	data, err := os.ReadFile(filepath.Join(dir, names[0]))
	if err != nil {
		return "", fmt.Errorf("read subtitle file: %w", err)
	}
	return CleanSubtitleText(string(data)), nil
}

// fetchURL is the shared bounded GET helper for caption payloads.
func fetchURL(ctx context.Context, client *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch captions: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("caption fetch status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

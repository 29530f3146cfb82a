package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kkdai/youtube/v2"
)

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://m.youtube.com/watch?v=abc_123-XY&t=42s", "abc_123-XY", false},
		{"https://www.youtube.com/shorts/xyz789", "xyz789", false},
		{"https://www.youtube.com/embed/embedID", "embedID", false},
		{"https://www.youtube.com/live/liveID", "liveID", false},
		{"https://www.youtube.com/feed/subscriptions", "", true},
		{"https://youtu.be/", "", true},
	}
	for _, tt := range tests {
		got, err := ParseVideoID(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseVideoID(%q): expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVideoID(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVideoID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPickTranscriptTrack(t *testing.T) {
	manualFR := transcriptTrack{LangCode: "fr", Kind: ""}
	asrEN := transcriptTrack{LangCode: "en", Kind: "asr"}
	asrRU := transcriptTrack{LangCode: "ru", Kind: "asr"}
	asrDE := transcriptTrack{LangCode: "de", Kind: "asr"}

	// A manual track wins over preferred-language auto tracks.
	got, ok := pickTranscriptTrack([]transcriptTrack{asrEN, manualFR}, preferredTranscriptLangs)
	if !ok || got != manualFR {
		t.Errorf("manual track should win, got %+v", got)
	}

	// Without manual tracks, the preference list decides.
	got, ok = pickTranscriptTrack([]transcriptTrack{asrDE, asrRU}, preferredTranscriptLangs)
	if !ok || got != asrRU {
		t.Errorf("preferred auto track should win, got %+v", got)
	}

	// Nothing preferred: literally any track.
	got, ok = pickTranscriptTrack([]transcriptTrack{asrDE}, preferredTranscriptLangs)
	if !ok || got != asrDE {
		t.Errorf("fallback to any track, got %+v", got)
	}

	if _, ok := pickTranscriptTrack(nil, preferredTranscriptLangs); ok {
		t.Error("empty track list must report no track")
	}
}

func TestPickCaptionTrack(t *testing.T) {
	en := youtube.CaptionTrack{LanguageCode: "en-US"}
	es := youtube.CaptionTrack{LanguageCode: "es"}

	got, ok := pickCaptionTrack([]youtube.CaptionTrack{es, en})
	if !ok || got.LanguageCode != "en-US" {
		t.Errorf("english variant should win, got %+v", got)
	}

	got, ok = pickCaptionTrack([]youtube.CaptionTrack{es})
	if !ok || got.LanguageCode != "es" {
		t.Errorf("fallback to first track, got %+v", got)
	}

	if _, ok := pickCaptionTrack(nil); ok {
		t.Error("empty track list must report no track")
	}
}

func TestTranscriptAPIAgainstStubEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("type") == "list" {
			w.Write([]byte(`<transcript_list>
				<track lang_code="en" name="" kind="asr"/>
				<track lang_code="ru" name="manual" kind=""/>
			</transcript_list>`))
			return
		}
		// The manual Russian track must be requested.
		if r.URL.Query().Get("lang") != "ru" {
			t.Errorf("requested lang %q, want ru", r.URL.Query().Get("lang"))
		}
		w.Write([]byte(`<transcript>
			<text start="0" dur="2">This transcript body is comfortably longer</text>
			<text start="2" dur="2">than the fifty character extraction minimum.</text>
		</transcript>`))
	}))
	defer srv.Close()

	api := &TranscriptAPI{HTTPClient: srv.Client(), BaseURL: srv.URL}
	text, err := api.Extract(context.Background(), Source{URL: "https://youtu.be/vid123"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(text, "comfortably longer") {
		t.Errorf("unexpected transcript %q", text)
	}
}

func TestTranscriptAPINoTracks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<transcript_list></transcript_list>`))
	}))
	defer srv.Close()

	api := &TranscriptAPI{HTTPClient: srv.Client(), BaseURL: srv.URL}
	if _, err := api.Extract(context.Background(), Source{URL: "https://youtu.be/vid123"}); err == nil {
		t.Error("expected error when no tracks exist")
	}
}

func TestReadFirstSubtitleFile(t *testing.T) {
	dir := t.TempDir()

	vtt := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nfrom the vtt file\n"
	if err := os.WriteFile(filepath.Join(dir, "b.vtt"), []byte(vtt), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := ReadFirstSubtitleFile(dir)
	if err != nil {
		t.Fatalf("ReadFirstSubtitleFile: %v", err)
	}
	if text != "from the vtt file" {
		t.Errorf("got %q", text)
	}
}

func TestReadFirstSubtitleFileEmptyDir(t *testing.T) {
	if _, err := ReadFirstSubtitleFile(t.TempDir()); err == nil {
		t.Error("expected error for directory without subtitle files")
	}
}

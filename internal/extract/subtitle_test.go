package extract

import (
	"strings"
	"testing"
)

func TestCleanSubtitleTextVTT(t *testing.T) {
	raw := strings.Join([]string{
		"WEBVTT",
		"Kind: captions",
		"Language: en",
		"",
		"1",
		"00:00:01.000 --> 00:00:04.000",
		"Hello and <b>welcome</b> to the show",
		"",
		"2",
		"00:00:04.000 --> 00:00:07.500",
		"Hello and welcome to the show",
		"",
		"3",
		"00:00:07.500 --> 00:00:10.000",
		"Today we talk about Go",
	}, "\n")

	got := CleanSubtitleText(raw)
	want := "Hello and welcome to the show Today we talk about Go"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCleanSubtitleTextSRT(t *testing.T) {
	raw := strings.Join([]string{
		"1",
		"00:00:01,000 --> 00:00:03,000",
		"First line",
		"",
		"2",
		"00:00:03,000 --> 00:00:05,000",
		"Second line",
	}, "\n")

	got := CleanSubtitleText(raw)
	if got != "First line Second line" {
		t.Errorf("got %q", got)
	}
}

func TestCleanSubtitleTextStandaloneTimestamps(t *testing.T) {
	raw := "0:01\nIntro\n1:23:45\nOutro"
	if got := CleanSubtitleText(raw); got != "Intro Outro" {
		t.Errorf("got %q", got)
	}
}

// Cleaning already-clean prose must return it unchanged, so the routine can
// run on any strategy's output without damage.
func TestCleanSubtitleTextIdempotent(t *testing.T) {
	inputs := []string{
		"Hello and welcome to the show Today we talk about Go",
		"A single plain sentence.",
		"Mixed case words And Numbers like 42 inside prose",
	}
	for _, in := range inputs {
		once := CleanSubtitleText(in)
		twice := CleanSubtitleText(once)
		if once != twice {
			t.Errorf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestCleanSubtitleTextEmpty(t *testing.T) {
	if got := CleanSubtitleText("\n\n  \n"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestParseTimedText(t *testing.T) {
	payload := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="2.0">Hello &amp; welcome</text>
  <text start="2.0" dur="2.0">to the &#39;deep dive&#39;</text>
  <text start="4.0" dur="1.0">   </text>
</transcript>`)

	got, err := parseTimedText(payload)
	if err != nil {
		t.Fatalf("parseTimedText: %v", err)
	}
	want := "Hello & welcome to the 'deep dive'"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseTimedTextInvalidXML(t *testing.T) {
	if _, err := parseTimedText([]byte("not xml at all <<<")); err == nil {
		t.Error("expected error for malformed xml")
	}
}

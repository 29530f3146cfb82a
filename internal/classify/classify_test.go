package classify

import "testing"

// TestClassify covers source-kind detection and canonicalization across
// typical inputs, tracking parameters, fragments, and non-URL text.
func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantKind      Kind
		wantCanonical string
	}{
		{
			name:          "plain text is not a URL",
			input:         "just some pasted notes",
			wantKind:      KindNone,
			wantCanonical: "just some pasted notes",
		},
		{
			name:          "missing scheme",
			input:         "example.com/article",
			wantKind:      KindNone,
			wantCanonical: "example.com/article",
		},
		{
			name:          "ftp scheme rejected",
			input:         "ftp://example.com/file.pdf",
			wantKind:      KindNone,
			wantCanonical: "ftp://example.com/file.pdf",
		},
		{
			name:          "scheme without authority",
			input:         "https:///no-host",
			wantKind:      KindNone,
			wantCanonical: "https:///no-host",
		},
		{
			name:          "youtube watch URL passes through unmodified",
			input:         "https://www.youtube.com/watch?v=dQw4w9WgXcQ&utm_source=share",
			wantKind:      KindYouTube,
			wantCanonical: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&utm_source=share",
		},
		{
			name:          "short youtu.be link",
			input:         "https://youtu.be/dQw4w9WgXcQ",
			wantKind:      KindYouTube,
			wantCanonical: "https://youtu.be/dQw4w9WgXcQ",
		},
		{
			name:          "mobile youtube host",
			input:         "https://m.youtube.com/watch?v=abc123",
			wantKind:      KindYouTube,
			wantCanonical: "https://m.youtube.com/watch?v=abc123",
		},
		{
			name:          "pdf extension",
			input:         "https://example.com/paper.pdf",
			wantKind:      KindPDF,
			wantCanonical: "https://example.com/paper.pdf",
		},
		{
			name:          "pdf extension uppercase",
			input:         "https://example.com/Paper.PDF",
			wantKind:      KindPDF,
			wantCanonical: "https://example.com/Paper.PDF",
		},
		{
			name:          "loose pdf substring in path",
			input:         "https://example.com/download/pdfviewer?id=42",
			wantKind:      KindPDF,
			wantCanonical: "https://example.com/download/pdfviewer?id=42",
		},
		{
			name:          "tracking params stripped",
			input:         "https://example.com/post?utm_source=x&utm_medium=y&id=7",
			wantKind:      KindWeb,
			wantCanonical: "https://example.com/post?id=7",
		},
		{
			name:          "fragment dropped",
			input:         "https://example.com/post#section-2",
			wantKind:      KindWeb,
			wantCanonical: "https://example.com/post",
		},
		{
			name:          "fbclid and gclid stripped",
			input:         "https://example.com/a?fbclid=abc&gclid=def&keep=1",
			wantKind:      KindWeb,
			wantCanonical: "https://example.com/a?keep=1",
		},
		{
			name:          "mc_ prefix stripped",
			input:         "https://example.com/a?mc_cid=1&mc_eid=2",
			wantKind:      KindWeb,
			wantCanonical: "https://example.com/a",
		},
		{
			name:          "pdf URL keeps non-tracking query but loses fragment",
			input:         "https://Example.com/Paper.pdf?utm_source=x#sec1",
			wantKind:      KindPDF,
			wantCanonical: "https://Example.com/Paper.pdf",
		},
		{
			name:          "ordinary article",
			input:         "https://blog.example.org/2026/08/hello",
			wantKind:      KindWeb,
			wantCanonical: "https://blog.example.org/2026/08/hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, canonical := Classify(tt.input)
			if kind != tt.wantKind {
				t.Errorf("kind: got %q, want %q", kind, tt.wantKind)
			}
			if canonical != tt.wantCanonical {
				t.Errorf("canonical: got %q, want %q", canonical, tt.wantCanonical)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"https://medium.com/@someone/a-story", KindWeb},
		{"https://blog.medium.com/nested", KindWeb},
		{"https://arxiv.org/abs/2401.00001", KindPDF},
		{"https://totally-unknown.example/x", KindNone},
		{"not a url at all", KindNone},
	}
	for _, tt := range tests {
		if got := Suggest(tt.input); got != tt.want {
			t.Errorf("Suggest(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

package fileutil

import "testing"

func TestIconClass(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"report.pdf", "fas fa-file-pdf text-danger"},
		{"photo.JPG", "fas fa-file-image text-info"},
		{"song.mp3", "fas fa-file-audio text-success"},
		{"unknown.xyz", "fas fa-file text-secondary"},
		{"noext", "fas fa-file text-secondary"},
	}

	for _, tt := range tests {
		if got := IconClass(tt.filename); got != tt.want {
			t.Errorf("IconClass(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestTypeLabel(t *testing.T) {
	if got := TypeLabel("doc.pdf"); got != "PDF文档" {
		t.Errorf("TypeLabel(doc.pdf) = %q", got)
	}
	if got := TypeLabel("mystery.bin"); got != "未知类型" {
		t.Errorf("TypeLabel should fall back to default, got %q", got)
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType("mystery.unknownext"); got != "application/octet-stream" {
		t.Errorf("ContentType fallback = %q", got)
	}
	if got := ContentType("page.html"); got == "application/octet-stream" {
		t.Errorf("ContentType(page.html) should resolve a mime type")
	}
}

package images

import "testing"

func TestDetectMIMEOrder(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		header string
		data   []byte
		want   string
	}{
		{"header wins", "https://a/b.png", "image/jpeg", pngHeader, "image/jpeg"},
		{"header params stripped", "https://a/b", "image/webp; q=1", nil, "image/webp"},
		{"octet stream header ignored", "https://a/b.gif", "application/octet-stream", nil, "image/gif"},
		{"url extension", "https://a/b.png?size=2", "", nil, "image/png"},
		{"sniffed", "https://a/b", "", pngHeader, "image/png"},
		{"default", "https://a/b", "", nil, "application/octet-stream"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectMIME(tc.src, tc.header, tc.data); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDetectExtension(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		header string
		data   []byte
		want   string
	}{
		{"header", "https://a/b", "image/png", nil, ".png"},
		{"url mime", "https://a/b.gif", "", nil, ".gif"},
		{"sniffed", "https://a/b", "", pngHeader, ".png"},
		{"bin suffix ignored", "https://a/b.bin", "", nil, ".jpg"},
		{"default", "https://a/b", "", nil, ".jpg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectExtension(tc.src, tc.header, tc.data); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	if mode, err := ParseMode(" Base64 "); err != nil || mode != ModeBase64 {
		t.Fatalf("unexpected result %q %v", mode, err)
	}
	if mode, err := ParseMode(""); err != nil || mode != ModeURL {
		t.Fatalf("expected default url mode, got %q %v", mode, err)
	}
	if _, err := ParseMode("inline"); err == nil {
		t.Fatal("expected unknown mode error")
	}
}

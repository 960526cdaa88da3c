package images

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-edxml/pkg/interfaces"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type countingFetcher struct {
	calls atomic.Int32
	image *interfaces.FetchedImage
	err   error
}

func (f *countingFetcher) Fetch(context.Context, string) (*interfaces.FetchedImage, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.image, nil
}

func TestResolverURLModeNeverFetches(t *testing.T) {
	fetcher := &countingFetcher{}
	resolver := NewResolver(ModeURL, WithFetcher(fetcher))

	got := resolver.Resolve(context.Background(), "http://x/y.png")
	if got != "http://x/y.png" {
		t.Fatalf("expected passthrough, got %q", got)
	}
	if fetcher.calls.Load() != 0 {
		t.Fatalf("url mode must not fetch, got %d calls", fetcher.calls.Load())
	}
}

func TestResolverEmptySource(t *testing.T) {
	resolver := NewResolver(ModeBase64, WithFetcher(&countingFetcher{}))
	if got := resolver.Resolve(context.Background(), ""); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestResolverBase64UsesHeaderMIME(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif; charset=binary")
		_, _ = w.Write([]byte("GIF89a"))
	}))
	defer server.Close()

	resolver := NewResolver(ModeBase64)
	got := resolver.Resolve(context.Background(), server.URL+"/pixel")

	want := "data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("GIF89a"))
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolverBase64FallsBackToSniffing(t *testing.T) {
	fetcher := &countingFetcher{image: &interfaces.FetchedImage{Data: pngHeader}}
	resolver := NewResolver(ModeBase64, WithFetcher(fetcher))

	got := resolver.Resolve(context.Background(), "https://cdn.example.com/asset")
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolverCachesPerSource(t *testing.T) {
	fetcher := &countingFetcher{image: &interfaces.FetchedImage{Data: pngHeader, ContentType: "image/png"}}
	resolver := NewResolver(ModeBase64, WithFetcher(fetcher))

	first := resolver.Resolve(context.Background(), "https://a/b.png")
	second := resolver.Resolve(context.Background(), "https://a/b.png")
	if first != second {
		t.Fatal("expected identical results for the same source")
	}
	if fetcher.calls.Load() != 1 {
		t.Fatalf("expected one fetch, got %d", fetcher.calls.Load())
	}
}

func TestResolverConcurrentCallsShareOneFetch(t *testing.T) {
	fetcher := &countingFetcher{image: &interfaces.FetchedImage{Data: pngHeader, ContentType: "image/png"}}
	resolver := NewResolver(ModeBase64, WithFetcher(fetcher))

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = resolver.Resolve(context.Background(), "https://a/shared.png")
		}(i)
	}
	wg.Wait()

	for _, result := range results[1:] {
		if result != results[0] {
			t.Fatal("expected every worker to observe the same mapping")
		}
	}
	if fetcher.calls.Load() != 1 {
		t.Fatalf("expected one fetch, got %d", fetcher.calls.Load())
	}
}

func TestResolverFetchFailurePassesThrough(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	src := server.URL + "/missing.png"
	resolver := NewResolver(ModeBase64)
	if got := resolver.Resolve(context.Background(), src); got != src {
		t.Fatalf("expected passthrough on failure, got %q", got)
	}
}

func TestResolverFileModeWritesRelativePaths(t *testing.T) {
	root := t.TempDir()
	imageDir := filepath.Join(root, "images")

	fetcher := &countingFetcher{image: &interfaces.FetchedImage{Data: pngHeader, ContentType: "image/png"}}
	resolver := NewResolver(ModeFile,
		WithFetcher(fetcher),
		WithImageDir(imageDir),
		WithMarkdownDir(root),
	)

	first := resolver.Resolve(context.Background(), "https://a/one")
	second := resolver.Resolve(context.Background(), "https://a/two.webp")

	if first != "images/img001.png" {
		t.Fatalf("unexpected first path %q", first)
	}
	if second != "images/img002.png" {
		t.Fatalf("header MIME must win over URL suffix, got %q", second)
	}

	data, err := os.ReadFile(filepath.Join(imageDir, "img001.png"))
	if err != nil {
		t.Fatalf("expected file to be written: %v", err)
	}
	if string(data) != string(pngHeader) {
		t.Fatal("unexpected file contents")
	}
}

func TestResolverFileModeWithoutDirPassesThrough(t *testing.T) {
	fetcher := &countingFetcher{image: &interfaces.FetchedImage{Data: pngHeader}}
	resolver := NewResolver(ModeFile, WithFetcher(fetcher))

	if got := resolver.Resolve(context.Background(), "https://a/b.png"); got != "https://a/b.png" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestResolverSkipsNonHTTPSources(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("boom")}
	resolver := NewResolver(ModeBase64, WithFetcher(fetcher))

	for _, src := range []string{"data:image/png;base64,AAAA", "images/local.png"} {
		if got := resolver.Resolve(context.Background(), src); got != src {
			t.Fatalf("expected passthrough for %q, got %q", src, got)
		}
	}
	if fetcher.calls.Load() != 0 {
		t.Fatal("non-http sources must not be fetched")
	}
}

func TestHTTPFetcherRejectsOversizedPayloads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(WithMaxBytes(16))
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected oversized payload to fail")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryExternal) {
		t.Fatalf("expected external category, got %v", err)
	}
}

func TestHTTPFetcherSendsUserAgent(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		_, _ = w.Write(pngHeader)
	}))
	defer server.Close()

	image, err := NewHTTPFetcher(WithUserAgent("edxml2md")).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agent != "edxml2md" {
		t.Fatalf("expected user agent to be sent, got %q", agent)
	}
	if len(image.Data) != len(pngHeader) {
		t.Fatal("unexpected payload")
	}
}

func TestHTTPFetcherTimeoutLeavesInjectedClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: 3 * time.Second}

	fetcher := NewHTTPFetcher(WithHTTPClient(shared), WithTimeout(time.Second))
	if fetcher.client != shared {
		t.Fatal("expected injected client to be used")
	}
	if shared.Timeout != 3*time.Second {
		t.Fatalf("expected injected client timeout untouched, got %s", shared.Timeout)
	}

	fetcher = NewHTTPFetcher(WithTimeout(2 * time.Second))
	if fetcher.client.Timeout != 2*time.Second {
		t.Fatalf("expected default client to carry timeout, got %s", fetcher.client.Timeout)
	}
	if NewHTTPFetcher().client.Timeout != DefaultTimeout {
		t.Fatal("expected default timeout on default client")
	}
}

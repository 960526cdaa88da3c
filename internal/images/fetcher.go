package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-edxml/pkg/interfaces"
)

const (
	fetchFailedCode = "IMAGE_FETCH_FAILED"

	// DefaultTimeout bounds a single image download.
	DefaultTimeout = 10 * time.Second
)

// HTTPFetcher downloads images over HTTP(S).
type HTTPFetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBytes  int64
}

// FetcherOption customises an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient overrides the client used for downloads.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default client. A client
// supplied through WithHTTPClient keeps its own timeout.
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(agent string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = agent
	}
}

// WithMaxBytes caps the accepted payload size. Zero disables the cap.
func WithMaxBytes(limit int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if limit >= 0 {
			f.maxBytes = limit
		}
	}
}

// NewHTTPFetcher constructs a fetcher with a 10 second timeout.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{timeout: DefaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}
	return f
}

var _ interfaces.ImageFetcher = (*HTTPFetcher)(nil)

// Fetch downloads url. Non-2xx responses and oversized payloads are failures.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*interfaces.FetchedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, wrapFetchError(err, url)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, wrapFetchError(err, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, wrapFetchError(fmt.Errorf("unexpected status %d", resp.StatusCode), url)
	}

	reader := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, wrapFetchError(err, url)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, wrapFetchError(fmt.Errorf("payload exceeds %d bytes", f.maxBytes), url)
	}

	return &interfaces.FetchedImage{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func wrapFetchError(err error, url string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "image fetch failed").
		WithTextCode(fetchFailedCode).
		WithMetadata(map[string]any{"url": url})
}

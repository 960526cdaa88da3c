package images

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-edxml/internal/logging"
	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// Resolver maps image sources to the value emitted in rendered markup. Results
// are cached per src for the lifetime of the resolver, and the cache is safe
// for concurrent use so batch workers can share one instance.
type Resolver struct {
	mode        Mode
	fetcher     interfaces.ImageFetcher
	dir         string
	markdownDir string
	logger      interfaces.Logger

	mu      sync.RWMutex
	cache   map[string]string
	written int
	group   singleflight.Group
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithFetcher overrides the image fetcher. Defaults to NewHTTPFetcher().
func WithFetcher(fetcher interfaces.ImageFetcher) ResolverOption {
	return func(r *Resolver) {
		if fetcher != nil {
			r.fetcher = fetcher
		}
	}
}

// WithImageDir sets the directory downloaded files are written to in ModeFile.
func WithImageDir(dir string) ResolverOption {
	return func(r *Resolver) {
		r.dir = strings.TrimSpace(dir)
	}
}

// WithMarkdownDir sets the directory the Markdown output will live in; file
// mode paths are emitted relative to it.
func WithMarkdownDir(dir string) ResolverOption {
	return func(r *Resolver) {
		r.markdownDir = strings.TrimSpace(dir)
	}
}

// WithLogger attaches a logger for fetch and write failures.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver constructs a Resolver for mode.
func NewResolver(mode Mode, opts ...ResolverOption) *Resolver {
	if mode == "" {
		mode = ModeURL
	}
	r := &Resolver{
		mode:   mode,
		logger: logging.NoOp(),
		cache:  map[string]string{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.fetcher == nil && r.mode != ModeURL {
		r.fetcher = NewHTTPFetcher()
	}
	return r
}

var _ interfaces.ImageResolver = (*Resolver)(nil)

// Mode reports the configured strategy.
func (r *Resolver) Mode() Mode { return r.mode }

// Resolve returns the emitted value for src. It never fails: any fetch or
// write problem resolves to src itself.
func (r *Resolver) Resolve(ctx context.Context, src string) string {
	if src == "" {
		return ""
	}
	if r.mode == ModeURL || !fetchable(src) {
		return src
	}

	r.mu.RLock()
	cached, ok := r.cache[src]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	value, _, _ := r.group.Do(src, func() (any, error) {
		r.mu.RLock()
		cached, ok := r.cache[src]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}
		resolved := r.resolve(ctx, src)
		r.mu.Lock()
		r.cache[src] = resolved
		r.mu.Unlock()
		return resolved, nil
	})
	return value.(string)
}

func (r *Resolver) resolve(ctx context.Context, src string) string {
	if r.mode == ModeFile && r.dir == "" {
		return src
	}

	if ctx == nil {
		ctx = context.Background()
	}
	image, err := r.fetcher.Fetch(ctx, src)
	if err != nil {
		r.logger.Warn("edxml.images.fetch_failed", "src", src, "error", err)
		return src
	}

	switch r.mode {
	case ModeBase64:
		mt := DetectMIME(src, image.ContentType, image.Data)
		return fmt.Sprintf("data:%s;base64,%s", mt, base64.StdEncoding.EncodeToString(image.Data))
	case ModeFile:
		resolved, err := r.write(src, image)
		if err != nil {
			r.logger.Warn("edxml.images.write_failed", "src", src, "error", err)
			return src
		}
		return resolved
	default:
		return src
	}
}

func (r *Resolver) write(src string, image *interfaces.FetchedImage) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", err
	}

	r.mu.Lock()
	r.written++
	index := r.written
	r.mu.Unlock()

	name := fmt.Sprintf("img%03d%s", index, DetectExtension(src, image.ContentType, image.Data))
	target := filepath.Join(r.dir, name)
	if err := os.WriteFile(target, image.Data, 0o644); err != nil {
		return "", err
	}

	base := r.markdownDir
	if base == "" {
		base = r.dir
	}
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	r.logger.Debug("edxml.images.written", "src", src, "path", rel)
	return filepath.ToSlash(rel), nil
}

func fetchable(src string) bool {
	lower := strings.ToLower(strings.TrimSpace(src))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

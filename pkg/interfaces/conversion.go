package interfaces

import (
	"context"
	"time"
)

// MarkdownConverter is the external conversion boundary. It receives the
// canonical HTML-equivalent markup produced by the renderer and returns
// Markdown. Implementations are treated as black boxes; the post-processor
// repairs their known artifacts.
type MarkdownConverter interface {
	Name() string
	Convert(ctx context.Context, markup string) (string, error)
}

// ImageResolver maps an image source reference to the value emitted in the
// rendered markup. Implementations must return the same result for the same
// src within one run and must never fail; fetch problems degrade to src.
type ImageResolver interface {
	Resolve(ctx context.Context, src string) string
}

// ImageFetcher retrieves remote image bytes for the resolver.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedImage, error)
}

// FetchedImage carries the payload returned by an ImageFetcher. ContentType
// holds the raw response header value and may be empty.
type FetchedImage struct {
	Data        []byte
	ContentType string
}

// ConversionArchive memoizes finished conversions keyed by a digest of the
// source document and the pipeline fingerprint.
type ConversionArchive interface {
	Lookup(ctx context.Context, key string) (*ArchivedConversion, error)
	Save(ctx context.Context, entry ArchivedConversion) error
}

// ArchivedConversion is a single memoized conversion.
type ArchivedConversion struct {
	Key         string
	Fingerprint string
	Source      string
	Markdown    string
	CreatedAt   time.Time
}

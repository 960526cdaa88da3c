package images

import (
	"mime"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
)

const defaultMIME = "application/octet-stream"

const defaultExtension = ".jpg"

var preferredExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
	"image/x-icon":  ".ico",
	"image/avif":    ".avif",
	"image/tiff":    ".tiff",
}

// DetectMIME infers the media type for a fetched image. The response header
// wins, then the URL extension, then content sniffing.
func DetectMIME(src, header string, data []byte) string {
	if mt := headerMIME(header); mt != "" {
		return mt
	}
	if mt := urlMIME(src); mt != "" {
		return mt
	}
	if mt := sniffMIME(data); mt != "" {
		return mt
	}
	return defaultMIME
}

// DetectExtension picks a file extension, including the leading dot, for a
// downloaded image.
func DetectExtension(src, header string, data []byte) string {
	for _, mt := range []string{headerMIME(header), urlMIME(src), sniffMIME(data)} {
		if ext := extensionFor(mt); ext != "" {
			return ext
		}
	}
	if ext := strings.ToLower(path.Ext(urlPath(src))); ext != "" && ext != ".bin" && ext != ".dat" {
		return ext
	}
	return defaultExtension
}

func headerMIME(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		mt = strings.TrimSpace(strings.SplitN(header, ";", 2)[0])
	}
	mt = strings.ToLower(mt)
	if mt == defaultMIME {
		return ""
	}
	return mt
}

func urlMIME(src string) string {
	ext := path.Ext(urlPath(src))
	if ext == "" {
		return ""
	}
	return headerMIME(mime.TypeByExtension(strings.ToLower(ext)))
}

func sniffMIME(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return headerMIME(http.DetectContentType(data))
}

func extensionFor(mt string) string {
	if mt == "" {
		return ""
	}
	if ext, ok := preferredExtensions[mt]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(mt)
	if err != nil || len(exts) == 0 {
		return ""
	}
	sort.Strings(exts)
	return exts[0]
}

func urlPath(src string) string {
	parsed, err := url.Parse(src)
	if err != nil {
		return src
	}
	return parsed.Path
}

package loader

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var errInvalidDataURI = errors.New("invalid data URI")

// ResourceKind tells a ResourceLoader what an asset URI refers to.
type ResourceKind int

const (
	// ResourceKindBuffer is binary geometry and animation data.
	ResourceKindBuffer ResourceKind = iota
	// ResourceKindImage is an encoded texture image.
	ResourceKindImage
	// ResourceKindModel is a glTF document or GLB container.
	ResourceKindModel
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceKindBuffer:
		return "buffer"
	case ResourceKindImage:
		return "image"
	case ResourceKindModel:
		return "model"
	}
	return "unknown"
}

// ResourceLoader fetches the external resources of an asset. Implementations must be safe for concurrent use.
type ResourceLoader interface {
	// LoadResource returns the bytes behind a URI.
	//
	// Parameters:
	//   - ctx: cancels the fetch
	//   - uri: the resolved URI, a path relative to the asset's base directory or a data: URI
	//   - kind: the resource kind
	//
	// Returns:
	//   - []byte: the resource bytes
	//   - error: an error if the resource cannot be fetched
	LoadResource(ctx context.Context, uri string, kind ResourceKind) ([]byte, error)
}

// FileResourceLoader reads resources from a file system and decodes base64 data: URIs.
// A nil FS reads from the operating system.
type FileResourceLoader struct {
	FS fs.FS
}

var _ ResourceLoader = &FileResourceLoader{}

// NewFileResourceLoader creates a FileResourceLoader over fsys, or over the operating system when fsys is nil.
func NewFileResourceLoader(fsys fs.FS) *FileResourceLoader {
	return &FileResourceLoader{FS: fsys}
}

func (l *FileResourceLoader) LoadResource(ctx context.Context, uri string, kind ResourceKind) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.HasPrefix(uri, "data:") {
		return decodeDataURI(uri)
	}

	if l.FS == nil {
		data, err := os.ReadFile(uri)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s file %q: %w", kind, uri, err)
		}
		return data, nil
	}

	name := path.Clean(strings.TrimPrefix(filepath.ToSlash(uri), "/"))
	data, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s file %q: %w", kind, uri, err)
	}
	return data, nil
}

// decodeDataURI decodes a base64 data URI.
// Format: data:[<mediatype>][;base64],<data>
func decodeDataURI(uri string) ([]byte, error) {
	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, errInvalidDataURI
	}

	header := uri[5:commaIdx]
	dataStr := uri[commaIdx+1:]

	if !strings.Contains(header, "base64") {
		unescaped, err := url.PathUnescape(dataStr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidDataURI, err)
		}
		return []byte(unescaped), nil
	}

	data, err := base64.StdEncoding.DecodeString(dataStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

// dataURIMimeType returns the media type of a data URI, or "".
func dataURIMimeType(uri string) string {
	if !strings.HasPrefix(uri, "data:") {
		return ""
	}
	header, _, _ := strings.Cut(uri[5:], ",")
	mime, _, _ := strings.Cut(header, ";")
	return mime
}

// relativePath resolves a URI from an asset against its base directory. Data URIs, URLs with a scheme and
// absolute paths are returned unchanged.
func relativePath(baseDir, uri string) string {
	if uri == "" || strings.HasPrefix(uri, "data:") || strings.Contains(uri, "://") || filepath.IsAbs(uri) {
		return uri
	}
	if unescaped, err := url.PathUnescape(uri); err == nil {
		uri = unescaped
	}
	if baseDir == "" {
		return uri
	}
	return filepath.Join(baseDir, uri)
}

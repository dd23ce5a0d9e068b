package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedRef = errors.New("unsupported image reference")

// ImageSource resolves an image reference (a photo or sticker URI) to pixels.
type ImageSource interface {
	Image(ref string) (image.Image, error)
}

// Assets resolves local paths, file:// URIs and data: URIs and keeps each
// decoded image until it is forgotten.
type Assets struct {
	mu    sync.Mutex
	cache map[string]image.Image
}

func NewAssets() *Assets {
	return &Assets{cache: make(map[string]image.Image)}
}

// Add registers an already decoded image under ref.
func (a *Assets) Add(ref string, img image.Image) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache[ref] = img
}

// Forget drops the decoded image for ref. A later Image call reloads it.
func (a *Assets) Forget(ref string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.cache, ref)
}

func (a *Assets) Image(ref string) (image.Image, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if img, ok := a.cache[ref]; ok {
		return img, nil
	}
	data, err := readRef(ref)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", shortRef(ref), err)
	}
	a.cache[ref] = img
	return img, nil
}

func readRef(ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		_, data, err := DecodeDataURI(ref)
		return data, err
	case strings.HasPrefix(ref, "file://"):
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedRef, err)
		}
		return os.ReadFile(u.Path)
	case strings.Contains(ref, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRef, shortRef(ref))
	default:
		return os.ReadFile(ref)
	}
}

// DataURI encodes data as a base64 data URI.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI returns the media type and payload of a base64 data URI.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: not a data URI", ErrUnsupportedRef)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: data URI without payload", ErrUnsupportedRef)
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: only base64 data URIs are supported", ErrUnsupportedRef)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnsupportedRef, err)
	}
	return mime, data, nil
}

func shortRef(ref string) string {
	if len(ref) > 48 {
		return ref[:48] + "..."
	}
	return ref
}

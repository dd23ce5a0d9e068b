// Package gallery keeps saved doodles on disk: a JSON index plus one PNG per
// doodle and a thumbnail for listings.
package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cloudoodle/internal/logging"
	"cloudoodle/internal/render"
	"cloudoodle/internal/state"
)

const (
	indexFile    = "doodles.json"
	imagesDir    = "images"
	ThumbnailMax = 256
)

var ErrNotFound = errors.New("doodle not found")

// Doodle is one saved drawing.
type Doodle struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	ImageURL    string         `json:"imageUrl"`
	PhotoURL    string         `json:"photoUrl,omitempty"` // background photo, for re-editing
	DrawingData state.Snapshot `json:"drawingData"`
	CreatedAt   time.Time      `json:"createdAt"`
	Likes       int            `json:"likes"`
	IsLiked     bool           `json:"isLiked"`
	Tags        []string       `json:"tags,omitempty"`
}

// FileStore is a gallery rooted at a directory. It is safe for concurrent use.
type FileStore struct {
	dir string
	mu  sync.RWMutex
	log *slog.Logger
}

// Open prepares dir for use, creating it when needed.
func Open(dir string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, imagesDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating gallery: %w", err)
	}
	return &FileStore{dir: dir, log: logging.For("gallery")}, nil
}

func (s *FileStore) imagePath(id string) string {
	return filepath.Join(s.dir, imagesDir, id+".png")
}

func (s *FileStore) thumbPath(id string) string {
	return filepath.Join(s.dir, imagesDir, id+"_thumb.png")
}

// Save stores d. A data: image URL is written out as a PNG file and the
// stored record points at that file instead.
func (s *FileStore) Save(ctx context.Context, d Doodle) (Doodle, error) {
	if err := ctx.Err(); err != nil {
		return Doodle{}, err
	}
	if strings.TrimSpace(d.Title) == "" {
		return Doodle{}, errors.New("doodle has no title")
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return Doodle{}, err
	}
	if i := slices.IndexFunc(all, func(o Doodle) bool { return o.ID == d.ID }); i >= 0 {
		// Re-saving an edited doodle keeps its likes and tags.
		prev := all[i]
		d.Likes, d.IsLiked = prev.Likes, prev.IsLiked
		if d.Tags == nil {
			d.Tags = prev.Tags
		}
		all = slices.Delete(all, i, i+1)
	}
	// Images go last so a failure above leaves the stored record and its
	// PNG consistent.
	if strings.HasPrefix(d.ImageURL, "data:") {
		if err := s.writeImages(d.ID, d.ImageURL); err != nil {
			return Doodle{}, err
		}
		d.ImageURL = s.imagePath(d.ID)
	}
	all = append(all, d)
	if err := s.store(all); err != nil {
		return Doodle{}, err
	}
	s.log.Info("saved doodle", "id", d.ID, "title", d.Title,
		"paths", len(d.DrawingData.Strokes), "assets", len(d.DrawingData.Stickers))
	return d, nil
}

func (s *FileStore) writeImages(id, uri string) error {
	_, data, err := render.DecodeDataURI(uri)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding doodle image: %w", err)
	}
	thumb, err := render.EncodePNG(render.Thumbnail(img, ThumbnailMax))
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.imagePath(id), data); err != nil {
		return err
	}
	return writeFileAtomic(s.thumbPath(id), thumb)
}

// List returns every doodle, newest first.
func (s *FileStore) List(ctx context.Context) ([]Doodle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(all, func(a, b Doodle) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return all, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (Doodle, error) {
	all, err := s.List(ctx)
	if err != nil {
		return Doodle{}, err
	}
	for _, d := range all {
		if d.ID == id {
			return d, nil
		}
	}
	return Doodle{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Image returns the stored PNG of a doodle, or its thumbnail.
func (s *FileStore) Image(id string, thumbnail bool) ([]byte, error) {
	if strings.ContainsAny(id, `/\`) || id == "" || id == "." || id == ".." {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	path := s.imagePath(id)
	if thumbnail {
		path = s.thumbPath(id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return data, err
}

// Delete removes a doodle and its images.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	return s.update(ctx, id, func(all []Doodle, i int) []Doodle {
		os.Remove(s.imagePath(id))
		os.Remove(s.thumbPath(id))
		return slices.Delete(all, i, i+1)
	})
}

// ToggleLike flips the liked flag and adjusts the like count.
func (s *FileStore) ToggleLike(ctx context.Context, id string) error {
	return s.update(ctx, id, func(all []Doodle, i int) []Doodle {
		d := &all[i]
		d.IsLiked = !d.IsLiked
		if d.IsLiked {
			d.Likes++
		} else if d.Likes > 0 {
			d.Likes--
		}
		return all
	})
}

func (s *FileStore) update(ctx context.Context, id string, fn func([]Doodle, int) []Doodle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(all, func(d Doodle) bool { return d.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.store(fn(all, i))
}

func (s *FileStore) load() ([]Doodle, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading gallery index: %w", err)
	}
	var all []Doodle
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parsing gallery index: %w", err)
	}
	return all, nil
}

func (s *FileStore) store(all []Doodle) error {
	if all == nil {
		all = []Doodle{}
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding gallery index: %w", err)
	}
	return writeFileAtomic(filepath.Join(s.dir, indexFile), data)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

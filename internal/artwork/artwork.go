// Package artwork resolves album artwork references: local image files,
// remote URLs (fetched once and cached on disk), or a generated text
// placeholder when an item has no artwork at all.
package artwork

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const fetchTimeout = 10 * time.Second

// Store resolves artwork refs, caching remote fetches on disk.
type Store struct {
	cache  *Cache
	client *http.Client
	log    *slog.Logger
}

func NewStore(cache *Cache, log *slog.Logger) *Store {
	return &Store{
		cache:  cache,
		client: &http.Client{Timeout: fetchTimeout},
		log:    log,
	}
}

// Resolve returns the image for an artwork ref. An empty ref or any failure
// falls back to a generated placeholder labeled with name.
func (s *Store) Resolve(ref, name string) image.Image {
	if ref == "" {
		return Placeholder(name, 300)
	}

	var img image.Image
	var err error
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		img, err = s.fetch(ref)
	} else {
		img, err = loadFile(ref)
	}
	if err != nil {
		s.log.Warn("artwork unavailable, using placeholder", "ref", ref, "error", err)
		return Placeholder(name, 300)
	}
	return img
}

func (s *Store) fetch(url string) (image.Image, error) {
	if data := s.cache.Get(url); data != nil {
		if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			return img, nil
		}
		// Corrupt cache entry, refetch
		s.cache.Remove(url)
	}

	resp, err := s.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch artwork: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	// Cache as PNG so the next start skips the network
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err == nil {
		s.cache.Put(url, buf.Bytes())
	}
	return img, nil
}

func loadFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// Placeholder generates square artwork from the item's name: centered white
// text on a gray field.
func Placeholder(name string, size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 110, G: 110, B: 110, A: 255}), image.Point{}, draw.Src)

	if name == "" {
		return img
	}

	face := basicfont.Face7x13
	width := font.MeasureString(face, name).Ceil()
	x := (size - width) / 2
	if x < 2 {
		x = 2
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, size/2+face.Ascent/2),
	}
	d.DrawString(name)
	return img
}

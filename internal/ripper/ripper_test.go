package ripper

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIsAudioCDMount(t *testing.T) {
	t.Run("empty dir", func(t *testing.T) {
		dir := t.TempDir()
		assert.True(t, isAudioCDMount(dir))
	})

	t.Run("cda tracks", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Track01.cda"), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Track02.CDA"), nil, 0o644))
		assert.True(t, isAudioCDMount(dir))
	})

	t.Run("data disc", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))
		assert.False(t, isAudioCDMount(dir))
	})

	t.Run("missing path", func(t *testing.T) {
		assert.False(t, isAudioCDMount("/does/not/exist"))
	})
}

func TestSplitArtistAlbum(t *testing.T) {
	artist, album := splitArtistAlbum("Miles Davis-Kind of Blue")
	assert.Equal(t, "Miles Davis", artist)
	assert.Equal(t, "Kind of Blue", album)

	artist, album = splitArtistAlbum("Unknown Disc")
	assert.Empty(t, artist)
	assert.Equal(t, "Unknown Disc", album)
}

func TestNewDirSince(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "existing"), 0o755))

	before := dirNames(dir)
	assert.Empty(t, newDirSince(dir, before))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "fresh"), 0o755))
	assert.Equal(t, filepath.Join(dir, "fresh"), newDirSince(dir, before))
}

func TestRipDiscFetchesCoverArt(t *testing.T) {
	mbSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"releases": []map[string]any{
				{"id": "mbid-1", "title": "Kind of Blue", "score": 100},
			},
		})
	}))
	defer mbSrv.Close()

	caSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/release/mbid-1/front-500", r.URL.Path)
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer caSrv.Close()

	out := t.TempDir()
	r := New(t.TempDir(), out, testLogger())
	r.meta.musicbrainzURL = mbSrv.URL
	r.meta.coverArtURL = caSrv.URL

	ripped := false
	r.OnRipped = func() { ripped = true }
	r.runRip = func(ctx context.Context) error {
		return os.Mkdir(filepath.Join(out, "Miles Davis-Kind of Blue"), 0o755)
	}

	require.NoError(t, r.ripDisc(context.Background()))
	assert.True(t, ripped)

	art, err := os.ReadFile(filepath.Join(out, "Miles Davis-Kind of Blue", "cover.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(art))
}

func TestRipDiscWithoutOutputFails(t *testing.T) {
	r := New(t.TempDir(), t.TempDir(), testLogger())
	r.runRip = func(ctx context.Context) error { return nil }

	err := r.ripDisc(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no album directory")
}

func TestSearchReleasePicksBestScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("query"), "release:")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"releases": []map[string]any{
				{"id": "low", "title": "A", "score": 40},
				{"id": "high", "title": "B", "score": 95},
			},
		})
	}))
	defer srv.Close()

	c := NewMetadataClient()
	c.musicbrainzURL = srv.URL

	rel, err := c.SearchRelease("Artist", "Album")
	require.NoError(t, err)
	require.NotNil(t, rel)
	assert.Equal(t, "high", rel.ID)
}

func TestGetCoverArtMissingIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewMetadataClient()
	c.coverArtURL = srv.URL

	art, err := c.GetCoverArt("mbid")
	require.NoError(t, err)
	assert.Nil(t, art)
}

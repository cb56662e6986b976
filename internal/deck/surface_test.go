package deck

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pistream/pistream/internal/artwork"
	"github.com/pistream/pistream/internal/library"
	"github.com/pistream/pistream/internal/player"
)

func newTestSurface(t *testing.T) (*Surface, *FakeDevice) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	device := NewFakeDevice(6, 72)
	surface := NewSurface(device, NewTracker(log), artwork.NewStore(nil, log), log)
	return surface, device
}

func TestSurfacePumpsKeyEventsToBindings(t *testing.T) {
	surface, device := newTestSurface(t)

	pressed := make(chan struct{}, 1)
	surface.Bind(0, Binding{OnPress: func() { pressed <- struct{}{} }})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- surface.Run(ctx) }()

	device.Press(0)
	device.Release(0)

	select {
	case <-pressed:
	case <-time.After(time.Second):
		t.Fatal("bound key never fired")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("run did not exit on cancel")
	}
}

func TestSurfaceRunFailsWhenDeviceDisconnects(t *testing.T) {
	surface, device := newTestSurface(t)

	done := make(chan error, 1)
	go func() { done <- surface.Run(context.Background()) }()

	require.NoError(t, device.Close())

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "disconnected")
	case <-time.After(time.Second):
		t.Fatal("run did not exit on device close")
	}
}

func TestShowAlbumRendersKeySizedImage(t *testing.T) {
	surface, device := newTestSurface(t)

	album := &library.Album{Name: "Kind of Blue", Type: library.TypeAlbum}
	surface.ShowAlbum(1, album)

	img := device.Image(1)
	require.NotNil(t, img)
	assert.Equal(t, 72, img.Bounds().Dx())
	assert.Equal(t, 72, img.Bounds().Dy())
}

func TestShowNowPlayingWithoutSession(t *testing.T) {
	surface, device := newTestSurface(t)

	surface.ShowNowPlaying(3, nil, player.Stopped)
	require.NotNil(t, device.Image(3))

	surface.ShowBlank(3)
	require.NotNil(t, device.Image(3))
}

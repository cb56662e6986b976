package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pistream/pistream/internal/api"
	"github.com/pistream/pistream/internal/artwork"
	"github.com/pistream/pistream/internal/config"
	"github.com/pistream/pistream/internal/controller"
	"github.com/pistream/pistream/internal/deck"
	"github.com/pistream/pistream/internal/library"
	"github.com/pistream/pistream/internal/player"
	"github.com/pistream/pistream/internal/ripper"
)

// rescanInterval is how often the music directory is checked for albums
// that appeared since startup.
const rescanInterval = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pistream: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := setupLogger(cfg.LogLevel)
	log.Info("starting pistream", "music_path", cfg.MusicPath, "listen_addr", cfg.ListenAddr)

	// Catalog: declared items first, then whatever the music directory holds.
	albums := library.FromConfig(cfg.Albums, log)
	albums = append(albums, library.ScanDir(cfg.MusicPath, log)...)
	if len(albums) == 0 {
		log.Warn("catalog is empty", "music_path", cfg.MusicPath)
	}

	cache, err := artwork.NewCache("")
	if err != nil {
		log.Warn("artwork cache unavailable", "error", err)
	}
	art := artwork.NewStore(cache, log)

	device, err := deck.OpenHardware()
	if err != nil {
		return fmt.Errorf("open stream deck: %w", err)
	}
	defer device.Close()
	if err := device.SetBrightness(cfg.Brightness); err != nil {
		log.Warn("set brightness failed", "error", err)
	}

	engine := player.NewBeepEngine(log)
	defer engine.Close()

	tracker := deck.NewTracker(log)
	surface := deck.NewSurface(device, tracker, art, log)

	ctrl := controller.New(engine, surface, albums, log, controller.Options{})
	ctrl.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return surface.Run(ctx)
	})

	g.Go(func() error {
		srv := api.NewServer(ctrl, log)
		return srv.Run(ctx, cfg.ListenAddr)
	})

	g.Go(func() error {
		rescan(ctx, ctrl, cfg.MusicPath, log)
		return nil
	})

	if cfg.Ripper.Enabled {
		rip := ripper.New(cfg.Ripper.VolumesDir, cfg.MusicPath, log)
		rip.OnRipped = func() {
			ctrl.AddAlbums(library.ScanDir(cfg.MusicPath, log))
		}
		g.Go(func() error {
			return rip.Run(ctx)
		})
	}

	err = g.Wait()
	if ctx.Err() != nil {
		log.Info("shutting down")
		return nil
	}
	return err
}

// rescan periodically picks up albums added to the music directory while
// running.
func rescan(ctx context.Context, ctrl *controller.Controller, musicPath string, log *slog.Logger) {
	ticker := time.NewTicker(rescanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Debug("rescanning music directory", "path", musicPath)
			ctrl.AddAlbums(library.ScanDir(musicPath, log))
		}
	}
}

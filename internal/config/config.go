package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	MusicPath  string `koanf:"music_path"`  // directory scanned for local albums
	ListenAddr string `koanf:"listen_addr"` // HTTP API listen address
	Brightness int    `koanf:"brightness"`  // deck backlight, 1-100
	LogLevel   string `koanf:"log_level"`   // error, warn, info or debug

	// Albums declared directly in the config (streams, playlists, podcasts).
	// Local albums found under music_path are appended after these.
	Albums []AlbumConfig `koanf:"albums"`

	Ripper RipperConfig `koanf:"ripper"`
}

// AlbumConfig is a single declared media item.
type AlbumConfig struct {
	Name    string   `koanf:"name"`
	Type    string   `koanf:"type"` // "album", "playlist", "stream" or "podcast"
	Path    string   `koanf:"path"` // file path, stream URL or feed URL
	Artwork string   `koanf:"artwork"`
	Tracks  []string `koanf:"tracks"`
}

// RipperConfig controls the audio CD auto-ripper.
type RipperConfig struct {
	Enabled    bool   `koanf:"enabled"`
	VolumesDir string `koanf:"volumes_dir"` // where removable media mounts, e.g. /media/pi
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	cfg.MusicPath = expandPath(cfg.MusicPath)
	cfg.Ripper.VolumesDir = expandPath(cfg.Ripper.VolumesDir)
	for i := range cfg.Albums {
		if cfg.Albums[i].Type == "" {
			cfg.Albums[i].Type = "stream"
		}
		if !isURL(cfg.Albums[i].Path) {
			cfg.Albums[i].Path = expandPath(cfg.Albums[i].Path)
		}
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MusicPath == "" {
		c.MusicPath = "~/Music"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8000"
	}
	if c.Brightness < 1 || c.Brightness > 100 {
		c.Brightness = 70
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Ripper.VolumesDir == "" {
		c.Ripper.VolumesDir = "/media"
	}
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/pistream/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "pistream", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

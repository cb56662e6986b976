// Package player wraps the beep audio stack behind the Engine interface the
// playback controller consumes. Local files and HTTP streams are both
// supported; the format is picked from the path extension, defaulting to
// mp3 for extensionless stream URLs.
package player

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

var (
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// BeepEngine is the production Engine implementation.
type BeepEngine struct {
	mu  sync.Mutex
	log *slog.Logger

	state      State
	ctrl       *beep.Ctrl
	streamer   beep.StreamSeekCloser
	source     io.Closer // underlying file or HTTP body
	onFinished func()

	// gen invalidates end-of-stream callbacks from superseded plays: a beep
	// callback already scheduled when Stop ran must not fire as a finish.
	gen int
}

func NewBeepEngine(log *slog.Logger) *BeepEngine {
	return &BeepEngine{
		log:   log,
		state: Stopped,
	}
}

// Play stops any current playback and starts the given path. It returns once
// the stream is decoded and handed to the speaker, or with an error leaving
// the engine in the Error state.
func (e *BeepEngine) Play(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()

	streamer, format, source, err := e.open(path)
	if err != nil {
		e.state = Error
		return err
	}

	if !speakerInitialized {
		speakerSampleRate = format.SampleRate
		if err := speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			source.Close()
			e.state = Error
			return fmt.Errorf("speaker init: %w", err)
		}
		speakerInitialized = true
	}

	e.streamer = streamer
	e.source = source

	// Resample if the stream's sample rate differs from the speaker's
	var playStreamer beep.Streamer = streamer
	if format.SampleRate != speakerSampleRate {
		playStreamer = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}
	e.ctrl = &beep.Ctrl{Streamer: playStreamer}

	gen := e.gen
	speaker.Play(beep.Seq(e.ctrl, beep.Callback(func() {
		go e.finished(gen)
	})))

	e.state = Playing
	e.log.Debug("playback started", "path", path)
	return nil
}

// open decodes a local file or HTTP stream into a beep streamer.
func (e *BeepEngine) open(path string) (beep.StreamSeekCloser, beep.Format, io.Closer, error) {
	e.state = Opening

	var src io.ReadCloser
	ext := strings.ToLower(filepath.Ext(path))

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		e.state = Buffering
		resp, err := http.Get(path)
		if err != nil {
			return nil, beep.Format{}, nil, fmt.Errorf("fetch stream: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, beep.Format{}, nil, fmt.Errorf("fetch stream: %s", resp.Status)
		}
		src = resp.Body
		if ext == "" || strings.ContainsAny(ext, "/?&") {
			// Stream URLs rarely carry a usable extension
			ext = ".mp3"
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, beep.Format{}, nil, err
		}
		src = f
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	var err error
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(src)
	case ".flac":
		streamer, format, err = flac.Decode(src)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(src)
	case ".wav":
		streamer, format, err = wav.Decode(src)
	default:
		src.Close()
		return nil, beep.Format{}, nil, fmt.Errorf("unsupported format: %q", ext)
	}
	if err != nil {
		src.Close()
		return nil, beep.Format{}, nil, fmt.Errorf("decode %s: %w", ext, err)
	}
	return streamer, format, src, nil
}

// Pause pauses playback. Returns an error when nothing is playing.
func (e *BeepEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.CanPause() || e.ctrl == nil {
		return fmt.Errorf("cannot pause while %s", e.state)
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	e.state = Paused
	return nil
}

// Resume resumes paused playback. Returns an error when nothing is paused.
func (e *BeepEngine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.CanResume() || e.ctrl == nil {
		return fmt.Errorf("cannot resume while %s", e.state)
	}
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
	e.state = Playing
	return nil
}

// Stop stops playback and releases the stream. Stopping an idle engine is
// a no-op.
func (e *BeepEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	return nil
}

func (e *BeepEngine) stopLocked() {
	e.gen++

	if e.state == Stopped {
		return
	}
	if speakerInitialized {
		speaker.Clear()
	}
	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	if e.source != nil {
		e.source.Close()
		e.source = nil
	}
	e.ctrl = nil
	e.state = Stopped
}

// State returns the current engine state.
func (e *BeepEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// OnFinished registers the end-of-stream callback. The callback runs on its
// own goroutine so it may safely call back into the engine.
func (e *BeepEngine) OnFinished(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onFinished = fn
}

func (e *BeepEngine) finished(gen int) {
	e.mu.Lock()
	if gen != e.gen {
		// A Stop or a new Play superseded this stream
		e.mu.Unlock()
		return
	}
	e.state = Ended
	fn := e.onFinished
	e.mu.Unlock()

	e.log.Debug("end of stream")
	if fn != nil {
		defer func() {
			if r := recover(); r != nil {
				e.log.Error("end-of-stream callback panicked", "panic", r)
			}
		}()
		fn()
	}
}

// Close stops playback and releases engine resources.
func (e *BeepEngine) Close() error {
	return e.Stop()
}

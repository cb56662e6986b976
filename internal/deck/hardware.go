package deck

import (
	"fmt"
	"image"

	"github.com/muesli/streamdeck"
)

// Hardware drives a real Stream Deck over USB HID.
type Hardware struct {
	dev streamdeck.Device
}

// OpenHardware opens the first Stream Deck found on the bus.
func OpenHardware() (*Hardware, error) {
	devs, err := streamdeck.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate stream decks: %w", err)
	}
	if len(devs) == 0 {
		return nil, fmt.Errorf("no stream deck device found")
	}

	dev := devs[0]
	if err := dev.Open(); err != nil {
		return nil, fmt.Errorf("open stream deck: %w", err)
	}
	if err := dev.Clear(); err != nil {
		dev.Close()
		return nil, fmt.Errorf("clear stream deck: %w", err)
	}
	return &Hardware{dev: dev}, nil
}

func (h *Hardware) KeyCount() int {
	return int(h.dev.Keys)
}

func (h *Hardware) KeySize() int {
	return int(h.dev.Pixels)
}

func (h *Hardware) SetImage(key int, img image.Image) error {
	return h.dev.SetImage(uint8(key), img)
}

func (h *Hardware) SetBrightness(percent int) error {
	if percent < 1 {
		percent = 1
	} else if percent > 100 {
		percent = 100
	}
	return h.dev.SetBrightness(uint8(percent))
}

func (h *Hardware) Events() (<-chan KeyEvent, error) {
	kch, err := h.dev.ReadKeys()
	if err != nil {
		return nil, fmt.Errorf("read keys: %w", err)
	}

	out := make(chan KeyEvent)
	go func() {
		defer close(out)
		for k := range kch {
			out <- KeyEvent{Index: int(k.Index), Pressed: k.Pressed}
		}
	}()
	return out, nil
}

func (h *Hardware) Clear() error {
	return h.dev.Clear()
}

func (h *Hardware) Close() error {
	_ = h.dev.Clear()
	return h.dev.Close()
}

// Verify Hardware implements Device at compile time.
var _ Device = (*Hardware)(nil)

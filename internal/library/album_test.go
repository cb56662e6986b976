package library

import "testing"

func threeTrackAlbum() *Album {
	return &Album{
		Name: "Test",
		Path: "/music/test",
		Type: TypeAlbum,
		Tracks: []Track{
			{Path: "/music/test/01.mp3", Name: "One", Index: 0},
			{Path: "/music/test/02.mp3", Name: "Two", Index: 1},
			{Path: "/music/test/03.mp3", Name: "Three", Index: 2},
		},
	}
}

func TestAlbumCursor(t *testing.T) {
	a := threeTrackAlbum()

	if got := a.CurrentPath(); got != "/music/test/01.mp3" {
		t.Fatalf("CurrentPath() = %q, want first track", got)
	}
	if a.IsLastTrack() {
		t.Error("IsLastTrack() true at first track")
	}

	if !a.Next() {
		t.Fatal("Next() = false at first track")
	}
	if !a.Next() {
		t.Fatal("Next() = false at second track")
	}
	if !a.IsLastTrack() {
		t.Error("IsLastTrack() false at last track")
	}
	if a.Next() {
		t.Error("Next() = true past last track")
	}
	if got := a.CurrentPath(); got != "/music/test/03.mp3" {
		t.Errorf("CurrentPath() = %q after Next past end", got)
	}

	a.ResetCursor()
	if got := a.CurrentIndex(); got != 0 {
		t.Errorf("CurrentIndex() = %d after ResetCursor", got)
	}
	if a.Previous() {
		t.Error("Previous() = true at first track")
	}
}

func TestSinglePathItem(t *testing.T) {
	a := &Album{Name: "Radio", Path: "http://example.com/stream", Type: TypeStream}

	if got := a.CurrentPath(); got != "http://example.com/stream" {
		t.Errorf("CurrentPath() = %q, want album path", got)
	}
	if a.CurrentTrack() != nil {
		t.Error("CurrentTrack() != nil for single-path item")
	}
	if got := a.CurrentIndex(); got != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", got)
	}
	// No further tracks: counts as last so playback end converges to stop.
	if !a.IsLastTrack() {
		t.Error("IsLastTrack() = false for single-path item")
	}
	if a.Next() || a.Previous() {
		t.Error("cursor moved on single-path item")
	}
	if a.MultiTrack() {
		t.Error("MultiTrack() = true for stream")
	}
}

func TestWrapWindow(t *testing.T) {
	albums := []*Album{
		{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"},
	}

	tests := []struct {
		name  string
		start int
		n     int
		want  []string
	}{
		{"from start", 0, 3, []string{"a", "b", "c"}},
		{"middle", 2, 3, []string{"c", "d", "e"}},
		{"wraps", 3, 3, []string{"d", "e", "a"}},
		{"wraps from last", 4, 3, []string{"e", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapWindow(albums, tt.start, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Errorf("window[%d] = %q, want %q", i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestWrapWindowShortList(t *testing.T) {
	albums := []*Album{{Name: "a"}, {Name: "b"}}
	got := WrapWindow(albums, 0, 3)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if WrapWindow(nil, 0, 3) != nil {
		t.Error("WrapWindow(nil) != nil")
	}
}

package portal

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveHoldLastKey(t *testing.T) {
	m := NewFrameManager(4, 4)
	if err := m.AddKey(2, KeyOptions{}); err != nil {
		t.Fatal(err)
	}
	m.PlaybackTotal = 5

	tests := []struct {
		p    int
		want int
	}{
		{0, 0}, {1, 0}, {2, 2}, {3, 2}, {4, 2}, {100, 2}, {-3, 0},
	}
	for _, tt := range tests {
		if got := m.Resolve(tt.p); got != tt.want {
			t.Errorf("Resolve(%d) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestKeyResolutionRendersKeyedFrame(t *testing.T) {
	// Frames 3, keys {0, 2}: playback 0..1 shows frame 0, 2..4 shows
	// frame 2.
	doc := NewDocument(4, 4)
	doc.Frames.AddKey(2, KeyOptions{})
	doc.Frames.PlaybackTotal = 5

	f0, _ := doc.Frames.Frame(0)
	f2, _ := doc.Frames.Frame(2)
	f0.Layers.Active().Image.Clear(Black)
	f2.Layers.Active().Image.Clear(White)

	for p := 0; p < 5; p++ {
		want := doc.RenderFrame(f0)
		if p >= 2 {
			want = doc.RenderFrame(f2)
		}
		if got := doc.Render(p); !got.Equal(want) {
			t.Errorf("Render(%d) does not match its keyed frame", p)
		}
	}
}

func TestAddKeyGrowsFrames(t *testing.T) {
	m := NewFrameManager(4, 4)
	if err := m.AddKey(5, KeyOptions{}); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 6 {
		t.Errorf("frame count = %d, want 6", m.Len())
	}
	if diff := cmp.Diff([]int{0, 5}, m.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestAddKeyDuplicateCopiesResolvedFrame(t *testing.T) {
	m := NewFrameManager(4, 4)
	m.frames[0].Layers.Active().Image.Clear(White)

	if err := m.AddKey(3, KeyOptions{Duplicate: true}); err != nil {
		t.Fatal(err)
	}
	f, _ := m.Frame(3)
	if got := f.Layers.Active().Image.GetPixel(0, 0); got != White {
		t.Errorf("duplicated key frame pixel = %v, want copied white", got)
	}
	// Deep copy, not aliased.
	f.Layers.Active().Image.Clear(Black)
	if got := m.frames[0].Layers.Active().Image.GetPixel(0, 0); got != White {
		t.Error("key frame shares buffers with its source")
	}
}

func TestAddKeyInsertLayerAndHide(t *testing.T) {
	m := NewFrameManager(4, 4)
	if err := m.AddKey(1, KeyOptions{Duplicate: true, InsertNewLayer: true, HideCurrent: true, MoveToNext: true}); err != nil {
		t.Fatal(err)
	}
	f, _ := m.Frame(1)
	if f.Layers.Len() != 2 {
		t.Fatalf("layer count = %d, want 2", f.Layers.Len())
	}
	bottom, _ := f.Layers.Layer(0)
	if bottom.Visible() {
		t.Error("previously active layer still visible after HideCurrent")
	}
	if m.CurrentIndex() != 1 {
		t.Errorf("current = %d, want 1 after MoveToNext", m.CurrentIndex())
	}
}

func TestRemoveKey(t *testing.T) {
	m := NewFrameManager(4, 4)
	m.AddKey(2, KeyOptions{})
	m.AddKey(4, KeyOptions{})

	if err := m.RemoveKey(0); !errors.Is(err, ErrLastFrame) {
		t.Errorf("RemoveKey(0) = %v, want ErrLastFrame", err)
	}
	if err := m.RemoveKey(3); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("RemoveKey(non-key) = %v, want ErrInvalidIndex", err)
	}
	if err := m.RemoveKey(2); err != nil {
		t.Fatal(err)
	}
	// The next lower key takes over the vacated range.
	if got := m.Resolve(3); got != 0 {
		t.Errorf("Resolve(3) after removal = %d, want 0", got)
	}
}

func TestMoveKeys(t *testing.T) {
	newMgr := func() *FrameManager {
		m := NewFrameManager(4, 4)
		m.AddKey(2, KeyOptions{})
		m.AddKey(3, KeyOptions{})
		m.AddKey(6, KeyOptions{})
		return m
	}

	t.Run("shift right", func(t *testing.T) {
		m := newMgr()
		if err := m.MoveKeys([]int{2, 3}, 1); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]int{0, 3, 4, 6}, m.Keys()); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("conflict with existing", func(t *testing.T) {
		m := newMgr()
		before := m.Keys()
		if err := m.MoveKeys([]int{3}, 3); !errors.Is(err, ErrKeyConflict) {
			t.Fatalf("err = %v, want ErrKeyConflict", err)
		}
		if diff := cmp.Diff(before, m.Keys()); diff != "" {
			t.Errorf("failed move mutated keys (-want +got):\n%s", diff)
		}
	})
	t.Run("negative target", func(t *testing.T) {
		m := newMgr()
		if err := m.MoveKeys([]int{2}, -5); !errors.Is(err, ErrKeyConflict) {
			t.Errorf("err = %v, want ErrKeyConflict", err)
		}
	})
	t.Run("frames travel with keys", func(t *testing.T) {
		m := newMgr()
		m.frames[2].Layers.Active().Image.Clear(White)
		if err := m.MoveKeys([]int{2}, 2); err != nil {
			t.Fatal(err)
		}
		if got := m.frames[4].Layers.Active().Image.GetPixel(0, 0); got != White {
			t.Error("frame content did not move with its key")
		}
	})
}

func TestInsertFrameAfter(t *testing.T) {
	m := NewFrameManager(4, 4)
	m.AddKey(2, KeyOptions{})
	m.frames[2].Layers.Active().Image.Clear(White)

	if err := m.InsertFrameAfter(0); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 4 {
		t.Fatalf("frame count = %d, want 4", m.Len())
	}
	if diff := cmp.Diff([]int{0, 3}, m.Keys()); diff != "" {
		t.Errorf("keys not shifted (-want +got):\n%s", diff)
	}
}

func TestDeleteFrame(t *testing.T) {
	m := NewFrameManager(4, 4)
	m.AddKey(2, KeyOptions{})
	m.AddKey(4, KeyOptions{})

	if err := m.DeleteFrame(0); !errors.Is(err, ErrLastFrame) {
		t.Errorf("DeleteFrame(0) = %v, want ErrLastFrame", err)
	}
	if err := m.DeleteFrame(2); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 4 {
		t.Errorf("frame count = %d, want 4", m.Len())
	}
	// Key 2 dropped with its frame, key 4 shifted to 3.
	if diff := cmp.Diff([]int{0, 3}, m.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestFramesShareNoBuffers(t *testing.T) {
	m := NewFrameManager(4, 4)
	m.AddKey(1, KeyOptions{Duplicate: true})

	f0, _ := m.Frame(0)
	f1, _ := m.Frame(1)
	f0.Layers.Active().Image.Clear(Black)
	if f1.Layers.Active().Image.GetPixel(0, 0).A != 0 {
		t.Error("frames alias the same pixel buffer")
	}
}

func TestPlayerAdvance(t *testing.T) {
	m := NewFrameManager(4, 4)
	m.AddKey(2, KeyOptions{})
	m.PlaybackTotal = 4

	p := NewPlayer(m)
	p.Play()
	got := []int{}
	for i := 0; i < 5; i++ {
		got = append(got, p.Advance())
	}
	if diff := cmp.Diff([]int{0, 2, 2, 0, 0}, got); diff != "" {
		t.Errorf("advance sequence mismatch (-want +got):\n%s", diff)
	}

	p.Stop()
	if p.Index() != 0 || p.Playing() {
		t.Errorf("after Stop: index=%d playing=%v", p.Index(), p.Playing())
	}
}

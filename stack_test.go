package portal

import (
	"errors"
	"image"
	"testing"
)

// checkStackInvariants asserts the structural invariants that must
// hold after every operation.
func checkStackInvariants(t *testing.T, s *LayerStack) {
	t.Helper()
	if s.Len() < 1 {
		t.Fatal("stack has no layers")
	}
	if s.ActiveIndex() < 0 || s.ActiveIndex() >= s.Len() {
		t.Fatalf("active index %d out of range [0,%d)", s.ActiveIndex(), s.Len())
	}
}

func TestLayerStackStructuralOps(t *testing.T) {
	s := NewLayerStack(8, 8)
	checkStackInvariants(t, s)

	s.Add("a")
	s.Add("b")
	checkStackInvariants(t, s)
	if s.Len() != 3 || s.Active().Name() != "b" {
		t.Fatalf("after adds: len=%d active=%q", s.Len(), s.Active().Name())
	}

	if _, err := s.Duplicate(1); err != nil {
		t.Fatal(err)
	}
	checkStackInvariants(t, s)
	if s.Active().Name() != "a copy" || s.ActiveIndex() != 2 {
		t.Fatalf("after duplicate: active=%q at %d", s.Active().Name(), s.ActiveIndex())
	}

	if err := s.MoveUp(0); err != nil {
		t.Fatal(err)
	}
	checkStackInvariants(t, s)
	if err := s.MoveDown(1); err != nil {
		t.Fatal(err)
	}
	checkStackInvariants(t, s)

	if err := s.MoveUp(s.Len() - 1); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("MoveUp on top = %v, want ErrInvalidIndex", err)
	}
	if err := s.MoveDown(0); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("MoveDown on bottom = %v, want ErrInvalidIndex", err)
	}

	for s.Len() > 1 {
		if _, err := s.Remove(0); err != nil {
			t.Fatal(err)
		}
		checkStackInvariants(t, s)
	}
}

func TestRemoveLastLayerRejected(t *testing.T) {
	s := NewLayerStack(4, 4)
	if _, err := s.Remove(0); !errors.Is(err, ErrLastLayer) {
		t.Fatalf("Remove on single layer = %v, want ErrLastLayer", err)
	}
	if s.Len() != 1 {
		t.Fatalf("stack len = %d after rejected remove, want 1", s.Len())
	}
}

func TestLayerStackInvalidIndex(t *testing.T) {
	s := NewLayerStack(4, 4)
	tests := []struct {
		name string
		call func() error
	}{
		{"remove", func() error { _, err := s.Remove(5); return err }},
		{"duplicate", func() error { _, err := s.Duplicate(-1); return err }},
		{"select", func() error { return s.Select(2) }},
		{"toggle", func() error { return s.ToggleVisibility(9) }},
		{"merge bottom", func() error { _, err := s.MergeDown(0); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrInvalidIndex) {
				t.Errorf("err = %v, want ErrInvalidIndex", err)
			}
		})
	}
}

func TestMergeDown(t *testing.T) {
	s := NewLayerStack(4, 4)
	s.Active().Image.Clear(Color{0, 0, 255, 255})

	top := s.Add("top")
	top.Image.SetPixel(1, 1, Color{255, 0, 0, 255})

	if _, err := s.MergeDown(1); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Fatalf("len after merge = %d, want 1", s.Len())
	}
	if got := s.Active().Image.GetPixel(1, 1); got != (Color{255, 0, 0, 255}) {
		t.Errorf("merged pixel = %v, want red over blue", got)
	}
	if got := s.Active().Image.GetPixel(0, 0); got != (Color{0, 0, 255, 255}) {
		t.Errorf("untouched pixel = %v, want blue", got)
	}
}

func TestMergeDownTransparentLayerNoOp(t *testing.T) {
	s := NewLayerStack(4, 4)
	s.Active().Image.Clear(White)
	before := s.Active().Image.Clone()

	s.Add("empty")
	if _, err := s.MergeDown(1); err != nil {
		t.Fatal(err)
	}
	if !s.Active().Image.Equal(before) {
		t.Error("merging a fully transparent layer changed pixels")
	}
}

func TestMergeDownAppliesOpacity(t *testing.T) {
	s := NewLayerStack(1, 1)
	s.Active().Image.Clear(Black)

	top := s.Add("half")
	top.Image.Clear(White)
	top.SetOpacity(0.5)

	if _, err := s.MergeDown(1); err != nil {
		t.Fatal(err)
	}
	got := s.Active().Image.GetPixel(0, 0)
	if got.R < 126 || got.R > 130 || got.A != 255 {
		t.Errorf("merged pixel = %v, want ≈50%% gray", got)
	}
}

func TestLayerCloneIsDeep(t *testing.T) {
	l := NewLayer(4, 4, "orig")
	l.Image.SetPixel(0, 0, White)
	l.SetOpacity(0.3)
	l.SetVisible(false)

	c := l.Clone()
	c.Image.SetPixel(0, 0, Black)
	if l.Image.GetPixel(0, 0) != White {
		t.Error("clone shares pixel buffer with original")
	}
	if c.Opacity() != 0.3 || c.Visible() {
		t.Error("clone metadata mismatch")
	}
}

func TestLayerClearWithSelection(t *testing.T) {
	l := NewLayer(6, 6, "l")
	l.Image.Clear(White)

	sel := NewSelection(6, 6)
	sel.AddRect(image.Rect(2, 2, 4, 4))
	l.Clear(sel)

	if l.Image.GetPixel(3, 3).A != 0 {
		t.Error("selected pixel not cleared")
	}
	if l.Image.GetPixel(0, 0) != White {
		t.Error("unselected pixel cleared")
	}
}

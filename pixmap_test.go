package portal

import (
	"image"
	"testing"
)

func TestPixmapPixelAccess(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want Color
		set  bool
	}{
		{name: "in bounds", x: 3, y: 4, want: Color{10, 20, 30, 40}, set: true},
		{name: "origin", x: 0, y: 0, want: Color{255, 0, 0, 255}, set: true},
		{name: "negative x", x: -1, y: 0, want: Transparent},
		{name: "negative y", x: 0, y: -1, want: Transparent},
		{name: "past width", x: 8, y: 0, want: Transparent},
		{name: "past height", x: 0, y: 8, want: Transparent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPixmap(8, 8)
			if tt.set {
				p.SetPixel(tt.x, tt.y, tt.want)
			} else {
				// Out-of-bounds writes must be ignored, not panic.
				p.SetPixel(tt.x, tt.y, White)
			}
			if got := p.GetPixel(tt.x, tt.y); got != tt.want {
				t.Errorf("GetPixel(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestPixmapBlitSourceOver(t *testing.T) {
	dst := NewPixmap(4, 4)
	dst.Clear(Color{0, 0, 255, 255})

	src := NewPixmap(4, 4)
	src.SetPixel(1, 1, Color{255, 0, 0, 255})

	dst.Blit(src, 0, 0, 255)

	if got := dst.GetPixel(1, 1); got != (Color{255, 0, 0, 255}) {
		t.Errorf("opaque source pixel = %v, want red", got)
	}
	if got := dst.GetPixel(0, 0); got != (Color{0, 0, 255, 255}) {
		t.Errorf("transparent source pixel = %v, want untouched blue", got)
	}
}

func TestPixmapBlitOpacity(t *testing.T) {
	dst := NewPixmap(1, 1)
	dst.Clear(Black)

	src := NewPixmap(1, 1)
	src.SetPixel(0, 0, White)

	dst.Blit(src, 0, 0, 128)

	got := dst.GetPixel(0, 0)
	if got.A != 255 {
		t.Fatalf("alpha = %d, want 255", got.A)
	}
	// 50% white over black lands mid-gray.
	if got.R < 126 || got.R > 130 {
		t.Errorf("channel = %d, want ≈128", got.R)
	}
}

func TestPixmapPasteSourceReplaces(t *testing.T) {
	dst := NewPixmap(4, 4)
	dst.Clear(White)

	src := NewPixmap(2, 2) // fully transparent
	dst.PasteSource(src, 1, 1)

	if got := dst.GetPixel(1, 1); got != Transparent {
		t.Errorf("pasted pixel = %v, want transparent (no blend)", got)
	}
	if got := dst.GetPixel(0, 0); got != White {
		t.Errorf("outside pixel = %v, want white", got)
	}
}

func TestPixmapSubPixmap(t *testing.T) {
	p := NewPixmap(6, 6)
	p.SetPixel(2, 3, Color{1, 2, 3, 4})

	sub := p.SubPixmap(image.Rect(2, 2, 5, 5))
	if sub.Width() != 3 || sub.Height() != 3 {
		t.Fatalf("sub dims = %dx%d, want 3x3", sub.Width(), sub.Height())
	}
	if got := sub.GetPixel(0, 1); got != (Color{1, 2, 3, 4}) {
		t.Errorf("sub pixel = %v, want copied value", got)
	}

	if sub := p.SubPixmap(image.Rect(10, 10, 12, 12)); sub != nil {
		t.Errorf("out-of-bounds sub = %v, want nil", sub)
	}
}

func TestPixmapFlipIdentity(t *testing.T) {
	p := NewPixmap(5, 3)
	p.SetPixel(1, 2, Color{9, 9, 9, 9})
	p.SetPixel(4, 0, White)

	if got := p.FlippedH().FlippedH(); !got.Equal(p) {
		t.Error("FlippedH twice is not the identity")
	}
	if got := p.FlippedV().FlippedV(); !got.Equal(p) {
		t.Error("FlippedV twice is not the identity")
	}
}

func TestPixmapRotateIdentity(t *testing.T) {
	p := NewPixmap(5, 3)
	p.SetPixel(1, 2, Color{9, 9, 9, 9})
	p.SetPixel(0, 0, White)

	got := p.Rotated90(true)
	if got.Width() != 3 || got.Height() != 5 {
		t.Fatalf("rotated dims = %dx%d, want 3x5", got.Width(), got.Height())
	}
	for i := 0; i < 3; i++ {
		got = got.Rotated90(true)
	}
	if !got.Equal(p) {
		t.Error("four clockwise quarter turns are not the identity")
	}

	back := p.Rotated90(true).Rotated90(false)
	if !back.Equal(p) {
		t.Error("cw then ccw is not the identity")
	}
}

func TestPixmapScaledBy(t *testing.T) {
	p := NewPixmap(2, 1)
	p.SetPixel(0, 0, Black)
	p.SetPixel(1, 0, White)

	s := p.ScaledBy(3)
	if s.Width() != 6 || s.Height() != 3 {
		t.Fatalf("scaled dims = %dx%d, want 6x3", s.Width(), s.Height())
	}
	if got := s.GetPixel(2, 2); got != Black {
		t.Errorf("left block pixel = %v, want black", got)
	}
	if got := s.GetPixel(3, 0); got != White {
		t.Errorf("right block pixel = %v, want white", got)
	}
}

func TestFromImageRoundTrip(t *testing.T) {
	p := NewPixmap(3, 3)
	p.SetPixel(0, 2, Color{1, 2, 3, 255})
	p.SetPixel(2, 0, Color{200, 100, 50, 128})

	if got := FromImage(p.ToImage()); !got.Equal(p) {
		t.Error("ToImage/FromImage round trip altered pixels")
	}
}

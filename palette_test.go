package portal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractPaletteFewColors(t *testing.T) {
	p := NewPixmap(8, 8)
	red := Color{255, 0, 0, 255}
	blue := Color{0, 0, 255, 255}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				p.SetPixel(x, y, red)
			} else {
				p.SetPixel(x, y, blue)
			}
		}
	}

	got := ExtractPalette(p)
	want := []string{"#0000ff", "#ff0000"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractPaletteDeterministic(t *testing.T) {
	p := NewPixmap(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			p.SetPixel(x, y, Color{uint8(x * 16), uint8(y * 16), uint8((x + y) * 8), 255})
		}
	}

	first := ExtractPalette(p)
	if len(first) != paletteSize {
		t.Fatalf("palette size = %d, want %d", len(first), paletteSize)
	}
	for i := 0; i < 3; i++ {
		if diff := cmp.Diff(first, ExtractPalette(p)); diff != "" {
			t.Fatalf("palette not deterministic (-first +rerun):\n%s", diff)
		}
	}
}

func TestExtractPaletteIgnoresTransparent(t *testing.T) {
	p := NewPixmap(4, 4)
	p.SetPixel(0, 0, White)

	got := ExtractPalette(p)
	want := []string{"#ffffff"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractPaletteEmptyImage(t *testing.T) {
	if got := ExtractPalette(NewPixmap(4, 4)); got != nil {
		t.Errorf("palette of transparent image = %v, want nil", got)
	}
}

package portal

import (
	"bytes"
	"image/gif"
	"image/png"
	"testing"
)

func TestExportPNGScale(t *testing.T) {
	doc := NewDocument(3, 2)
	doc.ActiveLayer().Image.SetPixel(0, 0, Black)

	var buf bytes.Buffer
	if err := ExportPNG(doc, 0, 4, &buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 12 || b.Dy() != 8 {
		t.Errorf("exported size = %dx%d, want 12x8", b.Dx(), b.Dy())
	}
	if c := FromColor(img.At(3, 3)); c != Black {
		t.Errorf("upscaled block pixel = %v, want black", c)
	}
	if c := FromColor(img.At(4, 0)); c.A != 0 {
		t.Errorf("pixel outside block = %v, want transparent", c)
	}
}

func TestExportGIFHoldLastKey(t *testing.T) {
	doc := NewDocument(2, 2)
	doc.Frames.AddKey(2, KeyOptions{})
	doc.Frames.PlaybackTotal = 4
	doc.Frames.FPS = 10

	f0, _ := doc.Frames.Frame(0)
	f2, _ := doc.Frames.Frame(2)
	f0.Layers.Active().Image.Clear(Color{255, 0, 0, 255})
	f2.Layers.Active().Image.Clear(Color{0, 0, 255, 255})

	var buf bytes.Buffer
	if err := ExportGIF(doc, 1, &buf); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 4 {
		t.Fatalf("frame count = %d, want 4 (one per playback index)", len(anim.Image))
	}
	if anim.LoopCount != 0 {
		t.Errorf("loop count = %d, want 0 (infinite)", anim.LoopCount)
	}
	for i, d := range anim.Delay {
		if d != 10 {
			t.Errorf("frame %d delay = %d, want 10cs (100/fps)", i, d)
		}
	}

	// Frames 0-1 hold key 0 (red), frames 2-3 hold key 2 (blue).
	red := FromColor(anim.Image[0].At(0, 0))
	blue := FromColor(anim.Image[2].At(0, 0))
	if red.R != 255 || red.B != 0 {
		t.Errorf("playback frame 0 color = %v, want red", red)
	}
	if blue.B != 255 || blue.R != 0 {
		t.Errorf("playback frame 2 color = %v, want blue", blue)
	}
	if got := FromColor(anim.Image[1].At(0, 0)); got != red {
		t.Errorf("playback frame 1 = %v, want held red", got)
	}
}

func TestFramePaletteExactColors(t *testing.T) {
	p := NewPixmap(4, 1)
	p.SetPixel(0, 0, Color{255, 0, 0, 255})
	p.SetPixel(1, 0, Color{0, 255, 0, 255})
	// Two transparent pixels share palette index 0.

	pal := framePalette(p)
	if len(pal) != 3 {
		t.Errorf("palette size = %d, want transparent + 2 colors", len(pal))
	}
}

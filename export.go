package portal

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
)

// ExportPNG renders the composite of playback index p upscaled by an
// integer pixel-size factor (nearest-neighbor) and writes it as PNG.
func ExportPNG(doc *Document, p int, pixelSize int, w io.Writer) error {
	if pixelSize < 1 {
		pixelSize = 1
	}
	img := doc.Render(p).ScaledBy(pixelSize)
	if err := png.Encode(w, img.ToImage()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// ExportPNGFile renders playback index p to a PNG file.
func ExportPNGFile(doc *Document, p int, pixelSize int, path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	if err := ExportPNG(doc, p, pixelSize, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// framePalette builds the GIF palette for an image: the exact colors
// when at most 255 distinct opaque values are used, the Plan9 palette
// otherwise. Index 0 is reserved for transparency.
func framePalette(img *Pixmap) color.Palette {
	seen := map[Color]struct{}{}
	data := img.Data()
	for i := 0; i < len(data); i += 4 {
		if data[i+3] == 0 {
			continue
		}
		c := Color{R: data[i], G: data[i+1], B: data[i+2], A: 255}
		seen[c] = struct{}{}
		if len(seen) > 255 {
			pal := make(color.Palette, len(palette.Plan9))
			copy(pal, palette.Plan9)
			pal[0] = color.NRGBA{}
			return pal
		}
	}
	pal := color.Palette{color.NRGBA{}}
	// Deterministic palette order: scan pixels again in raster order.
	added := map[Color]struct{}{}
	for i := 0; i < len(data); i += 4 {
		if data[i+3] == 0 {
			continue
		}
		c := Color{R: data[i], G: data[i+1], B: data[i+2], A: 255}
		if _, ok := added[c]; ok {
			continue
		}
		added[c] = struct{}{}
		pal = append(pal, c.NRGBA())
	}
	return pal
}

// ExportGIF writes a looping GIF animation: one frame per playback
// index from 0 to PlaybackTotal-1 using hold-last-key resolution, each
// upscaled by pixelSize, with a per-frame delay of 100/fps
// centiseconds.
func ExportGIF(doc *Document, pixelSize int, w io.Writer) error {
	if pixelSize < 1 {
		pixelSize = 1
	}
	fps := doc.Frames.FPS
	if fps < 1 {
		fps = 1
	}
	delay := 100 / fps
	if delay < 1 {
		delay = 1
	}

	anim := &gif.GIF{LoopCount: 0}
	total := doc.Frames.PlaybackTotal
	if total < 1 {
		total = 1
	}
	for p := 0; p < total; p++ {
		frame := doc.Render(p).ScaledBy(pixelSize)
		src := frame.ToImage()
		pal := framePalette(frame)
		dst := image.NewPaletted(src.Bounds(), pal)
		// Nearest-palette mapping, no dithering: pixel art stays
		// exact when the palette holds the true colors.
		draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
		anim.Image = append(anim.Image, dst)
		anim.Delay = append(anim.Delay, delay)
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
	}

	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

// ExportGIFFile writes the GIF animation to a file.
func ExportGIFFile(doc *Document, pixelSize int, path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("export gif: %w", err)
	}
	if err := ExportGIF(doc, pixelSize, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
